// Package dispatcher turns a menu selection into a script launch or, when the
// script is missing, a generated placeholder. It also sequences run-all.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/employee-discovery/internal/launcher"
	"github.com/JakeFAU/employee-discovery/internal/search"
	"github.com/JakeFAU/employee-discovery/internal/target"
)

// Launcher starts a script without waiting for it.
type Launcher interface {
	Launch(ctx context.Context, req launcher.Request) (*launcher.Handle, error)
}

// Placeholders writes a stand-in script for a method.
type Placeholders interface {
	Write(ctx context.Context, m search.Method, script string) (string, error)
}

// Records persists the config record.
type Records interface {
	Save(ctx context.Context, cfg target.Config) error
}

// Scripts resolves script names inside the work directory.
type Scripts interface {
	Path(name string) (string, error)
	Exists(name string) (bool, error)
}

// Sleeper pauses between run-all steps. It returns early when ctx ends.
type Sleeper func(ctx context.Context, d time.Duration) error

// Action is what a dispatch did.
type Action int

// Dispatch actions.
const (
	ActionLaunched Action = iota
	ActionPlaceholder
	ActionFailed
)

func (a Action) String() string {
	switch a {
	case ActionLaunched:
		return "launched"
	case ActionPlaceholder:
		return "placeholder"
	default:
		return "failed"
	}
}

// Outcome reports one dispatched method.
type Outcome struct {
	Method search.Method
	Script string
	Action Action
	// Handle is set for ActionLaunched.
	Handle *launcher.Handle
	Err    error
}

// Config tunes run-all pacing.
type Config struct {
	RunAllDelay time.Duration
	// Sleep defaults to a context-aware timer.
	Sleep Sleeper
}

// Dispatcher executes menu selections.
type Dispatcher struct {
	cfg          Config
	launcher     Launcher
	placeholders Placeholders
	records      Records
	scripts      Scripts
	out          io.Writer
	logger       *zap.Logger
}

// New creates a Dispatcher that reports progress to out.
func New(
	cfg Config,
	l Launcher,
	p Placeholders,
	records Records,
	scripts Scripts,
	out io.Writer,
	logger *zap.Logger,
) *Dispatcher {
	if cfg.Sleep == nil {
		cfg.Sleep = sleep
	}
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		cfg:          cfg,
		launcher:     l,
		placeholders: p,
		records:      records,
		scripts:      scripts,
		out:          out,
		logger:       logger,
	}
}

// Dispatch runs sel against cfg. Exit selections do nothing.
func (d *Dispatcher) Dispatch(ctx context.Context, sel search.Selection, cfg *target.Config) ([]Outcome, error) {
	switch sel.Kind {
	case search.KindMethod:
		o := d.DispatchMethod(ctx, sel.Method, cfg)
		return []Outcome{o}, o.Err
	case search.KindRunAll:
		return d.RunAll(ctx, cfg)
	default:
		return nil, nil
	}
}

// DispatchMethod records m in cfg, saves it, then launches the method's
// script or writes a placeholder when the script is absent.
func (d *Dispatcher) DispatchMethod(ctx context.Context, m search.Method, cfg *target.Config) Outcome {
	label := m.Label()
	cfg.RecordSearch(m.Token(), label)
	if err := d.records.Save(ctx, *cfg); err != nil {
		d.logger.Warn("failed to save config record before dispatch",
			zap.String("method", m.Token()), zap.Error(err))
	}

	out := Outcome{Method: m, Action: ActionFailed}
	script, err := d.scripts.Path(m.Script())
	if err != nil {
		out.Err = fmt.Errorf("resolve %s: %w", m.Script(), err)
		d.printf("Error: %v\n", out.Err)
		return out
	}
	out.Script = script

	d.printf("\nLaunching: %s\n", label)
	d.printf("Script path: %s\n", script)

	exists, err := d.scripts.Exists(m.Script())
	if err != nil {
		out.Err = err
		d.printf("Error: %v\n", err)
		return out
	}
	if exists {
		return d.launch(ctx, m, out)
	}
	return d.synthesize(ctx, m, out)
}

func (d *Dispatcher) launch(ctx context.Context, m search.Method, out Outcome) Outcome {
	h, err := d.launcher.Launch(ctx, launcher.Request{Token: m.Token(), Script: out.Script})
	if err != nil {
		out.Err = fmt.Errorf("launch %s: %w", m.Label(), err)
		d.printf("Error launching script: %v\n", err)
		d.logger.Error("search script failed to start", zap.String("script", out.Script), zap.Error(err))
		return out
	}
	out.Action = ActionLaunched
	out.Handle = h
	d.printf("%s launched successfully.\n", m.Label())
	d.printf("Check the script's console for progress updates.\n")
	return out
}

func (d *Dispatcher) synthesize(ctx context.Context, m search.Method, out Outcome) Outcome {
	d.printf("Error: Script not found at %s\n", out.Script)
	if m == search.LinkedInGeek {
		d.printf("\nThe %s file needs to be created.\n", m.Script())
		d.printf("   This should contain your Recruitment Geek LinkedIn search implementation.\n")
	} else {
		d.printf("Creating script placeholder...\n")
	}
	path, err := d.placeholders.Write(ctx, m, m.Script())
	if err != nil {
		out.Err = fmt.Errorf("placeholder for %s: %w", m.Label(), err)
		d.printf("Error creating placeholder: %v\n", err)
		return out
	}
	out.Action = ActionPlaceholder
	out.Script = path
	d.printf("Created placeholder at %s\n", path)
	d.printf("Edit this file to implement %s functionality.\n", m.Label())
	return out
}

// RunAll dispatches every method in registry order, pausing between them.
// A failed method never stops the sequence; failures are joined at the end.
func (d *Dispatcher) RunAll(ctx context.Context, cfg *target.Config) ([]Outcome, error) {
	d.printf("\nRunning all search methods sequentially...\n")
	methods := search.Methods()
	outcomes := make([]Outcome, 0, len(methods))
	var errs []error
	for i, m := range methods {
		if i > 0 {
			if err := d.cfg.Sleep(ctx, d.cfg.RunAllDelay); err != nil {
				errs = append(errs, err)
				break
			}
		}
		d.printf("\n--- Running search option %s ---\n", m.Token())
		o := d.DispatchMethod(ctx, m, cfg)
		outcomes = append(outcomes, o)
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return outcomes, errors.Join(errs...)
}

func (d *Dispatcher) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(d.out, format, args...)
}

func sleep(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return nil
	}
	t := time.NewTimer(dur)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("run-all interrupted: %w", ctx.Err())
	}
}
