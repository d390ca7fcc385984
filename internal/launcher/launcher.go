// Package launcher spawns search scripts as independent child processes and
// hands back an observable Handle for each one. The caller never blocks on a
// child: one goroutine per child waits on it, records the result, and emits
// progress events.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JakeFAU/employee-discovery/internal/progress"
)

// IDGenerator produces launch identifiers.
type IDGenerator interface {
	NewRawID() (uuid.UUID, error)
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// Config controls how children are started.
type Config struct {
	// Interpreter runs every script, e.g. "python3".
	Interpreter string
	// Workdir is the child's working directory.
	Workdir string
	// Stdin, Stdout and Stderr are inherited by children on platforms that
	// share the parent's terminal. Nil leaves the stream unattached.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Request names the script to run and the menu token that picked it.
type Request struct {
	Token  string
	Script string
}

// Result is the outcome of a finished child.
type Result struct {
	ExitCode int
	Duration time.Duration
	// Err is set when waiting failed for a reason other than a non-zero exit.
	Err error
}

// Success reports whether the child exited cleanly.
func (r Result) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Handle observes one running child.
type Handle struct {
	ID      uuid.UUID
	PID     int
	Token   string
	Script  string
	Started time.Time

	done   chan struct{}
	result Result
}

// Done is closed once the child has exited and Result is available.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the child exits or ctx ends.
func (h *Handle) Wait(ctx context.Context) (Result, error) {
	select {
	case <-h.done:
		return h.result, nil
	case <-ctx.Done():
		return Result{}, fmt.Errorf("wait for %s: %w", h.Script, ctx.Err())
	}
}

// Result returns the outcome without blocking. ok is false while the child runs.
func (h *Handle) Result() (res Result, ok bool) {
	select {
	case <-h.done:
		return h.result, true
	default:
		return Result{}, false
	}
}

// Launcher starts scripts with a fixed interpreter.
type Launcher struct {
	cfg     Config
	ids     IDGenerator
	clock   Clock
	emitter progress.Emitter
	logger  *zap.Logger

	running atomic.Int64
}

// New creates a Launcher. A nil emitter discards events.
func New(cfg Config, ids IDGenerator, clock Clock, emitter progress.Emitter, logger *zap.Logger) *Launcher {
	if emitter == nil {
		emitter = progress.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Launcher{
		cfg:     cfg,
		ids:     ids,
		clock:   clock,
		emitter: emitter,
		logger:  logger,
	}
}

// Launch spawns `<interpreter> <script>` and returns as soon as the process
// exists. The child is not bound to ctx and outlives the session.
func (l *Launcher) Launch(ctx context.Context, req Request) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("launch %s: %w", req.Script, err)
	}
	if req.Script == "" {
		return nil, errors.New("launch: script path is required")
	}
	id, err := l.ids.NewRawID()
	if err != nil {
		return nil, fmt.Errorf("launch id: %w", err)
	}

	cmd := exec.Command(l.cfg.Interpreter, req.Script) //nolint:gosec // interpreter and script come from local settings.
	cmd.Dir = l.cfg.Workdir
	attachConsole(cmd, l.cfg)

	start := l.clock.Now()
	if err := cmd.Start(); err != nil {
		l.emitter.Emit(progress.Event{
			LaunchID: progress.UUIDToBytes(id),
			TS:       start,
			Stage:    progress.StageLaunchError,
			Token:    req.Token,
			Script:   req.Script,
			Note:     err.Error(),
		})
		return nil, fmt.Errorf("start %s: %w", req.Script, err)
	}

	h := &Handle{
		ID:      id,
		PID:     cmd.Process.Pid,
		Token:   req.Token,
		Script:  req.Script,
		Started: start,
		done:    make(chan struct{}),
	}
	l.running.Add(1)
	l.emitter.Emit(progress.Event{
		LaunchID: progress.UUIDToBytes(id),
		TS:       start,
		Stage:    progress.StageLaunchStart,
		Token:    req.Token,
		Script:   req.Script,
		PID:      h.PID,
	})
	l.logger.Debug("search script started",
		zap.String("launch_id", id.String()),
		zap.Int("pid", h.PID),
		zap.String("script", req.Script))

	go l.watch(cmd, h)
	return h, nil
}

func (l *Launcher) watch(cmd *exec.Cmd, h *Handle) {
	defer l.running.Add(-1)

	waitErr := cmd.Wait()
	res := Result{ExitCode: cmd.ProcessState.ExitCode()}
	res.Duration = l.clock.Now().Sub(h.Started)
	if res.Duration < 0 {
		res.Duration = 0
	}
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		res.Err = waitErr
	}
	h.result = res
	close(h.done)

	evt := progress.Event{
		LaunchID: progress.UUIDToBytes(h.ID),
		TS:       l.clock.Now(),
		Stage:    progress.StageLaunchExit,
		Token:    h.Token,
		Script:   h.Script,
		PID:      h.PID,
		ExitCode: res.ExitCode,
		Dur:      res.Duration,
	}
	if res.Err != nil {
		evt.Stage = progress.StageLaunchError
		evt.Note = res.Err.Error()
	}
	l.emitter.Emit(evt)
	l.logger.Debug("search script exited",
		zap.String("launch_id", h.ID.String()),
		zap.Int("exit_code", res.ExitCode),
		zap.Duration("dur", res.Duration))
}

// Running reports how many children have not exited yet.
func (l *Launcher) Running() int {
	return int(l.running.Load())
}
