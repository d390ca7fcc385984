// Package menu runs the interactive selection loop: show the search methods,
// read a token, hand it to the dispatcher, and come back until the user exits.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/employee-discovery/internal/dispatcher"
	"github.com/JakeFAU/employee-discovery/internal/prompt"
	"github.com/JakeFAU/employee-discovery/internal/search"
	"github.com/JakeFAU/employee-discovery/internal/target"
)

// Dispatcher executes a parsed selection against the record.
type Dispatcher interface {
	Dispatch(ctx context.Context, sel search.Selection, cfg *target.Config) ([]dispatcher.Outcome, error)
}

// Observer counts menu entries.
type Observer interface {
	ObserveSelection(token string)
}

// Config tunes the loop.
type Config struct {
	InvalidDelay time.Duration
	// Sleep defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

const (
	returnPrompt = "\nPress Enter to return to the main menu..."
	goodbye      = "\nExiting Employee Discovery Toolkit. Goodbye!"
)

var (
	choicePrompt  = fmt.Sprintf("\nEnter your choice (%s): ", strings.Join(search.Tokens(), ", "))
	invalidChoice = fmt.Sprintf("Invalid option. Please select %s.", orList(search.Tokens()))
)

// orList joins items as "a, b, or c".
func orList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", or " + items[len(items)-1]
}

var runAllDescription = []string{
	"Execute all search methods sequentially",
	"Comprehensive but time-consuming",
}

// Session is one interactive menu loop.
type Session struct {
	cfg        Config
	console    *prompt.Console
	dispatcher Dispatcher
	observer   Observer
	logger     *zap.Logger
}

// NewSession wires a Session. observer may be nil.
func NewSession(cfg Config, console *prompt.Console, d Dispatcher, observer Observer, logger *zap.Logger) *Session {
	if cfg.Sleep == nil {
		cfg.Sleep = sleep
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{cfg: cfg, console: console, dispatcher: d, observer: observer, logger: logger}
}

// Render returns the menu text for rec.
func (s *Session) Render(rec target.Config) string {
	theme := s.console.Theme()
	var b strings.Builder
	b.WriteString(theme.Banner("EMPLOYEE DISCOVERY TOOLKIT: SEARCH METHOD SELECTION", 70))
	b.WriteString("\n\nSelect a search method to find employees:\n")
	for _, m := range search.Methods() {
		opt := m.Option()
		writeEntry(&b, theme, opt.Token, opt.Label, opt.Description)
	}
	writeEntry(&b, theme, search.RunAllToken, search.RunAllLabel, runAllDescription)
	writeEntry(&b, theme, search.ExitToken, "Exit", nil)
	fmt.Fprintf(&b, "\nCurrent target: %s in %s\n", orNotSet(rec.CompanyName), orNotSet(rec.Location))
	return b.String()
}

func writeEntry(b *strings.Builder, theme prompt.Theme, token, label string, description []string) {
	fmt.Fprintf(b, "\n%s %s\n", theme.Token(fmt.Sprintf("%-3s", token+".")), label)
	for _, line := range description {
		b.WriteString(theme.Muted("    - "+line) + "\n")
	}
}

func orNotSet(s string) string {
	if s == "" {
		return "Not set"
	}
	return s
}

// Run shows the menu until the user picks exit, input ends, or ctx is done.
// Dispatch failures are reported and never end the loop.
func (s *Session) Run(ctx context.Context, rec *target.Config) error {
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("menu: %w", err)
		}
		s.console.Println("")
		s.console.Printf("%s", s.Render(*rec))

		answer, err := s.console.Ask(choicePrompt)
		if errors.Is(err, io.EOF) {
			s.console.Println(goodbye)
			return nil
		}
		if err != nil {
			return fmt.Errorf("menu: %w", err)
		}

		sel, err := search.Parse(answer)
		s.observe(answer, err)
		if err != nil {
			s.console.Println(s.console.Theme().Failure(invalidChoice))
			if err := s.cfg.Sleep(ctx, s.cfg.InvalidDelay); err != nil {
				return err
			}
			continue
		}
		if sel.Kind == search.KindExit {
			s.console.Println(goodbye)
			return nil
		}

		outcomes, err := s.dispatcher.Dispatch(ctx, sel, rec)
		if err != nil {
			s.logger.Warn("dispatch finished with failures", zap.Error(err))
		}
		s.logger.Debug("dispatch complete", zap.Int("outcomes", len(outcomes)))

		if err := s.console.Pause(returnPrompt); err != nil {
			if errors.Is(err, io.EOF) {
				s.console.Println(goodbye)
				return nil
			}
			return fmt.Errorf("menu: %w", err)
		}
	}
}

func (s *Session) observe(answer string, parseErr error) {
	if s.observer == nil {
		return
	}
	if parseErr != nil {
		s.observer.ObserveSelection("invalid")
		return
	}
	s.observer.ObserveSelection(strings.ToLower(strings.TrimSpace(answer)))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("menu: %w", ctx.Err())
	}
}
