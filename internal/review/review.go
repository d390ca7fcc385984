// Package review walks the user through consolidated employees and keeps the
// ones they accept. High-confidence records are accepted without asking,
// medium ones only when the user opts in, and low ones are always shown.
package review

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/employee-discovery/internal/employee"
	"github.com/JakeFAU/employee-discovery/internal/prompt"
)

// Options picks which groups are reviewed by hand.
type Options struct {
	// KeepAll accepts every record without review.
	KeepAll bool
	// ReviewMedium shows medium-confidence records instead of accepting them.
	ReviewMedium bool
}

// Choice is an answer to "Keep this record?".
type Choice int

// Review answers.
const (
	Keep Choice = iota
	Skip
	KeepRest
	SkipRest
)

// ParseChoice reads y/Enter, n, q and s. ok is false for anything else.
func ParseChoice(answer string) (c Choice, ok bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "", "y":
		return Keep, true
	case "n":
		return Skip, true
	case "q":
		return KeepRest, true
	case "s":
		return SkipRest, true
	default:
		return Keep, false
	}
}

const (
	keepPrompt = "Keep this record? (y/n/q/s): "
	badChoice  = "Please enter 'y', 'n', 'q', or 's'."
	detailRule = 60
)

// Reviewer asks about records on a console.
type Reviewer struct {
	console *prompt.Console
	logger  *zap.Logger
}

// New creates a Reviewer.
func New(console *prompt.Console, logger *zap.Logger) *Reviewer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reviewer{console: console, logger: logger}
}

// AskOptions asks whether to skip the review and, if not, whether to review
// the medium-confidence group. Both default to no.
func (r *Reviewer) AskOptions() (Options, error) {
	r.console.Println("\nReview Options:")
	answer, err := r.console.Ask("Skip manual review and keep all records? (y/n, default: n): ")
	if err != nil {
		return Options{}, err
	}
	if strings.EqualFold(answer, "y") {
		return Options{KeepAll: true}, nil
	}
	answer, err = r.console.Ask("Review medium confidence records? (y/n, default: n): ")
	if err != nil {
		return Options{}, err
	}
	return Options{ReviewMedium: strings.EqualFold(answer, "y")}, nil
}

// Review returns the accepted records, high group first, then medium, then
// low. Input order is kept within each group.
func (r *Reviewer) Review(ctx context.Context, records []employee.Record, opts Options) ([]employee.Record, error) {
	if opts.KeepAll {
		r.logger.Info("skipping review, keeping all records", zap.Int("records", len(records)))
		return append([]employee.Record(nil), records...), nil
	}

	groups := make(map[employee.Confidence][]employee.Record, 3)
	for _, rec := range records {
		groups[rec.Confidence] = append(groups[rec.Confidence], rec)
	}

	var accepted []employee.Record
	accepted = append(accepted, groups[employee.High]...)
	if n := len(groups[employee.High]); n > 0 {
		r.logger.Info("auto-accepted high confidence records", zap.Int("records", n))
	}

	if opts.ReviewMedium {
		kept, err := r.group(ctx, groups[employee.Medium], "medium confidence")
		if err != nil {
			return accepted, err
		}
		accepted = append(accepted, kept...)
	} else {
		accepted = append(accepted, groups[employee.Medium]...)
	}

	kept, err := r.group(ctx, groups[employee.Low], "low confidence")
	if err != nil {
		return accepted, err
	}
	accepted = append(accepted, kept...)

	r.logger.Info("review complete", zap.Int("kept", len(accepted)), zap.Int("total", len(records)))
	return accepted, nil
}

func (r *Reviewer) group(ctx context.Context, records []employee.Record, name string) ([]employee.Record, error) {
	if len(records) == 0 {
		return nil, nil
	}
	r.console.Printf("\nReviewing %d %s records.\n", len(records), name)
	r.console.Println("Options for each record:")
	r.console.Println("  'y' or Enter: Keep record")
	r.console.Println("  'n': Skip record")
	r.console.Println("  'q': Keep all remaining records")
	r.console.Println("  's': Skip all remaining records")

	var kept []employee.Record
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return kept, fmt.Errorf("review: %w", err)
		}
		r.show(rec, i+1, len(records))
		choice, err := r.ask()
		if err != nil {
			return kept, fmt.Errorf("review: %w", err)
		}
		switch choice {
		case Keep:
			kept = append(kept, rec)
		case KeepRest:
			r.console.Println("Keeping all remaining records.")
			return append(kept, records[i:]...), nil
		case SkipRest:
			r.console.Println("Skipping all remaining records.")
			return kept, nil
		}
	}
	return kept, nil
}

func (r *Reviewer) ask() (Choice, error) {
	for {
		answer, err := r.console.Ask(keepPrompt)
		if err != nil {
			return Skip, err
		}
		if c, ok := ParseChoice(answer); ok {
			return c, nil
		}
		r.console.Println(r.console.Theme().Failure(badChoice))
	}
}

func (r *Reviewer) show(rec employee.Record, index, total int) {
	heading := fmt.Sprintf("Employee %d/%d | Confidence: %s", index, total, strings.ToUpper(string(rec.Confidence)))
	r.console.Println("")
	r.console.Println(r.console.Theme().Banner(heading, detailRule))
	r.console.Printf("Name:      %s %s\n", rec.FirstName, rec.LastName)
	r.console.Printf("Title:     %s\n", orNA(rec.Title))
	r.console.Printf("Source:    %s\n", orNA(rec.Source))
	r.console.Printf("Location:  %s\n", orNA(rec.Location))
	r.console.Printf("Link:      %s\n", orNA(rec.Link))
	r.console.Println(strings.Repeat("=", detailRule))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
