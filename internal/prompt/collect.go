package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/employee-discovery/internal/target"
)

// Records persists the collected record.
type Records interface {
	Save(ctx context.Context, cfg target.Config) error
	Touch(cfg *target.Config)
}

// Collector asks for the company details and saves them.
type Collector struct {
	console *Console
	records Records
	logger  *zap.Logger
}

// NewCollector creates a Collector.
func NewCollector(console *Console, records Records, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{console: console, records: records, logger: logger}
}

// errRestart signals an empty required answer with nothing to fall back on.
type errRestart struct{ field string }

func (e errRestart) Error() string { return e.field + " cannot be empty." }

// Collect walks the user through every field, starting from base. Empty
// answers keep the previous value; an empty required field with no previous
// value discards this round's answers and starts over from base. The result
// is saved before it is returned.
func (c *Collector) Collect(ctx context.Context, base target.Config) (target.Config, error) {
	for {
		if err := ctx.Err(); err != nil {
			return base, fmt.Errorf("collect company info: %w", err)
		}
		cfg, err := c.round(base)
		var restart errRestart
		if errors.As(err, &restart) {
			c.console.Println(c.console.Theme().Failure(restart.Error()))
			continue
		}
		if err != nil {
			return base, fmt.Errorf("collect company info: %w", err)
		}
		if verr := cfg.Validate(); verr != nil {
			c.logger.Warn("company info incomplete", zap.Error(verr))
		}
		c.records.Touch(&cfg)
		if err := c.records.Save(ctx, cfg); err != nil {
			return cfg, fmt.Errorf("save config record: %w", err)
		}
		c.logger.Info("company info saved",
			zap.String("company", cfg.CompanyName),
			zap.String("location", cfg.Location),
			zap.String("output_file", cfg.OutputFile))
		return cfg, nil
	}
}

func (c *Collector) round(base target.Config) (target.Config, error) {
	cfg := base
	cfg.SearchTypes = append([]string(nil), base.SearchTypes...)

	c.console.Println("")
	c.console.Println(c.console.Theme().Banner("EMPLOYEE DISCOVERY TOOLKIT: COMPANY INFORMATION", 60))

	var err error
	if cfg.CompanyName, err = c.required("Enter company name", "Company name", cfg.CompanyName); err != nil {
		return cfg, err
	}
	if cfg.Location, err = c.required("Enter location (city, state, country)", "Location", cfg.Location); err != nil {
		return cfg, err
	}
	website, err := c.required("Enter company website (e.g., www.example.com)", "Company website", cfg.CompanyWebsite)
	if err != nil {
		return cfg, err
	}
	cfg.CompanyWebsite = target.NormalizeWebsite(website)

	if cfg.PagesToScrape, err = c.pages(cfg.PagesToScrape); err != nil {
		return cfg, err
	}
	if cfg.DebugMode, err = c.debug(cfg.DebugMode); err != nil {
		return cfg, err
	}

	cfg.OutputFile = target.DeriveOutputFile(cfg.CompanyName, cfg.Location)
	return cfg, nil
}

func (c *Collector) required(question, field, current string) (string, error) {
	prompt := question + ": "
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]: ", question, current)
	}
	answer, err := c.console.Ask(prompt)
	if err != nil {
		return current, err
	}
	if answer != "" {
		return answer, nil
	}
	if current == "" {
		return current, errRestart{field: field}
	}
	return current, nil
}

func (c *Collector) pages(current int) (int, error) {
	answer, err := c.console.Ask(fmt.Sprintf("Enter number of search pages to scrape [default: %d]: ", current))
	if err != nil {
		return current, err
	}
	if answer == "" {
		return current, nil
	}
	n, convErr := strconv.Atoi(answer)
	if convErr != nil || n < 1 {
		c.console.Println(c.console.Theme().Failure(
			fmt.Sprintf("Invalid input, using default of %d pages.", current)))
		return current, nil
	}
	return n, nil
}

func (c *Collector) debug(current bool) (bool, error) {
	def := "y"
	if !current {
		def = "n"
	}
	answer, err := c.console.Ask(fmt.Sprintf("Enable debug mode for verbose output? (y/n) [default: %s]: ", def))
	if err != nil {
		return current, err
	}
	if answer == "" {
		return current, nil
	}
	return strings.ToLower(answer) != "n", nil
}
