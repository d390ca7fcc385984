// Package bootstrap makes sure the interpreter that runs the search scripts
// can import the packages those scripts need, installing the missing ones
// with pip in a single call.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/employee-discovery/internal/shell"
)

// Package pairs a pip distribution name with the module it provides.
type Package struct {
	Name   string
	Module string
}

// ParsePackages reads "pip-name[:import-name]" entries. A missing import name
// is derived from the pip name with dashes turned into underscores.
func ParsePackages(specs []string) ([]Package, error) {
	out := make([]Package, 0, len(specs))
	for _, raw := range specs {
		spec := strings.TrimSpace(raw)
		if spec == "" {
			continue
		}
		name, module, _ := strings.Cut(spec, ":")
		name = strings.TrimSpace(name)
		module = strings.TrimSpace(module)
		if name == "" {
			return nil, fmt.Errorf("package %q has no pip name", raw)
		}
		if module == "" {
			module = strings.ReplaceAll(name, "-", "_")
		}
		out = append(out, Package{Name: name, Module: module})
	}
	return out, nil
}

// Checker checks for and installs packages through the interpreter.
type Checker struct {
	runner      shell.Runner
	interpreter string
	dir         string
	out         io.Writer
	logger      *zap.Logger
}

// NewChecker creates a Checker that runs interpreter in dir and reports to out.
func NewChecker(runner shell.Runner, interpreter, dir string, out io.Writer, logger *zap.Logger) *Checker {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{runner: runner, interpreter: interpreter, dir: dir, out: out, logger: logger}
}

// Missing returns the packages whose module cannot be imported.
func (c *Checker) Missing(ctx context.Context, pkgs []Package) []Package {
	var missing []Package
	for _, pkg := range pkgs {
		if _, err := c.runner.Run(ctx, c.dir, c.interpreter, "-c", "import "+pkg.Module); err != nil {
			c.logger.Debug("package not importable", zap.String("module", pkg.Module), zap.Error(err))
			missing = append(missing, pkg)
		}
	}
	return missing
}

// Ensure installs every missing package with one pip call. It returns false
// when the installer fails, after printing the manual install command.
func (c *Checker) Ensure(ctx context.Context, pkgs []Package) bool {
	missing := c.Missing(ctx, pkgs)
	if len(missing) == 0 {
		return true
	}
	names := make([]string, 0, len(missing))
	for _, pkg := range missing {
		names = append(names, pkg.Name)
	}
	c.printf("Installing missing packages: %s\n", strings.Join(names, ", "))

	args := append([]string{"-m", "pip", "install"}, names...)
	if out, err := c.runner.Run(ctx, c.dir, c.interpreter, args...); err != nil {
		c.logger.Warn("package install failed",
			zap.Strings("packages", names),
			zap.ByteString("output", out),
			zap.Error(err))
		c.printf("Failed to install packages: %v\n", err)
		c.printf("Please install these packages manually:\n")
		c.printf("pip install %s\n", strings.Join(names, " "))
		return false
	}
	c.printf("Packages installed successfully.\n")
	return true
}

func (c *Checker) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}
