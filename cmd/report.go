package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/employee-discovery/internal/app"
	"github.com/JakeFAU/employee-discovery/internal/employee"
	"github.com/JakeFAU/employee-discovery/internal/report"
	"github.com/JakeFAU/employee-discovery/internal/target"
)

func newReportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the Excel report from the verified or consolidated employees",
		Long: `Writes an Excel workbook with Employees, Summary and Instructions sheets.
The verified employee list is used when it holds any records; otherwise the
lists are consolidated first. The workbook goes to the output_file named in
company_config.json unless --output is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			res, err := reportEmployees(ctx, a)
			if err != nil {
				return err
			}

			rec := a.Records.Load(ctx)
			path, err := reportPath(a.Files.Path, rec, output)
			if err != nil {
				return err
			}
			err = report.Write(path, report.Report{
				Company:   rec.CompanyName,
				Location:  rec.Location,
				Source:    filepath.Base(res.Path),
				Generated: a.Clock.Now(),
				Employees: res.Employees,
				Stats:     res.Stats,
			})
			if err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			a.Logger.Info("report written", zap.String("path", path), zap.Int("employees", res.Stats.Total))
			a.Console.Printf("\nExcel report saved to %s\n", path)
			printStats(a, res.Stats)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "workbook path (defaults to the record's output_file)")
	return cmd
}

// reportEmployees prefers the verified list and falls back to consolidation.
func reportEmployees(ctx context.Context, a *app.App) (employee.Result, error) {
	verified, err := a.Consolidator.LoadVerified(ctx)
	if err != nil {
		return employee.Result{}, err
	}
	if len(verified) == 0 {
		return consolidate(ctx, a)
	}
	path, err := a.Files.Path(a.Consolidator.VerifiedFile())
	if err != nil {
		return employee.Result{}, fmt.Errorf("resolve verified list: %w", err)
	}
	a.Logger.Info("using verified employees", zap.Int("total", len(verified)))
	return employee.Result{
		Path:      path,
		Employees: verified,
		Stats:     employee.Summarize(verified),
	}, nil
}

// reportPath picks the workbook location. Relative names land in the work
// directory.
func reportPath(resolve func(string) (string, error), rec target.Config, override string) (string, error) {
	if override != "" {
		return filepath.Abs(override)
	}
	name := rec.OutputFile
	if name == "" {
		name = target.DefaultOutputFile
	}
	if filepath.IsAbs(name) {
		return name, nil
	}
	path, err := resolve(name)
	if err != nil {
		return "", fmt.Errorf("resolve report path: %w", err)
	}
	return path, nil
}
