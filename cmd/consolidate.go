package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/employee-discovery/internal/app"
	"github.com/JakeFAU/employee-discovery/internal/employee"
)

func newConsolidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consolidate",
		Short: "Merge the search scripts' employee lists",
		Long: `Reads every configured employee list in priority order, drops invalid
entries, removes duplicates by name, and writes the sorted result to the
processed employee file.`,
		Args: cobra.NoArgs,
		RunE: runConsolidateCommand,
	}
}

func runConsolidateCommand(cmd *cobra.Command, _ []string) error {
	a, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	res, err := consolidate(cmd.Context(), a)
	if err != nil {
		return err
	}
	a.Console.Printf("\nSaved %d employees to %s\n", res.Stats.Total, res.Path)
	printStats(a, res.Stats)
	return nil
}

// consolidate merges the lists named by the settings using the current
// record's company and location as fallbacks. The record's temp_data_file and
// processed_data_file rename the matching lists.
func consolidate(ctx context.Context, a *app.App) (employee.Result, error) {
	rec := a.Records.Load(ctx)
	res, err := a.Consolidator.Consolidate(ctx, employee.Defaults{
		CompanyName: rec.CompanyName,
		Location:    rec.Location,
	}, employee.Overrides{
		TempFile:      rec.TempDataFile,
		ProcessedFile: rec.ProcessedDataFile(),
	})
	if err != nil {
		return res, fmt.Errorf("consolidate employees: %w", err)
	}
	a.Metrics.ObserveConsolidation(res.Stats.ConfidenceLabels())
	a.Logger.Info("employees consolidated",
		zap.Int("total", res.Stats.Total),
		zap.String("path", res.Path))
	return res, nil
}

func printStats(a *app.App, stats employee.Stats) {
	a.Console.Println("\nBy confidence:")
	for _, c := range employee.Confidences() {
		a.Console.Printf("  %-8s %d\n", c, stats.ByConfidence[c])
	}
	a.Console.Println("By source:")
	for _, sc := range stats.Sources() {
		a.Console.Printf("  %-24s %d\n", sc.Source, sc.Count)
	}
}
