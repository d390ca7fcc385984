package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/employee-discovery/internal/review"
)

func newReviewCmd() *cobra.Command {
	var keepAll bool

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Consolidate employees and confirm them by hand",
		Long: `Runs consolidation, then asks about each record that needs a look.
High confidence records are kept without asking, medium ones are reviewed
only on request, and low ones are always shown. Kept records are merged into
the verified employee list; entries already in that list are never replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			res, err := consolidate(ctx, a)
			if err != nil {
				return err
			}
			a.Console.Printf("\nLoaded %d employees from %s\n", res.Stats.Total, res.Path)
			printStats(a, res.Stats)

			opts := review.Options{KeepAll: keepAll}
			if !keepAll {
				if opts, err = a.Reviewer.AskOptions(); err != nil {
					return fmt.Errorf("review options: %w", err)
				}
			}
			kept, err := a.Reviewer.Review(ctx, res.Employees, opts)
			if err != nil {
				return err
			}

			saved, err := a.Consolidator.SaveVerified(ctx, kept)
			if err != nil {
				return err
			}
			a.Logger.Info("review saved",
				zap.Int("kept", len(kept)),
				zap.Int("added", saved.Added),
				zap.String("path", saved.Path))
			a.Console.Printf("\nVerification complete! Kept %d employees.\n", len(kept))
			a.Console.Printf("Added %d new records to %s (%d total).\n", saved.Added, saved.Path, len(saved.Employees))
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepAll, "keep-all", false, "keep every record without asking")
	return cmd
}
