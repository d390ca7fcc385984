// Package cmd defines and implements the CLI commands for the discovery
// executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/employee-discovery/internal/app"
	"github.com/JakeFAU/employee-discovery/internal/logging"
)

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// errMissingPackages aborts the session when bootstrap.strict is set.
var errMissingPackages = errors.New("required packages are missing")

// newApp is the application factory. Tests replace it to build the app
// against a temporary work directory.
var newApp = func(ctx context.Context, cfgFile string, streams app.IO) (*app.App, error) {
	return app.NewApp(ctx, cfgFile, streams)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "discovery",
		Short: "Interactive launcher for the employee discovery search scripts.",
		Long: `discovery collects the target company's details, saves them to
company_config.json, and launches the search scripts that read it. Missing
scripts are replaced with placeholders. Subcommands merge the scripts'
employee lists, write the Excel report, and keep the work directory synced
with git.`,
		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context(), cfgFile, app.IO{
				In:  cmd.InOrStdin(),
				Out: cmd.OutOrStdout(),
				Err: cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(*app.App); ok && appInstance != nil {
				appInstance.Close()
			}
		},

		RunE: runSession,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (defaults plus DISCOVERY_* environment when unset)")

	cmd.AddCommand(newConsolidateCmd())
	cmd.AddCommand(newReviewCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newSyncCmd())

	return cmd
}

// runSession is the interactive flow: check packages, collect the company
// details, then hand over to the menu until the user exits.
func runSession(cmd *cobra.Command, _ []string) error {
	a, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if a.Settings.Bootstrap.Enabled {
		if !a.Bootstrap.Ensure(ctx, a.Packages) {
			if a.Settings.Bootstrap.Strict {
				return errMissingPackages
			}
			a.Logger.Warn("continuing with missing packages; some search scripts may fail")
		}
	}

	rec, err := a.Collector.Collect(ctx, a.Records.Load(ctx))
	if err != nil {
		return err
	}
	a.Console.Printf("\nConfiguration saved to %s\n", a.Records.Path())

	if err := a.Session.Run(ctx, &rec); err != nil {
		return fmt.Errorf("run menu: %w", err)
	}
	a.Logger.Debug("session finished", zap.Int("searches", len(rec.SearchTypes)))
	return nil
}

func resolveApp(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		logger, lerr := logging.New(logging.Options{Development: true})
		if lerr != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		logger.Fatal("Command execution failed", zap.Error(err))
	}
}
