package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Keep the work directory committed and pushed with git",
		Long: `Git helpers for the work directory. They do nothing unless sync.enabled
is set in the settings.`,
	}
	cmd.AddCommand(newSyncRunCmd(), newSyncWatchCmd(), newSyncHookCmd())
	return cmd
}

func newSyncRunCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Write the manifest files, commit, and push",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			manifest, err := a.Syncer.LoadManifest(cmd.Context())
			if err != nil {
				return fmt.Errorf("sync: %w", err)
			}
			res, err := a.Syncer.Sync(cmd.Context(), manifest, message)
			if err != nil {
				return fmt.Errorf("sync: %w", err)
			}
			a.Logger.Info("sync finished",
				zap.Int("written", len(res.Written)),
				zap.Bool("committed", res.Committed),
				zap.Bool("pushed", res.Pushed))
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message (generated from the changed files when empty)")
	return cmd
}

func newSyncWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Poll the repository and commit changes until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := a.Syncer.Watch(ctx); err != nil {
				return fmt.Errorf("sync watch: %w", err)
			}
			return nil
		},
	}
}

func newSyncHookCmd() *cobra.Command {
	var command string

	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Install a post-commit hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			path, err := a.Syncer.InstallHook(cmd.Context(), command)
			if err != nil {
				return fmt.Errorf("sync hook: %w", err)
			}
			a.Logger.Info("hook installed", zap.String("path", path))
			return nil
		},
	}
	cmd.Flags().StringVar(&command, "command", "git push", "shell command the hook runs after each commit")
	return cmd
}
