// Package app wires settings, logging, storage, and the interactive
// components into one container shared by the CLI commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/employee-discovery/internal/bootstrap"
	"github.com/JakeFAU/employee-discovery/internal/clock/system"
	"github.com/JakeFAU/employee-discovery/internal/config"
	"github.com/JakeFAU/employee-discovery/internal/dispatcher"
	"github.com/JakeFAU/employee-discovery/internal/employee"
	"github.com/JakeFAU/employee-discovery/internal/gitsync"
	"github.com/JakeFAU/employee-discovery/internal/hash/sha256"
	"github.com/JakeFAU/employee-discovery/internal/id/uuid"
	"github.com/JakeFAU/employee-discovery/internal/launcher"
	"github.com/JakeFAU/employee-discovery/internal/logging"
	"github.com/JakeFAU/employee-discovery/internal/menu"
	"github.com/JakeFAU/employee-discovery/internal/metrics"
	"github.com/JakeFAU/employee-discovery/internal/placeholder"
	"github.com/JakeFAU/employee-discovery/internal/progress"
	"github.com/JakeFAU/employee-discovery/internal/progress/sinks"
	"github.com/JakeFAU/employee-discovery/internal/prompt"
	"github.com/JakeFAU/employee-discovery/internal/review"
	"github.com/JakeFAU/employee-discovery/internal/shell"
	"github.com/JakeFAU/employee-discovery/internal/storage/local"
	"github.com/JakeFAU/employee-discovery/internal/target"
)

const closeTimeout = 5 * time.Second

// IO holds the terminal streams the session reads from and writes to.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// App holds the application's dependencies.
type App struct {
	Settings config.Config
	Logger   *zap.Logger
	Workdir  string
	Files    *local.FileStore
	Clock    *system.Clock
	Metrics  *metrics.Metrics
	Hub      *progress.Hub
	Console  *prompt.Console

	Records      *target.Store
	Collector    *prompt.Collector
	Launcher     *launcher.Launcher
	Dispatcher   *dispatcher.Dispatcher
	Session      *menu.Session
	Bootstrap    *bootstrap.Checker
	Packages     []bootstrap.Package
	Consolidator *employee.Consolidator
	Reviewer     *review.Reviewer
	Syncer       *gitsync.Syncer
}

// NewApp loads settings from configPath (empty means defaults plus
// environment) and builds every component.
func NewApp(ctx context.Context, configPath string, streams IO) (*App, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	logger, err := logging.New(logging.Options{
		Development: settings.Logging.Development,
		Level:       settings.Logging.Level,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return Build(ctx, settings, logger, streams)
}

// Build wires the components from already-loaded settings.
func Build(_ context.Context, settings config.Config, logger *zap.Logger, streams IO) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	streams = withDefaults(streams)

	workdir, err := settings.ResolveWorkdir()
	if err != nil {
		return nil, err
	}
	files, err := local.New(local.Config{BaseDir: workdir})
	if err != nil {
		return nil, fmt.Errorf("failed to open workdir %s: %w", workdir, err)
	}
	packages, err := bootstrap.ParsePackages(settings.Bootstrap.Packages)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bootstrap packages: %w", err)
	}

	clock := system.New()
	ids := uuid.NewUUIDGenerator()
	m := metrics.New()

	promSink, err := sinks.NewPrometheusSink(m.Registry())
	if err != nil {
		return nil, fmt.Errorf("failed to register launch metrics: %w", err)
	}
	hub := progress.NewHub(progress.Config{Logger: logger.Named("progress")},
		promSink,
		sinks.NewLogSink(logger.Named("launches")),
	)

	console := prompt.NewConsole(streams.In, streams.Out)
	records := target.NewStore(files, clock, logger.Named("target"))

	launchCfg := launcher.Config{
		Interpreter: settings.Interpreter,
		Workdir:     workdir,
		Stdout:      streams.Out,
		Stderr:      streams.Err,
	}
	// Only a real terminal is shared; a child copying from a plain reader
	// would consume the menu's input.
	if f, ok := streams.In.(*os.File); ok {
		launchCfg.Stdin = f
	}
	l := launcher.New(launchCfg, ids, clock, hub, logger.Named("launcher"))

	placeholders := placeholder.NewWriter(files, target.FileName, ids, clock, hub, logger.Named("placeholder"))
	d := dispatcher.New(
		dispatcher.Config{RunAllDelay: settings.Dispatch.RunAllDelay},
		l,
		placeholders,
		records,
		files,
		streams.Out,
		logger.Named("dispatcher"),
	)

	session := menu.NewSession(
		menu.Config{InvalidDelay: settings.UI.InvalidDelay},
		console,
		d,
		m,
		logger.Named("menu"),
	)

	runner := shell.NewExecRunner()
	checker := bootstrap.NewChecker(runner, settings.Interpreter, workdir, streams.Out, logger.Named("bootstrap"))
	consolidator := employee.NewConsolidator(files, employee.Lists{
		Sources:       settings.Employees.Sources,
		ProcessedFile: settings.Employees.ProcessedFile,
		VerifiedFile:  settings.Employees.VerifiedFile,
	}, logger.Named("employee"))

	syncer, err := newSyncer(settings, workdir, runner, clock, m, streams.Out, logger.Named("gitsync"))
	if err != nil {
		return nil, err
	}

	return &App{
		Settings:     settings,
		Logger:       logger,
		Workdir:      workdir,
		Files:        files,
		Clock:        clock,
		Metrics:      m,
		Hub:          hub,
		Console:      console,
		Records:      records,
		Collector:    prompt.NewCollector(console, records, logger.Named("prompt")),
		Launcher:     l,
		Dispatcher:   d,
		Session:      session,
		Bootstrap:    checker,
		Packages:     packages,
		Consolidator: consolidator,
		Reviewer:     review.New(console, logger.Named("review")),
		Syncer:       syncer,
	}, nil
}

func newSyncer(
	settings config.Config,
	workdir string,
	runner shell.Runner,
	clock *system.Clock,
	m *metrics.Metrics,
	out io.Writer,
	logger *zap.Logger,
) (*gitsync.Syncer, error) {
	repoDir := settings.ResolveRepoDir(workdir)
	cfg := gitsync.Config{
		Enabled:      settings.Sync.Enabled,
		RepoDir:      repoDir,
		Manifest:     settings.Sync.Manifest,
		Message:      settings.Sync.Message,
		PollInterval: settings.Sync.PollInterval,
		Ignore:       settings.Sync.Ignore,
	}
	if !cfg.Enabled {
		// The repo store is never touched while sync is off.
		return gitsync.New(cfg, runner, nil, sha256.New(), clock, m, out, logger), nil
	}
	repo, err := local.New(local.Config{BaseDir: repoDir})
	if err != nil {
		return nil, fmt.Errorf("failed to open sync repo %s: %w", repoDir, err)
	}
	return gitsync.New(cfg, runner, repo, sha256.New(), clock, m, out, logger), nil
}

func withDefaults(s IO) IO {
	if s.In == nil {
		s.In = os.Stdin
	}
	if s.Out == nil {
		s.Out = os.Stdout
	}
	if s.Err == nil {
		s.Err = os.Stderr
	}
	return s
}

// Close flushes launch events, writes the metrics textfile, and syncs the
// logger. Children that are still running are left alone.
func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if a.Launcher != nil && a.Launcher.Running() > 0 {
		a.Logger.Info("search scripts still running in the background", zap.Int("count", a.Launcher.Running()))
	}
	if a.Hub != nil {
		if err := a.Hub.Close(ctx); err != nil {
			a.Logger.Warn("failed to flush launch events", zap.Error(err))
		}
	}
	if a.Metrics != nil {
		if err := a.Metrics.WriteTextfile(a.Settings.Metrics.Textfile); err != nil {
			a.Logger.Warn("failed to write metrics textfile", zap.Error(err))
		}
	}
	if a.Logger != nil {
		// Syncing stderr fails with EINVAL on some platforms.
		if err := a.Logger.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
			a.Logger.Debug("logger sync failed", zap.Error(err))
		}
	}
}
