// Package gitsync keeps a directory committed and pushed with the git CLI.
// It can write a manifest of file contents before committing, install a
// post-commit hook, and poll for changes. Every entry point refuses to run
// unless sync is enabled in settings.
package gitsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/employee-discovery/internal/clock/system"
	"github.com/JakeFAU/employee-discovery/internal/shell"
)

// ErrDisabled is returned by every operation while sync is turned off.
var ErrDisabled = errors.New("sync utilities are disabled (set sync.enabled)")

// HookName is the hook InstallHook writes.
const HookName = "post-commit"

// MessagePrefix starts every generated commit message.
const MessagePrefix = "Auto-sync:"

// Config mirrors the sync settings.
type Config struct {
	Enabled      bool
	RepoDir      string
	Manifest     string
	Message      string
	PollInterval time.Duration
	Ignore       []string
}

// Files reads and writes below the repository root.
type Files interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, data []byte, perm fs.FileMode) (string, error)
}

// Hasher digests bytes and files.
type Hasher interface {
	Hash(data []byte) (string, error)
	HashFile(path string) (string, error)
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// Observer counts sync outcomes.
type Observer interface {
	ObserveSync(result string)
}

// Result reports what Sync did.
type Result struct {
	Written   []string
	Committed bool
	Pushed    bool
}

// Syncer drives git in one repository directory.
type Syncer struct {
	cfg      Config
	runner   shell.Runner
	files    Files
	hasher   Hasher
	clock    Clock
	observer Observer
	out      io.Writer
	logger   *zap.Logger
}

// New creates a Syncer. files must be rooted at cfg.RepoDir.
func New(cfg Config, runner shell.Runner, files Files, hasher Hasher, clock Clock, observer Observer, out io.Writer, logger *zap.Logger) *Syncer {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		cfg:      cfg,
		runner:   runner,
		files:    files,
		hasher:   hasher,
		clock:    clock,
		observer: observer,
		out:      out,
		logger:   logger,
	}
}

// LoadManifest reads the manifest file: a JSON object mapping relative paths
// to file contents.
func (s *Syncer) LoadManifest(ctx context.Context) (map[string]string, error) {
	if !s.cfg.Enabled {
		return nil, ErrDisabled
	}
	data, err := s.files.Get(ctx, s.cfg.Manifest)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var manifest map[string]string
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", s.cfg.Manifest, err)
	}
	return manifest, nil
}

// Sync writes every manifest entry whose content differs from disk, commits
// everything, and pushes. A failed push leaves the commit local and is not
// an error.
func (s *Syncer) Sync(ctx context.Context, manifest map[string]string, message string) (Result, error) {
	var res Result
	if !s.cfg.Enabled {
		return res, ErrDisabled
	}
	written, err := s.writeManifest(ctx, manifest)
	if err != nil {
		s.observe("failed")
		return res, err
	}
	res.Written = written
	if err := s.ensureRepo(ctx); err != nil {
		s.observe("failed")
		return res, err
	}
	if message == "" {
		message = s.message(written)
	}
	committed, err := s.commit(ctx, message)
	if err != nil {
		s.observe("failed")
		return res, err
	}
	res.Committed = committed
	res.Pushed = s.push(ctx)
	switch {
	case res.Pushed:
		s.observe("pushed")
	case res.Committed:
		s.observe("local")
	default:
		s.observe("noop")
	}
	return res, nil
}

// InstallHook writes an executable post-commit hook that runs command.
func (s *Syncer) InstallHook(ctx context.Context, command string) (string, error) {
	if !s.cfg.Enabled {
		return "", ErrDisabled
	}
	if strings.TrimSpace(command) == "" {
		return "", errors.New("hook command is required")
	}
	if !s.isRepo() {
		return "", fmt.Errorf("%s is not a git repository; run git init first", s.cfg.RepoDir)
	}
	body := "#!/bin/sh\n# Auto-generated hook for discovery sync.\n" + command + "\n"
	path, err := s.files.Put(ctx, filepath.Join(".git", "hooks", HookName), []byte(body), 0o755)
	if err != nil {
		return "", fmt.Errorf("install %s hook: %w", HookName, err)
	}
	s.printf("Git hook installed at %s\n", path)
	return path, nil
}

func (s *Syncer) writeManifest(ctx context.Context, manifest map[string]string) ([]string, error) {
	names := make([]string, 0, len(manifest))
	for name := range manifest {
		names = append(names, name)
	}
	sort.Strings(names)

	var written []string
	for _, name := range names {
		content := []byte(manifest[name])
		if s.unchanged(ctx, name, content) {
			continue
		}
		if _, err := s.files.Put(ctx, name, content, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", name, err)
		}
		s.printf("Updated %s\n", name)
		written = append(written, name)
	}
	return written, nil
}

func (s *Syncer) unchanged(ctx context.Context, name string, content []byte) bool {
	existing, err := s.files.Get(ctx, name)
	if err != nil {
		return false
	}
	a, errA := s.hasher.Hash(existing)
	b, errB := s.hasher.Hash(content)
	return errA == nil && errB == nil && a == b
}

func (s *Syncer) isRepo() bool {
	info, err := os.Stat(filepath.Join(s.cfg.RepoDir, ".git"))
	return err == nil && info.IsDir()
}

func (s *Syncer) ensureRepo(ctx context.Context) error {
	if s.isRepo() {
		return nil
	}
	if _, err := s.git(ctx, "init"); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	s.printf("Initialized git repository in %s\n", s.cfg.RepoDir)
	return nil
}

func (s *Syncer) commit(ctx context.Context, message string, paths ...string) (bool, error) {
	addArgs := []string{"add", "."}
	if len(paths) > 0 {
		addArgs = append([]string{"add", "-A", "--"}, paths...)
	}
	if _, err := s.git(ctx, addArgs...); err != nil {
		return false, fmt.Errorf("git add: %w", err)
	}
	out, err := s.git(ctx, "commit", "-m", message)
	if err != nil {
		if strings.Contains(string(out), "nothing to commit") || strings.Contains(err.Error(), "nothing to commit") {
			s.printf("Nothing to commit\n")
			return false, nil
		}
		return false, fmt.Errorf("git commit: %w", err)
	}
	s.printf("Committed: %s\n", message)
	return true, nil
}

func (s *Syncer) push(ctx context.Context) bool {
	remotes, err := s.git(ctx, "remote")
	if err != nil || strings.TrimSpace(string(remotes)) == "" {
		s.printf("No git remote configured; changes stay local\n")
		return false
	}
	if _, err := s.git(ctx, "push"); err != nil {
		s.logger.Warn("git push failed; changes stay local", zap.Error(err))
		s.printf("Push failed; changes stay local\n")
		return false
	}
	s.printf("Pushed to remote\n")
	return true
}

func (s *Syncer) git(ctx context.Context, args ...string) ([]byte, error) {
	out, err := s.runner.Run(ctx, s.cfg.RepoDir, "git", args...)
	s.logger.Debug("git", zap.Strings("args", args), zap.Error(err))
	return out, err
}

// message builds "Auto-sync: Updated a, b, c and N more (timestamp)".
func (s *Syncer) message(paths []string) string {
	stamp := system.Stamp(s.clock.Now())
	if s.cfg.Message != "" {
		return fmt.Sprintf("%s (%s)", s.cfg.Message, stamp)
	}
	if len(paths) == 0 {
		return fmt.Sprintf("%s Auto-commit (%s)", MessagePrefix, stamp)
	}
	shown := paths
	if len(shown) > 3 {
		shown = shown[:3]
	}
	list := strings.Join(shown, ", ")
	if extra := len(paths) - len(shown); extra > 0 {
		list += fmt.Sprintf(" and %d more", extra)
	}
	return fmt.Sprintf("%s Updated %s (%s)", MessagePrefix, list, stamp)
}

func (s *Syncer) observe(result string) {
	if s.observer != nil {
		s.observer.ObserveSync(result)
	}
}

func (s *Syncer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
