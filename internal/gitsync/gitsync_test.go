package gitsync

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/employee-discovery/internal/clock/system"
	"github.com/JakeFAU/employee-discovery/internal/hash/sha256"
	"github.com/JakeFAU/employee-discovery/internal/shell"
	"github.com/JakeFAU/employee-discovery/internal/storage/local"
)

type fakeGit struct {
	mu       sync.Mutex
	dir      string
	calls    [][]string
	remote   string
	pushErr  error
	noChange bool
}

func (f *fakeGit) Run(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string{name}, args...))
	switch args[0] {
	case "init":
		return nil, os.MkdirAll(filepath.Join(dir, ".git"), 0o755)
	case "remote":
		return []byte(f.remote), nil
	case "commit":
		if f.noChange {
			out := "On branch main\nnothing to commit, working tree clean\n"
			return []byte(out), &shell.ExitError{Command: "git commit", Code: 1, Output: out}
		}
	case "push":
		return nil, f.pushErr
	}
	return nil, nil
}

func (f *fakeGit) verbs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c[1])
	}
	return out
}

type syncCounter struct {
	mu      sync.Mutex
	results []string
}

func (c *syncCounter) ObserveSync(result string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, result)
}

func newSyncer(t *testing.T, enabled bool, git *fakeGit) (*Syncer, string, *syncCounter) {
	t.Helper()
	dir := t.TempDir()
	git.dir = dir
	files, err := local.New(local.Config{BaseDir: dir})
	require.NoError(t, err)
	counter := &syncCounter{}
	s := New(Config{
		Enabled:      enabled,
		RepoDir:      dir,
		Manifest:     "sync_manifest.json",
		PollInterval: 10 * time.Millisecond,
		Ignore:       []string{".git", "__pycache__", "*.pyc", "*.log"},
	}, git, files, sha256.New(), system.New(), counter, &bytes.Buffer{}, nil)
	return s, dir, counter
}

func TestDisabledEverywhere(t *testing.T) {
	t.Parallel()

	git := &fakeGit{}
	s, _, _ := newSyncer(t, false, git)
	ctx := context.Background()

	_, err := s.Sync(ctx, map[string]string{"a.txt": "a"}, "")
	require.ErrorIs(t, err, ErrDisabled)
	_, err = s.InstallHook(ctx, "git push")
	require.ErrorIs(t, err, ErrDisabled)
	_, err = s.LoadManifest(ctx)
	require.ErrorIs(t, err, ErrDisabled)
	_, err = s.Snapshot()
	require.ErrorIs(t, err, ErrDisabled)
	require.ErrorIs(t, s.Watch(ctx), ErrDisabled)
	assert.Empty(t, git.calls)
}

func TestSyncWritesCommitsAndPushes(t *testing.T) {
	t.Parallel()

	git := &fakeGit{remote: "origin\n"}
	s, dir, counter := newSyncer(t, true, git)

	res, err := s.Sync(context.Background(), map[string]string{
		"b.txt":       "bee",
		"nested/a.py": "print('a')\n",
	}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt", "nested/a.py"}, res.Written)
	assert.True(t, res.Committed)
	assert.True(t, res.Pushed)

	data, err := os.ReadFile(filepath.Join(dir, "nested", "a.py"))
	require.NoError(t, err)
	assert.Equal(t, "print('a')\n", string(data))

	assert.Equal(t, []string{"init", "add", "commit", "remote", "push"}, git.verbs())
	commit := git.calls[2]
	assert.True(t, strings.HasPrefix(commit[3], "Auto-sync: Updated b.txt, nested/a.py ("), commit[3])
	assert.Equal(t, []string{"pushed"}, counter.results)

	again, err := s.Sync(context.Background(), map[string]string{"b.txt": "bee"}, "manual")
	require.NoError(t, err)
	assert.Empty(t, again.Written)
	assert.Equal(t, "manual", git.calls[len(git.calls)-3][3])
}

func TestSyncPushFailureStaysLocal(t *testing.T) {
	t.Parallel()

	git := &fakeGit{remote: "origin\n", pushErr: errors.New("auth failed")}
	s, _, counter := newSyncer(t, true, git)

	res, err := s.Sync(context.Background(), map[string]string{"a.txt": "a"}, "msg")
	require.NoError(t, err)
	assert.True(t, res.Committed)
	assert.False(t, res.Pushed)
	assert.Equal(t, []string{"local"}, counter.results)
}

func TestSyncWithoutRemoteSkipsPush(t *testing.T) {
	t.Parallel()

	git := &fakeGit{}
	s, _, _ := newSyncer(t, true, git)

	res, err := s.Sync(context.Background(), nil, "msg")
	require.NoError(t, err)
	assert.False(t, res.Pushed)
	assert.NotContains(t, git.verbs(), "push")
}

func TestCommitNothingToCommit(t *testing.T) {
	t.Parallel()

	git := &fakeGit{noChange: true}
	s, _, _ := newSyncer(t, true, git)

	committed, err := s.commit(context.Background(), "msg", "a.txt")
	require.NoError(t, err)
	assert.False(t, committed)
	assert.Equal(t, []string{"git", "add", "-A", "--", "a.txt"}, git.calls[0])

	res, err := s.Sync(context.Background(), nil, "msg")
	require.NoError(t, err)
	assert.False(t, res.Committed)
}

func TestInstallHook(t *testing.T) {
	t.Parallel()

	git := &fakeGit{}
	s, dir, _ := newSyncer(t, true, git)

	_, err := s.InstallHook(context.Background(), "git push")
	require.Error(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	path, err := s.InstallHook(context.Background(), "git push")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".git", "hooks", "post-commit"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "#!/bin/sh\n"))
	assert.Contains(t, string(data), "\ngit push\n")
}

func TestLoadManifest(t *testing.T) {
	t.Parallel()

	s, dir, _ := newSyncer(t, true, &fakeGit{})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sync_manifest.json"), []byte(`{"x.txt": "hello"}`), 0o644))

	manifest, err := s.LoadManifest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"x.txt": "hello"}, manifest)
}

func TestIgnoredAndSnapshot(t *testing.T) {
	t.Parallel()

	s, dir, _ := newSyncer(t, true, &fakeGit{})
	assert.True(t, s.Ignored(".git/config"))
	assert.True(t, s.Ignored("pkg/__pycache__/m.cpython.pyc"))
	assert.True(t, s.Ignored("run.log"))
	assert.False(t, s.Ignored("script2_geek.py"))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.py"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "debug.log"), []byte("x"), 0o644))

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Len(t, snap, 1)
	assert.Contains(t, snap, "keep.py")
}

func TestChanged(t *testing.T) {
	t.Parallel()

	before := map[string]string{"a": "1", "b": "2", "gone": "3"}
	after := map[string]string{"a": "1", "b": "9", "new": "4"}
	assert.Equal(t, []string{"b", "gone", "new"}, Changed(before, after))
	assert.Empty(t, Changed(after, after))
}

func TestWatchCommitsChanges(t *testing.T) {
	t.Parallel()

	git := &fakeGit{remote: "origin\n"}
	s, dir, counter := newSyncer(t, true, git)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	time.Sleep(30 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fresh.py"), []byte("x"), 0o644))

	require.Eventually(t, func() bool {
		for _, v := range git.verbs() {
			if v == "push" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}

	counter.mu.Lock()
	defer counter.mu.Unlock()
	assert.Contains(t, counter.results, "pushed")
}
