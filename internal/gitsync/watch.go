package gitsync

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Ignored reports whether any segment of rel matches an ignore pattern.
func (s *Syncer) Ignored(rel string) bool {
	segments := strings.Split(filepath.ToSlash(rel), "/")
	for _, pattern := range s.cfg.Ignore {
		for _, seg := range segments {
			if ok, _ := filepath.Match(pattern, seg); ok {
				return true
			}
		}
	}
	return false
}

// Snapshot hashes every non-ignored file below the repository root, keyed by
// slash-separated relative path.
func (s *Syncer) Snapshot() (map[string]string, error) {
	if !s.cfg.Enabled {
		return nil, ErrDisabled
	}
	hashes := make(map[string]string)
	err := filepath.WalkDir(s.cfg.RepoDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(s.cfg.RepoDir, path)
		if err != nil || rel == "." {
			return err
		}
		if s.Ignored(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		sum, err := s.hasher.HashFile(path)
		if err != nil {
			return err
		}
		hashes[filepath.ToSlash(rel)] = sum
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", s.cfg.RepoDir, err)
	}
	return hashes, nil
}

// Changed lists paths added, modified, or removed between two snapshots.
func Changed(before, after map[string]string) []string {
	var changed []string
	for path, sum := range after {
		if before[path] != sum {
			changed = append(changed, path)
		}
	}
	for path := range before {
		if _, ok := after[path]; !ok {
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)
	return changed
}

// Watch polls the repository until ctx ends, committing and pushing whenever
// a file hash changes. Poll failures are logged and retried next tick.
func (s *Syncer) Watch(ctx context.Context) error {
	if !s.cfg.Enabled {
		return ErrDisabled
	}
	if err := s.ensureRepo(ctx); err != nil {
		return err
	}
	last, err := s.Snapshot()
	if err != nil {
		return err
	}
	s.printf("Watching %s every %s (Ctrl+C to stop)\n", s.cfg.RepoDir, s.cfg.PollInterval)

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.printf("Sync watcher stopped\n")
			return nil
		case <-ticker.C:
			next, err := s.Snapshot()
			if err != nil {
				s.logger.Warn("sync snapshot failed", zap.Error(err))
				continue
			}
			changed := Changed(last, next)
			if len(changed) == 0 {
				continue
			}
			s.printf("Detected changes in %d files\n", len(changed))
			committed, err := s.commit(ctx, s.message(changed), changed...)
			if err != nil {
				s.logger.Warn("sync commit failed", zap.Error(err))
				s.observe("failed")
				continue
			}
			last = next
			if !committed {
				continue
			}
			if s.push(ctx) {
				s.observe("pushed")
			} else {
				s.observe("local")
			}
		}
	}
}
