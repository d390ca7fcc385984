package target

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/employee-discovery/internal/clock/system"
)

// FileName is the record's filename inside the work directory.
const FileName = "company_config.json"

// Files is the subset of the local file store the record needs.
type Files interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, data []byte, perm fs.FileMode) (string, error)
	Path(name string) (string, error)
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// Store loads and saves the record. There is no locking: the last writer wins.
type Store struct {
	files  Files
	clock  Clock
	logger *zap.Logger
}

// NewStore creates a Store.
func NewStore(files Files, clock Clock, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{files: files, clock: clock, logger: logger}
}

// Path returns the absolute location of the record.
func (s *Store) Path() string {
	path, err := s.files.Path(FileName)
	if err != nil {
		return FileName
	}
	return path
}

// Default returns a fresh record stamped with the current time.
func (s *Store) Default() Config {
	return Config{
		OutputFile:    DefaultOutputFile,
		TempDataFile:  DefaultTempDataFile,
		PagesToScrape: DefaultPagesToScrape,
		DebugMode:     true,
		SearchTypes:   []string{},
		Timestamp:     system.Stamp(s.clock.Now()),
	}
}

// Load returns the stored record. A missing or unparseable file yields the
// default record; corruption is logged and never returned as an error.
func (s *Store) Load(ctx context.Context) Config {
	cfg := s.Default()
	data, err := s.files.Get(ctx, FileName)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("config record unreadable; using defaults", zap.Error(err))
		}
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		s.logger.Warn("config record is corrupted; using defaults",
			zap.String("path", s.Path()), zap.Error(err))
		return s.Default()
	}
	if cfg.SearchTypes == nil {
		cfg.SearchTypes = []string{}
	}
	return cfg
}

// Save overwrites the record with cfg, pretty-printed.
func (s *Store) Save(ctx context.Context, cfg Config) error {
	if cfg.SearchTypes == nil {
		cfg.SearchTypes = []string{}
	}
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal config record: %w", err)
	}
	path, err := s.files.Put(ctx, FileName, append(data, '\n'), 0o644)
	if err != nil {
		return fmt.Errorf("save config record: %w", err)
	}
	s.logger.Debug("config record saved", zap.String("path", path))
	return nil
}

// Touch restamps the record with the current time.
func (s *Store) Touch(cfg *Config) {
	cfg.Timestamp = system.Stamp(s.clock.Now())
}
