package employee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"
)

// ErrNoEmployees is returned when no source yields a valid record.
var ErrNoEmployees = errors.New("no employee data found; run the search scripts first")

// Files reads and writes lists in the work directory.
type Files interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, data []byte, perm fs.FileMode) (string, error)
}

// Lists names the files a Consolidator reads and writes.
type Lists struct {
	// Sources are read highest priority first.
	Sources       []string
	ProcessedFile string
	VerifiedFile  string
}

// Overrides carries list names set by the config record. Empty fields keep
// the configured names.
type Overrides struct {
	TempFile      string
	ProcessedFile string
}

// Consolidator merges the source lists in priority order.
type Consolidator struct {
	files  Files
	lists  Lists
	logger *zap.Logger
}

// NewConsolidator creates a Consolidator over files.
func NewConsolidator(files Files, lists Lists, logger *zap.Logger) *Consolidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	lists.Sources = append([]string(nil), lists.Sources...)
	if lists.VerifiedFile == "" {
		lists.VerifiedFile = DefaultVerifiedFile
	}
	return &Consolidator{files: files, lists: lists, logger: logger}
}

// Result is a finished consolidation.
type Result struct {
	Employees []Record
	Stats     Stats
	Path      string
}

// Merge loads every source, keeps the first valid record per identity key,
// and returns them sorted. ov swaps in the record's scratch and processed
// list names.
func (c *Consolidator) Merge(ctx context.Context, def Defaults, ov Overrides) ([]Record, error) {
	seen := make(map[string]struct{})
	var merged []Record
	for _, name := range c.resolveSources(ov) {
		raws, err := c.read(ctx, name)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				c.logger.Warn("skipping unreadable employee list", zap.String("file", name), zap.Error(err))
			}
			continue
		}
		added := 0
		for _, raw := range raws {
			if !raw.Valid() {
				continue
			}
			key := raw.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, raw.Clean(def))
			added++
		}
		c.logger.Info("loaded employee list",
			zap.String("file", name), zap.Int("records", len(raws)), zap.Int("added", added))
	}
	if len(merged) == 0 {
		return nil, ErrNoEmployees
	}
	Sort(merged)
	return merged, nil
}

// Consolidate merges the sources and writes the result.
func (c *Consolidator) Consolidate(ctx context.Context, def Defaults, ov Overrides) (Result, error) {
	merged, err := c.Merge(ctx, def, ov)
	if err != nil {
		return Result{}, err
	}
	path, err := c.write(ctx, c.processedFile(ov), merged)
	if err != nil {
		return Result{}, fmt.Errorf("write processed employees: %w", err)
	}
	return Result{Employees: merged, Stats: Summarize(merged), Path: path}, nil
}

// write stores records as a JSON list indented with four spaces.
func (c *Consolidator) write(ctx context.Context, name string, records []Record) (string, error) {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshal employees: %w", err)
	}
	path, err := c.files.Put(ctx, name, append(data, '\n'), 0o644)
	if err != nil {
		return "", err
	}
	c.logger.Info("employee list written", zap.String("path", path), zap.Int("records", len(records)))
	return path, nil
}

func (c *Consolidator) processedFile(ov Overrides) string {
	if ov.ProcessedFile != "" {
		return ov.ProcessedFile
	}
	return c.lists.ProcessedFile
}

// resolveSources applies ov to the source list. The processed list keeps its
// slot under its overridden name.
func (c *Consolidator) resolveSources(ov Overrides) []string {
	out := make([]string, 0, len(c.lists.Sources))
	for _, name := range c.lists.Sources {
		switch {
		case name == defaultTempFile && ov.TempFile != "":
			name = ov.TempFile
		case name == c.lists.ProcessedFile && ov.ProcessedFile != "":
			name = ov.ProcessedFile
		}
		out = append(out, name)
	}
	return out
}

const defaultTempFile = "temp_employee_data.json"

func (c *Consolidator) read(ctx context.Context, name string) ([]Raw, error) {
	data, err := c.files.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	var raws []Raw
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return raws, nil
}
