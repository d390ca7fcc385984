package employee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"
)

// DefaultVerifiedFile holds the records kept by review across runs.
const DefaultVerifiedFile = "verified_employee_data.json"

// VerifiedResult reports a SaveVerified call.
type VerifiedResult struct {
	Path      string
	Existing  int
	Added     int
	Employees []Record
}

// MergeVerified appends the accepted records whose key is not in existing.
// Existing entries win and keep their order. It returns the combined list
// and how many accepted records were added.
func MergeVerified(existing, accepted []Record) ([]Record, int) {
	seen := make(map[string]struct{}, len(existing)+len(accepted))
	combined := make([]Record, 0, len(existing)+len(accepted))
	for _, rec := range existing {
		seen[rec.Key()] = struct{}{}
		combined = append(combined, rec)
	}
	added := 0
	for _, rec := range accepted {
		key := rec.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		combined = append(combined, rec)
		added++
	}
	return combined, added
}

// VerifiedFile returns the name of the verified list.
func (c *Consolidator) VerifiedFile() string {
	return c.lists.VerifiedFile
}

// LoadVerified reads the verified list. A missing file yields no records and
// no error.
func (c *Consolidator) LoadVerified(ctx context.Context) ([]Record, error) {
	data, err := c.files.Get(ctx, c.lists.VerifiedFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read verified employees: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.lists.VerifiedFile, err)
	}
	return records, nil
}

// SaveVerified merges accepted into the verified list and rewrites it.
func (c *Consolidator) SaveVerified(ctx context.Context, accepted []Record) (VerifiedResult, error) {
	existing, err := c.LoadVerified(ctx)
	if err != nil {
		return VerifiedResult{}, err
	}
	combined, added := MergeVerified(existing, accepted)
	path, err := c.write(ctx, c.lists.VerifiedFile, combined)
	if err != nil {
		return VerifiedResult{}, fmt.Errorf("write verified employees: %w", err)
	}
	c.logger.Info("verified employees merged",
		zap.Int("existing", len(existing)),
		zap.Int("added", added),
		zap.Int("total", len(combined)))
	return VerifiedResult{Path: path, Existing: len(existing), Added: added, Employees: combined}, nil
}
