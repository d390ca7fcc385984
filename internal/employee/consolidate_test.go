package employee

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JakeFAU/employee-discovery/internal/storage/local"
)

var testSources = []string{
	"merged_employees.json",
	"linkedin_employees.json",
	"temp_employee_data.json",
	"processed_employee_data.json",
}

func writeList(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func newConsolidator(t *testing.T, logger *zap.Logger) (*Consolidator, string) {
	t.Helper()
	dir := t.TempDir()
	files, err := local.New(local.Config{BaseDir: dir})
	require.NoError(t, err)
	return NewConsolidator(files, Lists{
		Sources:       testSources,
		ProcessedFile: "processed_employee_data.json",
	}, logger), dir
}

func TestConsolidateFirstWriteWins(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	c, dir := newConsolidator(t, zap.New(core))
	writeList(t, dir, "merged_employees.json", `[
		{"first_name": "jane", "last_name": "doe", "title": "CEO", "confidence": "medium", "source": "Website"},
		{"first_name": "x", "last_name": "short"}
	]`)
	writeList(t, dir, "linkedin_employees.json", `[
		{"first_name": "JANE", "last_name": "DOE", "title": "Intern", "confidence": "high"},
		{"first_name": "adam", "last_name": "zed", "confidence": "high", "source": "LinkedIn", "url": "https://l/adam"}
	]`)
	writeList(t, dir, "temp_employee_data.json", `{not json`)

	res, err := c.Consolidate(context.Background(), Defaults{CompanyName: "Acme", Location: "Oslo"}, Overrides{})
	require.NoError(t, err)
	require.Len(t, res.Employees, 2)

	assert.Equal(t, "Adam", res.Employees[0].FirstName)
	assert.Equal(t, High, res.Employees[0].Confidence)
	assert.Equal(t, "https://l/adam", res.Employees[0].Link)

	jane := res.Employees[1]
	assert.Equal(t, "CEO", jane.Title)
	assert.Equal(t, Medium, jane.Confidence)
	assert.Equal(t, "Acme", jane.CompanyName)
	assert.Equal(t, "Oslo", jane.Location)

	assert.Equal(t, 2, res.Stats.Total)
	assert.Equal(t, filepath.Join(dir, "processed_employee_data.json"), res.Path)
	assert.Equal(t, 1, logs.FilterMessage("skipping unreadable employee list").Len())

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	var written []Record
	require.NoError(t, json.Unmarshal(data, &written))
	assert.Equal(t, res.Employees, written)
}

func TestConsolidateUsesRecordTempFile(t *testing.T) {
	t.Parallel()

	c, dir := newConsolidator(t, nil)
	writeList(t, dir, "custom_temp.json", `[{"first_name": "Ola", "last_name": "Nordmann"}]`)

	merged, err := c.Merge(context.Background(), Defaults{}, Overrides{TempFile: "custom_temp.json"})
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, Unknown, merged[0].Source)
	assert.Equal(t, Low, merged[0].Confidence)
}

func TestConsolidateNoEmployees(t *testing.T) {
	t.Parallel()

	c, dir := newConsolidator(t, nil)
	writeList(t, dir, "merged_employees.json", `[{"first_name": "A", "last_name": "B"}]`)

	_, err := c.Consolidate(context.Background(), Defaults{}, Overrides{})
	require.ErrorIs(t, err, ErrNoEmployees)
	_, statErr := os.Stat(filepath.Join(dir, "processed_employee_data.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestConsolidateIsRepeatable(t *testing.T) {
	t.Parallel()

	c, dir := newConsolidator(t, nil)
	writeList(t, dir, "linkedin_employees.json", `[{"first_name": "Kim", "last_name": "Park", "confidence": "low"}]`)

	first, err := c.Consolidate(context.Background(), Defaults{}, Overrides{})
	require.NoError(t, err)
	second, err := c.Consolidate(context.Background(), Defaults{}, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, first.Employees, second.Employees)
}

func TestConsolidateUsesRecordProcessedFile(t *testing.T) {
	t.Parallel()

	c, dir := newConsolidator(t, nil)
	writeList(t, dir, "processed_employee_data.json", `[{"first_name": "Default", "last_name": "Slot"}]`)
	writeList(t, dir, "acme_processed.json", `[{"first_name": "Record", "last_name": "Slot"}]`)

	res, err := c.Consolidate(context.Background(), Defaults{}, Overrides{ProcessedFile: "acme_processed.json"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "acme_processed.json"), res.Path)
	require.Len(t, res.Employees, 1)
	assert.Equal(t, "Record", res.Employees[0].FirstName)

	data, err := os.ReadFile(filepath.Join(dir, "processed_employee_data.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Default", "configured processed list must be left alone")
}
