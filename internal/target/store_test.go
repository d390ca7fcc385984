package target

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JakeFAU/employee-discovery/internal/storage/local"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newTestStore(t *testing.T) (*Store, string, *observer.ObservedLogs) {
	t.Helper()
	dir := t.TempDir()
	files, err := local.New(local.Config{BaseDir: dir})
	require.NoError(t, err)
	core, logs := observer.New(zapcore.DebugLevel)
	clock := fixedClock{now: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)}
	return NewStore(files, clock, zap.New(core)), dir, logs
}

func requireDefaultRecord(t *testing.T, cfg Config) {
	t.Helper()
	assert.Empty(t, cfg.CompanyName)
	assert.Empty(t, cfg.Location)
	assert.Empty(t, cfg.CompanyWebsite)
	assert.Equal(t, DefaultOutputFile, cfg.OutputFile)
	assert.Equal(t, DefaultTempDataFile, cfg.TempDataFile)
	assert.Equal(t, DefaultPagesToScrape, cfg.PagesToScrape)
	assert.True(t, cfg.DebugMode)
	assert.NotNil(t, cfg.SearchTypes)
	assert.Empty(t, cfg.SearchTypes)
	assert.Equal(t, "2024-05-01 09:30:00", cfg.Timestamp)
}

func TestLoadMissingReturnsDefault(t *testing.T) {
	t.Parallel()

	store, _, logs := newTestStore(t)
	cfg := store.Load(context.Background())
	requireDefaultRecord(t, cfg)
	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestLoadCorruptReturnsDefault(t *testing.T) {
	t.Parallel()

	store, dir, logs := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0o600))

	cfg := store.Load(context.Background())
	requireDefaultRecord(t, cfg)
	assert.Equal(t, 1, logs.FilterMessage("config record is corrupted; using defaults").Len())
}

func TestDefaultFileHasAllKeys(t *testing.T) {
	t.Parallel()

	store, dir, _ := newTestStore(t)
	require.NoError(t, store.Save(context.Background(), store.Default()))

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	for _, key := range knownKeys {
		assert.Contains(t, string(data), `"`+key+`"`)
	}
	assert.Contains(t, string(data), `"search_types": []`)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	store, _, _ := newTestStore(t)
	ctx := context.Background()

	want := store.Default()
	want.CompanyName = "Acme Inc"
	want.Location = "New York"
	want.CompanyWebsite = "https://acme.example"
	want.OutputFile = DeriveOutputFile(want.CompanyName, want.Location)
	want.PagesToScrape = 9
	want.DebugMode = false
	want.RecordSearch("1a", "LinkedIn Search (via Recruitment Geek)")

	require.NoError(t, store.Save(ctx, want))
	got := store.Load(ctx)
	assert.Equal(t, want, got)
}

func TestSavePreservesUnknownKeys(t *testing.T) {
	t.Parallel()

	store, dir, _ := newTestStore(t)
	ctx := context.Background()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"company_name":"Acme","processed_data_file":"p.json"}`), 0o600))

	cfg := store.Load(ctx)
	cfg.Location = "Oslo"
	require.NoError(t, store.Save(ctx, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"processed_data_file": "p.json"`)
	assert.Contains(t, string(data), `"location": "Oslo"`)
}

func TestLoadFillsMissingKeys(t *testing.T) {
	t.Parallel()

	store, dir, _ := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"company_name":"Acme","search_types":null}`), 0o600))

	cfg := store.Load(context.Background())
	assert.Equal(t, "Acme", cfg.CompanyName)
	assert.Equal(t, DefaultPagesToScrape, cfg.PagesToScrape)
	assert.NotNil(t, cfg.SearchTypes)
}

func TestTouch(t *testing.T) {
	t.Parallel()

	store, _, _ := newTestStore(t)
	cfg := Config{}
	store.Touch(&cfg)
	assert.Equal(t, "2024-05-01 09:30:00", cfg.Timestamp)
	assert.Equal(t, filepath.Join(store.files.(*local.FileStore).BaseDir(), FileName), store.Path())
}
