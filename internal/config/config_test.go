package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Interpreter)
	assert.Equal(t, 2*time.Second, cfg.UI.InvalidDelay)
	assert.Equal(t, 2*time.Second, cfg.Dispatch.RunAllDelay)
	assert.True(t, cfg.Bootstrap.Enabled)
	assert.Contains(t, cfg.Bootstrap.Packages, "beautifulsoup4:bs4")
	assert.Equal(t, "merged_employees.json", cfg.Employees.Sources[0])
	assert.Equal(t, "processed_employee_data.json", cfg.Employees.ProcessedFile)
	assert.Equal(t, "verified_employee_data.json", cfg.Employees.VerifiedFile)
	assert.False(t, cfg.Sync.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Sync.PollInterval)
}

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "discovery.yaml")
	configYAML := `
workdir: /srv/discovery
interpreter: /usr/bin/python3.12
logging:
  development: false
  level: debug
ui:
  invalid_delay: 500ms
dispatch:
  run_all_delay: 0s
bootstrap:
  enabled: false
  strict: true
  packages: ["requests"]
employees:
  sources: ["a.json", "b.json"]
  processed_file: out.json
sync:
  enabled: true
  repo_dir: /srv/repo
  poll_interval: 30s
metrics:
  textfile: /tmp/discovery.prom
`
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/discovery", cfg.Workdir)
	assert.Equal(t, "/usr/bin/python3.12", cfg.Interpreter)
	assert.False(t, cfg.Logging.Development)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 500*time.Millisecond, cfg.UI.InvalidDelay)
	assert.Zero(t, cfg.Dispatch.RunAllDelay)
	assert.False(t, cfg.Bootstrap.Enabled)
	assert.True(t, cfg.Bootstrap.Strict)
	assert.Equal(t, []string{"requests"}, cfg.Bootstrap.Packages)
	assert.Equal(t, []string{"a.json", "b.json"}, cfg.Employees.Sources)
	assert.Equal(t, "out.json", cfg.Employees.ProcessedFile)
	assert.True(t, cfg.Sync.Enabled)
	assert.Equal(t, "/srv/repo", cfg.ResolveRepoDir("/ignored"))
	assert.Equal(t, 30*time.Second, cfg.Sync.PollInterval)
	assert.Equal(t, "/tmp/discovery.prom", cfg.Metrics.Textfile)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Interpreter: "python3",
		Employees:   EmployeesConfig{ProcessedFile: "processed.json"},
	}

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "missing interpreter",
			cfg: func() Config {
				c := base
				c.Interpreter = " "
				return c
			}(),
			want: "interpreter",
		},
		{
			name: "negative invalid delay",
			cfg: func() Config {
				c := base
				c.UI.InvalidDelay = -time.Second
				return c
			}(),
			want: "ui.invalid_delay",
		},
		{
			name: "negative run all delay",
			cfg: func() Config {
				c := base
				c.Dispatch.RunAllDelay = -time.Second
				return c
			}(),
			want: "dispatch.run_all_delay",
		},
		{
			name: "missing processed file",
			cfg: func() Config {
				c := base
				c.Employees.ProcessedFile = ""
				return c
			}(),
			want: "employees.processed_file",
		},
		{
			name: "sync without poll interval",
			cfg: func() Config {
				c := base
				c.Sync.Enabled = true
				return c
			}(),
			want: "sync.poll_interval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestResolveWorkdir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got, err := Config{Workdir: dir}.ResolveWorkdir()
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	got, err = Config{}.ResolveWorkdir()
	require.NoError(t, err)
	assert.NotEmpty(t, got)
	assert.Equal(t, got, Config{}.ResolveRepoDir(got))
}
