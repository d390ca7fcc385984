// Package config loads and validates tool settings via Viper.
//
// Settings describe how the tool runs (where scripts live, which interpreter
// launches them, delays, sync options). The per-search company record that
// scripts share lives in package target.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all tool settings loaded via Viper.
type Config struct {
	Workdir     string          `mapstructure:"workdir"`
	Interpreter string          `mapstructure:"interpreter"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	UI          UIConfig        `mapstructure:"ui"`
	Dispatch    DispatchConfig  `mapstructure:"dispatch"`
	Bootstrap   BootstrapConfig `mapstructure:"bootstrap"`
	Employees   EmployeesConfig `mapstructure:"employees"`
	Sync        SyncConfig      `mapstructure:"sync"`
	Metrics     MetricsConfig   `mapstructure:"metrics"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// UIConfig tunes the interactive menu.
type UIConfig struct {
	InvalidDelay time.Duration `mapstructure:"invalid_delay"`
}

// DispatchConfig governs script launching.
type DispatchConfig struct {
	RunAllDelay time.Duration `mapstructure:"run_all_delay"`
}

// BootstrapConfig lists the interpreter packages the search scripts need.
// Packages use the "pip-name:import-name" form; the import name is optional.
type BootstrapConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Strict   bool     `mapstructure:"strict"`
	Packages []string `mapstructure:"packages"`
}

// EmployeesConfig names the employee lists merged by consolidation, highest
// priority first, and the files consolidation and review write.
type EmployeesConfig struct {
	Sources       []string `mapstructure:"sources"`
	ProcessedFile string   `mapstructure:"processed_file"`
	VerifiedFile  string   `mapstructure:"verified_file"`
}

// SyncConfig controls the git sync utilities. They stay off unless Enabled.
type SyncConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	RepoDir      string        `mapstructure:"repo_dir"`
	Manifest     string        `mapstructure:"manifest"`
	Message      string        `mapstructure:"message"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Ignore       []string      `mapstructure:"ignore"`
}

// MetricsConfig points at an optional Prometheus textfile written on exit.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// Load builds a Config from defaults, an optional file, and DISCOVERY_*
// environment variables.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DISCOVERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("workdir", "")
	v.SetDefault("interpreter", defaultInterpreter())
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("ui.invalid_delay", 2*time.Second)
	v.SetDefault("dispatch.run_all_delay", 2*time.Second)
	v.SetDefault("bootstrap.enabled", true)
	v.SetDefault("bootstrap.strict", false)
	v.SetDefault("bootstrap.packages", []string{
		"requests",
		"beautifulsoup4:bs4",
		"selenium",
		"webdriver-manager:webdriver_manager",
		"openpyxl",
		"pandas",
	})
	v.SetDefault("employees.sources", []string{
		"merged_employees.json",
		"linkedin_employees.json",
		"website_employees.json",
		"script2a_employees.json",
		"temp_employee_data.json",
		"processed_employee_data.json",
		"url_processed_employees.json",
	})
	v.SetDefault("employees.processed_file", "processed_employee_data.json")
	v.SetDefault("employees.verified_file", "verified_employee_data.json")
	v.SetDefault("sync.enabled", false)
	v.SetDefault("sync.repo_dir", "")
	v.SetDefault("sync.manifest", "sync_manifest.json")
	v.SetDefault("sync.message", "")
	v.SetDefault("sync.poll_interval", 5*time.Second)
	v.SetDefault("sync.ignore", []string{".git", "__pycache__", "*.pyc", ".DS_Store", "*.log", "*.tmp"})
	v.SetDefault("metrics.textfile", "")
}

func defaultInterpreter() string {
	if os.PathSeparator == '\\' {
		return "python"
	}
	return "python3"
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Interpreter) == "" {
		return fmt.Errorf("interpreter must be set")
	}
	if c.UI.InvalidDelay < 0 {
		return fmt.Errorf("ui.invalid_delay must be >= 0")
	}
	if c.Dispatch.RunAllDelay < 0 {
		return fmt.Errorf("dispatch.run_all_delay must be >= 0")
	}
	if strings.TrimSpace(c.Employees.ProcessedFile) == "" {
		return fmt.Errorf("employees.processed_file must be set")
	}
	if c.Sync.Enabled && c.Sync.PollInterval <= 0 {
		return fmt.Errorf("sync.poll_interval must be > 0 when sync is enabled")
	}
	return nil
}

// ResolveWorkdir returns the directory holding the config record and the
// search scripts. An unset workdir means the directory of the running binary.
func (c Config) ResolveWorkdir() (string, error) {
	if dir := strings.TrimSpace(c.Workdir); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("resolve workdir %s: %w", dir, err)
		}
		return abs, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	return filepath.Dir(exe), nil
}

// ResolveRepoDir returns the sync repository directory, defaulting to workdir.
func (c Config) ResolveRepoDir(workdir string) string {
	if dir := strings.TrimSpace(c.Sync.RepoDir); dir != "" {
		return dir
	}
	return workdir
}
