package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the data directory.
const FileName = "coa.yaml"

// Report formats.
const (
	FormatText = "text"
	FormatXLSX = "xlsx"
)

// Config represents coa.yaml.
type Config struct {
	Files   FilesConfig   `yaml:"files"`
	Reports ReportsConfig `yaml:"reports"`
	Git     GitConfig     `yaml:"git"`
	Log     LogConfig     `yaml:"log"`
}

// FilesConfig locates the persisted chart. Relative paths are resolved
// against the directory holding coa.yaml.
type FilesConfig struct {
	Accounts     string `yaml:"accounts"`
	Transactions string `yaml:"transactions"`
	Activity     string `yaml:"activity"` // empty disables the activity log
}

// ReportsConfig controls where and how account reports are written.
type ReportsConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // "text" or "xlsx"
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// LogConfig sets the log level (debug, info, warn, error).
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a coa.yaml file from disk. Fields missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the configuration used when no coa.yaml exists.
func Default() *Config {
	return &Config{
		Files: FilesConfig{
			Accounts:     "accounts.csv",
			Transactions: "transactions.csv",
			Activity:     "activity.csv",
		},
		Reports: ReportsConfig{
			Dir:    "reports",
			Format: FormatText,
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "COA",
			AuthorEmail: "coa@localhost",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate rejects settings no command could act on.
func (c *Config) Validate() error {
	if c.Files.Accounts == "" {
		return fmt.Errorf("config: files.accounts is empty")
	}
	if c.Files.Transactions == "" {
		return fmt.Errorf("config: files.transactions is empty")
	}
	if c.Reports.Format != FormatText && c.Reports.Format != FormatXLSX {
		return fmt.Errorf("config: unknown reports.format %q", c.Reports.Format)
	}
	return nil
}

// Resolve returns a copy with relative file locations joined onto baseDir.
func (c *Config) Resolve(baseDir string) *Config {
	out := *c
	out.Files.Accounts = resolve(baseDir, c.Files.Accounts)
	out.Files.Transactions = resolve(baseDir, c.Files.Transactions)
	out.Files.Activity = resolve(baseDir, c.Files.Activity)
	out.Reports.Dir = resolve(baseDir, c.Reports.Dir)
	return &out
}

func resolve(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

// LoadDir loads <dir>/coa.yaml, falling back to defaults when the file does
// not exist, and resolves paths against dir.
func LoadDir(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}
	return cfg.Resolve(dir), nil
}
