// Package config loads the bridge's settings from a YAML file and the
// environment. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/h0rv/jira-mcp/internal/adf"
	"github.com/h0rv/jira-mcp/internal/auth"
	"github.com/h0rv/jira-mcp/internal/board"
	"github.com/h0rv/jira-mcp/internal/issueview"
	"github.com/h0rv/jira-mcp/internal/paging"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfigPath = "JIRA_MCP_CONFIG"
	EnvBaseURL    = "JIRA_BASE_URL"
)

// DefaultHTTPTimeout bounds a single Jira request.
const DefaultHTTPTimeout = 30 * time.Second

// ErrNoBaseURL is returned by Validate when no site URL was configured.
var ErrNoBaseURL = errors.New("jira base url not set")

// Auth holds credentials from the config file.
type Auth struct {
	Method   string `yaml:"method"`
	Username string `yaml:"username"`
	Token    string `yaml:"token"`
}

// Log controls the process logger.
type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Config is the full set of settings.
type Config struct {
	BaseURL          string        `yaml:"base_url"`
	Auth             Auth          `yaml:"auth"`
	HTTPTimeout      time.Duration `yaml:"http_timeout"`
	MaxPageSize      int           `yaml:"max_page_size"`
	BoardSampleSize  int           `yaml:"board_sample_size"`
	FlaggedFieldName string        `yaml:"flagged_field_name"`
	MaxDocumentDepth int           `yaml:"max_document_depth"`
	Log              Log           `yaml:"log"`
}

// Default returns a Config with every default filled in.
func Default() *Config {
	return &Config{
		HTTPTimeout:      DefaultHTTPTimeout,
		MaxPageSize:      paging.DefaultMaxPageSize,
		BoardSampleSize:  board.DefaultSampleSize,
		FlaggedFieldName: issueview.DefaultFlaggedName,
		MaxDocumentDepth: adf.DefaultMaxDepth,
		Log:              Log{Level: "info"},
	}
}

// Load reads path (or $JIRA_MCP_CONFIG when path is empty) over the defaults,
// then applies JIRA_BASE_URL. A missing path is not an error; a named file
// that does not exist is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults replaces zero or negative numeric settings with defaults so a
// partially written file still yields usable values.
func (c *Config) fillDefaults() {
	d := Default()
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = d.HTTPTimeout
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = d.MaxPageSize
	}
	if c.BoardSampleSize <= 0 {
		c.BoardSampleSize = d.BoardSampleSize
	}
	if c.FlaggedFieldName == "" {
		c.FlaggedFieldName = d.FlaggedFieldName
	}
	if c.MaxDocumentDepth <= 0 {
		c.MaxDocumentDepth = d.MaxDocumentDepth
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// Validate checks the settings needed to talk to Jira.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("%w: set base_url, %s or --base-url", ErrNoBaseURL, EnvBaseURL)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// CredentialProviders returns the providers to try, environment first.
func (c *Config) CredentialProviders() []auth.CredentialProvider {
	return []auth.CredentialProvider{
		&auth.EnvProvider{},
		&auth.ConfigProvider{
			Source:   "config file",
			Method:   c.Auth.Method,
			Username: c.Auth.Username,
			Token:    c.Auth.Token,
		},
	}
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return level, nil
}
