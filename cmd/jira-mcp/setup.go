package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/h0rv/jira-mcp/internal/auth"
	"github.com/h0rv/jira-mcp/internal/bridge"
	"github.com/h0rv/jira-mcp/internal/config"
	"github.com/h0rv/jira-mcp/internal/issueview"
	"github.com/h0rv/jira-mcp/internal/jira"
)

// app is everything a command needs, built from flags, environment and config.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	client *jira.Client
	rc     *bridge.Context
	close  func()
}

func setup() (*app, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}
	if baseURLFlag != "" {
		cfg.BaseURL = baseURLFlag
	}
	if logLevelFlag != "" {
		cfg.Log.Level = logLevelFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	providers := append([]auth.CredentialProvider{
		&auth.ConfigProvider{Source: "command-line flags", Username: usernameFlag, Token: tokenFlag},
	}, cfg.CredentialProviders()...)
	creds, err := auth.GetCredentials(providers...)
	if err != nil {
		closeLog()
		return nil, err
	}

	client, err := jira.New(jira.Config{
		BaseURL:     cfg.BaseURL,
		Credentials: creds,
		HTTPClient:  &http.Client{Timeout: cfg.HTTPTimeout},
		Logger:      logger,
	})
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to create Jira client: %w", err)
	}

	rc := &bridge.Context{
		API:     client,
		Logger:  logger,
		BaseURL: client.BaseURL(),
		Options: bridge.Options{
			MaxPageSize:      cfg.MaxPageSize,
			SampleSize:       cfg.BoardSampleSize,
			Flagged:          issueview.NameFlagDetector{Name: cfg.FlaggedFieldName},
			MaxDocumentDepth: cfg.MaxDocumentDepth,
		},
	}

	logger.Debug("configured", "base_url", cfg.BaseURL, "auth_method", creds.Method)
	return &app{cfg: cfg, logger: logger, client: client, rc: rc, close: closeLog}, nil
}

// newLogger writes to the configured log file, or stderr. stdout is reserved
// for the stdio transport.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closeFn, nil
}
