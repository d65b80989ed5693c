// Package jira provides a REST client for the Jira Cloud platform and Agile APIs.
// Methods return raw documents where callers reconcile metadata themselves and
// decoded domain types where the shape is fixed.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/h0rv/jira-mcp/internal/auth"
	"github.com/h0rv/jira-mcp/internal/domain"
	"github.com/machinebox/graphql"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "jira-mcp/0.1"

	// maxErrorBody caps how much of a failed response is kept in an APIError.
	maxErrorBody = 64 << 10
)

// Config configures a Client.
type Config struct {
	// BaseURL is the site root, e.g. https://example.atlassian.net.
	BaseURL     string
	Credentials auth.Credentials
	// HTTPClient defaults to a client with a 30s timeout.
	HTTPClient *http.Client
	Logger     *slog.Logger
	// GatewayURL overrides the Atlassian GraphQL gateway endpoint.
	GatewayURL string
}

// Client is a Jira REST API client.
// It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	creds      auth.Credentials
	logger     *slog.Logger
	gql        *graphql.Client
}

// New creates a new Jira client.
// Returns an error if the base URL is invalid or the credentials are incomplete.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("jira base URL is required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, fmt.Errorf("base URL must be http(s), got %q", cfg.BaseURL)
	}
	if err := cfg.Credentials.Validate(); err != nil {
		return nil, fmt.Errorf("failed to configure authentication: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gatewayURL := cfg.GatewayURL
	if gatewayURL == "" {
		gatewayURL = base + "/gateway/api/graphql"
	}

	return &Client{
		baseURL:    u,
		httpClient: httpClient,
		creds:      cfg.Credentials,
		logger:     logger.With("component", "jira"),
		gql:        graphql.NewClient(gatewayURL, graphql.WithHTTPClient(httpClient)),
	}, nil
}

// BaseURL returns the site root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// BrowseURL returns the web URL of an issue.
func (c *Client) BrowseURL(key string) string {
	return domain.BrowseURL(c.BaseURL(), key)
}

// makeRequest executes a REST call and returns the response body.
// A 204 or empty body yields "{}". Non-2xx responses become *APIError.
func (c *Client) makeRequest(ctx context.Context, method, path string, query url.Values, body any) (domain.Document, error) {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.creds.AuthorizationHeader())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{StatusCode: resp.StatusCode, Method: method, Path: path, Body: raw}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return domain.Document("{}"), nil
	}
	return domain.Document(raw), nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (domain.Document, error) {
	return c.makeRequest(ctx, http.MethodGet, path, query, nil)
}

// getInto decodes a GET response into out.
func (c *Client) getInto(ctx context.Context, path string, query url.Values, out any) error {
	doc, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(doc, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// decodeTree decodes a document into generic JSON values.
func decodeTree(doc []byte) (any, error) {
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, err
	}
	return v, nil
}
