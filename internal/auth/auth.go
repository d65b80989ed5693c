// Package auth provides Jira credential management.
// Providers are tried in order and the first complete set of credentials wins.
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Supported authentication methods.
const (
	MethodBasic  = "basic"
	MethodBearer = "bearer"
)

// Environment variables read by EnvProvider.
const (
	EnvUsername = "JIRA_USERNAME"
	EnvToken    = "JIRA_API_TOKEN"
	EnvMethod   = "JIRA_AUTH_METHOD"
)

// ErrNoCredentials is returned by a provider that has nothing to offer.
var ErrNoCredentials = errors.New("no credentials configured")

// Credentials authenticate requests against one Jira site.
type Credentials struct {
	Method   string
	Username string
	Token    string
}

// Validate checks that the credentials are usable for their method.
func (c Credentials) Validate() error {
	switch c.Method {
	case MethodBasic:
		if c.Username == "" {
			return errors.New("basic auth requires a username (the account email)")
		}
	case MethodBearer:
	default:
		return fmt.Errorf("unsupported auth method %q (use %q or %q)", c.Method, MethodBasic, MethodBearer)
	}
	if c.Token == "" {
		return errors.New("API token is empty")
	}
	return nil
}

// AuthorizationHeader returns the value for the HTTP Authorization header.
func (c Credentials) AuthorizationHeader() string {
	if c.Method == MethodBearer {
		return "Bearer " + c.Token
	}
	raw := c.Username + ":" + c.Token
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}

// CredentialProvider defines the interface for obtaining Jira credentials.
// Implementations may use different sources (flags, environment variables, config files).
type CredentialProvider interface {
	GetCredentials() (Credentials, error)
}

// EnvProvider reads credentials from JIRA_USERNAME, JIRA_API_TOKEN and the
// optional JIRA_AUTH_METHOD.
type EnvProvider struct{}

// GetCredentials reads the environment.
// Returns ErrNoCredentials if JIRA_API_TOKEN is not set or is empty.
func (e *EnvProvider) GetCredentials() (Credentials, error) {
	token := os.Getenv(EnvToken)
	if token == "" {
		return Credentials{}, fmt.Errorf("%s environment variable not set or empty: %w", EnvToken, ErrNoCredentials)
	}
	creds := Credentials{
		Method:   strings.ToLower(os.Getenv(EnvMethod)),
		Username: os.Getenv(EnvUsername),
		Token:    token,
	}
	creds.Method = defaultMethod(creds)
	if err := creds.Validate(); err != nil {
		return Credentials{}, fmt.Errorf("environment: %w", err)
	}
	return creds, nil
}

// ConfigProvider serves credentials held in memory, such as those parsed
// from command-line flags or the config file. Source names it in errors.
type ConfigProvider struct {
	Source   string
	Method   string
	Username string
	Token    string
}

// GetCredentials returns the configured credentials.
// Returns ErrNoCredentials if no token is configured.
func (p *ConfigProvider) GetCredentials() (Credentials, error) {
	if p.Token == "" {
		return Credentials{}, fmt.Errorf("%s has no token: %w", p.source(), ErrNoCredentials)
	}
	creds := Credentials{
		Method:   strings.ToLower(p.Method),
		Username: p.Username,
		Token:    p.Token,
	}
	creds.Method = defaultMethod(creds)
	if err := creds.Validate(); err != nil {
		return Credentials{}, fmt.Errorf("%s: %w", p.source(), err)
	}
	return creds, nil
}

func (p *ConfigProvider) source() string {
	if p.Source == "" {
		return "config"
	}
	return p.Source
}

// defaultMethod picks basic auth when a username is present and bearer otherwise.
func defaultMethod(c Credentials) string {
	if c.Method != "" {
		return c.Method
	}
	if c.Username != "" {
		return MethodBasic
	}
	return MethodBearer
}

// GetCredentials tries each provider in order and returns the first
// credentials found. A provider with invalid credentials stops the search.
//
// If no provider has credentials the error explains how to configure them.
func GetCredentials(providers ...CredentialProvider) (Credentials, error) {
	var tried []string
	for _, p := range providers {
		creds, err := p.GetCredentials()
		if err == nil {
			return creds, nil
		}
		if !errors.Is(err, ErrNoCredentials) {
			return Credentials{}, fmt.Errorf("invalid Jira credentials: %w", err)
		}
		tried = append(tried, err.Error())
	}

	return Credentials{}, fmt.Errorf(
		"failed to obtain Jira credentials (%s).\n"+
			"Please either:\n"+
			"  1. Pass --username and --token, or\n"+
			"  2. Set %s and %s (an Atlassian API token), or\n"+
			"  3. Add auth.username and auth.token to the config file",
		strings.Join(tried, "; "), EnvUsername, EnvToken,
	)
}
