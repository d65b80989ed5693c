package jira

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// APIError is a non-2xx response from Jira. The body is kept verbatim so
// callers can surface Jira's own diagnostics.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jira: %s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Message())
}

// Message extracts a readable message from the response body: joined
// errorMessages, then field errors, then "message", then the raw body.
func (e *APIError) Message() string {
	return ExtractMessage(e.Body)
}

// Response returns the body decoded as JSON, or {"raw_error": body} when it
// is not JSON.
func (e *APIError) Response() any {
	if gjson.ValidBytes(e.Body) && len(e.Body) > 0 {
		if v, err := decodeTree(e.Body); err == nil {
			return v
		}
	}
	return map[string]any{"raw_error": string(e.Body)}
}

// ExtractMessage turns a Jira error body into one line.
func ExtractMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body))
	}
	doc := gjson.ParseBytes(body)

	var messages []string
	doc.Get("errorMessages").ForEach(func(_, m gjson.Result) bool {
		if m.Type == gjson.String {
			messages = append(messages, m.String())
		}
		return true
	})
	if len(messages) > 0 {
		return strings.Join(messages, "; ")
	}

	doc.Get("errors").ForEach(func(field, m gjson.Result) bool {
		if m.Type == gjson.String {
			messages = append(messages, field.String()+": "+m.String())
		}
		return true
	})
	if len(messages) > 0 {
		sort.Strings(messages)
		return strings.Join(messages, "; ")
	}

	if m := doc.Get("message"); m.Type == gjson.String {
		return m.String()
	}
	return strings.TrimSpace(string(body))
}

// StatusCode returns the HTTP status of an APIError anywhere in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a Jira 404 response.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized reports whether err is a Jira 401 response.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsRateLimited reports whether err is a Jira 429 response.
func IsRateLimited(err error) bool {
	return StatusCode(err) == http.StatusTooManyRequests
}
