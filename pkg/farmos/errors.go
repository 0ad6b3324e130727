package farmos

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError represents a non-2xx response from a farmOS server.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Title      string `json:"title,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (status: %d)", e.Title, e.Detail, e.StatusCode)
	}

	return fmt.Sprintf("%s (status: %d)", e.Title, e.StatusCode)
}

// ParseAPIError builds an APIError from a response body. Drupal RESTWS
// error bodies are sometimes JSON and sometimes plain text.
func ParseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Title:      http.StatusText(statusCode),
	}

	var envelope struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Title            string `json:"title"`
		Detail           string `json:"detail"`
		Message          string `json:"message"`
	}

	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Detail == "" {
			envelope.Detail = envelope.Message
		}

		switch {
		case envelope.Error != "":
			apiErr.Title = envelope.Error
			apiErr.Detail = envelope.ErrorDescription
		case envelope.Title != "":
			apiErr.Title = envelope.Title
			apiErr.Detail = envelope.Detail
		case envelope.Detail != "":
			apiErr.Detail = envelope.Detail
		}

		return apiErr
	}

	apiErr.Detail = strings.TrimSpace(string(body))

	return apiErr
}

// Static errors that can be wrapped with context.
var (
	ErrConfigRequired           = errors.New("config is required")
	ErrHostnameRequired         = errors.New("hostname is required")
	ErrNoValidCredentials       = errors.New("no valid credentials available")
	ErrTokenExchangeFailed      = errors.New("token exchange failed")
	ErrStaticTokenCannotRefresh = errors.New("static token cannot be refreshed")
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
	ErrVocabularyNotFound       = errors.New("vocabulary not found")
	ErrInvalidFlagValue         = errors.New("invalid flag value")
	ErrNoMoreItems              = errors.New("no more items")
)

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}

	return false
}

// IsUnauthorized checks if the error is an authentication error.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}

	return false
}

// IsForbidden checks if the error is an authorization error.
func IsForbidden(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusForbidden
	}

	return false
}
