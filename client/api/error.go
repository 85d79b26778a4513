package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnavailable marks connectivity failures and 5xx responses. They are never
// retried automatically; the user has to trigger the action again.
var ErrUnavailable = errors.New("storefront unavailable")

// Error is a non-2xx response carrying the server error payload.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

// Unwrap exposes ErrUnavailable for server side failures.
func (e *Error) Unwrap() error {
	if e.Status >= http.StatusInternalServerError {
		return ErrUnavailable
	}
	return nil
}

// IsBusiness reports whether err is a business rejection (duplicate email, wrong
// password, ...) whose message should be shown to the user.
func IsBusiness(err error) bool {
	if isSessionError(err) {
		return false
	}
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500
}

// ValidationError is a malformed input detected before reaching the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %v: %v", e.Field, e.Message)
}

func parseError(body []byte, status int) error {
	ret := &Error{Status: status}
	if err := json.Unmarshal(body, ret); err != nil || ret.Message == "" {
		ret.Message = strings.TrimSpace(string(body))
		if len(ret.Message) > 256 {
			ret.Message = ret.Message[:256]
		}
	}
	if ret.Message == "" {
		ret.Message = http.StatusText(status)
	}
	return ret
}
