package transport

import (
	"errors"
	"net/http"
)

// ErrSessionInvalid reports that the access credential could not be renewed; callers
// must sign the user out.
var ErrSessionInvalid = errors.New("session invalid")

// IsUnauthorized is the default authorization failure predicate: HTTP 401.
// Other 4xx/5xx statuses are returned to the caller untouched.
func IsUnauthorized(resp *http.Response) bool {
	return resp != nil && resp.StatusCode == http.StatusUnauthorized
}
