package amplipi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnreachable marks transport-level failures (refused connection, DNS,
// timeout). Wrap chains keep the underlying error available via errors.Unwrap.
var ErrUnreachable = errors.New("controller unreachable")

// APIError reports a non-2xx response from the controller.
type APIError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("api %s returned status %d (%s): %s",
			e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
	}
	return fmt.Sprintf("api %s returned status %d (%s)",
		e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// AccessDeniedError reports a 401/403 response.
type AccessDeniedError struct {
	Path       string
	StatusCode int
	Message    string
}

func (e *AccessDeniedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("access denied for %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("access denied for %s", e.Path)
}
