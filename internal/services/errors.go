package services

import (
	"fmt"

	"github.com/desertthunder/tdx/internal/shared"
)

// HTTPError is a response that arrived with a non-success status.
type HTTPError struct {
	Status  int
	Method  string
	Path    string
	Context string // leading part of the response body, if any
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s: %d %s %s", shared.ErrHTTPStatus, e.Status, e.Method, e.Path)
	if e.Context != "" {
		msg += ": " + e.Context
	}
	return msg
}

// Is makes an [HTTPError] match [shared.ErrHTTPStatus].
func (e *HTTPError) Is(target error) bool {
	return target == shared.ErrHTTPStatus
}
