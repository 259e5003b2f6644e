package domain

import (
	"fmt"
	"strings"
)

// ConfigurationError reports missing credentials or identifiers. It is fatal
// for the request that hit it and is never retried.
type ConfigurationError struct {
	Missing []string
}

func (e ConfigurationError) Error() string {
	if len(e.Missing) == 0 {
		return "missing configuration"
	}
	return fmt.Sprintf("missing configuration: %s", strings.Join(e.Missing, ", "))
}

// Is enables errors.Is matching on ConfigurationError.
func (e ConfigurationError) Is(target error) bool {
	_, ok := target.(ConfigurationError)
	if ok {
		return true
	}
	_, ok = target.(*ConfigurationError)
	return ok
}

// UpstreamError is a non-success status or unreadable body from a collaborator.
type UpstreamError struct {
	Upstream   string
	StatusCode int
	Body       string
	Err        error
}

func (e UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s error (%d): %s", e.Upstream, e.StatusCode, strings.TrimSpace(e.Body))
	case e.Err != nil:
		return fmt.Sprintf("%s error: %v", e.Upstream, e.Err)
	default:
		return fmt.Sprintf("%s error", e.Upstream)
	}
}

func (e UpstreamError) Unwrap() error { return e.Err }

// Is enables errors.Is matching on UpstreamError.
func (e UpstreamError) Is(target error) bool {
	_, ok := target.(UpstreamError)
	if ok {
		return true
	}
	_, ok = target.(*UpstreamError)
	return ok
}

var (
	ErrConfiguration = ConfigurationError{}
	ErrUpstream      = UpstreamError{}
)
