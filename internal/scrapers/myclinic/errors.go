package myclinic

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication means the login handshake failed: credentials were
	// rejected or the token/cookie could not be extracted.
	ErrAuthentication = errors.New("myclinic: authentication failed")
	// ErrNotAuthenticated means there is no session and no stored credentials
	// to recover one.
	ErrNotAuthenticated = errors.New("myclinic: not authenticated, login first")
	// ErrSessionRejected is wrapped by an UpstreamError when the site answers
	// 401/403 or redirects to the sign in page.
	ErrSessionRejected = errors.New("myclinic: session rejected")
)

// UpstreamError is a network or HTTP failure talking to the site.
type UpstreamError struct {
	Method string
	Path   string
	// Status is 0 when no response was received.
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("myclinic: %s %s: %v", e.Method, e.Path, e.Err)
	}
	if e.Err == nil {
		return fmt.Sprintf("myclinic: %s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("myclinic: %s %s: status %d: %v", e.Method, e.Path, e.Status, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ParseError means an expected marker was absent from a response.
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("myclinic: parse %s: marker not found", e.What)
	}
	return fmt.Sprintf("myclinic: parse %s: %v", e.What, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
