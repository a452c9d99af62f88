// Package upstream classifies outbound HTTP failures. The gateway and
// CRM adapters both surface one of three kinds — timeout, connection
// failure, non-2xx status — which the services map onto a single
// upstream error at the API boundary.
package upstream

import (
	"errors"
	"fmt"
	"net"
)

// Kind discriminates failure classes of an outbound call.
type Kind int

const (
	// KindTimeout covers deadline and request timeouts.
	KindTimeout Kind = iota + 1
	// KindConnection covers dial/reset failures before a response.
	KindConnection
	// KindStatus covers responses with an unexpected HTTP status.
	KindStatus
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Error is a classified outbound HTTP failure. Status and Body are set
// only for KindStatus; Body carries the response text for audit logs.
type Error struct {
	Kind   Kind
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("upstream %s: HTTP %d", e.Kind, e.Status)
	}
	return fmt.Sprintf("upstream %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FromRequestError classifies a transport-level error from http.Client.Do.
func FromRequestError(err error) *Error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Err: err}
	}
	return &Error{Kind: KindConnection, Err: err}
}

// FromStatus builds a status-kind error for a non-success response.
func FromStatus(status int, body string) *Error {
	return &Error{Kind: KindStatus, Status: status, Body: body}
}
