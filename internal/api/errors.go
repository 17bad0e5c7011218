package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated indicates no bearer credential was available; no
	// network attempt is made in that case.
	ErrUnauthenticated = errors.New("no credential available")
	// ErrSessionExpired indicates the server answered 401; the caller must
	// force re-authentication.
	ErrSessionExpired = errors.New("session expired")
	// ErrUnreachable covers transport failures and timeouts, which are
	// indistinguishable from the client's point of view.
	ErrUnreachable = errors.New("manager api unreachable")
)

// ServerRejectedError carries a business-rule refusal returned by the server,
// e.g. "salaire déjà payé". An envelope with success=false is treated the
// same as an HTTP error status.
type ServerRejectedError struct {
	Status int
	Reason string
}

func (e *ServerRejectedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("server rejected request (status %d)", e.Status)
	}
	return "server rejected request: " + e.Reason
}
