package api

import "context"

// TokenSource supplies the current bearer credential. Token storage and
// refresh belong to an external collaborator; the client only asks.
type TokenSource interface {
	// Token returns the current credential, or "" when none is held.
	Token(ctx context.Context) string
}

// StaticToken is a TokenSource holding a fixed credential, typically read
// from the environment.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(context.Context) string { return string(t) }
