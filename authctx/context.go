// Package authctx propagates the authenticated identity through
// context.Context. The AuthGate middleware stores the identity after
// verifying the bearer token; handlers retrieve it without re-parsing.
package authctx

import (
	"context"
	"errors"
)

// Identity is the authenticated caller attached to a request.
// It is the public projection only, never the stored user record.
type Identity struct {
	ID    string
	Email string
}

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey struct{}

var identityKey = contextKey{}

// ErrNoIdentity is returned when no identity is present in the context.
var ErrNoIdentity = errors.New("authctx: no identity in context")

// Set stores the authenticated identity in the context.
func Set(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Get retrieves the identity from the context.
func Get(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// MustGet retrieves the identity, panicking if absent. Use only in handlers
// behind the required auth middleware, which guarantees presence.
func MustGet(ctx context.Context) Identity {
	id, ok := Get(ctx)
	if !ok {
		panic("authctx: identity not found in context")
	}
	return id
}

// GetOrError retrieves the identity, returning ErrNoIdentity if absent.
func GetOrError(ctx context.Context) (Identity, error) {
	id, ok := Get(ctx)
	if !ok {
		return Identity{}, ErrNoIdentity
	}
	return id, nil
}
