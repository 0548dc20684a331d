package utils

import (
	"context"
	"errors"
)

type ContextKey string

const IdentityKey ContextKey = "identity"

var (
	ErrNoIdentityInContext = errors.New("no identity found in context")
	ErrEmptyUserID         = errors.New("identity has no user id")
)

// Identity is the authenticated caller as reported by the auth service.
type Identity struct {
	UserID string
	Email  string
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

func GetIdentityFromContext(ctx context.Context) (Identity, error) {
	identity, ok := ctx.Value(IdentityKey).(Identity)
	if !ok {
		return Identity{}, ErrNoIdentityInContext
	}
	if identity.UserID == "" {
		return Identity{}, ErrEmptyUserID
	}
	return identity, nil
}
