package shared

import "context"

// Identity is the minimal user reference carried through a request after
// authentication. The authoritative record lives in the users store.
type Identity struct {
	ID      int64
	Name    string
	Surname string
	Login   string
	IsAdmin bool
}

type identityContextKey struct{}

// ContextWithIdentity stores the authenticated identity in context.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the authenticated identity from context.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityContextKey{}).(*Identity)
	return id
}
