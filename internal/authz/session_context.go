package authz

import "context"

type sessionKey struct{}

// WithSession returns a context carrying the session's authorization
// context. Used by HTTP middleware to hand the authenticated session to
// downstream handlers.
func WithSession(ctx context.Context, session *Context) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext retrieves the session's authorization context, if any.
func SessionFromContext(ctx context.Context) (*Context, bool) {
	session, ok := ctx.Value(sessionKey{}).(*Context)
	return session, ok
}
