package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession attaches the authenticated session to the request context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext returns the session placed in ctx by the auth
// middleware, or nil for unauthenticated requests.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}
