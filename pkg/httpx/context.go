package httpx

import "context"

type ctxKey string

const (
	CtxKeyUsername ctxKey = "username"
	CtxKeyUserID   ctxKey = "user_id"
)

// UsernameFromContext returns the authenticated username injected by
// AuthnMiddleware, or "" when the request is anonymous.
func UsernameFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUsername).(string); ok {
		return v
	}
	return ""
}

// UserIDFromContext returns the authenticated numeric user id, or 0.
func UserIDFromContext(ctx context.Context) int64 {
	if v, ok := ctx.Value(CtxKeyUserID).(int64); ok {
		return v
	}
	return 0
}
