package auth

import "context"

type ctxKey int

const userKey ctxKey = 0

// WithUser returns a context carrying the authenticated user id.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey, userID)
}

// UserFrom extracts the authenticated user id. The second return is
// false when the request never passed authentication.
func UserFrom(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userKey).(string)
	return userID, ok && userID != ""
}
