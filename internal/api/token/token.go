// Package token contains utilities for handling the authenticated user
// attached to a request.
package token

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type userIDKeyType struct{}

var userIDKey userIDKeyType

var ErrNoUserID = errors.New("no user id in context")

// UserIDWithCtx attaches the authenticated user's id to a context.
func UserIDWithCtx(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromCtx extracts the authenticated user's id from a context.
func UserIDFromCtx(ctx context.Context) (int64, error) {
	if v, ok := ctx.Value(userIDKey).(int64); ok {
		return v, nil
	}
	return 0, ErrNoUserID
}

// FromRequest extracts the bearer access token from the Authorization
// header, returning "" when none is present.
func FromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
