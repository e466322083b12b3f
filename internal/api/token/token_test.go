package token

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUserIDRoundTrip(t *testing.T) {
	ctx := UserIDWithCtx(context.Background(), 42)

	userID, err := UserIDFromCtx(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != 42 {
		t.Errorf("expected 42, got %d", userID)
	}
}

func TestUserIDFromEmptyCtx(t *testing.T) {
	if _, err := UserIDFromCtx(context.Background()); !errors.Is(err, ErrNoUserID) {
		t.Errorf("expected ErrNoUserID, got %v", err)
	}
}

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer token", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"trailing whitespace", "Bearer abc.def.ghi  ", "abc.def.ghi"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz", ""},
		{"bare token", "abc.def.ghi", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := FromRequest(r); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
