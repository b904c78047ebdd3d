package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spendlog/internal/core"
	"spendlog/internal/log"
	"spendlog/internal/store"
)

type fakeUserReader struct {
	users map[string]store.User
}

func (f *fakeUserReader) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	u, ok := f.users[email]
	if !ok {
		return store.User{}, core.ErrNotFound
	}
	return u, nil
}

func testAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	hash, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	users := &fakeUserReader{users: map[string]store.User{
		"alice@example.com": {ID: "1", Email: "alice@example.com", PasswordHash: hash},
	}}
	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	return NewAuthenticator(users, NewSessions(time.Hour), logger)
}

func TestLoginIssuesResolvableToken(t *testing.T) {
	a := testAuthenticator(t)

	token, userID, err := a.Login(context.Background(), "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if userID != "1" {
		t.Fatalf("userID = %s, want 1", userID)
	}

	resolved, ok := a.sessions.Resolve(token)
	if !ok || resolved != "1" {
		t.Fatalf("Resolve(%q) = %q, %v", token, resolved, ok)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	a := testAuthenticator(t)

	cases := []struct {
		name, email, password string
	}{
		{"wrong password", "alice@example.com", "wrong"},
		{"unknown account", "nobody@example.com", "correct-horse"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := a.Login(context.Background(), tc.email, tc.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("want ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	a := testAuthenticator(t)
	token, _, err := a.Login(context.Background(), "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	a.Logout(token)
	if _, ok := a.sessions.Resolve(token); ok {
		t.Fatal("token still resolves after logout")
	}
}

func TestMiddlewareShortCircuitsWithoutSession(t *testing.T) {
	a := testAuthenticator(t)
	token, _, err := a.Login(context.Background(), "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	handlerHit := false
	var seenUser string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerHit = true
		seenUser, _ = UserFrom(r.Context())
	})
	onFail := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}
	wrapped := a.Middleware(onFail)(next)

	// No token at all.
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/expenses/", nil))
	if handlerHit {
		t.Fatal("handler ran without a session")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	// Bearer token.
	req := httptest.NewRequest(http.MethodGet, "/expenses/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	wrapped.ServeHTTP(httptest.NewRecorder(), req)
	if !handlerHit || seenUser != "1" {
		t.Fatalf("handlerHit=%v user=%q, want handler run as user 1", handlerHit, seenUser)
	}

	// Cookie.
	handlerHit, seenUser = false, ""
	req = httptest.NewRequest(http.MethodGet, "/expenses/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	wrapped.ServeHTTP(httptest.NewRecorder(), req)
	if !handlerHit || seenUser != "1" {
		t.Fatalf("cookie auth failed: handlerHit=%v user=%q", handlerHit, seenUser)
	}
}
