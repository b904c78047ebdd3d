package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"spendlog/internal/core"
	"spendlog/internal/log"
	"spendlog/internal/store"
)

// ErrInvalidCredentials covers both unknown accounts and wrong
// passwords so login responses do not leak which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator verifies credentials against the user store and hands
// out session tokens.
type Authenticator struct {
	users    store.UserReader
	sessions *Sessions
	logger   *log.Logger
}

func NewAuthenticator(users store.UserReader, sessions *Sessions, logger *log.Logger) *Authenticator {
	return &Authenticator{
		users:    users,
		sessions: sessions,
		logger:   logger.WithComponent(log.ComponentAuth),
	}
}

// Login checks the password and issues a session token for the account.
func (a *Authenticator) Login(ctx context.Context, email, password string) (token, userID string, err error) {
	user, err := a.users.GetUserByEmail(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return "", "", ErrInvalidCredentials
	}
	if err != nil {
		return "", "", fmt.Errorf("look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		a.logger.WarnContext(ctx, "Login rejected", log.FieldUserID, user.ID)
		return "", "", ErrInvalidCredentials
	}

	token, err = a.sessions.Issue(user.ID)
	if err != nil {
		return "", "", err
	}

	a.logger.InfoContext(ctx, "Login succeeded", log.FieldUserID, user.ID)
	return token, user.ID, nil
}

// Logout revokes the session token, if any.
func (a *Authenticator) Logout(token string) {
	a.sessions.Revoke(token)
}

// HashPassword produces a bcrypt hash for storing new accounts.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// SessionCookie is the cookie the browser client sends the token in.
const SessionCookie = "spendlog_session"

// TokenFromRequest pulls the session token from either the
// Authorization header or the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if after, found := strings.CutPrefix(h, "Bearer "); found {
			return after
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// Middleware resolves the caller's session before any handler logic
// runs. Requests without a live session go to onFail and never reach
// the wrapped handler.
func (a *Authenticator) Middleware(onFail http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := a.sessions.Resolve(TokenFromRequest(r))
			if !ok {
				onFail(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
		})
	}
}
