package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"spendlog/internal/cache"
)

// Sessions maps opaque tokens to user ids. Tokens expire after the
// configured TTL; the backing cache also caps how many can be live at
// once.
type Sessions struct {
	tokens *cache.LRUCache[string]
}

const maxLiveSessions = 10000

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{tokens: cache.NewLRUCache[string](maxLiveSessions, ttl)}
}

// Issue creates a fresh token bound to userID.
func (s *Sessions) Issue(userID string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)
	s.tokens.Set(token, userID)
	return token, nil
}

// Resolve returns the user id for a live token.
func (s *Sessions) Resolve(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	return s.tokens.Get(token)
}

// Revoke invalidates a token. Unknown tokens are a no-op.
func (s *Sessions) Revoke(token string) {
	s.tokens.Delete(token)
}

// CleanExpired drops expired tokens; wired into the cache manager.
func (s *Sessions) CleanExpired() int {
	return s.tokens.CleanExpired()
}
