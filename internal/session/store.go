package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	keyPrefix = "session:"

	// DefaultTTL applies to plain logins, RememberTTL when the client
	// asks to stay signed in.
	DefaultTTL  = 24 * time.Hour
	RememberTTL = 30 * 24 * time.Hour
)

// Session is the payload stored per bearer token.
type Session struct {
	UserID    int64     `json:"user_id"`
	Remember  bool      `json:"remember"`
	CreatedAt time.Time `json:"created_at"`
}

// Store issues opaque bearer tokens and resolves them back to
// sessions. Tokens expire server-side via the KV TTL.
type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Create issues a fresh token for the user. Remember extends the TTL.
func (s *Store) Create(ctx context.Context, userID int64, remember bool) (string, time.Duration, error) {
	token := uuid.NewString()
	ttl := DefaultTTL
	if remember {
		ttl = RememberTTL
	}
	payload, err := json.Marshal(Session{
		UserID:    userID,
		Remember:  remember,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return "", 0, err
	}
	if err := s.kv.Set(ctx, keyPrefix+token, string(payload), ttl); err != nil {
		return "", 0, fmt.Errorf("failed to store session: %w", err)
	}
	return token, ttl, nil
}

// Lookup returns the session for a token, or nil when the token is
// unknown or expired.
func (s *Store) Lookup(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := s.kv.Get(ctx, keyPrefix+token)
	if err != nil {
		if err == ErrMiss {
			return nil, nil
		}
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, nil
	}
	return &sess, nil
}

// Revoke invalidates a token. Unknown tokens are a no-op.
func (s *Store) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.kv.Del(ctx, keyPrefix+token)
}
