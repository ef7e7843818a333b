package identity

import (
	"context"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// LocalVerifier validates HS256-signed tokens with a shared secret. It exists
// for local development and tests; production deployments verify against
// Firebase Auth.
type LocalVerifier struct {
	secret []byte
}

// NewLocalVerifier creates a verifier for HS256 tokens signed with secret.
func NewLocalVerifier(secret string) *LocalVerifier {
	return &LocalVerifier{secret: []byte(secret)}
}

// Verify parses and validates the token, extracting the subject and claims.
// Any parse or validation failure collapses to ErrUnauthenticated.
func (v *LocalVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return nil, ErrUnauthenticated
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnauthenticated
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrUnauthenticated
	}
	email, _ := claims["email"].(string)

	return &Identity{
		UID:    sub,
		Email:  email,
		Claims: map[string]any(claims),
	}, nil
}

// MemoryStore is an in-memory ClaimStore used in local mode and in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]UserRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]UserRecord)}
}

// Add inserts or replaces an identity record.
func (s *MemoryStore) Add(rec UserRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[rec.UID] = rec
}

// GetUser returns the record for uid, or ErrUserNotFound.
func (s *MemoryStore) GetUser(_ context.Context, uid string) (*UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.users[uid]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &rec, nil
}

// ListUsers returns all records in unspecified order.
func (s *MemoryStore) ListUsers(_ context.Context) ([]UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]UserRecord, 0, len(s.users))
	for _, rec := range s.users {
		records = append(records, rec)
	}
	return records, nil
}

// SetCustomClaims replaces the claim bag for uid.
func (s *MemoryStore) SetCustomClaims(_ context.Context, uid string, claims map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[uid]
	if !ok {
		return ErrUserNotFound
	}
	rec.CustomClaims = claims
	s.users[uid] = rec
	return nil
}

// UpdateUser applies a partial update to the record for uid.
func (s *MemoryStore) UpdateUser(_ context.Context, uid string, upd UserUpdate) (*UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[uid]
	if !ok {
		return nil, ErrUserNotFound
	}
	if upd.Disabled != nil {
		rec.Disabled = *upd.Disabled
	}
	s.users[uid] = rec
	return &rec, nil
}
