// Package identity abstracts the external identity authority: bearer-token
// verification and per-identity custom claims.
package identity

import (
	"context"
	"errors"
	"time"
)

// AdminClaim is the custom claim key carrying the boolean admin flag.
const AdminClaim = "admin"

// ErrUnauthenticated is returned for any missing, malformed, expired or
// otherwise invalid credential. Sub-reasons are never surfaced to callers.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrUserNotFound is returned when the identity authority has no record for a uid.
var ErrUserNotFound = errors.New("identity not found")

// Identity is a verified caller extracted from a bearer token.
type Identity struct {
	UID    string
	Email  string
	Claims map[string]any
}

// IsAdmin reports whether the identity carries admin == true. The check is a
// strict boolean comparison; truthy values such as the string "true" do not count.
func (i *Identity) IsAdmin() bool {
	if i == nil {
		return false
	}
	a, ok := i.Claims[AdminClaim].(bool)
	return ok && a
}

// UserRecord is an identity as stored by the authority.
type UserRecord struct {
	UID           string
	Email         string
	DisplayName   string
	EmailVerified bool
	Disabled      bool
	CustomClaims  map[string]any
	CreatedAt     time.Time // zero when the authority does not report it
	LastSignInAt  time.Time // zero when the identity has never signed in
}

// IsAdmin reports whether the record's claim bag carries admin == true,
// with the same strict boolean semantics as Identity.IsAdmin.
func (u *UserRecord) IsAdmin() bool {
	a, ok := u.CustomClaims[AdminClaim].(bool)
	return ok && a
}

// UserUpdate describes a partial update to an identity record.
// Nil fields are left unchanged.
type UserUpdate struct {
	Disabled *bool
}

// Verifier validates a raw bearer token against the identity authority.
// Every call re-verifies; results are never cached.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// ClaimStore is the identity authority's claim-mutation surface.
type ClaimStore interface {
	GetUser(ctx context.Context, uid string) (*UserRecord, error)
	ListUsers(ctx context.Context) ([]UserRecord, error)
	SetCustomClaims(ctx context.Context, uid string, claims map[string]any) error
	UpdateUser(ctx context.Context, uid string, upd UserUpdate) (*UserRecord, error)
}
