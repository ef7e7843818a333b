// Package admin implements privilege escalation and the admin directory on
// top of the identity authority's custom claims.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rollcall-app/rollcall/internal/identity"
)

// ErrMissingTarget is returned when the grant target uid is absent.
var ErrMissingTarget = errors.New("target uid is required")

// ErrAdminRequired is returned when an authenticated caller lacks the admin claim.
var ErrAdminRequired = errors.New("admin claim required")

// AdminMetadata carries identity lifecycle timestamps as RFC 3339 strings.
// Unknown values are empty strings, never null.
type AdminMetadata struct {
	CreationTime   string `json:"creationTime"`
	LastSignInTime string `json:"lastSignInTime"`
}

// AdminSummary is the directory projection of an identity holding the admin claim.
type AdminSummary struct {
	UID           string        `json:"uid"`
	Email         string        `json:"email"`
	DisplayName   string        `json:"displayName"`
	EmailVerified bool          `json:"emailVerified"`
	Disabled      bool          `json:"disabled"`
	Metadata      AdminMetadata `json:"metadata"`
}

// Service enforces caller-is-admin policy before reading or mutating the
// claim store. It holds no per-request state.
type Service struct {
	verifier identity.Verifier
	claims   identity.ClaimStore
}

// NewService creates a new admin Service.
func NewService(verifier identity.Verifier, claims identity.ClaimStore) *Service {
	return &Service{verifier: verifier, claims: claims}
}

// GrantAdmin promotes targetUID to admin. Order is fixed: validate input
// presence, verify the caller's token, check the admin claim, then mutate.
// No claim store call happens before the caller is authorized. Returns the
// caller uid that performed the grant.
func (s *Service) GrantAdmin(ctx context.Context, token, targetUID string) (string, error) {
	if targetUID == "" {
		slog.Warn("admin grant rejected", "reason", "missing target uid")
		return "", ErrMissingTarget
	}

	caller, err := s.authorize(ctx, token, "grant_admin", targetUID)
	if err != nil {
		return "", err
	}

	if err := s.claims.SetCustomClaims(ctx, targetUID, map[string]any{identity.AdminClaim: true}); err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			slog.Warn("admin grant failed", "caller", caller.UID, "target", targetUID, "reason", "target not found")
			return "", err
		}
		slog.Error("admin grant failed", "caller", caller.UID, "target", targetUID, "error", err)
		return "", fmt.Errorf("granting admin claim: %w", err)
	}

	slog.Info("admin claim granted", "caller", caller.UID, "target", targetUID)
	return caller.UID, nil
}

// ListAdmins returns every identity whose claim bag carries admin == true.
// The full set is returned in one call; the directory is organization-scale.
func (s *Service) ListAdmins(ctx context.Context, token string) ([]AdminSummary, error) {
	caller, err := s.authorize(ctx, token, "list_admins", "")
	if err != nil {
		return nil, err
	}

	users, err := s.claims.ListUsers(ctx)
	if err != nil {
		slog.Error("admin directory read failed", "caller", caller.UID, "error", err)
		return nil, fmt.Errorf("listing identities: %w", err)
	}

	admins := []AdminSummary{}
	for i := range users {
		if users[i].IsAdmin() {
			admins = append(admins, toSummary(&users[i]))
		}
	}

	slog.Info("admin directory listed", "caller", caller.UID, "count", len(admins))
	return admins, nil
}

// SetDisabled enables or disables the identity record for uid. Admin only.
func (s *Service) SetDisabled(ctx context.Context, token, uid string, disabled bool) (*identity.UserRecord, error) {
	if uid == "" {
		return nil, ErrMissingTarget
	}

	caller, err := s.authorize(ctx, token, "set_disabled", uid)
	if err != nil {
		return nil, err
	}

	rec, err := s.claims.UpdateUser(ctx, uid, identity.UserUpdate{Disabled: &disabled})
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return nil, err
		}
		slog.Error("identity update failed", "caller", caller.UID, "target", uid, "error", err)
		return nil, fmt.Errorf("updating identity: %w", err)
	}

	slog.Info("identity disabled flag set", "caller", caller.UID, "target", uid, "disabled", disabled)
	return rec, nil
}

// authorize verifies the token and requires the admin claim. Both rejection
// branches are logged for audit before returning.
func (s *Service) authorize(ctx context.Context, token, operation, target string) (*identity.Identity, error) {
	caller, err := s.verifier.Verify(ctx, token)
	if err != nil {
		slog.Warn("authorization rejected", "operation", operation, "target", target, "outcome", "unauthenticated")
		return nil, identity.ErrUnauthenticated
	}

	if !caller.IsAdmin() {
		slog.Warn("authorization rejected", "operation", operation, "target", target, "caller", caller.UID, "outcome", "permission denied")
		return nil, ErrAdminRequired
	}

	return caller, nil
}

func toSummary(u *identity.UserRecord) AdminSummary {
	return AdminSummary{
		UID:           u.UID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		EmailVerified: u.EmailVerified,
		Disabled:      u.Disabled,
		Metadata: AdminMetadata{
			CreationTime:   formatTime(u.CreatedAt),
			LastSignInTime: formatTime(u.LastSignInAt),
		},
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
