package identity

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// FirebaseProvider implements Verifier and ClaimStore against Firebase Auth.
type FirebaseProvider struct {
	client *auth.Client
}

// NewFirebaseProvider initializes the Firebase app for the given project and
// returns a provider backed by its Auth client. credentialsFile may be empty,
// in which case application-default credentials are used.
func NewFirebaseProvider(ctx context.Context, projectID, credentialsFile string) (*FirebaseProvider, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase auth client: %w", err)
	}

	return &FirebaseProvider{client: client}, nil
}

// Verify validates an ID token. Any verification failure (expired, malformed,
// revoked, bad signature) collapses to ErrUnauthenticated.
func (p *FirebaseProvider) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	decoded, err := p.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	email, _ := decoded.Claims["email"].(string)
	return &Identity{
		UID:    decoded.UID,
		Email:  email,
		Claims: decoded.Claims,
	}, nil
}

// GetUser fetches a single identity record by uid.
func (p *FirebaseProvider) GetUser(ctx context.Context, uid string) (*UserRecord, error) {
	u, err := p.client.GetUser(ctx, uid)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("fetching user %s: %w", uid, err)
	}
	return fromUserRecord(u), nil
}

// ListUsers enumerates every identity known to the authority.
func (p *FirebaseProvider) ListUsers(ctx context.Context) ([]UserRecord, error) {
	records := []UserRecord{}

	it := p.client.Users(ctx, "")
	for {
		u, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating users: %w", err)
		}
		records = append(records, *fromUserRecord(u.UserRecord))
	}

	return records, nil
}

// SetCustomClaims replaces the identity's custom claim bag. The write is
// atomic at the authority; on error the claim bag is unchanged.
func (p *FirebaseProvider) SetCustomClaims(ctx context.Context, uid string, claims map[string]any) error {
	if err := p.client.SetCustomUserClaims(ctx, uid, claims); err != nil {
		if auth.IsUserNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("setting custom claims for %s: %w", uid, err)
	}
	return nil
}

// UpdateUser applies a partial update to the identity record.
func (p *FirebaseProvider) UpdateUser(ctx context.Context, uid string, upd UserUpdate) (*UserRecord, error) {
	params := &auth.UserToUpdate{}
	if upd.Disabled != nil {
		params = params.Disabled(*upd.Disabled)
	}

	u, err := p.client.UpdateUser(ctx, uid, params)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("updating user %s: %w", uid, err)
	}
	return fromUserRecord(u), nil
}

func fromUserRecord(u *auth.UserRecord) *UserRecord {
	rec := &UserRecord{
		UID:           u.UID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		EmailVerified: u.EmailVerified,
		Disabled:      u.Disabled,
		CustomClaims:  u.CustomClaims,
	}
	if u.UserMetadata != nil {
		if u.UserMetadata.CreationTimestamp > 0 {
			rec.CreatedAt = time.UnixMilli(u.UserMetadata.CreationTimestamp).UTC()
		}
		if u.UserMetadata.LastLogInTimestamp > 0 {
			rec.LastSignInAt = time.UnixMilli(u.UserMetadata.LastLogInTimestamp).UTC()
		}
	}
	return rec
}
