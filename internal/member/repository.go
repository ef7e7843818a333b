package member

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrMemberNotFound is returned when a member record is not found.
var ErrMemberNotFound = errors.New("member not found")

// ErrDuplicateEmail is returned when another member already holds the email.
var ErrDuplicateEmail = errors.New("email already registered")

// Repository provides operations on the members table.
type Repository interface {
	// Upsert inserts the member, or updates the existing row when ID is set.
	// ID and timestamps are populated on return.
	Upsert(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	List(ctx context.Context) ([]Member, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
