package accessgraph

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrGroupNotFound is returned when an access group record is not found.
var ErrGroupNotFound = errors.New("access group not found")

// ErrSectionNotFound is returned when a section record is not found.
var ErrSectionNotFound = errors.New("section not found")

// ErrDuplicateGroupName is returned when an access group with the same name exists.
var ErrDuplicateGroupName = errors.New("access group name already exists")

// ErrUnknownEntity is returned when a join mutation references a member,
// access group or section that does not exist.
var ErrUnknownEntity = errors.New("referenced entity does not exist")

// Repository provides CRUD on access groups and sections plus idempotent
// mutations on the two join relations.
type Repository interface {
	CreateAccessGroup(ctx context.Context, g *AccessGroup) error
	GetAccessGroupByID(ctx context.Context, id uuid.UUID) (*AccessGroup, error)
	ListAccessGroups(ctx context.Context) ([]AccessGroup, error)

	CreateSection(ctx context.Context, s *Section) error
	GetSectionByID(ctx context.Context, id uuid.UUID) (*Section, error)
	ListSections(ctx context.Context) ([]Section, error)

	// AddMemberToGroup upserts the member↔group join row. Re-adding an
	// existing pair is a no-op success (JoinExists), never an error.
	AddMemberToGroup(ctx context.Context, memberID, groupID uuid.UUID) (JoinOutcome, error)
	// RemoveMemberFromGroup deletes the join row if present. Removing an
	// absent pair is a no-op success (JoinAbsent), never an error.
	RemoveMemberFromGroup(ctx context.Context, memberID, groupID uuid.UUID) (JoinOutcome, error)

	// GrantSectionToGroup / RevokeSectionFromGroup follow the same
	// upsert / delete-if-present semantics on the section↔group join.
	GrantSectionToGroup(ctx context.Context, sectionID, groupID uuid.UUID) (JoinOutcome, error)
	RevokeSectionFromGroup(ctx context.Context, sectionID, groupID uuid.UUID) (JoinOutcome, error)

	GroupsForMember(ctx context.Context, memberID uuid.UUID) ([]AccessGroup, error)
	SectionsForGroup(ctx context.Context, groupID uuid.UUID) ([]Section, error)
}
