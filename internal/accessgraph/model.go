package accessgraph

import (
	"time"

	"github.com/google/uuid"
)

// SectionType is a protected resource domain.
type SectionType string

const (
	SectionMembers SectionType = "MEMBERS"
	SectionEvents  SectionType = "EVENTS"
)

// ValidSectionType reports whether s is a known section type.
func ValidSectionType(s string) bool {
	switch SectionType(s) {
	case SectionMembers, SectionEvents:
		return true
	}
	return false
}

// AccessGroup represents a named permission bundle.
type AccessGroup struct {
	ID          uuid.UUID
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Section represents a protected resource domain gated by access-group grants.
type Section struct {
	ID          uuid.UUID
	Name        string
	Type        SectionType
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// JoinOutcome is the result of an idempotent join-table mutation. Upserts
// report "created" or "already-exists"; deletes report "removed" or
// "not-present". None of the no-op variants are errors.
type JoinOutcome string

const (
	JoinCreated JoinOutcome = "created"
	JoinExists  JoinOutcome = "already-exists"
	JoinRemoved JoinOutcome = "removed"
	JoinAbsent  JoinOutcome = "not-present"
)
