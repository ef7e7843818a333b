package member

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is a member's membership status. No transition graph is enforced;
// any status may overwrite any other via upsert.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusServing  Status = "SERVING"
	StatusRetired  Status = "RETIRED"
	StatusResigned Status = "RESIGNED"
	StatusLost     Status = "LOST"
	StatusDeceased Status = "DECEASED"
)

// ValidStatus reports whether s is a known membership status.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusServing, StatusRetired, StatusResigned, StatusLost, StatusDeceased:
		return true
	}
	return false
}

// Member represents a row in the members table.
type Member struct {
	ID            uuid.UUID
	FirstName     string
	LastName      string
	Email         string
	ServiceNumber string
	Status        Status
	CreatedBy     *string
	UpdatedBy     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NormalizeEmail trims and lowercases an email address. Applied at the
// boundary before validation and before any comparison or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
