package validation

import (
	"net/mail"
	"strings"

	"github.com/rollcall-app/rollcall/internal/member"
)

// UpsertMemberRequest mirrors the fields needed for member upsert validation.
// Email must already be normalized (trimmed, lowercased) by the caller.
type UpsertMemberRequest struct {
	FirstName        string
	LastName         string
	Email            string
	MembershipStatus string
}

// ValidateUpsertMemberRequest validates the fields of a member upsert request.
func ValidateUpsertMemberRequest(req UpsertMemberRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.FirstName) == "" {
		errs = append(errs, FieldError{Field: "firstName", Message: "firstName is required"})
	}
	if strings.TrimSpace(req.LastName) == "" {
		errs = append(errs, FieldError{Field: "lastName", Message: "lastName is required"})
	}

	if req.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		errs = append(errs, FieldError{Field: "email", Message: "email must be a valid address"})
	}

	if req.MembershipStatus != "" && !member.ValidStatus(req.MembershipStatus) {
		errs = append(errs, FieldError{Field: "membershipStatus", Message: "membershipStatus must be one of PENDING, SERVING, RETIRED, RESIGNED, LOST, DECEASED"})
	}

	return errs
}
