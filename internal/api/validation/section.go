package validation

import (
	"strings"

	"github.com/rollcall-app/rollcall/internal/accessgraph"
)

// CreateSectionRequest mirrors the fields needed for section creation.
type CreateSectionRequest struct {
	Name string
	Type string
}

// ValidateCreateSectionRequest validates the fields of a create section request.
func ValidateCreateSectionRequest(req CreateSectionRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}

	if req.Type == "" {
		errs = append(errs, FieldError{Field: "type", Message: "type is required"})
	} else if !accessgraph.ValidSectionType(req.Type) {
		errs = append(errs, FieldError{Field: "type", Message: "type must be \"MEMBERS\" or \"EVENTS\""})
	}

	return errs
}
