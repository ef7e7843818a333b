package validation

import "strings"

// CreateAccessGroupRequest mirrors the fields needed for access group creation.
type CreateAccessGroupRequest struct {
	Name string
}

// ValidateCreateAccessGroupRequest validates the fields of a create access group request.
func ValidateCreateAccessGroupRequest(req CreateAccessGroupRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if len(name) > 255 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 255 characters"})
	}

	return errs
}
