// Package validation contains request validators for the HTTP API.
package validation

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
