package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rollcall-app/rollcall/internal/admin"
	"github.com/rollcall-app/rollcall/internal/api/middleware"
	"github.com/rollcall-app/rollcall/internal/api/response"
	"github.com/rollcall-app/rollcall/internal/identity"
)

type updateIdentityRequest struct {
	Disabled *bool `json:"disabled"`
}

type identityResponse struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	EmailVerified bool   `json:"emailVerified"`
	Disabled      bool   `json:"disabled"`
}

// IdentityHandler exposes identity-record administration (enable/disable).
type IdentityHandler struct {
	service *admin.Service
}

// NewIdentityHandler creates a new IdentityHandler.
func NewIdentityHandler(service *admin.Service) *IdentityHandler {
	return &IdentityHandler{service: service}
}

// Update handles PATCH /identities/{uid}. Admin only; authorization is
// enforced by the service before the claim store is touched.
func (h *IdentityHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	token := middleware.BearerToken(r)
	if token == "" {
		response.Err(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Authorization header required", requestID)
		return
	}

	uid := chi.URLParam(r, "uid")

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateIdentityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}
	if req.Disabled == nil {
		response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "disabled is required", requestID)
		return
	}

	rec, err := h.service.SetDisabled(r.Context(), token, uid, *req.Disabled)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrUnauthenticated):
			response.Err(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Invalid or expired token", requestID)
		case errors.Is(err, admin.ErrAdminRequired):
			response.Err(w, http.StatusForbidden, "FORBIDDEN", "Admin claim required", requestID)
		case errors.Is(err, identity.ErrUserNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Identity not found", requestID)
		case errors.Is(err, admin.ErrMissingTarget):
			response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "uid is required", requestID)
		default:
			slog.Error("failed to update identity", "error", err, "uid", uid)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update identity", requestID)
		}
		return
	}

	response.Success(w, http.StatusOK, identityResponse{
		UID:           rec.UID,
		Email:         rec.Email,
		DisplayName:   rec.DisplayName,
		EmailVerified: rec.EmailVerified,
		Disabled:      rec.Disabled,
	}, requestID)
}
