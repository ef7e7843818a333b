package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rollcall-app/rollcall/internal/accessgraph"
	"github.com/rollcall-app/rollcall/internal/api/middleware"
	"github.com/rollcall-app/rollcall/internal/api/response"
	"github.com/rollcall-app/rollcall/internal/api/validation"
	"github.com/rollcall-app/rollcall/internal/member"
)

type upsertMemberRequest struct {
	ID               string `json:"id"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	ServiceNumber    string `json:"serviceNumber"`
	MembershipStatus string `json:"membershipStatus"`
}

type memberResponse struct {
	ID               string  `json:"id"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	Email            string  `json:"email"`
	ServiceNumber    string  `json:"serviceNumber"`
	MembershipStatus string  `json:"membershipStatus"`
	CreatedBy        *string `json:"createdBy,omitempty"`
	UpdatedBy        *string `json:"updatedBy,omitempty"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

func toMemberResponse(m *member.Member) memberResponse {
	return memberResponse{
		ID:               m.ID.String(),
		FirstName:        m.FirstName,
		LastName:         m.LastName,
		Email:            m.Email,
		ServiceNumber:    m.ServiceNumber,
		MembershipStatus: string(m.Status),
		CreatedBy:        m.CreatedBy,
		UpdatedBy:        m.UpdatedBy,
		CreatedAt:        m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt:        m.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// MemberHandler handles member profile endpoints.
type MemberHandler struct {
	repo     member.Repository
	resolver *accessgraph.Resolver
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(repo member.Repository, resolver *accessgraph.Resolver) *MemberHandler {
	return &MemberHandler{repo: repo, resolver: resolver}
}

// Upsert handles POST /members. A request carrying an id updates the
// existing profile; otherwise a new member is created.
func (h *MemberHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req upsertMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	var id uuid.UUID
	if req.ID != "" {
		parsed, err := uuid.Parse(req.ID)
		if err != nil {
			response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
			return
		}
		id = parsed
	}

	email := member.NormalizeEmail(req.Email)

	fieldErrors := validation.ValidateUpsertMemberRequest(validation.UpsertMemberRequest{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            email,
		MembershipStatus: req.MembershipStatus,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	status := member.Status(req.MembershipStatus)
	if status == "" {
		status = member.StatusPending
	}

	m := &member.Member{
		ID:            id,
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Email:         email,
		ServiceNumber: strings.TrimSpace(req.ServiceNumber),
		Status:        status,
	}

	if caller := middleware.GetIdentity(r.Context()); caller != nil {
		uid := caller.UID
		m.CreatedBy = &uid
		m.UpdatedBy = &uid
	}

	created := id == uuid.Nil
	if err := h.repo.Upsert(r.Context(), m); err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Member not found", requestID)
			return
		}
		if errors.Is(err, member.ErrDuplicateEmail) {
			response.Err(w, http.StatusConflict, "DUPLICATE_EMAIL", "A member with this email already exists", requestID)
			return
		}
		slog.Error("failed to upsert member", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save member", requestID)
		return
	}

	statusCode := http.StatusOK
	if created {
		statusCode = http.StatusCreated
	}
	response.Success(w, statusCode, toMemberResponse(m), requestID)
}

// List handles GET /members.
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	members, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("failed to list members", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list members", requestID)
		return
	}

	items := make([]memberResponse, 0, len(members))
	for i := range members {
		items = append(items, toMemberResponse(&members[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// GetByID handles GET /members/{id}.
func (h *MemberHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	m, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Member not found", requestID)
			return
		}
		slog.Error("failed to get member", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get member", requestID)
		return
	}

	response.Success(w, http.StatusOK, toMemberResponse(m), requestID)
}

// Delete handles DELETE /members/{id}.
func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Member not found", requestID)
			return
		}
		slog.Error("failed to delete member", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete member", requestID)
		return
	}

	response.NoContent(w)
}

// VisibleSections handles GET /members/{id}/sections, returning the sections
// the member can access through any of their access groups.
func (h *MemberHandler) VisibleSections(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	sections, err := h.resolver.SectionsVisibleTo(r.Context(), id)
	if err != nil {
		slog.Error("failed to resolve visible sections", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve sections", requestID)
		return
	}

	items := make([]sectionResponse, 0, len(sections))
	for i := range sections {
		items = append(items, toSectionResponse(&sections[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

func parseIDParam(w http.ResponseWriter, r *http.Request, requestID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return uuid.Nil, false
	}
	return id, true
}
