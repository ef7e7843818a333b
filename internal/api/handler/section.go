package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rollcall-app/rollcall/internal/accessgraph"
	"github.com/rollcall-app/rollcall/internal/api/middleware"
	"github.com/rollcall-app/rollcall/internal/api/response"
	"github.com/rollcall-app/rollcall/internal/api/validation"
)

type createSectionRequest struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Description *string `json:"description"`
}

type sectionResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Description *string `json:"description,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toSectionResponse(s *accessgraph.Section) sectionResponse {
	return sectionResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		Type:        string(s.Type),
		Description: s.Description,
		CreatedAt:   s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   s.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// SectionHandler handles section CRUD and grant endpoints.
type SectionHandler struct {
	repo accessgraph.Repository
}

// NewSectionHandler creates a new SectionHandler.
func NewSectionHandler(repo accessgraph.Repository) *SectionHandler {
	return &SectionHandler{repo: repo}
}

// Create handles POST /sections.
func (h *SectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateSectionRequest(validation.CreateSectionRequest{
		Name: req.Name,
		Type: req.Type,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	s := &accessgraph.Section{
		Name:        strings.TrimSpace(req.Name),
		Type:        accessgraph.SectionType(req.Type),
		Description: req.Description,
	}

	if err := h.repo.CreateSection(r.Context(), s); err != nil {
		slog.Error("failed to create section", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create section", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toSectionResponse(s), requestID)
}

// List handles GET /sections.
func (h *SectionHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	sections, err := h.repo.ListSections(r.Context())
	if err != nil {
		slog.Error("failed to list sections", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list sections", requestID)
		return
	}

	items := make([]sectionResponse, 0, len(sections))
	for i := range sections {
		items = append(items, toSectionResponse(&sections[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// GrantGroup handles PUT /sections/{id}/access-groups/{groupID}. Re-granting
// an existing grant is a no-op success.
func (h *SectionHandler) GrantGroup(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	sectionID, groupID, ok := parseJoinParams(w, r, "groupID", requestID)
	if !ok {
		return
	}

	outcome, err := h.repo.GrantSectionToGroup(r.Context(), sectionID, groupID)
	if err != nil {
		if errors.Is(err, accessgraph.ErrUnknownEntity) {
			response.Err(w, http.StatusBadRequest, "UNKNOWN_ENTITY", "Section or access group does not exist", requestID)
			return
		}
		slog.Error("failed to grant section to access group", "error", err, "section", sectionID, "group", groupID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to grant section access", requestID)
		return
	}

	status := http.StatusOK
	if outcome == accessgraph.JoinCreated {
		status = http.StatusCreated
	}
	response.Success(w, status, joinResponse{Outcome: outcome}, requestID)
}

// RevokeGroup handles DELETE /sections/{id}/access-groups/{groupID}.
// Revoking an absent grant is a no-op success, not an error.
func (h *SectionHandler) RevokeGroup(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	sectionID, groupID, ok := parseJoinParams(w, r, "groupID", requestID)
	if !ok {
		return
	}

	outcome, err := h.repo.RevokeSectionFromGroup(r.Context(), sectionID, groupID)
	if err != nil {
		slog.Error("failed to revoke section from access group", "error", err, "section", sectionID, "group", groupID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to revoke section access", requestID)
		return
	}

	response.Success(w, http.StatusOK, joinResponse{Outcome: outcome}, requestID)
}
