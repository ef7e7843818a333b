package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rollcall-app/rollcall/internal/accessgraph"
	"github.com/rollcall-app/rollcall/internal/api/middleware"
	"github.com/rollcall-app/rollcall/internal/api/response"
	"github.com/rollcall-app/rollcall/internal/api/validation"
)

type createAccessGroupRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type accessGroupResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toAccessGroupResponse(g *accessgraph.AccessGroup) accessGroupResponse {
	return accessGroupResponse{
		ID:          g.ID.String(),
		Name:        g.Name,
		Description: g.Description,
		CreatedAt:   g.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   g.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// joinResponse reports the outcome of an idempotent join mutation, so callers
// can distinguish a fresh write from a no-op.
type joinResponse struct {
	Outcome accessgraph.JoinOutcome `json:"outcome"`
}

// AccessGroupHandler handles access group CRUD and membership endpoints.
type AccessGroupHandler struct {
	repo accessgraph.Repository
}

// NewAccessGroupHandler creates a new AccessGroupHandler.
func NewAccessGroupHandler(repo accessgraph.Repository) *AccessGroupHandler {
	return &AccessGroupHandler{repo: repo}
}

// Create handles POST /access-groups.
func (h *AccessGroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createAccessGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateAccessGroupRequest(validation.CreateAccessGroupRequest{Name: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	g := &accessgraph.AccessGroup{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}

	if err := h.repo.CreateAccessGroup(r.Context(), g); err != nil {
		if errors.Is(err, accessgraph.ErrDuplicateGroupName) {
			response.Err(w, http.StatusConflict, "DUPLICATE_NAME", fmt.Sprintf("An access group named %q already exists", g.Name), requestID)
			return
		}
		slog.Error("failed to create access group", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create access group", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toAccessGroupResponse(g), requestID)
}

// List handles GET /access-groups.
func (h *AccessGroupHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	groups, err := h.repo.ListAccessGroups(r.Context())
	if err != nil {
		slog.Error("failed to list access groups", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list access groups", requestID)
		return
	}

	items := make([]accessGroupResponse, 0, len(groups))
	for i := range groups {
		items = append(items, toAccessGroupResponse(&groups[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// AddMember handles PUT /access-groups/{id}/members/{memberID}. Re-adding an
// existing membership is a no-op success.
func (h *AccessGroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	groupID, memberID, ok := parseJoinParams(w, r, "memberID", requestID)
	if !ok {
		return
	}

	outcome, err := h.repo.AddMemberToGroup(r.Context(), memberID, groupID)
	if err != nil {
		if errors.Is(err, accessgraph.ErrUnknownEntity) {
			response.Err(w, http.StatusBadRequest, "UNKNOWN_ENTITY", "Member or access group does not exist", requestID)
			return
		}
		slog.Error("failed to add member to access group", "error", err, "group", groupID, "member", memberID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add member to access group", requestID)
		return
	}

	status := http.StatusOK
	if outcome == accessgraph.JoinCreated {
		status = http.StatusCreated
	}
	response.Success(w, status, joinResponse{Outcome: outcome}, requestID)
}

// RemoveMember handles DELETE /access-groups/{id}/members/{memberID}.
// Removing an absent membership is a no-op success, not an error.
func (h *AccessGroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	groupID, memberID, ok := parseJoinParams(w, r, "memberID", requestID)
	if !ok {
		return
	}

	outcome, err := h.repo.RemoveMemberFromGroup(r.Context(), memberID, groupID)
	if err != nil {
		slog.Error("failed to remove member from access group", "error", err, "group", groupID, "member", memberID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to remove member from access group", requestID)
		return
	}

	response.Success(w, http.StatusOK, joinResponse{Outcome: outcome}, requestID)
}

// parseJoinParams parses the {id} path param plus a second UUID param.
func parseJoinParams(w http.ResponseWriter, r *http.Request, second, requestID string) (uuid.UUID, uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return uuid.Nil, uuid.Nil, false
	}
	other, err := uuid.Parse(chi.URLParam(r, second))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", second+" must be a valid UUID", requestID)
		return uuid.Nil, uuid.Nil, false
	}
	return id, other, true
}
