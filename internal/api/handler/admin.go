package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rollcall-app/rollcall/internal/admin"
	"github.com/rollcall-app/rollcall/internal/api/middleware"
	"github.com/rollcall-app/rollcall/internal/identity"
)

// AdminHandler exposes the admin grant endpoint and the admin directory.
// These two surfaces predate the envelope convention and keep their original
// wire shapes for frontend compatibility.
type AdminHandler struct {
	service *admin.Service
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *admin.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

type grantRequest struct {
	UID string `json:"uid"`
}

type grantResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	GrantedBy string `json:"grantedBy"`
}

// Grant handles GET and POST /admin/grant. The target uid is read from the
// query string or, failing that, from a JSON body. Policy ordering is
// delegated to the service: verify, authorize, then mutate.
func (h *AdminHandler) Grant(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authorization header required"})
		return
	}

	uid := r.URL.Query().Get("uid")
	if uid == "" && r.Body != nil {
		var req grantRequest
		// A malformed or empty body is treated the same as a missing uid.
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err == nil {
			uid = req.UID
		}
	}
	if uid == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing uid parameter"})
		return
	}

	grantedBy, err := h.service.GrantAdmin(r.Context(), token, uid)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrUnauthenticated):
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		case errors.Is(err, admin.ErrAdminRequired):
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden: Admin claim required"})
		case errors.Is(err, admin.ErrMissingTarget), errors.Is(err, identity.ErrUserNotFound):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unknown uid"})
		default:
			slog.Error("admin grant failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, grantResponse{
		Success:   true,
		Message:   "Admin claim granted to " + uid,
		GrantedBy: grantedBy,
	})
}

type listAdminsResponse struct {
	Users []admin.AdminSummary `json:"users"`
}

type rpcError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ListAdmins handles GET /admin/admins, returning every identity holding the
// admin claim. Errors carry stable machine-readable codes.
func (h *AdminHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]rpcError{"error": {Code: "unauthenticated", Message: "Authorization header required"}})
		return
	}

	users, err := h.service.ListAdmins(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrUnauthenticated):
			writeJSON(w, http.StatusUnauthorized, map[string]rpcError{"error": {Code: "unauthenticated", Message: "Invalid or expired token"}})
		case errors.Is(err, admin.ErrAdminRequired):
			writeJSON(w, http.StatusForbidden, map[string]rpcError{"error": {Code: "permission-denied", Message: "Admin claim required"}})
		default:
			slog.Error("admin directory listing failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]rpcError{"error": {Code: "internal", Message: "Internal server error"}})
		}
		return
	}

	writeJSON(w, http.StatusOK, listAdminsResponse{Users: users})
}

// GrantPreflight answers CORS preflight requests for the grant endpoint.
func (h *AdminHandler) GrantPreflight(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
