package server

import (
	"net/http"
	"strings"

	"github.com/jstanton/wagerbook/internal/common"
)

// userResponse strips the password hash from account payloads.
type userResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// handleUserCreate handles POST /api/users for account registration.
func (s *Server) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := s.app.UserService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			WriteError(w, http.StatusConflict, err.Error())
			return
		}
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusCreated, userResponse{
		Username: user.UserID,
		Email:    user.Email,
		Role:     user.Role,
	})
}

// handleUserByID handles GET/DELETE /api/users/{id}. Accounts are
// self-service: callers may only read or remove their own account unless
// they carry the admin role.
func (s *Server) handleUserByID(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	uc := common.GetUserContext(r.Context())
	if userID != id && (uc == nil || uc.Role != "admin") {
		WriteError(w, http.StatusForbidden, "access denied")
		return
	}

	switch r.Method {
	case http.MethodGet:
		user, err := s.app.UserService.Get(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, userResponse{
			Username: user.UserID,
			Email:    user.Email,
			Role:     user.Role,
		})

	case http.MethodDelete:
		if err := s.app.UserService.Delete(r.Context(), id); err != nil {
			s.logger.Error().Err(err).Str("user_id", id).Msg("Failed to delete user")
			WriteError(w, http.StatusInternalServerError, "failed to delete user")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}
