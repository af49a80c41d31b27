// internal/app/features/userinfo/handler.go
package userinfo

import (
	"encoding/json"
	"net/http"

	"github.com/acadconnect/acadconnect/internal/app/system/auth"
)

// Handler serves session identity for authenticated callers.
type Handler struct{}

// NewHandler creates a new userinfo handler.
func NewHandler() *Handler {
	return &Handler{}
}

// ServeUserInfo returns JSON with the current session's authentication
// status and identity.
//
// Response format:
//
//	{ "isAuthenticated": bool, "userId": "...", "name": "...", "email": "...", "institution": "..." }
func (h *Handler) ServeUserInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	user, ok := auth.CurrentUser(r)
	if !ok {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"isAuthenticated": false,
			"userId":          "",
			"name":            "",
			"email":           "",
			"institution":     "",
		})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"isAuthenticated": true,
		"userId":          user.ID,
		"name":            user.Name,
		"email":           user.Email,
		"institution":     user.Institution,
	})
}
