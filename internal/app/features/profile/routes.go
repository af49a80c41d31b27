// internal/app/features/profile/routes.go
package profile

import (
	"github.com/go-chi/chi/v5"

	"github.com/acadconnect/acadconnect/internal/app/system/auth"
)

// MountRoutes registers the profile endpoints directly on the parent router
// because they span two path roots (/profile and /profiles).
func MountRoutes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/profile", h.ServeOwn)
		pr.Post("/profile", h.HandleUpdate)
		pr.Get("/profiles/{userId}", h.ServePublic)
	})
}
