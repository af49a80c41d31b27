// internal/app/features/network/routes.go
package network

import (
	"github.com/go-chi/chi/v5"

	"github.com/acadconnect/acadconnect/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/suggestions", h.ServeSuggestions)
	})

	return r
}
