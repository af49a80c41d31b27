// internal/app/features/connections/routes.go
package connections

import (
	"github.com/go-chi/chi/v5"

	"github.com/acadconnect/acadconnect/internal/app/system/auth"
	"github.com/acadconnect/acadconnect/internal/app/system/ratelimit"
)

// Routes mounts the connection lifecycle endpoints. Every route requires a
// signed-in session; request sending is additionally rate-limited per user.
func Routes(h *Handler, sm *auth.SessionManager, requestLimiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Group(func(lr chi.Router) {
			lr.Use(requestLimiter.PerUser)
			lr.Post("/{userId}/request", h.HandleRequest)
		})

		pr.Post("/respond", h.HandleRespond)
		pr.Post("/remove", h.HandleRemove)
		pr.Get("/{userId}/status", h.ServeStatus)
		pr.Get("/pending", h.ServePending)
	})

	return r
}
