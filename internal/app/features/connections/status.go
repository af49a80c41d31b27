// internal/app/features/connections/status.go
package connections

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	connectionstore "github.com/acadconnect/acadconnect/internal/app/store/connections"
	"github.com/acadconnect/acadconnect/internal/app/system/apperr"
	"github.com/acadconnect/acadconnect/internal/app/system/jsonutil"
	"github.com/acadconnect/acadconnect/internal/app/system/timeouts"
)

// ServeStatus reports the caller's relationship to another profile, read
// from the caller's own embedded connection sets.
// It is mounted on GET /connections/{userId}/status.
func (h *Handler) ServeStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(r)
	if !ok {
		jsonutil.Error(w, r, h.Log, apperr.Unauthorized("sign-in required"))
		return
	}

	target, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		jsonutil.Error(w, r, h.Log, apperr.Invalid("invalid user id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	status, err := h.Conns.StatusBetween(ctx, actor, target)
	if err != nil {
		jsonutil.Error(w, r, h.Log, err)
		return
	}

	jsonutil.OK(w, statusResponse{
		Connected:       status == connectionstore.StatusConnected,
		PendingSent:     status == connectionstore.StatusPendingSent,
		PendingReceived: status == connectionstore.StatusPendingReceived,
	})
}
