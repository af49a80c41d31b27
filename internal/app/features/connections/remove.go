// internal/app/features/connections/remove.go
package connections

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/acadconnect/acadconnect/internal/app/system/apperr"
	"github.com/acadconnect/acadconnect/internal/app/system/jsonutil"
	"github.com/acadconnect/acadconnect/internal/app/system/timeouts"
)

// HandleRemove severs an accepted connection the caller participates in.
// It is mounted on POST /connections/remove. No notification is sent.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(r)
	if !ok {
		jsonutil.Error(w, r, h.Log, apperr.Unauthorized("sign-in required"))
		return
	}

	var req removeRequest
	if err := jsonutil.Decode(w, r, &req); err != nil {
		jsonutil.Error(w, r, h.Log, err)
		return
	}

	connID, err := primitive.ObjectIDFromHex(req.ConnectionID)
	if err != nil {
		jsonutil.Error(w, r, h.Log, apperr.Invalid("invalid connection id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Conns.Remove(ctx, connID, actor); err != nil {
		jsonutil.Error(w, r, h.Log, err)
		return
	}

	jsonutil.OK(w, map[string]any{"removed": true})
}
