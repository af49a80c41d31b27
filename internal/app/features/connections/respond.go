// internal/app/features/connections/respond.go
package connections

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/acadconnect/acadconnect/internal/app/system/apperr"
	"github.com/acadconnect/acadconnect/internal/app/system/jsonutil"
	"github.com/acadconnect/acadconnect/internal/app/system/timeouts"
)

// HandleRespond accepts or rejects a pending invitation addressed to the
// caller. It is mounted on POST /connections/respond.
func (h *Handler) HandleRespond(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(r)
	if !ok {
		jsonutil.Error(w, r, h.Log, apperr.Unauthorized("sign-in required"))
		return
	}

	var req respondRequest
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

	status, err := h.Conns.Respond(ctx, connID, actor, req.Accept)
	if err != nil {
		jsonutil.Error(w, r, h.Log, err)
		return
	}

	jsonutil.OK(w, map[string]any{"status": status})
}
