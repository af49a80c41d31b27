// internal/app/features/connections/request.go
package connections

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/acadconnect/acadconnect/internal/app/system/apperr"
	"github.com/acadconnect/acadconnect/internal/app/system/auth"
	"github.com/acadconnect/acadconnect/internal/app/system/jsonutil"
	"github.com/acadconnect/acadconnect/internal/app/system/timeouts"
)

// HandleRequest sends a connection invitation to the profile named in the
// URL. It is mounted on POST /connections/{userId}/request.
func (h *Handler) HandleRequest(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	connID, err := h.Conns.Request(ctx, actor, target)
	if err != nil {
		jsonutil.Error(w, r, h.Log, err)
		return
	}

	jsonutil.OK(w, map[string]any{"connectionId": connID.Hex()})
}

// actorID resolves the signed-in user's ObjectID from the session.
func actorID(r *http.Request) (primitive.ObjectID, bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
