// internal/app/features/connections/pending.go
package connections

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/acadconnect/acadconnect/internal/app/system/apperr"
	"github.com/acadconnect/acadconnect/internal/app/system/jsonutil"
	"github.com/acadconnect/acadconnect/internal/app/system/timeouts"
	"github.com/acadconnect/acadconnect/internal/domain/models"
)

// ServePending lists the caller's outstanding invitations in both
// directions, joined against the profiles collection for display fields.
// It is mounted on GET /connections/pending.
func (h *Handler) ServePending(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(r)
	if !ok {
		jsonutil.Error(w, r, h.Log, apperr.Unauthorized("sign-in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	viewer, err := h.profiles.GetByID(ctx, actor)
	if err != nil {
		jsonutil.Error(w, r, h.Log, err)
		return
	}

	ids := make([]primitive.ObjectID, 0,
		len(viewer.Connections.Pending.Sent)+len(viewer.Connections.Pending.Received))
	ids = append(ids, viewer.Connections.Pending.Sent...)
	ids = append(ids, viewer.Connections.Pending.Received...)

	profiles, err := h.profiles.GetManyByIDs(ctx, ids)
	if err != nil {
		jsonutil.Error(w, r, h.Log, err)
		return
	}

	jsonutil.OK(w, map[string]any{
		"sent":     pendingEntries(viewer.Connections.Pending.Sent, profiles),
		"received": pendingEntries(viewer.Connections.Pending.Received, profiles),
	})
}

func pendingEntries(ids []primitive.ObjectID, profiles map[primitive.ObjectID]models.Profile) []pendingEntry {
	out := make([]pendingEntry, 0, len(ids))
	for _, id := range ids {
		p, ok := profiles[id]
		if !ok {
			// Profile deleted since the invitation was recorded; skip rather
			// than surface a dangling id.
			continue
		}
		out = append(out, pendingEntry{
			UserID:      p.ID.Hex(),
			FullName:    p.FullName,
			Headline:    p.Headline,
			Institution: p.Institution,
		})
	}
	return out
}
