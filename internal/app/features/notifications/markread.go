// internal/app/features/notifications/markread.go
package notifications

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/acadconnect/acadconnect/internal/app/system/apperr"
	"github.com/acadconnect/acadconnect/internal/app/system/jsonutil"
	"github.com/acadconnect/acadconnect/internal/app/system/timeouts"
)

type markReadRequest struct {
	NotificationID string `json:"notificationId"`
}

// HandleMarkRead flips the read flag on one of the caller's notifications.
// The store filters by recipient, so another user's notification id comes
// back as not found rather than leaking its existence.
// It is mounted on POST /notifications/read.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	recipient, ok := sessionObjectID(r)
	if !ok {
		jsonutil.Error(w, r, h.Log, apperr.Unauthorized("sign-in required"))
		return
	}

	var req markReadRequest
	if err := jsonutil.Decode(w, r, &req); err != nil {
		jsonutil.Error(w, r, h.Log, err)
		return
	}

	notifID, err := primitive.ObjectIDFromHex(req.NotificationID)
	if err != nil {
		jsonutil.Error(w, r, h.Log, apperr.Invalid("invalid notification id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Notifs.MarkRead(ctx, notifID, recipient); err != nil {
		jsonutil.Error(w, r, h.Log, err)
		return
	}

	jsonutil.OK(w, map[string]any{"read": true})
}
