// internal/app/features/notifications/list.go
package notifications

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/acadconnect/acadconnect/internal/app/system/apperr"
	"github.com/acadconnect/acadconnect/internal/app/system/auth"
	"github.com/acadconnect/acadconnect/internal/app/system/jsonutil"
	"github.com/acadconnect/acadconnect/internal/app/system/timeouts"
)

const defaultListLimit = 50

// ServeList returns the caller's most recent notifications, newest first,
// plus the unread count. It is mounted on GET /notifications.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	recipient, ok := sessionObjectID(r)
	if !ok {
		jsonutil.Error(w, r, h.Log, apperr.Unauthorized("sign-in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	items, err := h.Notifs.ListForRecipient(ctx, recipient, defaultListLimit)
	if err != nil {
		jsonutil.Error(w, r, h.Log, err)
		return
	}

	unread, err := h.Notifs.UnreadCount(ctx, recipient)
	if err != nil {
		jsonutil.Error(w, r, h.Log, err)
		return
	}

	jsonutil.OK(w, map[string]any{
		"notifications": items,
		"unreadCount":   unread,
	})
}

func sessionObjectID(r *http.Request) (primitive.ObjectID, bool) {
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
