// internal/app/features/notifications/handler.go
package notifications

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	notifstore "github.com/acadconnect/acadconnect/internal/app/store/notifications"
)

type Handler struct {
	Log    *zap.Logger
	Notifs *notifstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Log:    logger,
		Notifs: notifstore.New(db),
	}
}
