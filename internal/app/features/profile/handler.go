// internal/app/features/profile/handler.go
package profile

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	profilestore "github.com/acadconnect/acadconnect/internal/app/store/profiles"
)

type Handler struct {
	Log      *zap.Logger
	Profiles *profilestore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		Profiles: profilestore.New(db),
	}
}
