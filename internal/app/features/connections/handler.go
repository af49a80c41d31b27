// internal/app/features/connections/handler.go
package connections

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	connectionstore "github.com/acadconnect/acadconnect/internal/app/store/connections"
	profilestore "github.com/acadconnect/acadconnect/internal/app/store/profiles"
)

type Handler struct {
	DB    *mongo.Database
	Log   *zap.Logger
	Conns *connectionstore.Store

	profiles *profilestore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		Conns:    connectionstore.New(db, logger),
		profiles: profilestore.New(db),
	}
}
