// internal/app/features/network/handler.go
package network

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger

	// MaxProfileReads caps the suggestion walk; zero uses the store default.
	MaxProfileReads int
}

func NewHandler(db *mongo.Database, logger *zap.Logger, maxProfileReads int) *Handler {
	return &Handler{
		DB:              db,
		Log:             logger,
		MaxProfileReads: maxProfileReads,
	}
}
