// internal/app/features/login/handler.go
package login

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	profilestore "github.com/acadconnect/acadconnect/internal/app/store/profiles"
	"github.com/acadconnect/acadconnect/internal/app/system/auth"
	"github.com/acadconnect/acadconnect/internal/app/system/ratelimit"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Profiles   *profilestore.Store
	Limiter    *ratelimit.LoginLimiter
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Profiles:   profilestore.New(db),
		Limiter:    limiter,
	}
}
