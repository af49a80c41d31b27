// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authgooglefeature "github.com/acadconnect/acadconnect/internal/app/features/authgoogle"
	connectionsfeature "github.com/acadconnect/acadconnect/internal/app/features/connections"
	healthfeature "github.com/acadconnect/acadconnect/internal/app/features/health"
	loginfeature "github.com/acadconnect/acadconnect/internal/app/features/login"
	logoutfeature "github.com/acadconnect/acadconnect/internal/app/features/logout"
	networkfeature "github.com/acadconnect/acadconnect/internal/app/features/network"
	notificationsfeature "github.com/acadconnect/acadconnect/internal/app/features/notifications"
	profilefeature "github.com/acadconnect/acadconnect/internal/app/features/profile"
	userinfofeature "github.com/acadconnect/acadconnect/internal/app/features/userinfo"
	"github.com/acadconnect/acadconnect/internal/app/store/oauthstate"
	profilestore "github.com/acadconnect/acadconnect/internal/app/store/profiles"
	"github.com/acadconnect/acadconnect/internal/app/system/auth"
	"github.com/acadconnect/acadconnect/internal/app/system/ratelimit"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It creates the session manager, applies
// the session middleware globally, and mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser fetches fresh profile data on each request, so
	// disabled accounts and name changes take effect immediately.
	db := deps.MongoDatabase
	sessionMgr.SetUserFetcher(profilestore.NewFetcher(db))

	loginLimiter := ratelimit.NewLoginLimiter()
	requestLimiter := ratelimit.New(appCfg.RequestRateLimit, appCfg.RequestRateWindow)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthfeature.MountRoutes(r, healthfeature.NewHandler(deps.MongoClient, logger))

	// Authentication
	loginfeature.MountRoutes(r, loginfeature.NewHandler(db, sessionMgr, loginLimiter, logger))
	logoutfeature.MountRoutes(r, logoutfeature.NewHandler(sessionMgr, logger))
	authgooglefeature.MountRoutes(r, authgooglefeature.NewHandler(
		db, sessionMgr, oauthstate.New(db),
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL,
		logger))

	// Session identity probe
	userinfofeature.MountRoutes(r, userinfofeature.NewHandler())

	// Connection graph
	connectionsHandler := connectionsfeature.NewHandler(db, logger)
	r.Mount("/connections", connectionsfeature.Routes(connectionsHandler, sessionMgr, requestLimiter))

	networkHandler := networkfeature.NewHandler(db, logger, appCfg.SuggestionMaxReads)
	r.Mount("/network", networkfeature.Routes(networkHandler, sessionMgr))

	// Notifications
	notificationsHandler := notificationsfeature.NewHandler(db, logger)
	r.Mount("/notifications", notificationsfeature.Routes(notificationsHandler, sessionMgr))

	// Profiles
	profilefeature.MountRoutes(r, profilefeature.NewHandler(db, logger), sessionMgr)

	return r, nil
}
