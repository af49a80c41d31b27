// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	connectionstore "github.com/acadconnect/acadconnect/internal/app/store/connections"
	notifstore "github.com/acadconnect/acadconnect/internal/app/store/notifications"
	"github.com/acadconnect/acadconnect/internal/app/store/oauthstate"
	"github.com/acadconnect/acadconnect/internal/app/system/tasks"
	"github.com/acadconnect/acadconnect/internal/app/system/timeouts"
)

// jobRunner is started here and stopped in Shutdown.
var jobRunner *tasks.Runner

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It
// applies timeout overrides and launches the background jobs: notification
// outbox delivery, connection counter reconciliation, and OAuth state
// cleanup.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeout overrides applied", zap.Int("count", n))
	}

	db := deps.MongoDatabase
	jobRunner = tasks.NewRunner(logger,
		tasks.OutboxDeliveryJob(notifstore.New(db), logger, appCfg.OutboxInterval, int64(appCfg.OutboxBatchSize)),
		tasks.CounterReconcileJob(connectionstore.New(db, logger), logger, appCfg.ReconcileInterval),
		tasks.OAuthStateCleanupJob(oauthstate.New(db), logger),
	)
	jobRunner.Start()

	return nil
}
