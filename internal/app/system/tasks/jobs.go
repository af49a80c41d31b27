// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	connectionstore "github.com/acadconnect/acadconnect/internal/app/store/connections"
	notifstore "github.com/acadconnect/acadconnect/internal/app/store/notifications"
	"github.com/acadconnect/acadconnect/internal/app/store/oauthstate"
	"go.uber.org/zap"
)

// OutboxDeliveryJob creates a job that drains pending notification intents
// into the notifications collection. Delivery is at-least-once; the unique
// idempotency key on notifications keeps retries from producing duplicates.
func OutboxDeliveryJob(notifs *notifstore.Store, logger *zap.Logger, interval time.Duration, batchSize int64) Job {
	return Job{
		Name:     "notification-outbox-delivery",
		Interval: interval,
		Run: func(ctx context.Context) error {
			count, err := notifs.DeliverPending(ctx, batchSize)
			if count > 0 {
				logger.Info("delivered notifications", zap.Int64("count", count))
			}
			return err
		},
	}
}

// CounterReconcileJob creates a job that recomputes connection counters from
// the embedded connection sets and repairs any drift left by partial writes
// on deployments without transaction support.
func CounterReconcileJob(conns *connectionstore.Store, logger *zap.Logger, interval time.Duration) Job {
	return Job{
		Name:     "connection-counter-reconcile",
		Interval: interval,
		Run: func(ctx context.Context) error {
			fixed, err := conns.ReconcileCounters(ctx)
			if err != nil {
				return err
			}
			if fixed > 0 {
				logger.Info("repaired connection counters", zap.Int64("profiles", fixed))
			}
			return nil
		},
	}
}

// OAuthStateCleanupJob creates a job that removes expired OAuth state tokens.
// This is a backup for when MongoDB's TTL index cleanup is delayed.
func OAuthStateCleanupJob(stateStore *oauthstate.Store, logger *zap.Logger) Job {
	return Job{
		Name:     "oauth-state-cleanup",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			count, err := stateStore.CleanupExpired(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Debug("cleaned up expired OAuth states", zap.Int64("count", count))
			}
			return nil
		},
	}
}
