package bootstrap

import (
	"context"

	"message-search-backend/messages/repositories"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// WarmMessageCache performs the startup load. It never fails; an unreachable
// upstream leaves the cache empty until a search or scheduled refresh fills it.
func WarmMessageCache(ctx context.Context, cache repositories.MessageCacheRepository) {
	cache.Load(ctx)
}

// StartScheduledRefresh refreshes the cache on a standard cron schedule.
// It returns nil when schedule is empty. Callers stop the returned scheduler on shutdown.
func StartScheduledRefresh(schedule string, cache repositories.MessageCacheRepository, logger *zap.Logger) (*cron.Cron, error) {
	if schedule == "" {
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if err := cache.Refresh(context.Background()); err != nil {
			logger.Warn("Scheduled message refresh failed, keeping current cache", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	logger.Info("Scheduled message refresh enabled", zap.String("schedule", schedule))
	return c, nil
}
