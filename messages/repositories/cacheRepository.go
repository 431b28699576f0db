package repositories

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"message-search-backend/messages/models"
	"message-search-backend/messages/services"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "messages"

// MessageCacheRepository is what request handlers and the scheduler depend on.
type MessageCacheRepository interface {
	// Load performs the startup fetch. Failures leave the cache empty.
	Load(ctx context.Context)
	// EnsureWarm refetches when the cache is empty. Failures are logged, never returned.
	EnsureWarm(ctx context.Context)
	// Refresh replaces the contents unconditionally, keeping the old ones on failure.
	Refresh(ctx context.Context) error
	// Snapshot returns the current complete record set. Callers must not modify it.
	Snapshot() []models.Record
	Stats() models.CacheStats
}

// MessageCache holds the most recently fetched record set.
// Readers never lock; every update swaps the whole slice at once.
type MessageCache struct {
	fetcher services.Fetcher
	logger  *zap.Logger
	clock   func() time.Time

	records atomic.Pointer[[]models.Record]
	group   singleflight.Group

	mu          sync.Mutex
	lastRefresh time.Time
	lastErr     string
}

var _ MessageCacheRepository = (*MessageCache)(nil)

func NewMessageCache(fetcher services.Fetcher, logger *zap.Logger) *MessageCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &MessageCache{
		fetcher: fetcher,
		logger:  logger,
		clock:   time.Now,
	}
	empty := []models.Record{}
	c.records.Store(&empty)
	return c
}

func (c *MessageCache) Snapshot() []models.Record {
	return *c.records.Load()
}

func (c *MessageCache) Len() int {
	return len(c.Snapshot())
}

func (c *MessageCache) Load(ctx context.Context) {
	count, err := c.fetchAndSwap(ctx)
	if err != nil {
		c.logger.Error("Failed to load messages on startup", zap.Error(err))
		c.store([]models.Record{})
		return
	}
	c.logger.Info("Loaded messages into cache", zap.Int("count", count))
}

func (c *MessageCache) EnsureWarm(ctx context.Context) {
	if c.Len() > 0 {
		return
	}
	count, err := c.fetchAndSwap(ctx)
	if err != nil {
		c.logger.Warn("Cache empty and refresh failed, serving empty results", zap.Error(err))
		return
	}
	c.logger.Info("Refreshed empty message cache", zap.Int("count", count))
}

func (c *MessageCache) Refresh(ctx context.Context) error {
	count, err := c.fetchAndSwap(ctx)
	if err != nil {
		return err
	}
	c.logger.Info("Refreshed message cache", zap.Int("count", count))
	return nil
}

func (c *MessageCache) Stats() models.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := models.CacheStats{
		Records:   c.Len(),
		LastError: c.lastErr,
	}
	if !c.lastRefresh.IsZero() {
		ts := c.lastRefresh
		stats.LastRefresh = &ts
	}
	return stats
}

// fetchAndSwap runs one fetch, shared by every caller that arrives while it is in flight.
func (c *MessageCache) fetchAndSwap(ctx context.Context) (int, error) {
	// Detached so one caller going away cannot fail the fetch for the others
	ctx = context.WithoutCancel(ctx)

	v, err, shared := c.group.Do(refreshKey, func() (interface{}, error) {
		records, err := c.fetcher.Fetch(ctx)
		if err != nil {
			c.recordResult(err)
			return 0, err
		}
		c.store(records)
		c.recordResult(nil)
		return len(records), nil
	})
	if shared {
		c.logger.Debug("Joined in-flight message fetch")
	}
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (c *MessageCache) store(records []models.Record) {
	if records == nil {
		records = []models.Record{}
	}
	c.records.Store(&records)
}

func (c *MessageCache) recordResult(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.lastErr = err.Error()
		return
	}
	c.lastRefresh = c.clock()
	c.lastErr = ""
}
