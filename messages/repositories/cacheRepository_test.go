package repositories

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"message-search-backend/messages/models"
	"message-search-backend/messages/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fetchResult struct {
	records []models.Record
	err     error
}

// scriptedFetcher returns queued results in order, repeating the last one.
type scriptedFetcher struct {
	mu      sync.Mutex
	results []fetchResult
	calls   atomic.Int32
	gate    chan struct{}
}

func (f *scriptedFetcher) Fetch(ctx context.Context) ([]models.Record, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return r.records, r.err
}

var errUpstreamDown = &services.UpstreamError{Op: "request", URL: "http://upstream.test", Err: errors.New("connection refused")}

func twoRecords() []models.Record {
	return []models.Record{
		{"id": models.Int(1), "text": models.String("Hello World")},
		{"id": models.Int(2), "text": models.String("foo bar")},
	}
}

func TestMessageCacheStartsEmpty(t *testing.T) {
	cache := NewMessageCache(&scriptedFetcher{}, zaptest.NewLogger(t))
	assert.NotNil(t, cache.Snapshot())
	assert.Empty(t, cache.Snapshot())
	assert.Nil(t, cache.Stats().LastRefresh)
}

func TestMessageCacheLoad(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{{records: twoRecords()}}}
	cache := NewMessageCache(fetcher, zaptest.NewLogger(t))

	cache.Load(context.Background())

	assert.Equal(t, twoRecords(), cache.Snapshot())
	stats := cache.Stats()
	assert.Equal(t, 2, stats.Records)
	assert.NotNil(t, stats.LastRefresh)
	assert.Empty(t, stats.LastError)
}

func TestMessageCacheLoadFailureLeavesEmpty(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{{err: errUpstreamDown}}}
	cache := NewMessageCache(fetcher, zaptest.NewLogger(t))

	cache.Load(context.Background())

	assert.Empty(t, cache.Snapshot())
	assert.Contains(t, cache.Stats().LastError, "connection refused")
}

func TestMessageCacheEnsureWarm(t *testing.T) {
	t.Run("refetches when empty", func(t *testing.T) {
		fetcher := &scriptedFetcher{results: []fetchResult{{err: errUpstreamDown}, {records: twoRecords()}}}
		cache := NewMessageCache(fetcher, zaptest.NewLogger(t))

		cache.Load(context.Background())
		require.Empty(t, cache.Snapshot())

		cache.EnsureWarm(context.Background())
		assert.Len(t, cache.Snapshot(), 2)
		assert.Equal(t, int32(2), fetcher.calls.Load())
	})

	t.Run("skips fetch when populated", func(t *testing.T) {
		fetcher := &scriptedFetcher{results: []fetchResult{{records: twoRecords()}}}
		cache := NewMessageCache(fetcher, zaptest.NewLogger(t))
		cache.Load(context.Background())

		cache.EnsureWarm(context.Background())
		cache.EnsureWarm(context.Background())
		assert.Equal(t, int32(1), fetcher.calls.Load())
	})

	t.Run("failure degrades to empty", func(t *testing.T) {
		fetcher := &scriptedFetcher{results: []fetchResult{{err: errUpstreamDown}}}
		cache := NewMessageCache(fetcher, zaptest.NewLogger(t))

		cache.Load(context.Background())
		cache.EnsureWarm(context.Background())
		assert.Empty(t, cache.Snapshot())
		assert.Equal(t, int32(2), fetcher.calls.Load())
	})

	t.Run("upstream returning nothing stays empty", func(t *testing.T) {
		fetcher := &scriptedFetcher{results: []fetchResult{{records: nil}}}
		cache := NewMessageCache(fetcher, zaptest.NewLogger(t))

		cache.EnsureWarm(context.Background())
		assert.NotNil(t, cache.Snapshot())
		assert.Empty(t, cache.Snapshot())
	})

	t.Run("cancelled request still completes the fetch", func(t *testing.T) {
		fetcher := &scriptedFetcher{results: []fetchResult{{records: twoRecords()}}}
		cache := NewMessageCache(fetcher, zaptest.NewLogger(t))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		cache.EnsureWarm(ctx)
		assert.Len(t, cache.Snapshot(), 2)
	})
}

func TestMessageCacheRefreshKeepsContentsOnFailure(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{{records: twoRecords()}, {err: errUpstreamDown}}}
	cache := NewMessageCache(fetcher, zaptest.NewLogger(t))
	cache.Load(context.Background())

	err := cache.Refresh(context.Background())
	var upErr *services.UpstreamError
	require.True(t, errors.As(err, &upErr))

	assert.Equal(t, twoRecords(), cache.Snapshot())
	stats := cache.Stats()
	assert.NotNil(t, stats.LastRefresh)
	assert.NotEmpty(t, stats.LastError)
}

func TestMessageCacheRefreshReplacesWholesale(t *testing.T) {
	replacement := []models.Record{{"id": models.Int(9)}}
	fetcher := &scriptedFetcher{results: []fetchResult{{records: twoRecords()}, {records: replacement}}}
	cache := NewMessageCache(fetcher, zaptest.NewLogger(t))
	cache.Load(context.Background())

	before := cache.Snapshot()
	require.NoError(t, cache.Refresh(context.Background()))

	assert.Equal(t, replacement, cache.Snapshot())
	assert.Equal(t, twoRecords(), before, "earlier snapshot must not change")
}

func TestMessageCacheCoalescesConcurrentWarmups(t *testing.T) {
	fetcher := &scriptedFetcher{
		results: []fetchResult{{records: twoRecords()}},
		gate:    make(chan struct{}),
	}
	cache := NewMessageCache(fetcher, zaptest.NewLogger(t))

	const callers = 8
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			cache.EnsureWarm(context.Background())
		}()
	}

	require.Eventually(t, func() bool { return fetcher.calls.Load() == 1 }, time.Second, time.Millisecond)
	// Give the remaining callers a moment to join the in-flight fetch
	time.Sleep(50 * time.Millisecond)
	close(fetcher.gate)
	wg.Wait()

	assert.Len(t, cache.Snapshot(), 2)
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestMessageCacheReadersSeeCompleteSnapshots(t *testing.T) {
	small := []models.Record{{"id": models.Int(1)}}
	large := make([]models.Record, 500)
	for i := range large {
		large[i] = models.Record{"id": models.Int(int64(i))}
	}
	fetcher := &scriptedFetcher{results: []fetchResult{{records: small}, {records: large}}}
	cache := NewMessageCache(fetcher, zaptest.NewLogger(t))
	cache.Load(context.Background())

	done := make(chan struct{})
	var readers sync.WaitGroup
	for i := 0; i < 4; i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				n := len(cache.Snapshot())
				if n != len(small) && n != len(large) {
					t.Errorf("observed partial snapshot of %d records", n)
					return
				}
			}
		}()
	}

	for i := 0; i < 20; i++ {
		require.NoError(t, cache.Refresh(context.Background()))
	}
	close(done)
	readers.Wait()
}
