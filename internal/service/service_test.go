package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/pribylovaa/news-gateway/internal/config"
	"github.com/pribylovaa/news-gateway/internal/guardian"
	"github.com/pribylovaa/news-gateway/mocks"
)

// Общая обвязка unit-тестов сервисного слоя: мок провайдера,
// управляемые часы и перехват пауз пейсера. Реальных ожиданий в тестах
// нет — «сон» пейсера продвигает тестовые часы на свой интервал.

// testClock — управляемый источник времени.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// testConfig — конфигурация по умолчанию для тестов (потолки как в prod).
func testConfig() config.Config {
	return config.Config{
		Cache: config.CacheConfig{
			TTL:           15 * time.Minute,
			SweepInterval: 5 * time.Minute,
		},
		Limits: config.LimitsConfig{
			Daily:     500,
			PerSecond: 1,
		},
		Aggregate: config.AggregateConfig{
			PrefetchFactor: 3,
			PaceInterval:   1100 * time.Millisecond,
		},
		Timeouts: config.TimeoutConfig{
			Service:  30 * time.Second,
			Upstream: 10 * time.Second,
		},
	}
}

// harness — сервис с моком провайдера и управляемым временем.
type harness struct {
	svc      *Service
	upstream *mocks.MockUpstream
	clock    *testClock

	mu    sync.Mutex
	slept []time.Duration
}

// newHarness — фабрика Service с контролируемым cfg и мок-провайдером.
func newHarness(t *testing.T, cfg config.Config) *harness {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	h := &harness{
		upstream: mocks.NewMockUpstream(ctrl),
		clock:    newTestClock(),
	}

	h.svc = New(h.upstream, cfg,
		WithClock(h.clock.Now),
		WithSleeper(func(_ context.Context, d time.Duration) error {
			h.mu.Lock()
			h.slept = append(h.slept, d)
			h.mu.Unlock()

			h.clock.Advance(d)
			return nil
		}),
	)

	return h
}

func (h *harness) sleeps() []time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]time.Duration(nil), h.slept...)
}

func TestCacheCleanupLifecycle(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig())

	h.svc.StartCacheCleanup()
	h.svc.StartCacheCleanup() // повторный запуск — no-op
	h.svc.StopCacheCleanup()
}

// resultsPage строит ответ провайдера: n записей раздела section
// с датами публикации start, start-step, start-2*step, ...
func resultsPage(section string, n int, start time.Time, step time.Duration, total int) *guardian.SearchResult {
	results := make([]guardian.Result, n)
	for i := range results {
		results[i] = guardian.Result{
			ID:                 fmt.Sprintf("%s/story-%d", section, i),
			WebTitle:           fmt.Sprintf("%s story %d", section, i),
			WebURL:             fmt.Sprintf("https://www.theguardian.com/%s/story-%d", section, i),
			WebPublicationDate: start.Add(-time.Duration(i) * step),
			SectionName:        section,
			Fields: guardian.ResultFields{
				TrailText: "trail",
				Thumbnail: "https://media.example/t.jpg",
			},
		}
	}

	return &guardian.SearchResult{Total: total, Results: results}
}
