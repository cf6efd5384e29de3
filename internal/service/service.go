// service содержит бизнес-логику news-gateway: выдача ленты по категории,
// агрегация предпочтений, поиск и точечный поиск статьи — всё под общей
// квотой запросов к провайдеру и с TTL-кэшем выдачи.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pribylovaa/news-gateway/internal/cache"
	"github.com/pribylovaa/news-gateway/internal/config"
	"github.com/pribylovaa/news-gateway/internal/guardian"
	"github.com/pribylovaa/news-gateway/internal/metrics"
	"github.com/pribylovaa/news-gateway/internal/models"
	"github.com/pribylovaa/news-gateway/internal/ratelimit"
)

var (
	// ErrInvalidArgument — некорректные входные аргументы.
	// Транспорт: 400.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrQuotaExhausted — резервирование квоты отклонено и кэша по ключу нет.
	// Транспорт: 429.
	ErrQuotaExhausted = errors.New("quota exhausted")
	// ErrNotFound — провайдер не нашёл статью по идентификатору.
	// Транспорт: 404.
	ErrNotFound = errors.New("not found")
)

// Upstream — контракт клиента провайдера (см. internal/guardian).
//
//go:generate mockgen -source=service.go -destination=../../mocks/mock_upstream.go -package=mocks
type Upstream interface {
	// Search выполняет один поисковый запрос без повторов.
	Search(ctx context.Context, p guardian.SearchParams) (*guardian.SearchResult, error)
}

// Service — описывает бизнес-логику news-gateway.
// Кэш и журнал квоты — состояние процесса; перезапуск обнуляет и то и другое.
type Service struct {
	upstream Upstream
	cfg      config.Config

	pages    *cache.Cache[models.NewsPage]
	articles *cache.Cache[models.Article]
	limiter  *ratelimit.Limiter
	pacer    *ratelimit.Pacer
	metrics  *metrics.Metrics
}

// Option настраивает Service при создании.
type Option func(*options)

type options struct {
	metrics *metrics.Metrics
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

// WithMetrics подключает счётчики.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithClock подменяет источник времени кэша и лимитера (для тестов).
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithSleeper подменяет паузу пейсера (для тестов).
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(o *options) { o.sleep = sleep }
}

// New создает новый экземпляр Service.
func New(upstream Upstream, cfg config.Config, opts ...Option) *Service {
	o := options{
		now:   time.Now,
		sleep: nil,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var pacerOpts []ratelimit.PacerOption
	if o.sleep != nil {
		pacerOpts = append(pacerOpts, ratelimit.WithSleeper(o.sleep))
	}

	return &Service{
		upstream: upstream,
		cfg:      cfg,
		pages:    cache.New(cfg.Cache.TTL, cache.WithClock[models.NewsPage](o.now)),
		articles: cache.New(cfg.Cache.TTL, cache.WithClock[models.Article](o.now)),
		limiter: ratelimit.New(ratelimit.Config{
			Daily:            cfg.Limits.Daily,
			PerSecond:        cfg.Limits.PerSecond,
			Lenient:          cfg.Limits.Lenient,
			LenientThreshold: cfg.Limits.LenientThreshold,
			LenientFactor:    cfg.Limits.LenientFactor,
		}, ratelimit.WithClock(o.now)),
		pacer:   ratelimit.NewPacer(cfg.Aggregate.PaceInterval, pacerOpts...),
		metrics: o.metrics,
	}
}

// RateLimitStats возвращает снимок квоты без резервирования.
func (s *Service) RateLimitStats() ratelimit.Stats {
	return s.limiter.Stats()
}

// ClearCache безусловно чистит кэш страниц и статей.
func (s *Service) ClearCache() {
	s.pages.Clear()
	s.articles.Clear()
}

// StartCacheCleanup запускает фоновую чистку кэшей.
func (s *Service) StartCacheCleanup() {
	s.pages.StartSweep(s.cfg.Cache.SweepInterval)
	s.articles.StartSweep(s.cfg.Cache.SweepInterval)
}

// StopCacheCleanup останавливает фоновую чистку и дожидается её завершения.
func (s *Service) StopCacheCleanup() {
	s.pages.StopSweep()
	s.articles.StopSweep()
}

// pageKey — детерминированный ключ кэша страницы выдачи.
// Одинаковые параметры всегда дают одинаковый ключ.
func pageKey(kind, subject string, q models.PageQuery) string {
	return fmt.Sprintf("%s|%s|p=%d|s=%d|from=%s|to=%s|sort=%s",
		kind, subject, q.Page, q.PageSize,
		dateKey(q.Dates.From), dateKey(q.Dates.To), q.Sort)
}

// articleKey — ключ кэша одиночной статьи.
func articleKey(id string) string {
	return "article|" + id
}

func dateKey(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Format(models.DateLayout)
}

// normalizeQuery приводит поисковый запрос к каноническому виду для ключа кэша.
func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// outcomeFor — метка исхода вызова провайдера для метрик.
func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, guardian.ErrTimeout):
		return metrics.OutcomeTimeout
	case errors.Is(err, guardian.ErrUnreachable):
		return metrics.OutcomeUnreachable
	default:
		return metrics.OutcomeStatus
	}
}
