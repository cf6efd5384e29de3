package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/news-gateway/internal/guardian"
	"github.com/pribylovaa/news-gateway/internal/models"
	"github.com/pribylovaa/news-gateway/pkg/log"
)

// Ключевое слово заглушки обложки для результатов поиска (категории нет).
const searchKeyword = "news"

// Search — свободнотекстовый поиск по провайдеру.
//
// Машинерия та же, что у ByCategory: кэш -> квота -> провайдер -> кэш,
// с деградацией на просроченную запись при отказе в резервировании.
// Ключ кэша строится по нормализованному запросу; сортировка по умолчанию —
// relevance, а не newest.
func (s *Service) Search(ctx context.Context, q models.SearchQuery) (*models.NewsPage, error) {
	const op = "service/search/Search"

	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
	}

	if q.Sort == "" {
		q.Sort = models.SortRelevance
	}
	if _, err := models.ParseSort(string(q.Sort), models.SortRelevance); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
	}

	lg := log.From(ctx)
	query := normalizeQuery(q.Query)
	key := pageKey("search", query, q.PageQuery)

	if page, ok := s.pages.Get(key); ok {
		s.metrics.CacheHit()
		lg.Debug("search_cache_hit", slog.String("op", op), slog.String("key", key))

		return &page, nil
	}
	s.metrics.CacheMiss()

	res := s.limiter.Reserve()
	if !res.Granted {
		s.metrics.QuotaDenied()

		if page, ok := s.pages.GetStale(key); ok {
			s.metrics.CacheStaleHit()
			lg.Warn("quota_denied_stale_served",
				slog.String("op", op),
				slog.String("key", key),
				slog.Int("daily_count", res.DailyCount),
			)

			return &page, nil
		}

		return nil, fmt.Errorf("%s: %w", op, ErrQuotaExhausted)
	}
	s.metrics.QuotaGranted()

	result, err := s.upstream.Search(ctx, guardian.SearchParams{
		Query:    query,
		OrderBy:  guardian.OrderBy(q.Sort),
		Page:     q.Page,
		PageSize: q.PageSize,
		Dates:    q.Dates,
	})
	s.metrics.UpstreamRequest(outcomeFor(err))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	page := guardian.ToPage(result, q.Page, q.PageSize, searchKeyword)
	s.pages.Set(key, page)

	lg.Info("search_fetched",
		slog.String("op", op),
		slog.String("query", query),
		slog.Int("items", len(page.Articles)),
	)

	return &page, nil
}
