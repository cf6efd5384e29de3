package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/news-gateway/internal/guardian"
	"github.com/pribylovaa/news-gateway/internal/models"
	"github.com/pribylovaa/news-gateway/pkg/log"
)

// ByCategory возвращает страницу выдачи одной категории.
//
// Порядок обработки:
//  1. валидация до любого обращения к кэшу/квоте/сети;
//  2. свежая запись кэша — ответ без расхода квоты;
//  3. резервирование квоты; при отказе — деградация на просроченную
//     запись того же ключа, при её отсутствии — ErrQuotaExhausted;
//  4. запрос к провайдеру, нормализация, запись в кэш.
//
// Ошибки:
//   - ErrInvalidArgument — категория/пагинация/даты/сортировка вне границ;
//   - ErrQuotaExhausted — квота исчерпана и деградировать не на что;
//   - ошибки guardian.* прокидываются без повторов.
func (s *Service) ByCategory(ctx context.Context, q models.CategoryQuery) (*models.NewsPage, error) {
	const op = "service/category/ByCategory"

	category, err := models.ParseCategory(string(q.Category))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
	}

	if q.Sort == "" {
		q.Sort = models.SortNewest
	}
	if _, err := models.ParseSort(string(q.Sort), models.SortNewest); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
	}

	if err := q.PageQuery.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
	}

	page, err := s.categoryPage(ctx, category, q.PageQuery)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return page, nil
}

// categoryPage — один запрос «категория/страница» поверх кэша и квоты.
// Аргументы обязаны быть провалидированы вызывающим.
//
// Единица квоты расходуется в момент резервирования, до вызова провайдера:
// неуспешный вызов после успешного резервирования всё равно потрачен,
// провайдер считает его независимо от исхода.
func (s *Service) categoryPage(ctx context.Context, category models.Category, q models.PageQuery) (*models.NewsPage, error) {
	const op = "service/category/categoryPage"

	lg := log.From(ctx)
	key := pageKey("category", string(category), q)

	if page, ok := s.pages.Get(key); ok {
		s.metrics.CacheHit()
		lg.Debug("category_cache_hit", slog.String("op", op), slog.String("key", key))

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

		lg.Warn("quota_denied",
			slog.String("op", op),
			slog.String("key", key),
			slog.Int("daily_count", res.DailyCount),
		)

		return nil, fmt.Errorf("%s: %w", op, ErrQuotaExhausted)
	}
	s.metrics.QuotaGranted()

	result, err := s.upstream.Search(ctx, guardian.SearchParams{
		Section:  guardian.SectionFor(category),
		OrderBy:  guardian.OrderBy(q.Sort),
		Page:     q.Page,
		PageSize: q.PageSize,
		Dates:    q.Dates,
	})
	s.metrics.UpstreamRequest(outcomeFor(err))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	page := guardian.ToPage(result, q.Page, q.PageSize, string(category))
	s.pages.Set(key, page)

	lg.Info("category_fetched",
		slog.String("op", op),
		slog.String("category", string(category)),
		slog.Int("page", q.Page),
		slog.Int("items", len(page.Articles)),
		slog.Int("daily_count", res.DailyCount),
	)

	return &page, nil
}
