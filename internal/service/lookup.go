package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pribylovaa/news-gateway/internal/guardian"
	"github.com/pribylovaa/news-gateway/internal/models"
	"github.com/pribylovaa/news-gateway/pkg/log"
)

// ByID возвращает одну статью по идентификатору провайдера либо полному URL
// её страницы. Пагинация и агрегация не участвуют: провайдер опрашивается
// точным фильтром по идентификатору, в ответ запрашивается полный текст.
//
// Ошибки:
//   - ErrInvalidArgument — URL с доменом провайдера без пути (до сети);
//   - ErrQuotaExhausted — квота исчерпана и кэша по статье нет;
//   - ErrNotFound — провайдер сообщил ноль совпадений.
func (s *Service) ByID(ctx context.Context, idOrURL string) (*models.Article, error) {
	const op = "service/lookup/ByID"

	id, err := guardian.ExtractID(idOrURL)
	if err != nil {
		if errors.Is(err, guardian.ErrBadArticleRef) {
			return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg := log.From(ctx)
	key := articleKey(id)

	if article, ok := s.articles.Get(key); ok {
		s.metrics.CacheHit()
		lg.Debug("article_cache_hit", slog.String("op", op), slog.String("id", id))

		return &article, nil
	}
	s.metrics.CacheMiss()

	res := s.limiter.Reserve()
	if !res.Granted {
		s.metrics.QuotaDenied()

		if article, ok := s.articles.GetStale(key); ok {
			s.metrics.CacheStaleHit()
			lg.Warn("quota_denied_stale_served",
				slog.String("op", op),
				slog.String("id", id),
				slog.Int("daily_count", res.DailyCount),
			)

			return &article, nil
		}

		return nil, fmt.Errorf("%s: %w", op, ErrQuotaExhausted)
	}
	s.metrics.QuotaGranted()

	result, err := s.upstream.Search(ctx, guardian.SearchParams{
		IDs:         id,
		Page:        1,
		PageSize:    1,
		IncludeBody: true,
	})
	s.metrics.UpstreamRequest(outcomeFor(err))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(result.Results) == 0 {
		lg.Warn("article_not_found", slog.String("op", op), slog.String("id", id))

		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	article := guardian.ToArticle(result.Results[0], articleKeyword(id), true)
	s.articles.Set(key, article)

	lg.Info("article_fetched", slog.String("op", op), slog.String("id", id))

	return &article, nil
}

// articleKeyword — ключевое слово заглушки обложки: первый сегмент
// идентификатора (у провайдера это раздел), иначе "news".
func articleKeyword(id string) string {
	if seg, _, ok := strings.Cut(id, "/"); ok && seg != "" {
		return seg
	}

	return "news"
}
