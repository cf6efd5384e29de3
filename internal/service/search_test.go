package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/news-gateway/internal/guardian"
	"github.com/pribylovaa/news-gateway/internal/models"
)

// Файл unit-тестов свободнотекстового поиска.
//
// Покрываем:
//   - валидацию запроса (минимальная длина после обрезки);
//   - сортировку по умолчанию relevance;
//   - нормализацию запроса в ключе кэша (регистр/пробелы);
//   - деградацию на просроченный кэш при отказе в квоте.

func searchQuery(q string) models.SearchQuery {
	return models.SearchQuery{
		Query: q,
		PageQuery: models.PageQuery{
			Page:     1,
			PageSize: 20,
		},
	}
}

func TestSearch_QueryValidation(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig())

	for _, q := range []string{"", " ", "a", "  a  "} {
		_, err := h.svc.Search(context.Background(), searchQuery(q))
		require.ErrorIs(t, err, ErrInvalidArgument, "query %q must be rejected", q)
	}

	require.Equal(t, 0, h.svc.RateLimitStats().DailyCount)
}

func TestSearch_DefaultSortIsRelevance(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig())

	var captured guardian.SearchParams
	h.upstream.EXPECT().
		Search(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p guardian.SearchParams) (*guardian.SearchResult, error) {
			captured = p
			return resultsPage("news", 5, h.clock.Now(), time.Minute, 5), nil
		})

	_, err := h.svc.Search(context.Background(), searchQuery("climate change"))
	require.NoError(t, err)

	require.Equal(t, "relevance", captured.OrderBy)
	require.Equal(t, "climate change", captured.Query)
	require.Empty(t, captured.Section)
}

// TestSearch_QueryNormalizationSharesCache — запросы, отличающиеся только
// регистром и пробелами, дают один ключ кэша и один вызов провайдера.
func TestSearch_QueryNormalizationSharesCache(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig())

	h.upstream.EXPECT().
		Search(gomock.Any(), gomock.Any()).
		Return(resultsPage("news", 5, h.clock.Now(), time.Minute, 5), nil).
		Times(1)

	first, err := h.svc.Search(context.Background(), searchQuery("Climate   Change"))
	require.NoError(t, err)

	second, err := h.svc.Search(context.Background(), searchQuery("  climate change "))
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, h.svc.RateLimitStats().DailyCount)
}

func TestSearch_QuotaExhausted_StaleServed(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Limits.Daily = 1
	cfg.Limits.PerSecond = 10
	h := newHarness(t, cfg)

	h.upstream.EXPECT().
		Search(gomock.Any(), gomock.Any()).
		Return(resultsPage("news", 5, h.clock.Now(), time.Minute, 5), nil).
		Times(1)

	first, err := h.svc.Search(context.Background(), searchQuery("climate change"))
	require.NoError(t, err)

	h.clock.Advance(16 * time.Minute)

	second, err := h.svc.Search(context.Background(), searchQuery("climate change"))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestSearch_QuotaExhausted_NoCache(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Limits.Daily = 0
	h := newHarness(t, cfg)

	_, err := h.svc.Search(context.Background(), searchQuery("climate change"))
	require.ErrorIs(t, err, ErrQuotaExhausted)
}
