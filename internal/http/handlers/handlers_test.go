package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/news-gateway/internal/models"
	"github.com/pribylovaa/news-gateway/internal/service"
)

// Тесты разбора query-параметров хендлеров.

func request(t *testing.T, rawQuery string) *http.Request {
	t.Helper()
	return httptest.NewRequest(http.MethodGet, "/news/search?"+rawQuery, nil)
}

func TestPageQuery_Defaults(t *testing.T) {
	t.Parallel()

	q, err := pageQuery(request(t, ""), models.SortNewest)
	require.NoError(t, err)

	require.Equal(t, models.MinPage, q.Page)
	require.Equal(t, defaultPageSize, q.PageSize)
	require.Equal(t, models.SortNewest, q.Sort)
	require.True(t, q.Dates.IsZero())
}

func TestPageQuery_ParsesAll(t *testing.T) {
	t.Parallel()

	q, err := pageQuery(request(t, "page=3&page_size=40&from=2025-05-01&to=2025-05-20&sort=oldest"), models.SortNewest)
	require.NoError(t, err)

	require.Equal(t, 3, q.Page)
	require.Equal(t, 40, q.PageSize)
	require.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), q.Dates.From)
	require.Equal(t, time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC), q.Dates.To)
	require.Equal(t, models.SortOldest, q.Sort)
}

func TestPageQuery_ParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rawQuery string
	}{
		{"bad_page", "page=abc"},
		{"bad_page_size", "page_size=ten"},
		{"bad_from_date", "from=20250501"},
		{"bad_to_date", "to=май"},
		{"bad_sort", "sort=shuffled"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := pageQuery(request(t, tc.rawQuery), models.SortNewest)
			require.ErrorIs(t, err, service.ErrInvalidArgument)
		})
	}
}

func TestCategoriesParam(t *testing.T) {
	t.Parallel()

	got := categoriesParam(request(t, "categories=technology,%20business%20,,sports"))
	require.Equal(t, []models.Category{"technology", "business", "sports"}, got)

	require.Empty(t, categoriesParam(request(t, "")))
	require.Empty(t, categoriesParam(request(t, "categories=,")))
}
