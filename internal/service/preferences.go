package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/pribylovaa/news-gateway/internal/models"
	"github.com/pribylovaa/news-gateway/pkg/log"
)

// ByPreferences собирает единую ленту из нескольких категорий.
//
// Категории опрашиваются строго последовательно с паузой пейсера между
// вызовами: параллельный опрос превысил бы общий секундный потолок квоты.
// Это осознанная сериализация, а не упущенная оптимизация.
//
// Для каждой категории запрашивается первая страница увеличенного размера
// (ceil(page_size * prefetch_factor / число категорий)), чтобы после
// слияния хватило материала на несколько страниц ленты. Слитый список
// сортируется и нарезается окном [(page-1)*page_size, page*page_size).
//
// Частичных результатов нет: ошибка любой категории валит весь запрос.
//
// TotalResults ответа — верхняя оценка max(длина слитого списка,
// сумма total по категориям), не точное число доступных статей.
func (s *Service) ByPreferences(ctx context.Context, q models.PreferencesQuery) (*models.NewsPage, error) {
	const op = "service/preferences/ByPreferences"

	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
	}

	if q.Sort == "" {
		q.Sort = models.SortNewest
	}
	if _, err := models.ParseSort(string(q.Sort), models.SortNewest); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
	}

	categories := dedupe(normalizeCategories(q.Categories))
	perCategory := fetchSize(q.PageSize, s.cfg.Aggregate.PrefetchFactor, len(categories))

	lg := log.From(ctx)
	lg.Info("preferences_request",
		slog.String("op", op),
		slog.Int("categories", len(categories)),
		slog.Int("per_category_size", perCategory),
		slog.Int("page", q.Page),
	)

	merged := make([]models.Article, 0, perCategory*len(categories))
	sumTotals := 0

	for i, category := range categories {
		if i > 0 {
			if err := s.pacer.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%s: pace: %w", op, err)
			}
		}

		page, err := s.categoryPage(ctx, category, models.PageQuery{
			Page:     1,
			PageSize: perCategory,
			Dates:    q.Dates,
			Sort:     q.Sort,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: category=%s: %w", op, category, err)
		}

		merged = append(merged, page.Articles...)
		sumTotals += page.TotalResults
	}

	sortMerged(merged, q.Sort)

	total := len(merged)
	if sumTotals > total {
		total = sumTotals
	}

	return &models.NewsPage{
		Articles:     sliceWindow(merged, q.Page, q.PageSize),
		TotalResults: total,
		Page:         q.Page,
		PageSize:     q.PageSize,
	}, nil
}

// fetchSize — размер предвыборки на категорию: ceil(pageSize*factor/n),
// обрезанный потолком размера страницы провайдера.
func fetchSize(pageSize, factor, n int) int {
	size := (pageSize*factor + n - 1) / n
	if size > models.MaxPageSize {
		size = models.MaxPageSize
	}
	if size < models.MinPageSize {
		size = models.MinPageSize
	}

	return size
}

// sortMerged упорядочивает слитый список по режиму сортировки.
// Relevance сохраняет порядок выборки по категориям (без пересортировки).
// Сортировка устойчивая: равные даты не меняют взаимный порядок категорий.
func sortMerged(articles []models.Article, mode models.Sort) {
	switch mode {
	case models.SortNewest:
		sort.SliceStable(articles, func(i, j int) bool {
			return articles[i].PublishedAt.After(articles[j].PublishedAt)
		})
	case models.SortOldest:
		sort.SliceStable(articles, func(i, j int) bool {
			return articles[i].PublishedAt.Before(articles[j].PublishedAt)
		})
	}
}

// sliceWindow вырезает окно страницы из слитого списка.
func sliceWindow(articles []models.Article, page, pageSize int) []models.Article {
	lo := (page - 1) * pageSize
	if lo >= len(articles) {
		return []models.Article{}
	}

	hi := lo + pageSize
	if hi > len(articles) {
		hi = len(articles)
	}

	return articles[lo:hi]
}

// normalizeCategories приводит категории к каноническому виду (регистр,
// пробелы): и маппинг разделов провайдера, и ключи кэша считаются только
// по каноническим значениям. Набор обязан пройти Validate до вызова.
func normalizeCategories(categories []models.Category) []models.Category {
	output := make([]models.Category, len(categories))
	for i, c := range categories {
		normalized, err := models.ParseCategory(string(c))
		if err != nil {
			normalized = c
		}
		output[i] = normalized
	}

	return output
}

// dedupe убирает повторы категорий, сохраняя порядок первого вхождения.
func dedupe(categories []models.Category) []models.Category {
	seen := make(map[models.Category]struct{}, len(categories))
	output := make([]models.Category, 0, len(categories))

	for _, c := range categories {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		output = append(output, c)
	}

	return output
}
