// models содержит доменные типы news-gateway и их валидацию.
//
// Типы общие для сервисного и транспортного слоёв; json-теги описывают
// внешнее REST-представление.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Границы пагинации. Потолок размера страницы задан провайдером контента.
const (
	MinPage     = 1
	MinPageSize = 1
	MaxPageSize = 50
)

// Минимальная длина поискового запроса после обрезки пробелов.
const MinQueryLen = 2

var (
	// ErrUnknownCategory — категория вне фиксированного набора.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrUnknownSort — неизвестный порядок сортировки.
	ErrUnknownSort = errors.New("unknown sort order")
	// ErrPageOutOfRange — page < 1.
	ErrPageOutOfRange = errors.New("page out of range")
	// ErrPageSizeOutOfRange — page_size вне [1, 50].
	ErrPageSizeOutOfRange = errors.New("page size out of range")
	// ErrDateRangeInverted — from позже to.
	ErrDateRangeInverted = errors.New("date range inverted")
	// ErrQueryTooShort — поисковый запрос короче минимума.
	ErrQueryTooShort = errors.New("query too short")
	// ErrNoCategories — пустой набор категорий в агрегирующем запросе.
	ErrNoCategories = errors.New("no categories")
)

// Category — фиксированный набор категорий ленты.
type Category string

const (
	CategoryGeneral       Category = "general"
	CategoryWorld         Category = "world"
	CategoryBusiness      Category = "business"
	CategoryTechnology    Category = "technology"
	CategoryScience       Category = "science"
	CategoryHealth        Category = "health"
	CategorySports        Category = "sports"
	CategoryEntertainment Category = "entertainment"
)

// Categories — полный список допустимых категорий (для валидации и документации).
var Categories = []Category{
	CategoryGeneral,
	CategoryWorld,
	CategoryBusiness,
	CategoryTechnology,
	CategoryScience,
	CategoryHealth,
	CategorySports,
	CategoryEntertainment,
}

// ParseCategory валидирует строку категории.
// Регистр не учитывается, пробелы по краям обрезаются.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
}

// Sort — порядок сортировки выдачи.
type Sort string

const (
	// SortNewest — по убыванию даты публикации.
	SortNewest Sort = "newest"
	// SortOldest — по возрастанию даты публикации.
	SortOldest Sort = "oldest"
	// SortRelevance — порядок провайдера; при агрегации не пересортировывается.
	SortRelevance Sort = "relevance"
)

// ParseSort валидирует порядок сортировки; пустая строка — значение по умолчанию def.
func ParseSort(raw string, def Sort) (Sort, error) {
	s := Sort(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case "":
		return def, nil
	case SortNewest, SortOldest, SortRelevance:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSort, raw)
	}
}

// DateRange — необязательные границы по дате публикации, календарная точность.
// Нулевое время означает «граница не задана».
type DateRange struct {
	From time.Time
	To   time.Time
}

// IsZero сообщает, что обе границы отсутствуют.
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Validate проверяет from <= to, когда заданы обе границы.
func (r DateRange) Validate() error {
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		return fmt.Errorf("%w: from=%s to=%s",
			ErrDateRangeInverted, r.From.Format(DateLayout), r.To.Format(DateLayout))
	}

	return nil
}

// DateLayout — формат дат провайдера (календарный день).
const DateLayout = "2006-01-02"

// Article — нормализованная статья.
// Content заполняется только при запросе полного текста (поиск по id).
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content,omitempty"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url"`
	PublishedAt time.Time `json:"published_at"`
	SourceName  string    `json:"source_name"`
}

// NewsPage — страница выдачи.
//
// Для агрегированной ленты TotalResults — верхняя оценка
// (max(длина слитого списка, сумма total по категориям)), не точное число.
type NewsPage struct {
	Articles     []Article `json:"articles"`
	TotalResults int       `json:"total_results"`
	Page         int       `json:"page"`
	PageSize     int       `json:"page_size"`
}

// PageQuery — общая часть параметров постраничных запросов.
type PageQuery struct {
	Page     int
	PageSize int
	Dates    DateRange
	Sort     Sort
}

// Validate проверяет границы пагинации и дат.
func (q PageQuery) Validate() error {
	if q.Page < MinPage {
		return fmt.Errorf("%w: %d", ErrPageOutOfRange, q.Page)
	}

	if q.PageSize < MinPageSize || q.PageSize > MaxPageSize {
		return fmt.Errorf("%w: %d", ErrPageSizeOutOfRange, q.PageSize)
	}

	return q.Dates.Validate()
}

// CategoryQuery — запрос одной категории.
type CategoryQuery struct {
	Category Category
	PageQuery
}

// PreferencesQuery — агрегирующий запрос по набору категорий.
type PreferencesQuery struct {
	Categories []Category
	PageQuery
}

// Validate дополнительно требует непустой набор категорий.
func (q PreferencesQuery) Validate() error {
	if len(q.Categories) == 0 {
		return ErrNoCategories
	}

	for _, c := range q.Categories {
		if _, err := ParseCategory(string(c)); err != nil {
			return err
		}
	}

	return q.PageQuery.Validate()
}

// SearchQuery — свободнотекстовый поиск.
type SearchQuery struct {
	Query string
	PageQuery
}

// Validate требует запрос длиной не меньше MinQueryLen после обрезки.
// Длина считается в рунах, не в байтах.
func (q SearchQuery) Validate() error {
	if utf8.RuneCountInString(strings.TrimSpace(q.Query)) < MinQueryLen {
		return fmt.Errorf("%w: %q", ErrQueryTooShort, q.Query)
	}

	return q.PageQuery.Validate()
}
