package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pribylovaa/news-gateway/internal/models"
	"github.com/pribylovaa/news-gateway/internal/service"
)

// Размер страницы по умолчанию, когда клиент его не задал.
const defaultPageSize = 20

var errMissingID = errors.New("id is required")

// Handlers агрегирует зависимости (сервисный слой).
type Handlers struct {
	Service *service.Service
}

func New(svc *service.Service) *Handlers {
	return &Handlers{Service: svc}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// pageQuery разбирает общие параметры пагинации/дат/сортировки.
// Ошибки разбора переводятся в service.ErrInvalidArgument, чтобы слой
// ошибок отдал 400 с единым кодом.
func pageQuery(r *http.Request, defaultSort models.Sort) (models.PageQuery, error) {
	q := models.PageQuery{
		Page:     models.MinPage,
		PageSize: defaultPageSize,
	}

	var err error
	if q.Page, err = intParam(r, "page", q.Page); err != nil {
		return q, err
	}
	if q.PageSize, err = intParam(r, "page_size", q.PageSize); err != nil {
		return q, err
	}

	if q.Dates.From, err = dateParam(r, "from"); err != nil {
		return q, err
	}
	if q.Dates.To, err = dateParam(r, "to"); err != nil {
		return q, err
	}

	sort, err := models.ParseSort(r.URL.Query().Get("sort"), defaultSort)
	if err != nil {
		return q, invalidArgument(err)
	}
	q.Sort = sort

	return q, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, invalidArgument(fmt.Errorf("%s: %w", name, err))
	}

	return n, nil
}

func dateParam(r *http.Request, name string) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(models.DateLayout, v)
	if err != nil {
		return time.Time{}, invalidArgument(fmt.Errorf("%s: %w", name, err))
	}

	return t, nil
}

// categoriesParam разбирает список категорий из CSV-параметра.
func categoriesParam(r *http.Request) []models.Category {
	raw := strings.Split(r.URL.Query().Get("categories"), ",")

	categories := make([]models.Category, 0, len(raw))
	for _, c := range raw {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, models.Category(c))
		}
	}

	return categories
}

// invalidArgument — локальная ошибка разбора -> service.ErrInvalidArgument.
func invalidArgument(err error) error {
	return fmt.Errorf("%w: %v", service.ErrInvalidArgument, err)
}
