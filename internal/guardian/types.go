// guardian — клиент поискового API контент-провайдера и нормализация
// его ответов в доменные модели.
//
// Клиент выполняет ровно один HTTP-вызов без повторов: политика ретраев
// принадлежит вызывающему, а исчерпание нашей квоты обрабатывается выше
// деградацией на кэш.
package guardian

import (
	"errors"
	"time"

	"github.com/pribylovaa/news-gateway/internal/models"
)

// Закрытая таксономия ошибок клиента.
// Транспорт: см. маппинг в internal/errors.
var (
	// ErrTimeout — провайдер не ответил за отведённый таймаут.
	ErrTimeout = errors.New("upstream timeout")
	// ErrUnreachable — сетевая ошибка без ответа.
	ErrUnreachable = errors.New("upstream unreachable")
	// ErrAPIKeyInvalid — провайдер отверг учётные данные (ошибка оператора).
	ErrAPIKeyInvalid = errors.New("upstream rejected api key")
	// ErrRateLimited — собственный rate-limit провайдера.
	ErrRateLimited = errors.New("upstream rate limited")
	// ErrServer — 5xx на стороне провайдера.
	ErrServer = errors.New("upstream server error")
	// ErrUpstream — прочие неуспешные ответы.
	ErrUpstream = errors.New("upstream request failed")
	// ErrBadArticleRef — ссылка на статью без пути после домена провайдера.
	ErrBadArticleRef = errors.New("malformed article reference")
)

// SearchParams — параметры одного запроса к поисковому эндпойнту.
// Пустые строковые поля не попадают в query string.
type SearchParams struct {
	// Query — свободнотекстовый запрос (параметр q).
	Query string
	// Section — идентификатор раздела провайдера.
	Section string
	// IDs — точный поиск по идентификатору статьи.
	IDs string
	// OrderBy — newest|oldest|relevance.
	OrderBy string

	Page     int
	PageSize int
	Dates    models.DateRange

	// IncludeBody добавляет полный текст в выборку полей.
	IncludeBody bool
}

// searchEnvelope — корневой объект ответа провайдера.
type searchEnvelope struct {
	Response searchResponse `json:"response"`
}

type searchResponse struct {
	Status  string   `json:"status"`
	Total   int      `json:"total"`
	Pages   int      `json:"pages"`
	Results []Result `json:"results"`
}

// Result — запись результата в том виде, как её отдаёт провайдер.
type Result struct {
	ID                 string       `json:"id"`
	WebTitle           string       `json:"webTitle"`
	WebURL             string       `json:"webUrl"`
	WebPublicationDate time.Time    `json:"webPublicationDate"`
	SectionName        string       `json:"sectionName"`
	Fields             ResultFields `json:"fields"`
}

// ResultFields — запрошенные через show-fields дополнительные поля.
type ResultFields struct {
	Headline  string `json:"headline"`
	TrailText string `json:"trailText"`
	BodyText  string `json:"bodyText"`
	Thumbnail string `json:"thumbnail"`
}

// SearchResult — распакованный ответ: общее число результатов и записи.
type SearchResult struct {
	Total   int
	Results []Result
}
