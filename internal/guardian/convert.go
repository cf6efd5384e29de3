package guardian

import (
	"net/url"
	"strings"

	"github.com/pribylovaa/news-gateway/internal/models"
)

// Предел описания, выкраиваемого из полного текста при пустом trailText.
const descriptionLimit = 200

// Хост публичных страниц провайдера; из его URL извлекается идентификатор статьи.
const articleHost = "theguardian.com"

// placeholderBase — детерминированная заглушка обложки по ключевому слову.
const placeholderBase = "https://placehold.co/600x400?text="

// sections — категория ленты -> раздел провайдера.
var sections = map[models.Category]string{
	models.CategoryGeneral:       "news",
	models.CategoryWorld:         "world",
	models.CategoryBusiness:      "business",
	models.CategoryTechnology:    "technology",
	models.CategoryScience:       "science",
	models.CategoryHealth:        "society",
	models.CategorySports:        "sport",
	models.CategoryEntertainment: "culture",
}

// SectionFor возвращает раздел провайдера для категории.
// Категория обязана пройти валидацию до вызова.
func SectionFor(c models.Category) string {
	return sections[c]
}

// OrderBy переводит доменную сортировку в параметр провайдера.
func OrderBy(s models.Sort) string {
	switch s {
	case models.SortOldest:
		return "oldest"
	case models.SortRelevance:
		return "relevance"
	default:
		return "newest"
	}
}

// ToArticle нормализует запись провайдера.
//
// Фолбэки:
//   - заголовок: fields.headline -> webTitle -> "No title";
//   - описание: trailText -> первые 200 символов bodyText -> "";
//   - обложка: thumbnail -> заглушка по ключевому слову keyword
//     (ImageURL всегда непустой).
//
// Полный текст попадает в Content только при includeBody.
func ToArticle(r Result, keyword string, includeBody bool) models.Article {
	a := models.Article{
		ID:          r.ID,
		URL:         r.WebURL,
		PublishedAt: r.WebPublicationDate,
		SourceName:  r.SectionName,
	}

	a.Title = strings.TrimSpace(r.Fields.Headline)
	if a.Title == "" {
		a.Title = strings.TrimSpace(r.WebTitle)
	}
	if a.Title == "" {
		a.Title = "No title"
	}

	a.Description = strings.TrimSpace(r.Fields.TrailText)
	if a.Description == "" {
		a.Description = truncate(strings.TrimSpace(r.Fields.BodyText), descriptionLimit)
	}

	a.ImageURL = r.Fields.Thumbnail
	if a.ImageURL == "" {
		a.ImageURL = placeholderBase + url.QueryEscape(keyword)
	}

	if includeBody {
		a.Content = r.Fields.BodyText
	}

	return a
}

// ToPage нормализует ответ провайдера в страницу выдачи.
// TotalResults — заявленный провайдером total, при его отсутствии — число записей.
func ToPage(res *SearchResult, page, pageSize int, keyword string) models.NewsPage {
	articles := make([]models.Article, 0, len(res.Results))
	for _, r := range res.Results {
		articles = append(articles, ToArticle(r, keyword, false))
	}

	total := res.Total
	if total == 0 {
		total = len(articles)
	}

	return models.NewsPage{
		Articles:     articles,
		TotalResults: total,
		Page:         page,
		PageSize:     pageSize,
	}
}

// ExtractID принимает идентификатор статьи либо полный URL её страницы
// и возвращает идентификатор.
//
// URL с доменом провайдера, но без пути — ошибка формата до любого
// обращения к сети. Строка без домена провайдера считается готовым
// идентификатором и возвращается как есть.
func ExtractID(idOrURL string) (string, error) {
	ref := strings.TrimSpace(idOrURL)

	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		if ref == "" {
			return "", ErrBadArticleRef
		}
		return ref, nil
	}

	u, err := url.Parse(ref)
	if err != nil {
		return "", ErrBadArticleRef
	}

	// Домен сверяется точно либо по поддомену: суффикс без точки пропустил бы
	// посторонние хосты вида nottheguardian.com.
	if host := u.Hostname(); host != articleHost && !strings.HasSuffix(host, "."+articleHost) {
		return "", ErrBadArticleRef
	}

	id := strings.Trim(u.Path, "/")
	if id == "" {
		return "", ErrBadArticleRef
	}

	return id, nil
}

// truncate обрезает строку до limit символов (по рунам).
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit])
}
