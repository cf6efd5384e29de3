package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	apierrors "github.com/pribylovaa/news-gateway/internal/errors"
	"github.com/pribylovaa/news-gateway/internal/models"
)

// NewsByCategory — GET /news/category/{category}.
func (h *Handlers) NewsByCategory(w http.ResponseWriter, r *http.Request) {
	pq, err := pageQuery(r, models.SortNewest)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	page, err := h.Service.ByCategory(r.Context(), models.CategoryQuery{
		Category:  models.Category(chi.URLParam(r, "category")),
		PageQuery: pq,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// NewsByPreferences — GET /news/preferences?categories=a,b.
func (h *Handlers) NewsByPreferences(w http.ResponseWriter, r *http.Request) {
	pq, err := pageQuery(r, models.SortNewest)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	page, err := h.Service.ByPreferences(r.Context(), models.PreferencesQuery{
		Categories: categoriesParam(r),
		PageQuery:  pq,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// SearchNews — GET /news/search?q=...
func (h *Handlers) SearchNews(w http.ResponseWriter, r *http.Request) {
	pq, err := pageQuery(r, models.SortRelevance)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	page, err := h.Service.Search(r.Context(), models.SearchQuery{
		Query:     r.URL.Query().Get("q"),
		PageQuery: pq,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// ArticleByID — GET /news/article?id=... (идентификатор провайдера либо URL).
func (h *Handlers) ArticleByID(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		apierrors.WriteError(w, r, invalidArgument(errMissingID))
		return
	}

	article, err := h.Service.ByID(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, article)
}

// QuotaStats — GET /news/quota: снимок квоты без резервирования.
func (h *Handlers) QuotaStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.RateLimitStats())
}

// ClearCache — DELETE /news/cache: ручная инвалидация кэша.
func (h *Handlers) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.Service.ClearCache()
	w.WriteHeader(http.StatusNoContent)
}

// Healthz — GET /healthz.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
