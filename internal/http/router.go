// http собирает HTTP-роутер news-gateway: chi, мидлвары, REST-эндпойнты
// и служебные /healthz и /metrics.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/news-gateway/internal/http/handlers"
	"github.com/pribylovaa/news-gateway/internal/http/middleware"
	"github.com/pribylovaa/news-gateway/internal/service"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
	// Gatherer для /metrics; nil отключает эндпойнт.
	Metrics prometheus.Gatherer
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := handlers.New(svc)

	root.Get("/news/category/{category}", h.NewsByCategory)
	root.Get("/news/preferences", h.NewsByPreferences)
	root.Get("/news/search", h.SearchNews)
	root.Get("/news/article", h.ArticleByID)
	root.Get("/news/quota", h.QuotaStats)
	root.Delete("/news/cache", h.ClearCache)

	root.Get("/healthz", h.Healthz)
	if opts.Metrics != nil {
		root.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Metrics, promhttp.HandlerOpts{}))
	}

	return root
}
