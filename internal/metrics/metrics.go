// metrics — прометей-счётчики news-gateway.
//
// Все методы инкремента безопасны на nil-получателе, поэтому сервисный слой
// можно собирать без реестра (в юнит-тестах метрики просто не пишутся).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Исходы запроса к провайдеру для метки outcome.
const (
	OutcomeOK          = "ok"
	OutcomeTimeout     = "timeout"
	OutcomeUnreachable = "unreachable"
	OutcomeStatus      = "bad_status"
)

// Metrics агрегирует счётчики сервиса.
type Metrics struct {
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	cacheStaleHits prometheus.Counter

	quotaGranted prometheus.Counter
	quotaDenied  prometheus.Counter

	upstream *prometheus.CounterVec
}

// New создаёт и регистрирует счётчики в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "news_gateway",
			Name:      "cache_hits_total",
			Help:      "Fresh cache hits that saved an upstream call.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "news_gateway",
			Name:      "cache_misses_total",
			Help:      "Cache lookups that found no fresh entry.",
		}),
		cacheStaleHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "news_gateway",
			Name:      "cache_stale_hits_total",
			Help:      "Stale entries served because the quota was exhausted.",
		}),
		quotaGranted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "news_gateway",
			Name:      "quota_reservations_granted_total",
			Help:      "Successful quota reservations.",
		}),
		quotaDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "news_gateway",
			Name:      "quota_reservations_denied_total",
			Help:      "Denied quota reservations.",
		}),
		upstream: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "news_gateway",
			Name:      "upstream_requests_total",
			Help:      "Upstream provider calls by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.cacheHits,
		m.cacheMisses,
		m.cacheStaleHits,
		m.quotaGranted,
		m.quotaDenied,
		m.upstream,
	)

	return m
}

// CacheHit — свежая запись найдена, запрос к провайдеру не понадобился.
func (m *Metrics) CacheHit() {
	if m != nil {
		m.cacheHits.Inc()
	}
}

// CacheMiss — свежей записи нет.
func (m *Metrics) CacheMiss() {
	if m != nil {
		m.cacheMisses.Inc()
	}
}

// CacheStaleHit — отдана просроченная запись вместо отказа по квоте.
func (m *Metrics) CacheStaleHit() {
	if m != nil {
		m.cacheStaleHits.Inc()
	}
}

// QuotaGranted — резервирование прошло.
func (m *Metrics) QuotaGranted() {
	if m != nil {
		m.quotaGranted.Inc()
	}
}

// QuotaDenied — резервирование отклонено.
func (m *Metrics) QuotaDenied() {
	if m != nil {
		m.quotaDenied.Inc()
	}
}

// UpstreamRequest — завершённый вызов провайдера с указанным исходом.
func (m *Metrics) UpstreamRequest(outcome string) {
	if m != nil {
		m.upstream.WithLabelValues(outcome).Inc()
	}
}
