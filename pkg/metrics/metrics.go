package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор метрик сервиса.
// Все методы безопасны для nil-получателя: при выключенных метриках передается nil.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	GridBuildsTotal        *prometheus.CounterVec
	GridRecordsTotal       *prometheus.CounterVec
	PhoneResolutionsTotal  *prometheus.CounterVec
	DeferredLookupsTotal   *prometheus.CounterVec
	BackendFetchErrorTotal *prometheus.CounterVec
	DirectoryCacheTotal    *prometheus.CounterVec
}

// New создает и регистрирует метрики в собственном реестре
func New(serviceName string) *Metrics {
	ns := sanitize(serviceName)
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		GridBuildsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "planning_grid_builds_total",
			Help:      "Number of planning grid builds",
		}, []string{"trigger"}),
		GridRecordsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "planning_grid_records_total",
			Help:      "Unavailability records processed by the grid builder",
		}, []string{"result"}),
		PhoneResolutionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "planning_phone_resolutions_total",
			Help:      "Client phone resolutions by strategy",
		}, []string{"strategy"}),
		DeferredLookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "planning_deferred_lookups_total",
			Help:      "Deferred single-reservation lookups by result",
		}, []string{"result"}),
		BackendFetchErrorTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "backend_fetch_errors_total",
			Help:      "Failed backend fetches by collection",
		}, []string{"collection"}),
		DirectoryCacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "directory_cache_requests_total",
			Help:      "Directory snapshot cache lookups by result",
		}, []string{"result"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.GridBuildsTotal,
		m.GridRecordsTotal,
		m.PhoneResolutionsTotal,
		m.DeferredLookupsTotal,
		m.BackendFetchErrorTotal,
		m.DirectoryCacheTotal,
	)

	return m
}

// Handler HTTP handler для /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry реестр метрик (для тестов)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordHTTPRequest(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

func (m *Metrics) RecordGridBuild(trigger string) {
	if m == nil {
		return
	}
	m.GridBuildsTotal.WithLabelValues(trigger).Inc()
}

func (m *Metrics) RecordGridRecord(result string) {
	if m == nil {
		return
	}
	m.GridRecordsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordPhoneResolution(strategy string) {
	if m == nil {
		return
	}
	m.PhoneResolutionsTotal.WithLabelValues(strategy).Inc()
}

func (m *Metrics) RecordDeferredLookup(result string) {
	if m == nil {
		return
	}
	m.DeferredLookupsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordBackendFetchError(collection string) {
	if m == nil {
		return
	}
	m.BackendFetchErrorTotal.WithLabelValues(collection).Inc()
}

func (m *Metrics) RecordDirectoryCache(result string) {
	if m == nil {
		return
	}
	m.DirectoryCacheTotal.WithLabelValues(result).Inc()
}

func sanitize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("-", "_", " ", "_", ".", "_").Replace(name)
}
