// Package metrics はPrometheusのメトリクスを定義し、/metrics 用のハンドラーを提供します。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "finance"

// Metrics はアプリケーションのメトリクス一式です。
// 専用のレジストリを持つため、テストごとに生成しても衝突しません。
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestCount    *prometheus.CounterVec
	tradeCount      *prometheus.CounterVec
	quoteDuration   *prometheus.HistogramVec
}

// New はメトリクスを生成し、Goランタイムとプロセスのコレクターも登録します。
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method", "status"},
		),
		requestCount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		tradeCount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trades_total",
				Help:      "Trades by side and outcome",
			},
			[]string{"side", "outcome"},
		),
		quoteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "quote_lookup_duration_seconds",
				Help:      "Duration of quote provider lookups",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"outcome"},
		),
	}
}

// ObserveRequest はHTTPリクエスト1件を記録します。
func (m *Metrics) ObserveRequest(route, method, status string, d time.Duration) {
	m.requestDuration.WithLabelValues(route, method, status).Observe(d.Seconds())
	m.requestCount.WithLabelValues(route, method, status).Inc()
}

// ObserveTrade は売買の結果を記録します。outcomeは "ok", "rejected", "error" のいずれかです。
func (m *Metrics) ObserveTrade(side, outcome string) {
	m.tradeCount.WithLabelValues(side, outcome).Inc()
}

// ObserveQuote は株価取得の所要時間を記録します。
func (m *Metrics) ObserveQuote(outcome string, d time.Duration) {
	m.quoteDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// Registry は内部レジストリを返します。
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler は /metrics のHTTPハンドラーを返します。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
