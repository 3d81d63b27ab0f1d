package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics は予約エンジンのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 終了した予約処理の総数（outcome, mode）
	BookingsTotal *prometheus.CounterVec

	// 楽観的ロックの競合数
	BookingConflictsTotal prometheus.Counter

	// 競合によるリトライ数
	BookingRetriesTotal prometheus.Counter

	// 悲観的ロック取得の待ち時間
	SeatLockWaitSeconds prometheus.Histogram

	// キューに滞留中のリクエスト数
	QueueDepth prometheus.Gauge
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		BookingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookings_total",
				Help: "Total number of terminal booking executions",
			},
			[]string{"outcome", "mode"},
		),
		BookingConflictsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "booking_conflicts_total",
				Help: "Total number of optimistic version conflicts",
			},
		),
		BookingRetriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "booking_retries_total",
				Help: "Total number of conflict-driven retries",
			},
		),
		SeatLockWaitSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "seat_lock_wait_seconds",
				Help:    "Time spent waiting for per-seat exclusive locks",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),
		QueueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "booking_queue_depth",
				Help: "Current number of pending booking requests",
			},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingsTotal,
		m.BookingConflictsTotal,
		m.BookingRetriesTotal,
		m.SeatLockWaitSeconds,
		m.QueueDepth,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
