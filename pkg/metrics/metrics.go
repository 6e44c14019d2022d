// Package metrics 基于Prometheus的指标收集
//
// 指标分三组：
//   - HTTP：请求数、耗时、处理中请求数（由middleware.Metrics记录）
//   - 借还：借书/还书次数（按结果打标签）、借书耗时、当前借出数量
//   - 基础设施：熔断器状态、Saga执行与补偿次数、消息发布次数
//
// 使用方式：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾，Gauge用现在时态。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 借还结果标签
const (
	ResultSuccess  = "success"
	ResultConflict = "conflict" // 已借出 / 非本人借出
	ResultFailure  = "failure"
)

var (
	initOnce sync.Once

	// HTTP指标
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge

	// 借还指标
	CheckoutsTotal       *prometheus.CounterVec
	ReturnsTotal         *prometheus.CounterVec
	CheckoutDuration     prometheus.Histogram
	BooksCheckedOut      prometheus.Gauge
	SignupsTotal         *prometheus.CounterVec
	AuthenticationsTotal *prometheus.CounterVec

	// 基础设施指标
	CircuitBreakerState    *prometheus.GaugeVec
	CircuitBreakerRequests *prometheus.CounterVec
	SagaExecutionsTotal    *prometheus.CounterVec
	SagaExecutionDuration  prometheus.Histogram
	SagaCompensationsTotal prometheus.Counter
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 注册所有指标，重复调用无副作用
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	CheckoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkouts_total",
			Help: "借书请求总数",
		},
		[]string{"result"},
	)

	ReturnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "returns_total",
			Help: "还书请求总数",
		},
		[]string{"result"},
	)

	CheckoutDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "checkout_duration_seconds",
			Help:    "借书事务耗时（秒）",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	BooksCheckedOut = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "books_checked_out",
			Help: "当前借出未还的图书数量",
		},
	)

	SignupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signups_total",
			Help: "注册请求总数",
		},
		[]string{"result"},
	)

	AuthenticationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authentications_total",
			Help: "登录请求总数",
		},
		[]string{"result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"}, // result: success/failure/rejected
	)

	SagaExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saga_executions_total",
			Help: "Saga执行总数",
		},
		[]string{"result"},
	)

	SagaExecutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "saga_execution_duration_seconds",
			Help:    "Saga执行耗时（秒）",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	SagaCompensationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "saga_compensations_total",
			Help: "Saga补偿执行总数",
		},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key", "result"},
	)
}

// =========================================
// 辅助函数
// =========================================

func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

func SetGauge(gauge prometheus.Gauge, value float64) {
	gauge.Set(value)
}

func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
