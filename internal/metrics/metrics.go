package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/assist-by/quantdesk/internal/domain"
	"github.com/assist-by/quantdesk/internal/notification"
)

// Recorder는 대시보드 동작 지표를 Prometheus 로 기록합니다
type Recorder struct {
	registry       *prometheus.Registry
	scans          *prometheus.CounterVec
	toasts         *prometheus.CounterVec
	remoteDuration *prometheus.HistogramVec
	remoteErrors   *prometheus.CounterVec
	wsClients      prometheus.Gauge
}

// New는 전용 레지스트리를 가진 기록기를 생성합니다
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		scans: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantdesk_scans_total",
				Help: "Total number of scans by outcome",
			},
			[]string{"outcome"},
		),
		toasts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantdesk_notifications_total",
				Help: "Total number of notifications by severity",
			},
			[]string{"severity"},
		),
		remoteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quantdesk_remote_request_duration_seconds",
				Help:    "Duration of analysis server calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 200},
			},
			[]string{"op"},
		),
		remoteErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantdesk_remote_errors_total",
				Help: "Total number of failed analysis server calls by kind",
			},
			[]string{"op", "kind"},
		),
		wsClients: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "quantdesk_ws_clients",
				Help: "Current number of connected view subscribers",
			},
		),
	}
}

// RecordScan은 스캔 결과를 기록합니다
func (r *Recorder) RecordScan(outcome string) {
	r.scans.WithLabelValues(outcome).Inc()
}

// RecordNotification은 알림 발생을 기록합니다
func (r *Recorder) RecordNotification(severity notification.Severity) {
	r.toasts.WithLabelValues(string(severity)).Inc()
}

// ObserveRemote는 원격 호출 시간과 실패 유형을 기록합니다
func (r *Recorder) ObserveRemote(op string, elapsed time.Duration, err error) {
	r.remoteDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	if err != nil {
		r.remoteErrors.WithLabelValues(op, domain.KindOf(err).String()).Inc()
	}
}

// ClientConnected는 구독자 수를 하나 늘립니다
func (r *Recorder) ClientConnected() {
	r.wsClients.Inc()
}

// ClientDisconnected는 구독자 수를 하나 줄입니다
func (r *Recorder) ClientDisconnected() {
	r.wsClients.Dec()
}

// Registry는 내부 레지스트리를 반환합니다
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler는 /metrics 용 HTTP 핸들러를 반환합니다
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
