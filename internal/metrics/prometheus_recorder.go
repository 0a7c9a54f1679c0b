package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "aboutme"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	httpDuration  *prom.HistogramVec
	httpRequests  *prom.CounterVec
	configUpdates *prom.CounterVec
	authAttempts  *prom.CounterVec
	documentValid prom.Gauge
	linkDuration  prom.Histogram
	linksChecked  prom.Gauge
	linksBroken   prom.Gauge
	notifications *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		httpDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prom.DefBuckets,
		}, []string{"route", "method"}),
		httpRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code",
		}, []string{"route", "method", "code"}),
		configUpdates: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "config_updates_total",
			Help:      "Config update attempts by terminal state",
		}, []string{"outcome"}),
		authAttempts: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Admin secret checks by result",
		}, []string{"result"}),
		documentValid: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "document_valid",
			Help:      "1 when the stored document parsed on the last observation, else 0",
		}),
		linkDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "link_check_duration_seconds",
			Help:      "Duration of a full link check run",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		linksChecked: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "links_checked",
			Help:      "Links checked by the last run",
		}),
		linksBroken: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "links_broken",
			Help:      "Broken links found by the last run",
		}),
		notifications: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Published notifications by kind and result",
		}, []string{"kind", "result"}),
	}
	reg.MustRegister(pr.httpDuration, pr.httpRequests, pr.configUpdates, pr.authAttempts,
		pr.documentValid, pr.linkDuration, pr.linksChecked, pr.linksBroken, pr.notifications)
	return pr
}

func (p *PrometheusRecorder) ObserveHTTPRequest(route, method string, status int, d time.Duration) {
	if p == nil {
		return
	}
	p.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
	p.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

func (p *PrometheusRecorder) IncConfigUpdate(outcome UpdateOutcome) {
	if p == nil {
		return
	}
	p.configUpdates.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncAuthAttempt(valid bool) {
	if p == nil {
		return
	}
	p.authAttempts.WithLabelValues(string(resultOf(valid))).Inc()
}

func (p *PrometheusRecorder) SetDocumentValid(valid bool) {
	if p == nil {
		return
	}
	v := 0.0
	if valid {
		v = 1
	}
	p.documentValid.Set(v)
}

func (p *PrometheusRecorder) ObserveLinkCheck(d time.Duration, checked, broken int) {
	if p == nil {
		return
	}
	p.linkDuration.Observe(d.Seconds())
	p.linksChecked.Set(float64(checked))
	p.linksBroken.Set(float64(broken))
}

func (p *PrometheusRecorder) IncNotifyPublish(kind string, result ResultLabel) {
	if p == nil {
		return
	}
	p.notifications.WithLabelValues(kind, string(result)).Inc()
}
