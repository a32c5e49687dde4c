// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface handlers use to record business events.
type Recorder interface {
	RecordSignup()
	RecordLogin()
	RecordLoginFailure()
	RecordPasswordReset()
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector implements Recorder on top of Prometheus counters.
type Collector struct {
	signups        prometheus.Counter
	logins         prometheus.Counter
	loginFailures  prometheus.Counter
	passwordResets prometheus.Counter
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_signups_total",
			Help: "Total number of accounts created.",
		}),
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_logins_total",
			Help: "Total number of successful logins.",
		}),
		loginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_login_failures_total",
			Help: "Total number of rejected login attempts.",
		}),
		passwordResets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_password_resets_total",
			Help: "Total number of password reset requests.",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_http_status_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pos_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.signups,
		c.logins,
		c.loginFailures,
		c.passwordResets,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

func (c *Collector) RecordSignup()        { c.signups.Inc() }
func (c *Collector) RecordLogin()         { c.logins.Inc() }
func (c *Collector) RecordLoginFailure()  { c.loginFailures.Inc() }
func (c *Collector) RecordPasswordReset() { c.passwordResets.Inc() }

func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records status code and latency for every request.
func Middleware(rec Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			rec.RecordHTTPStatus(sw.status)
			rec.RecordRequestLatency(time.Since(start))
		})
	}
}
