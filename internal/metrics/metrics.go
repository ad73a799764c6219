// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/biluochun/biluochun/internal/apperror"
)

// Label values of TeamEventsTotal.
const (
	EventCreate = "create"
	EventJoin   = "join"
	EventLeave  = "leave"
	EventRotate = "rotate"
	EventUpdate = "update"
	EventAssign = "assign"
)

// Label values for results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultDenied  = "denied"
	ResultInvalid = "invalid"
)

// Label values of ImageUploadsTotal kind.
const (
	KindAvatar   = "avatar"
	KindTeamIcon = "team_icon"
)

// Metrics holds the collectors on a private registry.
// The /metrics handler also serves the default registry, which carries the go and process
// collectors and the log statement counter.
type Metrics struct {
	registry *prometheus.Registry

	LoginsTotal       *prometheus.CounterVec
	TeamEventsTotal   *prometheus.CounterVec
	ImageUploadsTotal *prometheus.CounterVec
	ServerStartTime   prometheus.Gauge
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		LoginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biluochun_logins_total",
			Help: "Total number of single sign-on logins.",
		}, []string{"result"}),

		TeamEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biluochun_team_events_total",
			Help: "Total number of successful team membership changes.",
		}, []string{"event"}),

		ImageUploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biluochun_image_uploads_total",
			Help: "Total number of image uploads.",
		}, []string{"kind", "result"}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "biluochun_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	reg.MustRegister(
		m.LoginsTotal,
		m.TeamEventsTotal,
		m.ImageUploadsTotal,
		m.ServerStartTime,
	)

	m.ServerStartTime.Set(float64(time.Now().Unix()))

	return m
}

// Registry returns the private prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDBStats exposes the connection pool stats of the database.
func (m *Metrics) RegisterDBStats(db *sql.DB, name string) {
	m.registry.MustRegister(collectors.NewDBStatsCollector(db, name))
}

// Handler serves the private and the default registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(
		prometheus.Gatherers{m.registry, prometheus.DefaultGatherer},
		promhttp.HandlerOpts{},
	)
}

// IncLogin counts a login attempt.
func (m *Metrics) IncLogin(result string) {
	if m == nil {
		return
	}

	m.LoginsTotal.WithLabelValues(result).Inc()
}

// IncTeamEvent counts a successful membership change.
func (m *Metrics) IncTeamEvent(event string) {
	if m == nil {
		return
	}

	m.TeamEventsTotal.WithLabelValues(event).Inc()
}

// IncImageUpload counts an image upload.
func (m *Metrics) IncImageUpload(kind, result string) {
	if m == nil {
		return
	}

	m.ImageUploadsTotal.WithLabelValues(kind, result).Inc()
}

// ResultOf maps the outcome of an operation to a result label.
func ResultOf(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, apperror.ErrValidation):
		return ResultInvalid
	case errors.Is(err, apperror.ErrForbidden), errors.Is(err, apperror.ErrUnauthorized):
		return ResultDenied
	default:
		return ResultFailure
	}
}
