package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the handlers see; it keeps them decoupled from the
// Prometheus types.
type Recorder interface {
	RecordRegistration(role string)
	RecordLogin(success bool)
	RecordPasswordResetRequested()
	RecordPasswordResetCompleted()
	RecordAvatarUpload()
}

type Collector struct {
	registrations           *prometheus.CounterVec
	loginSuccess            prometheus.Counter
	loginFailure            prometheus.Counter
	passwordResetsRequested prometheus.Counter
	passwordResetsCompleted prometheus.Counter
	avatarUploads           prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coachhub_registrations_total",
			Help: "Accounts created, by role.",
		}, []string{"role"}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coachhub_login_success_total",
			Help: "Successful sign-ins.",
		}),
		loginFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coachhub_login_failure_total",
			Help: "Rejected sign-in attempts.",
		}),
		passwordResetsRequested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coachhub_password_resets_requested_total",
			Help: "Password reset emails requested.",
		}),
		passwordResetsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coachhub_password_resets_completed_total",
			Help: "Password resets completed.",
		}),
		avatarUploads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coachhub_avatar_uploads_total",
			Help: "Avatar images uploaded.",
		}),
	}

	reg.MustRegister(
		c.registrations,
		c.loginSuccess,
		c.loginFailure,
		c.passwordResetsRequested,
		c.passwordResetsCompleted,
		c.avatarUploads,
	)

	return c
}

func (c *Collector) RecordRegistration(role string) {
	c.registrations.WithLabelValues(role).Inc()
}

func (c *Collector) RecordLogin(success bool) {
	if success {
		c.loginSuccess.Inc()
		return
	}
	c.loginFailure.Inc()
}

func (c *Collector) RecordPasswordResetRequested() {
	c.passwordResetsRequested.Inc()
}

func (c *Collector) RecordPasswordResetCompleted() {
	c.passwordResetsCompleted.Inc()
}

func (c *Collector) RecordAvatarUpload() {
	c.avatarUploads.Inc()
}

// Handler returns the scrape endpoint for the given gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
