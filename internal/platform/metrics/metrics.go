package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the registration pipeline.
type Metrics struct {
	RegistrationsCreated  prometheus.Counter
	RegistrationConflicts prometheus.Counter
	MessagesProduced      *prometheus.CounterVec
	MessagesConsumed      *prometheus.CounterVec
	MessagesDeadLettered  *prometheus.CounterVec
	BadgesGenerated       prometheus.Counter
	BadgesFailed          prometheus.Counter
	LettersGenerated      prometheus.Counter
	LettersFailed         prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RegistrationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "waangu_registrations_created_total",
			Help: "Total number of registrations created",
		}),
		RegistrationConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "waangu_registration_conflicts_total",
			Help: "Total number of duplicate registration attempts rejected",
		}),
		MessagesProduced: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "waangu_bus_messages_produced_total",
			Help: "Messages produced to the bus by topic",
		}, []string{"topic"}),
		MessagesConsumed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "waangu_bus_messages_consumed_total",
			Help: "Messages consumed from the bus by topic",
		}, []string{"topic"}),
		MessagesDeadLettered: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "waangu_bus_messages_dead_lettered_total",
			Help: "Messages forwarded to a dead-letter topic by origin topic",
		}, []string{"topic"}),
		BadgesGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "waangu_badges_generated_total",
			Help: "Badge PDFs generated and stored",
		}),
		BadgesFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "waangu_badges_failed_total",
			Help: "Badge generation sagas that failed",
		}),
		LettersGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "waangu_invitation_letters_generated_total",
			Help: "Invitation letter PDFs generated and stored",
		}),
		LettersFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "waangu_invitation_letters_failed_total",
			Help: "Invitation letter sagas that failed",
		}),
	}
}
