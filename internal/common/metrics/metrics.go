// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_chat_requests_total",
			Help: "Total number of AI chat requests by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	ChatDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "console_chat_duration_seconds",
			Help: "Duration of AI chat calls in seconds",
		},
		[]string{"provider"},
	)

	ChatTokensUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_chat_tokens_used_total",
			Help: "Total tokens reported by providers",
		},
		[]string{"provider"},
	)

	WizardStarts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_wizard_starts_total",
			Help: "Total number of wizard sessions started by command",
		},
		[]string{"command"},
	)

	WizardCompletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_wizard_completions_total",
			Help: "Total number of wizards that reached execute",
		},
		[]string{"command"},
	)

	WizardCancellations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_wizard_cancellations_total",
			Help: "Total number of wizards cancelled mid-flight",
		},
		[]string{"command"},
	)

	WizardValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_wizard_validation_failures_total",
			Help: "Total number of rejected step inputs by command and step",
		},
		[]string{"command", "step"},
	)
)
