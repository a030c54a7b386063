package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github/pubterm/terminal-agent/internal/terminal"
)

var postOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "terminal_agent_post_outcomes_total",
	Help: "Posting pipeline outcomes by variant and result kind.",
}, []string{"variant", "outcome"})

// RecordPostOutcome counts one finished posting pipeline run.
func RecordPostOutcome(variant terminal.Variant, result terminal.PostResult) {
	outcome := "success"
	if !result.Success {
		outcome = string(result.ErrorKind)
	}

	postOutcomes.WithLabelValues(string(variant), outcome).Inc()
}
