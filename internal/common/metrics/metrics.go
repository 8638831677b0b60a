// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FlowsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_flows_completed_total",
			Help: "Total number of user flows completed, by outcome",
		},
		[]string{"flow", "outcome"},
	)

	FlowDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "insights_flow_duration_seconds",
			Help: "Duration of a user flow from click to rendered outcome",
		},
		[]string{"flow"},
	)

	FlowsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "insights_flows_active",
			Help: "Number of flows currently waiting on the backend",
		},
		[]string{"flow"},
	)

	ClicksIgnored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_clicks_ignored_total",
			Help: "Clicks dropped because the control was busy",
		},
		[]string{"flow"},
	)
)
