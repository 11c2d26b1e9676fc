package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	toolCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness_mcp",
		Subsystem: "dispatch",
		Name:      "tool_calls_total",
		Help:      "Tool and resource invocations by name and outcome.",
	}, []string{"name", "outcome"})
	upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness_mcp",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Outbound API requests by provider and HTTP status (or transport_error).",
	}, []string{"provider", "status"})
	upstreamLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fitness_mcp",
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Latency of outbound API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider"})
)

func init() {
	prometheus.MustRegister(toolCalls, upstreamRequests, upstreamLatency)
}

// RecordToolCall counts one dispatch of a tool or resource.
func RecordToolCall(name string, failed bool) {
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	toolCalls.WithLabelValues(name, outcome).Inc()
}

// RecordUpstream counts one outbound request. A zero status means the
// request never produced a response.
func RecordUpstream(provider string, status int, took time.Duration) {
	label := "transport_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	upstreamRequests.WithLabelValues(provider, label).Inc()
	upstreamLatency.WithLabelValues(provider).Observe(took.Seconds())
}
