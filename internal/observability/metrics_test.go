package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordToolCall(t *testing.T) {
	before := testutil.ToFloat64(toolCalls.WithLabelValues("metrics_test_tool", "error"))
	RecordToolCall("metrics_test_tool", true)
	RecordToolCall("metrics_test_tool", false)
	assert.Equal(t, before+1, testutil.ToFloat64(toolCalls.WithLabelValues("metrics_test_tool", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(toolCalls.WithLabelValues("metrics_test_tool", "ok")))
}

func TestRecordUpstreamLabels(t *testing.T) {
	RecordUpstream("metrics_test", 404, 10*time.Millisecond)
	RecordUpstream("metrics_test", 0, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(upstreamRequests.WithLabelValues("metrics_test", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(upstreamRequests.WithLabelValues("metrics_test", "transport_error")))
}
