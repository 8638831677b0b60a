package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "transport_error", statusClass(0))
	assert.Equal(t, "2xx", statusClass(200))
	assert.Equal(t, "4xx", statusClass(404))
	assert.Equal(t, "5xx", statusClass(503))
}

func TestRecordRequest_Exported(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := New("insights-test", reg)
	defer obs.Shutdown()

	obs.RecordRequest(context.Background(), "/customer/{id}", 404, 12*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	// names must not need escaping in any exposition format
	for _, name := range names {
		assert.NotContains(t, name, ".")
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "backend_requests_total")
	assert.Contains(t, joined, "backend_request_duration")
}

func TestNilObservability_NoOp(t *testing.T) {
	var obs *Observability
	assert.NotPanics(t, func() {
		obs.RecordRequest(context.Background(), "/", 200, time.Millisecond)
		obs.Shutdown()
	})
}
