package terminal

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-insights/internal/common/config"
	"customer-insights/internal/common/logger"
	"customer-insights/internal/controller"
	recommendation "customer-insights/internal/flows/recommendation"
	segmentlookup "customer-insights/internal/flows/segment-lookup"
	"customer-insights/internal/view"
)

// ==========================
// Test Helper Functions
// ==========================

func newBackend(t *testing.T) *httptest.Server {
	return newGatedBackend(t, nil)
}

// newGatedBackend holds requests for customer 7 until gate is closed.
func newGatedBackend(t *testing.T, gate chan struct{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.EscapedPath() {
		case "/customer/42":
			_, _ = w.Write([]byte(`{"customer_id": 42, "segment": "Champions"}`))
		case "/customer/7":
			<-gate
			_, _ = w.Write([]byte(`{"customer_id": 7, "segment": "Hibernating"}`))
		case "/customer/404":
			w.WriteHeader(http.StatusNotFound)
		case "/recommend/Milk%20Powder":
			_, _ = w.Write([]byte(`{"input_product": "Milk Powder", "recommendations": [
				{"product": "Sugar", "confidence_score": 2.10}
			]}`))
		case "/recommend/Rare":
			_, _ = w.Write([]byte(`{"message": "No recommendations found"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// syncBuffer lets a test read output while flows are still writing it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newConsole(t *testing.T, baseURL string, in io.Reader) (*Console, *syncBuffer) {
	t.Helper()
	log := logger.NewTestLogger(t)
	api := config.APIConfig{BaseURL: baseURL}
	out := &syncBuffer{}
	v := NewView(out)
	ctrl := controller.New(
		segmentlookup.NewHandler(segmentlookup.LoadConfig(api), nil, log),
		recommendation.NewHandler(recommendation.LoadConfig(api), nil, log),
		v, log,
	)
	return NewConsole(ctrl, v, in, log), out
}

// blockingFlow holds the segment control busy until release is closed.
type blockingFlow struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (f *blockingFlow) Handle(_ context.Context, v view.View, _ string) error {
	v.SetBusy(view.ControlSegment, true)
	defer v.SetBusy(view.ControlSegment, false)
	if f.calls.Add(1) == 1 {
		close(f.started)
	}
	<-f.release
	return nil
}

// ==========================
// Command Tests
// ==========================

func TestConsole_Segment(t *testing.T) {
	srv := newBackend(t)
	console, out := newConsole(t, srv.URL, strings.NewReader("segment 42\n"))

	require.NoError(t, console.Run(context.Background()))

	assert.Contains(t, out.String(), "[Get Segment] Analyzing...")
	assert.Contains(t, out.String(), "Segment: Champions")
	assert.False(t, console.view.Button(view.ControlSegment).Disabled())
	assert.Equal(t, view.LabelSegment, console.view.Button(view.ControlSegment).Label())
}

func TestConsole_SegmentNotFound(t *testing.T) {
	srv := newBackend(t)
	console, out := newConsole(t, srv.URL, strings.NewReader("segment 404\n"))

	require.NoError(t, console.Run(context.Background()))

	assert.Contains(t, out.String(), "! Customer not found")
	assert.NotContains(t, out.String(), "Segment:")
}

func TestConsole_Recommend(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"recommendations", "recommend Milk Powder\n", "1. Sugar  Confidence (Lift): 2.10"},
		{"informational", "recommend Rare\n", "  No recommendations found\n"},
	}

	srv := newBackend(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			console, out := newConsole(t, srv.URL, strings.NewReader(tt.input))

			require.NoError(t, console.Run(context.Background()))

			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestConsole_RepeatedCommandWhileBusy(t *testing.T) {
	gate := make(chan struct{})
	srv := newGatedBackend(t, gate)
	console, out := newConsole(t, srv.URL, strings.NewReader("segment 7\nsegment 7\n"))

	finished := make(chan error, 1)
	go func() { finished <- console.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Get Segment is busy, please wait")
	}, 5*time.Second, 10*time.Millisecond)

	close(gate)
	select {
	case err := <-finished:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("console did not finish")
	}

	assert.Equal(t, 1, strings.Count(out.String(), "Segment: Hibernating"))
	assert.Equal(t, 1, strings.Count(out.String(), "[Get Segment] Analyzing..."))
}

func TestConsole_RecommendFailure(t *testing.T) {
	srv := newBackend(t)
	console, out := newConsole(t, srv.URL, strings.NewReader("recommend Anything\n"))

	require.NoError(t, console.Run(context.Background()))

	assert.Contains(t, out.String(), "! Failed to fetch recommendations")
}

func TestConsole_BlankArgumentDoesNothing(t *testing.T) {
	srv := newBackend(t)
	console, out := newConsole(t, srv.URL, strings.NewReader("segment   \nrecommend\n"))

	require.NoError(t, console.Run(context.Background()))

	assert.Empty(t, out.String())
}

func TestConsole_HelpAndUnknown(t *testing.T) {
	srv := newBackend(t)
	console, out := newConsole(t, srv.URL, strings.NewReader("help\nfrobnicate\nquit\nsegment 42\n"))

	require.NoError(t, console.Run(context.Background()))

	assert.Contains(t, out.String(), "recommend <product name>")
	assert.Contains(t, out.String(), `unknown command "frobnicate"`)
	assert.NotContains(t, out.String(), "Champions")
}

func TestConsole_IgnoresClickWhileBusy(t *testing.T) {
	flow := &blockingFlow{started: make(chan struct{}), release: make(chan struct{})}
	log := logger.NewTestLogger(t)
	out := &bytes.Buffer{}
	v := NewView(out)
	ctrl := controller.New(flow, flow, v, log)

	pr, pw := io.Pipe()
	console := NewConsole(ctrl, v, pr, log)

	finished := make(chan error, 1)
	go func() { finished <- console.Run(context.Background()) }()

	_, err := io.WriteString(pw, "segment 1\n")
	require.NoError(t, err)
	select {
	case <-flow.started:
	case <-time.After(5 * time.Second):
		t.Fatal("flow did not start")
	}

	_, err = io.WriteString(pw, "segment 2\n")
	require.NoError(t, err)
	// the scanner only asks for more input after it has handled the previous line
	_, err = io.WriteString(pw, "\n")
	require.NoError(t, err)
	require.NoError(t, pw.Close())

	close(flow.release)
	select {
	case err := <-finished:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("console did not finish")
	}

	assert.EqualValues(t, 1, flow.calls.Load())
	assert.Contains(t, out.String(), "Get Segment is busy, please wait")
}

// ==========================
// View Tests
// ==========================

func TestView_ListNumbersOnlyRecommendations(t *testing.T) {
	out := &bytes.Buffer{}
	v := NewView(out)

	v.ShowListResult(view.RegionRecommend, []view.Entry{
		{Text: "B", Score: "1.5"},
		{Text: "C", Score: "0.75"},
	})

	assert.Equal(t,
		"Recommendations:\n  1. B  Confidence (Lift): 1.5\n  2. C  Confidence (Lift): 0.75\n",
		out.String())
}

func TestView_BusyLabel(t *testing.T) {
	out := &bytes.Buffer{}
	v := NewView(out)

	v.SetBusy(view.ControlRecommend, true)
	assert.True(t, v.Button(view.ControlRecommend).Disabled())
	v.SetBusy(view.ControlRecommend, false)

	assert.Equal(t, "[Get Recommendations] Analyzing...\n", out.String())
	assert.Equal(t, view.LabelRecommend, v.Button(view.ControlRecommend).Label())
}
