package progress

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestPrometheusSinkAccumulatesCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Enumerated: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "enumerated"}, []string{"scheduler", "light_class"}),
		Filtered:   prometheus.NewCounterVec(prometheus.CounterOpts{Name: "filtered"}, []string{"scheduler", "light_class"}),
		Verified:   prometheus.NewCounterVec(prometheus.CounterOpts{Name: "verified"}, []string{"scheduler", "light_class"}),
		Passed:     prometheus.NewCounterVec(prometheus.CounterOpts{Name: "passed"}, []string{"scheduler", "light_class"}),
		LastVerify: prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "last_verify"}, []string{"scheduler", "light_class"}),
	}
	reg.MustRegister(m.Enumerated, m.Filtered, m.Verified, m.Passed, m.LastVerify)

	sink := NewPrometheusSink(m, "async", "FULL")
	sink.Report(context.Background(), Event{EnumeratedCount: 3, SurvivedFilters: 2, VerifiedCount: 1, PassedCount: 1})
	sink.Report(context.Background(), Event{EnumeratedCount: 5})

	var metric dto.Metric
	require.NoError(t, m.Enumerated.With(prometheus.Labels{"scheduler": "async", "light_class": "FULL"}).Write(&metric))
	require.Equal(t, float64(8), metric.GetCounter().GetValue())
}

func TestRateLimitedDropsExcessEvents(t *testing.T) {
	var calls int64
	counting := sinkFunc(func(context.Context, Event) { atomic.AddInt64(&calls, 1) })
	limited := NewRateLimited(counting, 1) // 1 event/sec, burst 1

	for i := 0; i < 5; i++ {
		limited.Report(context.Background(), Event{})
	}
	require.LessOrEqual(t, atomic.LoadInt64(&calls), int64(2))
}

func TestMultiFansOutToAllSinks(t *testing.T) {
	var a, b int64
	s1 := sinkFunc(func(context.Context, Event) { atomic.AddInt64(&a, 1) })
	s2 := sinkFunc(func(context.Context, Event) { atomic.AddInt64(&b, 1) })
	m := Multi{s1, s2}
	m.Report(context.Background(), Event{})
	require.Equal(t, int64(1), atomic.LoadInt64(&a))
	require.Equal(t, int64(1), atomic.LoadInt64(&b))
	require.NoError(t, m.Close())
}

func TestWebsocketSinkBroadcastsJSON(t *testing.T) {
	sink := NewWebsocketSink()
	defer sink.Close()
	srv := httptest.NewServer(sink.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the server goroutine a moment to register the connection.
	time.Sleep(20 * time.Millisecond)
	sink.Report(context.Background(), Event{EnumeratedCount: 42, LastCode: "x__y"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(data, &ev))
	require.Equal(t, int64(42), ev.EnumeratedCount)
	require.Equal(t, "x__y", ev.LastCode)
}

// sinkFunc adapts a plain function to the Sink interface for tests.
type sinkFunc func(context.Context, Event)

func (f sinkFunc) Report(ctx context.Context, ev Event) { f(ctx, ev) }
func (f sinkFunc) Close() error                         { return nil }
