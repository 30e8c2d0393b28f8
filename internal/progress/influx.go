package progress

import (
	"context"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// InfluxSink writes each progress event as a point in a time-series
// bucket, for runs long enough that a dashboard over enumeration/pass
// rate over time is worth the dependency.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	measure  string
}

// NewInfluxSink opens a non-blocking write API against an InfluxDB
// server. Close flushes pending points before disconnecting.
func NewInfluxSink(serverURL, authToken, org, bucket string) *InfluxSink {
	client := influxdb2.NewClient(serverURL, authToken)
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPI(org, bucket),
		measure:  "synth_light_progress",
	}
}

func (s *InfluxSink) Report(_ context.Context, ev Event) {
	p := influxdb2.NewPoint(s.measure,
		map[string]string{"last_outcome": ev.LastOutcome},
		map[string]interface{}{
			"enumerated":       ev.EnumeratedCount,
			"survived_filters": ev.SurvivedFilters,
			"verified":         ev.VerifiedCount,
			"passed":           ev.PassedCount,
			"last_code":        ev.LastCode,
		},
		time.Now(),
	)
	s.writeAPI.WritePoint(p)
}

func (s *InfluxSink) Close() error {
	s.writeAPI.Flush()
	s.client.Close()
	return nil
}

// Errors surfaces asynchronous write errors from the underlying
// non-blocking API, for callers that want to log them.
func (s *InfluxSink) Errors() <-chan error {
	return s.writeAPI.Errors()
}
