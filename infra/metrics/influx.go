package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/rotation/core/metrics"
	"github.com/kilianp07/rotation/infra/logger"
)

const influxTimeout = 5 * time.Second

// InfluxSink writes solve outcomes to an InfluxDB bucket.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// InfluxConfig locates the bucket written by InfluxSink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// NewInfluxSink creates a sink for the given endpoint. A URL pointing at the
// write endpoint is accepted.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: influxTimeout}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback checks the instance health and returns a NopSink
// when it is unreachable or unhealthy.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), influxTimeout)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

// RecordSolve writes a rotation_solve point.
func (s *InfluxSink) RecordSolve(res coremetrics.SolveResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), influxTimeout)
	defer cancel()
	p := write.NewPointWithMeasurement("rotation_solve").
		AddTag("solve_id", res.SolveID).
		AddTag("policy", string(res.Policy)).
		AddTag("solved", strconv.FormatBool(res.Solved)).
		AddField("attempts", res.Attempts).
		AddField("duration_ms", round3(res.Duration.Seconds()*1000)).
		AddField("spread", res.Spread).
		AddField("std_dev", round3(res.StdDev)).
		SetTime(res.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordAttempt writes a rotation_attempt point.
func (s *InfluxSink) RecordAttempt(res coremetrics.AttemptResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), influxTimeout)
	defer cancel()
	p := write.NewPointWithMeasurement("rotation_attempt").
		AddTag("solve_id", res.SolveID).
		AddTag("policy", string(res.Policy)).
		AddTag("outcome", res.Outcome).
		AddField("attempt", res.Attempt).
		AddField("period", res.Period).
		AddField("violations", res.Violations).
		SetTime(res.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordPlayerMinutes writes one player_minutes point per player.
func (s *InfluxSink) RecordPlayerMinutes(mins []coremetrics.PlayerMinutes) error {
	ctx, cancel := context.WithTimeout(context.Background(), influxTimeout)
	defer cancel()
	points := make([]*write.Point, 0, len(mins))
	for _, m := range mins {
		points = append(points, write.NewPointWithMeasurement("player_minutes").
			AddTag("solve_id", m.SolveID).
			AddTag("policy", string(m.Policy)).
			AddTag("player", m.Player).
			AddTag("position", string(m.Position)).
			AddField("total", m.Total).
			AddField("half1", m.Half1).
			AddField("half2", m.Half2).
			SetTime(m.Time))
	}
	if len(points) == 0 {
		return nil
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
