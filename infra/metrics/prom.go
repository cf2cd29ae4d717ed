package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/rotation/core/metrics"
)

// PromSink exposes solve outcomes as Prometheus metrics.
type PromSink struct {
	solves   *prometheus.CounterVec
	attempts *prometheus.CounterVec
	perSolve *prometheus.HistogramVec
	duration *prometheus.HistogramVec
	spread   *prometheus.GaugeVec
	minutes  *prometheus.GaugeVec
}

// NewPromSink registers the rotation metrics on the default registerer.
func NewPromSink(namespace string) (*PromSink, error) {
	return NewPromSinkWithRegistry(namespace, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers the rotation metrics on reg. Metrics
// already registered by an earlier sink are reused. A nil registerer
// defaults to the global one.
func NewPromSinkWithRegistry(namespace string, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rotation_solves_total",
			Help:      "Total number of solve requests",
		}, []string{"policy", "solved"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rotation_attempts_total",
			Help:      "Total number of solver attempts by outcome",
		}, []string{"policy", "outcome"}),
		perSolve: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rotation_attempts_per_solve",
			Help:      "Attempts used by each solve",
			Buckets:   []float64{1, 2, 3, 5, 10, 20, 50},
		}, []string{"policy"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rotation_solve_duration_seconds",
			Help:      "Wall time of each solve",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"policy"}),
		spread: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rotation_minutes_spread",
			Help:      "Spread of total minutes in the last accepted rotation",
		}, []string{"policy"}),
		minutes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rotation_player_minutes",
			Help:      "Minutes per player in the last accepted rotation",
		}, []string{"player", "half"}),
	}
	var err error
	if s.solves, err = register(reg, s.solves); err != nil {
		return nil, err
	}
	if s.attempts, err = register(reg, s.attempts); err != nil {
		return nil, err
	}
	if s.perSolve, err = register(reg, s.perSolve); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.spread, err = register(reg, s.spread); err != nil {
		return nil, err
	}
	if s.minutes, err = register(reg, s.minutes); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSolve counts the solve and, when it succeeded, observes its cost.
func (s *PromSink) RecordSolve(res coremetrics.SolveResult) error {
	policy := string(res.Policy)
	s.solves.WithLabelValues(policy, strconv.FormatBool(res.Solved)).Inc()
	s.perSolve.WithLabelValues(policy).Observe(float64(res.Attempts))
	s.duration.WithLabelValues(policy).Observe(res.Duration.Seconds())
	if res.Solved {
		s.spread.WithLabelValues(policy).Set(float64(res.Spread))
	}
	return nil
}

// RecordAttempt counts attempts by outcome.
func (s *PromSink) RecordAttempt(res coremetrics.AttemptResult) error {
	s.attempts.WithLabelValues(string(res.Policy), res.Outcome).Inc()
	return nil
}

// RecordPlayerMinutes replaces the per-player gauges with the latest rotation.
func (s *PromSink) RecordPlayerMinutes(mins []coremetrics.PlayerMinutes) error {
	s.minutes.Reset()
	for _, m := range mins {
		s.minutes.WithLabelValues(m.Player, "total").Set(float64(m.Total))
		s.minutes.WithLabelValues(m.Player, "1").Set(float64(m.Half1))
		s.minutes.WithLabelValues(m.Player, "2").Set(float64(m.Half2))
	}
	return nil
}
