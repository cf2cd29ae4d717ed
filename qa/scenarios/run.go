package scenarios

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/rotation/app"
	"github.com/kilianp07/rotation/config"
	"github.com/kilianp07/rotation/core/history"
	"github.com/kilianp07/rotation/core/model"
	"github.com/kilianp07/rotation/core/rotation"
	"github.com/kilianp07/rotation/infra/logger"
	"github.com/kilianp07/rotation/infra/metrics"
	"github.com/kilianp07/rotation/infra/mqtt"
)

// Report summarises one scenario run.
type Report struct {
	Solved    int
	Unsat     int
	Invalid   int
	Published int
	// SolvesRecorded is the rotation_solves_total sum seen by Prometheus.
	SolvesRecorded float64
}

// RunScenario solves the scenario once per seed and fails t when an outcome
// differs from the expected one.
func RunScenario(t *testing.T, sc *Scenario) Report {
	t.Helper()
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry("qa", reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	pub := mqtt.NewMockPublisher()

	svc, err := app.New(&config.Config{},
		app.WithSink(sink),
		app.WithStore(history.NopStore{}),
		app.WithPublisher(pub),
		app.WithLogger(logger.NopLogger{}),
	)
	if err != nil {
		t.Fatalf("service: %v", err)
	}

	var rep Report
	for _, seed := range sc.Seeds {
		res, err := svc.Solve(context.Background(), app.Request{Team: sc.Team(), Seed: &seed, Publish: true})
		got := classify(err)
		switch got {
		case OutcomeSolved:
			rep.Solved++
			if err := checkSolution(res.Solution, sc.Expected); err != nil {
				t.Errorf("scenario %s seed %d: %v", sc.Name, seed, err)
			}
		case OutcomeUnsatisfiable:
			rep.Unsat++
		case OutcomeInvalidConfig:
			rep.Invalid++
		}
		if got != sc.Expected.Outcome {
			t.Errorf("scenario %s seed %d: expected %s, got %s (%v)", sc.Name, seed, sc.Expected.Outcome, got, err)
		}
	}
	if err := svc.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
	rep.Published = len(pub.Published())
	rep.SolvesRecorded = counterSum(t, reg, "qa_rotation_solves_total")
	return rep
}

func classify(err error) Outcome {
	var cfgErr *model.ConfigError
	switch {
	case err == nil:
		return OutcomeSolved
	case errors.As(err, &cfgErr):
		return OutcomeInvalidConfig
	case errors.Is(err, rotation.ErrUnsatisfiable):
		return OutcomeUnsatisfiable
	default:
		return Outcome(err.Error())
	}
}

func checkSolution(sol *rotation.Solution, want Expected) error {
	for p, n := range sol.PeriodCounts() {
		if n != sol.Constraints.TeamSize {
			return fmt.Errorf("period %d fields %d players", p, n)
		}
	}
	for _, pm := range sol.Players {
		if !pm.Valid {
			return fmt.Errorf("player %s fails the policy limits", pm.Name)
		}
	}
	if len(want.UnknownNames) > 0 && fmt.Sprint(want.UnknownNames) != fmt.Sprint(sol.UnknownNames) {
		return fmt.Errorf("unknown names %v, want %v", sol.UnknownNames, want.UnknownNames)
	}
	return nil
}

func counterSum(t *testing.T, g prometheus.Gatherer, name string) float64 {
	t.Helper()
	mfs, err := g.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var sum float64
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
	}
	return sum
}
