package metrics

import (
	"context"
	"time"

	"github.com/kilianp07/rotation/core/events"
	coremetrics "github.com/kilianp07/rotation/core/metrics"
	"github.com/kilianp07/rotation/infra/logger"
	"github.com/kilianp07/rotation/internal/eventbus"
)

// StartEventCollector subscribes to the bus and records attempt and solve
// events on sink until ctx is canceled or the bus is closed. The returned
// channel is closed once the collector has stopped.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	log := logger.New("metrics-collector")
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := collect(ev, sink); err != nil {
					log.Warnf("record %T: %v", ev, err)
				}
			}
		}
	}()
	return done
}

func collect(ev eventbus.Event, sink coremetrics.MetricsSink) error {
	now := time.Now()
	switch e := ev.(type) {
	case events.AttemptEvent:
		r, ok := sink.(coremetrics.AttemptRecorder)
		if !ok {
			return nil
		}
		return r.RecordAttempt(coremetrics.AttemptResult{
			SolveID:    e.SolveID,
			Policy:     e.Policy,
			Attempt:    e.Attempt,
			Outcome:    e.Outcome,
			Period:     e.Period,
			Violations: e.Violations,
			Time:       now,
		})
	case events.SolveEvent:
		at := e.Time
		if at.IsZero() {
			at = now
		}
		if err := sink.RecordSolve(coremetrics.SolveResult{
			SolveID:  e.SolveID,
			Policy:   e.Policy,
			Solved:   e.Solved,
			Attempts: e.Attempts,
			Duration: e.Duration,
			Spread:   e.Spread,
			StdDev:   e.StdDev,
			Time:     at,
		}); err != nil {
			return err
		}
		r, ok := sink.(coremetrics.PlayerMinutesRecorder)
		if !ok || !e.Solved {
			return nil
		}
		mins := make([]coremetrics.PlayerMinutes, len(e.Players))
		for i, p := range e.Players {
			mins[i] = coremetrics.PlayerMinutes{
				SolveID:  e.SolveID,
				Policy:   e.Policy,
				Player:   p.Name,
				Position: p.Position,
				Total:    p.Total,
				Half1:    p.Half1,
				Half2:    p.Half2,
				Time:     at,
			}
		}
		return r.RecordPlayerMinutes(mins)
	}
	return nil
}
