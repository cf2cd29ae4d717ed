package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/rotation/config"
	"github.com/kilianp07/rotation/core/events"
	"github.com/kilianp07/rotation/core/history"
	coremetrics "github.com/kilianp07/rotation/core/metrics"
	"github.com/kilianp07/rotation/core/model"
	coremon "github.com/kilianp07/rotation/core/monitoring"
	coremqtt "github.com/kilianp07/rotation/core/mqtt"
	"github.com/kilianp07/rotation/core/rotation"
	"github.com/kilianp07/rotation/infra/logger"
	"github.com/kilianp07/rotation/infra/metrics"
	"github.com/kilianp07/rotation/infra/mqtt"
	"github.com/kilianp07/rotation/internal/eventbus"
)

// Request describes one solve.
type Request struct {
	Team model.Team
	// Policy overrides Team.Constraints.Policy when set.
	Policy model.PolicyName
	// Seed makes the solve reproducible. A nil seed draws a random one.
	Seed *uint64
	// Publish sends an accepted rotation to the MQTT broker.
	Publish bool
}

// Result is the outcome of a successful solve.
type Result struct {
	ID        string
	Seed      uint64
	Solution  *rotation.Solution
	Duration  time.Duration
	Published bool
}

// Service runs solves and fans their outcome out to the event bus, the
// history store and the MQTT publisher.
type Service struct {
	cfg       *config.Config
	bus       eventbus.EventBus
	sink      coremetrics.MetricsSink
	store     history.Store
	publisher coremqtt.Publisher
	log       logger.Logger

	stopCollector context.CancelFunc
	collectorDone <-chan struct{}

	now   func() time.Time
	newID func() string
}

// Option replaces a dependency New would otherwise build from the
// configuration.
type Option func(*Service)

// WithStore sets the history store.
func WithStore(s history.Store) Option { return func(svc *Service) { svc.store = s } }

// WithPublisher sets the MQTT publisher.
func WithPublisher(p coremqtt.Publisher) Option { return func(svc *Service) { svc.publisher = p } }

// WithSink sets the metrics sink fed by the event collector.
func WithSink(s coremetrics.MetricsSink) Option { return func(svc *Service) { svc.sink = s } }

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option { return func(svc *Service) { svc.log = l } }

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option { return func(svc *Service) { svc.now = now } }

// WithIDGenerator sets the solve ID generator.
func WithIDGenerator(f func() string) Option { return func(svc *Service) { svc.newID = f } }

// New creates a Service from the configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	svc := &Service{cfg: cfg, now: time.Now, newID: uuid.NewString}
	for _, o := range opts {
		o(svc)
	}
	if svc.log == nil {
		svc.log = logger.New("service")
	}
	if svc.sink == nil {
		sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
		if err != nil {
			return nil, fmt.Errorf("metrics sink: %w", err)
		}
		svc.sink = sink
	}
	if svc.store == nil {
		store, err := history.NewStore(cfg.History)
		if err != nil {
			return nil, fmt.Errorf("history store: %w", err)
		}
		svc.store = store
	}
	if svc.publisher == nil && cfg.MQTTEnabled() {
		pub, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			_ = svc.store.Close()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.publisher = pub
	}

	svc.bus = eventbus.New()
	ctx, cancel := context.WithCancel(context.Background())
	svc.stopCollector = cancel
	svc.collectorDone = metrics.StartEventCollector(ctx, svc.bus, svc.sink)
	return svc, nil
}

// Solve plans a rotation for req. An unsatisfiable solve is recorded in
// the history before its error is returned; a configuration error is
// returned as is. Failures of the history store or the publisher are
// logged and reported but never fail a solve.
func (s *Service) Solve(ctx context.Context, req Request) (*Result, error) {
	team := req.Team
	if req.Policy != "" {
		team.Constraints.Policy = req.Policy
	}
	team.Constraints.SetDefaults()

	seed := rand.Uint64()
	if req.Seed != nil {
		seed = *req.Seed
	}
	id := s.newID()
	solver := rotation.NewSeededSolver(seed,
		rotation.WithLogger(s.log),
		rotation.WithEventBus(s.bus),
		rotation.WithSolveID(id),
	)

	start := s.now()
	sol, err := solver.Solve(team.Players, team.Constraints)
	elapsed := s.now().Sub(start)

	var cfgErr *model.ConfigError
	if errors.As(err, &cfgErr) {
		return nil, err
	}

	rec := history.Record{
		ID:        id,
		Timestamp: start,
		Policy:    team.Constraints.Policy,
		Seed:      seed,
		Solved:    err == nil,
		Team:      team,
		Solution:  sol,
	}
	ev := events.SolveEvent{SolveID: id, Policy: team.Constraints.Policy, Solved: err == nil, Duration: elapsed, Time: start}
	var unsat *rotation.UnsatisfiableError
	switch {
	case err == nil:
		rec.Attempts = sol.Attempts
		ev.Attempts = sol.Attempts
		ev.Spread = sol.Summary.Spread
		ev.StdDev = sol.Summary.StdDev
		ev.Players = shares(sol)
	case errors.As(err, &unsat):
		rec.Attempts = unsat.Attempts
		rec.Error = err.Error()
		ev.Attempts = unsat.Attempts
	default:
		return nil, err
	}
	s.bus.Publish(ev)

	if aerr := s.store.Append(ctx, rec); aerr != nil {
		s.log.Errorf("history append %s: %v", id, aerr)
		coremon.CaptureException(aerr, map[string]string{"module": "history", "solve_id": id})
	}
	if err != nil {
		s.log.Warnf("solve %s failed after %d attempts", id, rec.Attempts)
		return nil, err
	}
	s.log.Infof("solve %s accepted after %d attempt(s), spread %d min", id, sol.Attempts, sol.Summary.Spread)

	res := &Result{ID: id, Seed: seed, Solution: sol, Duration: elapsed}
	if req.Publish {
		res.Published = s.publish(ctx, id, sol)
	}
	return res, nil
}

func (s *Service) publish(ctx context.Context, id string, sol *rotation.Solution) bool {
	if s.publisher == nil {
		s.log.Warnf("solve %s: publishing requested but no MQTT broker is configured", id)
		return false
	}
	if err := s.publisher.PublishRotation(ctx, coremqtt.NewRotationMessage(id, sol, s.now())); err != nil {
		s.log.Errorf("publish %s: %v", id, err)
		return false
	}
	return true
}

func shares(sol *rotation.Solution) []events.PlayerShare {
	out := make([]events.PlayerShare, len(sol.Players))
	for i, p := range sol.Players {
		out[i] = events.PlayerShare{Name: p.Name, Position: p.Position, Total: p.Total, Half1: p.Half1, Half2: p.Half2}
	}
	return out
}

// History returns stored solves matching q.
func (s *Service) History(ctx context.Context, q history.Query) ([]history.Record, error) {
	return s.store.Query(ctx, q)
}

// Run serves h on the API address, and /metrics when a Prometheus address
// is configured, until ctx is cancelled.
func (s *Service) Run(ctx context.Context, h http.Handler) error {
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			defer coremon.Recover()
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("API listening on %s", s.cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops the collector and releases the store and the publisher.
func (s *Service) Close() error {
	s.bus.Close()
	<-s.collectorDone
	s.stopCollector()
	if s.publisher != nil {
		s.publisher.Disconnect()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return s.store.Close()
}
