package rotation

import (
	"errors"
	"math/rand/v2"

	"github.com/kilianp07/rotation/core/events"
	"github.com/kilianp07/rotation/core/logger"
	"github.com/kilianp07/rotation/core/model"
	"github.com/kilianp07/rotation/internal/eventbus"
)

// Solver runs bounded greedy attempts until one produces a valid grid. A
// Solver is not safe for concurrent use because it owns its random source.
type Solver struct {
	rng     *rand.Rand
	logger  logger.Logger
	bus     eventbus.EventBus
	policy  *Policy
	solveID string
}

// Option configures a Solver.
type Option func(*Solver)

// WithLogger sets the logger used for warnings and attempt diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(s *Solver) { s.logger = logger.OrNop(l) }
}

// WithEventBus publishes an events.AttemptEvent after every attempt.
func WithEventBus(bus eventbus.EventBus) Option {
	return func(s *Solver) { s.bus = bus }
}

// WithSolveID tags published events with id.
func WithSolveID(id string) Option {
	return func(s *Solver) { s.solveID = id }
}

// WithPolicy overrides the policy named by the constraints.
func WithPolicy(p Policy) Option {
	return func(s *Solver) { s.policy = &p }
}

// NewSolver returns a solver drawing tie-breaks from rng. A nil rng is
// replaced by a zero-seeded source, which makes every solve identical.
func NewSolver(rng *rand.Rand, opts ...Option) *Solver {
	if rng == nil {
		rng = rand.New(rand.NewPCG(0, 0))
	}
	s := &Solver{rng: rng, logger: logger.Nop{}}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewSeededSolver is NewSolver with a PCG source built from seed.
func NewSeededSolver(seed uint64, opts ...Option) *Solver {
	return NewSolver(rand.New(rand.NewPCG(seed, seed)), opts...)
}

// Solve plans a rotation for the roster. Inputs are copied before use, so
// callers may reuse them once Solve returns. The error is a
// *model.ConfigError when the input is rejected up front, or an
// *UnsatisfiableError when every attempt failed.
func (s *Solver) Solve(r model.Roster, c model.Constraints) (*Solution, error) {
	c.SetDefaults()
	if err := c.Validate(r); err != nil {
		return nil, err
	}
	policy, err := s.resolvePolicy(c.Policy)
	if err != nil {
		return nil, err
	}
	c.Policy = policy.Name

	roster := r.Clone()
	c.Starters = append([]string(nil), c.Starters...)
	c.Closers = append([]string(nil), c.Closers...)
	c.Inexperienced = append([]string(nil), c.Inexperienced...)
	roles, unknown := c.ResolveRoles(roster)
	for _, name := range unknown {
		s.logger.Warnf("rotation: %q is not on the roster, ignoring it", name)
	}

	failure := &UnsatisfiableError{Attempts: c.AttemptBound, UnknownNames: unknown}
	for n := 1; n <= c.AttemptBound; n++ {
		a := newAttempt(roster, roles, c, policy, s.rng)
		a.seed()
		if err := a.fill(); err != nil {
			var stuck *stuckError
			period := -1
			if errors.As(err, &stuck) {
				period = stuck.period
			}
			failure.Stuck++
			s.logger.Debugf("rotation: attempt %d aborted: %v", n, err)
			s.publish(events.AttemptEvent{Policy: policy.Name, Attempt: n, Outcome: events.OutcomeStuck, Period: period})
			continue
		}
		if violations := Validate(a.grid, roster, c.TeamSize, policy); len(violations) > 0 {
			failure.Invalid++
			s.logger.Debugw("rotation: attempt rejected", map[string]any{
				"attempt":    n,
				"violations": len(violations),
				"first":      violations[0].String(),
			})
			s.publish(events.AttemptEvent{Policy: policy.Name, Attempt: n, Outcome: events.OutcomeInvalid, Period: -1, Violations: len(violations)})
			continue
		}
		s.publish(events.AttemptEvent{Policy: policy.Name, Attempt: n, Outcome: events.OutcomeAccepted, Period: -1})
		s.logger.Debugf("rotation: attempt %d accepted", n)
		return newSolution(a.grid, roster, c, policy, n, unknown), nil
	}
	s.logger.Warnf("rotation: no valid rotation after %d attempts (%d stuck, %d invalid)", failure.Attempts, failure.Stuck, failure.Invalid)
	return nil, failure
}

func (s *Solver) resolvePolicy(name model.PolicyName) (Policy, error) {
	if s.policy != nil {
		return *s.policy, nil
	}
	return PolicyFor(name)
}

func (s *Solver) publish(ev events.AttemptEvent) {
	if s.bus == nil {
		return
	}
	ev.SolveID = s.solveID
	s.bus.Publish(ev)
}
