package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rotation/config"
	"github.com/kilianp07/rotation/core/history"
	coremetrics "github.com/kilianp07/rotation/core/metrics"
	"github.com/kilianp07/rotation/core/model"
	coremon "github.com/kilianp07/rotation/core/monitoring"
	coremqtt "github.com/kilianp07/rotation/core/mqtt"
	"github.com/kilianp07/rotation/core/rotation"
	"github.com/kilianp07/rotation/infra/logger"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Append(ctx context.Context, rec history.Record) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockStore) Query(ctx context.Context, q history.Query) ([]history.Record, error) {
	args := m.Called(ctx, q)
	recs, _ := args.Get(0).([]history.Record)
	return recs, args.Error(1)
}

func (m *mockStore) Close() error { return m.Called().Error(0) }

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishRotation(ctx context.Context, msg coremqtt.RotationMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *mockPublisher) Disconnect() { m.Called() }

type captureSink struct {
	mu       sync.Mutex
	solves   []coremetrics.SolveResult
	attempts int
	minutes  []coremetrics.PlayerMinutes
}

func (c *captureSink) RecordSolve(r coremetrics.SolveResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.solves = append(c.solves, r)
	return nil
}

func (c *captureSink) RecordAttempt(coremetrics.AttemptResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts++
	return nil
}

func (c *captureSink) RecordPlayerMinutes(m []coremetrics.PlayerMinutes) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.minutes = append(c.minutes, m...)
	return nil
}

type recordMonitor struct {
	mu   sync.Mutex
	tags []map[string]string
}

func (r *recordMonitor) CaptureException(_ error, tags map[string]string) {
	r.mu.Lock()
	r.tags = append(r.tags, tags)
	r.mu.Unlock()
}
func (r *recordMonitor) CapturePanic(any)    {}
func (r *recordMonitor) Flush(time.Duration) {}

type fixture struct {
	svc   *Service
	store *mockStore
	pub   *mockPublisher
	sink  *captureSink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{}
	cfg.SetDefaults()
	f := &fixture{store: &mockStore{}, pub: &mockPublisher{}, sink: &captureSink{}}
	ids := 0
	svc, err := New(cfg,
		WithStore(f.store),
		WithPublisher(f.pub),
		WithSink(f.sink),
		WithLogger(logger.NopLogger{}),
		WithIDGenerator(func() string { ids++; return fmt.Sprintf("id-%d", ids) }),
	)
	require.NoError(t, err)
	f.svc = svc
	return f
}

// close stops the service so every published event has been collected.
func (f *fixture) close(t *testing.T) {
	t.Helper()
	f.store.On("Close").Return(nil).Maybe()
	f.pub.On("Disconnect").Return().Maybe()
	require.NoError(t, f.svc.Close())
}

func seed(v uint64) *uint64 { return &v }

func TestService_SolveRecordsAndPublishes(t *testing.T) {
	f := newFixture(t)
	team := model.DefaultTeam()

	f.store.On("Append", mock.Anything, mock.MatchedBy(func(r history.Record) bool {
		return r.ID == "id-1" && r.Solved && r.Seed == 7 && r.Solution != nil && r.Error == ""
	})).Return(nil).Once()
	f.pub.On("PublishRotation", mock.Anything, mock.MatchedBy(func(m coremqtt.RotationMessage) bool {
		return m.SolveID == "id-1" && len(m.Periods) == 8
	})).Return(nil).Once()

	res, err := f.svc.Solve(context.Background(), Request{Team: team, Seed: seed(7), Publish: true})
	require.NoError(t, err)
	assert.Equal(t, "id-1", res.ID)
	assert.Equal(t, uint64(7), res.Seed)
	assert.True(t, res.Published)
	require.NotNil(t, res.Solution)
	f.close(t)

	f.store.AssertExpectations(t)
	f.pub.AssertExpectations(t)

	f.sink.mu.Lock()
	defer f.sink.mu.Unlock()
	require.Len(t, f.sink.solves, 1)
	assert.True(t, f.sink.solves[0].Solved)
	assert.Equal(t, res.Solution.Attempts, f.sink.solves[0].Attempts)
	assert.Equal(t, res.Solution.Attempts, f.sink.attempts)
	assert.Len(t, f.sink.minutes, len(team.Players))
}

func TestService_PolicyOverride(t *testing.T) {
	f := newFixture(t)
	f.store.On("Append", mock.Anything, mock.MatchedBy(func(r history.Record) bool {
		return r.Policy == model.PolicyBalancedEqual
	})).Return(nil).Once()

	res, err := f.svc.Solve(context.Background(), Request{Team: model.DefaultTeam(), Policy: model.PolicyBalancedEqual, Seed: seed(2)})
	require.NoError(t, err)
	assert.Equal(t, model.PolicyBalancedEqual, res.Solution.Policy)
	assert.False(t, res.Published)
	f.pub.AssertNotCalled(t, "PublishRotation", mock.Anything, mock.Anything)
	f.close(t)
}

func TestService_UnsatisfiableIsRecorded(t *testing.T) {
	f := newFixture(t)
	team := model.DefaultTeam()
	team.Constraints.Inexperienced = team.Players.Names()
	team.Constraints.AttemptBound = 5

	f.store.On("Append", mock.Anything, mock.MatchedBy(func(r history.Record) bool {
		return !r.Solved && r.Attempts == 5 && r.Solution == nil && r.Error != ""
	})).Return(nil).Once()

	res, err := f.svc.Solve(context.Background(), Request{Team: team, Seed: seed(1), Publish: true})
	assert.Nil(t, res)
	require.ErrorIs(t, err, rotation.ErrUnsatisfiable)
	f.close(t)

	f.store.AssertExpectations(t)
	f.pub.AssertNotCalled(t, "PublishRotation", mock.Anything, mock.Anything)
	f.sink.mu.Lock()
	defer f.sink.mu.Unlock()
	require.Len(t, f.sink.solves, 1)
	assert.False(t, f.sink.solves[0].Solved)
	assert.Empty(t, f.sink.minutes)
}

func TestService_ConfigErrorIsNotRecorded(t *testing.T) {
	f := newFixture(t)
	team := model.DefaultTeam()
	team.Players = team.Players[:3]

	_, err := f.svc.Solve(context.Background(), Request{Team: team})
	require.ErrorIs(t, err, model.ErrInvalidConfig)
	f.store.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	f.close(t)
}

func TestService_StoreFailureDoesNotMaskSolve(t *testing.T) {
	mon := &recordMonitor{}
	coremon.Init(mon)
	defer coremon.Init(coremon.NopMonitor{})

	f := newFixture(t)
	f.store.On("Append", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	res, err := f.svc.Solve(context.Background(), Request{Team: model.DefaultTeam(), Seed: seed(3)})
	require.NoError(t, err)
	assert.NotNil(t, res.Solution)
	f.close(t)

	mon.mu.Lock()
	defer mon.mu.Unlock()
	require.Len(t, mon.tags, 1)
	assert.Equal(t, "history", mon.tags[0]["module"])
	assert.Equal(t, "id-1", mon.tags[0]["solve_id"])
}

func TestService_PublishFailureDoesNotMaskSolve(t *testing.T) {
	f := newFixture(t)
	f.store.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.pub.On("PublishRotation", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	res, err := f.svc.Solve(context.Background(), Request{Team: model.DefaultTeam(), Seed: seed(4), Publish: true})
	require.NoError(t, err)
	assert.False(t, res.Published)
	f.close(t)
}

func TestService_SameSeedSameRotation(t *testing.T) {
	f := newFixture(t)
	f.store.On("Append", mock.Anything, mock.Anything).Return(nil)

	a, err := f.svc.Solve(context.Background(), Request{Team: model.DefaultTeam(), Seed: seed(11)})
	require.NoError(t, err)
	b, err := f.svc.Solve(context.Background(), Request{Team: model.DefaultTeam(), Seed: seed(11)})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Solution.Players, b.Solution.Players)
	f.close(t)
}

func TestService_History(t *testing.T) {
	f := newFixture(t)
	q := history.Query{Player: "Josh", Limit: 2}
	want := []history.Record{{ID: "a"}, {ID: "b"}}
	f.store.On("Query", mock.Anything, q).Return(want, nil).Once()

	got, err := f.svc.History(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	f.close(t)
	f.store.AssertExpectations(t)
}

func TestService_NoPublisherConfigured(t *testing.T) {
	cfg := &config.Config{}
	cfg.SetDefaults()
	store := &mockStore{}
	store.On("Append", mock.Anything, mock.Anything).Return(nil)
	store.On("Close").Return(nil)
	svc, err := New(cfg, WithStore(store), WithLogger(logger.NopLogger{}))
	require.NoError(t, err)

	res, err := svc.Solve(context.Background(), Request{Team: model.DefaultTeam(), Seed: seed(5), Publish: true})
	require.NoError(t, err)
	assert.False(t, res.Published)
	require.NoError(t, svc.Close())
}
