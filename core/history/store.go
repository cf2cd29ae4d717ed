package history

import (
	"context"
	"slices"
	"time"

	"github.com/kilianp07/rotation/core/model"
	"github.com/kilianp07/rotation/core/rotation"
)

// Record captures one solve request and its outcome.
type Record struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Policy    model.PolicyName `json:"policy"`
	Seed      uint64           `json:"seed"`
	Solved    bool             `json:"solved"`
	Attempts  int              `json:"attempts"`
	Error     string           `json:"error,omitempty"`
	Team      model.Team       `json:"team"`
	// Solution is nil when the solve failed.
	Solution *rotation.Solution `json:"solution,omitempty"`
}

// Query filters records. Zero fields match everything.
type Query struct {
	Start  time.Time
	End    time.Time
	Player string
	Policy model.PolicyName
	// Limit keeps only the most recent matches when positive.
	Limit int
}

// Match reports whether r passes the filters of q, ignoring Limit.
func (q Query) Match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Policy != "" && r.Policy != q.Policy {
		return false
	}
	if q.Player != "" && r.Team.Players.Index(q.Player) < 0 {
		return false
	}
	return true
}

// Store persists records and answers queries in chronological order.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// NopStore keeps nothing.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error            { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                    { return nil }

// finish sorts matches chronologically and applies the limit.
func finish(recs []Record, limit int) []Record {
	slices.SortStableFunc(recs, func(a, b Record) int { return a.Timestamp.Compare(b.Timestamp) })
	if limit > 0 && len(recs) > limit {
		recs = recs[len(recs)-limit:]
	}
	return recs
}
