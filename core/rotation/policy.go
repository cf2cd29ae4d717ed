package rotation

import (
	"fmt"

	"github.com/kilianp07/rotation/core/model"
)

// Unlimited disables a threshold.
const Unlimited = -1

// EquityRanker orders candidates by playing-time need. Lower keys rank
// first.
type EquityRanker interface {
	Key(p model.Player, totalMinutes, periodMinutes int) int
}

// TargetEquity ranks the player furthest behind their target first.
type TargetEquity struct{}

func (TargetEquity) Key(p model.Player, total, _ int) int { return total - p.TargetMinutes }

// BalancedEquity ranks the least used player first. A prioritized player is
// treated as one period behind.
type BalancedEquity struct{}

func (BalancedEquity) Key(p model.Player, total, periodMinutes int) int {
	if p.Prioritize {
		return total - periodMinutes
	}
	return total
}

// InexperienceRule limits inexperienced players sharing the court.
type InexperienceRule int

const (
	// AtMostLimit allows up to Policy.MaxInexperienced at once.
	AtMostLimit InexperienceRule = iota
	// NeverAllInexperienced forbids fielding every inexperienced player of
	// the roster together, and forbids a full lineup of them.
	NeverAllInexperienced
)

// Policy selects the thresholds and strategies the solver applies. All
// values are minutes unless stated otherwise.
type Policy struct {
	Name   model.PolicyName
	Equity EquityRanker

	Inexperience     InexperienceRule
	MaxInexperienced int

	// SpreadPreference makes the filler prefer candidates that keep the
	// roster-wide spread within this bound while filling.
	SpreadPreference int
	// TopUpPinnedLast fills the inner periods first and only touches the
	// first and last period when seeding left them short.
	TopUpPinnedLast bool

	MinTotal         int
	MinHalf          int
	MaxHalfImbalance int
	MaxSpread        int
	MaxRun           int
}

// TargetMinutesPolicy measures equity against each player's target.
func TargetMinutesPolicy() Policy {
	return Policy{
		Name:             model.PolicyTargetMinutes,
		Equity:           TargetEquity{},
		Inexperience:     AtMostLimit,
		MaxInexperienced: 2,
		SpreadPreference: 10,
		TopUpPinnedLast:  true,
		MinTotal:         20,
		MinHalf:          10,
		MaxHalfImbalance: Unlimited,
		MaxSpread:        Unlimited,
		MaxRun:           15,
	}
}

// BalancedEqualPolicy keeps every player within a narrow band of minutes.
func BalancedEqualPolicy() Policy {
	return Policy{
		Name:             model.PolicyBalancedEqual,
		Equity:           BalancedEquity{},
		Inexperience:     NeverAllInexperienced,
		SpreadPreference: Unlimited,
		MinTotal:         0,
		MinHalf:          0,
		MaxHalfImbalance: 10,
		MaxSpread:        5,
		MaxRun:           15,
	}
}

// PolicyFor returns the built-in policy registered under name.
func PolicyFor(name model.PolicyName) (Policy, error) {
	switch name {
	case model.PolicyTargetMinutes:
		return TargetMinutesPolicy(), nil
	case model.PolicyBalancedEqual:
		return BalancedEqualPolicy(), nil
	default:
		return Policy{}, fmt.Errorf("unknown policy %q", name)
	}
}

// FillOrder returns the periods the filler visits, in order.
func (p Policy) FillOrder(periods int) []int {
	order := make([]int, 0, periods)
	if !p.TopUpPinnedLast || periods < 2 {
		for i := 0; i < periods; i++ {
			order = append(order, i)
		}
		return order
	}
	for i := 1; i < periods-1; i++ {
		order = append(order, i)
	}
	return append(order, 0, periods-1)
}

// InexperienceOK reports whether onCourt inexperienced players may share
// the court, given rosterTotal inexperienced players and the team size.
func (p Policy) InexperienceOK(onCourt, rosterTotal, teamSize int) bool {
	switch p.Inexperience {
	case NeverAllInexperienced:
		if rosterTotal == 0 {
			return true
		}
		return onCourt < rosterTotal && onCourt < teamSize
	default:
		return onCourt <= p.MaxInexperienced
	}
}
