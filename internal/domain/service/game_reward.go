package service

// RewardRule converts a shrunken savings gap into experience points.
type RewardRule struct {
	UnitAmount    int64 // currency per reward unit
	PointsPerUnit int64
	MaxPerEvent   int64
}

// GameUpdate describes how a new max-loan figure moved the user's savings
// gap and the experience it earned.
type GameUpdate struct {
	OldMaxLoan     int64
	NewMaxLoan     int64
	RequiredBefore int64
	RequiredAfter  int64
	ReducedGap     int64
	ExpGained      int64
}

// GapInputs are the savings facts the gap is computed from.
type GapInputs struct {
	TargetAmount  int64
	CurrentAssets int64
	AlreadySaved  int64
}

// GameRewardCalculator computes game-update deltas. It is stateless.
type GameRewardCalculator struct {
	rule RewardRule
}

// NewGameRewardCalculator returns a calculator for rule.
func NewGameRewardCalculator(rule RewardRule) *GameRewardCalculator {
	return &GameRewardCalculator{rule: rule}
}

// RequiredAmount is max(0, target - assets - saved - maxLoan).
func RequiredAmount(g GapInputs, maxLoan int64) int64 {
	return max(0, g.TargetAmount-g.CurrentAssets-g.AlreadySaved-maxLoan)
}

// Compute returns the delta between the gap under oldMaxLoan and under
// newMaxLoan, and the capped reward for the reduction.
func (c *GameRewardCalculator) Compute(g GapInputs, oldMaxLoan, newMaxLoan int64) GameUpdate {
	before := RequiredAmount(g, oldMaxLoan)
	after := RequiredAmount(g, newMaxLoan)
	reduced := max(0, before-after)

	return GameUpdate{
		OldMaxLoan:     oldMaxLoan,
		NewMaxLoan:     newMaxLoan,
		RequiredBefore: before,
		RequiredAfter:  after,
		ReducedGap:     reduced,
		ExpGained:      c.expFor(reduced),
	}
}

func (c *GameRewardCalculator) expFor(reduced int64) int64 {
	if c.rule.UnitAmount <= 0 || reduced <= 0 {
		return 0
	}
	units := reduced / c.rule.UnitAmount
	return min(c.rule.MaxPerEvent, units*c.rule.PointsPerUnit)
}
