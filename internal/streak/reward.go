package streak

import "habit_webapp/internal/domain"

// Token award formula: a victory at streak position n earns
// base + (n-1)*step, plus a flat bonus when n lands exactly on a milestone.
const (
	BaseTokens     = 10
	StepTokens     = 5
	MilestoneBonus = 50
)

// milestones are the streak lengths that pay the flat bonus.
var milestones = map[int]bool{7: true, 14: true, 30: true, 60: true, 90: true}

// IsMilestone reports whether a streak position pays the flat bonus.
func IsMilestone(position int) bool {
	return milestones[position]
}

// Tokens returns the award for an outcome graded at the given streak
// position. Defeats never earn tokens. Bonuses are not cumulative: only the
// exact position matters, a backfill that jumps past a milestone does not
// collect it.
func Tokens(outcome domain.Outcome, position int) int64 {
	if outcome != domain.OutcomeVictory || position < 1 {
		return 0
	}
	tokens := int64(BaseTokens + (position-1)*StepTokens)
	if IsMilestone(position) {
		tokens += MilestoneBonus
	}
	return tokens
}

// Multiplier is the display-only projection of the formula shown next to
// the streak counter. It is derived from Tokens so the client never carries
// its own table.
func Multiplier(position int) float64 {
	if position < 1 {
		return 1
	}
	return float64(Tokens(domain.OutcomeVictory, position)) / float64(BaseTokens)
}
