package selection

// Score ranks a player for merit selection:
//
//	round(caps * (1 + 0.1*bonuses - 0.1*penalties + 0.1*streak))
//
// The modifier is kept in integer tenths so equal inputs always produce
// equal scores. Halves round away from zero. A negative score is a valid,
// low rank.
func Score(caps, activeBonuses, activePenalties, currentStreak int) int {
	tenths := caps * (10 + activeBonuses - activePenalties + currentStreak)
	if tenths >= 0 {
		return (tenths + 5) / 10
	}
	return -((-tenths + 5) / 10)
}
