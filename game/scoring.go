package game

// Scoring constants.
const (
	// DefaultWinThreshold is the score at which a player wins the game.
	DefaultWinThreshold = 50
	// InvalidSubmissionPenalty is subtracted for a judged-invalid submission.
	InvalidSubmissionPenalty = 10
	// BuzzInBonus is awarded for answering a trap before the countdown ends.
	BuzzInBonus = 5
)

// ApplyScoreDelta applies a delta to a score, clamping at a floor of 0.
func ApplyScoreDelta(score int, delta int) int {
	newScore := score + delta
	if newScore < 0 {
		return 0
	}
	return newScore
}

// CheckWin reports whether the score has crossed the threshold. The win
// check runs immediately after every positive delta; the first player
// observed at or above the threshold wins and no further score mutation
// occurs.
func CheckWin(score int, threshold int) bool {
	return score >= threshold
}
