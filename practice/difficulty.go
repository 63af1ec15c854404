package practice

// Difficulty tiers for question selection. Sessions start in the
// middle and move one step per round at most.
const (
	MinDifficulty     = 1
	MaxDifficulty     = 3
	DefaultDifficulty = 2

	// RoundSize is the maximum number of questions served per round
	RoundSize = 5
)

// Accuracy thresholds for moving between tiers
const (
	raiseThreshold = 0.8
	lowerThreshold = 0.4
)

// AdjustDifficulty moves the difficulty one step up or down based on
// round accuracy, clamped to the valid range. total is floored at 1
// so an empty round cannot divide by zero.
func AdjustDifficulty(current, correct, total int) int {
	if total < 1 {
		total = 1
	}

	accuracy := float64(correct) / float64(total)

	switch {
	case accuracy >= raiseThreshold:
		if current+1 > MaxDifficulty {
			return MaxDifficulty
		}
		return current + 1
	case accuracy <= lowerThreshold:
		if current-1 < MinDifficulty {
			return MinDifficulty
		}
		return current - 1
	default:
		return current
	}
}
