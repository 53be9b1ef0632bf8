// Package balance characterizes a learner's input/output mix from event
// counts. Pure, total functions; no error conditions.
package balance

// Interpretation buckets for the practice-to-learning ratio.
type Interpretation string

// Ratio interpretations, from theory-heavy to application-heavy.
const (
	HeavyInput       Interpretation = "heavy_input"
	LearningFocused  Interpretation = "learning_focused"
	Balanced         Interpretation = "balanced"
	PracticeDominant Interpretation = "practice_dominant"
)

// Interpretation breakpoints.
const (
	heavyInputLimit      = 0.2
	learningFocusedLimit = 0.5
	balancedLimit        = 1.0
)

// Ratio returns practice/learning. With zero learning events the ratio is
// 1.0 when any practice exists and 0.0 otherwise, so "no learning at all"
// reads as balanced output rather than a division by zero.
func Ratio(learningCount, practiceCount int) float64 {
	if learningCount == 0 {
		if practiceCount > 0 {
			return 1.0
		}
		return 0.0
	}
	return float64(practiceCount) / float64(learningCount)
}

// Interpret buckets a ratio into its qualitative interpretation.
func Interpret(ratio float64) Interpretation {
	switch {
	case ratio < heavyInputLimit:
		return HeavyInput
	case ratio < learningFocusedLimit:
		return LearningFocused
	case ratio <= balancedLimit:
		return Balanced
	default:
		return PracticeDominant
	}
}

// Describe returns the human-readable reading of an interpretation.
func Describe(i Interpretation) string {
	switch i {
	case HeavyInput:
		return "Heavy input, minimal practice"
	case LearningFocused:
		return "Learning-focused period"
	case Balanced:
		return "Balanced"
	case PracticeDominant:
		return "Practice-dominant (ideal for retention)"
	default:
		return string(i)
	}
}
