package progress

import (
	"strings"

	"alcyxob/fittrack/internal/domain"
)

// Matches reports whether a logged entry should count toward the goal.
//
// Matching is deliberately loose: an active goal matches when either name contains the
// other (case-insensitive) or when the categories are equal. The category fallback means
// any cardio entry can move any active cardio goal; that over-match is known and kept.
func Matches(entry domain.ExerciseEntry, goal domain.Goal) bool {
	if !goal.IsActive() {
		return false
	}
	title := strings.ToLower(goal.Title)
	name := strings.ToLower(entry.Name)
	if strings.Contains(title, name) || strings.Contains(name, title) {
		return true
	}
	return goal.Category != "" && strings.EqualFold(string(goal.Category), string(entry.Category))
}

// MatchGoals returns the goals the entry applies to, in the order given.
func MatchGoals(entry domain.ExerciseEntry, goals []domain.Goal) []domain.Goal {
	var matched []domain.Goal
	for _, g := range goals {
		if Matches(entry, g) {
			matched = append(matched, g)
		}
	}
	return matched
}
