package progress

import (
	"fmt"
	"math"
	"strings"

	"alcyxob/fittrack/internal/domain"
)

// Feedback hints attached to progress summaries.
const (
	HintAddReps     = "(add reps)"
	HintAddWeight   = "(add weight)"
	HintAddDistance = "(add distance)"
	HintAddTime     = "(add time)"
	HintAchieved    = "(achieved!)"
)

// Outcome is the result of scoring one entry against one goal.
type Outcome struct {
	// Progress is what this entry alone is worth, 0-100.
	Progress float64
	// Effective is max(previous, Progress); progress never regresses.
	Effective float64
	Status    domain.GoalStatus
	// Hint names the limiting metric, or HintAchieved at 100.
	Hint string
	// Detail describes what was achieved, e.g. "best 5-rep @ 135 lb".
	Detail string
}

// Calculate scores an entry against a goal. The weakest metric limits progress: a
// "135 lbs x 10 reps" goal only reaches 100 when one entry hits both numbers.
// ok is false when the goal description has no measurable target.
func Calculate(goal domain.Goal, entry domain.ExerciseEntry, previous float64) (out Outcome, ok bool) {
	var limiting float64
	if goal.Category == domain.CategoryCardio {
		limiting, out.Hint, out.Detail, ok = scoreCardio(ExtractCardioTargets(goal.Description), entry)
	} else {
		limiting, out.Hint, out.Detail, ok = scoreStrength(ExtractStrengthTargets(goal.Description), entry)
	}
	if !ok {
		return Outcome{}, false
	}

	out.Progress = clampPercent(limiting * 100)
	out.Effective = math.Max(clampPercent(previous), out.Progress)
	out.Status = goal.Status
	if out.Effective >= 100 {
		out.Status = domain.GoalCompleted
	}
	if out.Progress >= 100 {
		out.Hint = HintAchieved
	}
	return out, true
}

func scoreStrength(t StrengthTargets, entry domain.ExerciseEntry) (limiting float64, hint, detail string, ok bool) {
	if !t.HasTargets() {
		return 0, "", "", false
	}
	reps := math.Max(0, float64(entry.Reps))
	weight := positive(entry.Weight)

	repsRatio := 1.0
	if t.Reps > 0 {
		repsRatio = 0
		if reps > 0 {
			repsRatio = math.Min(1, reps/float64(t.Reps))
		}
	}
	weightRatio := 1.0
	if t.Weight > 0 {
		weightRatio = 0
		if weight > 0 {
			weightRatio = math.Min(1, weight/t.Weight)
		}
	}

	switch {
	case t.Reps > 0 && t.Weight > 0:
		limiting = math.Min(repsRatio, weightRatio)
	case t.Reps > 0:
		limiting = repsRatio
	default:
		limiting = weightRatio
	}

	if t.Reps > 0 && limiting == repsRatio && repsRatio < 1 {
		hint = HintAddReps
	} else if t.Weight > 0 && limiting == weightRatio && weightRatio < 1 {
		hint = HintAddWeight
	}

	if weight > 0 {
		detail = fmt.Sprintf("best %d-rep @ %s lb", int(reps), domain.FormatNumber(weight))
	} else {
		detail = fmt.Sprintf("best %d reps (bodyweight)", int(reps))
	}
	return limiting, hint, detail, true
}

func scoreCardio(t CardioTargets, entry domain.ExerciseEntry) (limiting float64, hint, detail string, ok bool) {
	if !t.HasTargets() {
		return 0, "", "", false
	}
	distance := positive(entry.Distance)
	duration := positive(entry.Duration)

	hasDistance := t.Distance > 0
	hasDuration := t.Duration > 0
	var distanceRatio, durationRatio float64
	if hasDistance {
		distanceRatio = clampRatio(distance / t.Distance)
	}
	if hasDuration {
		durationRatio = clampRatio(duration / t.Duration)
	}

	switch {
	case hasDistance && hasDuration:
		limiting = math.Min(distanceRatio, durationRatio)
	case hasDistance:
		limiting = distanceRatio
	default:
		limiting = durationRatio
	}

	if limiting < 1 {
		if hasDistance && (!hasDuration || distanceRatio < durationRatio) {
			hint = HintAddDistance
		} else if hasDuration {
			hint = HintAddTime
		}
	}

	var parts []string
	switch {
	case hasDistance:
		parts = append(parts, fmt.Sprintf("%s / %s mi", domain.FormatNumber(distance), domain.FormatNumber(t.Distance)))
	case distance > 0:
		parts = append(parts, domain.FormatNumber(distance)+" mi")
	}
	switch {
	case hasDuration:
		parts = append(parts, fmt.Sprintf("%s / %s min", domain.FormatNumber(duration), domain.FormatNumber(t.Duration)))
	case duration > 0:
		parts = append(parts, domain.FormatNumber(duration)+" min")
	}
	return limiting, hint, strings.Join(parts, " • "), true
}

func positive(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return v
}

func clampRatio(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(100, math.Max(0, v))
}
