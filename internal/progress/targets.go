package progress

import (
	"regexp"
	"strconv"
)

var (
	weightThenRepsRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:lb|lbs|pounds?)\s*(?:x|\*)\s*(\d+)`)
	repsThenWeightRe = regexp.MustCompile(`(?i)(\d+)\s*(?:reps?)\s*@?\s*(\d+(?:\.\d+)?)\s*(?:lb|lbs|pounds?)`)
	repsOnlyRe       = regexp.MustCompile(`(?i)(\d+)\s*(?:reps?)`)
	distanceRe       = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:mi|miles)\b`)
	durationRe       = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:min|minutes)\b`)
)

// StrengthTargets are the numbers recovered from a strength goal description.
// Zero means the value was not found.
type StrengthTargets struct {
	Weight float64
	Reps   int
}

func (t StrengthTargets) HasTargets() bool {
	return t.Weight > 0 || t.Reps > 0
}

// CardioTargets are the numbers recovered from a cardio goal description.
type CardioTargets struct {
	Distance float64 // miles
	Duration float64 // minutes
}

func (t CardioTargets) HasTargets() bool {
	return t.Distance > 0 || t.Duration > 0
}

// ExtractStrengthTargets parses "135 lbs x 10 reps" or "10 reps @ 135 lbs" style text.
// Whichever form matches first wins, the other fills the gaps, and a bare "10 reps"
// is the last resort for the rep count.
func ExtractStrengthTargets(description string) StrengthTargets {
	var t StrengthTargets

	if m := weightThenRepsRe.FindStringSubmatch(description); m != nil {
		t.Weight = parseFloat(m[1])
		t.Reps = parseInt(m[2])
	}

	if m := repsThenWeightRe.FindStringSubmatch(description); m != nil {
		if t.Reps == 0 {
			t.Reps = parseInt(m[1])
		}
		if t.Weight == 0 {
			t.Weight = parseFloat(m[2])
		}
	}

	if t.Reps == 0 {
		if m := repsOnlyRe.FindStringSubmatch(description); m != nil {
			t.Reps = parseInt(m[1])
		}
	}

	return t
}

// ExtractCardioTargets reads distance ("3.1 miles") and duration ("25 minutes") independently.
func ExtractCardioTargets(description string) CardioTargets {
	var t CardioTargets
	if m := distanceRe.FindStringSubmatch(description); m != nil {
		t.Distance = parseFloat(m[1])
	}
	if m := durationRe.FindStringSubmatch(description); m != nil {
		t.Duration = parseFloat(m[1])
	}
	return t
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
