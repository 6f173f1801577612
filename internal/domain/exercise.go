// internal/domain/exercise.go
package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Category is the kind of movement a goal or exercise entry tracks.
type Category string

const (
	CategoryStrength Category = "strength"
	CategoryCardio   Category = "cardio"
)

// ParseCategory normalizes a free-form category string. Empty or unknown values return false.
func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryStrength:
		return CategoryStrength, true
	case CategoryCardio:
		return CategoryCardio, true
	}
	return "", false
}

// Known exercise names used for category inference and CLI suggestions.
var (
	StrengthExercises = []string{"Bench Press", "Squat", "Deadlift", "Overhead Press", "Pull-ups", "Push-ups"}
	CardioExercises   = []string{"Run", "Bike", "Swim", "Row", "Walk"}
)

// InferCategory guesses the category from an exercise name. Unknown names are strength.
func InferCategory(name string) Category {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, ex := range CardioExercises {
		if strings.ToLower(ex) == lower {
			return CategoryCardio
		}
	}
	return CategoryStrength
}

// ExerciseEntry is one logged movement within a workout. It is never stored on its own;
// it is folded into the workout description and consumed by goal reconciliation.
type ExerciseEntry struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Sets     int      `json:"sets"`
	Reps     int      `json:"reps"`
	Weight   float64  `json:"weight"`   // lbs
	Duration float64  `json:"duration"` // minutes
	Distance float64  `json:"distance"` // miles
}

// Entry validation errors
var (
	ErrEntryNameRequired     = errors.New("please enter an exercise name")
	ErrEntrySetsRepsRequired = errors.New("please enter sets and reps for strength exercises")
	ErrEntryCardioRequired   = errors.New("please enter duration or distance for cardio exercises")
	ErrEntryNegative         = errors.New("exercise values cannot be negative")
	ErrEntryCategory         = errors.New("exercise category must be strength or cardio")
)

// Normalize trims the name, fills in a missing category and zeroes the metrics that
// do not belong to the entry's category.
func (e ExerciseEntry) Normalize() ExerciseEntry {
	e.Name = strings.TrimSpace(e.Name)
	if e.Category == "" {
		e.Category = InferCategory(e.Name)
	} else if c, ok := ParseCategory(string(e.Category)); ok {
		e.Category = c
	}
	switch e.Category {
	case CategoryStrength:
		e.Duration, e.Distance = 0, 0
	case CategoryCardio:
		e.Sets, e.Reps, e.Weight = 0, 0, 0
	}
	return e
}

// Validate checks the presence and range rules of a normalized entry.
func (e ExerciseEntry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEntryNameRequired
	}
	if e.Sets < 0 || e.Reps < 0 || e.Weight < 0 || e.Duration < 0 || e.Distance < 0 {
		return ErrEntryNegative
	}
	switch e.Category {
	case CategoryStrength:
		if e.Sets <= 0 || e.Reps <= 0 {
			return ErrEntrySetsRepsRequired
		}
	case CategoryCardio:
		if e.Duration <= 0 && e.Distance <= 0 {
			return ErrEntryCardioRequired
		}
	default:
		return ErrEntryCategory
	}
	return nil
}

// Describe renders the entry the way it is stored inside a workout description,
// e.g. "Bench Press: 3x10 @ 135 lbs" or "Run: 3.1 mi • 25 min".
func (e ExerciseEntry) Describe() string {
	var detail string
	if e.Category == CategoryCardio {
		var parts []string
		if e.Distance > 0 {
			parts = append(parts, FormatNumber(e.Distance)+" mi")
		}
		if e.Duration > 0 {
			parts = append(parts, FormatNumber(e.Duration)+" min")
		}
		detail = strings.Join(parts, " • ")
	} else {
		volume := ""
		if e.Sets > 0 && e.Reps > 0 {
			volume = fmt.Sprintf("%dx%d", e.Sets, e.Reps)
		}
		load := ""
		if e.Weight > 0 {
			load = FormatNumber(e.Weight) + " lbs"
		}
		switch {
		case volume != "" && load != "":
			detail = volume + " @ " + load
		case volume != "":
			detail = volume
		default:
			detail = load
		}
	}
	if detail == "" {
		return e.Name
	}
	return e.Name + ": " + detail
}

// FormatNumber prints whole numbers without decimals and everything else with at most
// two decimals and no trailing zeros.
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	if math.Abs(v-math.Round(v)) < 1e-3 {
		return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
