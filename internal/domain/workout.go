package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutType summarizes which categories a workout contains.
type WorkoutType string

const (
	WorkoutStrength WorkoutType = "strength"
	WorkoutCardio   WorkoutType = "cardio"
	WorkoutMixed    WorkoutType = "mixed"
)

// Workout is one persisted logging session. The individual exercise entries only
// survive as the human-readable Description.
type Workout struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description"`
	Type        WorkoutType        `bson:"type" json:"type"`
	Duration    float64            `bson:"duration" json:"duration"` // minutes
	StartTime   time.Time          `bson:"startTime" json:"startTime"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt   time.Time          `bson:"createdAt" json:"-"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"-"`
}

// BuildWorkout folds normalized entries into a new, unsaved workout.
func BuildWorkout(userID primitive.ObjectID, entries []ExerciseEntry, now time.Time) *Workout {
	var hasStrength, hasCardio bool
	var duration float64
	descriptions := make([]string, 0, len(entries))
	for _, e := range entries {
		switch e.Category {
		case CategoryCardio:
			hasCardio = true
		default:
			hasStrength = true
		}
		duration += e.Duration
		descriptions = append(descriptions, e.Describe())
	}

	workoutType := WorkoutStrength
	if hasStrength && hasCardio {
		workoutType = WorkoutMixed
	} else if hasCardio {
		workoutType = WorkoutCardio
	}

	return &Workout{
		Name:        "Workout - " + now.Format("Jan 2, 2006"),
		Description: strings.Join(descriptions, ", "),
		Type:        workoutType,
		Duration:    duration,
		StartTime:   now.UTC(),
		UserID:      userID,
	}
}
