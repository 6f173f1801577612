package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GoalStatus tracks the goal lifecycle. Completed is terminal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
)

// DateLayout is the wire format of goal start and target dates.
const DateLayout = "2006-01-02"

// DefaultGoalTarget is the nominal targetValue; progress is stored as a percent of it.
const DefaultGoalTarget = 100.0

// Goal is a user-defined fitness target. Numeric targets live in the free-text
// Description ("135 lbs x 10 reps • 3 sets"), CurrentValue is a 0-100 percentage.
type Goal struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description,omitempty" json:"description"`
	Category     Category           `bson:"category" json:"category"`
	Status       GoalStatus         `bson:"status" json:"status"`
	TargetValue  float64            `bson:"targetValue" json:"targetValue"`
	CurrentValue float64            `bson:"currentValue" json:"currentValue"`
	Unit         string             `bson:"unit,omitempty" json:"unit"`
	StartDate    string             `bson:"startDate,omitempty" json:"startDate,omitempty"`
	TargetDate   string             `bson:"targetDate,omitempty" json:"targetDate,omitempty"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt    time.Time          `bson:"createdAt" json:"-"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"-"`
}

func (g *Goal) IsActive() bool {
	return g.Status == GoalActive
}

// GoalTargets are the structured numbers a goal description is generated from.
type GoalTargets struct {
	Sets     int
	Reps     int
	Weight   float64 // lbs
	Duration float64 // minutes
	Distance float64 // miles
	Notes    string
}

// InferCategory mirrors the goal form: any strength number makes it a strength goal,
// any cardio number a cardio goal, otherwise the requested category is kept.
func (t GoalTargets) InferCategory(requested Category) Category {
	switch {
	case t.Weight > 0 || t.Reps > 0:
		return CategoryStrength
	case t.Duration > 0 || t.Distance > 0:
		return CategoryCardio
	}
	return requested
}

// Describe generates the goal description. Its metric part is exactly what the
// progress target extractor parses back.
func (t GoalTargets) Describe(category Category, title string) string {
	var metric string
	if category == CategoryStrength {
		switch {
		case t.Weight > 0 && t.Reps > 0:
			metric = FormatNumber(t.Weight) + " lbs x " + FormatNumber(float64(t.Reps)) + " reps"
		case t.Reps > 0:
			metric = FormatNumber(float64(t.Reps)) + " reps"
		case t.Weight > 0:
			metric = FormatNumber(t.Weight) + " lbs"
		}
	} else {
		var parts []string
		if t.Distance > 0 {
			parts = append(parts, FormatNumber(t.Distance)+" miles")
		}
		if t.Duration > 0 {
			parts = append(parts, FormatNumber(t.Duration)+" minutes")
		}
		metric = strings.Join(parts, " in ")
	}

	var parts []string
	if metric != "" {
		parts = append(parts, metric)
	}
	if t.Sets > 0 {
		parts = append(parts, FormatNumber(float64(t.Sets))+" sets")
	}
	if notes := strings.TrimSpace(t.Notes); notes != "" {
		parts = append(parts, notes)
	}
	if len(parts) == 0 {
		return strings.TrimSpace(title)
	}
	return strings.Join(parts, " • ")
}
