package progress_test

import (
	"testing"

	"alcyxob/fittrack/internal/domain"
	"alcyxob/fittrack/internal/progress"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func goal(title string, category domain.Category, description string) domain.Goal {
	return domain.Goal{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: description,
		Category:    category,
		Status:      domain.GoalActive,
		TargetValue: domain.DefaultGoalTarget,
	}
}

func TestMatches_SubstringEitherDirection(t *testing.T) {
	bench := goal("Bench Press", domain.CategoryStrength, "135 lbs x 10 reps")
	assert.True(t, progress.Matches(domain.ExerciseEntry{Name: "bench press 2", Category: domain.CategoryCardio}, bench))
	assert.True(t, progress.Matches(domain.ExerciseEntry{Name: "BENCH", Category: domain.CategoryCardio}, bench))

	run := goal("Run", domain.CategoryStrength, "")
	assert.True(t, progress.Matches(domain.ExerciseEntry{Name: "Running", Category: domain.CategoryCardio}, run))

	running := goal("Running", domain.CategoryStrength, "")
	assert.True(t, progress.Matches(domain.ExerciseEntry{Name: "Run", Category: domain.CategoryCardio}, running))
}

func TestMatches_CategoryFallback(t *testing.T) {
	swim := goal("Swim", domain.CategoryCardio, "30 minutes")
	assert.True(t, progress.Matches(domain.ExerciseEntry{Name: "Bike", Category: domain.CategoryCardio}, swim))
	assert.False(t, progress.Matches(domain.ExerciseEntry{Name: "Squat", Category: domain.CategoryStrength}, swim))

	uncategorized := goal("Swim", "", "30 minutes")
	assert.False(t, progress.Matches(domain.ExerciseEntry{Name: "Bike", Category: domain.CategoryCardio}, uncategorized))
}

func TestMatches_OnlyActiveGoals(t *testing.T) {
	done := goal("Squat", domain.CategoryStrength, "225 lbs x 5")
	done.Status = domain.GoalCompleted
	assert.False(t, progress.Matches(domain.ExerciseEntry{Name: "Squat", Category: domain.CategoryStrength}, done))
}

func TestMatchGoals_PreservesOrderAndEmpty(t *testing.T) {
	goals := []domain.Goal{
		goal("Deadlift", domain.CategoryStrength, ""),
		goal("Run", domain.CategoryCardio, ""),
		goal("Squat", domain.CategoryStrength, ""),
	}
	matched := progress.MatchGoals(domain.ExerciseEntry{Name: "Squat", Category: domain.CategoryStrength}, goals)
	if assert.Len(t, matched, 2) {
		assert.Equal(t, "Deadlift", matched[0].Title)
		assert.Equal(t, "Squat", matched[1].Title)
	}

	none := progress.MatchGoals(domain.ExerciseEntry{Name: "Row", Category: domain.CategoryCardio}, goals[:1])
	assert.Empty(t, none)
}
