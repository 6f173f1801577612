package service_test

import (
	"context"
	"testing"
	"time"

	"alcyxob/fittrack/internal/domain"
	"alcyxob/fittrack/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateGoal_FromTargets(t *testing.T) {
	s := newServices(t)
	user := s.register(t, "ana@example.com")

	goal, err := s.goals.CreateGoal(context.Background(), service.GoalInput{
		UserID:     user.ID,
		Title:      "  Bench Press ",
		Category:   "cardio",
		TargetDate: "2099-01-01",
		Targets:    &domain.GoalTargets{Sets: 3, Reps: 10, Weight: 135, Notes: "paused reps"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bench Press", goal.Title)
	assert.Equal(t, domain.CategoryStrength, goal.Category, "weight and reps make it a strength goal")
	assert.Equal(t, "135 lbs x 10 reps • 3 sets • paused reps", goal.Description)
	assert.Equal(t, domain.GoalActive, goal.Status)
	assert.Equal(t, 100.0, goal.TargetValue)
	assert.Equal(t, 0.0, goal.CurrentValue)
	assert.Equal(t, "%", goal.Unit)
	assert.Equal(t, time.Now().Format(domain.DateLayout), goal.StartDate)
}

func TestCreateGoal_Validation(t *testing.T) {
	s := newServices(t)
	user := s.register(t, "ana@example.com")
	ctx := context.Background()

	_, err := s.goals.CreateGoal(ctx, service.GoalInput{UserID: user.ID, Title: " "})
	assert.ErrorIs(t, err, service.ErrValidationFailed)

	_, err = s.goals.CreateGoal(ctx, service.GoalInput{UserID: user.ID, Title: "Squat", Targets: &domain.GoalTargets{Weight: 225}})
	assert.ErrorIs(t, err, service.ErrValidationFailed)
	assert.ErrorIs(t, err, service.ErrGoalRepsMissing)

	_, err = s.goals.CreateGoal(ctx, service.GoalInput{UserID: user.ID, Title: "Swim", Category: "yoga"})
	assert.ErrorIs(t, err, service.ErrValidationFailed)

	_, err = s.goals.CreateGoal(ctx, service.GoalInput{UserID: user.ID, Title: "Run", StartDate: "2024-05-10", TargetDate: "2024-05-01"})
	assert.ErrorIs(t, err, service.ErrValidationFailed)

	_, err = s.goals.CreateGoal(ctx, service.GoalInput{UserID: primitive.NewObjectID(), Title: "Run"})
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestCreateGoal_DuplicateActiveTitle(t *testing.T) {
	s := newServices(t)
	user := s.register(t, "ana@example.com")
	ctx := context.Background()

	first, err := s.goals.CreateGoal(ctx, service.GoalInput{UserID: user.ID, Title: "Bench Press", Description: "135 lbs x 10 reps"})
	require.NoError(t, err)

	_, err = s.goals.CreateGoal(ctx, service.GoalInput{UserID: user.ID, Title: "bench press "})
	assert.ErrorIs(t, err, service.ErrGoalConflict)

	other := s.register(t, "bo@example.com")
	_, err = s.goals.CreateGoal(ctx, service.GoalInput{UserID: other.ID, Title: "Bench Press"})
	assert.NoError(t, err, "titles are unique per user")

	_, err = s.goals.CompleteGoal(ctx, first.ID)
	require.NoError(t, err)
	_, err = s.goals.CreateGoal(ctx, service.GoalInput{UserID: user.ID, Title: "Bench Press"})
	assert.NoError(t, err, "completed goals free the title")
}

func TestUpdateGoal_ConflictMonotonicAndTerminal(t *testing.T) {
	s := newServices(t)
	user := s.register(t, "ana@example.com")
	ctx := context.Background()

	_, err := s.goals.CreateGoal(ctx, service.GoalInput{UserID: user.ID, Title: "Squat"})
	require.NoError(t, err)
	run, err := s.goals.CreateGoal(ctx, service.GoalInput{UserID: user.ID, Title: "Run", Description: "5 mi"})
	require.NoError(t, err)

	_, err = s.goals.UpdateGoal(ctx, run.ID, service.GoalInput{Title: "SQUAT"})
	assert.ErrorIs(t, err, service.ErrGoalConflict)

	updated, err := s.goals.UpdateGoal(ctx, run.ID, service.GoalInput{CurrentValue: 60})
	require.NoError(t, err)
	assert.Equal(t, 60.0, updated.CurrentValue)
	assert.Equal(t, "Run", updated.Title)
	assert.Equal(t, "5 mi", updated.Description)

	updated, err = s.goals.UpdateGoal(ctx, run.ID, service.GoalInput{CurrentValue: 20})
	require.NoError(t, err)
	assert.Equal(t, 60.0, updated.CurrentValue, "progress never decreases")

	updated, err = s.goals.UpdateGoal(ctx, run.ID, service.GoalInput{CurrentValue: 100})
	require.NoError(t, err)
	assert.Equal(t, domain.GoalCompleted, updated.Status)

	_, err = s.goals.UpdateGoal(ctx, run.ID, service.GoalInput{Status: "active"})
	assert.ErrorIs(t, err, service.ErrGoalReactivate)
}

func TestRecordProgress(t *testing.T) {
	s := newServices(t)
	user := s.register(t, "ana@example.com")
	ctx := context.Background()

	goal, err := s.goals.CreateGoal(ctx, service.GoalInput{UserID: user.ID, Title: "Run"})
	require.NoError(t, err)

	goal, err = s.goals.RecordProgress(ctx, goal.ID, 80)
	require.NoError(t, err)
	assert.Equal(t, domain.GoalActive, goal.Status, "only 100% completes a goal")

	goal, err = s.goals.RecordProgress(ctx, goal.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, 80.0, goal.CurrentValue)

	_, err = s.goals.RecordProgress(ctx, goal.ID, -1)
	assert.ErrorIs(t, err, service.ErrValidationFailed)

	_, err = s.goals.RecordProgress(ctx, goal.ID, 250)
	assert.ErrorIs(t, err, service.ErrValidationFailed)

	goal, err = s.goals.GetGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 80.0, goal.CurrentValue)

	goal, err = s.goals.RecordProgress(ctx, goal.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.GoalCompleted, goal.Status)

	_, err = s.goals.RecordProgress(ctx, primitive.NewObjectID(), 10)
	assert.ErrorIs(t, err, service.ErrGoalNotFound)
}

func TestGoalValues_ArePercentages(t *testing.T) {
	s := newServices(t)
	user := s.register(t, "ana@example.com")
	ctx := context.Background()

	_, err := s.goals.CreateGoal(ctx, service.GoalInput{UserID: user.ID, Title: "Bench Press", TargetValue: 50})
	assert.ErrorIs(t, err, service.ErrValidationFailed)

	_, err = s.goals.CreateGoal(ctx, service.GoalInput{UserID: user.ID, Title: "Bench Press", CurrentValue: 120})
	assert.ErrorIs(t, err, service.ErrValidationFailed)

	goal, err := s.goals.CreateGoal(ctx, service.GoalInput{UserID: user.ID, Title: "Bench Press", TargetValue: 100, CurrentValue: 30})
	require.NoError(t, err)
	assert.Equal(t, 100.0, goal.TargetValue)

	_, err = s.goals.UpdateGoal(ctx, goal.ID, service.GoalInput{TargetValue: 50})
	assert.ErrorIs(t, err, service.ErrValidationFailed)

	_, err = s.goals.UpdateGoal(ctx, goal.ID, service.GoalInput{CurrentValue: 250})
	assert.ErrorIs(t, err, service.ErrValidationFailed)

	stored, err := s.goals.GetGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, stored.CurrentValue)
	assert.Equal(t, domain.GoalActive, stored.Status)
}

func TestDeleteGoal(t *testing.T) {
	s := newServices(t)
	user := s.register(t, "ana@example.com")
	ctx := context.Background()

	goal, err := s.goals.CreateGoal(ctx, service.GoalInput{UserID: user.ID, Title: "Row"})
	require.NoError(t, err)
	require.NoError(t, s.goals.DeleteGoal(ctx, goal.ID))
	assert.ErrorIs(t, s.goals.DeleteGoal(ctx, goal.ID), service.ErrGoalNotFound)
}
