package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"alcyxob/fittrack/internal/domain"
	"alcyxob/fittrack/internal/progress"
	"alcyxob/fittrack/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeStore struct {
	mu       sync.Mutex
	workouts []domain.Workout
	goals    []domain.Goal
	updated  []domain.Goal

	createErr error
	listErr   error
}

func (f *fakeStore) CreateWorkout(_ context.Context, w *domain.Workout) (*domain.Workout, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	saved := *w
	saved.ID = primitive.NewObjectID()
	f.workouts = append(f.workouts, saved)
	return &saved, nil
}

func (f *fakeStore) ListGoalsByUser(_ context.Context, _ primitive.ObjectID) ([]domain.Goal, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.goals, nil
}

func (f *fakeStore) UpdateGoal(_ context.Context, g domain.Goal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, g)
	return nil
}

func newRecorder(store *fakeStore) *session.Recorder {
	clock := func() time.Time { return time.Date(2024, time.March, 5, 18, 30, 0, 0, time.UTC) }
	return session.NewRecorder(store, store, progress.NewReconciler(store, progress.Options{})).WithClock(clock)
}

func TestRecord_SavesThenReconciles(t *testing.T) {
	userID := primitive.NewObjectID()
	store := &fakeStore{goals: []domain.Goal{{
		ID:          primitive.NewObjectID(),
		Title:       "Bench Press",
		Description: "135 lbs x 10 reps • 3 sets",
		Category:    domain.CategoryStrength,
		Status:      domain.GoalActive,
		TargetValue: 100,
		UserID:      userID,
	}}}

	out, err := newRecorder(store).Record(context.Background(), userID, []domain.ExerciseEntry{
		{Name: " Bench Press ", Sets: 3, Reps: 5, Weight: 135},
	})
	require.NoError(t, err)

	require.Len(t, store.workouts, 1)
	assert.Equal(t, "Workout - Mar 5, 2024", store.workouts[0].Name)
	assert.Equal(t, "Bench Press: 3x5 @ 135 lbs", store.workouts[0].Description)
	assert.Equal(t, domain.WorkoutStrength, store.workouts[0].Type)
	assert.Equal(t, userID, store.workouts[0].UserID)

	require.Len(t, store.updated, 1)
	assert.Equal(t, 50.0, store.updated[0].CurrentValue)
	assert.Equal(t, "Workout saved! Bench Press: best 5-rep @ 135 lb - 50% of goal (add reps)", out.Message())
}

func TestRecord_NoMatchingGoals(t *testing.T) {
	store := &fakeStore{}

	out, err := newRecorder(store).Record(context.Background(), primitive.NewObjectID(), []domain.ExerciseEntry{
		{Name: "Run", Distance: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.WorkoutCardio, out.Workout.Type)
	assert.Equal(t, "Workout saved successfully! Goal progress updated.", out.Message())
}

func TestRecord_SaveFailureSkipsReconciliation(t *testing.T) {
	store := &fakeStore{
		createErr: errors.New("db down"),
		goals: []domain.Goal{{
			ID: primitive.NewObjectID(), Title: "Run", Description: "5 mi",
			Category: domain.CategoryCardio, Status: domain.GoalActive,
		}},
	}

	out, err := newRecorder(store).Record(context.Background(), primitive.NewObjectID(), []domain.ExerciseEntry{
		{Name: "Run", Distance: 5},
	})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, session.ErrWorkoutNotSaved)
	assert.Empty(t, store.updated)
}

func TestRecord_GoalLoadFailureStillSaves(t *testing.T) {
	store := &fakeStore{listErr: errors.New("timeout")}

	out, err := newRecorder(store).Record(context.Background(), primitive.NewObjectID(), []domain.ExerciseEntry{
		{Name: "Squat", Sets: 5, Reps: 5, Weight: 225},
	})
	require.NoError(t, err)
	assert.Len(t, store.workouts, 1)
	assert.ErrorIs(t, out.GoalsErr, session.ErrGoalsUnavailable)
}

func TestRecord_InvalidEntriesNeverReachTheStore(t *testing.T) {
	store := &fakeStore{}
	rec := newRecorder(store)

	_, err := rec.Record(context.Background(), primitive.NewObjectID(), nil)
	assert.ErrorIs(t, err, session.ErrNoEntries)

	_, err = rec.Record(context.Background(), primitive.NewObjectID(), []domain.ExerciseEntry{
		{Name: "Bench Press", Sets: 3, Reps: 10},
		{Name: "Deadlift", Sets: 0, Reps: 5},
	})
	assert.ErrorIs(t, err, session.ErrInvalidEntry)
	assert.ErrorIs(t, err, domain.ErrEntrySetsRepsRequired)
	assert.Contains(t, err.Error(), "exercise 2")

	_, err = rec.Record(context.Background(), primitive.NilObjectID, []domain.ExerciseEntry{{Name: "Run", Duration: 10}})
	assert.ErrorIs(t, err, session.ErrMissingUser)

	assert.Empty(t, store.workouts)
}
