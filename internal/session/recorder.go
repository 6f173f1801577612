// Package session records one workout logging session: the entries are validated,
// saved as a single workout, and only then folded into the user's goal progress.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alcyxob/fittrack/internal/domain"
	"alcyxob/fittrack/internal/progress"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNoEntries        = errors.New("please add at least one exercise")
	ErrInvalidEntry     = errors.New("invalid exercise entry")
	ErrWorkoutNotSaved  = errors.New("failed to save workout")
	ErrMissingUser      = errors.New("user id is required")
	ErrGoalsUnavailable = errors.New("failed to load goals")
)

const (
	savedWithProgress = "Workout saved!"
	savedPlain        = "Workout saved successfully! Goal progress updated."
)

// WorkoutStore persists a newly built workout and returns the stored copy.
type WorkoutStore interface {
	CreateWorkout(ctx context.Context, workout *domain.Workout) (*domain.Workout, error)
}

// GoalSource lists the goals of a user, active or not.
type GoalSource interface {
	ListGoalsByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Goal, error)
}

// Outcome of a recorded session.
type Outcome struct {
	Workout *domain.Workout
	Result  progress.Result
	// GoalsErr is set when the workout was saved but the goals could not be loaded.
	GoalsErr error
}

// Message is the confirmation shown to the user after saving.
func (o Outcome) Message() string {
	if len(o.Result.Summaries) == 0 {
		return savedPlain
	}
	return savedWithProgress + " " + strings.Join(o.Result.Summaries, " • ")
}

// Recorder runs save-then-reconcile.
type Recorder struct {
	workouts   WorkoutStore
	goals      GoalSource
	reconciler *progress.Reconciler
	now        func() time.Time
}

// NewRecorder wires a Recorder. The reconciler carries its own GoalUpdater.
func NewRecorder(workouts WorkoutStore, goals GoalSource, reconciler *progress.Reconciler) *Recorder {
	return &Recorder{
		workouts:   workouts,
		goals:      goals,
		reconciler: reconciler,
		now:        time.Now,
	}
}

// WithClock replaces the time source, used for workout names and start times.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// PrepareEntries normalizes and validates entries. The returned slice is safe to
// hand to Record.
func PrepareEntries(entries []domain.ExerciseEntry) ([]domain.ExerciseEntry, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	prepared := make([]domain.ExerciseEntry, 0, len(entries))
	for i, e := range entries {
		e = e.Normalize()
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%w: exercise %d: %w", ErrInvalidEntry, i+1, err)
		}
		prepared = append(prepared, e)
	}
	return prepared, nil
}

// Record saves the entries as one workout and reconciles them against the user's
// goals. When the save fails nothing is reconciled and ErrWorkoutNotSaved is returned.
// Goal loading and goal update failures never fail the call; the workout is saved.
func (r *Recorder) Record(ctx context.Context, userID primitive.ObjectID, entries []domain.ExerciseEntry) (*Outcome, error) {
	if userID.IsZero() {
		return nil, ErrMissingUser
	}
	prepared, err := PrepareEntries(entries)
	if err != nil {
		return nil, err
	}

	workout := domain.BuildWorkout(userID, prepared, r.now())
	saved, err := r.workouts.CreateWorkout(ctx, workout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWorkoutNotSaved, err)
	}
	if saved == nil {
		saved = workout
	}
	log.WithFields(log.Fields{"user_id": userID.Hex(), "workout_id": saved.ID.Hex()}).
		Infof("workout saved with %d exercises", len(prepared))

	out := &Outcome{Workout: saved}
	goals, err := r.goals.ListGoalsByUser(ctx, userID)
	if err != nil {
		out.GoalsErr = fmt.Errorf("%w: %w", ErrGoalsUnavailable, err)
		log.WithField("user_id", userID.Hex()).Errorf("skipping goal reconciliation: %s", err)
		return out, nil
	}

	out.Result = r.reconciler.Reconcile(ctx, prepared, goals)
	return out, nil
}
