package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"alcyxob/fittrack/internal/domain"
	"alcyxob/fittrack/internal/metrics"
	"alcyxob/fittrack/internal/progress"
	"alcyxob/fittrack/internal/repository"
	"alcyxob/fittrack/internal/session"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrWorkoutNotFound = errors.New("workout not found")

// WorkoutInput is the body of a direct workout create or update.
type WorkoutInput struct {
	UserID      primitive.ObjectID
	Name        string
	Description string
	Type        string
	Duration    float64
	StartTime   time.Time
}

// LogResult is a saved logging session together with the goal progress it produced.
type LogResult struct {
	Workout *domain.Workout
	Result  progress.Result
	Message string
}

type WorkoutService interface {
	CreateWorkout(ctx context.Context, in WorkoutInput) (*domain.Workout, error)
	GetWorkout(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	ListWorkouts(ctx context.Context) ([]domain.Workout, error)
	ListWorkoutsByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error)
	UpdateWorkout(ctx context.Context, id primitive.ObjectID, in WorkoutInput) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, id primitive.ObjectID) error
	// LogWorkout saves the entries as one workout, then reconciles them against the
	// user's goals. Goal update failures are reported in the result, not returned.
	LogWorkout(ctx context.Context, userID primitive.ObjectID, entries []domain.ExerciseEntry) (*LogResult, error)
}

type workoutService struct {
	workoutRepo repository.WorkoutRepository
	userRepo    repository.UserRepository
	recorder    *session.Recorder
	metrics     *metrics.Manager
}

// NewWorkoutService wires the logging session: workouts go through this service, goals
// are read from and progress is written through goals.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	userRepo repository.UserRepository,
	goals GoalService,
	metricsManager *metrics.Manager,
	reconcileOpts progress.Options,
) WorkoutService {
	s := &workoutService{
		workoutRepo: workoutRepo,
		userRepo:    userRepo,
		metrics:     metricsManager,
	}
	reconciler := progress.NewReconciler(goalProgressWriter{goals: goals}, reconcileOpts)
	s.recorder = session.NewRecorder(workoutStore{s}, goals, reconciler)
	return s
}

func (s *workoutService) CreateWorkout(ctx context.Context, in WorkoutInput) (*domain.Workout, error) {
	workout := &domain.Workout{UserID: in.UserID}
	if err := applyWorkoutInput(workout, in); err != nil {
		return nil, err
	}
	return s.insert(ctx, workout)
}

func (s *workoutService) insert(ctx context.Context, workout *domain.Workout) (*domain.Workout, error) {
	if workout.UserID.IsZero() {
		return nil, validationErr("userId is required")
	}
	if _, err := s.userRepo.GetByID(ctx, workout.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	id, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	return s.GetWorkout(ctx, id)
}

func (s *workoutService) GetWorkout(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) ListWorkouts(ctx context.Context) ([]domain.Workout, error) {
	return s.workoutRepo.List(ctx)
}

func (s *workoutService) ListWorkoutsByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error) {
	return s.workoutRepo.GetByUserID(ctx, userID, 0)
}

func (s *workoutService) UpdateWorkout(ctx context.Context, id primitive.ObjectID, in WorkoutInput) (*domain.Workout, error) {
	workout, err := s.GetWorkout(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyWorkoutInput(workout, in); err != nil {
		return nil, err
	}
	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return s.GetWorkout(ctx, id)
}

func (s *workoutService) DeleteWorkout(ctx context.Context, id primitive.ObjectID) error {
	if err := s.workoutRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	return nil
}

func (s *workoutService) LogWorkout(ctx context.Context, userID primitive.ObjectID, entries []domain.ExerciseEntry) (*LogResult, error) {
	out, err := s.recorder.Record(ctx, userID, entries)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoEntries), errors.Is(err, session.ErrInvalidEntry), errors.Is(err, session.ErrMissingUser):
			return nil, validationErr("%s", err.Error())
		case errors.Is(err, ErrUserNotFound):
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CounterWorkoutsLogged.Inc()
	}
	s.metrics.ObserveReconcile(out.Result)

	return &LogResult{
		Workout: out.Workout,
		Result:  out.Result,
		Message: out.Message(),
	}, nil
}

// applyWorkoutInput copies the non-empty fields of in and validates the result.
func applyWorkoutInput(workout *domain.Workout, in WorkoutInput) error {
	if name := strings.TrimSpace(in.Name); name != "" {
		workout.Name = name
	}
	if workout.Name == "" {
		return validationErr("workout name is required")
	}
	if d := strings.TrimSpace(in.Description); d != "" {
		workout.Description = d
	}
	if in.Type != "" {
		switch t := domain.WorkoutType(strings.ToLower(strings.TrimSpace(in.Type))); t {
		case domain.WorkoutStrength, domain.WorkoutCardio, domain.WorkoutMixed:
			workout.Type = t
		default:
			return validationErr("workout type must be strength, cardio or mixed")
		}
	}
	if in.Duration < 0 {
		return validationErr("duration cannot be negative")
	}
	if in.Duration > 0 {
		workout.Duration = in.Duration
	}
	if !in.StartTime.IsZero() {
		workout.StartTime = in.StartTime.UTC()
	}
	return nil
}

// workoutStore lets the logging session persist through the service's ownership checks.
type workoutStore struct {
	s *workoutService
}

func (w workoutStore) CreateWorkout(ctx context.Context, workout *domain.Workout) (*domain.Workout, error) {
	return w.s.insert(ctx, workout)
}

// goalProgressWriter persists reconciled progress through the goal service so the
// monotonic and completion rules of PATCH /goals/{id}/progress apply.
type goalProgressWriter struct {
	goals GoalService
}

func (w goalProgressWriter) UpdateGoal(ctx context.Context, goal domain.Goal) error {
	updated, err := w.goals.RecordProgress(ctx, goal.ID, goal.CurrentValue)
	if err != nil {
		return err
	}
	if goal.Status == domain.GoalCompleted && updated.Status != domain.GoalCompleted {
		_, err = w.goals.CompleteGoal(ctx, goal.ID)
	}
	return err
}
