package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"alcyxob/fittrack/internal/domain"
	"alcyxob/fittrack/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultGoalUnit is the unit of CurrentValue.
const DefaultGoalUnit = "%"

var (
	ErrGoalNotFound    = errors.New("goal not found")
	ErrGoalConflict    = errors.New("an active goal with this title already exists")
	ErrGoalRepsMissing = errors.New("please enter target reps for strength goals")
	ErrGoalReactivate  = errors.New("completed goals cannot be reactivated")
)

// GoalInput is the body of a goal create or update. When Targets is set, the
// category is inferred from it and the description is generated.
type GoalInput struct {
	UserID       primitive.ObjectID
	Title        string
	Description  string
	Category     string
	Status       string
	TargetValue  float64
	CurrentValue float64
	Unit         string
	StartDate    string
	TargetDate   string
	Targets      *domain.GoalTargets
}

type GoalService interface {
	CreateGoal(ctx context.Context, in GoalInput) (*domain.Goal, error)
	GetGoal(ctx context.Context, id primitive.ObjectID) (*domain.Goal, error)
	ListGoals(ctx context.Context) ([]domain.Goal, error)
	ListGoalsByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Goal, error)
	// UpdateGoal replaces the goal's fields. Empty fields keep their stored value and
	// CurrentValue never decreases.
	UpdateGoal(ctx context.Context, id primitive.ObjectID, in GoalInput) (*domain.Goal, error)
	// RecordProgress raises CurrentValue and completes the goal once it reaches 100%.
	RecordProgress(ctx context.Context, id primitive.ObjectID, value float64) (*domain.Goal, error)
	CompleteGoal(ctx context.Context, id primitive.ObjectID) (*domain.Goal, error)
	DeleteGoal(ctx context.Context, id primitive.ObjectID) error
}

type goalService struct {
	goalRepo repository.GoalRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

func NewGoalService(goalRepo repository.GoalRepository, userRepo repository.UserRepository) GoalService {
	return &goalService{
		goalRepo: goalRepo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

func (s *goalService) CreateGoal(ctx context.Context, in GoalInput) (*domain.Goal, error) {
	if in.UserID.IsZero() {
		return nil, validationErr("userId is required")
	}
	if _, err := s.userRepo.GetByID(ctx, in.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	goal := &domain.Goal{
		UserID:      in.UserID,
		Title:       strings.TrimSpace(in.Title),
		Status:      domain.GoalActive,
		TargetValue: domain.DefaultGoalTarget,
		Unit:        DefaultGoalUnit,
		StartDate:   s.now().Format(domain.DateLayout),
	}
	if goal.Title == "" {
		return nil, validationErr("please enter a goal title")
	}
	if err := s.applyInput(goal, in); err != nil {
		return nil, err
	}

	if goal.IsActive() {
		if err := s.checkConflict(ctx, goal); err != nil {
			return nil, err
		}
	}

	id, err := s.goalRepo.Create(ctx, goal)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"goal_id": id.Hex(), "user_id": goal.UserID.Hex()}).Infof("goal %q created", goal.Title)
	return s.GetGoal(ctx, id)
}

func (s *goalService) GetGoal(ctx context.Context, id primitive.ObjectID) (*domain.Goal, error) {
	goal, err := s.goalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

func (s *goalService) ListGoals(ctx context.Context) ([]domain.Goal, error) {
	return s.goalRepo.List(ctx)
}

func (s *goalService) ListGoalsByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Goal, error) {
	return s.goalRepo.GetByUserID(ctx, userID)
}

func (s *goalService) UpdateGoal(ctx context.Context, id primitive.ObjectID, in GoalInput) (*domain.Goal, error) {
	goal, err := s.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}
	if goal.Status == domain.GoalCompleted &&
		domain.GoalStatus(strings.ToLower(strings.TrimSpace(in.Status))) == domain.GoalActive {
		return nil, ErrGoalReactivate
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		goal.Title = title
	}
	if err := s.applyInput(goal, in); err != nil {
		return nil, err
	}

	if goal.IsActive() {
		if err := s.checkConflict(ctx, goal); err != nil {
			return nil, err
		}
	}
	return s.save(ctx, goal)
}

func (s *goalService) RecordProgress(ctx context.Context, id primitive.ObjectID, value float64) (*domain.Goal, error) {
	if math.IsNaN(value) || value < 0 || value > domain.DefaultGoalTarget {
		return nil, validationErr("progress must be a percentage between 0 and 100")
	}
	goal, err := s.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}
	if value <= goal.CurrentValue {
		return goal, nil
	}
	goal.CurrentValue = value
	completeIfReached(goal)
	return s.save(ctx, goal)
}

func (s *goalService) CompleteGoal(ctx context.Context, id primitive.ObjectID) (*domain.Goal, error) {
	goal, err := s.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}
	if goal.Status == domain.GoalCompleted {
		return goal, nil
	}
	goal.Status = domain.GoalCompleted
	return s.save(ctx, goal)
}

func (s *goalService) DeleteGoal(ctx context.Context, id primitive.ObjectID) error {
	if err := s.goalRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrGoalNotFound
		}
		return err
	}
	return nil
}

func (s *goalService) save(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	if err := s.goalRepo.Update(ctx, goal); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	return s.GetGoal(ctx, goal.ID)
}

func (s *goalService) checkConflict(ctx context.Context, goal *domain.Goal) error {
	exists, err := s.goalRepo.ExistsActiveByTitle(ctx, goal.UserID, goal.Title, goal.ID)
	if err != nil {
		return err
	}
	if exists {
		return ErrGoalConflict
	}
	return nil
}

// applyInput copies the non-empty fields of in onto goal and validates the result.
func (s *goalService) applyInput(goal *domain.Goal, in GoalInput) error {
	requested := domain.Category(in.Category)
	if in.Targets != nil {
		requested = in.Targets.InferCategory(requested)
	}
	if requested != "" {
		category, ok := domain.ParseCategory(string(requested))
		if !ok {
			return validationErr("category must be strength or cardio")
		}
		goal.Category = category
	}

	if in.Targets != nil {
		t := *in.Targets
		if t.Sets < 0 || t.Reps < 0 || t.Weight < 0 || t.Duration < 0 || t.Distance < 0 {
			return validationErr("goal targets cannot be negative")
		}
		if goal.Category == domain.CategoryStrength && t.Reps <= 0 {
			return fmt.Errorf("%w: %w", ErrValidationFailed, ErrGoalRepsMissing)
		}
		goal.Description = t.Describe(goal.Category, goal.Title)
	} else if d := strings.TrimSpace(in.Description); d != "" {
		goal.Description = d
	}

	if in.Status != "" {
		switch status := domain.GoalStatus(strings.ToLower(strings.TrimSpace(in.Status))); status {
		case domain.GoalActive, domain.GoalCompleted:
			goal.Status = status
		default:
			return validationErr("status must be active or completed")
		}
	}

	if in.TargetValue != 0 && in.TargetValue != domain.DefaultGoalTarget {
		return validationErr("targetValue must be 100")
	}
	if math.IsNaN(in.CurrentValue) || in.CurrentValue < 0 || in.CurrentValue > domain.DefaultGoalTarget {
		return validationErr("currentValue must be a percentage between 0 and 100")
	}
	if in.CurrentValue > goal.CurrentValue {
		goal.CurrentValue = in.CurrentValue
	}
	if in.Unit != "" {
		goal.Unit = strings.TrimSpace(in.Unit)
	}

	if in.StartDate != "" {
		goal.StartDate = in.StartDate
	}
	if in.TargetDate != "" {
		goal.TargetDate = in.TargetDate
	}
	if err := validateDate("startDate", goal.StartDate); err != nil {
		return err
	}
	if err := validateDate("targetDate", goal.TargetDate); err != nil {
		return err
	}
	if goal.StartDate != "" && goal.TargetDate != "" && goal.TargetDate < goal.StartDate {
		return validationErr("targetDate cannot be before startDate")
	}

	completeIfReached(goal)
	return nil
}

// completeIfReached completes the goal at 100%, whatever TargetValue a stored
// document carries.
func completeIfReached(goal *domain.Goal) {
	if goal.CurrentValue >= domain.DefaultGoalTarget {
		goal.Status = domain.GoalCompleted
	}
}
