package service

import (
	"context"
	"errors"
	"time"

	"alcyxob/fittrack/internal/domain"
	"alcyxob/fittrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

const (
	RecentWorkoutsLimit = 3
	weekWindow          = 7 * 24 * time.Hour
)

// Dashboard is the landing summary of one user.
type Dashboard struct {
	User             *domain.User
	RecentWorkouts   []domain.Workout
	ActiveGoals      []domain.Goal
	CompletedGoals   int64
	WorkoutsThisWeek int64
}

type DashboardService interface {
	GetDashboard(ctx context.Context, userID primitive.ObjectID) (*Dashboard, error)
}

type dashboardService struct {
	userRepo    repository.UserRepository
	workoutRepo repository.WorkoutRepository
	goalRepo    repository.GoalRepository
	now         func() time.Time
}

func NewDashboardService(userRepo repository.UserRepository, workoutRepo repository.WorkoutRepository, goalRepo repository.GoalRepository) DashboardService {
	return &dashboardService{
		userRepo:    userRepo,
		workoutRepo: workoutRepo,
		goalRepo:    goalRepo,
		now:         time.Now,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, userID primitive.ObjectID) (*Dashboard, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""

	d := &Dashboard{User: user}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recent, err := s.workoutRepo.GetByUserID(gctx, userID, RecentWorkoutsLimit)
		d.RecentWorkouts = recent
		return err
	})
	g.Go(func() error {
		count, err := s.workoutRepo.CountByUserSince(gctx, userID, s.now().Add(-weekWindow))
		d.WorkoutsThisWeek = count
		return err
	})
	g.Go(func() error {
		goals, err := s.goalRepo.GetByUserID(gctx, userID)
		if err != nil {
			return err
		}
		d.ActiveGoals = []domain.Goal{}
		for _, goal := range goals {
			if goal.IsActive() {
				d.ActiveGoals = append(d.ActiveGoals, goal)
			}
		}
		return nil
	})
	g.Go(func() error {
		count, err := s.goalRepo.CountByUserAndStatus(gctx, userID, domain.GoalCompleted)
		d.CompletedGoals = count
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}
