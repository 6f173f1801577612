package repository

import (
	"context"
	"time"

	"alcyxob/fittrack/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("already exists")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	List(ctx context.Context) ([]domain.Workout, error)
	// GetByUserID returns the user's workouts, newest start time first, ties by id descending.
	// limit <= 0 returns all of them.
	GetByUserID(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.Workout, error)
	CountByUserSince(ctx context.Context, userID primitive.ObjectID, since time.Time) (int64, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// GoalRepository defines the interface for interacting with goal data.
type GoalRepository interface {
	Create(ctx context.Context, goal *domain.Goal) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Goal, error)
	List(ctx context.Context) ([]domain.Goal, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Goal, error)
	// ExistsActiveByTitle reports whether the user has an active goal whose title equals
	// title ignoring case. excludeID, when not zero, is left out of the check.
	ExistsActiveByTitle(ctx context.Context, userID primitive.ObjectID, title string, excludeID primitive.ObjectID) (bool, error)
	CountByUserAndStatus(ctx context.Context, userID primitive.ObjectID, status domain.GoalStatus) (int64, error)
	Update(ctx context.Context, goal *domain.Goal) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
