package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"alcyxob/fittrack/internal/domain"
	"alcyxob/fittrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var ErrUserNotFound = errors.New("user not found")

// UserUpdate carries the editable profile. Empty fields, Password included, leave the
// stored values unchanged.
type UserUpdate struct {
	Username     string
	Email        string
	Password     string
	FirstName    string
	LastName     string
	DateOfBirth  string
	Gender       string
	Height       float64
	Weight       float64
	FitnessLevel string
	FitnessGoals map[string][]string
}

type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, in UserUpdate) (*domain.User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) GetUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id primitive.ObjectID, in UserUpdate) (*domain.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if username := strings.TrimSpace(in.Username); username != "" {
		user.Username = username
	}
	if email := strings.ToLower(strings.TrimSpace(in.Email)); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, validationErr("invalid email address")
		}
		user.Email = email
	}
	if in.Password != "" && len(in.Password) < MinPasswordLength {
		return nil, validationErr("password must be at least %d characters", MinPasswordLength)
	}
	if err := validateDate("dateOfBirth", in.DateOfBirth); err != nil {
		return nil, err
	}
	if in.Height < 0 || in.Weight < 0 {
		return nil, validationErr("height and weight cannot be negative")
	}

	// Empty fields keep their stored values.
	if v := strings.TrimSpace(in.FirstName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(in.LastName); v != "" {
		user.LastName = v
	}
	if in.DateOfBirth != "" {
		user.DateOfBirth = in.DateOfBirth
	}
	if in.Gender != "" {
		user.Gender = in.Gender
	}
	if in.Height > 0 {
		user.Height = in.Height
	}
	if in.Weight > 0 {
		user.Weight = in.Weight
	}
	if in.FitnessLevel != "" {
		user.FitnessLevel = in.FitnessLevel
	}
	if in.FitnessGoals != nil {
		user.FitnessGoals = in.FitnessGoals
	}
	user.PasswordHash = ""
	if in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrHashingFailed
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	return s.GetUser(ctx, id)
}

func (s *userService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
