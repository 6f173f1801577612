package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"alcyxob/fittrack/internal/domain"
	"alcyxob/fittrack/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength matches the registration form.
const MinPasswordLength = 6

const tokenIssuer = "fittrack"

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// RegisterInput is everything the registration form collects.
type RegisterInput struct {
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

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 24 * time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register handles new user registration.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, validationErr("username, email and password are required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, validationErr("invalid email address")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, validationErr("password must be at least %d characters", MinPasswordLength)
	}
	if err := validateDate("dateOfBirth", in.DateOfBirth); err != nil {
		return nil, err
	}
	if in.Height < 0 || in.Weight < 0 {
		return nil, validationErr("height and weight cannot be negative")
	}

	_, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		DateOfBirth:  in.DateOfBirth,
		Gender:       in.Gender,
		Height:       in.Height,
		Weight:       in.Weight,
		FitnessLevel: in.FitnessLevel,
		FitnessGoals: in.FitnessGoals,
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// Unique email index lost a race with another registration.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.ID = userID
	user.PasswordHash = ""

	log.WithField("user_id", userID.Hex()).Info("user registered")
	return user, nil
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, validationErr("email and password cannot be empty")
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err = s.generateJWT(user)
	if err != nil {
		log.Errorf("sign token for user %s: %s", user.ID.Hex(), err)
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// Claims is the JWT payload. The API middleware parses the same structure.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}

// validateDate accepts an empty value or a YYYY-MM-DD date.
func validateDate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(domain.DateLayout, value); err != nil {
		return validationErr("%s must be a YYYY-MM-DD date", field)
	}
	return nil
}
