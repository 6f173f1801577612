package api

import (
	"fmt"
	"net/http"
	"time"

	"alcyxob/fittrack/internal/domain"
	"alcyxob/fittrack/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Username     string              `json:"username" binding:"required"`
	Email        string              `json:"email" binding:"required,email"`
	Password     string              `json:"password" binding:"required,min=6"`
	FirstName    string              `json:"firstName"`
	LastName     string              `json:"lastName"`
	DateOfBirth  string              `json:"dateOfBirth"` // YYYY-MM-DD
	Gender       string              `json:"gender"`
	Height       float64             `json:"height" binding:"gte=0"`
	Weight       float64             `json:"weight" binding:"gte=0"`
	FitnessLevel string              `json:"fitnessLevel"`
	FitnessGoals map[string][]string `json:"fitnessGoals"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID           string              `json:"id"`
	Username     string              `json:"username"`
	Email        string              `json:"email"`
	FirstName    string              `json:"firstName,omitempty"`
	LastName     string              `json:"lastName,omitempty"`
	DateOfBirth  string              `json:"dateOfBirth,omitempty"`
	Gender       string              `json:"gender,omitempty"`
	Height       float64             `json:"height,omitempty"`
	Weight       float64             `json:"weight,omitempty"`
	FitnessLevel string              `json:"fitnessLevel,omitempty"`
	FitnessGoals map[string][]string `json:"fitnessGoals,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new user
// @Description Creates a new user account. Also served as POST /users.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} UserResponse "User created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (email already exists)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DateOfBirth:  req.DateOfBirth,
		Gender:       req.Gender,
		Height:       req.Height,
		Weight:       req.Weight,
		FitnessLevel: req.FitnessLevel,
		FitnessGoals: req.FitnessGoals,
	})
	if err != nil {
		abortWithServiceError(c, err, "An unexpected error occurred during registration")
		return
	}

	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates a user and returns a JWT token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abortWithServiceError(c, err, "An unexpected error occurred during login")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  MapUserToResponse(user),
	})
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:           user.ID.Hex(),
		Username:     user.Username,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		DateOfBirth:  user.DateOfBirth,
		Gender:       user.Gender,
		Height:       user.Height,
		Weight:       user.Weight,
		FitnessLevel: user.FitnessLevel,
		FitnessGoals: user.FitnessGoals,
		CreatedAt:    user.CreatedAt,
	}
}
