package api

import (
	"fmt"
	"net/http"

	"alcyxob/fittrack/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateUserRequest is the editable profile. An empty password keeps the current one.
type UpdateUserRequest struct {
	Username     string              `json:"username"`
	Email        string              `json:"email" binding:"omitempty,email"`
	Password     string              `json:"password" binding:"omitempty,min=6"`
	FirstName    string              `json:"firstName"`
	LastName     string              `json:"lastName"`
	DateOfBirth  string              `json:"dateOfBirth"`
	Gender       string              `json:"gender"`
	Height       float64             `json:"height" binding:"gte=0"`
	Weight       float64             `json:"weight" binding:"gte=0"`
	FitnessLevel string              `json:"fitnessLevel"`
	FitnessGoals map[string][]string `json:"fitnessGoals"`
}

// ListUsers godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve users")
		return
	}
	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = MapUserToResponse(&users[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetUser godoc
// @Summary Get a user by ID
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} UserResponse
// @Failure 400 {object} gin.H "Invalid ID"
// @Failure 404 {object} gin.H "User not found"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// UpdateUser godoc
// @Summary Update a user profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param user body UpdateUserRequest true "Profile"
// @Success 200 {object} UserResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "User not found"
// @Failure 409 {object} gin.H "Email already in use"
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, service.UserUpdate{
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
		abortWithServiceError(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags Users
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "User not found"
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		abortWithServiceError(c, err, "Failed to delete user")
		return
	}
	c.Status(http.StatusNoContent)
}
