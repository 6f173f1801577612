package api

import (
	"fmt"
	"net/http"

	"alcyxob/fittrack/internal/domain"
	"alcyxob/fittrack/internal/service"

	"github.com/gin-gonic/gin"
)

type GoalHandler struct {
	goalService service.GoalService
}

func NewGoalHandler(goalService service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// --- DTOs ---

// GoalTargetsRequest are the numeric goal inputs. When present, the category is inferred
// from them and the description is generated.
type GoalTargetsRequest struct {
	Sets     int     `json:"sets" binding:"gte=0"`
	Reps     int     `json:"reps" binding:"gte=0"`
	Weight   float64 `json:"weight" binding:"gte=0"`   // lbs
	Duration float64 `json:"duration" binding:"gte=0"` // minutes
	Distance float64 `json:"distance" binding:"gte=0"` // miles
	Notes    string  `json:"notes"`
}

// GoalRequest creates or updates a goal. Empty fields keep their stored values on update;
// on create UserID defaults to the caller.
type GoalRequest struct {
	UserID       string              `json:"userId"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Category     string              `json:"category"`
	Status       string              `json:"status"`
	TargetValue  float64             `json:"targetValue"`
	CurrentValue float64             `json:"currentValue"`
	Unit         string              `json:"unit"`
	StartDate    string              `json:"startDate"`
	TargetDate   string              `json:"targetDate"`
	Targets      *GoalTargetsRequest `json:"targets"`
}

type ProgressRequest struct {
	CurrentValue *float64 `json:"currentValue" binding:"required"`
}

type GoalResponse struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Category     domain.Category   `json:"category"`
	Status       domain.GoalStatus `json:"status"`
	TargetValue  float64           `json:"targetValue"`
	CurrentValue float64           `json:"currentValue"`
	Unit         string            `json:"unit"`
	StartDate    string            `json:"startDate,omitempty"`
	TargetDate   string            `json:"targetDate,omitempty"`
	UserID       string            `json:"userId"`
}

// --- Handlers ---

// CreateGoal godoc
// @Summary Create a goal
// @Description Creates an active goal. A user can hold only one active goal per title.
// @Tags Goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param goal body GoalRequest true "Goal"
// @Success 201 {object} GoalResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "User not found"
// @Failure 409 {object} gin.H "An active goal with this title already exists"
// @Router /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	in, ok := h.bindGoal(c, true)
	if !ok {
		return
	}
	goal, err := h.goalService.CreateGoal(c.Request.Context(), in)
	if err != nil {
		abortWithServiceError(c, err, "Failed to create goal")
		return
	}
	c.JSON(http.StatusCreated, MapGoalToResponse(goal))
}

// ListGoals godoc
// @Summary List all goals
// @Tags Goals
// @Produce json
// @Security BearerAuth
// @Success 200 {array} GoalResponse
// @Router /goals [get]
func (h *GoalHandler) ListGoals(c *gin.Context) {
	goals, err := h.goalService.ListGoals(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve goals")
		return
	}
	c.JSON(http.StatusOK, MapGoalsToResponse(goals))
}

// GetGoal godoc
// @Summary Get a goal by ID
// @Tags Goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Success 200 {object} GoalResponse
// @Failure 404 {object} gin.H "Goal not found"
// @Router /goals/{id} [get]
func (h *GoalHandler) GetGoal(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	goal, err := h.goalService.GetGoal(c.Request.Context(), id)
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve goal")
		return
	}
	c.JSON(http.StatusOK, MapGoalToResponse(goal))
}

// ListUserGoals godoc
// @Summary List the goals of a user, active and completed
// @Tags Goals
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {array} GoalResponse
// @Router /goals/user/{userId} [get]
func (h *GoalHandler) ListUserGoals(c *gin.Context) {
	userID, ok := objectIDParam(c, "userId")
	if !ok {
		return
	}
	goals, err := h.goalService.ListGoalsByUser(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve goals")
		return
	}
	c.JSON(http.StatusOK, MapGoalsToResponse(goals))
}

// UpdateGoal godoc
// @Summary Update a goal
// @Description Progress never decreases and a completed goal stays completed.
// @Tags Goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Param goal body GoalRequest true "Goal"
// @Success 200 {object} GoalResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Goal not found"
// @Failure 409 {object} gin.H "An active goal with this title already exists"
// @Router /goals/{id} [put]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	in, ok := h.bindGoal(c, false)
	if !ok {
		return
	}
	goal, err := h.goalService.UpdateGoal(c.Request.Context(), id, in)
	if err != nil {
		abortWithServiceError(c, err, "Failed to update goal")
		return
	}
	c.JSON(http.StatusOK, MapGoalToResponse(goal))
}

// RecordProgress godoc
// @Summary Raise the progress of a goal
// @Description Values at or below the current progress are ignored. Values outside 0-100 are rejected and reaching 100 completes the goal.
// @Tags Goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Param progress body ProgressRequest true "New progress"
// @Success 200 {object} GoalResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Goal not found"
// @Router /goals/{id}/progress [patch]
func (h *GoalHandler) RecordProgress(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	goal, err := h.goalService.RecordProgress(c.Request.Context(), id, *req.CurrentValue)
	if err != nil {
		abortWithServiceError(c, err, "Failed to update goal progress")
		return
	}
	c.JSON(http.StatusOK, MapGoalToResponse(goal))
}

// CompleteGoal godoc
// @Summary Mark a goal completed
// @Tags Goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Success 200 {object} GoalResponse
// @Failure 404 {object} gin.H "Goal not found"
// @Router /goals/{id}/complete [post]
func (h *GoalHandler) CompleteGoal(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	goal, err := h.goalService.CompleteGoal(c.Request.Context(), id)
	if err != nil {
		abortWithServiceError(c, err, "Failed to complete goal")
		return
	}
	c.JSON(http.StatusOK, MapGoalToResponse(goal))
}

// DeleteGoal godoc
// @Summary Delete a goal
// @Tags Goals
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Goal not found"
// @Router /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.goalService.DeleteGoal(c.Request.Context(), id); err != nil {
		abortWithServiceError(c, err, "Failed to delete goal")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GoalHandler) bindGoal(c *gin.Context, defaultToCaller bool) (service.GoalInput, bool) {
	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return service.GoalInput{}, false
	}
	userID, err := parseOptionalID(req.UserID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid userId format")
		return service.GoalInput{}, false
	}
	if userID.IsZero() && defaultToCaller {
		if userID, err = getUserIDFromContext(c); err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid user ID in token")
			return service.GoalInput{}, false
		}
	}

	in := service.GoalInput{
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Status:       req.Status,
		TargetValue:  req.TargetValue,
		CurrentValue: req.CurrentValue,
		Unit:         req.Unit,
		StartDate:    req.StartDate,
		TargetDate:   req.TargetDate,
	}
	if t := req.Targets; t != nil {
		in.Targets = &domain.GoalTargets{
			Sets:     t.Sets,
			Reps:     t.Reps,
			Weight:   t.Weight,
			Duration: t.Duration,
			Distance: t.Distance,
			Notes:    t.Notes,
		}
	}
	return in, true
}

// MapGoalToResponse converts a domain Goal to its DTO.
func MapGoalToResponse(g *domain.Goal) GoalResponse {
	if g == nil {
		return GoalResponse{}
	}
	return GoalResponse{
		ID:           g.ID.Hex(),
		Title:        g.Title,
		Description:  g.Description,
		Category:     g.Category,
		Status:       g.Status,
		TargetValue:  g.TargetValue,
		CurrentValue: g.CurrentValue,
		Unit:         g.Unit,
		StartDate:    g.StartDate,
		TargetDate:   g.TargetDate,
		UserID:       g.UserID.Hex(),
	}
}

func MapGoalsToResponse(goals []domain.Goal) []GoalResponse {
	resp := make([]GoalResponse, len(goals))
	for i := range goals {
		resp[i] = MapGoalToResponse(&goals[i])
	}
	return resp
}
