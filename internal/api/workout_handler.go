package api

import (
	"fmt"
	"net/http"
	"time"

	"alcyxob/fittrack/internal/domain"
	"alcyxob/fittrack/internal/service"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

// WorkoutRequest creates or updates a workout directly. UserID defaults to the caller.
type WorkoutRequest struct {
	UserID      string     `json:"userId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	Duration    float64    `json:"duration" binding:"gte=0"` // minutes
	StartTime   *time.Time `json:"startTime"`
}

type WorkoutResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Type        domain.WorkoutType `json:"type"`
	Duration    float64            `json:"duration"`
	StartTime   time.Time          `json:"startTime"`
	UserID      string             `json:"userId"`
}

// LogWorkoutRequest is one logging session.
type LogWorkoutRequest struct {
	Exercises []domain.ExerciseEntry `json:"exercises"`
}

type GoalSkipResponse struct {
	GoalID string `json:"goalId"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// LogWorkoutResponse carries the saved workout and the goal progress it caused.
type LogWorkoutResponse struct {
	Workout       WorkoutResponse               `json:"workout"`
	Message       string                        `json:"message"`
	GoalUpdates   map[string]GoalUpdateResponse `json:"goalUpdates"`
	Summaries     []string                      `json:"summaries"`
	Skipped       []GoalSkipResponse            `json:"skipped,omitempty"`
	FailedGoalIDs []string                      `json:"failedGoalIds,omitempty"`
}

type GoalUpdateResponse struct {
	CurrentValue float64           `json:"currentValue"`
	Status       domain.GoalStatus `json:"status"`
}

// --- Handlers ---

// CreateWorkout godoc
// @Summary Create a workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body WorkoutRequest true "Workout"
// @Success 201 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "User not found"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	in, ok := h.bindWorkout(c, true)
	if !ok {
		return
	}
	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), in)
	if err != nil {
		abortWithServiceError(c, err, "Failed to create workout")
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// ListWorkouts godoc
// @Summary List all workouts
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} WorkoutResponse
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	workouts, err := h.workoutService.ListWorkouts(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve workouts")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts))
}

// GetWorkout godoc
// @Summary Get a workout by ID
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} WorkoutResponse
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	workout, err := h.workoutService.GetWorkout(c.Request.Context(), id)
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve workout")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// ListUserWorkouts godoc
// @Summary List the workouts of a user, newest first
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {array} WorkoutResponse
// @Router /workouts/user/{userId} [get]
func (h *WorkoutHandler) ListUserWorkouts(c *gin.Context) {
	userID, ok := objectIDParam(c, "userId")
	if !ok {
		return
	}
	workouts, err := h.workoutService.ListWorkoutsByUser(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve workouts")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts))
}

// UpdateWorkout godoc
// @Summary Update a workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param workout body WorkoutRequest true "Workout"
// @Success 200 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id} [put]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	in, ok := h.bindWorkout(c, false)
	if !ok {
		return
	}
	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), id, in)
	if err != nil {
		abortWithServiceError(c, err, "Failed to update workout")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// DeleteWorkout godoc
// @Summary Delete a workout
// @Tags Workouts
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), id); err != nil {
		abortWithServiceError(c, err, "Failed to delete workout")
		return
	}
	c.Status(http.StatusNoContent)
}

// LogWorkout godoc
// @Summary Log a workout session and update goal progress
// @Description Saves the exercises as one workout for the caller, then raises the progress
// @Description of every matching active goal. Goal update failures do not fail the request.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body LogWorkoutRequest true "Exercises"
// @Success 201 {object} LogWorkoutResponse
// @Failure 400 {object} gin.H "Invalid exercises"
// @Failure 500 {object} gin.H "Workout could not be saved"
// @Router /workouts/log [post]
func (h *WorkoutHandler) LogWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user ID in token")
		return
	}
	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	result, err := h.workoutService.LogWorkout(c.Request.Context(), userID, req.Exercises)
	if err != nil {
		abortWithServiceError(c, err, "Failed to save workout. Please try again.")
		return
	}
	c.JSON(http.StatusCreated, MapLogResultToResponse(result))
}

func (h *WorkoutHandler) bindWorkout(c *gin.Context, defaultToCaller bool) (service.WorkoutInput, bool) {
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return service.WorkoutInput{}, false
	}
	userID, err := parseOptionalID(req.UserID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid userId format")
		return service.WorkoutInput{}, false
	}
	if userID.IsZero() && defaultToCaller {
		if userID, err = getUserIDFromContext(c); err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid user ID in token")
			return service.WorkoutInput{}, false
		}
	}

	in := service.WorkoutInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Duration:    req.Duration,
	}
	if req.StartTime != nil {
		in.StartTime = *req.StartTime
	}
	return in, true
}

// MapWorkoutToResponse converts a domain Workout to its DTO.
func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	return WorkoutResponse{
		ID:          w.ID.Hex(),
		Name:        w.Name,
		Description: w.Description,
		Type:        w.Type,
		Duration:    w.Duration,
		StartTime:   w.StartTime,
		UserID:      w.UserID.Hex(),
	}
}

func MapWorkoutsToResponse(workouts []domain.Workout) []WorkoutResponse {
	resp := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		resp[i] = MapWorkoutToResponse(&workouts[i])
	}
	return resp
}

// MapLogResultToResponse converts a logging session result, keying updates by hex id.
func MapLogResultToResponse(r *service.LogResult) LogWorkoutResponse {
	resp := LogWorkoutResponse{
		Workout:     MapWorkoutToResponse(r.Workout),
		Message:     r.Message,
		GoalUpdates: make(map[string]GoalUpdateResponse, len(r.Result.Updates)),
		Summaries:   r.Result.Summaries,
	}
	if resp.Summaries == nil {
		resp.Summaries = []string{}
	}
	for id, u := range r.Result.Updates {
		resp.GoalUpdates[id.Hex()] = GoalUpdateResponse{CurrentValue: u.CurrentValue, Status: u.Status}
	}
	for _, s := range r.Result.Skipped {
		resp.Skipped = append(resp.Skipped, GoalSkipResponse{
			GoalID: s.GoalID.Hex(),
			Title:  s.Title,
			Reason: string(s.Reason),
		})
	}
	for _, id := range r.Result.Failed {
		resp.FailedGoalIDs = append(resp.FailedGoalIDs, id.Hex())
	}
	return resp
}
