package api

import (
	"net/http"
	"time"

	"alcyxob/fittrack/internal/service"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the caller's landing summary and data exports.
type DashboardHandler struct {
	dashboardService service.DashboardService
	exportService    service.ExportService
}

func NewDashboardHandler(dashboardService service.DashboardService, exportService service.ExportService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, exportService: exportService}
}

type DashboardResponse struct {
	Greeting         string            `json:"greeting"`
	User             UserResponse      `json:"user"`
	RecentWorkouts   []WorkoutResponse `json:"recentWorkouts"`
	ActiveGoals      []GoalResponse    `json:"activeGoals"`
	CompletedGoals   int64             `json:"completedGoals"`
	WorkoutsThisWeek int64             `json:"workoutsThisWeek"`
}

type ExportResponse struct {
	ObjectKey   string    `json:"objectKey"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// GetDashboard godoc
// @Summary Get the caller's dashboard
// @Description Recent workouts, active goals and weekly counts of the authenticated user.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "User not found"
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user ID in token")
		return
	}
	d, err := h.dashboardService.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, DashboardResponse{
		Greeting:         "Welcome back, " + d.User.DisplayName() + "!",
		User:             MapUserToResponse(d.User),
		RecentWorkouts:   MapWorkoutsToResponse(d.RecentWorkouts),
		ActiveGoals:      MapGoalsToResponse(d.ActiveGoals),
		CompletedGoals:   d.CompletedGoals,
		WorkoutsThisWeek: d.WorkoutsThisWeek,
	})
}

// ExportData godoc
// @Summary Export the caller's data
// @Description Uploads a JSON snapshot of the profile, workouts and goals and returns a
// @Description temporary download URL.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 201 {object} ExportResponse
// @Failure 404 {object} gin.H "User not found"
// @Failure 503 {object} gin.H "Export not configured"
// @Router /export [post]
func (h *DashboardHandler) ExportData(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user ID in token")
		return
	}
	res, err := h.exportService.ExportUserData(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to export data")
		return
	}
	c.JSON(http.StatusCreated, ExportResponse{
		ObjectKey:   res.ObjectKey,
		DownloadURL: res.DownloadURL,
		ExpiresAt:   res.ExpiresAt,
	})
}
