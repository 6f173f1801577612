package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alcyxob/fittrack/internal/api"
	"alcyxob/fittrack/internal/client"
	"alcyxob/fittrack/internal/config"
	"alcyxob/fittrack/internal/domain"
	"alcyxob/fittrack/internal/metrics"
	"alcyxob/fittrack/internal/progress"
	"alcyxob/fittrack/internal/repository/memory"
	"alcyxob/fittrack/internal/service"
	"alcyxob/fittrack/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.NewStore()
	m, reg := metrics.NewTestManagerAndRegistry()
	goals := service.NewGoalService(store.Goals(), store.Users())

	router := gin.New()
	api.SetupRoutes(router, "client-test-secret", api.Services{
		Auth:      service.NewAuthService(store.Users(), "client-test-secret", time.Hour),
		Users:     service.NewUserService(store.Users()),
		Workouts:  service.NewWorkoutService(store.Workouts(), store.Users(), goals, m, progress.Options{}),
		Goals:     goals,
		Dashboard: service.NewDashboardService(store.Users(), store.Workouts(), store.Goals()),
		Export:    service.NewExportService(store.Users(), store.Workouts(), store.Goals(), nil),
		Metrics:   m,
		Gatherer:  reg,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// loggedIn registers a user against srv and returns an authenticated client.
func loggedIn(t *testing.T, srv *httptest.Server) (*client.Client, primitive.ObjectID) {
	t.Helper()
	ctx := context.Background()
	c := client.New(config.ClientConfig{APIURL: srv.URL + "/api/"})

	_, err := c.Register(ctx, api.RegisterRequest{Username: "sam", Email: "sam@example.com", Password: "secret1"})
	require.NoError(t, err)
	login, err := c.Login(ctx, "sam@example.com", "secret1")
	require.NoError(t, err)

	userID, err := primitive.ObjectIDFromHex(login.User.ID)
	require.NoError(t, err)
	return c.WithToken(login.Token), userID
}

func TestClient_ConflictOnDuplicateActiveGoal(t *testing.T) {
	srv := newAPIServer(t)
	c, _ := loggedIn(t, srv)
	ctx := context.Background()

	goal, err := c.CreateGoal(ctx, api.GoalRequest{
		Title:   "Bench Press",
		Targets: &api.GoalTargetsRequest{Sets: 3, Reps: 10, Weight: 135},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryStrength, goal.Category)

	_, err = c.CreateGoal(ctx, api.GoalRequest{Title: "bench press", Category: "strength"})
	assert.ErrorIs(t, err, client.ErrConflict)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "already exists")
}

func TestClient_UnauthorizedWithoutToken(t *testing.T) {
	srv := newAPIServer(t)
	c := client.New(config.ClientConfig{APIURL: srv.URL + "/api"})

	_, err := c.Dashboard(context.Background())
	assert.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestClient_RecorderReconcilesOverREST(t *testing.T) {
	srv := newAPIServer(t)
	c, userID := loggedIn(t, srv)
	ctx := context.Background()

	bench, err := c.CreateGoal(ctx, api.GoalRequest{
		Title:   "Bench Press",
		Targets: &api.GoalTargetsRequest{Sets: 3, Reps: 10, Weight: 135},
	})
	require.NoError(t, err)
	run, err := c.CreateGoal(ctx, api.GoalRequest{
		Title:   "Run",
		Targets: &api.GoalTargetsRequest{Distance: 3.1, Duration: 25},
	})
	require.NoError(t, err)

	rec := session.NewRecorder(c, c, progress.NewReconciler(c, progress.Options{}))
	out, err := rec.Record(ctx, userID, []domain.ExerciseEntry{
		{Name: "Bench Press", Sets: 3, Reps: 10, Weight: 135},
		{Name: "Run", Distance: 1.55, Duration: 25},
	})
	require.NoError(t, err)
	assert.Empty(t, out.Result.Failed)
	assert.Len(t, out.Result.Summaries, 2)

	goals, err := c.ListGoalsByUser(ctx, userID)
	require.NoError(t, err)
	byID := map[primitive.ObjectID]domain.Goal{}
	for _, g := range goals {
		byID[g.ID] = g
	}
	assert.Equal(t, 100.0, byID[bench.ID].CurrentValue)
	assert.Equal(t, domain.GoalCompleted, byID[bench.ID].Status)
	assert.InDelta(t, 50.0, byID[run.ID].CurrentValue, 0.01)
	assert.Equal(t, domain.GoalActive, byID[run.ID].Status)

	workouts, err := c.ListWorkoutsByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, workouts, 1)
	assert.Equal(t, domain.WorkoutMixed, workouts[0].Type)
}

func TestClient_ServerSideLog(t *testing.T) {
	srv := newAPIServer(t)
	c, _ := loggedIn(t, srv)
	ctx := context.Background()

	_, err := c.CreateGoal(ctx, api.GoalRequest{Title: "Squat", Targets: &api.GoalTargetsRequest{Reps: 5, Weight: 200}})
	require.NoError(t, err)

	resp, err := c.LogWorkout(ctx, []domain.ExerciseEntry{{Name: "Squat", Sets: 5, Reps: 5, Weight: 150}})
	require.NoError(t, err)
	assert.Equal(t, "Workout saved! Squat: best 5-rep @ 150 lb - 75% of goal (add weight)", resp.Message)

	_, err = c.LogWorkout(ctx, nil)
	assert.ErrorIs(t, err, client.ErrBadRequest)

	d, err := c.Dashboard(ctx)
	require.NoError(t, err)
	assert.Len(t, d.RecentWorkouts, 1)

	_, err = c.Export(ctx)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestClient_CompleteUnknownGoal(t *testing.T) {
	srv := newAPIServer(t)
	c, _ := loggedIn(t, srv)

	_, err := c.CompleteGoal(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, client.ErrNotFound)
}
