package cmd_test

import (
	"bytes"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"alcyxob/fittrack/cmd/fitlog/cmd"
	"alcyxob/fittrack/internal/api"
	"alcyxob/fittrack/internal/domain"
	"alcyxob/fittrack/internal/metrics"
	"alcyxob/fittrack/internal/progress"
	"alcyxob/fittrack/internal/repository/memory"
	"alcyxob/fittrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExercise(t *testing.T) {
	tests := []struct {
		in   string
		want domain.ExerciseEntry
	}{
		{"Bench Press:3x10@135", domain.ExerciseEntry{Name: "Bench Press", Category: domain.CategoryStrength, Sets: 3, Reps: 10, Weight: 135}},
		{"Squat: 5 x 5 @ 225 lbs", domain.ExerciseEntry{Name: "Squat", Category: domain.CategoryStrength, Sets: 5, Reps: 5, Weight: 225}},
		{"Push-ups:3x20", domain.ExerciseEntry{Name: "Push-ups", Category: domain.CategoryStrength, Sets: 3, Reps: 20}},
		{"Run:3.1mi,25min", domain.ExerciseEntry{Name: "Run", Category: domain.CategoryCardio, Distance: 3.1, Duration: 25}},
		{"Cycling:40 minutes", domain.ExerciseEntry{Name: "Cycling", Category: domain.CategoryCardio, Duration: 40}},
		{"Walk:2 miles/30 mins", domain.ExerciseEntry{Name: "Walk", Category: domain.CategoryCardio, Distance: 2, Duration: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := cmd.ParseExercise(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseExercise_Errors(t *testing.T) {
	for _, in := range []string{"Bench Press", ":3x10", "Run:fast", "Run:"} {
		_, err := cmd.ParseExercise(in)
		assert.Error(t, err, in)
	}
}

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.NewStore()
	m, reg := metrics.NewTestManagerAndRegistry()
	goals := service.NewGoalService(store.Goals(), store.Users())

	router := gin.New()
	api.SetupRoutes(router, "cli-secret", api.Services{
		Auth:      service.NewAuthService(store.Users(), "cli-secret", time.Hour),
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

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := cmd.RootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

var tokenLine = regexp.MustCompile(`FITLOG_TOKEN=(\S+)`)

func TestCLI_GoalAndWorkoutFlow(t *testing.T) {
	srv := newAPIServer(t)
	apiURL := "--api-url=" + srv.URL + "/api"

	out, err := run(t, "register", apiURL, "--username", "jo", "--email", "jo@example.com", "--password", "secret1")
	require.NoError(t, err)
	assert.Contains(t, out, "Account created for jo@example.com")

	out, err = run(t, "login", apiURL, "--email", "jo@example.com", "--password", "secret1")
	require.NoError(t, err)
	m := tokenLine.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	token := "--token=" + m[1]

	out, err = run(t, "goal", "add", apiURL, token, "--title", "Bench Press", "--sets", "3", "--reps", "10", "--weight", "135")
	require.NoError(t, err)
	assert.Contains(t, out, "Goal created: Bench Press - 135 lbs x 10 reps • 3 sets")

	_, err = run(t, "goal", "add", apiURL, token, "--title", "bench press", "--reps", "5")
	require.Error(t, err)
	assert.Equal(t, cmd.ConflictMessage, err.Error())

	out, err = run(t, "workout", "log", apiURL, token, "-e", "Bench Press:3x5@135")
	require.NoError(t, err)
	assert.Contains(t, out, "Workout saved! Bench Press: best 5-rep @ 135 lb - 50% of goal (add reps)")

	out, err = run(t, "goal", "list", apiURL, token)
	require.NoError(t, err)
	assert.Regexp(t, `active\s+50%\s+Bench Press`, out)

	out, err = run(t, "dashboard", apiURL, token)
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome back, jo!")
	assert.Contains(t, out, "Workouts this week: 1")

	_, err = run(t, "export", apiURL, token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not enabled")
}

func TestCLI_ValidatesLocally(t *testing.T) {
	// No server is listening; validation must fail before any request.
	apiURL := "--api-url=http://127.0.0.1:1/api"

	_, err := run(t, "goal", "add", apiURL, "--token=x", "--title", "Squat", "--weight", "225")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "please enter target reps")

	_, err = run(t, "workout", "log", apiURL, "--token=x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "please add at least one exercise")

	_, err = run(t, "workout", "log", apiURL, "--token=x", "-e", "Deadlift:0x5@200")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exercise 1")
}

func TestCLI_RequiresToken(t *testing.T) {
	t.Setenv("FITLOG_TOKEN", "")
	_, err := run(t, "dashboard", "--api-url=http://127.0.0.1:1/api")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}
