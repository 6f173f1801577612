// Package client talks to the fittrack REST API. It satisfies the logging session's
// store interfaces so workouts can be recorded and reconciled from the command line.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"alcyxob/fittrack/internal/api"
	"alcyxob/fittrack/internal/config"
	"alcyxob/fittrack/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultTimeout = 10 * time.Second

var (
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps well-known statuses to the package sentinels.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusConflict:
		return ErrConflict
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusBadRequest:
		return ErrBadRequest
	}
	return nil
}

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// New creates a client for cfg.APIURL, e.g. http://localhost:8080/api.
func New(cfg config.ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.APIURL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
	}
}

// WithToken returns a copy that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// do sends body as JSON and decodes a 2xx response into out, when out is not nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.Debugf("%s %s", method, req.URL)
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.UserResponse, error) {
	var user api.UserResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*api.LoginResponse, error) {
	var resp api.LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", api.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me returns the id of the authenticated user.
func (c *Client) Me(ctx context.Context) (primitive.ObjectID, error) {
	var resp struct {
		UserID string `json:"userId"`
	}
	if err := c.do(ctx, http.MethodGet, "/me", nil, &resp); err != nil {
		return primitive.NilObjectID, err
	}
	return primitive.ObjectIDFromHex(resp.UserID)
}

func (c *Client) CreateGoal(ctx context.Context, req api.GoalRequest) (*domain.Goal, error) {
	var resp api.GoalResponse
	if err := c.do(ctx, http.MethodPost, "/goals", req, &resp); err != nil {
		return nil, err
	}
	return goalFromResponse(resp)
}

// ListGoalsByUser returns every goal of the user, active and completed.
func (c *Client) ListGoalsByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Goal, error) {
	var resp []api.GoalResponse
	if err := c.do(ctx, http.MethodGet, "/goals/user/"+userID.Hex(), nil, &resp); err != nil {
		return nil, err
	}
	goals := make([]domain.Goal, 0, len(resp))
	for _, r := range resp {
		g, err := goalFromResponse(r)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, nil
}

// UpdateGoal writes the reconciled progress and status of goal.
func (c *Client) UpdateGoal(ctx context.Context, goal domain.Goal) error {
	return c.do(ctx, http.MethodPut, "/goals/"+goal.ID.Hex(), api.GoalRequest{
		CurrentValue: goal.CurrentValue,
		Status:       string(goal.Status),
	}, nil)
}

func (c *Client) CompleteGoal(ctx context.Context, id primitive.ObjectID) (*domain.Goal, error) {
	var resp api.GoalResponse
	if err := c.do(ctx, http.MethodPost, "/goals/"+id.Hex()+"/complete", nil, &resp); err != nil {
		return nil, err
	}
	return goalFromResponse(resp)
}

// CreateWorkout stores a workout built by the logging session.
func (c *Client) CreateWorkout(ctx context.Context, workout *domain.Workout) (*domain.Workout, error) {
	start := workout.StartTime
	var resp api.WorkoutResponse
	err := c.do(ctx, http.MethodPost, "/workouts", api.WorkoutRequest{
		UserID:      hexOrEmpty(workout.UserID),
		Name:        workout.Name,
		Description: workout.Description,
		Type:        string(workout.Type),
		Duration:    workout.Duration,
		StartTime:   &start,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return workoutFromResponse(resp)
}

func (c *Client) ListWorkoutsByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error) {
	var resp []api.WorkoutResponse
	if err := c.do(ctx, http.MethodGet, "/workouts/user/"+userID.Hex(), nil, &resp); err != nil {
		return nil, err
	}
	workouts := make([]domain.Workout, 0, len(resp))
	for _, r := range resp {
		w, err := workoutFromResponse(r)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, *w)
	}
	return workouts, nil
}

// LogWorkout has the server save and reconcile the session in one call.
func (c *Client) LogWorkout(ctx context.Context, entries []domain.ExerciseEntry) (*api.LogWorkoutResponse, error) {
	var resp api.LogWorkoutResponse
	if err := c.do(ctx, http.MethodPost, "/workouts/log", api.LogWorkoutRequest{Exercises: entries}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Dashboard(ctx context.Context) (*api.DashboardResponse, error) {
	var resp api.DashboardResponse
	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Export(ctx context.Context) (*api.ExportResponse, error) {
	var resp api.ExportResponse
	if err := c.do(ctx, http.MethodPost, "/export", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func goalFromResponse(r api.GoalResponse) (*domain.Goal, error) {
	id, err := primitive.ObjectIDFromHex(r.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid goal id %q: %w", r.ID, err)
	}
	userID, err := primitive.ObjectIDFromHex(r.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", r.UserID, err)
	}
	return &domain.Goal{
		ID:           id,
		Title:        r.Title,
		Description:  r.Description,
		Category:     r.Category,
		Status:       r.Status,
		TargetValue:  r.TargetValue,
		CurrentValue: r.CurrentValue,
		Unit:         r.Unit,
		StartDate:    r.StartDate,
		TargetDate:   r.TargetDate,
		UserID:       userID,
	}, nil
}

func workoutFromResponse(r api.WorkoutResponse) (*domain.Workout, error) {
	id, err := primitive.ObjectIDFromHex(r.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid workout id %q: %w", r.ID, err)
	}
	userID, err := primitive.ObjectIDFromHex(r.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", r.UserID, err)
	}
	return &domain.Workout{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Type:        r.Type,
		Duration:    r.Duration,
		StartTime:   r.StartTime,
		UserID:      userID,
	}, nil
}

func hexOrEmpty(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}
