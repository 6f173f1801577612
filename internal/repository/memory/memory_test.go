package memory

import (
	"context"
	"testing"
	"time"

	"alcyxob/fittrack/internal/domain"
	"alcyxob/fittrack/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUsers_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	id, err := users.Create(ctx, &domain.User{Email: "Ana@Example.com", PasswordHash: "x"})
	require.NoError(t, err)

	_, err = users.Create(ctx, &domain.User{Email: "ana@example.com ", PasswordHash: "y"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	u, err := users.GetByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)

	u.FirstName = "Ana"
	u.PasswordHash = ""
	require.NoError(t, users.Update(ctx, u))
	stored, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", stored.FirstName)
	assert.Equal(t, "x", stored.PasswordHash)

	require.NoError(t, users.Delete(ctx, id))
	assert.ErrorIs(t, users.Delete(ctx, id), repository.ErrNotFound)
}

func TestWorkouts_NewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	workouts := NewStore().Workouts()
	userID := primitive.NewObjectID()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	var ids []primitive.ObjectID
	for _, offset := range []time.Duration{0, 48 * time.Hour, 48 * time.Hour, 24 * time.Hour} {
		id, err := workouts.Create(ctx, &domain.Workout{Name: "w", UserID: userID, StartTime: base.Add(offset)})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	_, err := workouts.Create(ctx, &domain.Workout{Name: "other", UserID: primitive.NewObjectID(), StartTime: base})
	require.NoError(t, err)

	recent, err := workouts.GetByUserID(ctx, userID, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, ids[2], recent[0].ID, "same start time: higher id first")
	assert.Equal(t, ids[1], recent[1].ID)
	assert.Equal(t, ids[3], recent[2].ID)

	count, err := workouts.CountByUserSince(ctx, userID, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestGoals_ExistsActiveByTitle(t *testing.T) {
	ctx := context.Background()
	goals := NewStore().Goals()
	userID := primitive.NewObjectID()

	id, err := goals.Create(ctx, &domain.Goal{Title: "Bench Press", Status: domain.GoalActive, UserID: userID})
	require.NoError(t, err)
	_, err = goals.Create(ctx, &domain.Goal{Title: "Squat", Status: domain.GoalCompleted, UserID: userID})
	require.NoError(t, err)

	exists, err := goals.ExistsActiveByTitle(ctx, userID, "  bench PRESS ", primitive.NilObjectID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = goals.ExistsActiveByTitle(ctx, userID, "bench press", id)
	require.NoError(t, err)
	assert.False(t, exists, "excluded id")

	exists, err = goals.ExistsActiveByTitle(ctx, userID, "squat", primitive.NilObjectID)
	require.NoError(t, err)
	assert.False(t, exists, "completed goals do not conflict")

	exists, err = goals.ExistsActiveByTitle(ctx, primitive.NewObjectID(), "bench press", primitive.NilObjectID)
	require.NoError(t, err)
	assert.False(t, exists, "other users do not conflict")

	completed, err := goals.CountByUserAndStatus(ctx, userID, domain.GoalCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), completed)
}

func TestGoals_UpdateKeepsOwner(t *testing.T) {
	ctx := context.Background()
	goals := NewStore().Goals()
	owner := primitive.NewObjectID()

	id, err := goals.Create(ctx, &domain.Goal{Title: "Run", UserID: owner})
	require.NoError(t, err)

	require.NoError(t, goals.Update(ctx, &domain.Goal{ID: id, Title: "Run", UserID: primitive.NewObjectID(), CurrentValue: 40}))
	g, err := goals.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, owner, g.UserID)
	assert.Equal(t, 40.0, g.CurrentValue)

	assert.ErrorIs(t, goals.Update(ctx, &domain.Goal{ID: primitive.NewObjectID()}), repository.ErrNotFound)
}
