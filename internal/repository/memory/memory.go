// Package memory holds in-process implementations of the repository interfaces.
// They back tests and the server's "memory" database driver.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"alcyxob/fittrack/internal/domain"
	"alcyxob/fittrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store keeps users, workouts and goals in maps guarded by one lock.
type Store struct {
	mu       sync.RWMutex
	users    map[primitive.ObjectID]domain.User
	workouts map[primitive.ObjectID]domain.Workout
	goals    map[primitive.ObjectID]domain.Goal
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:    make(map[primitive.ObjectID]domain.User),
		workouts: make(map[primitive.ObjectID]domain.Workout),
		goals:    make(map[primitive.ObjectID]domain.Goal),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Users() repository.UserRepository       { return userRepo{s} }
func (s *Store) Workouts() repository.WorkoutRepository { return workoutRepo{s} }
func (s *Store) Goals() repository.GoalRepository       { return goalRepo{s} }

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range r.s.users {
		if u.Email == email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.Email = email
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return user.ID, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID.Hex() < users[j].ID.Hex() })
	return users, nil
}

func (r userRepo) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	email := strings.ToLower(strings.TrimSpace(user.Email))
	for id, u := range r.s.users {
		if id != user.ID && u.Email == email {
			return repository.ErrDuplicate
		}
	}
	updated := *user
	updated.Email = email
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = r.s.now()
	if updated.PasswordHash == "" {
		updated.PasswordHash = existing.PasswordHash
	}
	r.s.users[user.ID] = updated
	return nil
}

func (r userRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

type workoutRepo struct{ s *Store }

func (r workoutRepo) Create(_ context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	workout.ID = primitive.NewObjectID()
	workout.CreatedAt = r.s.now()
	workout.UpdatedAt = workout.CreatedAt
	if workout.StartTime.IsZero() {
		workout.StartTime = workout.CreatedAt
	}
	r.s.workouts[workout.ID] = *workout
	return workout.ID, nil
}

func (r workoutRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	w, ok := r.s.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (r workoutRepo) List(_ context.Context) ([]domain.Workout, error) {
	return r.filter(func(domain.Workout) bool { return true }, 0), nil
}

func (r workoutRepo) GetByUserID(_ context.Context, userID primitive.ObjectID, limit int64) ([]domain.Workout, error) {
	return r.filter(func(w domain.Workout) bool { return w.UserID == userID }, limit), nil
}

func (r workoutRepo) CountByUserSince(_ context.Context, userID primitive.ObjectID, since time.Time) (int64, error) {
	matches := r.filter(func(w domain.Workout) bool {
		return w.UserID == userID && !w.StartTime.Before(since)
	}, 0)
	return int64(len(matches)), nil
}

// filter returns matches newest first, ties by id descending.
func (r workoutRepo) filter(keep func(domain.Workout) bool, limit int64) []domain.Workout {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []domain.Workout{}
	for _, w := range r.s.workouts {
		if keep(w) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.After(out[j].StartTime)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out
}

func (r workoutRepo) Update(_ context.Context, workout *domain.Workout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.workouts[workout.ID]
	if !ok {
		return repository.ErrNotFound
	}
	updated := *workout
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = r.s.now()
	r.s.workouts[workout.ID] = updated
	return nil
}

func (r workoutRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.workouts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.workouts, id)
	return nil
}

type goalRepo struct{ s *Store }

func (r goalRepo) Create(_ context.Context, goal *domain.Goal) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	goal.ID = primitive.NewObjectID()
	goal.CreatedAt = r.s.now()
	goal.UpdatedAt = goal.CreatedAt
	r.s.goals[goal.ID] = *goal
	return goal.ID, nil
}

func (r goalRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Goal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	g, ok := r.s.goals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

func (r goalRepo) List(_ context.Context) ([]domain.Goal, error) {
	return r.filter(func(domain.Goal) bool { return true }), nil
}

func (r goalRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Goal, error) {
	return r.filter(func(g domain.Goal) bool { return g.UserID == userID }), nil
}

func (r goalRepo) ExistsActiveByTitle(_ context.Context, userID primitive.ObjectID, title string, excludeID primitive.ObjectID) (bool, error) {
	title = strings.TrimSpace(title)
	matches := r.filter(func(g domain.Goal) bool {
		return g.UserID == userID && g.ID != excludeID && g.IsActive() &&
			strings.EqualFold(strings.TrimSpace(g.Title), title)
	})
	return len(matches) > 0, nil
}

func (r goalRepo) CountByUserAndStatus(_ context.Context, userID primitive.ObjectID, status domain.GoalStatus) (int64, error) {
	matches := r.filter(func(g domain.Goal) bool { return g.UserID == userID && g.Status == status })
	return int64(len(matches)), nil
}

// filter returns matches in creation order.
func (r goalRepo) filter(keep func(domain.Goal) bool) []domain.Goal {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []domain.Goal{}
	for _, g := range r.s.goals {
		if keep(g) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out
}

func (r goalRepo) Update(_ context.Context, goal *domain.Goal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.goals[goal.ID]
	if !ok {
		return repository.ErrNotFound
	}
	updated := *goal
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = r.s.now()
	r.s.goals[goal.ID] = updated
	return nil
}

func (r goalRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.goals[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.goals, id)
	return nil
}
