package progress

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"alcyxob/fittrack/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRequestTimeout = 5 * time.Second
	DefaultConcurrency    = 4
)

// GoalUpdater persists a goal whose CurrentValue/Status changed.
type GoalUpdater interface {
	UpdateGoal(ctx context.Context, goal domain.Goal) error
}

// GoalUpdate is the new state of a goal after reconciliation.
type GoalUpdate struct {
	CurrentValue float64           `json:"currentValue"`
	Status       domain.GoalStatus `json:"status"`
}

// SkipReason explains why a matched goal was left alone.
type SkipReason string

const SkipNoTargets SkipReason = "no_targets"

type Skip struct {
	GoalID primitive.ObjectID
	Title  string
	Reason SkipReason
}

// Result of one reconciliation pass.
type Result struct {
	// Updates holds every goal whose value went up, keyed by goal id.
	Updates map[primitive.ObjectID]GoalUpdate
	// Summaries are human-readable progress lines, in the order they happened.
	Summaries []string
	Skipped   []Skip
	// Failed lists goals whose update could not be persisted.
	Failed []primitive.ObjectID
	// Err aggregates the persistence failures. It is informational; the pass itself
	// never fails.
	Err error
}

// Options tune how updates are persisted.
type Options struct {
	RequestTimeout time.Duration
	Concurrency    int
}

// Reconciler folds logged exercise entries into goal progress.
type Reconciler struct {
	updater     GoalUpdater
	timeout     time.Duration
	concurrency int
}

// NewReconciler creates a Reconciler. A nil updater computes results without persisting them.
func NewReconciler(updater GoalUpdater, opts Options) *Reconciler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Reconciler{
		updater:     updater,
		timeout:     opts.RequestTimeout,
		concurrency: opts.Concurrency,
	}
}

// Reconcile scores every entry against the goal snapshot and persists each changed goal
// once. Several entries for the same goal keep only the best result, never the sum.
// Persistence errors are logged and collected in the Result, never returned.
func (r *Reconciler) Reconcile(ctx context.Context, entries []domain.ExerciseEntry, goals []domain.Goal) Result {
	res := Result{Updates: make(map[primitive.ObjectID]GoalUpdate)}
	if len(goals) == 0 || len(entries) == 0 {
		return res
	}

	best := make(map[primitive.ObjectID]float64, len(goals))
	for _, g := range goals {
		best[g.ID] = clampPercent(g.CurrentValue)
	}

	changed := make(map[primitive.ObjectID]domain.Goal)
	var order []primitive.ObjectID
	skipped := make(map[primitive.ObjectID]bool)

	for _, entry := range entries {
		matched := MatchGoals(entry, goals)
		log.Debugf("reconcile: %d matching goals for %q", len(matched), entry.Name)

		for _, g := range matched {
			previous := best[g.ID]
			out, ok := Calculate(g, entry, previous)
			if !ok {
				if !skipped[g.ID] {
					skipped[g.ID] = true
					res.Skipped = append(res.Skipped, Skip{GoalID: g.ID, Title: g.Title, Reason: SkipNoTargets})
					log.WithFields(log.Fields{"goal_id": g.ID.Hex(), "goal": g.Title}).
						Warn("unable to determine targets for goal, skipping update")
				}
				continue
			}

			best[g.ID] = out.Effective
			if out.Effective <= previous {
				continue
			}

			if _, seen := changed[g.ID]; !seen {
				order = append(order, g.ID)
			}
			updated := g
			updated.CurrentValue = out.Effective
			updated.Status = out.Status
			changed[g.ID] = updated
			res.Updates[g.ID] = GoalUpdate{CurrentValue: out.Effective, Status: out.Status}
			res.Summaries = append(res.Summaries, summarize(g.Title, out))

			log.WithFields(log.Fields{"goal_id": g.ID.Hex(), "goal": g.Title}).
				Infof("goal progress %.1f%% -> %.1f%%", previous, out.Effective)
		}
	}

	if r.updater != nil && len(order) > 0 {
		res.Failed, res.Err = r.persist(ctx, order, changed)
	}
	return res
}

// persist attempts every update even when earlier ones fail.
func (r *Reconciler) persist(ctx context.Context, order []primitive.ObjectID, changed map[primitive.ObjectID]domain.Goal) ([]primitive.ObjectID, error) {
	var (
		mu     sync.Mutex
		errs   error
		failed = make(map[primitive.ObjectID]bool)
	)

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for _, id := range order {
		goal := changed[id]
		g.Go(func() error {
			reqCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()

			if err := r.updater.UpdateGoal(reqCtx, goal); err != nil {
				log.WithFields(log.Fields{"goal_id": goal.ID.Hex(), "goal": goal.Title}).
					Errorf("failed to update goal: %s", err)
				mu.Lock()
				failed[goal.ID] = true
				errs = multierr.Append(errs, fmt.Errorf("update goal %s: %w", goal.ID.Hex(), err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	var failedIDs []primitive.ObjectID
	for _, id := range order {
		if failed[id] {
			failedIDs = append(failedIDs, id)
		}
	}
	return failedIDs, errs
}

func summarize(title string, out Outcome) string {
	s := fmt.Sprintf("%s: %s - %d%% of goal", title, out.Detail, int(math.Round(out.Effective)))
	if out.Hint != "" {
		s += " " + out.Hint
	}
	return s
}
