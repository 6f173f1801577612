package cmd

import (
	"errors"
	"fmt"
	"strings"

	"alcyxob/fittrack/internal/api"
	"alcyxob/fittrack/internal/client"
	"alcyxob/fittrack/internal/domain"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConflictMessage is printed when the server rejects a second active goal with the same title.
const ConflictMessage = "You already have an active goal for this exercise. Complete or deactivate it before creating another."

func GoalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage goals",
	}
	cmd.AddCommand(goalAddCmd(a))
	cmd.AddCommand(goalListCmd(a))
	cmd.AddCommand(goalCompleteCmd(a))
	return cmd
}

func goalAddCmd(a *app) *cobra.Command {
	var (
		title, category, targetDate string
		targets                     api.GoalTargetsRequest
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a goal from numeric targets",
		Example: `  fitlog goal add --title "Bench Press" --sets 3 --reps 10 --weight 135
  fitlog goal add --title Run --distance 3.1 --duration 25`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := domain.GoalTargets{
				Sets:     targets.Sets,
				Reps:     targets.Reps,
				Weight:   targets.Weight,
				Duration: targets.Duration,
				Distance: targets.Distance,
				Notes:    targets.Notes,
			}
			if err := validateGoalForm(title, category, t); err != nil {
				return err
			}

			c, _, err := a.client(true)
			if err != nil {
				return err
			}
			goal, err := c.CreateGoal(cmd.Context(), api.GoalRequest{
				Title:      title,
				Category:   category,
				TargetDate: targetDate,
				Targets:    &targets,
			})
			if errors.Is(err, client.ErrConflict) {
				return errors.New(ConflictMessage)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Goal created: %s - %s (id %s)\n", goal.Title, goal.Description, goal.ID.Hex())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&title, "title", "", "Exercise the goal is for, e.g. \"Bench Press\"")
	f.StringVar(&category, "category", "", "strength or cardio; inferred from the targets when omitted")
	f.StringVar(&targetDate, "target-date", "", "Deadline, YYYY-MM-DD")
	f.IntVar(&targets.Sets, "sets", 0, "Target sets")
	f.IntVar(&targets.Reps, "reps", 0, "Target reps")
	f.Float64Var(&targets.Weight, "weight", 0, "Target weight in lbs")
	f.Float64Var(&targets.Duration, "duration", 0, "Target duration in minutes")
	f.Float64Var(&targets.Distance, "distance", 0, "Target distance in miles")
	f.StringVar(&targets.Notes, "notes", "", "Free text appended to the description")
	return cmd
}

// validateGoalForm applies the checks the server would, without a round trip.
func validateGoalForm(title, category string, t domain.GoalTargets) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("please enter a goal title")
	}
	if t.Sets < 0 || t.Reps < 0 || t.Weight < 0 || t.Duration < 0 || t.Distance < 0 {
		return errors.New("goal targets cannot be negative")
	}
	requested := domain.Category(category)
	if category != "" {
		c, ok := domain.ParseCategory(category)
		if !ok {
			return errors.New("category must be strength or cardio")
		}
		requested = c
	}
	switch t.InferCategory(requested) {
	case domain.CategoryStrength:
		if t.Reps <= 0 {
			return errors.New("please enter target reps for strength goals")
		}
	case domain.CategoryCardio:
	default:
		return errors.New("please pass --category or at least one target")
	}
	return nil
}

func goalListCmd(a *app) *cobra.Command {
	var activeOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := a.client(true)
			if err != nil {
				return err
			}
			userID, err := a.userID(cmd.Context(), c, cfg)
			if err != nil {
				return err
			}
			goals, err := c.ListGoalsByUser(cmd.Context(), userID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			shown := 0
			for _, g := range goals {
				if activeOnly && !g.IsActive() {
					continue
				}
				fmt.Fprintf(out, "%s  %-10s %5.0f%%  %s - %s\n", g.ID.Hex(), g.Status, g.CurrentValue, g.Title, g.Description)
				shown++
			}
			if shown == 0 {
				fmt.Fprintln(out, "No goals yet. Create one with `fitlog goal add`.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only show active goals")
	return cmd
}

func goalCompleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <goal-id>",
		Short: "Mark a goal completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := primitive.ObjectIDFromHex(args[0])
			if err != nil {
				return fmt.Errorf("invalid goal id %q", args[0])
			}
			c, _, err := a.client(true)
			if err != nil {
				return err
			}
			goal, err := c.CompleteGoal(cmd.Context(), id)
			if errors.Is(err, client.ErrNotFound) {
				return fmt.Errorf("goal %s not found", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Goal completed: %s\n", goal.Title)
			return nil
		},
	}
}
