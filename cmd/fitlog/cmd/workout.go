package cmd

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"alcyxob/fittrack/internal/domain"
	"alcyxob/fittrack/internal/progress"
	"alcyxob/fittrack/internal/session"

	"github.com/spf13/cobra"
)

func WorkoutCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workout",
		Short: "Log and list workouts",
	}
	cmd.AddCommand(workoutLogCmd(a))
	cmd.AddCommand(workoutListCmd(a))
	return cmd
}

func workoutLogCmd(a *app) *cobra.Command {
	var (
		exercises  []string
		serverSide bool
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Save a workout and update matching goals",
		Example: `  fitlog workout log -e "Bench Press:3x10@135" -e "Run:3.1mi,25min"
  fitlog workout log -e "Push-ups:3x20" --server`,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := make([]domain.ExerciseEntry, 0, len(exercises))
			for i, raw := range exercises {
				e, err := ParseExercise(raw)
				if err != nil {
					return fmt.Errorf("exercise %d: %w", i+1, err)
				}
				entries = append(entries, e)
			}
			// Nothing leaves the machine until every entry is valid.
			entries, err := session.PrepareEntries(entries)
			if err != nil {
				return err
			}

			c, cfg, err := a.client(true)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if serverSide {
				resp, err := c.LogWorkout(cmd.Context(), entries)
				if err != nil {
					return fmt.Errorf("%w: %w", session.ErrWorkoutNotSaved, err)
				}
				fmt.Fprintln(out, resp.Message)
				if n := len(resp.FailedGoalIDs); n > 0 {
					fmt.Fprintf(out, "Warning: %d goal(s) could not be updated.\n", n)
				}
				return nil
			}

			userID, err := a.userID(cmd.Context(), c, cfg)
			if err != nil {
				return err
			}
			reconciler := progress.NewReconciler(c, progress.Options{RequestTimeout: cfg.Timeout})
			outcome, err := session.NewRecorder(c, c, reconciler).Record(cmd.Context(), userID, entries)
			if err != nil {
				if errors.Is(err, session.ErrWorkoutNotSaved) {
					return fmt.Errorf("failed to save workout, please try again: %w", err)
				}
				return err
			}
			fmt.Fprintln(out, outcome.Message())
			if outcome.GoalsErr != nil {
				fmt.Fprintln(out, "Warning: goals could not be loaded, progress was not updated.")
			}
			if n := len(outcome.Result.Failed); n > 0 {
				fmt.Fprintf(out, "Warning: %d goal(s) could not be updated.\n", n)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&exercises, "exercise", "e", nil, `Exercise as "name:SETSxREPS[@LBS]" or "name:MILESmi[,MINUTESmin]"; repeatable`)
	cmd.Flags().BoolVar(&serverSide, "server", false, "Let the server update goal progress")
	return cmd
}

func workoutListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your workouts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := a.client(true)
			if err != nil {
				return err
			}
			userID, err := a.userID(cmd.Context(), c, cfg)
			if err != nil {
				return err
			}
			workouts, err := c.ListWorkoutsByUser(cmd.Context(), userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(workouts) == 0 {
				fmt.Fprintln(out, "No workouts yet. Log one with `fitlog workout log`.")
			}
			for _, w := range workouts {
				fmt.Fprintf(out, "%s  %-8s %s: %s\n", w.StartTime.Local().Format("2006-01-02 15:04"), w.Type, w.Name, w.Description)
			}
			return nil
		},
	}
}

var (
	strengthSpec = regexp.MustCompile(`^(\d+)\s*x\s*(\d+)(?:\s*@\s*(\d+(?:\.\d+)?)\s*(?:lbs?)?)?$`)
	cardioPart   = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(mi|miles?|min|mins|minutes?)$`)
)

// ParseExercise reads one --exercise value, e.g. "Bench Press:3x10@135" or "Run:3.1mi,25min".
func ParseExercise(raw string) (domain.ExerciseEntry, error) {
	idx := strings.LastIndex(raw, ":")
	if idx < 0 {
		return domain.ExerciseEntry{}, fmt.Errorf("expected name:detail, got %q", raw)
	}
	e := domain.ExerciseEntry{Name: strings.TrimSpace(raw[:idx])}
	spec := strings.ToLower(strings.TrimSpace(raw[idx+1:]))
	if e.Name == "" {
		return e, domain.ErrEntryNameRequired
	}

	if m := strengthSpec.FindStringSubmatch(spec); m != nil {
		e.Category = domain.CategoryStrength
		e.Sets, _ = strconv.Atoi(m[1])
		e.Reps, _ = strconv.Atoi(m[2])
		if m[3] != "" {
			e.Weight, _ = strconv.ParseFloat(m[3], 64)
		}
		return e, nil
	}

	e.Category = domain.CategoryCardio
	for _, part := range strings.FieldsFunc(spec, func(r rune) bool { return r == ',' || r == '/' }) {
		m := cardioPart.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			return e, fmt.Errorf("cannot read %q: use 3x10@135 for strength or 3.1mi,25min for cardio", part)
		}
		v, _ := strconv.ParseFloat(m[1], 64)
		if strings.HasPrefix(m[2], "mi") && !strings.HasPrefix(m[2], "min") {
			e.Distance = v
		} else {
			e.Duration = v
		}
	}
	if e.Distance == 0 && e.Duration == 0 {
		return e, domain.ErrEntryCardioRequired
	}
	return e, nil
}
