package cmd

import (
	"errors"
	"fmt"
	"net/http"

	"alcyxob/fittrack/internal/client"

	"github.com/spf13/cobra"
)

func DashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show recent workouts and active goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.client(true)
			if err != nil {
				return err
			}
			d, err := c.Dashboard(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, d.Greeting)
			fmt.Fprintf(out, "Workouts this week: %d   Goals completed: %d\n", d.WorkoutsThisWeek, d.CompletedGoals)

			fmt.Fprintln(out, "\nRecent workouts:")
			if len(d.RecentWorkouts) == 0 {
				fmt.Fprintln(out, "  none yet")
			}
			for _, w := range d.RecentWorkouts {
				fmt.Fprintf(out, "  %s  %s\n", w.Name, w.Description)
			}

			fmt.Fprintln(out, "\nActive goals:")
			if len(d.ActiveGoals) == 0 {
				fmt.Fprintln(out, "  none yet")
			}
			for _, g := range d.ActiveGoals {
				fmt.Fprintf(out, "  %-20s %5.0f%%  %s\n", g.Title, g.CurrentValue, g.Description)
			}
			return nil
		},
	}
}

func ExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export your data and print a temporary download link",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.client(true)
			if err != nil {
				return err
			}
			res, err := c.Export(cmd.Context())
			var apiErr *client.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable {
				return errors.New("data export is not enabled on this server")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Download (expires %s):\n%s\n", res.ExpiresAt.Local().Format("15:04"), res.DownloadURL)
			return nil
		},
	}
}
