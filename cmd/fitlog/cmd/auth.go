package cmd

import (
	"errors"
	"fmt"

	"alcyxob/fittrack/internal/api"
	"alcyxob/fittrack/internal/client"

	"github.com/spf13/cobra"
)

func RegisterCmd(a *app) *cobra.Command {
	var req api.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Username == "" || req.Email == "" || req.Password == "" {
				return fmt.Errorf("--username, --email and --password are required")
			}
			c, _, err := a.client(false)
			if err != nil {
				return err
			}
			user, err := c.Register(cmd.Context(), req)
			if errors.Is(err, client.ErrConflict) {
				return fmt.Errorf("an account with this email already exists")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s (id %s). Run `fitlog login` next.\n", user.Email, user.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Username, "username", "", "Username")
	f.StringVar(&req.Email, "email", "", "Email")
	f.StringVar(&req.Password, "password", "", "Password, at least 6 characters")
	f.StringVar(&req.FirstName, "first-name", "", "First name")
	f.StringVar(&req.LastName, "last-name", "", "Last name")
	f.StringVar(&req.FitnessLevel, "fitness-level", "", "beginner, intermediate or advanced")
	return cmd
}

func LoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the environment for later commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}
			c, _, err := a.client(false)
			if err != nil {
				return err
			}
			resp, err := c.Login(cmd.Context(), email, password)
			if errors.Is(err, client.ErrUnauthorized) {
				return fmt.Errorf("invalid email or password")
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "export FITLOG_TOKEN=%s\n", resp.Token)
			fmt.Fprintf(out, "export FITLOG_USER_ID=%s\n", resp.User.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	return cmd
}
