package cmd

import (
	"context"
	"fmt"
	"strings"

	"alcyxob/fittrack/internal/client"
	"alcyxob/fittrack/internal/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// app carries the resolved settings shared by every subcommand.
type app struct {
	v *viper.Viper
}

// RootCmd builds the fitlog command tree. Settings come from flags, FITLOG_* variables
// or the file named by --config, in that order of precedence.
func RootCmd() *cobra.Command {
	a := &app{v: config.NewClientViper()}

	var (
		configFile string
		verbose    bool
	)
	rootCmd := &cobra.Command{
		Use:           "fitlog",
		Short:         "Log workouts and track goal progress against a fittrack server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
			if configFile != "" {
				a.v.SetConfigFile(configFile)
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("api-url", "", "API base URL (env FITLOG_API_URL)")
	flags.String("token", "", "JWT from `fitlog login` (env FITLOG_TOKEN)")
	flags.String("user-id", "", "Your user id (env FITLOG_USER_ID)")
	flags.Duration("timeout", 0, "Request timeout (env FITLOG_TIMEOUT)")
	flags.StringVar(&configFile, "config", "", "Optional config file, e.g. fitlog.yaml")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log requests")
	for key, flag := range map[string]string{
		"api_url": "api-url",
		"token":   "token",
		"user_id": "user-id",
		"timeout": "timeout",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(RegisterCmd(a))
	rootCmd.AddCommand(LoginCmd(a))
	rootCmd.AddCommand(GoalCmd(a))
	rootCmd.AddCommand(WorkoutCmd(a))
	rootCmd.AddCommand(DashboardCmd(a))
	rootCmd.AddCommand(ExportCmd(a))
	return rootCmd
}

func (a *app) config() (config.ClientConfig, error) {
	cfg, err := config.LoadClientConfig(a.v)
	if err != nil {
		return config.ClientConfig{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return cfg, nil
}

// client returns an API client, requiring a token when authenticated is set.
func (a *app) client(authenticated bool) (*client.Client, config.ClientConfig, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, cfg, err
	}
	if authenticated && cfg.Token == "" {
		return nil, cfg, fmt.Errorf("not logged in: run `fitlog login` and set FITLOG_TOKEN")
	}
	return client.New(cfg), cfg, nil
}

// userID is the configured user id, or the token owner when none is set.
func (a *app) userID(ctx context.Context, c *client.Client, cfg config.ClientConfig) (primitive.ObjectID, error) {
	if id := strings.TrimSpace(cfg.UserID); id != "" {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return primitive.NilObjectID, fmt.Errorf("invalid user id %q", id)
		}
		return oid, nil
	}
	return c.Me(ctx)
}
