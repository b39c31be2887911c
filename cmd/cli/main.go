package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/auditops/manday-planner/cmd/cli/commands"
	"github.com/auditops/manday-planner/internal/config"
	"github.com/auditops/manday-planner/pkg/postgres"
	"github.com/auditops/manday-planner/pkg/utils/logging"
)

var (
	configPath string
	verbose    bool
	app        *commands.AppContext
	database   *postgres.DB
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "manday-planner",
		Short: "Audit manday planner - decompose a manday budget into unit selections",
		Long: `A planning tool for internal audit: splits a total manday budget across
departments and risk tiers, selects which audit units to cover, and emits a
results workbook plus a reproducible audit trail.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd.Name())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if database != nil {
				database.Close()
			}
			if app != nil && app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: manday_planner.yaml in CWD or home)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose console logging")

	app = &commands.AppContext{}
	rootCmd.AddCommand(commands.RunCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.HistoryCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, and the optional run store
func initApp(commandName string) error {
	var err error
	app.Ctx = context.Background()

	// .env may carry DATABASE_URL for local runs; absence is fine.
	godotenv.Load()

	app.Logger, err = logging.InitLogger(commandName, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Debug("Loading configuration")
	if configPath != "" {
		app.Cfg, err = config.LoadFromPath(configPath)
	} else {
		app.Cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	databaseURL := app.Cfg.DatabaseURL
	if env := os.Getenv("DATABASE_URL"); env != "" {
		databaseURL = env
	}

	if databaseURL == "" {
		app.Logger.Debug("No database configured, run history disabled")
		return nil
	}

	app.Logger.Debug("Connecting to database")
	database, err = postgres.NewDB(app.Ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	app.Store = database
	app.Logger.Info("Database initialized")

	return nil
}
