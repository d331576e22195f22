package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"talent-nest/backend/internal/graph"
	"talent-nest/backend/internal/services"
	"talent-nest/backend/internal/store"
	"talent-nest/backend/internal/store/migrations"
	"talent-nest/backend/pkg/config"
	"talent-nest/backend/pkg/logger"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads configuration and initializes the global logger.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, logger.Get(), nil
}

// newManager opens every configured dependency. The caller must defer sm.StopAll().
func newManager(ctx context.Context) (*services.ServiceManager, *zap.Logger, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	sm, err := services.NewServiceManager(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing services: %w", err)
	}
	return sm, log, nil
}

// openSQLite opens the configured database without applying migrations.
func openSQLite() (*store.SQLiteStore, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.DatabasePath)
}

var rootCmd = &cobra.Command{
	Use:           "talentctl",
	Short:         "Maintenance commands for the talent-nest backend",
	SilenceUsage:  true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the SQLite schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSQLite()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := migrations.MigrateUp(s.DB().DB); err != nil {
			return err
		}
		return printStatus(s)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back every migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("refusing to drop all tables without --yes")
		}

		s, err := openSQLite()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := migrations.MigrateDown(s.DB().DB); err != nil {
			return err
		}
		return printStatus(s)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSQLite()
		if err != nil {
			return err
		}
		defer s.Close()

		return printStatus(s)
	},
}

func printStatus(s *store.SQLiteStore) error {
	status, err := migrations.CheckStatus(s.DB().DB)
	if err != nil {
		return err
	}
	state := "up to date"
	switch {
	case status.Dirty:
		state = "dirty"
	case !status.UpToDate():
		state = "pending"
	}
	fmt.Printf("Schema version: %d/%d (%s)\n", status.Version, status.Latest, state)
	return nil
}

// schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create Neo4j constraints and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		driver, err := graph.NewDriver(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
		if err != nil {
			return err
		}
		repo := graph.NewRepository(driver)
		defer repo.Close()

		if reset, _ := cmd.Flags().GetBool("reset"); reset {
			log.Warn("Deleting all graph data", zap.String("uri", cfg.Neo4jURI))
			if err := repo.DropAll(ctx); err != nil {
				return err
			}
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		fmt.Printf("Graph schema ready at %s\n", cfg.Neo4jURI)
		return nil
	},
}

// seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample developers, connections and posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sm, log, err := newManager(ctx)
		if err != nil {
			return err
		}
		defer sm.StopAll()

		summary, err := seed(ctx, sm, log)
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %d users, %d requests (%d accepted), %d posts\n",
			summary.Users, summary.Requests, summary.Accepted, summary.Posts)
		return nil
	},
}

// sweep command
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired read notifications once",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sm, _, err := newManager(ctx)
		if err != nil {
			return err
		}
		defer sm.StopAll()

		deleted, err := sm.Notifications.SweepExpired(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d expired notifications\n", deleted)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
	migrateDownCmd.Flags().Bool("yes", false, "Confirm dropping every table")

	schemaCmd.Flags().Bool("reset", false, "Delete all nodes before creating the schema")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(sweepCmd)
}
