package main

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ams/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrationsPath string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or inspect schema migrations",
	Long: `Apply or inspect schema migrations.

Without --path the migrations embedded in the binary are used. The
database connection comes from the AMS_DATABASE_* configuration.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(func(m *migration.Migrator) error {
			return m.Up()
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back every migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			return fmt.Errorf("refusing to roll back all migrations without --confirm")
		}
		return withMigrator(func(m *migration.Migrator) error {
			return m.Down()
		})
	},
}

var migrateStepsCmd = &cobra.Command{
	Use:   "steps <n>",
	Short: "Apply n migrations (negative n rolls back)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return withMigrator(func(m *migration.Migrator) error {
			return m.Steps(n)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(func(m *migration.Migrator) error {
			status, err := m.Status()
			if err != nil {
				return err
			}
			return printResult(cmd, status, func() {
				if status.Version == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No migrations applied")
					return
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", status.Version, status.Dirty)
			})
		})
	},
}

var migrateForceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Set the schema version without running migrations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return withMigrator(func(m *migration.Migrator) error {
			return m.Force(version)
		})
	},
}

var migrateCreateCmd = &cobra.Command{
	Use:   "create <name> [description]",
	Short: "Create an empty migration pair in the migrations directory",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := migrationsPath
		if dir == "" {
			dir = cfg.Database.MigrationsPath
		}
		description := ""
		if len(args) > 1 {
			description = args[1]
		}
		mf, err := migration.CreateMigration(dir, args[0], description)
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil
	},
}

var migrateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the migrations embedded in this binary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		names, err := migration.Available()
		if err != nil {
			return err
		}
		return printResult(cmd, names, func() {
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), "  -", n)
			}
		})
	},
}

func init() {
	migrateCmd.PersistentFlags().StringVar(&migrationsPath, "path", "", "migrations directory (default: embedded migrations)")
	migrateDownCmd.Flags().Bool("confirm", false, "confirm rolling back every migration")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStepsCmd, migrateVersionCmd,
		migrateForceCmd, migrateCreateCmd, migrateListCmd)
	rootCmd.AddCommand(migrateCmd)
}

func withMigrator(fn func(*migration.Migrator) error) error {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	m, err := migration.New(db, migrationsPath, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()
	return fn(m)
}
