package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/restaurant-service/pkg/config"
	"github.com/platinummonkey/restaurant-service/pkg/storage/postgres"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(mg *postgres.Migrator, out io.Writer) error {
				if err := mg.Down(steps); err != nil {
					return err
				}
				fmt.Fprintf(out, "rolled back %d migration(s)\n", steps)
				return nil
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd, func(mg *postgres.Migrator, out io.Writer) error {
					if err := mg.Up(); err != nil {
						return err
					}
					fmt.Fprintln(out, "migrations applied")
					return nil
				})
			},
		},
		down,
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd, func(mg *postgres.Migrator, out io.Writer) error {
					v, dirty, err := mg.Version()
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "version %d (dirty: %t)\n", v, dirty)
					return nil
				})
			},
		},
	)
	return cmd
}

// withMigrator connects to the configured primary and runs fn against it
func withMigrator(cmd *cobra.Command, fn func(*postgres.Migrator, io.Writer) error) error {
	cfg, logger, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if cfg.Storage.Type != config.StoragePostgres {
		return fmt.Errorf("migrations need storage type %q, got %q", config.StoragePostgres, cfg.Storage.Type)
	}

	conn := cfg.Storage.ConnectionConfig()
	conn.ReplicaURLs = nil
	cm, err := postgres.NewConnectionManager(conn, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer cm.Close()

	mg, err := postgres.NewMigrator(cm.Primary())
	if err != nil {
		return err
	}
	return fn(mg, cmd.OutOrStdout())
}
