package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tordrt/musicdb/internal/migrations"
)

func (a *app) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema as versioned migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withMigrator(cmd.Context(), func(m *migrations.Migrator) error {
					return m.Up()
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all applied migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withMigrator(cmd.Context(), func(m *migrations.Migrator) error {
					return m.Down()
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied migration version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withMigrator(cmd.Context(), func(m *migrations.Migrator) error {
					version, dirty, applied, err := m.Version()
					if err != nil {
						return err
					}
					if !applied {
						_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no migration applied")
						return nil
					}
					suffix := ""
					if dirty {
						suffix = " (dirty)"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d%s\n", version, suffix)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "force VERSION",
			Short: "Set the migration version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}
				return a.withMigrator(cmd.Context(), func(m *migrations.Migrator) error {
					return m.Force(version)
				})
			},
		},
	)

	return cmd
}

// withMigrator runs fn with a migrator that owns the connection for the rest
// of the command.
func (a *app) withMigrator(ctx context.Context, fn func(*migrations.Migrator) error) error {
	mdb, err := a.open(ctx)
	if err != nil {
		return err
	}

	m, err := mdb.Migrator()
	if err != nil {
		closeDB(mdb)
		return err
	}

	runErr := fn(m)
	if err := m.Close(); err != nil {
		a.logger.WarnContext(ctx, "failed to close migrator", "error", err)
	}
	if runErr != nil {
		return runErr
	}
	a.logger.InfoContext(ctx, "done")
	return nil
}
