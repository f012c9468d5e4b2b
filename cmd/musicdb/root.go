package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tordrt/musicdb"
	"github.com/tordrt/musicdb/internal/config"
)

// app carries what every subcommand needs once flags and config are read.
type app struct {
	v          *viper.Viper
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "musicdb",
		Short: "Create, seed and inspect the music streaming schema",
		Long: `musicdb creates the music streaming schema (artists, genres, albums, songs,
song genres, users and ratings) on PostgreSQL, MySQL or SQLite, loads its seed
data in dependency order and exports, imports, verifies or describes it.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("db-url", "", "PostgreSQL connection string")
	flags.String("mysql-url", "", "MySQL connection string")
	flags.String("sqlite", "", "SQLite database file path")
	flags.StringP("schema", "s", "", "Database schema name (default: public for PostgreSQL, from the DSN for MySQL)")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-format", "text", "Log format: text or json")
	flags.StringVar(&a.configPath, "config", "", "Config file (default: ./musicdb.yaml if present)")

	for key, flag := range map[string]string{
		"db_url":     "db-url",
		"mysql_url":  "mysql-url",
		"sqlite":     "sqlite",
		"schema":     "schema",
		"log.level":  "log-level",
		"log.format": "log-format",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(
		a.schemaCmd("create", "Create the seven tables", (*musicdb.DB).CreateSchema),
		a.schemaCmd("drop", "Drop every music table that exists", (*musicdb.DB).DropSchema),
		a.schemaCmd("seed", "Load the seed data into an empty schema", (*musicdb.DB).Seed),
		a.schemaCmd("reset", "Drop, create and seed the schema", (*musicdb.DB).Reset),
		a.schemaCmd("clear", "Delete every row, keeping the tables", (*musicdb.DB).Clear),
		a.countsCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.describeCmd(),
		a.verifyCmd(),
		a.migrateCmd(),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}
	a.logger = logger.With("run_id", uuid.NewString(), "command", cmd.Name())
	return nil
}

func newLogger(w io.Writer, c config.LogConfig) (*slog.Logger, error) {
	level, err := c.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	switch c.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", c.Format)
	}
}

// open connects to the configured database. The caller closes it with
// closeDB.
func (a *app) open(ctx context.Context) (*musicdb.DB, error) {
	url, err := a.cfg.DatabaseURL()
	if err != nil {
		return nil, err
	}
	return musicdb.Open(ctx, url, &musicdb.Options{SchemaName: a.cfg.Schema, Logger: a.logger})
}

func closeDB(mdb *musicdb.DB) {
	if err := mdb.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to close database connection: %v\n", err)
	}
}

// schemaCmd wraps a whole-schema operation that needs only a context.
func (a *app) schemaCmd(use, short string, op func(*musicdb.DB, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mdb, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer closeDB(mdb)

			if err := op(mdb, ctx); err != nil {
				return err
			}
			a.logger.InfoContext(ctx, "done")
			return nil
		},
	}
}

func (a *app) countsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Print the row count of every table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mdb, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer closeDB(mdb)

			counts, err := mdb.Counts(ctx)
			if err != nil {
				return err
			}
			for _, c := range counts {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-12s %d\n", c.Table, c.Rows)
			}
			return nil
		},
	}
}
