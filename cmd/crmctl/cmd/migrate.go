package cmd

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	_ "github.com/lib/pq"
	"github.com/lojacrm/backend/internal/infrastructure/config"
	"github.com/lojacrm/backend/internal/infrastructure/logger"
	"github.com/lojacrm/backend/internal/infrastructure/migration"
	"github.com/lojacrm/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	var path string
	c := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
		Long: `PostgreSQL databases are migrated with the SQL files under --path.
SQLite databases are created from the models, so only "up" applies to them.
"create" and "list" work on the directory alone.`,
	}
	c.PersistentFlags().StringVar(&path, "path", "migrations", "Migrations directory")

	c.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd, opts, path, func(m *migration.Migrator) error {
					return m.Up()
				})
			},
		},
		&cobra.Command{
			Use:   "down [n|all]",
			Short: "Roll back n migrations (default 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					if args[0] == "all" {
						steps = 0
					} else {
						n, err := strconv.Atoi(args[0])
						if err != nil || n < 1 {
							return fmt.Errorf("invalid step count %q", args[0])
						}
						steps = n
					}
				}
				return withMigrator(cmd, opts, path, func(m *migration.Migrator) error {
					return m.Down(steps)
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied migration version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd, opts, path, func(m *migration.Migrator) error {
					status, err := m.Status()
					if err != nil {
						return err
					}
					out := cmd.OutOrStdout()
					if status.Version == 0 {
						fmt.Fprintln(out, "No migrations applied")
						return nil
					}
					fmt.Fprintf(out, "Version %06d", status.Version)
					if status.Dirty {
						color.New(color.FgRed).Fprint(out, " (dirty)")
					}
					fmt.Fprintln(out)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the migration version without running migrations (clears the dirty flag)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return withMigrator(cmd, opts, path, func(m *migration.Migrator) error {
					return m.Force(version)
				})
			},
		},
		&cobra.Command{
			Use:   "create <name> [description]",
			Short: "Write an empty up/down migration pair",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				description := ""
				if len(args) == 2 {
					description = args[1]
				}
				mf, err := migration.CreateMigration(path, args[0], description)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				color.New(color.FgGreen).Fprintf(out, "✓ Created migration %06d\n", mf.Version)
				fmt.Fprintf(out, "  %s\n  %s\n", mf.UpPath, mf.DownPath)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List migration files",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				files, err := migration.ListMigrations(path)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(files) == 0 {
					color.New(color.FgYellow).Fprintln(out, "No migrations found")
					return nil
				}
				for _, f := range files {
					fmt.Fprintf(out, "%06d  %s\n", f.Version, f.Name)
				}
				return nil
			},
		},
	)
	return c
}

// withMigrator opens the configured database and runs fn against it.
// SQLite only supports "up", which creates the tables from the models.
func withMigrator(cmd *cobra.Command, opts *rootOptions, path string, fn func(*migration.Migrator) error) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	log := logger.NewCLI(cmd.ErrOrStderr(), opts.verbose)
	defer func() {
		_ = log.Sync()
	}()

	out := cmd.OutOrStdout()
	if cfg.Database.Driver == config.DriverSQLite {
		if cmd.Name() != "up" {
			return fmt.Errorf("migrate %s is only supported on PostgreSQL", cmd.Name())
		}
		db, err := persistence.NewDatabase(&cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.AutoMigrate(); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintln(out, "✓ SQLite schema is up to date")
		return nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(cmd.Context()); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	m, err := migration.New(db, abs, log)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := fn(m); err != nil {
		return err
	}
	if cmd.Name() == "up" || cmd.Name() == "down" {
		color.New(color.FgGreen).Fprintf(out, "✓ migrate %s done\n", cmd.Name())
	}
	return nil
}
