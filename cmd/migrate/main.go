package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/wcewong/paygen/internal/shared/config"
	"github.com/wcewong/paygen/internal/shared/migration"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := newRootCmd(os.Stdout, openFromEnv(logger)).Execute(); err != nil {
		logger.Error("migrate failed", zap.Error(err))
		os.Exit(1)
	}
}

// opener builds the migrator lazily so --help works without a database.
type opener func() (*migrate.Migrate, error)

func openFromEnv(logger *zap.Logger) opener {
	return func() (*migrate.Migrate, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		return migration.New(cfg.MigrationURL(), logger)
	}
}

func newRootCmd(out io.Writer, open opener) *cobra.Command {
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply or roll back the payslip database schema",
		SilenceUsage: true,
	}
	root.SetOut(out)

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(open, func(m *migrate.Migrate) error {
					if err := migration.Up(m); err != nil {
						return err
					}
					return printVersion(out, m)
				})
			},
		},
		newDownCmd(out, open),
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(open, func(m *migrate.Migrate) error {
					return printVersion(out, m)
				})
			},
		},
	)

	return root
}

func newDownCmd(out io.Writer, open opener) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return errors.New("--steps must be at least 1")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(open, func(m *migrate.Migrate) error {
				if err := migration.Down(m, steps); err != nil {
					return err
				}
				return printVersion(out, m)
			})
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	return cmd
}

func withMigrator(open opener, fn func(*migrate.Migrate) error) error {
	m, err := open()
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}

func printVersion(out io.Writer, m *migrate.Migrate) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(out, "no migrations applied")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "version %d (dirty: %t)\n", version, dirty)
	return nil
}
