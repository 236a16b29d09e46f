package migration

import (
	"errors"
	"fmt"

	"github.com/wcewong/paygen/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Source opens the embedded SQL migrations.
func Source() (source.Driver, error) {
	return iofs.New(migrations.FS, ".")
}

// New builds a migrator for databaseURL (pgx5:// scheme) over the embedded
// migrations.
func New(databaseURL string, logger *zap.Logger) (*migrate.Migrate, error) {
	src, err := Source()
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("init migrate: %w", err)
	}
	if logger != nil {
		m.Log = zapLogger{l: logger.Named("migrate").Sugar()}
	}
	return m, nil
}

// Up applies every pending migration. Nothing to apply is not an error.
func Up(m *migrate.Migrate) error {
	return ignoreNoChange(m.Up())
}

// Down rolls back steps migrations.
func Down(m *migrate.Migrate, steps int) error {
	if steps < 1 {
		return fmt.Errorf("steps must be at least 1, got %d", steps)
	}
	return ignoreNoChange(m.Steps(-steps))
}

func ignoreNoChange(err error) error {
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

type zapLogger struct {
	l *zap.SugaredLogger
}

func (z zapLogger) Printf(format string, v ...any) {
	z.l.Infof(format, v...)
}

func (z zapLogger) Verbose() bool {
	return false
}
