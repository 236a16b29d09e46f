package migration_test

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/wcewong/paygen/internal/shared/migration"
	"github.com/wcewong/paygen/migrations"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
)

func TestSource_VersionsInOrder(t *testing.T) {
	src, err := migration.Source()
	if !assert.NoError(t, err) {
		return
	}
	defer src.Close()

	first, err := src.First()
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, uint(1), first)

	next, err := src.Next(first)
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, uint(2), next)

	_, err = src.Next(next)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSource_PayslipTableMigration(t *testing.T) {
	src, err := migration.Source()
	if !assert.NoError(t, err) {
		return
	}
	defer src.Close()

	r, ident, err := src.ReadUp(1)
	if !assert.NoError(t, err) {
		return
	}
	defer r.Close()

	body, err := io.ReadAll(r)
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, "create_payslip_calculations", ident)
	assert.Contains(t, string(body), "payslip_calculations")
}

func TestEmbeddedMigrations_EveryUpHasDown(t *testing.T) {
	ups, err := fs.Glob(migrations.FS, "*.up.sql")
	if !assert.NoError(t, err) {
		return
	}
	assert.NotEmpty(t, ups)

	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		_, err := fs.Stat(migrations.FS, down)
		assert.NoError(t, err, down)
	}
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := migration.New("unknown://localhost/paygen", nil)
	assert.Error(t, err)
}

func TestDown_RejectsNonPositiveSteps(t *testing.T) {
	assert.Error(t, migration.Down(&migrate.Migrate{}, 0))
}
