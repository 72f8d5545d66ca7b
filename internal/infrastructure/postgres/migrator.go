package postgres

import (
	"database/sql"
	goerrors "errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/heliumchem/helium/internal/observability/logging"
	"github.com/heliumchem/helium/pkg/errors"
)

// Migrate applies all pending schema migrations from migrationsDir.  A
// database already at the latest version is not an error.
func Migrate(db *sql.DB, migrationsDir string, logger logging.Logger) error {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabase, "create migration driver")
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsDir, "postgres", driver)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabase, "create migrate instance")
	}

	if err := m.Up(); err != nil && !goerrors.Is(err, migrate.ErrNoChange) {
		version, _, _ := m.Version()
		return errors.Wrap(err, errors.CodeDatabase,
			fmt.Sprintf("run migrations (current version %d)", version))
	}

	version, dirty, err := m.Version()
	if err != nil && !goerrors.Is(err, migrate.ErrNilVersion) {
		logger.Warn("could not read migration version", logging.Err(err))
		return nil
	}

	logger.Info("schema migrations applied",
		logging.Int64("version", int64(version)),
		logging.Bool("dirty", dirty),
	)
	return nil
}
