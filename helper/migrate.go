package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"
	"realty/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const (
	ActionUp     = "up"
	ActionDown   = "down"
	ActionStepUp = "step-up"
	ActionDrop   = "drop"
)

const defaultMigrationPath = "file://migrations/postgres"

// DSN builds the write connection string understood by the migrate postgres driver.
func DSN(config *config.Config) string {
	var extra url.Values
	if table := config.DB.Postgres.MigrationTable; table != "" {
		extra = url.Values{"x-migrations-table": {table}}
	}

	return config.DB.Postgres.Write.DSN(extra)
}

func NewMigrator(sourceURL, dsn string) (*migrate.Migrate, error) {
	mig, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func getConnection(config *config.Config) (*migrate.Migrate, error) {
	source := config.DB.Postgres.MigrationPath
	if source == "" {
		source = defaultMigrationPath
	}

	return NewMigrator(source, DSN(config))
}

func Runner(config *config.Config, action string) error {
	mig, err := getConnection(config)
	if err != nil {
		return err
	}

	defer mig.Close()

	return Apply(mig, action)
}

// Apply runs action against an already opened migrator.
func Apply(mig *migrate.Migrate, action string) error {
	switch action {
	case ActionUp:
		if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error running migrations: %w", err)
		}

		log.Info().Msg("Database migrations completed successfully")

		return nil
	case ActionDown:
		if err := mig.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error rolling back migrations: %w", err)
		}

		log.Info().Msg("Database migrations rolled back successfully")

		return nil
	case ActionStepUp:
		if err := mig.Steps(1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error running migrations: %w", err)
		}

		log.Info().Msg("Database migrations completed successfully")

		return nil
	case ActionDrop:
		if err := mig.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error rolling back migrations: %w", err)
		}

		log.Info().Msg("Database migrations rolled back successfully")

		return nil
	}

	return fmt.Errorf("unknown migration action %q", action)
}

// Version reports the applied schema version and whether the last run left it dirty.
func Version(config *config.Config) (uint, bool, error) {
	mig, err := getConnection(config)
	if err != nil {
		return 0, false, err
	}

	defer mig.Close()

	version, dirty, err := mig.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, fmt.Errorf("error reading migration version: %w", err)
	}

	return version, dirty, nil
}

func Up(config *config.Config) error {
	return Runner(config, ActionUp)
}

func StepUp(config *config.Config) error {
	return Runner(config, ActionStepUp)
}

func Down(config *config.Config) error {
	return Runner(config, ActionDown)
}

func Drop(config *config.Config) error {
	return Runner(config, ActionDrop)
}
