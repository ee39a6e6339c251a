package postgres

//nolint:revive
import (
	"context"
	"fmt"
	"realty/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 5 * time.Second

// Connection splits reads from writes. Both may be the same pool.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// New opens the write pool and, when a separate read host is configured, the
// read pool. It exits the process if the write pool cannot be reached.
func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	write, err := Connect(context.Background(), "write", pg.Write, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to the write database")
	}

	if pg.Read.Host == "" || pg.Read == pg.Write {
		return &Connection{Read: write, Write: write}
	}

	read, err := Connect(context.Background(), "read", pg.Read, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Read replica unavailable, serving reads from the write database")

		read = write
	}

	return &Connection{Read: read, Write: write}
}

// Connect retries until the node answers a ping or MaxRetry attempts are spent.
func Connect(ctx context.Context, role string, node config.DBNode, cfg *config.Config) (*sqlx.DB, error) {
	pg := cfg.DB.Postgres
	attempts := max(pg.MaxRetry, 1)
	wait := time.Duration(pg.RetryWaitTime) * time.Second

	logger := log.With().
		Str("role", role).
		Str("host", node.Host).
		Str("port", node.Port).
		Str("db", node.Name).
		Logger()

	db, err := sqlx.Open("postgres", node.DSN(nil))
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", role, err)
	}

	db.SetMaxOpenConns(pg.MaxOpenConns)
	db.SetMaxIdleConns(pg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(pg.ConnMaxLifetimeMinutes) * time.Minute)

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err = db.PingContext(pingCtx)

		cancel()

		if err == nil {
			logger.Info().Int("attempt", attempt).Msg("Connected to database")

			return db, nil
		}

		if attempt >= attempts {
			break
		}

		logger.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("Database not ready, retrying")

		select {
		case <-ctx.Done():
			_ = db.Close()

			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	_ = db.Close()

	return nil, fmt.Errorf("connecting to %s database after %d attempts: %w", role, attempts, err)
}
