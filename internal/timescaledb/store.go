package timescaledb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"rackops-backend/config"
	"rackops-backend/internal/model"
)

// EventStore records one severity event per indexed log entry; the stats
// endpoints aggregate over this table.
type EventStore interface {
	StoreSeverityEvents(ctx context.Context, events []model.SeverityEvent) error
	Close()
}

type timescaleEventStore struct {
	pool      *pgxpool.Pool
	tableName string
}

const (
	severityEventsTableName = "severity_events"
	colTime                 = "time"
	colHostname             = "hostname"
	colLabel                = "label"
	colSeverity             = "severity"
)

func ProvideTimescaleDBPool(lc fx.Lifecycle, cfg *config.Config) (EventStore, *pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.TimescaleDB.DSN)
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse TimescaleDB DSN")
		return nil, nil, fmt.Errorf("invalid TimescaleDB DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Error().Err(err).Msg("Unable to create connection pool to TimescaleDB")
		return nil, nil, fmt.Errorf("failed to connect to TimescaleDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Error().Err(err).Msg("Failed to ping TimescaleDB")
		return nil, nil, fmt.Errorf("failed to ping TimescaleDB: %w", err)
	}
	log.Info().Msg("TimescaleDB connection pool created and verified.")

	store := &timescaleEventStore{
		pool:      pool,
		tableName: severityEventsTableName,
	}

	setupCtx, cancelSetup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSetup()
	if err := store.ensureHypertable(setupCtx); err != nil {
		pool.Close()
		log.Error().Err(err).Msg("Failed to ensure severity events hypertable exists")
		return nil, nil, fmt.Errorf("failed ensuring hypertable: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing TimescaleDB connection pool...")
			store.Close()
			return nil
		},
	})

	return store, pool, nil
}

func (s *timescaleEventStore) ensureHypertable(ctx context.Context) error {
	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			%s TIMESTAMPTZ NOT NULL,
			%s TEXT NOT NULL,
			%s TEXT NOT NULL,
			%s INTEGER NOT NULL
		);`,
		s.tableName, colTime, colHostname, colLabel, colSeverity)

	if _, err := s.pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create base table %s: %w", s.tableName, err)
	}
	log.Info().Str("table", s.tableName).Msg("Ensured base table exists.")

	checkHyperSQL := `SELECT EXISTS (
        SELECT 1 FROM timescaledb_information.hypertables WHERE hypertable_name = $1
    );`
	var isHypertable bool
	_ = s.pool.QueryRow(ctx, checkHyperSQL, s.tableName).Scan(&isHypertable)

	if !isHypertable {
		log.Info().Str("table", s.tableName).Msg("Table is not a hypertable, attempting to create...")
		_, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS timescaledb;")
		if err != nil {
			log.Warn().Err(err).Msg("Failed to ensure timescaledb extension exists (permission issue?). Trying to proceed...")
		}

		createHyperSQL := fmt.Sprintf(
			"SELECT create_hypertable('%s', '%s', if_not_exists => TRUE, chunk_time_interval => INTERVAL '1 day');",
			s.tableName,
			colTime,
		)
		_, err = s.pool.Exec(ctx, createHyperSQL)
		if err != nil && !strings.Contains(err.Error(), "already a hypertable") {
			// Plain Postgres works too, just without chunking.
			log.Warn().Err(err).Str("table", s.tableName).Msg("Could not create hypertable, continuing with a regular table")
		}
	}
	return nil
}

func (s *timescaleEventStore) StoreSeverityEvents(ctx context.Context, events []model.SeverityEvent) error {
	if len(events) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []interface{}{ev.Time, ev.Hostname, ev.Label, ev.Severity})
	}

	copied, err := s.pool.CopyFrom(
		ctx,
		pgx.Identifier{s.tableName},
		[]string{colTime, colHostname, colLabel, colSeverity},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		log.Error().Err(err).Int("event_count", len(events)).Msg("Failed to copy severity events")
		return fmt.Errorf("failed to store severity events: %w", err)
	}
	log.Debug().Int64("copied", copied).Msg("Stored severity events")
	return nil
}

func (s *timescaleEventStore) Close() {
	s.pool.Close()
}
