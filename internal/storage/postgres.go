package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/airline"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS flights (
		id         TEXT PRIMARY KEY,
		position   INTEGER NOT NULL,
		data       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// PostgresStore keeps one JSON record per flight, keyed by flight number.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and creates the table if needed.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create flights table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// SaveAll replaces every stored flight in one transaction.
func (s *PostgresStore) SaveAll(ctx context.Context, flights []*airline.Flight) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM flights`); err != nil {
		return fmt.Errorf("failed to clear flights: %w", err)
	}
	for i, f := range flights {
		data, err := json.Marshal(NewRecord(f))
		if err != nil {
			return fmt.Errorf("failed to encode flight %s: %w", f.Number(), err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO flights (id, position, data)
			VALUES ($1, $2, $3)
		`, f.Number(), i, data)
		if err != nil {
			return fmt.Errorf("failed to save flight %s: %w", f.Number(), err)
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) LoadAll(ctx context.Context) ([]*airline.Flight, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM flights ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query flights: %w", err)
	}
	defer rows.Close()

	var records []FlightRecord
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan flight: %w", err)
		}
		var rec FlightRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode flight: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read flights: %w", err)
	}
	return Snapshot{Flights: records}.Restore()
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
