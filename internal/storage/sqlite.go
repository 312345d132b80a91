package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/airline"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS flights (
	id   TEXT PRIMARY KEY,
	data TEXT NOT NULL
)`

// SQLiteStore keeps one JSON record per flight in an embedded database,
// keyed by flight number.
type SQLiteStore struct {
	pool *sqlitex.Pool
	path string
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("storage: sqlite path is required")
	}
	// In-memory connections do not share a database.
	size := 4
	if path == ":memory:" {
		size = 1
	}
	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize: size,
		PrepareConn: func(conn *sqlite.Conn) error {
			if err := sqlitex.ExecuteTransient(conn, "PRAGMA busy_timeout=5000", nil); err != nil {
				return err
			}
			return sqlitex.ExecuteTransient(conn, sqliteSchema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	return &SQLiteStore{pool: pool, path: path}, nil
}

// SaveAll replaces every stored flight in one transaction.
func (s *SQLiteStore) SaveAll(ctx context.Context, flights []*airline.Flight) (err error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("failed to take sqlite connection: %w", err)
	}
	defer s.pool.Put(conn)

	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer endTransaction(&err)

	if err := sqlitex.Execute(conn, "DELETE FROM flights", nil); err != nil {
		return fmt.Errorf("failed to clear flights: %w", err)
	}
	for _, f := range flights {
		data, err := json.Marshal(NewRecord(f))
		if err != nil {
			return fmt.Errorf("failed to encode flight %s: %w", f.Number(), err)
		}
		err = sqlitex.Execute(conn, "INSERT OR REPLACE INTO flights (id, data) VALUES (?, ?)", &sqlitex.ExecOptions{
			Args: []any{f.Number(), string(data)},
		})
		if err != nil {
			return fmt.Errorf("failed to save flight %s: %w", f.Number(), err)
		}
	}
	return nil
}

func (s *SQLiteStore) LoadAll(ctx context.Context) ([]*airline.Flight, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to take sqlite connection: %w", err)
	}
	defer s.pool.Put(conn)

	var records []FlightRecord
	err = sqlitex.Execute(conn, "SELECT id, data FROM flights ORDER BY rowid", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			var rec FlightRecord
			if err := json.Unmarshal([]byte(stmt.ColumnText(1)), &rec); err != nil {
				return fmt.Errorf("failed to decode flight %s: %w", stmt.ColumnText(0), err)
			}
			records = append(records, rec)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query flights: %w", err)
	}
	return Snapshot{Flights: records}.Restore()
}

func (s *SQLiteStore) Close() error {
	if err := s.pool.Close(); err != nil {
		return fmt.Errorf("failed to close sqlite %s: %w", s.path, err)
	}
	return nil
}
