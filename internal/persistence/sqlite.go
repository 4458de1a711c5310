package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aristath/chartwatch/internal/modules/analysis"
	"github.com/aristath/chartwatch/internal/modules/fanout"
	"github.com/aristath/chartwatch/internal/utils"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite" // pure-Go sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	key        TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS scans (
	key        TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	expires_at INTEGER NOT NULL
);
`

// SQLiteStore is the reference Store implementation, backed by a
// pure-Go sqlite driver. Documents are msgpack-encoded blobs behind an
// expires_at column, the same cache-with-expiry shape the teacher uses
// for cached API responses, generalized from JSON to msgpack so the
// same encoding serves both the analysis cache and this store.
type SQLiteStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSQLiteStore opens (or creates) a sqlite database at path and applies
// the document-store schema. path may be ":memory:" for tests, in which
// case a shared-cache in-memory database is used so the connection pool
// doesn't hand out isolated, empty databases per connection.
func NewSQLiteStore(path string, log zerolog.Logger) (*SQLiteStore, error) {
	connStr := path + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)"
	if path == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1) // shared-cache in-memory db is dropped when the last connection closes
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(2)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply persistence schema: %w", err)
	}

	return &SQLiteStore{db: db, log: log.With().Str("component", "persistence").Logger()}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) saveDocument(ctx context.Context, table, key string, doc any, ttl time.Duration) error {
	done := utils.MeasureDBQuery("save_"+table, s.log)
	blob, err := msgpack.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s document: %w", table, err)
	}
	expiresAt := time.Now().Add(ttl).Unix()
	query := fmt.Sprintf("INSERT OR REPLACE INTO %s (key, data, expires_at) VALUES (?, ?, ?)", table)
	res, err := s.db.ExecContext(ctx, query, key, blob, expiresAt)
	if err != nil {
		return fmt.Errorf("store %s document: %w", table, err)
	}
	rows, _ := res.RowsAffected()
	done(rows)
	return nil
}

func (s *SQLiteStore) getDocument(ctx context.Context, table, key string, out any) (bool, error) {
	done := utils.MeasureDBQuery("get_"+table, s.log)
	query := fmt.Sprintf("SELECT data FROM %s WHERE key = ? AND expires_at > ?", table)
	var blob []byte
	err := s.db.QueryRowContext(ctx, query, key, time.Now().Unix()).Scan(&blob)
	if err == sql.ErrNoRows {
		done(0)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s document: %w", table, err)
	}
	if err := msgpack.Unmarshal(blob, out); err != nil {
		return false, fmt.Errorf("unmarshal %s document: %w", table, err)
	}
	done(1)
	return true, nil
}

func (s *SQLiteStore) SaveAnalysis(ctx context.Context, key string, snapshot analysis.Snapshot, ttl time.Duration) error {
	return s.saveDocument(ctx, "analyses", key, snapshot, ttl)
}

func (s *SQLiteStore) GetAnalysis(ctx context.Context, key string) (analysis.Snapshot, bool, error) {
	var snap analysis.Snapshot
	found, err := s.getDocument(ctx, "analyses", key, &snap)
	return snap, found, err
}

func (s *SQLiteStore) SaveScan(ctx context.Context, key string, result fanout.ScanResult, ttl time.Duration) error {
	return s.saveDocument(ctx, "scans", key, result, ttl)
}

func (s *SQLiteStore) GetScan(ctx context.Context, key string) (fanout.ScanResult, bool, error) {
	var result fanout.ScanResult
	found, err := s.getDocument(ctx, "scans", key, &result)
	return result, found, err
}

// SweepExpired deletes every analyses/scans row past its expires_at and
// returns the total number of rows removed, for the scheduler's periodic
// cache-sweep job.
func (s *SQLiteStore) SweepExpired(ctx context.Context) (int64, error) {
	now := time.Now().Unix()
	var total int64
	for _, table := range []string{"analyses", "scans"} {
		query := fmt.Sprintf("DELETE FROM %s WHERE expires_at <= ?", table)
		res, err := s.db.ExecContext(ctx, query, now)
		if err != nil {
			return total, fmt.Errorf("sweep %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("sweep %s rows affected: %w", table, err)
		}
		total += n
	}
	return total, nil
}
