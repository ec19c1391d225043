package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ev-dashboard/internal/model"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// ErrLoadNotFound is returned when a load ID is not in the log.
var ErrLoadNotFound = errors.New("load not found")

// Store is the load log: one row per dataset load attempt plus its errors.
type Store struct {
	db     *sql.DB
	driver string
}

var schemas = map[string][]string{
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS loads (
			id TEXT PRIMARY KEY,
			source TEXT,
			checksum TEXT,
			status TEXT,
			raw_rows INTEGER,
			records INTEGER,
			dropped_rows INTEGER,
			dropped_year INTEGER,
			range_defaulted INTEGER,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS load_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			load_id TEXT,
			message TEXT,
			created_at DATETIME
		);`,
	},
	DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS loads (
			id TEXT PRIMARY KEY,
			source TEXT,
			checksum TEXT,
			status TEXT,
			raw_rows INTEGER,
			records INTEGER,
			dropped_rows INTEGER,
			dropped_year INTEGER,
			range_defaulted INTEGER,
			created_at TIMESTAMPTZ,
			updated_at TIMESTAMPTZ
		);`,
		`CREATE TABLE IF NOT EXISTS load_errors (
			id BIGSERIAL PRIMARY KEY,
			load_id TEXT,
			message TEXT,
			created_at TIMESTAMPTZ
		);`,
	},
}

// Open connects to the database and creates the tables if they don't exist.
func Open(driver, dsn string) (*Store, error) {
	ddl, ok := schemas[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	db, err := sql.Open(driver, strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// one writer at a time
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &Store{db: db, driver: driver}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SaveLoad stores a new load attempt in the running state
func (s *Store) SaveLoad(ctx context.Context, info model.LoadInfo) error {
	now := info.StartedAt.UTC()
	if now.IsZero() {
		now = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO loads (id, source, checksum, status, raw_rows, records, dropped_rows, dropped_year, range_defaulted, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		info.ID, info.Source, info.Checksum, model.LoadRunning, 0, 0, 0, 0, 0, now, now)
	return err
}

// FinishLoad records the outcome and normalization counts of a load
func (s *Store) FinishLoad(ctx context.Context, info model.LoadInfo) error {
	now := info.FinishedAt.UTC()
	if info.FinishedAt.IsZero() {
		now = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, s.rebind(`UPDATE loads SET checksum = ?, status = ?, raw_rows = ?, records = ?, dropped_rows = ?, dropped_year = ?, range_defaulted = ?, updated_at = ? WHERE id = ?`),
		info.Checksum, info.Status, info.Stats.Raw, info.Stats.Kept, info.Stats.Dropped(), info.Stats.DroppedYear, info.Stats.RangeDefaulted, now, info.ID)
	return err
}

// SaveLoadError records an error for a load
func (s *Store) SaveLoadError(ctx context.Context, loadID string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := s.db.ExecContext(ctx, s.rebind(`INSERT INTO load_errors (load_id, message, created_at) VALUES (?, ?, ?)`),
		loadID, err.Error(), now)
	return e
}

// ListLoads returns the most recent loads first, at most limit of them (0 means all)
func (s *Store) ListLoads(ctx context.Context, limit int) ([]model.LoadInfo, error) {
	query := `SELECT id, source, checksum, status, raw_rows, records, dropped_rows, dropped_year, range_defaulted, created_at, updated_at FROM loads ORDER BY created_at DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loads []model.LoadInfo
	for rows.Next() {
		info, err := scanLoad(rows)
		if err != nil {
			return nil, err
		}
		loads = append(loads, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range loads {
		if loads[i].Status != model.LoadFailed {
			continue
		}
		msgs, err := s.LoadErrors(ctx, loads[i].ID)
		if err != nil {
			return nil, err
		}
		if len(msgs) > 0 {
			loads[i].Error = msgs[len(msgs)-1]
		}
	}
	return loads, nil
}

// GetLoad fetches one load and its last error
func (s *Store) GetLoad(ctx context.Context, loadID string) (model.LoadInfo, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT id, source, checksum, status, raw_rows, records, dropped_rows, dropped_year, range_defaulted, created_at, updated_at FROM loads WHERE id = ?`), loadID)
	info, err := scanLoad(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LoadInfo{}, fmt.Errorf("%w: %s", ErrLoadNotFound, loadID)
	}
	if err != nil {
		return model.LoadInfo{}, err
	}
	msgs, err := s.LoadErrors(ctx, loadID)
	if err != nil {
		return model.LoadInfo{}, err
	}
	if len(msgs) > 0 {
		info.Error = msgs[len(msgs)-1]
	}
	return info, nil
}

// LoadErrors returns the error messages of a load, oldest first
func (s *Store) LoadErrors(ctx context.Context, loadID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT message FROM load_errors WHERE load_id = ? ORDER BY id`), loadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []string
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanLoad(sc scanner) (model.LoadInfo, error) {
	var info model.LoadInfo
	var checksum sql.NullString
	var raw, kept, dropped, droppedYear, defaulted int
	var createdAt, updatedAt time.Time
	if err := sc.Scan(&info.ID, &info.Source, &checksum, &info.Status, &raw, &kept, &dropped, &droppedYear, &defaulted, &createdAt, &updatedAt); err != nil {
		return model.LoadInfo{}, err
	}
	info.Checksum = checksum.String
	info.Stats = model.NormalizeStats{
		Raw:            raw,
		Kept:           kept,
		DroppedMissing: dropped - droppedYear,
		DroppedYear:    droppedYear,
		RangeDefaulted: defaulted,
	}
	info.StartedAt = createdAt
	if info.Status != model.LoadRunning {
		info.FinishedAt = updatedAt
	}
	return info, nil
}
