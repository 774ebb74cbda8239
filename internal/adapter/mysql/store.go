package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	driver "github.com/go-sql-driver/mysql"

	"techtreck/internal/domain"
	"techtreck/internal/migrate"
	"techtreck/internal/ports"
	"techtreck/internal/timefmt"
)

// Store implements ports.LogStore on a MySQL table.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// NewStore opens a MySQL connection using the provided DSN and applies migrations.
// Example DSN: user:pass@tcp(host:3306)/dbname
// parseTime, multiStatements and clientFoundRows are always enabled.
func NewStore(ctx context.Context, dsn string, log *slog.Logger) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("mysql: DSN is required")
	}
	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql: parse DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.MultiStatements = true
	cfg.ClientFoundRows = true
	cfg.Loc = time.UTC
	connector, err := driver.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	db := sql.OpenDB(connector)
	// Conservative pool defaults; can be adjusted via env later.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrate.Run(ctx, db, migrate.MySQL, log); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, log: log}, nil
}

const selectColumns = `id, entry_type, entry_date, start_time, end_time, duration_sec,
  duration_formatted, description, status, email, submitted_on, created_at, updated_at`

// Insert stores a new record and returns it with its id and timestamps.
func (s *Store) Insert(ctx context.Context, rec domain.LogRecord) (domain.LogRecord, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	rec.CreatedAt, rec.UpdatedAt = now, now
	const q = `
INSERT INTO log_entries
  (entry_type, entry_date, start_time, end_time, duration_sec, duration_formatted,
   description, status, email, submitted_on, created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	res, err := s.db.ExecContext(
		ctx,
		q,
		string(rec.Type),
		timefmt.Date(rec.Date),
		rec.StartTime,
		rec.EndTime,
		rec.DurationSec,
		rec.DurationFormatted,
		rec.Description,
		string(rec.Status),
		rec.Email,
		nullableDate(rec.SubmittedOn),
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return domain.LogRecord{}, fmt.Errorf("insert log entry: %w", err)
	}
	if rec.ID, err = res.LastInsertId(); err != nil {
		return domain.LogRecord{}, err
	}
	s.log.Info("mysql inserted log entry", slog.Int64("id", rec.ID), slog.String("type", string(rec.Type)))
	return rec, nil
}

// Update overwrites the mutable columns of an existing record.
func (s *Store) Update(ctx context.Context, rec domain.LogRecord) (domain.LogRecord, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return domain.LogRecord{}, err
	}
	const q = `
UPDATE log_entries SET
  entry_type=?,
  entry_date=?,
  start_time=?,
  end_time=?,
  duration_sec=?,
  duration_formatted=?,
  description=?,
  status=?,
  email=?,
  submitted_on=?,
  updated_at=?
WHERE id=?;
`
	res, err := tx.ExecContext(
		ctx,
		q,
		string(rec.Type),
		timefmt.Date(rec.Date),
		rec.StartTime,
		rec.EndTime,
		rec.DurationSec,
		rec.DurationFormatted,
		rec.Description,
		string(rec.Status),
		rec.Email,
		nullableDate(rec.SubmittedOn),
		time.Now().UTC().Truncate(time.Microsecond),
		rec.ID,
	)
	if err != nil {
		tx.Rollback()
		return domain.LogRecord{}, fmt.Errorf("update log entry %d: %w", rec.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		tx.Rollback()
		return domain.LogRecord{}, ports.ErrNotFound
	}
	updated, err := scanRecord(tx.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM log_entries WHERE id = ?", rec.ID))
	if err != nil {
		tx.Rollback()
		return domain.LogRecord{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.LogRecord{}, err
	}
	return updated, nil
}

// Get loads one record by id.
func (s *Store) Get(ctx context.Context, id int64) (domain.LogRecord, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM log_entries WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.LogRecord{}, ports.ErrNotFound
	}
	return rec, err
}

// Delete removes one record by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM log_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete log entry %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ports.ErrNotFound
	}
	s.log.Info("mysql deleted log entry", slog.Int64("id", id))
	return nil
}

// List returns records matching q ordered by date, start time and id.
func (s *Store) List(ctx context.Context, q domain.LogQuery) ([]domain.LogRecord, error) {
	var (
		where []string
		args  []any
	)
	if q.Type != "" {
		where = append(where, "entry_type = ?")
		args = append(args, string(q.Type))
	}
	if !q.Range.From.IsZero() {
		where = append(where, "entry_date >= ?")
		args = append(args, timefmt.Date(q.Range.From))
	}
	if !q.Range.To.IsZero() {
		where = append(where, "entry_date <= ?")
		args = append(args, timefmt.Date(q.Range.To))
	}
	query := "SELECT " + selectColumns + " FROM log_entries"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY entry_date ASC, start_time ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list log entries: %w", err)
	}
	defer rows.Close()

	var out []domain.LogRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the underlying DB.
func (s *Store) Close() error { return s.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (domain.LogRecord, error) {
	var (
		rec         domain.LogRecord
		entryType   string
		status      string
		submittedOn sql.NullTime
	)
	if err := sc.Scan(
		&rec.ID,
		&entryType,
		&rec.Date,
		&rec.StartTime,
		&rec.EndTime,
		&rec.DurationSec,
		&rec.DurationFormatted,
		&rec.Description,
		&status,
		&rec.Email,
		&submittedOn,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return domain.LogRecord{}, err
	}
	rec.Type = domain.EntryType(entryType)
	rec.Status = domain.Status(status)
	rec.Date = domain.Day(rec.Date)
	if submittedOn.Valid {
		rec.SubmittedOn = domain.Day(submittedOn.Time)
	}
	return rec, nil
}

func nullableDate(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return timefmt.Date(t)
}
