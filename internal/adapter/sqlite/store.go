// Package sqlite provides the embedded SQLite-backed log store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"techtreck/internal/domain"
	"techtreck/internal/migrate"
	"techtreck/internal/ports"
	"techtreck/internal/timefmt"
)

// Store implements ports.LogStore on a local SQLite file.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(v int64) time.Time { return time.UnixMilli(v).UTC() }

// Open opens (or creates) the database at path and applies migrations.
func Open(ctx context.Context, path string, log *slog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite: path is required")
	}
	dsn := "file:" + filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := migrate.Run(ctx, db, migrate.SQLite, log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

const selectColumns = `id, entry_type, entry_date, start_time, end_time, duration_sec,
  duration_formatted, description, status, email, submitted_on, created_at, updated_at`

// Insert stores a new record and returns it with its id and timestamps.
func (s *Store) Insert(ctx context.Context, rec domain.LogRecord) (domain.LogRecord, error) {
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now
	res, err := s.db.ExecContext(ctx, `
INSERT INTO log_entries
  (entry_type, entry_date, start_time, end_time, duration_sec, duration_formatted,
   description, status, email, submitted_on, created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
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
		toMillis(rec.CreatedAt),
		toMillis(rec.UpdatedAt),
	)
	if err != nil {
		return domain.LogRecord{}, fmt.Errorf("insert log entry: %w", err)
	}
	rec.ID, err = res.LastInsertId()
	if err != nil {
		return domain.LogRecord{}, err
	}
	s.log.Debug("sqlite inserted log entry", slog.Int64("id", rec.ID), slog.String("type", string(rec.Type)))
	return rec, nil
}

// Update overwrites the mutable columns of an existing record.
func (s *Store) Update(ctx context.Context, rec domain.LogRecord) (domain.LogRecord, error) {
	rec.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
UPDATE log_entries SET
  entry_type=?, entry_date=?, start_time=?, end_time=?, duration_sec=?, duration_formatted=?,
  description=?, status=?, email=?, submitted_on=?, updated_at=?
WHERE id=?`,
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
		toMillis(rec.UpdatedAt),
		rec.ID,
	)
	if err != nil {
		return domain.LogRecord{}, fmt.Errorf("update log entry %d: %w", rec.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.LogRecord{}, ports.ErrNotFound
	}
	return s.Get(ctx, rec.ID)
}

// Get loads one record by id.
func (s *Store) Get(ctx context.Context, id int64) (domain.LogRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM log_entries WHERE id = ?", id)
	rec, err := scanRecord(row)
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
		entryDate   string
		status      string
		submittedOn sql.NullString
		createdAt   int64
		updatedAt   int64
	)
	if err := sc.Scan(
		&rec.ID,
		&entryType,
		&entryDate,
		&rec.StartTime,
		&rec.EndTime,
		&rec.DurationSec,
		&rec.DurationFormatted,
		&rec.Description,
		&status,
		&rec.Email,
		&submittedOn,
		&createdAt,
		&updatedAt,
	); err != nil {
		return domain.LogRecord{}, err
	}
	day, err := timefmt.ParseDate(entryDate)
	if err != nil {
		return domain.LogRecord{}, fmt.Errorf("log entry %d: %w", rec.ID, err)
	}
	rec.Type = domain.EntryType(entryType)
	rec.Date = day
	rec.Status = domain.Status(status)
	if submittedOn.Valid && submittedOn.String != "" {
		if d, err := timefmt.ParseDate(submittedOn.String); err == nil {
			rec.SubmittedOn = d
		}
	}
	rec.CreatedAt = fromMillis(createdAt)
	rec.UpdatedAt = fromMillis(updatedAt)
	return rec, nil
}

func nullableDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return timefmt.Date(t)
}
