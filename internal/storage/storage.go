// Package storage owns the durable reservation set. It is the only
// component allowed to mutate persistent state; every write goes through
// TryCommit or DeleteByIDAndOwner.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/AndriiKibish/BBQ-reserve/internal/models"
	"github.com/AndriiKibish/BBQ-reserve/internal/schedule"
)

var (
	// ErrNotFound is returned when a delete matched no row for the given
	// id and owner.
	ErrNotFound = errors.New("storage: reservation not found")
)

// ConflictError is returned by TryCommit when the candidate interval
// overlaps committed reservations on the same date.
type ConflictError struct {
	Conflicting []models.Reservation
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("storage: time slot conflicts with %d existing reservation(s)", len(e.Conflicting))
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS reservations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	unit INTEGER NOT NULL,
	owner INTEGER NOT NULL,
	date TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reservations_date ON reservations(date);
CREATE INDEX IF NOT EXISTS idx_reservations_owner ON reservations(owner);
`

// Store is the reservation store backed by SQLite.
//
// The write mutex serializes TryCommit and DeleteByIDAndOwner across
// sessions, so the in-transaction conflict check and the insert behave
// as one indivisible operation. Reads take no lock and see only fully
// committed rows.
type Store struct {
	db     *sql.DB
	writeM sync.Mutex
	logger zerolog.Logger
}

// Open opens (creating if needed) the SQLite database at path and
// applies the schema.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}

	// SQLite allows a single writer; additional connections would only
	// trade lock errors for the mutex we already hold.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: apply schema: %w", err)
	}

	return &Store{db: db, logger: logger.With().Str("component", "storage").Logger()}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// TryCommit atomically checks the candidate against every reservation on
// its date and inserts it when no interval overlaps. On conflict it
// returns a *ConflictError listing the blocking rows; the store is left
// unchanged.
func (s *Store) TryCommit(ctx context.Context, candidate models.Reservation) (models.Reservation, error) {
	start, err := schedule.ParseTimeOfDay(candidate.StartTime)
	if err != nil {
		return models.Reservation{}, fmt.Errorf("storage: candidate start: %w", err)
	}
	end, err := schedule.ParseTimeOfDay(candidate.EndTime)
	if err != nil {
		return models.Reservation{}, fmt.Errorf("storage: candidate end: %w", err)
	}
	if err := schedule.ValidateRange(start, end); err != nil {
		return models.Reservation{}, err
	}

	s.writeM.Lock()
	defer s.writeM.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Reservation{}, fmt.Errorf("storage: begin commit tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := scanReservations(tx.QueryContext(ctx,
		`SELECT id, unit, owner, date, start_time, end_time, created_at
		 FROM reservations WHERE date = ? ORDER BY id`, candidate.Date))
	if err != nil {
		return models.Reservation{}, fmt.Errorf("storage: load reservations for %s: %w", candidate.Date, err)
	}

	conflicting, err := schedule.Conflicts(start, end, existing)
	if err != nil {
		return models.Reservation{}, err
	}
	if len(conflicting) > 0 {
		return models.Reservation{}, &ConflictError{Conflicting: conflicting}
	}

	candidate.CreatedAt = time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (unit, owner, date, start_time, end_time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		candidate.Unit, candidate.Owner, candidate.Date,
		candidate.StartTime, candidate.EndTime,
		candidate.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return models.Reservation{}, fmt.Errorf("storage: insert reservation: %w", err)
	}

	candidate.ID, err = res.LastInsertId()
	if err != nil {
		return models.Reservation{}, fmt.Errorf("storage: last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Reservation{}, fmt.Errorf("storage: commit reservation: %w", err)
	}

	s.logger.Info().
		Int64("id", candidate.ID).
		Int("unit", candidate.Unit).
		Str("date", candidate.Date).
		Str("slot", candidate.StartTime+"-"+candidate.EndTime).
		Msg("reservation committed")

	return candidate, nil
}

// ListByOwner returns the owner's reservations in insertion order.
func (s *Store) ListByOwner(ctx context.Context, owner int64) ([]models.Reservation, error) {
	return scanReservations(s.db.QueryContext(ctx,
		`SELECT id, unit, owner, date, start_time, end_time, created_at
		 FROM reservations WHERE owner = ? ORDER BY id`, owner))
}

// ListAll returns every reservation in insertion order.
func (s *Store) ListAll(ctx context.Context) ([]models.Reservation, error) {
	return scanReservations(s.db.QueryContext(ctx,
		`SELECT id, unit, owner, date, start_time, end_time, created_at
		 FROM reservations ORDER BY id`))
}

// ListByDate returns reservations on the given date in insertion order.
func (s *Store) ListByDate(ctx context.Context, date string) ([]models.Reservation, error) {
	return scanReservations(s.db.QueryContext(ctx,
		`SELECT id, unit, owner, date, start_time, end_time, created_at
		 FROM reservations WHERE date = ? ORDER BY id`, date))
}

// ListByDateRange returns reservations with from <= date <= to, ordered
// by date then id. Dates compare lexicographically in YYYY-MM-DD form.
func (s *Store) ListByDateRange(ctx context.Context, from, to string) ([]models.Reservation, error) {
	return scanReservations(s.db.QueryContext(ctx,
		`SELECT id, unit, owner, date, start_time, end_time, created_at
		 FROM reservations WHERE date >= ? AND date <= ? ORDER BY date, id`, from, to))
}

// DeleteByIDAndOwner removes the reservation only when it belongs to the
// caller. A missing or foreign id yields ErrNotFound rather than a
// silent no-op.
func (s *Store) DeleteByIDAndOwner(ctx context.Context, id, owner int64) error {
	s.writeM.Lock()
	defer s.writeM.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM reservations WHERE id = ? AND owner = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("storage: delete reservation %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: delete reservation %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Info().Int64("id", id).Int64("owner", owner).Msg("reservation cancelled")
	return nil
}

func scanReservations(rows *sql.Rows, err error) ([]models.Reservation, error) {
	if err != nil {
		return nil, fmt.Errorf("storage: query reservations: %w", err)
	}
	defer rows.Close()

	var out []models.Reservation
	for rows.Next() {
		var r models.Reservation
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Unit, &r.Owner, &r.Date, &r.StartTime, &r.EndTime, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: scan reservation: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			r.CreatedAt = ts
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate reservations: %w", err)
	}
	return out, nil
}
