package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"wedding-rsvp/internal/models"
)

// ErrNotFound is returned when a response id is unknown
var ErrNotFound = errors.New("response not found")

const schema = `
CREATE TABLE IF NOT EXISTS rsvp_response (
    id TEXT PRIMARY KEY,
    batch_id TEXT NOT NULL,
    name TEXT NOT NULL,
    attendance TEXT NOT NULL CHECK (attendance IN ('Ja', 'Nee')),
    event TEXT NOT NULL DEFAULT '',
    dietary TEXT NOT NULL,
    songs TEXT NOT NULL DEFAULT '[]',
    tier TEXT NOT NULL,
    submitted_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rsvp_response_batch ON rsvp_response(batch_id);
CREATE INDEX IF NOT EXISTS idx_rsvp_response_attendance ON rsvp_response(attendance);
`

// Storage keeps a local copy of every delivered RSVP record
type Storage struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewStorage opens (or creates) the SQLite database at filePath
func NewStorage(filePath string, log zerolog.Logger) (*Storage, error) {
	if filePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer at a time
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Storage{
		db:  db,
		log: log.With().Str("component", "Storage").Logger(),
	}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Deliver stores a submission record. Re-delivering the same record id
// overwrites the earlier row.
func (s *Storage) Deliver(ctx context.Context, rec models.SubmissionRecord) error {
	songs, err := json.Marshal(rec.Songs)
	if err != nil {
		return fmt.Errorf("failed to marshal songs: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rsvp_response (id, batch_id, name, attendance, event, dietary, songs, tier, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			batch_id = excluded.batch_id,
			name = excluded.name,
			attendance = excluded.attendance,
			event = excluded.event,
			dietary = excluded.dietary,
			songs = excluded.songs,
			tier = excluded.tier,
			submitted_at = excluded.submitted_at
	`, rec.ID, rec.BatchID, rec.Name, rec.Attendance, rec.Event, rec.Dietary, string(songs), rec.Tier, rec.SubmittedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to store response: %w", err)
	}

	s.log.Debug().Str("id", rec.ID).Str("name", rec.Name).Msg("Stored response")
	return nil
}

// GetResponse retrieves a response by id
func (s *Storage) GetResponse(ctx context.Context, id string) (*models.SubmissionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, batch_id, name, attendance, event, dietary, songs, tier, submitted_at
		FROM rsvp_response WHERE id = ?
	`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetAllResponses returns every stored response, oldest first
func (s *Storage) GetAllResponses(ctx context.Context) ([]models.SubmissionRecord, error) {
	return s.query(ctx, `
		SELECT id, batch_id, name, attendance, event, dietary, songs, tier, submitted_at
		FROM rsvp_response ORDER BY submitted_at, name
	`)
}

// GetResponsesByAttendance returns the yes or no responses
func (s *Storage) GetResponsesByAttendance(ctx context.Context, attending bool) ([]models.SubmissionRecord, error) {
	attendance := models.AttendanceNo
	if attending {
		attendance = models.AttendanceYes
	}
	return s.query(ctx, `
		SELECT id, batch_id, name, attendance, event, dietary, songs, tier, submitted_at
		FROM rsvp_response WHERE attendance = ? ORDER BY submitted_at, name
	`, attendance)
}

// CountByEvent returns the number of attending guests per event label
func (s *Storage) CountByEvent(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event, COUNT(*) FROM rsvp_response
		WHERE attendance = ? GROUP BY event
	`, models.AttendanceYes)
	if err != nil {
		return nil, fmt.Errorf("failed to count responses: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var event string
		var n int
		if err := rows.Scan(&event, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[event] = n
	}
	return counts, rows.Err()
}

func (s *Storage) query(ctx context.Context, query string, args ...any) ([]models.SubmissionRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	var records []models.SubmissionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*models.SubmissionRecord, error) {
	var rec models.SubmissionRecord
	var songs string
	err := row.Scan(&rec.ID, &rec.BatchID, &rec.Name, &rec.Attendance, &rec.Event,
		&rec.Dietary, &songs, &rec.Tier, &rec.SubmittedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan response: %w", err)
	}

	if err := json.Unmarshal([]byte(songs), &rec.Songs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal songs: %w", err)
	}
	return &rec, nil
}
