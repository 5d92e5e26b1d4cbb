package hiring

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// historyTimeLayout is fixed-width so history rows sort correctly as TEXT.
// RFC3339Nano strips trailing zeros, which breaks lexical ordering.
const historyTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Application kinds — each selects its lifecycle rules.
const (
	KindJob      = "job"
	KindTraining = "training"
)

// TrackedApplication is a single application record with its derived
// current status.
type TrackedApplication struct {
	ID          int64  `json:"id"`
	ApplicantID string `json:"applicant_id"`
	JobID       string `json:"job_id"`
	Kind        string `json:"kind"`
	Status      Status `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ApplicationAddInput is the input for application_add.
type ApplicationAddInput struct {
	ApplicantID string `json:"applicant_id"`
	JobID       string `json:"job_id"`
	Kind        string `json:"kind,omitempty"` // job (default) or training
	ActorID     string `json:"actor_id,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// ApplicationListInput is the input for application_list.
type ApplicationListInput struct {
	JobID  string `json:"job_id,omitempty"`
	Status string `json:"status,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// ApplicationTransitionInput is the input for application_transition.
type ApplicationTransitionInput struct {
	ID      int64  `json:"id"`
	Status  string `json:"status"`
	ActorID string `json:"actor_id,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// ApplicationResult is the output for add/transition operations.
type ApplicationResult struct {
	ID           int64         `json:"id"`
	Status       Status        `json:"status"`
	HistoryEntry *HistoryEntry `json:"history_entry,omitempty"`
	Message      string        `json:"message"`
}

// ApplicationListResult is the output for list operations.
type ApplicationListResult struct {
	Applications []TrackedApplication `json:"applications"`
	Total        int                  `json:"total"`
}

var (
	trackerDB   *sql.DB
	trackerOnce sync.Once
	trackerErr  error
)

// openTrackerDB opens (or creates) the SQLite application database.
func openTrackerDB() (*sql.DB, error) {
	trackerOnce.Do(func() {
		dir := filepath.Join(os.Getenv("HOME"), ".go_hire")
		if err := os.MkdirAll(dir, 0750); err != nil {
			trackerErr = fmt.Errorf("tracker: mkdir %s: %w", dir, err)
			return
		}
		dbPath := filepath.Join(dir, "applications.db")
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			trackerErr = fmt.Errorf("tracker: open db: %w", err)
			return
		}
		// SQLite's single writer also serializes concurrent transitions on
		// the same record, which the history invariant depends on.
		db.SetMaxOpenConns(1)
		if err := initTrackerSchema(db); err != nil {
			trackerErr = fmt.Errorf("tracker: init schema: %w", err)
			return
		}
		trackerDB = db
	})
	return trackerDB, trackerErr
}

// initTrackerSchema creates the tables if they don't exist. status_history
// is append-only: rows are inserted on every accepted transition and never
// updated or deleted. Archival is itself a transition.
func initTrackerSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS applications (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		applicant_id TEXT NOT NULL,
		job_id       TEXT NOT NULL,
		kind         TEXT NOT NULL,
		status       TEXT NOT NULL,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS status_history (
		id             TEXT PRIMARY KEY,
		application_id INTEGER NOT NULL REFERENCES applications(id),
		from_status    TEXT,
		to_status      TEXT NOT NULL,
		changed_at     TEXT NOT NULL,
		changed_by     TEXT,
		notes          TEXT
	)`)
	return err
}

// lifecycleFor maps an application kind to its rules.
func lifecycleFor(kind string) (Lifecycle, error) {
	switch kind {
	case KindJob:
		return ApplicationLifecycle, nil
	case KindTraining:
		return TrainingApplicationLifecycle, nil
	}
	return Lifecycle{}, fmt.Errorf("invalid kind %q (valid: %s, %s)", kind, KindJob, KindTraining)
}

// AddApplication creates an application in the lifecycle's initial status
// and records the submission as the first history entry (from = empty).
func AddApplication(ctx context.Context, input ApplicationAddInput) (*ApplicationResult, error) {
	if input.ApplicantID == "" || input.JobID == "" {
		return nil, errors.New("application_add: applicant_id and job_id are required")
	}

	kind := strings.ToLower(input.Kind)
	if kind == "" {
		kind = KindJob
	}
	lc, err := lifecycleFor(kind)
	if err != nil {
		return nil, fmt.Errorf("application_add: %w", err)
	}

	db, err := openTrackerDB()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := NewHistoryEntry("", lc.Initial(), input.ActorID, input.Notes, now)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("application_add: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(
		`INSERT INTO applications (applicant_id, job_id, kind, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		input.ApplicantID, input.JobID, kind, string(lc.Initial()),
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("application_add: insert: %w", err)
	}
	id, _ := res.LastInsertId()

	if err := insertHistory(tx, id, entry); err != nil {
		return nil, fmt.Errorf("application_add: history: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("application_add: commit: %w", err)
	}

	return &ApplicationResult{
		ID:           id,
		Status:       lc.Initial(),
		HistoryEntry: &entry,
		Message:      fmt.Sprintf("Application by %q for %q created with status %q (id=%d)", input.ApplicantID, input.JobID, lc.Initial(), id),
	}, nil
}

// TransitionApplication validates the requested status change against the
// record's lifecycle and, if authorized, appends the history entry and
// updates the derived status in one transaction. A same-state request is
// accepted as a no-op without touching history.
func TransitionApplication(ctx context.Context, input ApplicationTransitionInput) (*ApplicationResult, error) {
	if input.ID <= 0 {
		return nil, errors.New("application_transition: id is required")
	}
	if input.Status == "" {
		return nil, errors.New("application_transition: status is required")
	}

	db, err := openTrackerDB()
	if err != nil {
		return nil, err
	}

	var kind, current string
	err = db.QueryRowContext(ctx, `SELECT kind, status FROM applications WHERE id = ?`, input.ID).
		Scan(&kind, &current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("application_transition: application #%d not found", input.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("application_transition: load: %w", err)
	}

	lc, err := lifecycleFor(kind)
	if err != nil {
		return nil, fmt.Errorf("application_transition: %w", err)
	}

	requested := Status(strings.ToLower(input.Status))
	if err := lc.ValidateTransition(Status(current), requested); err != nil {
		return nil, err
	}

	if Status(current) == requested {
		return &ApplicationResult{
			ID:      input.ID,
			Status:  requested,
			Message: fmt.Sprintf("Application #%d already %q, nothing to do", input.ID, requested),
		}, nil
	}

	now := time.Now().UTC()
	entry := NewHistoryEntry(Status(current), requested, input.ActorID, input.Notes, now)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("application_transition: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`UPDATE applications SET status=?, updated_at=? WHERE id=?`,
		string(requested), now.Format(time.RFC3339), input.ID); err != nil {
		return nil, fmt.Errorf("application_transition: update: %w", err)
	}
	if err := insertHistory(tx, input.ID, entry); err != nil {
		return nil, fmt.Errorf("application_transition: history: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("application_transition: commit: %w", err)
	}

	return &ApplicationResult{
		ID:           input.ID,
		Status:       requested,
		HistoryEntry: &entry,
		Message:      fmt.Sprintf("Application #%d moved from %q to %q", input.ID, current, requested),
	}, nil
}

func insertHistory(tx *sql.Tx, applicationID int64, e HistoryEntry) error {
	_, err := tx.Exec(
		`INSERT INTO status_history (id, application_id, from_status, to_status, changed_at, changed_by, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, applicationID, string(e.From), string(e.To),
		e.ChangedAt.Format(historyTimeLayout), e.ChangedBy, e.Notes,
	)
	return err
}

// ListApplications returns applications, optionally filtered by job and/or
// status.
func ListApplications(ctx context.Context, input ApplicationListInput) (*ApplicationListResult, error) {
	db, err := openTrackerDB()
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	where := " WHERE 1=1"
	args := []any{}
	if input.JobID != "" {
		where += " AND job_id = ?"
		args = append(args, input.JobID)
	}
	if input.Status != "" {
		where += " AND status = ?"
		args = append(args, strings.ToLower(input.Status))
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, applicant_id, job_id, kind, status, created_at, updated_at
		 FROM applications`+where+` ORDER BY updated_at DESC LIMIT ?`,
		append(args, limit)...,
	)
	if err != nil {
		return nil, fmt.Errorf("application_list: query: %w", err)
	}
	defer rows.Close()

	var apps []TrackedApplication
	for rows.Next() {
		var a TrackedApplication
		if err := rows.Scan(&a.ID, &a.ApplicantID, &a.JobID, &a.Kind, &a.Status,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			continue
		}
		apps = append(apps, a)
	}

	var total int
	db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications`+where, args...).Scan(&total) //nolint:errcheck

	if apps == nil {
		apps = []TrackedApplication{}
	}
	return &ApplicationListResult{Applications: apps, Total: total}, nil
}

// ApplicationHistory returns the append-only status history of one
// application, oldest first.
func ApplicationHistory(ctx context.Context, id int64) ([]HistoryEntry, error) {
	db, err := openTrackerDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, from_status, to_status, changed_at, changed_by, notes
		 FROM status_history WHERE application_id = ? ORDER BY changed_at, id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("application_history: query: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var from, changedBy, notes sql.NullString
		var changedAt string
		if err := rows.Scan(&e.ID, &from, &e.To, &changedAt, &changedBy, &notes); err != nil {
			continue
		}
		e.From = Status(from.String)
		e.ChangedBy = changedBy.String
		e.Notes = notes.String
		if t, err := time.Parse(time.RFC3339Nano, changedAt); err == nil {
			e.ChangedAt = t
		}
		entries = append(entries, e)
	}
	return entries, nil
}
