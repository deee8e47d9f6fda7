package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/trailhead-app/trailhead/internal/model"
)

// dateFormat is how last_activity_date is stored (calendar date, no time).
const dateFormat = "2006-01-02"

// querier is satisfied by both *sql.DB and *sql.Tx so progress helpers can
// run standalone or inside a completion transaction.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

type ProgressStore struct {
	db *sql.DB
}

func NewProgressStore(db *sql.DB) *ProgressStore {
	return &ProgressStore{db: db}
}

const progressCols = `session_id, total_xp, tasks_completed, streak_days, last_activity_date, updated_at`

func scanProgress(scanner interface{ Scan(...any) error }) (*model.UserProgress, error) {
	var p model.UserProgress
	var lastActivity sql.NullString

	err := scanner.Scan(
		&p.SessionID, &p.TotalXP, &p.TasksCompleted, &p.StreakDays,
		&lastActivity, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastActivity.Valid && lastActivity.String != "" {
		d, err := time.Parse(dateFormat, lastActivity.String)
		if err != nil {
			return nil, fmt.Errorf("parse last_activity_date %q: %w", lastActivity.String, err)
		}
		p.LastActivityDate = &d
	}
	return &p, nil
}

// GetOrInit returns the progress row for the session, creating a zeroed row
// if none exists. The insert resolves conflicts as a no-op, so concurrent
// callers never produce duplicates or errors.
func (s *ProgressStore) GetOrInit(sessionID string) (*model.UserProgress, error) {
	return getOrInitProgress(s.db, sessionID)
}

func getOrInitProgress(q querier, sessionID string) (*model.UserProgress, error) {
	_, err := q.Exec(
		`INSERT INTO user_progress (session_id) VALUES (?) ON CONFLICT(session_id) DO NOTHING`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("init progress: %w", err)
	}

	row := q.QueryRow(`SELECT `+progressCols+` FROM user_progress WHERE session_id = ?`, sessionID)
	p, err := scanProgress(row)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return p, nil
}

// Reconcile recomputes total_xp and tasks_completed from the try-list rows
// as the source of truth and corrects the ledger if it has drifted (e.g.
// after a partially applied transition). Streak days are left alone since
// per-day completion history is not retained. Returns the corrected row and
// whether a correction was needed.
func (s *ProgressStore) Reconcile(sessionID string) (*model.UserProgress, bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	before, err := getOrInitProgress(tx, sessionID)
	if err != nil {
		return nil, false, err
	}

	var totalXP, completed int
	err = tx.QueryRow(
		`SELECT COALESCE(SUM(xp_value), 0), COUNT(*) FROM try_list_items WHERE session_id = ? AND is_completed = 1`,
		sessionID,
	).Scan(&totalXP, &completed)
	if err != nil {
		return nil, false, fmt.Errorf("sum completed items: %w", err)
	}

	drifted := totalXP != before.TotalXP || completed != before.TasksCompleted
	if drifted {
		_, err = tx.Exec(
			`UPDATE user_progress SET total_xp = ?, tasks_completed = ?, updated_at = CURRENT_TIMESTAMP WHERE session_id = ?`,
			totalXP, completed, sessionID,
		)
		if err != nil {
			return nil, false, fmt.Errorf("correct progress: %w", err)
		}
	}

	row := tx.QueryRow(`SELECT `+progressCols+` FROM user_progress WHERE session_id = ?`, sessionID)
	after, err := scanProgress(row)
	if err != nil {
		return nil, false, fmt.Errorf("reread progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit: %w", err)
	}
	return after, drifted, nil
}
