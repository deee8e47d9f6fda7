package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/trailhead-app/trailhead/internal/model"
	"github.com/trailhead-app/trailhead/internal/progress"
)

type TryListStore struct {
	db *sql.DB
}

func NewTryListStore(db *sql.DB) *TryListStore {
	return &TryListStore{db: db}
}

func scanTryListItem(scanner interface{ Scan(...any) error }) (*model.TryListItem, error) {
	var item model.TryListItem
	var sourceID sql.NullInt64
	var completedAt sql.NullTime

	err := scanner.Scan(
		&item.ID, &item.SessionID, &item.Title, &item.Description,
		&item.ItemType, &item.Duration, &item.XPValue, &sourceID,
		&item.IsCompleted, &completedAt, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if sourceID.Valid {
		item.SourceID = &sourceID.Int64
	}
	if completedAt.Valid {
		item.CompletedAt = &completedAt.Time
	}
	return &item, nil
}

const tryListCols = `id, session_id, title, description, item_type, duration, xp_value, source_id, is_completed, completed_at, created_at`

func (s *TryListStore) Create(sessionID, title, description, itemType, duration string, xpValue int, sourceID *int64) (*model.TryListItem, error) {
	var src sql.NullInt64
	if sourceID != nil {
		src = sql.NullInt64{Int64: *sourceID, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO try_list_items (session_id, title, description, item_type, duration, xp_value, source_id) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sessionID, title, description, itemType, duration, xpValue, src,
	)
	if err != nil {
		return nil, fmt.Errorf("insert try-list item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(sessionID, id)
}

// GetByID returns the item only if it belongs to the session. A missing row
// and a row owned by another session are both (nil, nil) so callers cannot
// tell the two apart.
func (s *TryListStore) GetByID(sessionID string, id int64) (*model.TryListItem, error) {
	item, err := getTryListItem(s.db, sessionID, id)
	if err != nil {
		return nil, fmt.Errorf("get try-list item: %w", err)
	}
	return item, nil
}

func getTryListItem(q querier, sessionID string, id int64) (*model.TryListItem, error) {
	row := q.QueryRow(`SELECT `+tryListCols+` FROM try_list_items WHERE id = ? AND session_id = ?`, id, sessionID)
	item, err := scanTryListItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return item, err
}

// List returns all items for the session, newest first. The id tiebreaker
// keeps the order strict when two rows share a creation timestamp.
func (s *TryListStore) List(sessionID string) ([]model.TryListItem, error) {
	rows, err := s.db.Query(
		`SELECT `+tryListCols+` FROM try_list_items WHERE session_id = ? ORDER BY created_at DESC, id DESC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list try-list items: %w", err)
	}
	defer rows.Close()

	var items []model.TryListItem
	for rows.Next() {
		item, err := scanTryListItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan try-list item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// Recent returns up to limit items ordered by completion time when present,
// falling back to creation time.
func (s *TryListStore) Recent(sessionID string, limit int) ([]model.TryListItem, error) {
	rows, err := s.db.Query(
		`SELECT `+tryListCols+` FROM try_list_items WHERE session_id = ?
		 ORDER BY COALESCE(completed_at, created_at) DESC, id DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent try-list items: %w", err)
	}
	defer rows.Close()

	var items []model.TryListItem
	for rows.Next() {
		item, err := scanTryListItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan try-list item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// Stats counts the session's items by completion state.
func (s *TryListStore) Stats(sessionID string) (model.DashboardStats, error) {
	var stats model.DashboardStats
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COUNT(CASE WHEN is_completed = 1 THEN 1 END),
		        COUNT(CASE WHEN is_completed = 0 THEN 1 END)
		 FROM try_list_items WHERE session_id = ?`,
		sessionID,
	).Scan(&stats.TryListCount, &stats.CompletedCount, &stats.PendingCount)
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("try-list stats: %w", err)
	}
	return stats, nil
}

// SetCompletion moves an item to the desired completion state and adjusts
// the session's progress ledger, all inside one transaction so concurrent
// transitions on the same item or session serialize against each other.
//
// The caller passes the desired state, not a flip command. If the item is
// already in that state the ledger is untouched and xpGained is 0, so a
// retried request cannot double-count XP. When a transition applies,
// xpGained is the magnitude of the ledger change in either direction.
//
// Returns (nil, nil, 0, nil) when the item does not exist or belongs to a
// different session.
func (s *TryListStore) SetCompletion(sessionID string, itemID int64, completed bool, now time.Time) (*model.TryListItem, *model.UserProgress, int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	item, err := getTryListItem(tx, sessionID, itemID)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("get try-list item: %w", err)
	}
	if item == nil {
		return nil, nil, 0, nil
	}

	prog, err := getOrInitProgress(tx, sessionID)
	if err != nil {
		return nil, nil, 0, err
	}

	if item.IsCompleted == completed {
		// Already in the desired state — nothing to apply.
		if err := tx.Commit(); err != nil {
			return nil, nil, 0, fmt.Errorf("commit: %w", err)
		}
		return item, prog, 0, nil
	}

	if completed {
		_, err = tx.Exec(
			`UPDATE try_list_items SET is_completed = 1, completed_at = ? WHERE id = ? AND session_id = ?`,
			now.UTC(), itemID, sessionID,
		)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("mark completed: %w", err)
		}

		streak := progress.NextStreak(prog.StreakDays, prog.LastActivityDate, now)
		_, err = tx.Exec(
			`UPDATE user_progress
			 SET total_xp = total_xp + ?,
			     tasks_completed = tasks_completed + 1,
			     streak_days = ?,
			     last_activity_date = ?,
			     updated_at = CURRENT_TIMESTAMP
			 WHERE session_id = ?`,
			item.XPValue, streak, now.Format(dateFormat), sessionID,
		)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("award xp: %w", err)
		}
	} else {
		_, err = tx.Exec(
			`UPDATE try_list_items SET is_completed = 0, completed_at = NULL WHERE id = ? AND session_id = ?`,
			itemID, sessionID,
		)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("mark pending: %w", err)
		}

		// Counters clamp at zero; last_activity_date and streak are left alone.
		_, err = tx.Exec(
			`UPDATE user_progress
			 SET total_xp = MAX(0, total_xp - ?),
			     tasks_completed = MAX(0, tasks_completed - 1),
			     updated_at = CURRENT_TIMESTAMP
			 WHERE session_id = ?`,
			item.XPValue, sessionID,
		)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("revoke xp: %w", err)
		}
	}

	updatedItem, err := getTryListItem(tx, sessionID, itemID)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("reread item: %w", err)
	}

	row := tx.QueryRow(`SELECT `+progressCols+` FROM user_progress WHERE session_id = ?`, sessionID)
	updatedProg, err := scanProgress(row)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("reread progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, 0, fmt.Errorf("commit: %w", err)
	}
	return updatedItem, updatedProg, item.XPValue, nil
}
