package model

import "time"

// UserProgress is the per-session XP/streak ledger. Exactly one row per
// session, created lazily with zero counters. TotalXP and TasksCompleted
// are clamped at zero and never go negative.
type UserProgress struct {
	SessionID        string     `json:"session_id"`
	TotalXP          int        `json:"total_xp"`
	TasksCompleted   int        `json:"tasks_completed"`
	StreakDays       int        `json:"streak_days"`
	LastActivityDate *time.Time `json:"last_activity_date"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// DashboardStats summarizes the try-list for the dashboard view.
type DashboardStats struct {
	TryListCount   int `json:"try_list_count"`
	CompletedCount int `json:"completed_count"`
	PendingCount   int `json:"pending_count"`
}
