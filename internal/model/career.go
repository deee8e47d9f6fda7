package model

import "time"

// CareerMatch is an AI-generated career recommendation that may seed
// try-list items via its ID as source_id.
type CareerMatch struct {
	ID              int64     `json:"id"`
	SessionID       string    `json:"session_id"`
	CareerTitle     string    `json:"career_title"`
	Category        string    `json:"category"`
	Reason          string    `json:"reason"`
	ExampleTasks    string    `json:"example_tasks"`
	EnergyLevel     string    `json:"energy_level"`
	IncomeRange     string    `json:"income_range"`
	GrowthPotential string    `json:"growth_potential"`
	XPReward        int       `json:"xp_reward"`
	CreatedAt       time.Time `json:"created_at"`
}
