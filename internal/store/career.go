package store

import (
	"database/sql"
	"fmt"

	"github.com/trailhead-app/trailhead/internal/model"
)

type CareerStore struct {
	db *sql.DB
}

func NewCareerStore(db *sql.DB) *CareerStore {
	return &CareerStore{db: db}
}

const careerCols = `id, session_id, career_title, category, reason, example_tasks, energy_level, income_range, growth_potential, xp_reward, created_at`

func scanCareer(scanner interface{ Scan(...any) error }) (*model.CareerMatch, error) {
	var c model.CareerMatch
	err := scanner.Scan(
		&c.ID, &c.SessionID, &c.CareerTitle, &c.Category, &c.Reason,
		&c.ExampleTasks, &c.EnergyLevel, &c.IncomeRange, &c.GrowthPotential,
		&c.XPReward, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CareerStore) Create(sessionID, title, category, reason, exampleTasks, energyLevel, incomeRange, growthPotential string, xpReward int) (*model.CareerMatch, error) {
	result, err := s.db.Exec(
		`INSERT INTO career_matches (session_id, career_title, category, reason, example_tasks, energy_level, income_range, growth_potential, xp_reward)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, title, category, reason, exampleTasks,
		energyLevel, incomeRange, growthPotential, xpReward,
	)
	if err != nil {
		return nil, fmt.Errorf("insert career match: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+careerCols+` FROM career_matches WHERE id = ?`, id)
	return scanCareer(row)
}

// GetByID returns the career match only if it belongs to the session;
// missing and other-session rows are both (nil, nil).
func (s *CareerStore) GetByID(sessionID string, id int64) (*model.CareerMatch, error) {
	row := s.db.QueryRow(`SELECT `+careerCols+` FROM career_matches WHERE id = ? AND session_id = ?`, id, sessionID)
	c, err := scanCareer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get career match: %w", err)
	}
	return c, nil
}

// List returns all career matches for the session, newest first.
func (s *CareerStore) List(sessionID string) ([]model.CareerMatch, error) {
	rows, err := s.db.Query(
		`SELECT `+careerCols+` FROM career_matches WHERE session_id = ? ORDER BY created_at DESC, id DESC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list career matches: %w", err)
	}
	defer rows.Close()

	var careers []model.CareerMatch
	for rows.Next() {
		c, err := scanCareer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan career match: %w", err)
		}
		careers = append(careers, *c)
	}
	return careers, rows.Err()
}
