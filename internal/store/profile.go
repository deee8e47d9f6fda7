package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/trailhead-app/trailhead/internal/model"
)

type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

const profileCols = `id, session_id, strengths, mbti, enneagram, holland_code, assessment_values, hobbies_current, hobbies_future, skills, created_at`

func scanProfile(scanner interface{ Scan(...any) error }) (*model.Profile, error) {
	var p model.Profile
	var enneagram sql.NullInt64
	var valuesJSON, hobbiesJSON string

	err := scanner.Scan(
		&p.ID, &p.SessionID, &p.Strengths, &p.MBTI, &enneagram,
		&p.HollandCode, &valuesJSON, &hobbiesJSON, &p.FutureHobbies,
		&p.Skills, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if enneagram.Valid {
		p.Enneagram = &enneagram.Int64
	}
	if err := json.Unmarshal([]byte(valuesJSON), &p.Values); err != nil {
		return nil, fmt.Errorf("decode values: %w", err)
	}
	if err := json.Unmarshal([]byte(hobbiesJSON), &p.CurrentHobbies); err != nil {
		return nil, fmt.Errorf("decode hobbies: %w", err)
	}
	return &p, nil
}

func (s *ProfileStore) Create(sessionID, strengths, mbti string, enneagram *int64, hollandCode string, values, currentHobbies []string, futureHobbies, skills string) (*model.Profile, error) {
	var enn sql.NullInt64
	if enneagram != nil {
		enn = sql.NullInt64{Int64: *enneagram, Valid: true}
	}

	valuesJSON, err := json.Marshal(emptyIfNil(values))
	if err != nil {
		return nil, fmt.Errorf("encode values: %w", err)
	}
	hobbiesJSON, err := json.Marshal(emptyIfNil(currentHobbies))
	if err != nil {
		return nil, fmt.Errorf("encode hobbies: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO profiles (session_id, strengths, mbti, enneagram, holland_code, assessment_values, hobbies_current, hobbies_future, skills)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, strengths, mbti, enn, hollandCode,
		string(valuesJSON), string(hobbiesJSON), futureHobbies, skills,
	)
	if err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+profileCols+` FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

// GetLatest returns the most recent profile for the session, or nil if the
// session has never submitted an assessment.
func (s *ProfileStore) GetLatest(sessionID string) (*model.Profile, error) {
	row := s.db.QueryRow(
		`SELECT `+profileCols+` FROM profiles WHERE session_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		sessionID,
	)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
