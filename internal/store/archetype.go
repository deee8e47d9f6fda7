package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/trailhead-app/trailhead/internal/model"
)

type ArchetypeStore struct {
	db *sql.DB
}

func NewArchetypeStore(db *sql.DB) *ArchetypeStore {
	return &ArchetypeStore{db: db}
}

const archetypeCols = `id, session_id, archetype_name, description, work_style, ideal_environments, strengths_interpretation, stressors, motivators, tags, created_at`

func scanArchetype(scanner interface{ Scan(...any) error }) (*model.Archetype, error) {
	var a model.Archetype
	var tagsJSON string

	err := scanner.Scan(
		&a.ID, &a.SessionID, &a.ArchetypeName, &a.Description,
		&a.WorkStyle, &a.IdealEnvironments, &a.StrengthsInterpretation,
		&a.Stressors, &a.Motivators, &tagsJSON, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tagsJSON), &a.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return &a, nil
}

func (s *ArchetypeStore) Create(sessionID, name, description, workStyle, idealEnvironments, strengthsInterpretation, stressors, motivators string, tags []string) (*model.Archetype, error) {
	tagsJSON, err := json.Marshal(emptyIfNil(tags))
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO archetypes (session_id, archetype_name, description, work_style, ideal_environments, strengths_interpretation, stressors, motivators, tags)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, name, description, workStyle, idealEnvironments,
		strengthsInterpretation, stressors, motivators, string(tagsJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("insert archetype: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+archetypeCols+` FROM archetypes WHERE id = ?`, id)
	return scanArchetype(row)
}

// GetBySession returns the most recent archetype for the session, or nil if
// none has been generated yet.
func (s *ArchetypeStore) GetBySession(sessionID string) (*model.Archetype, error) {
	row := s.db.QueryRow(
		`SELECT `+archetypeCols+` FROM archetypes WHERE session_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		sessionID,
	)
	a, err := scanArchetype(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get archetype: %w", err)
	}
	return a, nil
}
