package model

import "time"

// Archetype is the AI-synthesized personality summary for a session.
// Fields are persisted verbatim from the generator's structured output.
type Archetype struct {
	ID                      int64     `json:"id"`
	SessionID               string    `json:"session_id"`
	ArchetypeName           string    `json:"archetype_name"`
	Description             string    `json:"description"`
	WorkStyle               string    `json:"work_style"`
	IdealEnvironments       string    `json:"ideal_environments"`
	StrengthsInterpretation string    `json:"strengths_interpretation"`
	Stressors               string    `json:"stressors"`
	Motivators              string    `json:"motivators"`
	Tags                    []string  `json:"tags"`
	CreatedAt               time.Time `json:"created_at"`
}
