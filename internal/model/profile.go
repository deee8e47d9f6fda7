package model

import "time"

// Profile holds the raw assessment inputs submitted for one session.
type Profile struct {
	ID             int64     `json:"id"`
	SessionID      string    `json:"session_id"`
	Strengths      string    `json:"strengths"`
	MBTI           string    `json:"mbti"`
	Enneagram      *int64    `json:"enneagram"`
	HollandCode    string    `json:"holland_code"`
	Values         []string  `json:"values"`
	CurrentHobbies []string  `json:"current_hobbies"`
	FutureHobbies  string    `json:"future_hobbies"`
	Skills         string    `json:"skills"`
	CreatedAt      time.Time `json:"created_at"`
}
