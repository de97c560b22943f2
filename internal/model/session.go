package model

import "time"

// Session is a chat session whose model selection is tracked locally.
// Once the assistant has responded the selection is frozen.
type Session struct {
	// ID is the unique identifier for this session.
	ID string `json:"id"`

	// Model is the identifier of the model the session runs on.
	Model string `json:"model"`

	// Effort is the reasoning effort, empty for non-reasoning models.
	Effort Effort `json:"effort,omitempty"`

	// ResponseCount is how many assistant responses the session has seen.
	ResponseCount int `json:"response_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasPriorResponse reports whether the assistant already answered
// in this session.
func (s Session) HasPriorResponse() bool {
	return s.ResponseCount > 0
}
