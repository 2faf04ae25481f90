// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SessionStatus is the lifecycle state of a PRD-authoring session. Status
// only advances forward, with one exception: reopening a session for edits
// returns it to interviewing.
type SessionStatus string

const (
	SessionDraft        SessionStatus = "draft"
	SessionInterviewing SessionStatus = "interviewing"
	SessionGenerating   SessionStatus = "generating"
	SessionCompleted    SessionStatus = "completed"
	SessionArchived     SessionStatus = "archived"
)

// sessionStatusOrder gives each status its position in the forward lifecycle.
var sessionStatusOrder = map[SessionStatus]int{
	SessionDraft:        0,
	SessionInterviewing: 1,
	SessionGenerating:   2,
	SessionCompleted:    3,
	SessionArchived:     4,
}

// IsValid reports whether the status is a known value.
func (s SessionStatus) IsValid() bool {
	_, ok := sessionStatusOrder[s]
	return ok
}

// CanAdvanceTo reports whether moving from s to next respects the forward-
// only lifecycle. Reopening to interviewing is handled separately and is
// not an advance.
func (s SessionStatus) CanAdvanceTo(next SessionStatus) bool {
	from, okFrom := sessionStatusOrder[s]
	to, okTo := sessionStatusOrder[next]
	return okFrom && okTo && to > from
}

// Answer is one recorded response, keyed by question. Overwriting an
// existing answer updates the value and timestamp but keeps the original
// position in the store's insertion order.
type Answer struct {
	// QuestionKey names the question this answers.
	QuestionKey string `json:"question_key" yaml:"question_key"`

	// Value is the typed answer: string for text and choice, []string for
	// multi_choice, float64 for number, bool for boolean.
	Value any `json:"value" yaml:"value"`

	// RecordedAt is when the answer was last written.
	RecordedAt time.Time `json:"recorded_at" yaml:"recorded_at"`
}

// SessionSummary is the listing row returned by the persistence
// collaborator for the list command.
type SessionSummary struct {
	ID            string        `json:"id" yaml:"id"`
	Name          string        `json:"name" yaml:"name"`
	ProductType   ProductType   `json:"product_type" yaml:"product_type"`
	Industry      Industry      `json:"industry" yaml:"industry"`
	Complexity    Complexity    `json:"complexity" yaml:"complexity"`
	Status        SessionStatus `json:"status" yaml:"status"`
	Answered      int           `json:"answered" yaml:"answered"`
	TaskCount     int           `json:"task_count" yaml:"task_count"`
	DocumentCount int           `json:"document_count" yaml:"document_count"`
	UpdatedAt     time.Time     `json:"updated_at" yaml:"updated_at"`
}
