// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// TaskStatus is the lifecycle state of a derived work item.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskBlocked    TaskStatus = "blocked"
)

// IsValid reports whether the status is a known value.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskBlocked:
		return true
	}
	return false
}

// Difficulty is an ordinal assessment of task effort:
// trivial < easy < medium < hard < expert.
type Difficulty string

const (
	DifficultyTrivial Difficulty = "trivial"
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
	DifficultyExpert  Difficulty = "expert"
)

// difficultyOrder gives each difficulty its ordinal rank.
var difficultyOrder = map[Difficulty]int{
	DifficultyTrivial: 0,
	DifficultyEasy:    1,
	DifficultyMedium:  2,
	DifficultyHard:    3,
	DifficultyExpert:  4,
}

// IsValid reports whether the difficulty is a known value.
func (d Difficulty) IsValid() bool {
	_, ok := difficultyOrder[d]
	return ok
}

// Harder reports whether d ranks above other.
func (d Difficulty) Harder(other Difficulty) bool {
	return difficultyOrder[d] > difficultyOrder[other]
}

// Task is a derived work item tracked within a session's dependency graph.
// Tasks are mutated only through the graph's contracted operations.
type Task struct {
	// ID is the task identifier, formatted <SESSION-ID>-<seq>. Sequence
	// numbers are monotonically increasing within a session.
	ID string `json:"id" yaml:"id"`

	// Title describes the work item.
	Title string `json:"title" yaml:"title"`

	// Description optionally expands on the title.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// DependsOn lists task IDs that must complete before this task may
	// start. Every ID references a task in the same graph.
	DependsOn []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`

	// Status is the task's lifecycle state.
	Status TaskStatus `json:"status" yaml:"status"`

	// Difficulty is the effort assessment.
	Difficulty Difficulty `json:"difficulty" yaml:"difficulty"`

	// EstimatedHours is the planned effort.
	EstimatedHours int `json:"estimated_hours" yaml:"estimated_hours"`

	// ActualHours records real effort. Set only when the task completes.
	ActualHours *int `json:"actual_hours,omitempty" yaml:"actual_hours,omitempty"`

	// CreatedAt is when the task entered the graph.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// UpdatedAt is bumped on every successful status transition.
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`

	// CompletedAt is set when the task reaches completed.
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// Clone returns a deep copy of the task so callers cannot mutate graph
// state through returned values.
func (t Task) Clone() Task {
	c := t
	c.DependsOn = append([]string(nil), t.DependsOn...)
	if t.ActualHours != nil {
		h := *t.ActualHours
		c.ActualHours = &h
	}
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return c
}
