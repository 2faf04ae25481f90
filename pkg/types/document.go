// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Section is one heading of a generated document with the rendered body
// and the question keys it was built from.
type Section struct {
	// Heading is the section title from the product type's taxonomy.
	Heading string `json:"heading" yaml:"heading"`

	// Body is the rendered section content.
	Body string `json:"body" yaml:"body"`

	// SourceQuestionKeys lists the answered questions that produced the
	// body, in catalog order.
	SourceQuestionKeys []string `json:"source_question_keys" yaml:"source_question_keys"`
}

// TaskSnapshot is one task's state captured into a document.
type TaskSnapshot struct {
	ID             string     `json:"id" yaml:"id"`
	Title          string     `json:"title" yaml:"title"`
	Status         TaskStatus `json:"status" yaml:"status"`
	Difficulty     Difficulty `json:"difficulty" yaml:"difficulty"`
	EstimatedHours int        `json:"estimated_hours" yaml:"estimated_hours"`
	DependsOn      []string   `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
}

// Document is the structured result of transforming a session's answers
// into PRD content. Documents are immutable once produced; regeneration
// appends a new version to the owning session.
type Document struct {
	// SessionID names the owning session.
	SessionID string `json:"session_id" yaml:"session_id"`

	// Version is the 1-based position in the session's append-only
	// document history.
	Version int `json:"version" yaml:"version"`

	// Title is the document title, taken from the project name answer or
	// the session name.
	Title string `json:"title" yaml:"title"`

	// Context echoes the session's product classification.
	Context ProductContext `json:"context" yaml:"context"`

	// Sections holds the ordered, non-empty document sections.
	Sections []Section `json:"sections" yaml:"sections"`

	// TaskSummary snapshots the task graph at generation time.
	TaskSummary []TaskSnapshot `json:"task_summary" yaml:"task_summary"`

	// Completeness is the answered/applicable question ratio at generation
	// time, in [0, 1]. Callers decide whether a partial document is
	// acceptable for export.
	Completeness float64 `json:"completeness" yaml:"completeness"`

	// GeneratedAt is when this version was produced. Excluded from any
	// equality or idempotence comparison.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}

// EqualContent reports whether two documents are identical in every field
// except Version and GeneratedAt. Regeneration always assigns the next
// version number, so version is bookkeeping, not content.
func (d Document) EqualContent(other Document) bool {
	if d.SessionID != other.SessionID ||
		d.Title != other.Title || d.Context != other.Context ||
		d.Completeness != other.Completeness {
		return false
	}
	if len(d.Sections) != len(other.Sections) {
		return false
	}
	for i, s := range d.Sections {
		o := other.Sections[i]
		if s.Heading != o.Heading || s.Body != o.Body {
			return false
		}
		if len(s.SourceQuestionKeys) != len(o.SourceQuestionKeys) {
			return false
		}
		for j, k := range s.SourceQuestionKeys {
			if k != o.SourceQuestionKeys[j] {
				return false
			}
		}
	}
	if len(d.TaskSummary) != len(other.TaskSummary) {
		return false
	}
	for i, t := range d.TaskSummary {
		o := other.TaskSummary[i]
		if t.ID != o.ID || t.Title != o.Title || t.Status != o.Status ||
			t.Difficulty != o.Difficulty || t.EstimatedHours != o.EstimatedHours {
			return false
		}
		if len(t.DependsOn) != len(o.DependsOn) {
			return false
		}
		for j, dep := range t.DependsOn {
			if dep != o.DependsOn[j] {
				return false
			}
		}
	}
	return true
}
