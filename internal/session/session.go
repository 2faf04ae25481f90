// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session owns the state of one PRD-authoring effort: the product
// context fixed at creation, the ordered answer store, the task graph, the
// status lifecycle, and the append-only document history. Sessions assume
// a single logical owner; concurrent access to different sessions needs no
// shared locking.
package session

import (
	"fmt"
	"time"

	"github.com/pdiddy/prd-engine/internal/catalog"
	"github.com/pdiddy/prd-engine/internal/interview"
	"github.com/pdiddy/prd-engine/internal/taskgraph"
	"github.com/pdiddy/prd-engine/pkg/types"
)

// Session is one in-progress or completed PRD-authoring effort.
type Session struct {
	// ID is the stable identifier, formatted PRD-<sequence>.
	ID string

	// Name is the user-facing session name.
	Name string

	// Context is the immutable product classification.
	Context types.ProductContext

	// Answers is the ordered answer store.
	Answers *interview.AnswerStore

	// Tasks is the session's dependency graph.
	Tasks *taskgraph.Graph

	// Status is the lifecycle state.
	Status types.SessionStatus

	// Documents is the append-only generation history, oldest first.
	Documents []types.Document

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FormatID renders a session sequence number as a PRD-<sequence> id.
func FormatID(seq int) string {
	return fmt.Sprintf("PRD-%03d", seq)
}

// New creates a draft session and seeds its task graph from the product
// context.
func New(seq int, name string, pc types.ProductContext, now time.Time) (*Session, error) {
	if err := pc.Validate(); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	if name == "" {
		return nil, fmt.Errorf("creating session: empty name")
	}

	id := FormatID(seq)
	return &Session{
		ID:        id,
		Name:      name,
		Context:   pc,
		Answers:   interview.NewAnswerStore(),
		Tasks:     taskgraph.Derive(id, pc, now),
		Status:    types.SessionDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// RecordAnswer validates raw input against the catalog definition for key
// and records it. An unknown key or malformed value fails with a
// ValidationError and leaves the store untouched. The first answer moves a
// draft session to interviewing.
func (s *Session) RecordAnswer(eng *interview.Engine, key, input string, now time.Time) (types.Answer, error) {
	if s.Status == types.SessionArchived {
		return types.Answer{}, fmt.Errorf("recording answer: session %s is archived", s.ID)
	}

	q, ok := catalog.Find(eng.Catalog(), key)
	if !ok {
		return types.Answer{}, fmt.Errorf("recording answer: %w: unknown question key %q", interview.ErrValidation, key)
	}

	value, err := interview.ParseAnswer(q, input)
	if err != nil {
		return types.Answer{}, fmt.Errorf("recording answer: %w", err)
	}

	s.Answers.Record(key, value, now)
	if s.Status == types.SessionDraft {
		s.Status = types.SessionInterviewing
	}
	s.touch(now)

	a, _ := s.Answers.Get(key)
	return a, nil
}

// AddTask inserts a follow-on work item into the graph and touches the
// session on success.
func (s *Session) AddTask(title string, dependsOn []string, difficulty types.Difficulty, estimatedHours int, now time.Time) (types.Task, error) {
	t, err := s.Tasks.AddTask(title, dependsOn, difficulty, estimatedHours, now)
	if err != nil {
		return types.Task{}, err
	}
	s.touch(now)
	return t, nil
}

// TransitionTask moves a task through its lifecycle. Successful
// transitions update both the task and the session.
func (s *Session) TransitionTask(taskID string, next types.TaskStatus, now time.Time) (types.Task, error) {
	t, err := s.Tasks.Transition(taskID, next, now)
	if err != nil {
		return types.Task{}, err
	}
	s.touch(now)
	return t, nil
}

// AddTaskDependency adds an edge to the task graph and touches the
// session on success.
func (s *Session) AddTaskDependency(taskID, dependsOn string, now time.Time) (types.Task, error) {
	t, err := s.Tasks.AddDependency(taskID, dependsOn, now)
	if err != nil {
		return types.Task{}, err
	}
	s.touch(now)
	return t, nil
}

// RecordTaskHours records actual hours on a completed task.
func (s *Session) RecordTaskHours(taskID string, hours int, now time.Time) (types.Task, error) {
	t, err := s.Tasks.RecordActualHours(taskID, hours, now)
	if err != nil {
		return types.Task{}, err
	}
	s.touch(now)
	return t, nil
}

// BeginGeneration moves the session into generating. Unless partial is
// set, the interview must be complete: the engine must report no
// remaining applicable, unanswered questions.
func (s *Session) BeginGeneration(eng *interview.Engine, partial bool, now time.Time) error {
	switch s.Status {
	case types.SessionInterviewing, types.SessionGenerating, types.SessionCompleted:
	default:
		return fmt.Errorf("generating for %s: session is %s", s.ID, s.Status)
	}

	if !partial && !eng.Complete(s.Context, s.Answers) {
		remaining := len(eng.NextQuestions(s.Context, s.Answers))
		return fmt.Errorf("generating for %s: interview incomplete, %d question(s) remaining", s.ID, remaining)
	}

	// Re-running on a completed session keeps it completed; the status
	// only moves forward.
	if s.Status != types.SessionCompleted {
		s.Status = types.SessionGenerating
		s.touch(now)
	}
	return nil
}

// AttachDocument appends a generated document version and completes the
// session.
func (s *Session) AttachDocument(doc types.Document, now time.Time) error {
	if doc.SessionID != s.ID {
		return fmt.Errorf("attaching document: belongs to %s, not %s", doc.SessionID, s.ID)
	}
	if want := len(s.Documents) + 1; doc.Version != want {
		return fmt.Errorf("attaching document: version %d out of order, expected %d", doc.Version, want)
	}

	s.Documents = append(s.Documents, doc)
	if s.Status.CanAdvanceTo(types.SessionCompleted) {
		s.Status = types.SessionCompleted
	}
	s.touch(now)
	return nil
}

// LatestDocument returns the most recent generated version.
func (s *Session) LatestDocument() (types.Document, bool) {
	if len(s.Documents) == 0 {
		return types.Document{}, false
	}
	return s.Documents[len(s.Documents)-1], true
}

// Reopen is the single backward transition: it returns a generating or
// completed session to interviewing for further edits. Archived sessions
// stay archived.
func (s *Session) Reopen(now time.Time) error {
	switch s.Status {
	case types.SessionGenerating, types.SessionCompleted:
		s.Status = types.SessionInterviewing
		s.touch(now)
		return nil
	}
	return fmt.Errorf("reopening %s: session is %s", s.ID, s.Status)
}

// Archive moves the session to its terminal state.
func (s *Session) Archive(now time.Time) error {
	if !s.Status.CanAdvanceTo(types.SessionArchived) {
		return fmt.Errorf("archiving %s: session is %s", s.ID, s.Status)
	}
	s.Status = types.SessionArchived
	s.touch(now)
	return nil
}

// Summary builds the listing row for this session.
func (s *Session) Summary() types.SessionSummary {
	return types.SessionSummary{
		ID:            s.ID,
		Name:          s.Name,
		ProductType:   s.Context.ProductType,
		Industry:      s.Context.Industry,
		Complexity:    s.Context.Complexity,
		Status:        s.Status,
		Answered:      s.Answers.Len(),
		TaskCount:     s.Tasks.Len(),
		DocumentCount: len(s.Documents),
		UpdatedAt:     s.UpdatedAt,
	}
}

func (s *Session) touch(now time.Time) {
	s.UpdatedAt = now
}
