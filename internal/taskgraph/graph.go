// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package taskgraph tracks a session's derived work items as a directed
// acyclic dependency graph with status constraints. All mutation goes
// through the contracted operations; every failure leaves the graph
// exactly as it was.
package taskgraph

import (
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/prd-engine/pkg/types"
)

var (
	// ErrUnknownTask marks an operation on a task id absent from the graph.
	ErrUnknownTask = errors.New("unknown task")

	// ErrInvalidDependency marks an AddTask whose dependency set references
	// a task id that does not exist in the graph.
	ErrInvalidDependency = errors.New("invalid dependency")

	// ErrCyclicDependency marks an operation that would create a cycle.
	ErrCyclicDependency = errors.New("cyclic dependency")

	// ErrDependencyViolation marks a transition into in_progress or
	// completed while a dependency is not completed.
	ErrDependencyViolation = errors.New("dependency violation")

	// ErrInvalidTransition marks a status move outside the allowed set.
	ErrInvalidTransition = errors.New("invalid transition")
)

// Graph holds the tasks owned by one session. Task ids are formatted
// <SESSION-ID>-<seq> with a monotonically increasing sequence.
type Graph struct {
	sessionID string
	seq       int
	order     []string
	tasks     map[string]*types.Task
}

// New returns an empty graph for the session.
func New(sessionID string) *Graph {
	return &Graph{
		sessionID: sessionID,
		tasks:     make(map[string]*types.Task),
	}
}

// Derive seeds a new graph from the product context. Every session gets
// the interview/generate/review chain; complex and enterprise projects add
// a technical specification task, and regulated industries add a
// compliance framework task.
func Derive(sessionID string, pc types.ProductContext, now time.Time) *Graph {
	g := New(sessionID)

	interview := g.mustAdd("Conduct product interview", nil, types.DifficultyEasy, 2, now)
	generate := g.mustAdd("Generate PRD document", []string{interview}, types.DifficultyMedium, 4, now)
	g.mustAdd("Review and refine PRD", []string{generate}, types.DifficultyEasy, 2, now)

	if pc.Complexity.AtLeast(types.ComplexityComplex) {
		g.mustAdd("Create technical specification", []string{generate}, types.DifficultyHard, 8, now)
	}
	if pc.Industry.Regulated() {
		g.mustAdd("Develop compliance framework", []string{generate}, types.DifficultyExpert, 6, now)
	}

	return g
}

// mustAdd inserts a seed task. Seeding only references ids it just
// created, so failure here is a programming error.
func (g *Graph) mustAdd(title string, dependsOn []string, d types.Difficulty, hours int, now time.Time) string {
	t, err := g.AddTask(title, dependsOn, d, hours, now)
	if err != nil {
		panic(fmt.Sprintf("seeding task graph: %v", err))
	}
	return t.ID
}

// nextID returns the id the next AddTask will assign, without consuming it.
func (g *Graph) nextID() string {
	return fmt.Sprintf("%s-%d", g.sessionID, g.seq+1)
}

// AddTask inserts a new pending task. Every id in dependsOn must already
// exist in the graph, and the dependency set must not reach the new task's
// own id; violations fail with ErrInvalidDependency or ErrCyclicDependency
// before any mutation.
func (g *Graph) AddTask(title string, dependsOn []string, difficulty types.Difficulty, estimatedHours int, now time.Time) (types.Task, error) {
	if title == "" {
		return types.Task{}, fmt.Errorf("adding task: empty title")
	}
	if !difficulty.IsValid() {
		return types.Task{}, fmt.Errorf("adding task %q: unknown difficulty %q", title, difficulty)
	}

	id := g.nextID()
	for _, dep := range dependsOn {
		if _, ok := g.tasks[dep]; !ok {
			return types.Task{}, fmt.Errorf("adding task %q: %w: %s not in graph", title, ErrInvalidDependency, dep)
		}
	}
	if g.reaches(dependsOn, id) {
		return types.Task{}, fmt.Errorf("adding task %q: %w: dependency set reaches %s", title, ErrCyclicDependency, id)
	}

	t := &types.Task{
		ID:             id,
		Title:          title,
		DependsOn:      append([]string(nil), dependsOn...),
		Status:         types.TaskPending,
		Difficulty:     difficulty,
		EstimatedHours: estimatedHours,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	g.seq++
	g.order = append(g.order, id)
	g.tasks[id] = t
	return t.Clone(), nil
}

// AddDependency adds an edge from taskID onto dependsOn. It fails with
// ErrCyclicDependency when dependsOn can already reach taskID, leaving the
// graph unchanged.
func (g *Graph) AddDependency(taskID, dependsOn string, now time.Time) (types.Task, error) {
	t, ok := g.tasks[taskID]
	if !ok {
		return types.Task{}, fmt.Errorf("adding dependency: %w: %s", ErrUnknownTask, taskID)
	}
	if _, ok := g.tasks[dependsOn]; !ok {
		return types.Task{}, fmt.Errorf("adding dependency to %s: %w: %s not in graph", taskID, ErrInvalidDependency, dependsOn)
	}
	if dependsOn == taskID || g.reaches([]string{dependsOn}, taskID) {
		return types.Task{}, fmt.Errorf("adding dependency to %s: %w: %s reaches %s", taskID, ErrCyclicDependency, dependsOn, taskID)
	}
	for _, dep := range t.DependsOn {
		if dep == dependsOn {
			return t.Clone(), nil
		}
	}
	t.DependsOn = append(t.DependsOn, dependsOn)
	t.UpdatedAt = now
	return t.Clone(), nil
}

// allowedTransitions is the closed set of permitted status moves.
var allowedTransitions = map[types.TaskStatus][]types.TaskStatus{
	types.TaskPending:    {types.TaskInProgress, types.TaskBlocked},
	types.TaskInProgress: {types.TaskCompleted, types.TaskBlocked},
	types.TaskBlocked:    {types.TaskPending},
	types.TaskCompleted:  nil,
}

// Transition moves a task to a new status. It fails with ErrUnknownTask
// for an absent id, ErrInvalidTransition for a move outside the allowed
// set, and ErrDependencyViolation when entering in_progress or completed
// while any dependency is not completed. The graph is unmodified on any
// failure.
func (g *Graph) Transition(taskID string, next types.TaskStatus, now time.Time) (types.Task, error) {
	t, ok := g.tasks[taskID]
	if !ok {
		return types.Task{}, fmt.Errorf("transitioning task: %w: %s", ErrUnknownTask, taskID)
	}
	if !next.IsValid() {
		return types.Task{}, fmt.Errorf("transitioning %s: %w: unknown status %q", taskID, ErrInvalidTransition, next)
	}
	if !transitionAllowed(t.Status, next) {
		return types.Task{}, fmt.Errorf("transitioning %s: %w: %s -> %s", taskID, ErrInvalidTransition, t.Status, next)
	}

	if next == types.TaskInProgress || next == types.TaskCompleted {
		for _, dep := range t.DependsOn {
			if g.tasks[dep].Status != types.TaskCompleted {
				return types.Task{}, fmt.Errorf("transitioning %s to %s: %w: %s is %s",
					taskID, next, ErrDependencyViolation, dep, g.tasks[dep].Status)
			}
		}
	}

	t.Status = next
	t.UpdatedAt = now
	if next == types.TaskCompleted {
		at := now
		t.CompletedAt = &at
	}
	return t.Clone(), nil
}

// RecordActualHours stores real effort on a completed task.
func (g *Graph) RecordActualHours(taskID string, hours int, now time.Time) (types.Task, error) {
	t, ok := g.tasks[taskID]
	if !ok {
		return types.Task{}, fmt.Errorf("recording hours: %w: %s", ErrUnknownTask, taskID)
	}
	if t.Status != types.TaskCompleted {
		return types.Task{}, fmt.Errorf("recording hours on %s: %w: task is %s, not completed", taskID, ErrInvalidTransition, t.Status)
	}
	t.ActualHours = &hours
	t.UpdatedAt = now
	return t.Clone(), nil
}

func transitionAllowed(from, to types.TaskStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// reaches walks dependency edges from the given start ids and reports
// whether target is reachable.
func (g *Graph) reaches(start []string, target string) bool {
	visited := make(map[string]bool)
	stack := append([]string(nil), start...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == target {
			return true
		}
		if visited[id] {
			continue
		}
		visited[id] = true
		if t, ok := g.tasks[id]; ok {
			stack = append(stack, t.DependsOn...)
		}
	}
	return false
}

// Get returns a copy of the task with the given id.
func (g *Graph) Get(taskID string) (types.Task, error) {
	t, ok := g.tasks[taskID]
	if !ok {
		return types.Task{}, fmt.Errorf("looking up task: %w: %s", ErrUnknownTask, taskID)
	}
	return t.Clone(), nil
}

// Tasks returns copies of all tasks in insertion order.
func (g *Graph) Tasks() []types.Task {
	out := make([]types.Task, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.tasks[id].Clone())
	}
	return out
}

// Len returns the number of tasks in the graph.
func (g *Graph) Len() int {
	return len(g.order)
}

// SessionID returns the owning session's id.
func (g *Graph) SessionID() string {
	return g.sessionID
}

// Snapshot captures the current graph state for embedding in a document.
func (g *Graph) Snapshot() []types.TaskSnapshot {
	out := make([]types.TaskSnapshot, 0, len(g.order))
	for _, id := range g.order {
		t := g.tasks[id]
		out = append(out, types.TaskSnapshot{
			ID:             t.ID,
			Title:          t.Title,
			Status:         t.Status,
			Difficulty:     t.Difficulty,
			EstimatedHours: t.EstimatedHours,
			DependsOn:      append([]string(nil), t.DependsOn...),
		})
	}
	return out
}

// Restore rebuilds a graph from persisted tasks. Tasks must be in their
// original insertion order; the sequence counter resumes past the highest
// persisted id.
func Restore(sessionID string, tasks []types.Task) (*Graph, error) {
	g := New(sessionID)
	for _, t := range tasks {
		var seq int
		if _, err := fmt.Sscanf(t.ID, sessionID+"-%d", &seq); err != nil {
			return nil, fmt.Errorf("restoring task graph: id %s does not belong to %s", t.ID, sessionID)
		}
		for _, dep := range t.DependsOn {
			if _, ok := g.tasks[dep]; !ok {
				return nil, fmt.Errorf("restoring task graph: %w: %s depends on %s", ErrInvalidDependency, t.ID, dep)
			}
		}
		c := t.Clone()
		g.order = append(g.order, t.ID)
		g.tasks[t.ID] = &c
		if seq > g.seq {
			g.seq = seq
		}
	}
	return g, nil
}
