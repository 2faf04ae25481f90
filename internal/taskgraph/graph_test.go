// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taskgraph

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pdiddy/prd-engine/pkg/types"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

// --- derivation tests ---

func TestDeriveBaseline(t *testing.T) {
	pc := types.ProductContext{
		ProductType: types.ProductWebApp,
		Industry:    types.IndustryGeneral,
		Complexity:  types.ComplexityModerate,
	}
	g := Derive("PRD-001", pc, testNow)

	tasks := g.Tasks()
	if len(tasks) != 3 {
		t.Fatalf("derived %d tasks, want 3", len(tasks))
	}
	if tasks[0].ID != "PRD-001-1" || tasks[1].ID != "PRD-001-2" || tasks[2].ID != "PRD-001-3" {
		t.Errorf("unexpected ids: %s %s %s", tasks[0].ID, tasks[1].ID, tasks[2].ID)
	}
	for _, task := range tasks {
		if task.Status != types.TaskPending {
			t.Errorf("%s derived as %s, want pending", task.ID, task.Status)
		}
	}
	// Generation depends on the interview, review on generation.
	if len(tasks[1].DependsOn) != 1 || tasks[1].DependsOn[0] != tasks[0].ID {
		t.Errorf("generate deps = %v", tasks[1].DependsOn)
	}
	if len(tasks[2].DependsOn) != 1 || tasks[2].DependsOn[0] != tasks[1].ID {
		t.Errorf("review deps = %v", tasks[2].DependsOn)
	}
}

func TestDeriveAddsConditionalTasks(t *testing.T) {
	tests := []struct {
		name      string
		pc        types.ProductContext
		wantCount int
		wantTitle string
	}{
		{
			"complex adds technical specification",
			types.ProductContext{ProductType: types.ProductSaaS, Industry: types.IndustryGeneral, Complexity: types.ComplexityComplex},
			4, "Create technical specification",
		},
		{
			"regulated industry adds compliance framework",
			types.ProductContext{ProductType: types.ProductWebApp, Industry: types.IndustryHealthcare, Complexity: types.ComplexityModerate},
			4, "Develop compliance framework",
		},
		{
			"complex and regulated adds both",
			types.ProductContext{ProductType: types.ProductFintech, Industry: types.IndustryFinance, Complexity: types.ComplexityEnterprise},
			5, "Develop compliance framework",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Derive("PRD-002", tt.pc, testNow)
			if g.Len() != tt.wantCount {
				t.Fatalf("derived %d tasks, want %d", g.Len(), tt.wantCount)
			}
			found := false
			for _, task := range g.Tasks() {
				if task.Title == tt.wantTitle {
					found = true
				}
			}
			if !found {
				t.Errorf("no task titled %q", tt.wantTitle)
			}
		})
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	pc := types.ProductContext{
		ProductType: types.ProductFintech,
		Industry:    types.IndustryFinance,
		Complexity:  types.ComplexityComplex,
	}
	a := Derive("PRD-003", pc, testNow).Tasks()
	b := Derive("PRD-003", pc, testNow).Tasks()

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Title != b[i].Title {
			t.Errorf("task %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

// --- add tests ---

func TestAddTaskValidation(t *testing.T) {
	g := New("PRD-010")

	if _, err := g.AddTask("", nil, types.DifficultyEasy, 1, testNow); err == nil {
		t.Error("empty title accepted")
	}
	if _, err := g.AddTask("x", nil, "impossible", 1, testNow); err == nil {
		t.Error("unknown difficulty accepted")
	}
	_, err := g.AddTask("x", []string{"PRD-010-99"}, types.DifficultyEasy, 1, testNow)
	if !errors.Is(err, ErrInvalidDependency) {
		t.Errorf("missing dependency error = %v, want ErrInvalidDependency", err)
	}
	if g.Len() != 0 {
		t.Errorf("failed adds mutated the graph: %d tasks", g.Len())
	}
}

func TestAddTaskAssignsSequentialIDs(t *testing.T) {
	g := New("PRD-011")
	first, err := g.AddTask("first", nil, types.DifficultyEasy, 1, testNow)
	if err != nil {
		t.Fatal(err)
	}
	second, err := g.AddTask("second", []string{first.ID}, types.DifficultyMedium, 2, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != "PRD-011-1" || second.ID != "PRD-011-2" {
		t.Errorf("ids = %s, %s", first.ID, second.ID)
	}
}

// --- dependency tests ---

func TestAddDependencyRejectsCycle(t *testing.T) {
	g := New("PRD-012")
	a, _ := g.AddTask("a", nil, types.DifficultyEasy, 1, testNow)
	b, _ := g.AddTask("b", []string{a.ID}, types.DifficultyEasy, 1, testNow)
	c, _ := g.AddTask("c", []string{b.ID}, types.DifficultyEasy, 1, testNow)

	// a -> c would close the cycle a -> b -> c -> a.
	_, err := g.AddDependency(a.ID, c.ID, testNow)
	if !errors.Is(err, ErrCyclicDependency) {
		t.Fatalf("error = %v, want ErrCyclicDependency", err)
	}

	// Self-dependency is the smallest cycle.
	if _, err := g.AddDependency(a.ID, a.ID, testNow); !errors.Is(err, ErrCyclicDependency) {
		t.Errorf("self-dependency error = %v, want ErrCyclicDependency", err)
	}

	// The failed adds left a's dependency set untouched.
	got, _ := g.Get(a.ID)
	if len(got.DependsOn) != 0 {
		t.Errorf("a.DependsOn = %v, want empty", got.DependsOn)
	}
}

func TestAddDependencyIsIdempotent(t *testing.T) {
	g := New("PRD-013")
	a, _ := g.AddTask("a", nil, types.DifficultyEasy, 1, testNow)
	b, _ := g.AddTask("b", nil, types.DifficultyEasy, 1, testNow)

	if _, err := g.AddDependency(b.ID, a.ID, testNow); err != nil {
		t.Fatal(err)
	}
	got, err := g.AddDependency(b.ID, a.ID, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.DependsOn) != 1 {
		t.Errorf("DependsOn = %v, want single edge", got.DependsOn)
	}
}

// --- transition tests ---

func TestTransitionLifecycle(t *testing.T) {
	g := New("PRD-014")
	a, _ := g.AddTask("a", nil, types.DifficultyEasy, 1, testNow)

	got, err := g.Transition(a.ID, types.TaskInProgress, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != types.TaskInProgress {
		t.Errorf("status = %s", got.Status)
	}

	got, err = g.Transition(a.ID, types.TaskCompleted, testNow.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(testNow.Add(time.Hour)) {
		t.Errorf("CompletedAt = %v", got.CompletedAt)
	}
}

func TestTransitionRejectsInvalidMoves(t *testing.T) {
	g := New("PRD-015")
	a, _ := g.AddTask("a", nil, types.DifficultyEasy, 1, testNow)

	// pending -> completed skips in_progress.
	if _, err := g.Transition(a.ID, types.TaskCompleted, testNow); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("pending->completed error = %v, want ErrInvalidTransition", err)
	}

	// Completed is terminal.
	g.Transition(a.ID, types.TaskInProgress, testNow)
	g.Transition(a.ID, types.TaskCompleted, testNow)
	if _, err := g.Transition(a.ID, types.TaskPending, testNow); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("completed->pending error = %v, want ErrInvalidTransition", err)
	}

	if _, err := g.Transition("PRD-015-99", types.TaskInProgress, testNow); !errors.Is(err, ErrUnknownTask) {
		t.Errorf("unknown id error = %v, want ErrUnknownTask", err)
	}
}

func TestTransitionEnforcesDependencies(t *testing.T) {
	g := New("PRD-016")
	a, _ := g.AddTask("a", nil, types.DifficultyEasy, 1, testNow)
	b, _ := g.AddTask("b", []string{a.ID}, types.DifficultyEasy, 1, testNow)

	_, err := g.Transition(b.ID, types.TaskInProgress, testNow)
	if !errors.Is(err, ErrDependencyViolation) {
		t.Fatalf("error = %v, want ErrDependencyViolation", err)
	}
	got, _ := g.Get(b.ID)
	if got.Status != types.TaskPending {
		t.Errorf("failed transition changed status to %s", got.Status)
	}

	// Completing the dependency unblocks the start.
	g.Transition(a.ID, types.TaskInProgress, testNow)
	g.Transition(a.ID, types.TaskCompleted, testNow)
	if _, err := g.Transition(b.ID, types.TaskInProgress, testNow); err != nil {
		t.Errorf("start after dependency completed: %v", err)
	}
}

func TestBlockedRoundTrip(t *testing.T) {
	g := New("PRD-017")
	a, _ := g.AddTask("a", nil, types.DifficultyEasy, 1, testNow)

	if _, err := g.Transition(a.ID, types.TaskBlocked, testNow); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Transition(a.ID, types.TaskInProgress, testNow); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("blocked->in_progress error = %v, want ErrInvalidTransition", err)
	}
	if _, err := g.Transition(a.ID, types.TaskPending, testNow); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Transition(a.ID, types.TaskInProgress, testNow); err != nil {
		t.Errorf("start after unblock: %v", err)
	}
}

// --- hours tests ---

func TestRecordActualHours(t *testing.T) {
	g := New("PRD-018")
	a, _ := g.AddTask("a", nil, types.DifficultyEasy, 2, testNow)

	if _, err := g.RecordActualHours(a.ID, 3, testNow); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("hours on pending task error = %v, want ErrInvalidTransition", err)
	}

	g.Transition(a.ID, types.TaskInProgress, testNow)
	g.Transition(a.ID, types.TaskCompleted, testNow)

	got, err := g.RecordActualHours(a.ID, 3, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if got.ActualHours == nil || *got.ActualHours != 3 {
		t.Errorf("ActualHours = %v, want 3", got.ActualHours)
	}
}

// --- restore tests ---

func TestRestoreRoundTrip(t *testing.T) {
	pc := types.ProductContext{
		ProductType: types.ProductSaaS,
		Industry:    types.IndustryFinance,
		Complexity:  types.ComplexityComplex,
	}
	g := Derive("PRD-019", pc, testNow)
	g.Transition("PRD-019-1", types.TaskInProgress, testNow)

	restored, err := Restore("PRD-019", g.Tasks())
	if err != nil {
		t.Fatal(err)
	}
	if restored.Len() != g.Len() {
		t.Fatalf("restored %d tasks, want %d", restored.Len(), g.Len())
	}
	got, _ := restored.Get("PRD-019-1")
	if got.Status != types.TaskInProgress {
		t.Errorf("restored status = %s", got.Status)
	}

	// The sequence resumes past the highest persisted id.
	added, err := restored.AddTask("post-restore", nil, types.DifficultyEasy, 1, testNow)
	if err != nil {
		t.Fatal(err)
	}
	wantID := fmt.Sprintf("PRD-019-%d", g.Len()+1)
	if added.ID != wantID {
		t.Errorf("post-restore id = %s, want %s", added.ID, wantID)
	}
}

func TestRestoreRejectsForeignAndForwardTasks(t *testing.T) {
	if _, err := Restore("PRD-020", []types.Task{{ID: "OTHER-1"}}); err == nil {
		t.Error("foreign id accepted")
	}

	tasks := []types.Task{
		{ID: "PRD-020-1", Title: "a", Status: types.TaskPending, DependsOn: []string{"PRD-020-2"}},
		{ID: "PRD-020-2", Title: "b", Status: types.TaskPending},
	}
	if _, err := Restore("PRD-020", tasks); !errors.Is(err, ErrInvalidDependency) {
		t.Errorf("forward dependency error = %v, want ErrInvalidDependency", err)
	}
}
