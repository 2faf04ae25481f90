// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/prd-engine/internal/interview"
	"github.com/pdiddy/prd-engine/internal/session"
	"github.com/pdiddy/prd-engine/pkg/types"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testEngine() *interview.Engine {
	return interview.NewEngine([]types.QuestionDefinition{
		{Key: "project_name", Prompt: "Name?", AnswerType: types.AnswerText, Section: "Overview"},
		{Key: "platforms", Prompt: "Platforms?", AnswerType: types.AnswerMultiChoice,
			Choices: []string{"iOS", "Android", "web"}, Section: "Technical Requirements"},
		{Key: "team_size", Prompt: "Team size?", AnswerType: types.AnswerNumber, Section: "Delivery Plan"},
		{Key: "has_auth", Prompt: "Auth?", AnswerType: types.AnswerBoolean, Section: "Technical Requirements"},
	})
}

func testSession(t *testing.T, seq int) *session.Session {
	t.Helper()
	pc := types.ProductContext{
		ProductType: types.ProductMobileApp,
		Industry:    types.IndustryHealthcare,
		Complexity:  types.ComplexityComplex,
	}
	sess, err := session.New(seq, "Care Companion", pc, testNow)
	require.NoError(t, err)
	return sess
}

// --- open tests ---

func TestOpenCreatesDBFile(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(types.StoreConfig{DataDir: dir})
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, dbFile))
	assert.NoError(t, err)
}

// --- sequence tests ---

func TestNextSequenceIsMonotonic(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first, err := s.NextSequence(ctx)
	require.NoError(t, err)
	second, err := s.NextSequence(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestSequenceSurvivesDeletion(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	seq, err := s.NextSequence(ctx)
	require.NoError(t, err)
	sess := testSession(t, seq)
	require.NoError(t, s.Save(ctx, sess))
	require.NoError(t, s.Delete(ctx, sess.ID))

	next, err := s.NextSequence(ctx)
	require.NoError(t, err)
	assert.Equal(t, seq+1, next, "sequence numbers must never be reused")
}

// --- save/load tests ---

func TestSaveLoadRoundTrip(t *testing.T) {
	s := testStore(t)
	eng := testEngine()
	ctx := context.Background()

	sess := testSession(t, 1)
	_, err := sess.RecordAnswer(eng, "project_name", "Care Companion", testNow)
	require.NoError(t, err)
	_, err = sess.RecordAnswer(eng, "platforms", "iOS, Android", testNow)
	require.NoError(t, err)
	_, err = sess.RecordAnswer(eng, "team_size", "6", testNow)
	require.NoError(t, err)
	_, err = sess.RecordAnswer(eng, "has_auth", "yes", testNow)
	require.NoError(t, err)

	_, err = sess.TransitionTask(sess.Tasks.Tasks()[0].ID, types.TaskInProgress, testNow)
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, sess))

	got, err := s.Load(ctx, sess.ID)
	require.NoError(t, err)

	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.Name, got.Name)
	assert.Equal(t, sess.Context, got.Context)
	assert.Equal(t, types.SessionInterviewing, got.Status)

	// Answer order and typed values survive the round trip.
	assert.Equal(t, sess.Answers.Keys(), got.Answers.Keys())
	name, _ := got.Answers.Get("project_name")
	assert.Equal(t, "Care Companion", name.Value)
	platforms, _ := got.Answers.Get("platforms")
	assert.Equal(t, []string{"iOS", "Android"}, platforms.Value)
	teamSize, _ := got.Answers.Get("team_size")
	assert.Equal(t, float64(6), teamSize.Value)
	hasAuth, _ := got.Answers.Get("has_auth")
	assert.Equal(t, true, hasAuth.Value)

	// Task state and graph shape survive.
	require.Equal(t, sess.Tasks.Len(), got.Tasks.Len())
	first := got.Tasks.Tasks()[0]
	assert.Equal(t, types.TaskInProgress, first.Status)
	assert.Equal(t, sess.Tasks.Tasks()[1].DependsOn, got.Tasks.Tasks()[1].DependsOn)
}

func TestSaveIsIdempotentReplace(t *testing.T) {
	s := testStore(t)
	eng := testEngine()
	ctx := context.Background()

	sess := testSession(t, 1)
	_, err := sess.RecordAnswer(eng, "project_name", "First", testNow)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, sess))

	// Overwrite the answer and save again; the old row must not linger.
	_, err = sess.RecordAnswer(eng, "project_name", "Second", testNow.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, sess))

	got, err := s.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Answers.Len())
	a, _ := got.Answers.Get("project_name")
	assert.Equal(t, "Second", a.Value)
}

func TestSaveLoadDocuments(t *testing.T) {
	s := testStore(t)
	eng := testEngine()
	ctx := context.Background()

	sess := testSession(t, 1)
	_, err := sess.RecordAnswer(eng, "project_name", "Care Companion", testNow)
	require.NoError(t, err)

	doc := types.Document{
		SessionID: sess.ID,
		Version:   1,
		Title:     "Care Companion",
		Context:   sess.Context,
		Sections: []types.Section{
			{Heading: "Overview", Body: "body text", SourceQuestionKeys: []string{"project_name"}},
		},
		TaskSummary:  sess.Tasks.Snapshot(),
		Completeness: 0.5,
		GeneratedAt:  testNow,
	}
	require.NoError(t, sess.BeginGeneration(eng, true, testNow))
	require.NoError(t, sess.AttachDocument(doc, testNow))
	require.NoError(t, s.Save(ctx, sess))

	got, err := s.Load(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, got.Documents, 1)
	assert.True(t, got.Documents[0].EqualContent(doc))
	assert.Equal(t, types.SessionCompleted, got.Status)
}

func TestLoadUnknownSession(t *testing.T) {
	s := testStore(t)
	_, err := s.Load(context.Background(), "PRD-404")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

// --- list tests ---

func TestList(t *testing.T) {
	s := testStore(t)
	eng := testEngine()
	ctx := context.Background()

	first := testSession(t, 1)
	require.NoError(t, s.Save(ctx, first))

	second := testSession(t, 2)
	_, err := second.RecordAnswer(eng, "project_name", "Newer", testNow.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, second))

	summaries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Most recently updated first.
	assert.Equal(t, second.ID, summaries[0].ID)
	assert.Equal(t, 1, summaries[0].Answered)
	assert.Equal(t, first.ID, summaries[1].ID)
	assert.Equal(t, 0, summaries[1].Answered)
	assert.Equal(t, first.Tasks.Len(), summaries[1].TaskCount)
}

func TestListEmptyStore(t *testing.T) {
	s := testStore(t)
	summaries, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

// --- delete tests ---

func TestDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	sess := testSession(t, 1)
	require.NoError(t, s.Save(ctx, sess))
	require.NoError(t, s.Delete(ctx, sess.ID))

	_, err := s.Load(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteUnknownSession(t *testing.T) {
	s := testStore(t)
	err := s.Delete(context.Background(), "PRD-404")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
