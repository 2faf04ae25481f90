// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists sessions in a SQLite database. It is the
// persistence collaborator at the core's boundary: the engine packages
// never talk to it directly, commands load a session, run core
// operations in memory, and save the result back.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/prd-engine/internal/interview"
	"github.com/pdiddy/prd-engine/internal/session"
	"github.com/pdiddy/prd-engine/internal/taskgraph"
	"github.com/pdiddy/prd-engine/pkg/types"
)

const dbFile = "prd-engine.db"

// ErrSessionNotFound marks a load or delete of an id with no stored
// session. The store does not retry; retry policy belongs to the caller.
var ErrSessionNotFound = errors.New("session not found")

// Store manages the session database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the session database under cfg.DataDir, creating
// the schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			product_type TEXT NOT NULL,
			industry TEXT NOT NULL,
			complexity TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS answers (
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			question_key TEXT NOT NULL,
			position INTEGER NOT NULL,
			value TEXT NOT NULL,
			recorded_at TEXT NOT NULL,
			PRIMARY KEY (session_id, question_key)
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			depends_on TEXT NOT NULL,
			status TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			estimated_hours INTEGER NOT NULL,
			actual_hours INTEGER,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			completed_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			version INTEGER NOT NULL,
			content TEXT NOT NULL,
			generated_at TEXT NOT NULL,
			PRIMARY KEY (session_id, version)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_answers_session ON answers(session_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_session ON tasks(session_id, position)`,
		`CREATE TABLE IF NOT EXISTS session_seq (
			seq INTEGER NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var rows int
	if err := s.db.QueryRow(`SELECT count(*) FROM session_seq`).Scan(&rows); err != nil {
		return fmt.Errorf("checking sequence table: %w", err)
	}
	if rows == 0 {
		if _, err := s.db.Exec(`INSERT INTO session_seq (seq) VALUES (0)`); err != nil {
			return fmt.Errorf("seeding sequence table: %w", err)
		}
	}
	return nil
}

// NextSequence allocates the next session sequence number. Numbers are
// never reused, even after deletion.
func (s *Store) NextSequence(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("allocating sequence: %w", err)
	}
	defer tx.Rollback()

	var seq int
	if err := tx.QueryRowContext(ctx, `SELECT seq FROM session_seq`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("reading sequence: %w", err)
	}
	seq++
	if _, err := tx.ExecContext(ctx, `UPDATE session_seq SET seq = ?`, seq); err != nil {
		return 0, fmt.Errorf("advancing sequence: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("allocating sequence: %w", err)
	}
	return seq, nil
}

// Save writes the full session state in one transaction, replacing any
// previous rows for the same id.
func (s *Store) Save(ctx context.Context, sess *session.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving session %s: %w", sess.ID, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, name, product_type, industry, complexity, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, status=excluded.status, updated_at=excluded.updated_at`,
		sess.ID, sess.Name, string(sess.Context.ProductType), string(sess.Context.Industry),
		string(sess.Context.Complexity), string(sess.Status),
		formatTime(sess.CreatedAt), formatTime(sess.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving session %s: %w", sess.ID, err)
	}

	for _, table := range []string{"answers", "tasks", "documents"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE session_id = ?`, sess.ID); err != nil {
			return fmt.Errorf("clearing %s for %s: %w", table, sess.ID, err)
		}
	}

	for i, a := range sess.Answers.All() {
		valueJSON, err := json.Marshal(a.Value)
		if err != nil {
			return fmt.Errorf("encoding answer %s: %w", a.QuestionKey, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO answers (session_id, question_key, position, value, recorded_at) VALUES (?, ?, ?, ?, ?)`,
			sess.ID, a.QuestionKey, i, string(valueJSON), formatTime(a.RecordedAt),
		)
		if err != nil {
			return fmt.Errorf("saving answer %s: %w", a.QuestionKey, err)
		}
	}

	for i, t := range sess.Tasks.Tasks() {
		depsJSON, err := json.Marshal(t.DependsOn)
		if err != nil {
			return fmt.Errorf("encoding dependencies for %s: %w", t.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO tasks (id, session_id, position, title, description, depends_on, status,
				difficulty, estimated_hours, actual_hours, created_at, updated_at, completed_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, sess.ID, i, t.Title, t.Description, string(depsJSON), string(t.Status),
			string(t.Difficulty), t.EstimatedHours, nullableInt(t.ActualHours),
			formatTime(t.CreatedAt), formatTime(t.UpdatedAt), nullableTime(t.CompletedAt),
		)
		if err != nil {
			return fmt.Errorf("saving task %s: %w", t.ID, err)
		}
	}

	for _, doc := range sess.Documents {
		content, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encoding document v%d: %w", doc.Version, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO documents (session_id, version, content, generated_at) VALUES (?, ?, ?, ?)`,
			sess.ID, doc.Version, string(content), formatTime(doc.GeneratedAt),
		)
		if err != nil {
			return fmt.Errorf("saving document v%d: %w", doc.Version, err)
		}
	}

	return tx.Commit()
}

// Load reads a session by id, rebuilding the answer store, task graph,
// and document history.
func (s *Store) Load(ctx context.Context, id string) (*session.Session, error) {
	var (
		sess session.Session

		productType, industry, compl string
		status, createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, product_type, industry, complexity, status, created_at, updated_at
		 FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.Name, &productType, &industry, &compl, &status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("loading %s: %w", id, ErrSessionNotFound)
		}
		return nil, fmt.Errorf("loading %s: %w", id, err)
	}

	sess.Context = types.ProductContext{
		ProductType: types.ProductType(productType),
		Industry:    types.Industry(industry),
		Complexity:  types.Complexity(compl),
	}
	sess.Status = types.SessionStatus(status)
	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("loading %s: %w", id, err)
	}
	if sess.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("loading %s: %w", id, err)
	}

	if sess.Answers, err = s.loadAnswers(ctx, id); err != nil {
		return nil, err
	}
	tasks, err := s.loadTasks(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Tasks, err = taskgraph.Restore(id, tasks); err != nil {
		return nil, fmt.Errorf("loading %s: %w", id, err)
	}
	if sess.Documents, err = s.loadDocuments(ctx, id); err != nil {
		return nil, err
	}

	return &sess, nil
}

func (s *Store) loadAnswers(ctx context.Context, id string) (*interview.AnswerStore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question_key, value, recorded_at FROM answers WHERE session_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("loading answers for %s: %w", id, err)
	}
	defer rows.Close()

	answers := interview.NewAnswerStore()
	for rows.Next() {
		var key, valueJSON, recordedAt string
		if err := rows.Scan(&key, &valueJSON, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning answer for %s: %w", id, err)
		}
		value, err := decodeValue(valueJSON)
		if err != nil {
			return nil, fmt.Errorf("decoding answer %s for %s: %w", key, id, err)
		}
		at, err := parseTime(recordedAt)
		if err != nil {
			return nil, fmt.Errorf("decoding answer %s for %s: %w", key, id, err)
		}
		answers.Record(key, value, at)
	}
	return answers, rows.Err()
}

func (s *Store) loadTasks(ctx context.Context, id string) ([]types.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, depends_on, status, difficulty, estimated_hours,
			actual_hours, created_at, updated_at, completed_at
		 FROM tasks WHERE session_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("loading tasks for %s: %w", id, err)
	}
	defer rows.Close()

	var tasks []types.Task
	for rows.Next() {
		var (
			t           types.Task
			description sql.NullString
			depsJSON    string

			status, difficulty   string
			actualHours          sql.NullInt64
			createdAt, updatedAt string
			completedAt          sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Title, &description, &depsJSON, &status, &difficulty,
			&t.EstimatedHours, &actualHours, &createdAt, &updatedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scanning task for %s: %w", id, err)
		}
		t.Description = description.String
		if err := json.Unmarshal([]byte(depsJSON), &t.DependsOn); err != nil {
			return nil, fmt.Errorf("decoding dependencies of %s: %w", t.ID, err)
		}
		t.Status = types.TaskStatus(status)
		t.Difficulty = types.Difficulty(difficulty)
		if actualHours.Valid {
			h := int(actualHours.Int64)
			t.ActualHours = &h
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("decoding task %s: %w", t.ID, err)
		}
		if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("decoding task %s: %w", t.ID, err)
		}
		if completedAt.Valid {
			at, err := parseTime(completedAt.String)
			if err != nil {
				return nil, fmt.Errorf("decoding task %s: %w", t.ID, err)
			}
			t.CompletedAt = &at
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) loadDocuments(ctx context.Context, id string) ([]types.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT content FROM documents WHERE session_id = ? ORDER BY version`, id)
	if err != nil {
		return nil, fmt.Errorf("loading documents for %s: %w", id, err)
	}
	defer rows.Close()

	var docs []types.Document
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("scanning document for %s: %w", id, err)
		}
		var doc types.Document
		if err := json.Unmarshal([]byte(content), &doc); err != nil {
			return nil, fmt.Errorf("decoding document for %s: %w", id, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// List returns summaries of every stored session, most recently updated
// first.
func (s *Store) List(ctx context.Context) ([]types.SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.name, s.product_type, s.industry, s.complexity, s.status, s.updated_at,
			(SELECT count(*) FROM answers a WHERE a.session_id = s.id),
			(SELECT count(*) FROM tasks t WHERE t.session_id = s.id),
			(SELECT count(*) FROM documents d WHERE d.session_id = s.id)
		 FROM sessions s
		 ORDER BY s.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var summaries []types.SessionSummary
	for rows.Next() {
		var (
			sum                          types.SessionSummary
			productType, industry, compl string
			status, updatedAt            string
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &productType, &industry, &compl, &status,
			&updatedAt, &sum.Answered, &sum.TaskCount, &sum.DocumentCount); err != nil {
			return nil, fmt.Errorf("scanning session summary: %w", err)
		}
		sum.ProductType = types.ProductType(productType)
		sum.Industry = types.Industry(industry)
		sum.Complexity = types.Complexity(compl)
		sum.Status = types.SessionStatus(status)
		if sum.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("decoding summary for %s: %w", sum.ID, err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// Delete removes a session and everything it owns.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("deleting %s: %w", id, ErrSessionNotFound)
	}
	return nil
}

// decodeValue turns a stored JSON answer value back into its typed form.
// JSON arrays become []string; numbers stay float64.
func decodeValue(valueJSON string) (any, error) {
	var raw any
	if err := json.Unmarshal([]byte(valueJSON), &raw); err != nil {
		return nil, err
	}
	if arr, ok := raw.([]any); ok {
		items := make([]string, 0, len(arr))
		for _, el := range arr {
			s, ok := el.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected array element %T", el)
			}
			items = append(items, s)
		}
		return items, nil
	}
	return raw, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}
