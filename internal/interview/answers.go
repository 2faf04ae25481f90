// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package interview evaluates the question catalog against a session's
// product context and recorded answers. The engine is a pure function of
// current state: it holds no iteration state and re-evaluates the whole
// catalog after every new answer.
package interview

import (
	"time"

	"github.com/pdiddy/prd-engine/pkg/types"
)

// AnswerStore is an ordered mapping from question key to answer. Insertion
// order is the answer order and is preserved for display and audit;
// overwriting an existing key updates the value and timestamp but does not
// change the key's position.
type AnswerStore struct {
	order []string
	byKey map[string]types.Answer
}

// NewAnswerStore returns an empty store.
func NewAnswerStore() *AnswerStore {
	return &AnswerStore{byKey: make(map[string]types.Answer)}
}

// Record writes an answer. New keys append to the insertion order;
// existing keys keep their position.
func (s *AnswerStore) Record(key string, value any, now time.Time) {
	if _, exists := s.byKey[key]; !exists {
		s.order = append(s.order, key)
	}
	s.byKey[key] = types.Answer{QuestionKey: key, Value: value, RecordedAt: now}
}

// Get returns the answer for key.
func (s *AnswerStore) Get(key string) (types.Answer, bool) {
	a, ok := s.byKey[key]
	return a, ok
}

// Has reports whether key has been answered.
func (s *AnswerStore) Has(key string) bool {
	_, ok := s.byKey[key]
	return ok
}

// Len returns the number of recorded answers.
func (s *AnswerStore) Len() int {
	return len(s.order)
}

// All returns the answers in insertion order.
func (s *AnswerStore) All() []types.Answer {
	out := make([]types.Answer, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.byKey[key])
	}
	return out
}

// Keys returns the answered question keys in insertion order.
func (s *AnswerStore) Keys() []string {
	return append([]string(nil), s.order...)
}
