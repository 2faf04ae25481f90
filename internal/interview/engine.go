// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package interview

import (
	"strconv"
	"strings"

	"github.com/pdiddy/prd-engine/pkg/types"
)

// Engine evaluates a question catalog against a product context and answer
// store. It is stateless beyond the immutable catalog; identical inputs
// always yield identical ordered output.
type Engine struct {
	catalog []types.QuestionDefinition
}

// NewEngine wraps a validated catalog.
func NewEngine(catalog []types.QuestionDefinition) *Engine {
	return &Engine{catalog: catalog}
}

// Catalog returns the engine's question definitions in registration order.
func (e *Engine) Catalog() []types.QuestionDefinition {
	return e.catalog
}

// NextQuestions returns the currently offerable questions in catalog
// registration order: applicable under the context and answers, with every
// dependency answered, and not themselves answered yet. An empty result
// means the interview is complete.
//
// A dependency that has become inapplicable after its answer changed does
// not retract answers already recorded; the engine simply stops offering
// unanswered descendants.
func (e *Engine) NextQuestions(pc types.ProductContext, answers *AnswerStore) []types.QuestionDefinition {
	var next []types.QuestionDefinition
	for _, q := range e.catalog {
		if answers.Has(q.Key) {
			continue
		}
		if !e.offerable(q, pc, answers) {
			continue
		}
		next = append(next, q)
	}
	return next
}

// Complete reports whether no applicable, unanswered question remains.
// This is the only signal that allows a session to leave interviewing.
func (e *Engine) Complete(pc types.ProductContext, answers *AnswerStore) bool {
	return len(e.NextQuestions(pc, answers)) == 0
}

// Applicable returns every question that is either answered or currently
// offerable. It is the denominator of the completeness ratio.
func (e *Engine) Applicable(pc types.ProductContext, answers *AnswerStore) []types.QuestionDefinition {
	var out []types.QuestionDefinition
	for _, q := range e.catalog {
		if answers.Has(q.Key) || e.offerable(q, pc, answers) {
			out = append(out, q)
		}
	}
	return out
}

// Completeness returns the answered/applicable ratio at this moment,
// in [0, 1].
func (e *Engine) Completeness(pc types.ProductContext, answers *AnswerStore) float64 {
	applicable := e.Applicable(pc, answers)
	if len(applicable) == 0 {
		return 0
	}
	answered := 0
	for _, q := range applicable {
		if answers.Has(q.Key) {
			answered++
		}
	}
	return float64(answered) / float64(len(applicable))
}

// offerable reports whether an unanswered question may be offered now.
func (e *Engine) offerable(q types.QuestionDefinition, pc types.ProductContext, answers *AnswerStore) bool {
	for _, dep := range q.DependsOn {
		if !answers.Has(dep) {
			return false
		}
	}
	return Eval(q.When, pc, answers)
}

// Eval interprets a predicate tree against the product context and prior
// answers. A nil condition always applies. Multiple populated fields on a
// single node are conjoined.
func Eval(c *types.Condition, pc types.ProductContext, answers *AnswerStore) bool {
	if c == nil {
		return true
	}
	for i := range c.All {
		if !Eval(&c.All[i], pc, answers) {
			return false
		}
	}
	if len(c.Any) > 0 {
		matched := false
		for i := range c.Any {
			if Eval(&c.Any[i], pc, answers) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if c.Not != nil && Eval(c.Not, pc, answers) {
		return false
	}
	if len(c.ProductTypes) > 0 && !containsProduct(c.ProductTypes, pc.ProductType) {
		return false
	}
	if len(c.Industries) > 0 && !containsIndustry(c.Industries, pc.Industry) {
		return false
	}
	if c.MinComplexity != "" && !pc.Complexity.AtLeast(c.MinComplexity) {
		return false
	}
	if c.AnswerEquals != nil && !answerEquals(answers, c.AnswerEquals) {
		return false
	}
	if c.AnswerContains != nil && !answerContains(answers, c.AnswerContains) {
		return false
	}
	return true
}

func containsProduct(set []types.ProductType, p types.ProductType) bool {
	for _, v := range set {
		if v == p {
			return true
		}
	}
	return false
}

func containsIndustry(set []types.Industry, i types.Industry) bool {
	for _, v := range set {
		if v == i {
			return true
		}
	}
	return false
}

// answerEquals compares the recorded answer at m.Key against m.Value. A
// missing answer never matches. Multi-choice answers match only when they
// hold exactly the expected value.
func answerEquals(answers *AnswerStore, m *types.AnswerMatch) bool {
	a, ok := answers.Get(m.Key)
	if !ok {
		return false
	}
	switch v := a.Value.(type) {
	case []string:
		return len(v) == 1 && v[0] == m.Value
	default:
		return FormatValue(a.Value) == m.Value
	}
}

// answerContains checks membership: substring for text and choice answers,
// element membership for multi-choice.
func answerContains(answers *AnswerStore, m *types.AnswerMatch) bool {
	a, ok := answers.Get(m.Key)
	if !ok {
		return false
	}
	switch v := a.Value.(type) {
	case []string:
		for _, item := range v {
			if item == m.Value {
				return true
			}
		}
		return false
	case string:
		return strings.Contains(v, m.Value)
	default:
		return FormatValue(a.Value) == m.Value
	}
}

// FormatValue renders an answer value in its canonical string form, used
// for predicate comparison and document rendering.
func FormatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case []string:
		return strings.Join(v, ", ")
	default:
		return ""
	}
}
