// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// AnswerType declares how a question's answer is captured and validated.
type AnswerType string

const (
	AnswerText        AnswerType = "text"
	AnswerChoice      AnswerType = "choice"
	AnswerMultiChoice AnswerType = "multi_choice"
	AnswerNumber      AnswerType = "number"
	AnswerBoolean     AnswerType = "boolean"
)

// IsValid reports whether the answer type is a known value.
func (a AnswerType) IsValid() bool {
	switch a {
	case AnswerText, AnswerChoice, AnswerMultiChoice, AnswerNumber, AnswerBoolean:
		return true
	}
	return false
}

// Condition is one node of the applicability expression tree attached to a
// question. Exactly one field group is populated per node: a combinator
// (All, Any, Not) or a leaf comparison against the product context or a
// prior answer. The tree is data-driven from the catalog YAML and evaluated
// by the interview engine without reflection.
type Condition struct {
	// All is satisfied when every child condition is satisfied.
	All []Condition `json:"all,omitempty" yaml:"all,omitempty"`

	// Any is satisfied when at least one child condition is satisfied.
	Any []Condition `json:"any,omitempty" yaml:"any,omitempty"`

	// Not inverts its child condition.
	Not *Condition `json:"not,omitempty" yaml:"not,omitempty"`

	// ProductTypes is satisfied when the session's product type is in the set.
	ProductTypes []ProductType `json:"product_types,omitempty" yaml:"product_types,omitempty"`

	// Industries is satisfied when the session's industry is in the set.
	Industries []Industry `json:"industries,omitempty" yaml:"industries,omitempty"`

	// MinComplexity is satisfied when the session's complexity is at or
	// above this level.
	MinComplexity Complexity `json:"min_complexity,omitempty" yaml:"min_complexity,omitempty"`

	// AnswerEquals is satisfied when the answer at Key equals Value.
	AnswerEquals *AnswerMatch `json:"answer_equals,omitempty" yaml:"answer_equals,omitempty"`

	// AnswerContains is satisfied when the answer at Key contains Value:
	// substring match for text answers, element match for multi-choice.
	AnswerContains *AnswerMatch `json:"answer_contains,omitempty" yaml:"answer_contains,omitempty"`
}

// AnswerMatch is a leaf comparison against a previously recorded answer.
type AnswerMatch struct {
	// Key names the question whose answer is compared.
	Key string `json:"key" yaml:"key"`

	// Value is the expected answer value, compared per the answer's type.
	Value string `json:"value" yaml:"value"`
}

// Document headings a question may be assigned to. Generation orders
// every one of these for every product type, so an answered question
// always lands in the rendered document.
const (
	SectionOverview     = "Overview"
	SectionBusiness     = "Business Context"
	SectionUserResearch = "User Research"
	SectionTechnical    = "Technical Requirements"
	SectionFeatures     = "Features"
	SectionCompliance   = "Compliance"
	SectionDelivery     = "Delivery Plan"
)

// QuestionSections lists every heading a catalog question may map into.
var QuestionSections = []string{
	SectionOverview,
	SectionBusiness,
	SectionUserResearch,
	SectionTechnical,
	SectionFeatures,
	SectionCompliance,
	SectionDelivery,
}

// KnownQuestionSection reports whether s is one of the question headings.
func KnownQuestionSection(s string) bool {
	for _, h := range QuestionSections {
		if h == s {
			return true
		}
	}
	return false
}

// QuestionDefinition is one entry of the immutable question catalog.
type QuestionDefinition struct {
	// Key uniquely identifies the question across the catalog.
	Key string `json:"key" yaml:"key"`

	// Prompt is the text shown to the user.
	Prompt string `json:"prompt" yaml:"prompt"`

	// Help is optional guidance shown alongside the prompt.
	Help string `json:"help,omitempty" yaml:"help,omitempty"`

	// AnswerType declares how the answer is captured.
	AnswerType AnswerType `json:"answer_type" yaml:"answer_type"`

	// Choices lists the permitted values for choice and multi_choice questions.
	Choices []string `json:"choices,omitempty" yaml:"choices,omitempty"`

	// Section is the document heading this question's answer contributes to.
	// Every question maps to exactly one heading.
	Section string `json:"section" yaml:"section"`

	// DependsOn lists question keys that must already be answered before
	// this question is offered.
	DependsOn []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`

	// When is the applicability predicate. A nil predicate always applies.
	When *Condition `json:"when,omitempty" yaml:"when,omitempty"`
}

// Validate checks structural consistency of a single definition. Cross-
// question references are checked by the catalog loader.
func (q QuestionDefinition) Validate() error {
	if q.Key == "" {
		return fmt.Errorf("question with empty key")
	}
	if q.Prompt == "" {
		return fmt.Errorf("question %s: empty prompt", q.Key)
	}
	if !q.AnswerType.IsValid() {
		return fmt.Errorf("question %s: unknown answer type %q", q.Key, q.AnswerType)
	}
	if !KnownQuestionSection(q.Section) {
		return fmt.Errorf("question %s: unknown section %q", q.Key, q.Section)
	}
	switch q.AnswerType {
	case AnswerChoice, AnswerMultiChoice:
		if len(q.Choices) == 0 {
			return fmt.Errorf("question %s: %s question without choices", q.Key, q.AnswerType)
		}
	default:
		if len(q.Choices) > 0 {
			return fmt.Errorf("question %s: choices on a %s question", q.Key, q.AnswerType)
		}
	}
	return nil
}
