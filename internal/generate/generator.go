// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate transforms a session's answers and task graph into a
// structured Document. Generation is deterministic: the same context,
// answers, and task snapshot always produce the same document apart from
// the GeneratedAt timestamp.
package generate

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/prd-engine/internal/interview"
	"github.com/pdiddy/prd-engine/internal/session"
	"github.com/pdiddy/prd-engine/pkg/types"
)

// ErrEmptySession marks a generation attempt on a session with no
// recorded answers.
var ErrEmptySession = errors.New("empty session")

// listQuestions are text answers rendered as bullet lists rather than
// prose.
var listQuestions = map[string]bool{
	"key_features":    true,
	"success_metrics": true,
}

// Generate produces the next document version for the session. Answered
// questions are grouped into sections by the product type's taxonomy;
// sections with no answered questions are omitted. Partial interviews are
// allowed; the document carries the completeness ratio so callers can
// decide whether to export it.
func Generate(s *session.Session, eng *interview.Engine, now time.Time) (types.Document, error) {
	if s.Answers.Len() == 0 {
		return types.Document{}, fmt.Errorf("generating document for %s: %w", s.ID, ErrEmptySession)
	}

	doc := types.Document{
		SessionID:    s.ID,
		Version:      len(s.Documents) + 1,
		Title:        documentTitle(s),
		Context:      s.Context,
		TaskSummary:  s.Tasks.Snapshot(),
		Completeness: eng.Completeness(s.Context, s.Answers),
		GeneratedAt:  now,
	}

	if summary, keys := executiveSummary(s); summary != "" {
		doc.Sections = append(doc.Sections, types.Section{
			Heading:            headingExecutiveSummary,
			Body:               summary,
			SourceQuestionKeys: keys,
		})
	}

	for _, heading := range SectionOrder(s.Context.ProductType) {
		if sec, ok := buildSection(heading, s, eng); ok {
			doc.Sections = append(doc.Sections, sec)
		}
	}

	return doc, nil
}

// documentTitle prefers the project_name answer over the session name.
func documentTitle(s *session.Session) string {
	if a, ok := s.Answers.Get("project_name"); ok {
		if name, ok := a.Value.(string); ok && name != "" {
			return name
		}
	}
	return s.Name
}

// buildSection collects the answered questions assigned to one heading,
// in catalog registration order. Headings with no answered questions are
// dropped, never emitted empty.
func buildSection(heading string, s *session.Session, eng *interview.Engine) (types.Section, bool) {
	var (
		parts []string
		keys  []string
	)
	for _, q := range eng.Catalog() {
		if q.Section != heading {
			continue
		}
		a, ok := s.Answers.Get(q.Key)
		if !ok {
			continue
		}
		parts = append(parts, renderAnswer(q, a))
		keys = append(keys, q.Key)
	}
	if len(parts) == 0 {
		return types.Section{}, false
	}
	return types.Section{
		Heading:            heading,
		Body:               strings.Join(parts, "\n\n"),
		SourceQuestionKeys: keys,
	}, true
}

// renderAnswer formats one question and its answer. Multi-choice answers
// and designated list questions render as bullet lists.
func renderAnswer(q types.QuestionDefinition, a types.Answer) string {
	var b strings.Builder
	b.WriteString(q.Prompt)
	b.WriteString("\n")

	switch v := a.Value.(type) {
	case []string:
		for i, item := range v {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("- " + item)
		}
	case string:
		if listQuestions[q.Key] {
			items := ParseListField(v)
			for i, item := range items {
				if i > 0 {
					b.WriteString("\n")
				}
				b.WriteString("- " + item)
			}
		} else {
			b.WriteString(v)
		}
	case bool:
		if v {
			b.WriteString("Yes")
		} else {
			b.WriteString("No")
		}
	default:
		b.WriteString(interview.FormatValue(a.Value))
	}
	return b.String()
}

// complexityDescriptions phrases each complexity level for the executive
// summary.
var complexityDescriptions = map[types.Complexity]string{
	types.ComplexitySimple:     "a streamlined solution designed for rapid deployment",
	types.ComplexityModerate:   "a comprehensive solution with standard features",
	types.ComplexityComplex:    "an advanced solution with sophisticated capabilities",
	types.ComplexityEnterprise: "an enterprise-grade solution with comprehensive features",
}

// executiveSummary synthesizes an opening section from the product context
// and the core answers. Returns the empty string when not even a project
// name is available.
func executiveSummary(s *session.Session) (string, []string) {
	var keys []string

	name := s.Name
	if a, ok := s.Answers.Get("project_name"); ok {
		if v, ok := a.Value.(string); ok && v != "" {
			name = v
			keys = append(keys, "project_name")
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s is a %s solution", name, strings.ReplaceAll(string(s.Context.ProductType), "_", " "))

	if a, ok := s.Answers.Get("problem_statement"); ok {
		if v, ok := a.Value.(string); ok && v != "" {
			fmt.Fprintf(&b, " that addresses %s", lowerFirst(v))
			keys = append(keys, "problem_statement")
		}
	}
	b.WriteString(".")

	if a, ok := s.Answers.Get("value_proposition"); ok {
		if v, ok := a.Value.(string); ok && v != "" {
			fmt.Fprintf(&b, " Its unique value proposition: %s.", strings.TrimRight(v, "."))
			keys = append(keys, "value_proposition")
		}
	}

	fmt.Fprintf(&b, " This is %s targeted at the %s industry.",
		complexityDescriptions[s.Context.Complexity],
		strings.ReplaceAll(string(s.Context.Industry), "_", " "))

	return b.String(), keys
}

// lowerFirst lowercases the first rune of a sentence fragment.
func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// ParseListField splits a free-text answer into list items. It accepts
// newline-separated lines, comma-separated values, and leading bullet or
// numbering characters.
func ParseListField(value string) []string {
	var items []string
	for _, line := range strings.Split(value, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "•-*0123456789. ")
		if line == "" {
			continue
		}
		if strings.Contains(line, ",") {
			for _, part := range strings.Split(line, ",") {
				if part = strings.TrimSpace(part); part != "" {
					items = append(items, part)
				}
			}
		} else {
			items = append(items, line)
		}
	}
	return items
}
