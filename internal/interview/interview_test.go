// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package interview

import (
	"errors"
	"testing"
	"time"

	"github.com/pdiddy/prd-engine/pkg/types"
)

// --- test fixtures ---

func testCatalog() []types.QuestionDefinition {
	return []types.QuestionDefinition{
		{
			Key: "project_name", Prompt: "What is the project called?",
			AnswerType: types.AnswerText, Section: "Overview",
		},
		{
			Key: "platform", Prompt: "Which platform?",
			AnswerType: types.AnswerChoice, Choices: []string{"web", "mobile"},
			Section: "Technical Requirements",
		},
		{
			Key: "has_auth", Prompt: "Does the product need user accounts?",
			AnswerType: types.AnswerBoolean, Section: "Technical Requirements",
		},
		{
			Key: "auth_provider", Prompt: "Which identity provider?",
			AnswerType: types.AnswerText, Section: "Technical Requirements",
			DependsOn: []string{"has_auth"},
			When:      &types.Condition{AnswerEquals: &types.AnswerMatch{Key: "has_auth", Value: "true"}},
		},
		{
			Key: "team_size", Prompt: "How many people will build this?",
			AnswerType: types.AnswerNumber, Section: "Delivery Plan",
			When: &types.Condition{MinComplexity: types.ComplexityComplex},
		},
		{
			Key: "compliance_regimes", Prompt: "Which regulations apply?",
			AnswerType: types.AnswerMultiChoice,
			Choices:    []string{"HIPAA", "PCI-DSS", "SOC2"},
			Section:    "Compliance",
			When: &types.Condition{Any: []types.Condition{
				{Industries: []types.Industry{types.IndustryHealthcare}},
				{ProductTypes: []types.ProductType{types.ProductFintech}},
			}},
		},
	}
}

func testContext() types.ProductContext {
	return types.ProductContext{
		ProductType: types.ProductWebApp,
		Industry:    types.IndustryGeneral,
		Complexity:  types.ComplexityModerate,
	}
}

func answerKeys(qs []types.QuestionDefinition) []string {
	keys := make([]string, 0, len(qs))
	for _, q := range qs {
		keys = append(keys, q.Key)
	}
	return keys
}

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

// --- answer store tests ---

func TestAnswerStoreOrdering(t *testing.T) {
	s := NewAnswerStore()
	s.Record("b", "second", testNow)
	s.Record("a", "first", testNow)
	s.Record("c", "third", testNow)

	want := []string{"b", "a", "c"}
	got := s.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAnswerStoreOverwriteKeepsPosition(t *testing.T) {
	s := NewAnswerStore()
	s.Record("a", "one", testNow)
	s.Record("b", "two", testNow)
	s.Record("a", "updated", testNow.Add(time.Hour))

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if keys := s.Keys(); keys[0] != "a" || keys[1] != "b" {
		t.Errorf("overwrite changed order: %v", keys)
	}

	a, ok := s.Get("a")
	if !ok {
		t.Fatal("Get(a) missing")
	}
	if a.Value != "updated" {
		t.Errorf("Value = %v, want updated", a.Value)
	}
	if !a.RecordedAt.Equal(testNow.Add(time.Hour)) {
		t.Errorf("RecordedAt not refreshed: %v", a.RecordedAt)
	}
}

// --- predicate tests ---

func TestEval(t *testing.T) {
	answers := NewAnswerStore()
	answers.Record("has_auth", true, testNow)
	answers.Record("features", []string{"payments", "search"}, testNow)

	pc := types.ProductContext{
		ProductType: types.ProductFintech,
		Industry:    types.IndustryFinance,
		Complexity:  types.ComplexityComplex,
	}

	tests := []struct {
		name string
		cond *types.Condition
		want bool
	}{
		{"nil condition always applies", nil, true},
		{"matching product type", &types.Condition{ProductTypes: []types.ProductType{types.ProductFintech}}, true},
		{"non-matching product type", &types.Condition{ProductTypes: []types.ProductType{types.ProductSaaS}}, false},
		{"matching industry", &types.Condition{Industries: []types.Industry{types.IndustryFinance}}, true},
		{"min complexity met", &types.Condition{MinComplexity: types.ComplexityModerate}, true},
		{"min complexity not met", &types.Condition{MinComplexity: types.ComplexityEnterprise}, false},
		{"answer equals bool", &types.Condition{AnswerEquals: &types.AnswerMatch{Key: "has_auth", Value: "true"}}, true},
		{"answer equals missing key", &types.Condition{AnswerEquals: &types.AnswerMatch{Key: "nope", Value: "x"}}, false},
		{"answer contains multi element", &types.Condition{AnswerContains: &types.AnswerMatch{Key: "features", Value: "payments"}}, true},
		{"answer contains absent element", &types.Condition{AnswerContains: &types.AnswerMatch{Key: "features", Value: "chat"}}, false},
		{
			"multi-value answers never equal a single value",
			&types.Condition{AnswerEquals: &types.AnswerMatch{Key: "features", Value: "payments"}},
			false,
		},
		{"not inverts", &types.Condition{Not: &types.Condition{ProductTypes: []types.ProductType{types.ProductFintech}}}, false},
		{
			"all conjoins",
			&types.Condition{All: []types.Condition{
				{ProductTypes: []types.ProductType{types.ProductFintech}},
				{MinComplexity: types.ComplexityEnterprise},
			}},
			false,
		},
		{
			"any disjoins",
			&types.Condition{Any: []types.Condition{
				{ProductTypes: []types.ProductType{types.ProductSaaS}},
				{Industries: []types.Industry{types.IndustryFinance}},
			}},
			true,
		},
		{
			"fields on one node conjoin",
			&types.Condition{
				ProductTypes:  []types.ProductType{types.ProductFintech},
				MinComplexity: types.ComplexityEnterprise,
			},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Eval(tt.cond, pc, answers); got != tt.want {
				t.Errorf("Eval() = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- engine tests ---

func TestNextQuestionsSkipsAnsweredAndInapplicable(t *testing.T) {
	eng := NewEngine(testCatalog())
	pc := testContext()
	answers := NewAnswerStore()
	answers.Record("project_name", "Ledgerly", testNow)

	next := answerKeys(eng.NextQuestions(pc, answers))

	// project_name is answered, auth_provider is gated on has_auth,
	// team_size needs complex, compliance_regimes needs healthcare or
	// fintech.
	want := []string{"platform", "has_auth"}
	if len(next) != len(want) {
		t.Fatalf("NextQuestions = %v, want %v", next, want)
	}
	for i := range want {
		if next[i] != want[i] {
			t.Errorf("NextQuestions[%d] = %q, want %q", i, next[i], want[i])
		}
	}
}

func TestAnswerUnlocksFollowUp(t *testing.T) {
	eng := NewEngine(testCatalog())
	pc := testContext()
	answers := NewAnswerStore()

	for _, q := range answerKeys(eng.NextQuestions(pc, answers)) {
		if q == "auth_provider" {
			t.Fatal("auth_provider offered before its dependency was answered")
		}
	}

	answers.Record("has_auth", true, testNow)

	found := false
	for _, q := range answerKeys(eng.NextQuestions(pc, answers)) {
		if q == "auth_provider" {
			found = true
		}
	}
	if !found {
		t.Error("auth_provider not offered after has_auth answered true")
	}
}

func TestNegativeAnswerKeepsFollowUpHidden(t *testing.T) {
	eng := NewEngine(testCatalog())
	pc := testContext()
	answers := NewAnswerStore()
	answers.Record("has_auth", false, testNow)

	for _, q := range answerKeys(eng.NextQuestions(pc, answers)) {
		if q == "auth_provider" {
			t.Error("auth_provider offered although has_auth is false")
		}
	}
}

func TestCompleteAndCompleteness(t *testing.T) {
	eng := NewEngine(testCatalog())
	pc := testContext()
	answers := NewAnswerStore()

	if eng.Complete(pc, answers) {
		t.Fatal("empty interview reported complete")
	}
	if got := eng.Completeness(pc, answers); got != 0 {
		t.Errorf("Completeness of empty interview = %f, want 0", got)
	}

	// Applicable for a moderate general web_app: project_name, platform,
	// has_auth. Answer them all; has_auth false keeps auth_provider out.
	answers.Record("project_name", "Ledgerly", testNow)
	answers.Record("platform", "web", testNow)

	got := eng.Completeness(pc, answers)
	want := 2.0 / 3.0
	if got < want-0.001 || got > want+0.001 {
		t.Errorf("Completeness = %f, want %f", got, want)
	}

	answers.Record("has_auth", false, testNow)
	if !eng.Complete(pc, answers) {
		t.Errorf("interview not complete, remaining: %v", answerKeys(eng.NextQuestions(pc, answers)))
	}
	if got := eng.Completeness(pc, answers); got != 1 {
		t.Errorf("Completeness = %f, want 1", got)
	}
}

func TestCompletenessIsDeterministic(t *testing.T) {
	eng := NewEngine(testCatalog())
	pc := testContext()
	answers := NewAnswerStore()
	answers.Record("project_name", "Ledgerly", testNow)

	first := eng.Completeness(pc, answers)
	for i := 0; i < 5; i++ {
		if got := eng.Completeness(pc, answers); got != first {
			t.Fatalf("Completeness varied across calls: %f then %f", first, got)
		}
	}
}

// --- answer parsing tests ---

func TestParseAnswer(t *testing.T) {
	catalog := testCatalog()
	byKey := map[string]types.QuestionDefinition{}
	for _, q := range catalog {
		byKey[q.Key] = q
	}

	tests := []struct {
		name    string
		key     string
		input   string
		want    any
		wantErr bool
	}{
		{"text", "project_name", "  Ledgerly  ", "Ledgerly", false},
		{"empty text rejected", "project_name", "   ", nil, true},
		{"valid choice", "platform", "web", "web", false},
		{"invalid choice rejected", "platform", "desktop", nil, true},
		{"boolean yes", "has_auth", "yes", true, false},
		{"boolean n", "has_auth", "n", false, false},
		{"boolean junk rejected", "has_auth", "maybe", nil, true},
		{"number", "team_size", "12", float64(12), false},
		{"number junk rejected", "team_size", "a dozen", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAnswer(byKey[tt.key], tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAnswer: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseAnswer = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestParseAnswerMultiChoice(t *testing.T) {
	q := types.QuestionDefinition{
		Key: "compliance_regimes", AnswerType: types.AnswerMultiChoice,
		Choices: []string{"HIPAA", "PCI-DSS", "SOC2"},
	}

	got, err := ParseAnswer(q, "HIPAA, SOC2, HIPAA")
	if err != nil {
		t.Fatalf("ParseAnswer: %v", err)
	}
	selected, ok := got.([]string)
	if !ok {
		t.Fatalf("value type = %T, want []string", got)
	}
	if len(selected) != 2 || selected[0] != "HIPAA" || selected[1] != "SOC2" {
		t.Errorf("selected = %v, want [HIPAA SOC2]", selected)
	}

	if _, err := ParseAnswer(q, "GDPR"); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown option error = %v, want ErrValidation", err)
	}
	if _, err := ParseAnswer(q, " , ,"); !errors.Is(err, ErrValidation) {
		t.Errorf("empty selection error = %v, want ErrValidation", err)
	}
}

// --- formatting tests ---

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "hello", "hello"},
		{"bool", true, "true"},
		{"whole float", float64(7), "7"},
		{"fractional float", 2.5, "2.5"},
		{"multi choice", []string{"a", "b"}, "a, b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.value); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
