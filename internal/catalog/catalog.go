// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog loads and validates the immutable question catalog.
// The catalog is embedded YAML, parsed once at process start and never
// mutated at runtime; registration order in the file is the interview
// order the engine preserves.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/prd-engine/pkg/types"
)

//go:embed catalog.yaml
var catalogYAML []byte

// catalogFile is the YAML document shape.
type catalogFile struct {
	Questions []types.QuestionDefinition `yaml:"questions"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog []types.QuestionDefinition
	defaultErr     error
)

// Default returns the embedded catalog, parsed and validated on first use.
func Default() ([]types.QuestionDefinition, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(catalogYAML)
	})
	return defaultCatalog, defaultErr
}

// Parse decodes and validates a catalog from YAML bytes.
func Parse(data []byte) ([]types.QuestionDefinition, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if err := Validate(file.Questions); err != nil {
		return nil, err
	}
	return file.Questions, nil
}

// Validate checks catalog-wide consistency: per-question structure, key
// uniqueness, and that dependency and predicate references point at
// questions registered earlier in the catalog. Forward references are
// rejected so the interview can always make progress.
func Validate(questions []types.QuestionDefinition) error {
	if len(questions) == 0 {
		return fmt.Errorf("catalog has no questions")
	}

	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("invalid catalog: %w", err)
		}
		if seen[q.Key] {
			return fmt.Errorf("invalid catalog: duplicate question key %s", q.Key)
		}

		for _, dep := range q.DependsOn {
			if !seen[dep] {
				return fmt.Errorf("invalid catalog: question %s depends on %s, which is not registered earlier", q.Key, dep)
			}
		}
		if err := validateCondition(q.When, q.Key, seen); err != nil {
			return err
		}

		seen[q.Key] = true
	}
	return nil
}

// validateCondition walks a predicate tree checking enum values and
// answer references.
func validateCondition(c *types.Condition, key string, earlier map[string]bool) error {
	if c == nil {
		return nil
	}
	for i := range c.All {
		if err := validateCondition(&c.All[i], key, earlier); err != nil {
			return err
		}
	}
	for i := range c.Any {
		if err := validateCondition(&c.Any[i], key, earlier); err != nil {
			return err
		}
	}
	if err := validateCondition(c.Not, key, earlier); err != nil {
		return err
	}
	for _, p := range c.ProductTypes {
		if !p.IsValid() {
			return fmt.Errorf("invalid catalog: question %s references unknown product type %q", key, p)
		}
	}
	for _, ind := range c.Industries {
		if !ind.IsValid() {
			return fmt.Errorf("invalid catalog: question %s references unknown industry %q", key, ind)
		}
	}
	if c.MinComplexity != "" && !c.MinComplexity.IsValid() {
		return fmt.Errorf("invalid catalog: question %s references unknown complexity %q", key, c.MinComplexity)
	}
	for _, m := range []*types.AnswerMatch{c.AnswerEquals, c.AnswerContains} {
		if m == nil {
			continue
		}
		if m.Key == "" {
			return fmt.Errorf("invalid catalog: question %s has an answer condition without a key", key)
		}
		if !earlier[m.Key] {
			return fmt.Errorf("invalid catalog: question %s conditions on %s, which is not registered earlier", key, m.Key)
		}
	}
	return nil
}

// Find returns the definition for a question key, or false when the key is
// not in the catalog.
func Find(questions []types.QuestionDefinition, key string) (types.QuestionDefinition, bool) {
	for _, q := range questions {
		if q.Key == key {
			return q, true
		}
	}
	return types.QuestionDefinition{}, false
}
