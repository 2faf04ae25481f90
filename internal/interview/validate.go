// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package interview

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/prd-engine/pkg/types"
)

// ErrValidation marks a rejected answer: a malformed value or an unknown
// question key. The store is left untouched and the interview continues.
var ErrValidation = errors.New("validation error")

// ParseAnswer converts raw user input into a typed answer value for the
// given question. Multi-choice input is comma-separated.
func ParseAnswer(q types.QuestionDefinition, input string) (any, error) {
	input = strings.TrimSpace(input)
	switch q.AnswerType {
	case types.AnswerText:
		if input == "" {
			return nil, fmt.Errorf("%w: question %s requires a non-empty answer", ErrValidation, q.Key)
		}
		return input, nil

	case types.AnswerChoice:
		for _, c := range q.Choices {
			if input == c {
				return input, nil
			}
		}
		return nil, fmt.Errorf("%w: %q is not a choice for question %s (choices: %s)",
			ErrValidation, input, q.Key, strings.Join(q.Choices, ", "))

	case types.AnswerMultiChoice:
		parts := strings.Split(input, ",")
		var selected []string
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if !containsString(q.Choices, p) {
				return nil, fmt.Errorf("%w: %q is not a choice for question %s (choices: %s)",
					ErrValidation, p, q.Key, strings.Join(q.Choices, ", "))
			}
			if !containsString(selected, p) {
				selected = append(selected, p)
			}
		}
		if len(selected) == 0 {
			return nil, fmt.Errorf("%w: question %s requires at least one selection", ErrValidation, q.Key)
		}
		return selected, nil

	case types.AnswerNumber:
		n, err := strconv.ParseFloat(input, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: question %s requires a number, got %q", ErrValidation, q.Key, input)
		}
		return n, nil

	case types.AnswerBoolean:
		switch strings.ToLower(input) {
		case "y", "yes", "true":
			return true, nil
		case "n", "no", "false":
			return false, nil
		}
		return nil, fmt.Errorf("%w: question %s requires yes or no, got %q", ErrValidation, q.Key, input)
	}
	return nil, fmt.Errorf("%w: question %s has unknown answer type %q", ErrValidation, q.Key, q.AnswerType)
}

// ValidateValue checks an already-typed value against the question's
// answer type, for programmatic callers that bypass ParseAnswer.
func ValidateValue(q types.QuestionDefinition, value any) error {
	switch q.AnswerType {
	case types.AnswerText:
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: question %s requires text", ErrValidation, q.Key)
		}
	case types.AnswerChoice:
		s, ok := value.(string)
		if !ok || !containsString(q.Choices, s) {
			return fmt.Errorf("%w: question %s requires one of its choices", ErrValidation, q.Key)
		}
	case types.AnswerMultiChoice:
		vs, ok := value.([]string)
		if !ok || len(vs) == 0 {
			return fmt.Errorf("%w: question %s requires selections", ErrValidation, q.Key)
		}
		for _, v := range vs {
			if !containsString(q.Choices, v) {
				return fmt.Errorf("%w: question %s: %q is not a choice", ErrValidation, q.Key, v)
			}
		}
	case types.AnswerNumber:
		switch value.(type) {
		case float64, int:
		default:
			return fmt.Errorf("%w: question %s requires a number", ErrValidation, q.Key)
		}
	case types.AnswerBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: question %s requires a boolean", ErrValidation, q.Key)
		}
	default:
		return fmt.Errorf("%w: question %s has unknown answer type %q", ErrValidation, q.Key, q.AnswerType)
	}
	return nil
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
