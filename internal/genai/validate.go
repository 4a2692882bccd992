package genai

import (
	"math"
	"strings"
)

var requiredFields = []string{
	"title",
	"question",
	"options",
	"correct_answer_index",
	"explanation",
	"time_complexity",
	"space_complexity",
}

// A question must mention each of the three keyword categories to count
// as a concrete coding task rather than trivia.
var (
	inputKeywords  = []string{"given", "array", "string", "list", "integer", "input"}
	outputKeywords = []string{"return", "should", "output", "determine", "find", "calculate"}
	taskKeywords   = []string{"write", "implement", "function", "method"}

	bannedPhrases = []string{"challenge", "concept", "what is", "which of the following describes"}
)

const minQuestionWords = 40

var minExplanationWords = map[string]int{
	DifficultyEasy:   30,
	DifficultyMedium: 60,
	DifficultyHard:   120,
}

// Validate classifies a parsed candidate as acceptable or low-quality,
// failing fast on the first violation: structural completeness, then
// question depth, then difficulty-scaled explanation depth. An
// unrecognized difficulty skips the explanation floor.
func Validate(candidate map[string]any, difficulty string) error {
	for _, field := range requiredFields {
		if _, ok := candidate[field]; !ok {
			return &ValidationError{Reason: "missing required fields"}
		}
	}

	options, ok := candidate["options"].([]any)
	if !ok || len(options) != 4 {
		return &ValidationError{Reason: "options must contain exactly 4 items"}
	}

	index, ok := candidate["correct_answer_index"].(float64)
	if !ok || index != math.Trunc(index) {
		return &ValidationError{Reason: "correct answer index must be an integer"}
	}
	if index < 0 || index > 3 {
		return &ValidationError{Reason: "correct answer index out of range"}
	}

	question, _ := candidate["question"].(string)
	if err := validateQuestion(question); err != nil {
		return err
	}

	explanation, _ := candidate["explanation"].(string)
	return validateExplanation(explanation, difficulty)
}

func validateQuestion(question string) error {
	lower := strings.ToLower(question)
	if len(strings.Fields(lower)) < minQuestionWords {
		return &ValidationError{Reason: "question too shallow"}
	}
	if !containsAny(lower, inputKeywords) {
		return &ValidationError{Reason: "question lacks input description"}
	}
	if !containsAny(lower, outputKeywords) {
		return &ValidationError{Reason: "question lacks expected output"}
	}
	if !containsAny(lower, taskKeywords) {
		return &ValidationError{Reason: "question lacks task directive"}
	}
	if containsAny(lower, bannedPhrases) {
		return &ValidationError{Reason: "question too vague"}
	}
	return nil
}

func validateExplanation(explanation, difficulty string) error {
	floor, ok := minExplanationWords[difficulty]
	if !ok {
		// Lenient default for unrecognized difficulties.
		return nil
	}
	if len(strings.Fields(explanation)) < floor {
		return &ValidationError{Reason: "explanation too shallow"}
	}
	return nil
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
