package genai

import (
	"fmt"
	"strings"
)

// Fallback returns the deterministic offline challenge for a topic and
// difficulty. Structurally valid by construction and exempt from the
// quality thresholds: it is a last resort, not model output.
func Fallback(topic, difficulty string) ChallengeRecord {
	return ChallengeRecord{
		Title:    fmt.Sprintf("%s %s Concept", topic, capitalize(difficulty)),
		Question: fmt.Sprintf("Which statement best describes %s?", topic),
		Options: []string{
			"Correct definition",
			"Common misconception",
			"Incorrect explanation",
			"Unrelated concept",
		},
		CorrectAnswerIndex: 0,
		Explanation:        "The first option correctly describes the concept.",
		TimeComplexity:     "Varies",
		SpaceComplexity:    "Varies",
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
