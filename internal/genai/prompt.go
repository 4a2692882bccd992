package genai

import "fmt"

const systemInstruction = "You are an expert coding challenge generator. " +
	"Return ONLY valid JSON. No explanations outside JSON."

const fewShotExamples = `
Example:
{
    "title": "Binary Search Requirement",
    "question": "What condition must be satisfied before applying binary search?",
    "options": [
        "The array must be sorted",
        "The array must be unsorted",
        "The array must contain duplicates",
        "The array must be reversed"
    ],
    "correct_answer_index": 0,
    "explanation": "Binary search requires sorted data.",
    "time_complexity": "O(log n)",
    "space_complexity": "O(1)"
}
`

const outputFormat = `{
"title": "",
"question": "",
"options": ["", "", "", ""],
"correct_answer_index": 0,
"explanation": "",
"time_complexity": "",
"space_complexity": ""
}`

// BuildPrompt assembles the system instruction and user prompt for one
// generation request. Pure: output differs only in the interpolated
// topic/difficulty/subTopic text.
func BuildPrompt(topic, difficulty, subTopic string) (system string, prompt string) {
	focus := ""
	if subTopic != "" {
		focus = fmt.Sprintf("Focus on the sub-topic: %s.\n", subTopic)
	}
	prompt = fmt.Sprintf(`%s
Create a %s difficulty multiple-choice coding challenge about %s.
%s
Return ONLY valid JSON in this format:
%s
`, fewShotExamples, difficulty, topic, focus, outputFormat)
	return systemInstruction, prompt
}
