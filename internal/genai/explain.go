package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codequest/codequest-backend/internal/logger"
)

const explainSystemInstruction = "You are an expert code reviewer who explains code to learners. " +
	"Return ONLY valid JSON. No explanations outside JSON."

const explainOutputFormat = `{
"explanation": "",
"time_complexity": "",
"space_complexity": ""
}`

// ExplanationRecord is the parsed output of one code-explanation request.
type ExplanationRecord struct {
	Explanation     string `json:"explanation"`
	TimeComplexity  string `json:"time_complexity"`
	SpaceComplexity string `json:"space_complexity"`
}

// CodeExplainer turns a snippet of user code into a natural-language
// explanation with complexity estimates.
type CodeExplainer interface {
	Explain(ctx context.Context, code, problem, language string) (ExplanationRecord, error)
}

// BuildExplainPrompt assembles the system instruction and user prompt for
// one explanation request. Pure, like BuildPrompt.
func BuildExplainPrompt(code, problem, language string) (system string, prompt string) {
	problemContext := ""
	if problem != "" {
		problemContext = fmt.Sprintf("The code solves this problem: %s\n", problem)
	}
	prompt = fmt.Sprintf(`Explain the following %s code for a learner.
%s
Describe what the code does, how it works, and estimate its time and space complexity.

Code:
%s

Return ONLY valid JSON in this format:
%s
`, language, problemContext, code, explainOutputFormat)
	return explainSystemInstruction, prompt
}

type Explainer struct {
	log    *logger.Logger
	client TextGenerator
}

func NewExplainer(log *logger.Logger, client TextGenerator) *Explainer {
	return &Explainer{
		log:    log.With("service", "Explainer"),
		client: client,
	}
}

// Explain makes a single model call. Output that is not the expected
// JSON shape is still served with the raw text as the explanation;
// only backend failures and empty output surface as errors.
func (e *Explainer) Explain(ctx context.Context, code, problem, language string) (ExplanationRecord, error) {
	system, prompt := BuildExplainPrompt(code, problem, language)
	raw, err := e.client.GenerateText(ctx, prompt, system)
	if err != nil {
		return ExplanationRecord{}, err
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return ExplanationRecord{}, ErrUnparsableOutput
	}

	candidate, err := ExtractJSON(raw)
	if err != nil {
		e.log.Warn("Explanation output is not JSON, serving raw text", "error", err)
		return ExplanationRecord{Explanation: text}, nil
	}
	encoded, err := json.Marshal(candidate)
	if err != nil {
		return ExplanationRecord{Explanation: text}, nil
	}
	var record ExplanationRecord
	if err := json.Unmarshal(encoded, &record); err != nil || record.Explanation == "" {
		return ExplanationRecord{Explanation: text}, nil
	}
	return record, nil
}
