package services

import (
	"context"
	"errors"
	"testing"

	"github.com/codequest/codequest-backend/internal/genai"
)

type stubExplainer struct {
	record   genai.ExplanationRecord
	err      error
	language string
}

func (s *stubExplainer) Explain(ctx context.Context, code, problem, language string) (genai.ExplanationRecord, error) {
	s.language = language
	return s.record, s.err
}

func TestExplainCode_DefaultsLanguageAndBuildsComplexity(t *testing.T) {
	stub := &stubExplainer{record: genai.ExplanationRecord{
		Explanation:     "Adds the numbers.",
		TimeComplexity:  "O(n)",
		SpaceComplexity: "O(1)",
	}}
	svc := NewExplainService(newTestLogger(t), stub)

	result, err := svc.ExplainCode(context.Background(), "print(sum(xs))", "", "")
	if err != nil {
		t.Fatalf("explain failed: %v", err)
	}
	if stub.language != "Python" || result.Language != "Python" {
		t.Fatalf("expected Python default, got %q / %q", stub.language, result.Language)
	}
	if result.Explanation != "Adds the numbers." {
		t.Fatalf("unexpected explanation: %q", result.Explanation)
	}
	if result.Complexity["time"] != "O(n)" || result.Complexity["space"] != "O(1)" {
		t.Fatalf("unexpected complexity: %+v", result.Complexity)
	}
	if result.GeneratedAt.IsZero() {
		t.Fatalf("expected generation timestamp")
	}
}

func TestExplainCode_OmitsUnknownComplexity(t *testing.T) {
	stub := &stubExplainer{record: genai.ExplanationRecord{Explanation: "Prose only."}}
	svc := NewExplainService(newTestLogger(t), stub)

	result, err := svc.ExplainCode(context.Background(), "x = 1", "", "Python")
	if err != nil {
		t.Fatalf("explain failed: %v", err)
	}
	if len(result.Complexity) != 0 {
		t.Fatalf("expected empty complexity map, got %+v", result.Complexity)
	}
}

func TestExplainCode_PropagatesBackendErrors(t *testing.T) {
	stub := &stubExplainer{err: genai.ErrModelUnavailable}
	svc := NewExplainService(newTestLogger(t), stub)

	_, err := svc.ExplainCode(context.Background(), "x = 1", "", "Python")
	if !errors.Is(err, genai.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}
