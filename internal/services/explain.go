package services

import (
	"context"
	"fmt"
	"time"

	"github.com/codequest/codequest-backend/internal/genai"
	"github.com/codequest/codequest-backend/internal/logger"
)

type CodeExplanation struct {
	Explanation string            `json:"explanation"`
	Complexity  map[string]string `json:"complexity"`
	Language    string            `json:"language"`
	GeneratedAt time.Time         `json:"generated_at"`
}

type ExplainService interface {
	ExplainCode(ctx context.Context, code, problem, language string) (*CodeExplanation, error)
}

type explainService struct {
	log       *logger.Logger
	explainer genai.CodeExplainer
}

func NewExplainService(log *logger.Logger, explainer genai.CodeExplainer) ExplainService {
	serviceLog := log.With("service", "ExplainService")
	return &explainService{log: serviceLog, explainer: explainer}
}

func (es *explainService) ExplainCode(ctx context.Context, code, problem, language string) (*CodeExplanation, error) {
	if language == "" {
		language = "Python"
	}

	record, err := es.explainer.Explain(ctx, code, problem, language)
	if err != nil {
		return nil, fmt.Errorf("failed to generate explanation: %w", err)
	}

	complexity := map[string]string{}
	if record.TimeComplexity != "" {
		complexity["time"] = record.TimeComplexity
	}
	if record.SpaceComplexity != "" {
		complexity["space"] = record.SpaceComplexity
	}

	return &CodeExplanation{
		Explanation: record.Explanation,
		Complexity:  complexity,
		Language:    language,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
