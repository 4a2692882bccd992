package genai

import (
	"context"
	"time"

	"github.com/codequest/codequest-backend/internal/logger"
	"github.com/codequest/codequest-backend/internal/utils"
)

// ChallengeGenerator is the pipeline entry point consumed by services and
// by the cache decorator. Generate never fails: exhausted attempts
// degrade to the fallback challenge.
type ChallengeGenerator interface {
	Generate(ctx context.Context, topic, difficulty, subTopic string) ChallengeRecord
}

// Config holds the two knobs that trade model-call cost against
// reliability. RetryBackoff is flat, not exponential: the loop also
// retries semantic rejections, where growing the delay buys nothing.
type Config struct {
	MaxAttempts  int
	RetryBackoff time.Duration
}

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		MaxAttempts:  utils.GetEnvAsInt("GENERATION_MAX_ATTEMPTS", 4, log),
		RetryBackoff: time.Duration(utils.GetEnvAsInt("GENERATION_RETRY_BACKOFF_MS", 1000, log)) * time.Millisecond,
	}
}

type Generator struct {
	log    *logger.Logger
	client TextGenerator
	cfg    Config
}

func NewGenerator(log *logger.Logger, client TextGenerator, cfg Config) *Generator {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Generator{
		log:    log.With("service", "ChallengeGenerator"),
		client: client,
		cfg:    cfg,
	}
}

// Generate drives prompt -> model -> parse -> validate for up to
// MaxAttempts, short-circuiting on the first accepted candidate. Every
// stage failure is logged with the attempt number and retried after the
// flat backoff; exhaustion delegates to Fallback.
func (g *Generator) Generate(ctx context.Context, topic, difficulty, subTopic string) ChallengeRecord {
	system, prompt := BuildPrompt(topic, difficulty, subTopic)

	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		record, err := g.attempt(ctx, prompt, system, difficulty)
		if err == nil {
			g.log.Info("Challenge generated",
				"topic", topic,
				"difficulty", difficulty,
				"attempt", attempt,
				"title", record.Title,
			)
			return record
		}
		g.log.Warn("Generation attempt failed",
			"topic", topic,
			"difficulty", difficulty,
			"attempt", attempt,
			"max_attempts", g.cfg.MaxAttempts,
			"reason", err.Error(),
		)
		time.Sleep(g.cfg.RetryBackoff)
	}

	g.log.Warn("Generation attempts exhausted, using fallback challenge",
		"topic", topic,
		"difficulty", difficulty,
	)
	return Fallback(topic, difficulty)
}

func (g *Generator) attempt(ctx context.Context, prompt, system, difficulty string) (ChallengeRecord, error) {
	raw, err := g.client.GenerateText(ctx, prompt, system)
	if err != nil {
		return ChallengeRecord{}, err
	}
	candidate, err := ExtractJSON(raw)
	if err != nil {
		return ChallengeRecord{}, err
	}
	if err := Validate(candidate, difficulty); err != nil {
		return ChallengeRecord{}, err
	}
	return decodeRecord(candidate)
}

// GenerateAsync offloads the blocking pipeline to its own goroutine so a
// non-blocking caller is not stalled. It adds no coordination beyond the
// offload; the buffered channel receives exactly one record.
func (g *Generator) GenerateAsync(ctx context.Context, topic, difficulty, subTopic string) <-chan ChallengeRecord {
	out := make(chan ChallengeRecord, 1)
	go func() {
		defer close(out)
		out <- g.Generate(ctx, topic, difficulty, subTopic)
	}()
	return out
}
