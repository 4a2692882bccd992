package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codequest/codequest-backend/internal/genai"
	"github.com/codequest/codequest-backend/internal/logger"
)

type memStore struct {
	values map[string]string
	gets   int
	sets   int
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (m *memStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.gets++
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.sets++
	m.values[key] = value
	return nil
}

type failStore struct{}

func (failStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("store down")
}

func (failStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return errors.New("store down")
}

type stubGenerator struct {
	calls int
}

func (s *stubGenerator) Generate(ctx context.Context, topic, difficulty, subTopic string) genai.ChallengeRecord {
	s.calls++
	return genai.ChallengeRecord{
		Title:              "Stub " + topic,
		Question:           "q",
		Options:            []string{"a", "b", "c", "d"},
		CorrectAnswerIndex: 2,
		Explanation:        "e",
	}
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return log
}

func TestCachedGenerator_ServesHitWithoutRegenerating(t *testing.T) {
	store := newMemStore()
	gen := &stubGenerator{}
	cached := NewCachedGenerator(newTestLogger(t), store, time.Minute, gen)

	first := cached.Generate(context.Background(), "arrays", "easy", "")
	second := cached.Generate(context.Background(), "arrays", "easy", "")

	if gen.calls != 1 {
		t.Fatalf("expected 1 pipeline call, got %d", gen.calls)
	}
	if first.Title != second.Title || first.CorrectAnswerIndex != second.CorrectAnswerIndex {
		t.Fatalf("expected identical records, got %+v vs %+v", first, second)
	}
	if store.sets != 1 {
		t.Fatalf("expected 1 cache write, got %d", store.sets)
	}
}

func TestCachedGenerator_DistinctArgumentsMiss(t *testing.T) {
	store := newMemStore()
	gen := &stubGenerator{}
	cached := NewCachedGenerator(newTestLogger(t), store, time.Minute, gen)

	cached.Generate(context.Background(), "arrays", "easy", "")
	cached.Generate(context.Background(), "arrays", "hard", "")

	if gen.calls != 2 {
		t.Fatalf("expected 2 pipeline calls for distinct keys, got %d", gen.calls)
	}
}

func TestCachedGenerator_DegradesOnStoreFailure(t *testing.T) {
	gen := &stubGenerator{}
	cached := NewCachedGenerator(newTestLogger(t), failStore{}, time.Minute, gen)

	first := cached.Generate(context.Background(), "arrays", "easy", "")
	second := cached.Generate(context.Background(), "arrays", "easy", "")

	if first.Title == "" || second.Title == "" {
		t.Fatalf("expected records despite store failure")
	}
	if gen.calls != 2 {
		t.Fatalf("expected pipeline call per request when store fails, got %d", gen.calls)
	}
}

func TestCachedGenerator_NilStorePassesThrough(t *testing.T) {
	gen := &stubGenerator{}
	cached := NewCachedGenerator(newTestLogger(t), nil, time.Minute, gen)

	record := cached.Generate(context.Background(), "arrays", "easy", "")
	if record.Title != "Stub arrays" {
		t.Fatalf("unexpected record: %q", record.Title)
	}
	if gen.calls != 1 {
		t.Fatalf("expected 1 pipeline call, got %d", gen.calls)
	}
}

func TestCachedGenerator_RegeneratesOnUndecodableEntry(t *testing.T) {
	store := newMemStore()
	gen := &stubGenerator{}
	cached := NewCachedGenerator(newTestLogger(t), store, time.Minute, gen)

	store.values[Key("generate_challenge", "arrays", "easy", "")] = "not json"
	record := cached.Generate(context.Background(), "arrays", "easy", "")
	if record.Title != "Stub arrays" {
		t.Fatalf("expected regeneration, got %q", record.Title)
	}
	if gen.calls != 1 {
		t.Fatalf("expected 1 pipeline call, got %d", gen.calls)
	}
}

func TestKey_SeparatesArgumentBoundaries(t *testing.T) {
	if Key("op", "ab", "c") == Key("op", "a", "bc") {
		t.Fatalf("expected distinct keys for shifted argument boundaries")
	}
	if Key("op", "a") != Key("op", "a") {
		t.Fatalf("expected identical keys for identical input")
	}
}
