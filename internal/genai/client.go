package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/codequest/codequest-backend/internal/logger"
	"github.com/codequest/codequest-backend/internal/utils"
)

// TextGenerator is the pipeline's I/O boundary to a text-generation
// backend. Implementations make exactly one outbound call per invocation;
// retries belong to the Generator.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt, system string) (string, error)
}

// SamplingConfig carries the backend generation knobs. Stream is fixed
// false by the client: the pipeline needs a complete response.
type SamplingConfig struct {
	Temperature float64
	MaxTokens   int
	TopP        float64
	TopK        int
}

// ClientConfig configures the Ollama client. ConnectTimeout and
// ReadTimeout are deliberately distinct: connection failure should be
// detected quickly while generation latency is large and variable.
type ClientConfig struct {
	BaseURL        string
	Model          string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	Sampling       SamplingConfig
}

func ClientConfigFromEnv(log *logger.Logger) ClientConfig {
	return ClientConfig{
		BaseURL:        utils.GetEnv("OLLAMA_BASE_URL", "http://localhost:11434", log),
		Model:          utils.GetEnv("OLLAMA_MODEL", "llama3", log),
		ConnectTimeout: time.Duration(utils.GetEnvAsInt("OLLAMA_CONNECT_TIMEOUT_SECONDS", 10, log)) * time.Second,
		ReadTimeout:    time.Duration(utils.GetEnvAsInt("OLLAMA_READ_TIMEOUT_SECONDS", 180, log)) * time.Second,
		Sampling: SamplingConfig{
			Temperature: utils.GetEnvAsFloat("GENERATION_TEMPERATURE", 0.3, log),
			MaxTokens:   utils.GetEnvAsInt("GENERATION_MAX_TOKENS", 800, log),
			TopP:        utils.GetEnvAsFloat("GENERATION_TOP_P", 0.95, log),
			TopK:        utils.GetEnvAsInt("GENERATION_TOP_K", 40, log),
		},
	}
}

type OllamaClient struct {
	log        *logger.Logger
	cfg        ClientConfig
	httpClient *http.Client
}

func NewOllamaClient(log *logger.Logger, cfg ClientConfig) *OllamaClient {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
	}
	return &OllamaClient{
		log: log.With("service", "OllamaClient"),
		cfg: cfg,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.ReadTimeout,
		},
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	System  string          `json:"system,omitempty"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
	TopP        float64 `json:"top_p"`
	TopK        int     `json:"top_k"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// GenerateText posts one completion request to /api/generate and returns
// the raw generated text. Transport failures surface as
// ErrModelUnavailable, non-2xx statuses as *ModelError.
func (c *OllamaClient) GenerateText(ctx context.Context, prompt, system string) (string, error) {
	body := generateRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		System: system,
		Stream: false,
		Options: generateOptions{
			Temperature: c.cfg.Sampling.Temperature,
			NumPredict:  c.cfg.Sampling.MaxTokens,
			TopP:        c.cfg.Sampling.TopP,
			TopK:        c.cfg.Sampling.TopK,
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/generate", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ModelError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("model response decode: %w", err)
	}
	return out.Response, nil
}
