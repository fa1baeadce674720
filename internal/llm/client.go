// Package llm is the optional generative-text collaborator: an Ollama
// client used only to propose richer query descriptions. It is bounded
// by a fixed timeout, retried at most once, and everything it returns is
// validated by the synthesizer before use; the deterministic path never
// depends on it.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/plotlinedb/plotline/internal/model"
)

// ExternalServiceError reports a collaborator timeout or contract-invalid
// output. Callers recover from it by falling back; it only becomes
// user-visible if the fallback path itself fails.
type ExternalServiceError struct {
	Op  string
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("generative-text collaborator %s: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// Config controls the Ollama connection.
type Config struct {
	BaseURL string        // e.g. http://localhost:11434
	Model   string        // e.g. llama3
	Timeout time.Duration // per-attempt bound
}

// DefaultConfig matches a local Ollama install.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:11434",
		Model:   "llama3",
		Timeout: 10 * time.Second,
	}
}

// retryBackoff is the pause before the single retry attempt.
const retryBackoff = 500 * time.Millisecond

// Client talks to the Ollama generate API. It implements synth.Describer.
type Client struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// New creates a Client. Zero-valued config fields fall back to defaults.
func New(cfg Config, logger *slog.Logger) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type generateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	System      string  `json:"system,omitempty"`
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Describe asks the model for a one-sentence description of a
// synthesized query. Retried once with backoff; callers never block past
// two attempt timeouts plus the backoff.
func (c *Client) Describe(ctx context.Context, intent string, q *model.SuggestedQuery) (string, error) {
	prompt := fmt.Sprintf(
		"In one sentence, describe what this SQL query shows for the analytical question %q. "+
			"Mention only these tables: %s. Do not restate the SQL.\n\n%s",
		intent, strings.Join(q.Tables, ", "), q.SQL)

	text, err := c.generate(ctx, prompt)
	if err == nil {
		return strings.TrimSpace(text), nil
	}

	select {
	case <-ctx.Done():
		return "", &ExternalServiceError{Op: "describe", Err: ctx.Err()}
	case <-time.After(retryBackoff):
	}

	text, retryErr := c.generate(ctx, prompt)
	if retryErr != nil {
		return "", &ExternalServiceError{Op: "describe", Err: retryErr}
	}
	return strings.TrimSpace(text), nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:       c.cfg.Model,
		Prompt:      prompt,
		System:      "You are a concise data analyst. Answer with plain prose only.",
		Stream:      false,
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.cfg.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("model error: %s", out.Error)
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", fmt.Errorf("empty response")
	}
	return out.Response, nil
}
