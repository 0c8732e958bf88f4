package narrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Durga-Talluri/cloudops-pro/pkg/tokenizer"
)

// DefaultBaseURL is the public OpenAI API root.
const DefaultBaseURL = "https://api.openai.com/v1"

// Call outcomes reported to the Recorder.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Config controls the chat completion call.
type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	MaxTokens       int
	Temperature     float64
	Timeout         time.Duration
	MaxPromptTokens int
}

// Recorder receives one event per model call.
type Recorder interface {
	NarratorCall(outcome string, promptTokens, completionTokens int, costUSD float64)
}

type noopRecorder struct{}

func (noopRecorder) NarratorCall(string, int, int, float64) {}

// OpenAI narrates through the chat completions API.
type OpenAI struct {
	cfg      Config
	client   *http.Client
	counter  *tokenizer.Counter
	pricing  *PriceTable
	recorder Recorder
	logger   *slog.Logger
}

// Option configures an OpenAI narrator.
type Option func(*OpenAI)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *OpenAI) { o.client = c }
}

// WithPricing enables per-call cost accounting.
func WithPricing(p *PriceTable) Option {
	return func(o *OpenAI) { o.pricing = p }
}

// WithRecorder reports each call, typically to metrics.
func WithRecorder(r Recorder) Option {
	return func(o *OpenAI) { o.recorder = r }
}

// New returns an OpenAI narrator, or Unavailable when no API key is set.
func New(cfg Config, logger *slog.Logger, opts ...Option) Narrator {
	if cfg.APIKey == "" {
		return Unavailable{}
	}
	return NewOpenAI(cfg, logger, opts...)
}

// NewOpenAI creates an OpenAI narrator.
func NewOpenAI(cfg Config, logger *slog.Logger, opts ...Option) *OpenAI {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 200
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}

	counter, err := tokenizer.NewCounter(cfg.Model)
	if err != nil {
		logger.Warn("token counter unavailable, estimating prompt size", "model", cfg.Model, "error", err)
	}

	o := &OpenAI{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.Timeout},
		counter:  counter,
		recorder: noopRecorder{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *OpenAI) Narrate(ctx context.Context, in Input) (string, error) {
	prompt, promptTokens := fitPrompt(in, o.counter, o.cfg.MaxPromptTokens)

	body, err := json.Marshal(chatRequest{
		Model:       o.cfg.Model,
		Messages:    chatMessages(prompt),
		MaxTokens:   o.cfg.MaxTokens,
		Temperature: o.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimSuffix(o.cfg.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)

	text, usage, err := o.do(req)
	if err != nil {
		o.recorder.NarratorCall(OutcomeError, promptTokens, 0, 0)
		return "", err
	}

	if usage.PromptTokens > 0 {
		promptTokens = usage.PromptTokens
	}
	cost, _ := o.pricing.Cost(o.cfg.Model, promptTokens, usage.CompletionTokens)
	o.recorder.NarratorCall(OutcomeOK, promptTokens, usage.CompletionTokens, cost)
	o.logger.Debug("insight generated",
		"model", o.cfg.Model,
		"prompt_tokens", promptTokens,
		"completion_tokens", usage.CompletionTokens,
		"cost_usd", cost,
	)
	return text, nil
}

func (o *OpenAI) do(req *http.Request) (string, chatUsage, error) {
	resp, err := o.client.Do(req)
	if err != nil {
		return "", chatUsage{}, fmt.Errorf("call chat completions: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", chatUsage{}, fmt.Errorf("read chat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr chatErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", chatUsage{}, fmt.Errorf("openai returned status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", chatUsage{}, fmt.Errorf("openai returned status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", chatUsage{}, fmt.Errorf("decode chat response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", out.Usage, errors.New("openai returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), out.Usage, nil
}

type chatRequest struct {
	Model       string              `json:"model"`
	Messages    []tokenizer.Message `json:"messages"`
	MaxTokens   int                 `json:"max_tokens"`
	Temperature float64             `json:"temperature"`
}

type chatResponse struct {
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Message tokenizer.Message `json:"message"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
