package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"salita/internal/config"
	"salita/internal/logging"
	"salita/internal/nlp"
	"salita/internal/services"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"

	defaultHTTPTimeout = 30 * time.Second
	defaultBaseURL     = "https://openrouter.ai/api/v1/chat/completions"
	defaultTemperature = 0.7
	maxHistory         = 20
	maxMessageRunes    = 2000
)

// Message is one turn of the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response is the tutor's reply.
type Response struct {
	Text   string     `json:"text"`
	Source nlp.Source `json:"source"`
	Model  string     `json:"model,omitempty"`
}

// Config captures the runtime settings required to talk to the provider.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// Client wraps an OpenAI-compatible chat completion API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	retry      nlp.RetryPolicy
	logger     *slog.Logger
	recorder   nlp.Recorder
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryPolicy overrides the retry behaviour.
func WithRetryPolicy(policy nlp.RetryPolicy) Option {
	return func(c *Client) {
		c.retry = policy
	}
}

// WithLogger sets the logger used for provider failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "chat")
	}
}

// WithRecorder reports answer sources to r.
func WithRecorder(r nlp.Recorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// NewClient constructs a chat client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Model:          strings.TrimSpace(cfg.Model),
			Referer:        strings.TrimSpace(cfg.Referer),
			Title:          strings.TrimSpace(cfg.Title),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
		retry:      nlp.DefaultRetryPolicy(3),
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	return client
}

// NewFromConfig builds a client from the [llm] configuration section.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, opts ...Option) *Client {
	llm := cfg.GetLLM()
	base := []Option{WithLogger(logger)}
	return NewClient(Config{
		APIKey:         llm.APIKey,
		BaseURL:        llm.BaseURL,
		Model:          llm.Model,
		Referer:        llm.Referer,
		Title:          llm.Title,
		TimeoutSeconds: llm.TimeoutSeconds,
	}, append(base, opts...)...)
}

// Configured reports whether an API key is available.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Reply continues the conversation. Provider failures degrade to a canned
// reply; only invalid input and cancellation are returned as errors.
func (c *Client) Reply(ctx context.Context, messages []Message) (Response, error) {
	history, err := sanitizeHistory(messages)
	if err != nil {
		return Response{}, err
	}

	if c.Configured() {
		text, err := c.complete(ctx, history)
		if err == nil {
			c.observe(nlp.SourceService)
			return Response{Text: text, Source: nlp.SourceService, Model: c.cfg.Model}, nil
		}
		if ctx.Err() != nil {
			return Response{}, ctx.Err()
		}
		logging.WithContext(ctx, c.logger).Warn("chat provider failed; using canned reply",
			logging.String("model", c.cfg.Model),
			logging.Error(err),
		)
	}

	c.observe(nlp.SourceFallback)
	return Response{Text: FallbackReply(history), Source: nlp.SourceFallback}, nil
}

func (c *Client) observe(source nlp.Source) {
	if c.recorder != nil {
		c.recorder.ObserveNLP("chat", source)
	}
}

// sanitizeHistory drops caller-supplied system turns, trims whitespace, and
// keeps the most recent turns.
func sanitizeHistory(messages []Message) ([]Message, error) {
	history := make([]Message, 0, len(messages))
	hasUser := false
	for i, msg := range messages {
		role := strings.ToLower(strings.TrimSpace(msg.Role))
		content := nlp.Normalize(msg.Content)
		switch role {
		case RoleSystem:
			continue
		case RoleUser, RoleAssistant:
		default:
			return nil, services.Wrap(services.ErrValidation, "chat", "reply", fmt.Sprintf("message %d has unknown role %q", i, msg.Role), nil)
		}
		if content == "" {
			return nil, services.Wrap(services.ErrValidation, "chat", "reply", fmt.Sprintf("message %d is empty", i), nil)
		}
		if utf8.RuneCountInString(content) > maxMessageRunes {
			return nil, services.Wrap(services.ErrValidation, "chat", "reply",
				fmt.Sprintf("message %d longer than %d characters", i, maxMessageRunes), nil)
		}
		if role == RoleUser {
			hasUser = true
		}
		history = append(history, Message{Role: role, Content: content})
	}
	if !hasUser {
		return nil, services.Wrap(services.ErrValidation, "chat", "reply", "at least one user message required", nil)
	}
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	return history, nil
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
		// Some providers return the streaming schema even when stream=false.
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		Text         string `json:"text"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) complete(ctx context.Context, history []Message) (string, error) {
	payload := chatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    append([]Message{{Role: RoleSystem, Content: TutorPrompt}}, history...),
		Temperature: defaultTemperature,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("chat request: encode body: %w", err)
	}

	var content string
	err = c.retry.Do(ctx, "chat complete", func(ctx context.Context) error {
		completion, err := c.sendOnce(ctx, encoded)
		if err != nil {
			return err
		}
		content = extractContent(completion)
		if content == "" {
			// Empty completions are usually transient provider hiccups.
			return &nlp.StatusError{StatusCode: http.StatusBadGateway, Body: "empty completion"}
		}
		return nil
	})
	return content, err
}

func (c *Client) sendOnce(ctx context.Context, encoded []byte) (chatCompletionResponse, error) {
	var completion chatCompletionResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(encoded))
	if err != nil {
		return completion, fmt.Errorf("chat request: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Referer != "" {
		req.Header.Set("HTTP-Referer", c.cfg.Referer)
	}
	if c.cfg.Title != "" {
		req.Header.Set("X-Title", c.cfg.Title)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return completion, fmt.Errorf("chat request: http error (timeout=%s): %w", c.httpClient.Timeout, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return completion, fmt.Errorf("chat request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return completion, nlp.NewStatusError(resp, body)
	}
	if err := json.Unmarshal(body, &completion); err != nil {
		return completion, fmt.Errorf("chat request: decode response: %w", err)
	}
	if completion.Error != nil {
		return completion, fmt.Errorf("chat request: api error: %s", strings.TrimSpace(completion.Error.Message))
	}
	return completion, nil
}

func extractContent(completion chatCompletionResponse) string {
	for _, choice := range completion.Choices {
		for _, candidate := range []string{choice.Message.Content, choice.Delta.Content, choice.Text} {
			if trimmed := strings.TrimSpace(candidate); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
