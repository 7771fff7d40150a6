package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultHTTPTimeout = 8 * time.Second

// ErrEmptyResponse is returned when the service answers without tokens.
var ErrEmptyResponse = errors.New("nlp service returned no tokens")

// ClientConfig captures the settings needed to reach the NLP service.
type ClientConfig struct {
	BaseURL        string
	TimeoutSeconds int
	RetryAttempts  int
}

// Client talks to the external Tagalog NLP service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      RetryPolicy
}

// ClientOption customizes the client.
type ClientOption func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryPolicy overrides the retry behaviour.
func WithRetryPolicy(policy RetryPolicy) ClientOption {
	return func(c *Client) {
		c.retry = policy
	}
}

// NewClient constructs a client for the service at cfg.BaseURL.
func NewClient(cfg ClientConfig, opts ...ClientOption) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
		retry:      DefaultRetryPolicy(cfg.RetryAttempts),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type posRequest struct {
	Text string `json:"text"`
}

type posResponse struct {
	Tokens []serviceToken `json:"tokens"`
}

// serviceToken tolerates both the short and the spaCy-style field names.
type serviceToken struct {
	Text  string `json:"text"`
	POS   string `json:"pos"`
	Tag   string `json:"tag"`
	Lemma string `json:"lemma"`
}

func (t serviceToken) token() Token {
	pos := strings.ToUpper(strings.TrimSpace(t.POS))
	if pos == "" {
		pos = strings.ToUpper(strings.TrimSpace(t.Tag))
	}
	if pos == "" {
		pos = TagX
	}
	return Token{Text: t.Text, POS: pos, Lemma: t.Lemma}
}

type verifyRequest struct {
	Sentence string `json:"sentence"`
	Expected string `json:"expected,omitempty"`
}

type verifyResponse struct {
	Valid    bool           `json:"valid"`
	Score    float64        `json:"score"`
	Feedback string         `json:"feedback"`
	Tokens   []serviceToken `json:"tokens"`
}

// Tag asks the service for part-of-speech tags.
func (c *Client) Tag(ctx context.Context, text string) (TagResult, error) {
	var resp posResponse
	if err := c.post(ctx, "nlp pos", "pos", posRequest{Text: text}, &resp); err != nil {
		return TagResult{}, err
	}
	if len(resp.Tokens) == 0 {
		return TagResult{}, ErrEmptyResponse
	}
	tokens := make([]Token, 0, len(resp.Tokens))
	for _, tok := range resp.Tokens {
		tokens = append(tokens, tok.token())
	}
	return TagResult{Tokens: tokens, Source: SourceService}, nil
}

// Verify asks the service to check a sentence.
func (c *Client) Verify(ctx context.Context, sentence, expected string) (Verification, error) {
	var resp verifyResponse
	if err := c.post(ctx, "nlp verify", "verify", verifyRequest{Sentence: sentence, Expected: expected}, &resp); err != nil {
		return Verification{}, err
	}
	tokens := make([]Token, 0, len(resp.Tokens))
	for _, tok := range resp.Tokens {
		tokens = append(tokens, tok.token())
	}
	score := resp.Score
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return Verification{
		Valid:    resp.Valid,
		Score:    score,
		Feedback: strings.TrimSpace(resp.Feedback),
		Tokens:   tokens,
		Source:   SourceService,
	}, nil
}

// HealthCheck verifies the service answers its health endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	endpoint, err := url.JoinPath(c.baseURL, "health")
	if err != nil {
		return fmt.Errorf("nlp health: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("nlp health: new request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("nlp health: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("nlp health: %w", NewStatusError(resp, body))
	}
	return nil
}

func (c *Client) post(ctx context.Context, op, path string, payload, target any) error {
	if c.baseURL == "" {
		return fmt.Errorf("%s: base url required", op)
	}
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("%s: build url: %w", op, err)
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: encode body: %w", op, err)
	}
	return c.retry.Do(ctx, op, func(ctx context.Context) error {
		return c.postOnce(ctx, endpoint, encoded, target)
	})
}

func (c *Client) postOnce(ctx context.Context, endpoint string, encoded []byte, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http error (timeout=%s): %w", c.httpClient.Timeout, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return NewStatusError(resp, body)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
