package nlp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"salita/internal/config"
	"salita/internal/logging"
	"salita/internal/services"
)

// Recorder counts which backend answered each request.
type Recorder interface {
	ObserveNLP(operation string, source Source)
}

// Proxy answers tagging and verification requests, preferring the external
// service and falling back to the local tagger when it is disabled or failing.
type Proxy struct {
	client   *Client
	tagger   *Tagger
	logger   *slog.Logger
	recorder Recorder
}

// ProxyOption customizes the proxy.
type ProxyOption func(*Proxy)

// WithClient replaces the service client. A nil client disables the service.
func WithClient(client *Client) ProxyOption {
	return func(p *Proxy) {
		p.client = client
	}
}

// WithRecorder reports answer sources to r.
func WithRecorder(r Recorder) ProxyOption {
	return func(p *Proxy) {
		p.recorder = r
	}
}

// NewProxy builds a proxy from configuration. The service client is only
// created when nlp.enabled is set.
func NewProxy(cfg *config.Config, logger *slog.Logger, opts ...ProxyOption) *Proxy {
	p := &Proxy{
		tagger: NewTagger(),
		logger: logging.NewComponentLogger(logger, "nlp"),
	}
	if cfg != nil && cfg.NLP.Enabled {
		p.client = NewClient(ClientConfig{
			BaseURL:        cfg.NLP.BaseURL,
			TimeoutSeconds: cfg.NLP.TimeoutSeconds,
			RetryAttempts:  cfg.NLP.RetryAttempts,
		})
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ServiceEnabled reports whether requests are forwarded to the external service.
func (p *Proxy) ServiceEnabled() bool {
	return p.client != nil
}

// Tag returns part-of-speech tags for text.
func (p *Proxy) Tag(ctx context.Context, text string) (TagResult, error) {
	text, err := validateInput("tag", "text", text)
	if err != nil {
		return TagResult{}, err
	}
	if p.client != nil {
		result, err := p.client.Tag(ctx, text)
		if err == nil {
			p.observe(ctx, "pos", SourceService)
			return result, nil
		}
		if ctx.Err() != nil {
			return TagResult{}, ctx.Err()
		}
		p.warnFallback(ctx, "pos", err)
	}
	p.observe(ctx, "pos", SourceFallback)
	return TagResult{Tokens: p.tagger.Tag(text), Source: SourceFallback}, nil
}

// Verify checks sentence, optionally against an expected answer.
func (p *Proxy) Verify(ctx context.Context, sentence, expected string) (Verification, error) {
	sentence, err := validateInput("verify", "sentence", sentence)
	if err != nil {
		return Verification{}, err
	}
	expected = Normalize(expected)
	if p.client != nil {
		result, err := p.client.Verify(ctx, sentence, expected)
		if err == nil {
			p.observe(ctx, "verify", SourceService)
			return result, nil
		}
		if ctx.Err() != nil {
			return Verification{}, ctx.Err()
		}
		p.warnFallback(ctx, "verify", err)
	}
	p.observe(ctx, "verify", SourceFallback)
	result := p.tagger.Verify(sentence, expected)
	result.Source = SourceFallback
	return result, nil
}

// HealthCheck probes the external service. It reports ErrUnavailable when the
// service is disabled.
func (p *Proxy) HealthCheck(ctx context.Context) error {
	if p.client == nil {
		return services.Wrap(services.ErrUnavailable, "nlp", "health", "service disabled", nil)
	}
	if err := p.client.HealthCheck(ctx); err != nil {
		return services.Wrap(services.ErrUnavailable, "nlp", "health", p.client.BaseURL(), err)
	}
	return nil
}

func (p *Proxy) observe(ctx context.Context, operation string, source Source) {
	if p.recorder != nil {
		p.recorder.ObserveNLP(operation, source)
	}
	logging.WithContext(ctx, p.logger).Debug("nlp answered",
		logging.String("operation", operation),
		logging.String(logging.FieldSource, string(source)),
	)
}

func (p *Proxy) warnFallback(ctx context.Context, operation string, err error) {
	logging.WithContext(ctx, p.logger).Warn("nlp service failed; using local tagger",
		logging.String("operation", operation),
		logging.Error(err),
	)
}

func validateInput(operation, field, value string) (string, error) {
	value = Normalize(value)
	if value == "" {
		return "", services.Wrap(services.ErrValidation, "nlp", operation, fmt.Sprintf("%s required", field), nil)
	}
	if utf8.RuneCountInString(value) > maxInputRunes {
		return "", services.Wrap(services.ErrValidation, "nlp", operation,
			fmt.Sprintf("%s longer than %d characters", field, maxInputRunes), nil)
	}
	if strings.ContainsRune(value, utf8.RuneError) {
		return "", services.Wrap(services.ErrValidation, "nlp", operation, fmt.Sprintf("%s is not valid UTF-8", field), nil)
	}
	return value, nil
}
