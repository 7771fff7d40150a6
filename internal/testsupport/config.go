package testsupport

import (
	"path/filepath"
	"testing"

	"salita/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Quests.Timezone = "UTC"
	cfgVal.NLP.Enabled = false
	cfgVal.NLP.TimeoutSeconds = 2
	cfgVal.NLP.RetryAttempts = 1
	cfgVal.LLM.APIKey = ""
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithNLPService points the config at a test NLP endpoint and enables it.
func WithNLPService(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.NLP.Enabled = true
		b.cfg.NLP.BaseURL = baseURL
	}
}

// WithLLM configures the conversation tutor against a test endpoint.
func WithLLM(baseURL, apiKey string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.BaseURL = baseURL
		b.cfg.LLM.APIKey = apiKey
		b.cfg.LLM.TimeoutSeconds = 2
	}
}

// WithAPIToken requires bearer authentication on the test server.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.APIToken = token
	}
}

// WithTimezone overrides the default quest timezone.
func WithTimezone(tz string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Quests.Timezone = tz
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
