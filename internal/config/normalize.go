package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeContent(); err != nil {
		return err
	}
	c.normalizeQuests()
	c.normalizeNLP()
	c.normalizeLLM()
	c.normalizeLogging()
	c.normalizeAPI()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	if c.Paths.APIToken == "" {
		if value, ok := os.LookupEnv("SALITA_API_TOKEN"); ok {
			c.Paths.APIToken = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeContent() error {
	c.Content.CatalogPath = strings.TrimSpace(c.Content.CatalogPath)
	if c.Content.CatalogPath == "" {
		return nil
	}
	var err error
	if c.Content.CatalogPath, err = expandPath(c.Content.CatalogPath); err != nil {
		return fmt.Errorf("content.catalog_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeQuests() {
	if c.Quests.DailyCount == 0 {
		c.Quests.DailyCount = defaultQuestDailyCount
	}
	c.Quests.Timezone = strings.TrimSpace(c.Quests.Timezone)
	if c.Quests.Timezone == "" {
		c.Quests.Timezone = defaultQuestTimezone
	}
}

func (c *Config) normalizeNLP() {
	if value, ok := os.LookupEnv("SALITA_NLP_URL"); ok && strings.TrimSpace(value) != "" {
		c.NLP.BaseURL = value
	}
	c.NLP.BaseURL = strings.TrimRight(strings.TrimSpace(c.NLP.BaseURL), "/")
	if c.NLP.BaseURL == "" {
		c.NLP.BaseURL = defaultNLPBaseURL
	}
	if c.NLP.TimeoutSeconds <= 0 {
		c.NLP.TimeoutSeconds = defaultNLPTimeoutSeconds
	}
	if c.NLP.RetryAttempts <= 0 {
		c.NLP.RetryAttempts = defaultNLPRetryAttempts
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("SALITA_LLM_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeAPI() {
	if c.API.LeaderboardLimit <= 0 {
		c.API.LeaderboardLimit = defaultLeaderboardLimit
	}
	if c.API.HistoryLimit <= 0 {
		c.API.HistoryLimit = defaultHistoryLimit
	}
}
