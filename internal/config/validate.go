package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateQuests(); err != nil {
		return err
	}
	if err := c.validateNLP(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.APIBind) == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func (c *Config) validateQuests() error {
	if c.Quests.DailyCount < 1 || c.Quests.DailyCount > defaultMaxQuestDailyCount {
		return fmt.Errorf("quests.daily_count must be between 1 and %d", defaultMaxQuestDailyCount)
	}
	if _, err := time.LoadLocation(c.Quests.Timezone); err != nil {
		return fmt.Errorf("quests.timezone %q: %w", c.Quests.Timezone, err)
	}
	return nil
}

func (c *Config) validateNLP() error {
	if !c.NLP.Enabled {
		return nil
	}
	parsed, err := url.Parse(c.NLP.BaseURL)
	if err != nil {
		return fmt.Errorf("nlp.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("nlp.base_url must use http or https, got %q", c.NLP.BaseURL)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
