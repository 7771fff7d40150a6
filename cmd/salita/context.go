package main

import (
	"context"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"salita/internal/api"
	"salita/internal/config"
	"salita/internal/logging"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// withService opens the local database and runs fn against it.
func (c *commandContext) withService(cmd *cobra.Command, fn func(context.Context, *api.Service) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	// Commands log to salita.log only, keeping their output clean.
	logger, logFiles, err := logging.OpenFileFromConfig(cfg)
	if err != nil {
		return err
	}
	defer logFiles.Close()
	svc, err := api.NewFromConfig(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer svc.Close()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, svc)
}

// render prints v as JSON when --json is set, and calls human otherwise.
func (c *commandContext) render(cmd *cobra.Command, v any, human func() error) error {
	if c.jsonOutput() {
		return writeJSON(cmd, v)
	}
	return human()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
