package main

import (
	"context"
	"io"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/sanjitr11/semiotic-logo-generator/config"
	"github.com/sanjitr11/semiotic-logo-generator/internal/bootstrap"
	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/service"
	"github.com/sanjitr11/semiotic-logo-generator/internal/logging"
)

type commandContext struct {
	provider string
	verbose  bool

	cfg *config.Config

	// newGenerator is swapped in tests.
	newGenerator func(ctx context.Context, cfg config.LLMConfig, log logrus.FieldLogger) (service.Generator, error)
}

func newCommandContext() *commandContext {
	return &commandContext{
		newGenerator: func(ctx context.Context, cfg config.LLMConfig, log logrus.FieldLogger) (service.Generator, error) {
			gen, _, err := bootstrap.NewGenerator(ctx, cfg, log)
			if err != nil {
				return nil, err
			}
			return gen, nil
		},
	}
}

// loadConfig reads .env and the environment once. Validation is left to each command.
func (c *commandContext) loadConfig() *config.Config {
	if c.cfg != nil {
		return c.cfg
	}
	_ = godotenv.Load()
	c.cfg = config.FromEnv()
	if c.provider != "" {
		c.cfg.LLM.Provider = c.provider
	}
	return c.cfg
}

func (c *commandContext) logger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logging.Formatter{})
	l.SetLevel(logrus.WarnLevel)
	if c.verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}
