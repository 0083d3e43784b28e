package bootstrap

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/sanjitr11/semiotic-logo-generator/config"
	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/generation"
	"github.com/sanjitr11/semiotic-logo-generator/internal/llm"
)

// NewGenerator builds the model backend, client and orchestrator from cfg.
func NewGenerator(ctx context.Context, cfg config.LLMConfig, log logrus.FieldLogger) (*generation.Orchestrator, *generation.Metrics, error) {
	backend, err := llm.New(ctx, llm.Config{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey(),
		Model:    cfg.Model(),
		BaseURL:  cfg.OpenAIBaseURL,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}

	metrics := &generation.Metrics{}
	opts := []generation.Option{
		generation.WithRetryPolicy(cfg.MaxAttempts, cfg.RetryBaseDelay),
		generation.WithLogger(log),
		generation.WithMetrics(metrics),
	}
	if cfg.RequestsPerMinute > 0 {
		limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), cfg.RequestsPerMinute)
		opts = append(opts, generation.WithRateLimiter(limiter))
	}

	client := generation.NewClient(backend, opts...)
	return generation.NewOrchestrator(client, log), metrics, nil
}
