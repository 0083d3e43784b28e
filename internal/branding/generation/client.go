package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/domain"
	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/prompt"
	"github.com/sanjitr11/semiotic-logo-generator/internal/llm"
	"github.com/sanjitr11/semiotic-logo-generator/internal/logging"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second

	analysisMaxTokens = 2048
	logoMaxTokens     = 8192
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Client performs one logical model request with bounded retries and
// validates the structured result.
type Client struct {
	backend     llm.Backend
	maxAttempts int
	baseDelay   time.Duration
	limiter     *rate.Limiter
	sleep       Sleeper
	log         logrus.FieldLogger
	metrics     *Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithRetryPolicy sets the attempt limit and the base delay between attempts.
func WithRetryPolicy(maxAttempts int, baseDelay time.Duration) Option {
	return func(c *Client) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		if baseDelay >= 0 {
			c.baseDelay = baseDelay
		}
	}
}

// WithRateLimiter throttles attempts across all calls sharing the limiter.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithSleeper replaces the wait between attempts.
func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleep = s }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a Client over backend.
func NewClient(backend llm.Backend, opts ...Option) *Client {
	c := &Client{
		backend:     backend,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		sleep:       sleepContext,
		log:         logging.Discard(),
		metrics:     &Metrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Metrics returns the client's counters.
func (c *Client) Metrics() *Metrics {
	return c.metrics
}

// AnalyzeBrand sends the analysis prompt and returns the validated analysis.
func (c *Client) AnalyzeBrand(ctx context.Context, analysisPrompt string) (domain.BrandAnalysis, error) {
	var out domain.BrandAnalysis
	req := llm.Request{Prompt: analysisPrompt, MaxTokens: analysisMaxTokens}
	err := c.do(ctx, "brand analysis", logrus.Fields{}, req, func(text string) error {
		var a domain.BrandAnalysis
		if err := decodeJSON(text, &a); err != nil {
			return err
		}
		if err := validateAnalysis(&a); err != nil {
			return err
		}
		out = a
		return nil
	})
	return out, err
}

// GenerateLogo sends a logo prompt for t and returns the validated logo.
// The returned logo always carries type t.
func (c *Client) GenerateLogo(ctx context.Context, t domain.LogoType, logoPrompt string) (domain.GeneratedLogo, error) {
	var out domain.GeneratedLogo
	req := llm.Request{System: prompt.LogoSystemPrompt(), Prompt: logoPrompt, MaxTokens: logoMaxTokens}
	fields := logrus.Fields{"logo_type": t}
	err := c.do(ctx, fmt.Sprintf("%s logo generation", t), fields, req, func(text string) error {
		var g domain.GeneratedLogo
		if err := decodeJSON(text, &g); err != nil {
			return err
		}
		if err := validateLogo(&g); err != nil {
			return err
		}
		if g.Type != t {
			logging.FromContext(ctx, c.log).WithFields(fields).
				Warnf("model returned logo type %q, storing as %q", g.Type, t)
			g.Type = t
		}
		out = g
		return nil
	})
	return out, err
}

func (c *Client) do(ctx context.Context, op string, fields logrus.Fields, req llm.Request, parse func(string) error) error {
	log := logging.FromContext(ctx, c.log).WithFields(fields).WithField("op", op)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				c.metrics.recordExhausted()
				return &GenerationError{Op: op, Attempts: attempt - 1, Err: fmt.Errorf("rate limiter: %w", err)}
			}
		}

		start := time.Now()
		err := c.attempt(ctx, req, parse)
		c.metrics.recordAttempt(time.Since(start), err)
		if err == nil {
			c.metrics.recordSuccess()
			return nil
		}

		lastErr = err
		log.WithField("attempt", attempt).WithError(err).Warn("model attempt failed")

		if ctx.Err() != nil {
			c.metrics.recordExhausted()
			return &GenerationError{Op: op, Attempts: attempt, Err: lastErr}
		}
		if attempt < c.maxAttempts {
			if err := c.sleep(ctx, time.Duration(attempt)*c.baseDelay); err != nil {
				c.metrics.recordExhausted()
				return &GenerationError{Op: op, Attempts: attempt, Err: lastErr}
			}
		}
	}

	c.metrics.recordExhausted()
	return &GenerationError{Op: op, Attempts: c.maxAttempts, Err: lastErr}
}

func (c *Client) attempt(ctx context.Context, req llm.Request, parse func(string) error) error {
	text, err := c.backend.Complete(ctx, req)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return llm.ErrEmptyResponse
	}
	return parse(text)
}

func validateAnalysis(a *domain.BrandAnalysis) error {
	var missing []string
	if strings.TrimSpace(a.CompanyName) == "" {
		missing = append(missing, "companyName")
	}
	if strings.TrimSpace(a.Industry) == "" {
		missing = append(missing, "industry")
	}
	if len(a.BrandPersonality) == 0 {
		missing = append(missing, "brandPersonality")
	}
	if len(missing) > 0 {
		return fmt.Errorf("invalid brand analysis: missing required fields: %s", strings.Join(missing, ", "))
	}
	if t := a.SuggestedDirection.Type; t != "" && !t.Valid() {
		return fmt.Errorf("invalid brand analysis: suggested direction %q: %w", t, domain.ErrInvalidLogoType)
	}

	if a.KeyDifferentiators == nil {
		a.KeyDifferentiators = []string{}
	}
	if a.VisualPreferences == nil {
		a.VisualPreferences = []string{}
	}
	if a.AntiPreferences == nil {
		a.AntiPreferences = []string{}
	}
	return nil
}

var errIncompleteLogo = errors.New("invalid logo response")

func validateLogo(g *domain.GeneratedLogo) error {
	var missing []string
	if strings.TrimSpace(g.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(string(g.Type)) == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(g.SVG) == "" {
		missing = append(missing, "svg")
	}
	if strings.TrimSpace(g.Rationale) == "" {
		missing = append(missing, "rationale")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", errIncompleteLogo, strings.Join(missing, ", "))
	}
	if err := checkSVG(g.SVG); err != nil {
		return fmt.Errorf("%w: %w", errIncompleteLogo, err)
	}

	g.Name = strings.TrimSpace(g.Name)
	g.Rationale = strings.TrimSpace(g.Rationale)
	g.SVG = normalizeSVG(g.SVG)
	return nil
}
