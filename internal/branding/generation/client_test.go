package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/domain"
	"github.com/sanjitr11/semiotic-logo-generator/internal/llm"
)

const analysisJSON = `{
  "companyName": "Tidewell",
  "industry": "marine sensing",
  "brandPersonality": ["calm", "precise"],
  "keyDifferentiators": ["solar buoys"],
  "targetAudience": "coastal councils",
  "suggestedDirection": {"type": "abstract", "reasoning": "data first"}
}`

func logoJSON(name, typ string) string {
	return `{"name": "` + name + `", "type": "` + typ + `", "rationale": "a steady line", "svg": "<svg viewBox='0 0 10 10'><rect width='10' height='10'/></svg>"}`
}

func newTestClient(b llm.Backend, s *recordedSleeps) *Client {
	return NewClient(b, WithSleeper(s.sleep))
}

func TestAnalyzeBrand_FencedJSON(t *testing.T) {
	b := &scriptedBackend{replies: []reply{{text: "Sure!\n```json\n" + analysisJSON + "\n```"}}}
	s := &recordedSleeps{}

	a, err := newTestClient(b, s).AnalyzeBrand(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Tidewell", a.CompanyName)
	assert.Equal(t, []string{"calm", "precise"}, a.BrandPersonality)
	assert.Equal(t, domain.LogoTypeAbstract, a.SuggestedDirection.Type)
	assert.NotNil(t, a.VisualPreferences)
	assert.NotNil(t, a.AntiPreferences)
	assert.Equal(t, 1, b.calls())
	assert.Empty(t, s.delays)
	assert.Equal(t, analysisMaxTokens, b.requests[0].MaxTokens)
	assert.Empty(t, b.requests[0].System)
}

func TestAnalyzeBrand_NoBracesCountsAsFailedAttempt(t *testing.T) {
	b := &scriptedBackend{replies: []reply{{text: "I could not find a company in this transcript."}, {text: analysisJSON}}}
	s := &recordedSleeps{}
	c := newTestClient(b, s)

	_, err := c.AnalyzeBrand(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, 2, b.calls())
	assert.Equal(t, []time.Duration{time.Second}, s.delays)

	snap := c.Metrics().Snapshot()
	assert.Equal(t, int64(2), snap.Attempts)
	assert.Equal(t, int64(1), snap.FailedAttempts)
	assert.Equal(t, int64(1), snap.Successes)
}

func TestAnalyzeBrand_ThreeFailures(t *testing.T) {
	b := &scriptedBackend{replies: []reply{
		{err: errors.New("first outage")},
		{err: errors.New("second outage")},
		{err: errors.New("third outage")},
	}}
	s := &recordedSleeps{}
	c := newTestClient(b, s)

	_, err := c.AnalyzeBrand(context.Background(), "prompt")
	require.Error(t, err)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, 3, genErr.Attempts)
	assert.EqualError(t, genErr.Err, "third outage")
	assert.Equal(t, "brand analysis failed after 3 attempts: third outage", err.Error())
	assert.Equal(t, 3, b.calls())
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, s.delays)
	assert.Equal(t, int64(1), c.Metrics().Snapshot().Exhausted)
}

func TestAnalyzeBrand_SuccessOnSecondAttemptShortCircuits(t *testing.T) {
	b := &scriptedBackend{replies: []reply{
		{err: errors.New("overloaded")},
		{text: analysisJSON},
		{err: errors.New("must not be reached")},
	}}
	s := &recordedSleeps{}

	_, err := newTestClient(b, s).AnalyzeBrand(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, 2, b.calls())
	assert.Len(t, s.delays, 1)
}

func TestAnalyzeBrand_Validation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantMsg string
	}{
		{"missing company", `{"industry": "x", "brandPersonality": ["a"]}`, "companyName"},
		{"empty personality", `{"companyName": "A", "industry": "x", "brandPersonality": []}`, "brandPersonality"},
		{"unknown direction", `{"companyName": "A", "industry": "x", "brandPersonality": ["a"], "suggestedDirection": {"type": "mascot"}}`, "mascot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &scriptedBackend{replies: []reply{{text: tt.payload}}}
			c := NewClient(b, WithRetryPolicy(1, 0), WithSleeper((&recordedSleeps{}).sleep))

			_, err := c.AnalyzeBrand(context.Background(), "prompt")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Equal(t, 1, b.calls())
		})
	}
}

func TestGenerateLogo(t *testing.T) {
	b := &scriptedBackend{replies: []reply{{text: "```\n" + logoJSON("Still Water", "abstract") + "\n```"}}}

	g, err := newTestClient(b, &recordedSleeps{}).GenerateLogo(context.Background(), domain.LogoTypeAbstract, "draw")
	require.NoError(t, err)
	assert.Equal(t, "Still Water", g.Name)
	assert.Equal(t, domain.LogoTypeAbstract, g.Type)
	assert.Equal(t, `<svg viewBox="0 0 10 10"><rect width="10" height="10"/></svg>`, g.SVG)
	assert.Equal(t, logoMaxTokens, b.requests[0].MaxTokens)
	assert.Contains(t, b.requests[0].System, "elite logo designer")
}

func TestGenerateLogo_OverridesMismatchedType(t *testing.T) {
	b := &scriptedBackend{replies: []reply{{text: logoJSON("Tide", "abstract")}}}

	g, err := newTestClient(b, &recordedSleeps{}).GenerateLogo(context.Background(), domain.LogoTypeWordmark, "draw")
	require.NoError(t, err)
	assert.Equal(t, domain.LogoTypeWordmark, g.Type)
}

func TestGenerateLogo_RejectsMissingSVGTags(t *testing.T) {
	b := &scriptedBackend{replies: []reply{{text: `{"name": "A", "type": "wordmark", "rationale": "r", "svg": "<g></g>"}`}}}
	c := NewClient(b, WithRetryPolicy(2, 0), WithSleeper((&recordedSleeps{}).sleep))

	_, err := c.GenerateLogo(context.Background(), domain.LogoTypeWordmark, "draw")
	require.Error(t, err)
	assert.ErrorIs(t, err, errIncompleteLogo)
	assert.ErrorIs(t, err, errMissingSVGOpen)
	assert.Equal(t, 2, b.calls())
}

func TestClient_StopsWhenContextCancelled(t *testing.T) {
	b := &scriptedBackend{replies: []reply{{err: errors.New("slow")}}}
	ctx, cancel := context.WithCancel(context.Background())
	c := NewClient(b, WithSleeper(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}))

	_, err := c.AnalyzeBrand(ctx, "prompt")
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, 1, genErr.Attempts)
	assert.Equal(t, 1, b.calls())
}

func TestClient_RateLimiterWaitFailure(t *testing.T) {
	b := &scriptedBackend{replies: []reply{{text: analysisJSON}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewClient(b, WithRateLimiter(rate.NewLimiter(rate.Every(time.Hour), 1)))

	_, err := c.AnalyzeBrand(ctx, "prompt")
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Zero(t, genErr.Attempts)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "rate limiter")
	assert.Zero(t, b.calls())

	snap := c.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.Exhausted)
	assert.Zero(t, snap.Attempts)
}
