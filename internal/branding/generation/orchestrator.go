package generation

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/domain"
	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/prompt"
	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/transcript"
	"github.com/sanjitr11/semiotic-logo-generator/internal/logging"
)

// Orchestrator turns transcripts into analyses and analyses into logos.
type Orchestrator struct {
	client *Client
	log    logrus.FieldLogger
}

func NewOrchestrator(client *Client, log logrus.FieldLogger) *Orchestrator {
	if log == nil {
		log = logging.Discard()
	}
	return &Orchestrator{client: client, log: log}
}

// Analyze formats the transcript and runs one analysis call.
func (o *Orchestrator) Analyze(ctx context.Context, t domain.Transcript) (domain.BrandAnalysis, error) {
	return o.client.AnalyzeBrand(ctx, prompt.AnalysisPrompt(transcript.Format(t)))
}

// GenerateSingle runs one logo call for the given type.
func (o *Orchestrator) GenerateSingle(ctx context.Context, t domain.LogoType, a domain.BrandAnalysis, variant int) (domain.GeneratedLogo, error) {
	p, err := prompt.LogoPrompt(t, a, variant)
	if err != nil {
		return domain.GeneratedLogo{}, err
	}
	return o.client.GenerateLogo(ctx, t, p)
}

// GenerateAll runs one call per logo type concurrently. Each outcome is
// independent; the successful logos are returned in type order. It fails
// only when every type failed.
func (o *Orchestrator) GenerateAll(ctx context.Context, a domain.BrandAnalysis) ([]domain.GeneratedLogo, error) {
	types := domain.AllLogoTypes
	logos := make([]domain.GeneratedLogo, len(types))
	errs := make([]error, len(types))

	var g errgroup.Group
	for i, t := range types {
		g.Go(func() error {
			logos[i], errs[i] = o.GenerateSingle(ctx, t, a, 1)
			return nil
		})
	}
	_ = g.Wait()

	var out []domain.GeneratedLogo
	var failures []TypeFailure
	for i, t := range types {
		if errs[i] != nil {
			failures = append(failures, TypeFailure{Type: t, Err: errs[i]})
			continue
		}
		out = append(out, logos[i])
	}

	if len(out) == 0 {
		return nil, &AggregateError{Failures: failures}
	}
	if len(failures) > 0 {
		log := logging.FromContext(ctx, o.log)
		for _, f := range failures {
			log.WithField("logo_type", f.Type).WithError(f.Err).Warn("logo type failed, continuing with partial set")
		}
		log.Info(fmt.Sprintf("generated %d of %d logo types", len(out), len(types)))
	}
	return out, nil
}
