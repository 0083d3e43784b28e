package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/domain"
	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/generation"
	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/repository"
	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/transcript"
)

type fakeGenerator struct {
	mu         sync.Mutex
	analysis   domain.BrandAnalysis
	analyzeErr error
	failTypes  map[domain.LogoType]error
	calls      map[domain.LogoType]int
	variants   []int
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{
		analysis: domain.BrandAnalysis{
			CompanyName:      "Tidewell",
			Industry:         "marine sensing",
			BrandPersonality: []string{"calm"},
		},
		failTypes: map[domain.LogoType]error{},
		calls:     map[domain.LogoType]int{},
	}
}

func (f *fakeGenerator) Analyze(context.Context, domain.Transcript) (domain.BrandAnalysis, error) {
	return f.analysis, f.analyzeErr
}

func (f *fakeGenerator) GenerateSingle(_ context.Context, t domain.LogoType, _ domain.BrandAnalysis, variant int) (domain.GeneratedLogo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[t]++
	f.variants = append(f.variants, variant)
	if err := f.failTypes[t]; err != nil {
		return domain.GeneratedLogo{}, err
	}
	return domain.GeneratedLogo{
		Name:      string(t) + " concept",
		Type:      t,
		Rationale: "because",
		SVG:       "<svg></svg>",
	}, nil
}

func (f *fakeGenerator) GenerateAll(ctx context.Context, a domain.BrandAnalysis) ([]domain.GeneratedLogo, error) {
	var out []domain.GeneratedLogo
	var failures []generation.TypeFailure
	for _, t := range domain.AllLogoTypes {
		l, err := f.GenerateSingle(ctx, t, a, 1)
		if err != nil {
			failures = append(failures, generation.TypeFailure{Type: t, Err: err})
			continue
		}
		out = append(out, l)
	}
	if len(out) == 0 {
		return nil, &generation.AggregateError{Failures: failures}
	}
	return out, nil
}

var sampleTranscript = domain.Transcript{
	{Text: "We make tide sensors.", Speaker: "Ana", Timestamp: "00:01"},
	{Text: "Keep it calm.", Speaker: "Ben"},
}

func TestService_Analyze(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := New(store, newFakeGenerator(), nil, nil)

	res, err := svc.Analyze(context.Background(), sampleTranscript)
	require.NoError(t, err)
	assert.Equal(t, "Tidewell", res.BrandAnalysis.CompanyName)
	require.Len(t, res.Logos, 3)

	p, err := svc.GetProject(context.Background(), res.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusComplete, p.Status)
	assert.Len(t, p.LogoConcepts, 3)
	assert.Equal(t, sampleTranscript, p.Transcript)
}

func TestService_Analyze_InvalidTranscriptCreatesNothing(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := New(store, newFakeGenerator(), nil, nil)

	_, err := svc.Analyze(context.Background(), domain.Transcript{{Text: "hi"}})
	var vErr *transcript.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "speaker", vErr.Field)
	assert.ErrorIs(t, err, domain.ErrInvalidTranscript)

	list, err := store.ListRecent(context.Background(), 20, 3)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_Analyze_PartialGeneration(t *testing.T) {
	gen := newFakeGenerator()
	gen.failTypes[domain.LogoTypePictorial] = errors.New("outage")
	svc := New(repository.NewMemoryStore(), gen, nil, nil)

	res, err := svc.Analyze(context.Background(), sampleTranscript)
	require.NoError(t, err)
	require.Len(t, res.Logos, 2)

	p, err := svc.GetProject(context.Background(), res.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusComplete, p.Status)
	_, ok := p.Concept(domain.LogoTypePictorial)
	assert.False(t, ok)
}

func TestService_Analyze_FailureRecordsErrorStatus(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeGenerator)
		stage string
		want  string
	}{
		{
			name: "analysis fails",
			setup: func(g *fakeGenerator) {
				g.analyzeErr = errors.New("brand analysis failed after 3 attempts: overloaded")
			},
			stage: StageAnalyze,
			want:  "overloaded",
		},
		{
			name: "every logo fails",
			setup: func(g *fakeGenerator) {
				for _, lt := range domain.AllLogoTypes {
					g.failTypes[lt] = errors.New(string(lt) + " broke")
				}
			},
			stage: StageGenerate,
			want:  "all logo generations failed: wordmark: wordmark broke; pictorial: pictorial broke; abstract: abstract broke",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := newFakeGenerator()
			tt.setup(gen)
			store := repository.NewMemoryStore()
			svc := New(store, gen, nil, nil)

			_, err := svc.Analyze(context.Background(), sampleTranscript)
			var pErr *PipelineError
			require.ErrorAs(t, err, &pErr)
			assert.Equal(t, tt.stage, pErr.Stage)
			assert.Contains(t, err.Error(), tt.want)

			p, err := store.GetProject(context.Background(), pErr.ProjectID)
			require.NoError(t, err)
			assert.Equal(t, domain.StatusError, p.Status)
			assert.Contains(t, p.ErrorMessage, tt.want)
		})
	}
}

func analyzedProject(t *testing.T, svc *Service) string {
	t.Helper()
	res, err := svc.Analyze(context.Background(), sampleTranscript)
	require.NoError(t, err)
	return res.ProjectID
}

func TestService_Regenerate_KeepsOneConceptPerType(t *testing.T) {
	gen := newFakeGenerator()
	svc := New(repository.NewMemoryStore(), gen, nil, nil)
	id := analyzedProject(t, svc)

	before, err := svc.GetProject(context.Background(), id)
	require.NoError(t, err)
	old, _ := before.Concept(domain.LogoTypePictorial)

	c, err := svc.Regenerate(context.Background(), id, domain.LogoTypePictorial, 2)
	require.NoError(t, err)
	assert.NotEqual(t, old.ID, c.ID)
	assert.Equal(t, 2, gen.variants[len(gen.variants)-1])

	after, err := svc.GetProject(context.Background(), id)
	require.NoError(t, err)
	count := 0
	for _, lc := range after.LogoConcepts {
		if lc.LogoType == domain.LogoTypePictorial {
			count++
			assert.Equal(t, c.ID, lc.ID)
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, after.LogoConcepts, 3)
	assert.Equal(t, domain.StatusComplete, after.Status)
}

func TestService_Regenerate_FailureKeepsOldConcept(t *testing.T) {
	gen := newFakeGenerator()
	svc := New(repository.NewMemoryStore(), gen, nil, nil)
	id := analyzedProject(t, svc)
	before, _ := svc.GetProject(context.Background(), id)
	old, _ := before.Concept(domain.LogoTypeWordmark)

	gen.failTypes[domain.LogoTypeWordmark] = errors.New("nope")
	_, err := svc.Regenerate(context.Background(), id, domain.LogoTypeWordmark, 1)
	require.Error(t, err)

	after, _ := svc.GetProject(context.Background(), id)
	kept, ok := after.Concept(domain.LogoTypeWordmark)
	require.True(t, ok)
	assert.Equal(t, old.ID, kept.ID)
	assert.Equal(t, domain.StatusComplete, after.Status)
}

func TestService_RegenerateAll(t *testing.T) {
	gen := newFakeGenerator()
	svc := New(repository.NewMemoryStore(), gen, nil, nil)
	id := analyzedProject(t, svc)
	before, _ := svc.GetProject(context.Background(), id)
	oldAbstract, _ := before.Concept(domain.LogoTypeAbstract)

	gen.failTypes[domain.LogoTypeAbstract] = errors.New("flaky")
	out, err := svc.RegenerateAll(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, out, 2)

	after, _ := svc.GetProject(context.Background(), id)
	assert.Len(t, after.LogoConcepts, 3)
	kept, _ := after.Concept(domain.LogoTypeAbstract)
	assert.Equal(t, oldAbstract.ID, kept.ID)
}

func TestService_Generate_Errors(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := New(store, newFakeGenerator(), nil, nil)
	ctx := context.Background()

	_, err := svc.Generate(ctx, "missing", domain.LogoTypeWordmark, 1)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)

	p, _ := store.CreateProject(ctx, sampleTranscript)
	_, err = svc.Generate(ctx, p.ID, domain.LogoTypeWordmark, 1)
	assert.ErrorIs(t, err, domain.ErrNoBrandAnalysis)

	_, err = svc.Generate(ctx, p.ID, "mascot", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidLogoType)

	_, err = svc.RegenerateAll(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNoBrandAnalysis)
}

func TestService_FavoriteAndDelete(t *testing.T) {
	svc := New(repository.NewMemoryStore(), newFakeGenerator(), nil, nil)
	ctx := context.Background()
	id := analyzedProject(t, svc)
	p, _ := svc.GetProject(ctx, id)
	target := p.LogoConcepts[0]

	c, err := svc.SetFavorite(ctx, target.ID, true)
	require.NoError(t, err)
	assert.True(t, c.IsFavorite)

	reloaded, err := svc.GetConcept(ctx, target.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsFavorite)

	require.NoError(t, svc.DeleteConcept(ctx, target.ID))
	_, err = svc.GetConcept(ctx, target.ID)
	assert.ErrorIs(t, err, domain.ErrConceptNotFound)
	assert.ErrorIs(t, svc.DeleteConcept(ctx, target.ID), domain.ErrConceptNotFound)
}

func TestService_CacheIsInvalidatedOnWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	cache := repository.NewProjectCache(client, time.Minute)

	svc := New(repository.NewMemoryStore(), newFakeGenerator(), cache, nil)
	ctx := context.Background()
	id := analyzedProject(t, svc)

	p, err := svc.GetProject(ctx, id)
	require.NoError(t, err)
	assert.True(t, mr.Exists("logo:project:"+id))

	list, err := svc.ListProjects(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, mr.Exists("logo:projects:recent:20"))

	target := p.LogoConcepts[0].ID
	_, err = svc.SetFavorite(ctx, target, true)
	require.NoError(t, err)
	assert.False(t, mr.Exists("logo:project:"+id))
	assert.False(t, mr.Exists("logo:projects:recent:20"))

	fresh, err := svc.GetProject(ctx, id)
	require.NoError(t, err)
	for _, c := range fresh.LogoConcepts {
		assert.Equal(t, c.ID == target, c.IsFavorite)
	}
}

func TestService_SweepStale(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := New(store, newFakeGenerator(), nil, nil)

	stuck, err := store.CreateProject(ctx, sampleTranscript)
	require.NoError(t, err)
	require.NoError(t, store.UpdateStatus(ctx, stuck.ID, domain.StatusAnalyzing))
	done, err := svc.Analyze(ctx, sampleTranscript)
	require.NoError(t, err)

	marked, err := svc.SweepStale(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	got, err := store.GetProject(ctx, stuck.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, got.Status)
	assert.Contains(t, got.ErrorMessage, "abandoned")

	finished, err := store.GetProject(ctx, done.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusComplete, finished.Status)

	marked, err = svc.SweepStale(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Zero(t, marked)
}
