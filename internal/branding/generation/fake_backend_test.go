package generation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sanjitr11/semiotic-logo-generator/internal/llm"
)

type reply struct {
	text string
	err  error
}

// scriptedBackend returns replies in order; the last reply repeats.
type scriptedBackend struct {
	mu       sync.Mutex
	replies  []reply
	requests []llm.Request
}

func (b *scriptedBackend) Complete(_ context.Context, req llm.Request) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, req)
	r := b.replies[len(b.replies)-1]
	if i := len(b.requests) - 1; i < len(b.replies) {
		r = b.replies[i]
	}
	return r.text, r.err
}

func (b *scriptedBackend) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

// routedBackend answers by logo type, detected from the task line of the prompt.
type routedBackend struct {
	mu     sync.Mutex
	byType map[string]reply
	counts map[string]int
}

var taskMarkers = map[string]string{
	"wordmark":  "Design a WORDMARK logo",
	"pictorial": "Design a PICTORIAL MARK logo",
	"abstract":  "Design an ABSTRACT ICON logo",
}

func (b *routedBackend) Complete(_ context.Context, req llm.Request) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.counts == nil {
		b.counts = map[string]int{}
	}
	for t, marker := range taskMarkers {
		if strings.Contains(req.Prompt, marker) {
			b.counts[t]++
			r := b.byType[t]
			return r.text, r.err
		}
	}
	return "", llm.ErrEmptyResponse
}

type recordedSleeps struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *recordedSleeps) sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	return nil
}
