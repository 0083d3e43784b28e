package generation

import (
	"fmt"
	"strings"

	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/domain"
)

// GenerationError is returned once every attempt of a model call has failed.
// Err is the cause of the last attempt.
type GenerationError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Op, e.Attempts, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// TypeFailure is the failure of one logo type inside GenerateAll.
type TypeFailure struct {
	Type domain.LogoType
	Err  error
}

// AggregateError is returned by GenerateAll when no logo type succeeded.
type AggregateError struct {
	Failures []TypeFailure
}

func (e *AggregateError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Type, f.Err))
	}
	return "all logo generations failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes every per-type cause to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}
