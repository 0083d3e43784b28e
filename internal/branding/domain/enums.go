package domain

import "fmt"

// LogoType is one of the three stylistic families a concept is generated for.
type LogoType string

const (
	LogoTypeWordmark  LogoType = "wordmark"
	LogoTypePictorial LogoType = "pictorial"
	LogoTypeAbstract  LogoType = "abstract"
)

// AllLogoTypes is the fixed generation order.
var AllLogoTypes = []LogoType{LogoTypeWordmark, LogoTypePictorial, LogoTypeAbstract}

func (t LogoType) Valid() bool {
	switch t {
	case LogoTypeWordmark, LogoTypePictorial, LogoTypeAbstract:
		return true
	}
	return false
}

// ParseLogoType validates a raw logo type value.
func ParseLogoType(s string) (LogoType, error) {
	t := LogoType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q (must be wordmark, pictorial, or abstract)", ErrInvalidLogoType, s)
	}
	return t, nil
}

// ProjectStatus tracks a project through the analyze/generate pipeline.
type ProjectStatus string

const (
	StatusPending    ProjectStatus = "pending"
	StatusAnalyzing  ProjectStatus = "analyzing"
	StatusGenerating ProjectStatus = "generating"
	StatusComplete   ProjectStatus = "complete"
	StatusError      ProjectStatus = "error"
)

// previous lists the statuses a project may move out of to reach the key.
var previous = map[ProjectStatus][]ProjectStatus{
	StatusAnalyzing:  {StatusPending},
	StatusGenerating: {StatusAnalyzing},
	StatusComplete:   {StatusGenerating},
	StatusError:      {StatusPending, StatusAnalyzing, StatusGenerating},
}

// AllowedPredecessors returns the statuses from which next can be reached.
// Status only advances forward; error is reachable from any non-terminal status.
func AllowedPredecessors(next ProjectStatus) []ProjectStatus {
	return previous[next]
}

// CanTransition reports whether a project in status from may move to status to.
func CanTransition(from, to ProjectStatus) bool {
	for _, p := range previous[to] {
		if p == from {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s ProjectStatus) Terminal() bool {
	return s == StatusComplete || s == StatusError
}
