package domain

import "errors"

var (
	ErrProjectNotFound   = errors.New("project not found")
	ErrConceptNotFound   = errors.New("logo concept not found")
	ErrNoBrandAnalysis   = errors.New("project has no brand analysis")
	ErrInvalidLogoType   = errors.New("invalid logo type")
	ErrInvalidTransition = errors.New("invalid project status transition")
	ErrInvalidTranscript = errors.New("invalid transcript")
)
