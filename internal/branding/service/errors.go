package service

import "fmt"

// Pipeline stages reported in PipelineError.
const (
	StageCreate   = "create"
	StageAnalyze  = "analyze"
	StageGenerate = "generate"
	StagePersist  = "persist"
)

// PipelineError is a failure of the analyze pipeline after input validation.
// ProjectID is empty when the project could not be created.
type PipelineError struct {
	ProjectID string
	Stage     string
	Err       error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
