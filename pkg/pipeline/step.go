package pipeline

import (
	"context"
)

// Step is a unit of work of a pipeline. Steps keep no state between runs.
type Step interface {
	Run(ctx context.Context, rc *RunContext) error
}

// StepFunc adapts a function to Step.
type StepFunc func(ctx context.Context, rc *RunContext) error

func (f StepFunc) Run(ctx context.Context, rc *RunContext) error {
	return f(ctx, rc)
}

var _ Step = StepFunc(nil)
