package pipeline

import (
	"github.com/askiada/go-imgnorm/pkg/pipeline/model"
)

type StepOption func(s *model.StepInfo)

// OfType sets the kind of the step.
func OfType(stepType model.StepType) StepOption {
	return func(s *model.StepInfo) {
		s.Type = stepType
	}
}

// After declares steps that must run before this one when they are part of the pipeline.
func After(names ...string) StepOption {
	return func(s *model.StepInfo) {
		s.After = append(s.After, names...)
	}
}

// Excludes declares steps that cannot be part of the same pipeline.
func Excludes(names ...string) StepOption {
	return func(s *model.StepInfo) {
		s.Excludes = append(s.Excludes, names...)
	}
}

// RequiresMasks declares the step reads or writes masks.
func RequiresMasks() StepOption {
	return func(s *model.StepInfo) {
		s.RequiresMasks = true
	}
}

// RequiresLabels declares the step needs a label extractor.
func RequiresLabels() StepOption {
	return func(s *model.StepInfo) {
		s.RequiresLabels = true
	}
}
