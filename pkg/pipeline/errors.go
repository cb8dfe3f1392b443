package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrPipelineMustBeSet   = errors.New("p must be set")
	ErrStepMustBeSet       = errors.New("step must be set")
	ErrStepNameMustBeSet   = errors.New("step name must be set")
	ErrDuplicateStep       = errors.New("duplicate step name")
	ErrStepOrder           = errors.New("invalid step order")
	ErrExclusiveSteps      = errors.New("steps are mutually exclusive")
	ErrSourcePathMustBeSet = errors.New("source path must be set")
	ErrTargetPathMustBeSet = errors.New("target path must be set")
	ErrMasksPathMustBeSet  = errors.New("masks path must be set")
	ErrMaskStepsMissing    = errors.New("masks path is set but no step handles masks")
	ErrMaskTableMustBeSet  = errors.New("mask colour table must be set")
	ErrCodecMustBeSet      = errors.New("codec must be set")
	ErrInvalidZFill        = errors.New("zfill must be greater than 0")
	ErrDatasetDirMustBeSet = errors.New("dataset directory must be set")
	ErrDuplicateRecord     = errors.New("duplicate record")
)

// StepError is returned when a step fails. The remaining steps are not run.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
