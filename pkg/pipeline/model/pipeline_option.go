package model

// PipelineOption defines the interface for pipeline options.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error
	// PrepareStep runs when a step is added to the pipeline.
	PrepareStep(parentStep, step *StepInfo) error
	// OnStepDone runs once a step has processed all its files.
	OnStepDone(step *StepInfo, result StepResult) error
	// Finish runs after the pipeline is finished, even if a step failed.
	Finish() error
}
