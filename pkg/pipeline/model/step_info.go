package model

import "time"

type StepType string

const (
	// DiscoveryStepType lists files from the source and masks roots.
	DiscoveryStepType StepType = "discovery"
	// TreeStepType creates directories in the canonical tree.
	TreeStepType StepType = "tree"
	// ConvertStepType converts or copies files into the canonical tree.
	ConvertStepType StepType = "convert"
	// MaskStepType rewrites mask files.
	MaskStepType StepType = "mask"
	// AssignStepType assigns ids or labels to records.
	AssignStepType StepType = "assign"
	// CleanupStepType removes temporary or rejected files.
	CleanupStepType StepType = "cleanup"
	// OutputStepType writes durable run output.
	OutputStepType StepType = "output"
	// ValidationStepType checks the final tree.
	ValidationStepType StepType = "validation"
	// CustomStepType is used for steps built from plain functions.
	CustomStepType StepType = "custom"
)

// StepInfo describes a step of a pipeline.
type StepInfo struct {
	Type  StepType
	Name  string
	Index int

	// After lists the steps that must run before this one when they are part of the pipeline.
	After []string
	// Excludes lists the steps that cannot be part of the same pipeline.
	Excludes []string

	RequiresMasks  bool
	RequiresLabels bool
}

// StepResult records the outcome of a single step.
type StepResult struct {
	Name     string
	Duration time.Duration
	Files    int64
	// Err is set when the step failed.
	Err error
}

var (
	StartStep = &StepInfo{Name: "start"}
	EndStep   = &StepInfo{Name: "end"}
)
