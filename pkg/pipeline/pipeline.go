package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-imgnorm/pkg/pipeline/model"
)

type stepEntry struct {
	info *model.StepInfo
	step Step
}

// Pipeline is an ordered list of named steps.
type Pipeline struct {
	name  string
	steps []*stepEntry
	opts  []model.PipelineOption
}

// RunResult reports what a run did.
type RunResult struct {
	Dataset      string
	Steps        []model.StepResult
	Records      int
	MetadataPath string
	// FailedStep is the name of the step that stopped the run, empty on success.
	FailedStep string
}

// New creates a new pipeline.
func New(name string, opts ...model.PipelineOption) (*Pipeline, error) {
	pipe := &Pipeline{
		name: name,
		opts: opts,
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

// Name returns the name given to New.
func (p *Pipeline) Name() string {
	return p.name
}

// AddStep appends a step to the pipeline.
func AddStep(p *Pipeline, name string, step Step, opts ...StepOption) error {
	if p == nil {
		return ErrPipelineMustBeSet
	}
	if step == nil {
		return ErrStepMustBeSet
	}
	if name == "" {
		return ErrStepNameMustBeSet
	}
	for _, entry := range p.steps {
		if entry.info.Name == name {
			return errors.Wrapf(ErrDuplicateStep, "step %q", name)
		}
	}

	info := &model.StepInfo{
		Type:  model.CustomStepType,
		Name:  name,
		Index: len(p.steps),
	}
	for _, opt := range opts {
		opt(info)
	}

	parent := model.StartStep
	if len(p.steps) > 0 {
		parent = p.steps[len(p.steps)-1].info
	}
	for _, opt := range p.opts {
		err := opt.PrepareStep(parent, info)
		if err != nil {
			return errors.Wrap(err, "unable to prepare step")
		}
	}

	p.steps = append(p.steps, &stepEntry{info: info, step: step})

	return nil
}

// Steps returns the description of the steps in declared order.
func (p *Pipeline) Steps() []model.StepInfo {
	res := make([]model.StepInfo, 0, len(p.steps))
	for _, entry := range p.steps {
		res = append(res, *entry.info)
	}
	return res
}

func (p *Pipeline) requires() (masks, labels bool) {
	for _, entry := range p.steps {
		masks = masks || entry.info.RequiresMasks
		labels = labels || entry.info.RequiresLabels
	}
	return masks, labels
}

// Validate checks the pipeline against a run configuration without running any step.
func (p *Pipeline) Validate(cfg RunConfig) error {
	if p == nil {
		return ErrPipelineMustBeSet
	}
	err := p.Check()
	if err != nil {
		return err
	}

	needMasks, needLabels := p.requires()
	if needMasks {
		if cfg.Paths.MasksPath == "" {
			return ErrMasksPathMustBeSet
		}
		if cfg.Dataset.Masks == nil {
			return ErrMaskTableMustBeSet
		}
	}
	if cfg.Paths.MasksPath != "" && !needMasks {
		return ErrMaskStepsMissing
	}

	return cfg.Extractors.Validate(needLabels)
}

// Execute runs every step in declared order. Each step returns only once all its files are processed.
// The first failing step stops the run and its error is returned as a *StepError.
func (p *Pipeline) Execute(ctx context.Context, cfg RunConfig) (*RunResult, error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}
	err := p.Validate(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	rc, err := NewRunContext(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	result := &RunResult{Dataset: cfg.Dataset.Name}
	rc.Logger.Info("starting pipeline", "dataset", cfg.Dataset.Name, "steps", len(p.steps))

	runErr := p.run(ctx, rc, result)
	finishErr := p.finishRun()
	if runErr != nil {
		if finishErr != nil {
			rc.Logger.Warn("unable to finish pipeline option", "error", finishErr)
		}
		return result, runErr
	}
	if finishErr != nil {
		return result, finishErr
	}

	result.Records = len(rc.Records())
	result.MetadataPath = rc.MetadataPath()
	rc.Logger.Info("pipeline done", "dataset", cfg.Dataset.Name, "records", result.Records)

	return result, nil
}

func (p *Pipeline) run(ctx context.Context, rc *RunContext, result *RunResult) error {
	for _, entry := range p.steps {
		name := entry.info.Name
		if err := ctx.Err(); err != nil {
			result.FailedStep = name
			return &StepError{Step: name, Err: err}
		}

		rc.processed.Store(0)
		rc.Logger.Debug("starting step", "step", name)
		start := time.Now()
		err := entry.step.Run(ctx, rc)
		stepResult := model.StepResult{
			Name:     name,
			Duration: time.Since(start),
			Files:    rc.Processed(),
		}
		if err != nil {
			rc.Logger.Error("step failed", "step", name, "error", err)
			result.FailedStep = name
			stepResult.Err = err
			for _, opt := range p.opts {
				if optErr := opt.OnStepDone(entry.info, stepResult); optErr != nil {
					rc.Logger.Warn("unable to record failed step", "step", name, "error", optErr)
				}
			}
			return &StepError{Step: name, Err: err}
		}
		rc.Logger.Info("step done", "step", name, "files", stepResult.Files, "duration", stepResult.Duration)
		result.Steps = append(result.Steps, stepResult)

		for _, opt := range p.opts {
			err := opt.OnStepDone(entry.info, stepResult)
			if err != nil {
				return errors.Wrap(err, "unable to record step")
			}
		}
	}
	return nil
}

func (p *Pipeline) finishRun() error {
	for _, opt := range p.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}
