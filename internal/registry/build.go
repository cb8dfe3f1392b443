package registry

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-imgnorm/pkg/extractor"
	"github.com/askiada/go-imgnorm/pkg/mask"
	"github.com/askiada/go-imgnorm/pkg/pipeline"
	"github.com/askiada/go-imgnorm/pkg/pipeline/model"
	"github.com/askiada/go-imgnorm/pkg/selector"
	"github.com/askiada/go-imgnorm/pkg/steps"
)

var ErrLabelsPathMustBeSet = errors.New("labels path must be set")

// Pipeline assembles the steps of the dataset.
func (d Dataset) Pipeline(opts ...model.PipelineOption) (*pipeline.Pipeline, error) {
	return steps.Build(d.Name, d.Steps, opts...)
}

// RunConfig builds the configuration of a run of the dataset.
func (d Dataset) RunConfig(codec pipeline.Codec, logger pipeline.Logger) (pipeline.RunConfig, error) {
	cfg := pipeline.RunConfig{
		Paths: d.Paths,
		Dataset: pipeline.Dataset{
			Name:           d.Name,
			Dir:            d.Dir,
			ZFill:          d.ZFill,
			MaskSuffix:     d.MaskSuffix,
			Vocabulary:     d.Labels,
			ThresholdLevel: d.ThresholdLevel,
		},
		Codec:   codec,
		Logger:  logger,
		Workers: d.Workers,
	}

	if len(d.Masks) > 0 {
		table, err := mask.NewTable(d.Masks)
		if err != nil {
			return cfg, errors.Wrapf(err, "dataset %q mask colours", d.Name)
		}
		cfg.Dataset.Masks = table
	}

	set, err := d.extractors(cfg)
	if err != nil {
		return cfg, errors.Wrapf(err, "dataset %q extractors", d.Name)
	}
	cfg.Extractors = set

	cfg.Images, err = buildSelector(d.Selectors.Images, d.Paths.SourcePath)
	if err != nil {
		return cfg, errors.Wrapf(err, "dataset %q image selector", d.Name)
	}
	cfg.Masks, err = buildSelector(d.Selectors.Masks, d.Paths.MasksPath)
	if err != nil {
		return cfg, errors.Wrapf(err, "dataset %q mask selector", d.Name)
	}

	return cfg, nil
}

func (d Dataset) extractors(cfg pipeline.RunConfig) (extractor.Set, error) {
	var set extractor.Set

	imageID, err := buildID(d.Extractors.ImageID)
	if err != nil {
		return set, errors.Wrap(err, "image id")
	}
	img, ok := imageID.(extractor.ImageIDExtractor)
	if !ok {
		return set, errors.Errorf("image id cannot use %q", d.Extractors.ImageID.Kind)
	}
	set.ImageID = img

	studyID, err := buildID(d.Extractors.StudyID)
	if err != nil {
		return set, errors.Wrap(err, "study id")
	}
	set.StudyID = studyID

	if d.Phases != nil {
		set.Phase = extractor.PhaseTable{Level: d.Phases.Level, Phases: d.Phases.Names}
	}

	if conf := d.Extractors.Labels; conf != nil {
		switch conf.Kind {
		case "table":
			if d.Paths.LabelsPath == "" {
				return set, ErrLabelsPathMustBeSet
			}
			table, err := extractor.LoadLabelTable(d.Paths.LabelsPath, extractor.LabelTableOptions{
				KeyColumn:   conf.KeyColumn,
				LabelColumn: conf.LabelColumn,
				Separator:   conf.Separator,
				Vocabulary:  d.Labels,
			})
			if err != nil {
				return set, err
			}
			set.Labels = table
		case "mask_classes":
			if cfg.Dataset.Masks == nil {
				return set, pipeline.ErrMaskTableMustBeSet
			}
			if cfg.Codec == nil {
				return set, pipeline.ErrCodecMustBeSet
			}
			set.Labels = extractor.MaskClasses{
				Table:      cfg.Dataset.Masks,
				Vocabulary: d.Labels,
				Fallback:   conf.Fallback,
				Decode:     cfg.Codec.Read,
			}
		}
	}

	return set, nil
}

// buildID returns a study id extractor. Every kind but constant is also an image id extractor.
func buildID(conf IDConfig) (extractor.StudyIDExtractor, error) {
	switch conf.Kind {
	case "basename":
		return extractor.Basename{}, nil
	case "separator":
		return extractor.Separator{Sep: conf.Sep, Index: conf.Index}, nil
	case "parent_dir":
		return extractor.ParentDir{Level: conf.Level}, nil
	case "constant":
		return extractor.Constant{Value: conf.Value}, nil
	}
	return nil, errors.Errorf("unknown id kind %q", conf.Kind)
}

// buildSelector returns a selector for files under root. A missing conf selects every file.
func buildSelector(conf *SelectorConfig, root string) (selector.Selector, error) {
	if conf == nil {
		return selector.All, nil
	}
	var sel selector.Selector
	switch conf.Kind {
	case "all":
		sel = selector.All
	case "contains":
		sel = selector.Contains{Substr: conf.Value}
	case "glob":
		glob, err := selector.NewGlob(root, conf.Include, conf.Exclude)
		if err != nil {
			return nil, err
		}
		sel = glob
	case "mime":
		sel = selector.MIME{}
	default:
		return nil, errors.Errorf("unknown selector kind %q", conf.Kind)
	}
	if conf.Not {
		sel = selector.Not{Selector: sel}
	}
	return sel, nil
}
