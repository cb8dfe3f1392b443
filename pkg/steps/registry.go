package steps

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/askiada/go-imgnorm/pkg/pipeline"
	"github.com/askiada/go-imgnorm/pkg/pipeline/model"
)

const (
	GetFilePaths                = "get_file_paths"
	CreateFileTree              = "create_file_tree"
	AddNewIDs                   = "add_new_ids"
	CopyImages                  = "copy_images"
	CopyMasks                   = "copy_masks"
	RasterizePolygonMasks       = "rasterize_polygon_masks"
	ThresholdMasks              = "threshold_masks"
	RecolorMasks                = "recolor_masks"
	CreateBlankMasks            = "create_blank_masks"
	DeleteImgsWithoutMasks      = "delete_imgs_without_masks"
	BinarizeMasks               = "binarize_masks"
	AddLabels                   = "add_labels"
	DeleteImgsWithNoAnnotations = "delete_imgs_with_no_annotations"
	DeleteTempFiles             = "delete_temp_files"
	WriteMetadata               = "write_metadata"
	StoreSourcePaths            = "store_source_paths"
	ValidateData                = "validate_data"
)

// Definition is a registered step and its constraints.
type Definition struct {
	Name    string
	Step    pipeline.Step
	Options []pipeline.StepOption
}

func define(name string, fn pipeline.StepFunc, opts ...pipeline.StepOption) Definition {
	return Definition{Name: name, Step: fn, Options: opts}
}

var definitions = map[string]Definition{}

func register(defs ...Definition) {
	for _, def := range defs {
		definitions[def.Name] = def
	}
}

func init() {
	register(
		define(GetFilePaths, getFilePaths, pipeline.OfType(model.DiscoveryStepType)),
		define(CreateFileTree, createFileTree, pipeline.OfType(model.TreeStepType)),
		define(AddNewIDs, addNewIDs, pipeline.OfType(model.AssignStepType), pipeline.After(GetFilePaths)),
		define(CopyImages, copyImages, pipeline.OfType(model.ConvertStepType),
			pipeline.After(AddNewIDs, CreateFileTree)),
		define(CopyMasks, copyMasks, pipeline.OfType(model.ConvertStepType), pipeline.RequiresMasks(),
			pipeline.After(AddNewIDs, CreateFileTree), pipeline.Excludes(RasterizePolygonMasks)),
		define(RasterizePolygonMasks, rasterizePolygonMasks, pipeline.OfType(model.ConvertStepType), pipeline.RequiresMasks(),
			pipeline.After(AddNewIDs, CreateFileTree)),
		define(ThresholdMasks, thresholdMasks, pipeline.OfType(model.MaskStepType), pipeline.RequiresMasks(),
			pipeline.After(CopyMasks)),
		define(RecolorMasks, recolorMasks, pipeline.OfType(model.MaskStepType), pipeline.RequiresMasks(),
			pipeline.After(CopyMasks, RasterizePolygonMasks, ThresholdMasks)),
		define(CreateBlankMasks, createBlankMasks, pipeline.OfType(model.MaskStepType), pipeline.RequiresMasks(),
			pipeline.After(CopyImages, CopyMasks, RasterizePolygonMasks, RecolorMasks),
			pipeline.Excludes(DeleteImgsWithoutMasks)),
		define(DeleteImgsWithoutMasks, deleteImgsWithoutMasks, pipeline.OfType(model.CleanupStepType), pipeline.RequiresMasks(),
			pipeline.After(CopyImages, CopyMasks, RasterizePolygonMasks)),
		define(BinarizeMasks, binarizeMasks, pipeline.OfType(model.MaskStepType), pipeline.RequiresMasks(),
			pipeline.After(RecolorMasks, CreateBlankMasks)),
		define(AddLabels, addLabels, pipeline.OfType(model.AssignStepType), pipeline.RequiresLabels(),
			pipeline.After(AddNewIDs, RecolorMasks, CreateBlankMasks)),
		define(DeleteImgsWithNoAnnotations, deleteImgsWithNoAnnotations, pipeline.OfType(model.CleanupStepType),
			pipeline.After(AddLabels, CopyImages, BinarizeMasks)),
		define(DeleteTempFiles, deleteTempFiles, pipeline.OfType(model.CleanupStepType),
			pipeline.After(CopyImages, CopyMasks, RasterizePolygonMasks, BinarizeMasks,
				DeleteImgsWithoutMasks, DeleteImgsWithNoAnnotations)),
		define(WriteMetadata, writeMetadata, pipeline.OfType(model.OutputStepType),
			pipeline.After(AddNewIDs, AddLabels, CopyImages, CopyMasks, RasterizePolygonMasks, CreateBlankMasks,
				DeleteImgsWithoutMasks, DeleteImgsWithNoAnnotations)),
		define(StoreSourcePaths, storeSourcePaths, pipeline.OfType(model.OutputStepType),
			pipeline.After(AddNewIDs, CopyMasks, RasterizePolygonMasks, CreateBlankMasks,
				DeleteImgsWithoutMasks, DeleteImgsWithNoAnnotations)),
	)

	// Validation checks the output of every other step.
	others := Names()
	register(define(ValidateData, validateData, pipeline.OfType(model.ValidationStepType), pipeline.After(others...)))
}

// Names returns the registered step names, sorted.
func Names() []string {
	res := make([]string, 0, len(definitions))
	for name := range definitions {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// Lookup returns the definition of a registered step.
func Lookup(name string) (Definition, error) {
	def, ok := definitions[name]
	if !ok {
		return Definition{}, errors.Wrapf(ErrUnknownStep, "%q", name)
	}
	return def, nil
}

// Build assembles the named steps, in order, into a pipeline and checks their constraints.
func Build(name string, stepNames []string, opts ...model.PipelineOption) (*pipeline.Pipeline, error) {
	pipe, err := pipeline.New(name, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create pipeline")
	}
	for _, stepName := range stepNames {
		def, err := Lookup(stepName)
		if err != nil {
			return nil, err
		}
		err = pipeline.AddStep(pipe, def.Name, def.Step, def.Options...)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to add step %q", stepName)
		}
	}
	err = pipe.Check()
	if err != nil {
		return nil, errors.Wrapf(err, "pipeline %q", name)
	}
	return pipe, nil
}
