package pipeline_test

import (
	"context"
	"image"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-imgnorm/pkg/extractor"
	"github.com/askiada/go-imgnorm/pkg/mask"
	"github.com/askiada/go-imgnorm/pkg/pipeline"
	"github.com/askiada/go-imgnorm/pkg/pipeline/model"
)

type nopCodec struct{}

func (nopCodec) Read(string) (image.Image, error) { return image.NewGray(image.Rect(0, 0, 1, 1)), nil }
func (nopCodec) Write(string, image.Image) error  { return nil }

func runConfig(t *testing.T) pipeline.RunConfig {
	t.Helper()

	return pipeline.RunConfig{
		Paths: model.PathBundle{
			SourcePath: t.TempDir(),
			TargetPath: t.TempDir(),
		},
		Dataset: pipeline.Dataset{
			Name:  "test dataset",
			Dir:   "test-dataset",
			ZFill: 3,
		},
		Extractors: extractor.Set{
			ImageID: extractor.Basename{},
			StudyID: extractor.ParentDir{Level: 1},
		},
		Codec: nopCodec{},
	}
}

func maskTable(t *testing.T) *mask.Table {
	t.Helper()

	table, err := mask.NewTable([]mask.ClassConfig{{Name: "lesion"}})
	require.NoError(t, err)
	return table
}

// recorder keeps the order in which steps ran.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) step(name string, err error) pipeline.Step {
	return pipeline.StepFunc(func(context.Context, *pipeline.RunContext) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, name)
		return err
	})
}

func (r *recorder) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// hooks records the calls made to a pipeline option.
type hooks struct {
	prepared []string
	done     []model.StepResult
	finished bool
}

func (h *hooks) New() error { return nil }

func (h *hooks) PrepareStep(parent, step *model.StepInfo) error {
	h.prepared = append(h.prepared, parent.Name+"->"+step.Name)
	return nil
}

func (h *hooks) OnStepDone(_ *model.StepInfo, result model.StepResult) error {
	h.done = append(h.done, result)
	return nil
}

func (h *hooks) Finish() error {
	h.finished = true
	return nil
}

var _ model.PipelineOption = (*hooks)(nil)
