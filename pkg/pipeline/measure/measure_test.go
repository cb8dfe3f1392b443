package measure_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-imgnorm/pkg/pipeline/measure"
	"github.com/askiada/go-imgnorm/pkg/pipeline/model"
)

func TestDefaultMetric(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()
	mt := msr.AddMetric("copy_images")
	assert.Same(t, mt, msr.AddMetric("copy_images"))
	assert.Zero(t, mt.AVGDuration())

	mt.AddRun(4*time.Second, 4)
	mt.AddRun(0, 0)
	assert.Equal(t, 4*time.Second, mt.TotalDuration())
	assert.EqualValues(t, 4, mt.Files())
	assert.Equal(t, time.Second, mt.AVGDuration())
	assert.Nil(t, msr.GetMetric("unknown"))
}

func TestPipelineMeasure(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()
	opt := measure.PipelineMeasure(msr)
	step := &model.StepInfo{Name: "add_new_ids"}

	require.NoError(t, opt.New())
	require.NoError(t, opt.PrepareStep(model.StartStep, step))
	require.NoError(t, opt.OnStepDone(step, model.StepResult{Name: step.Name, Duration: time.Millisecond, Files: 3}))
	require.NoError(t, opt.Finish())

	require.Contains(t, msr.AllMetrics(), "add_new_ids")
	assert.EqualValues(t, 3, msr.GetMetric("add_new_ids").Files())
}

func TestReport(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()
	msr.AddMetric("first").AddRun(2*time.Second, 2)
	msr.AddMetric("second").AddRun(time.Second, 0)

	var buf bytes.Buffer
	require.NoError(t, measure.Report(&buf, msr, []string{"first", "missing", "second"}))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[1]), "first")
	assert.Contains(t, string(lines[1]), "2s")
	assert.Contains(t, string(lines[2]), "second")
}
