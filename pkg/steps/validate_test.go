package steps_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-imgnorm/pkg/pipeline"
	"github.com/askiada/go-imgnorm/pkg/steps"
)

func validRun(t *testing.T) *pipeline.RunContext {
	t.Helper()

	cfg := brainConfig(t, brainSource(t, "brain"), t.TempDir())
	_, err := execute(t, brainSteps[:len(brainSteps)-1], cfg)
	require.NoError(t, err)

	rc, err := pipeline.NewRunContext(cfg)
	require.NoError(t, err)
	require.NoError(t, steps.Validate(rc))
	return rc
}

func TestValidateAggregatesViolations(t *testing.T) {
	t.Parallel()

	rc := validRun(t)
	require.NoError(t, os.Remove(filepath.Join(rc.MasksDir(), "001_002.png")))
	writePNG(t, filepath.Join(rc.ImagesDir(), "001_003.png"), scan(1, 1))

	err := steps.Validate(rc)
	require.Error(t, err)
	assert.ErrorIs(t, err, steps.ErrInvalidTree)

	var verr *steps.ValidationError
	require.True(t, errors.As(err, &verr))
	reasons := make([]string, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		reasons = append(reasons, v.Reason)
	}
	assert.Contains(t, reasons, "mask Masks/001_002.png does not exist")
	assert.Contains(t, reasons, "image has no mask file")
	assert.Contains(t, reasons, "image has no metadata record")
	assert.GreaterOrEqual(t, len(verr.Violations), 4)
	assert.Contains(t, err.Error(), "violations")
}

func TestValidateIDWidth(t *testing.T) {
	t.Parallel()

	rc := validRun(t)
	rc.Dataset.ZFill = 4

	var verr *steps.ValidationError
	require.True(t, errors.As(steps.Validate(rc), &verr))
	for _, v := range verr.Violations {
		assert.Contains(t, v.Reason, "is not 4 characters wide")
	}
	assert.Len(t, verr.Violations, 4, "study and image id of two records")
}

func TestValidateMissingMetadata(t *testing.T) {
	t.Parallel()

	rc := validRun(t)
	require.NoError(t, os.Remove(rc.MetadataPath()))

	var verr *steps.ValidationError
	require.True(t, errors.As(steps.Validate(rc), &verr))
	paths := make([]string, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		paths = append(paths, v.Path)
	}
	assert.Contains(t, paths, rc.MetadataPath())
	assert.Contains(t, paths, filepath.Join(rc.ImagesDir(), "001_001.png"))
}

func TestValidateUnknownLabelCode(t *testing.T) {
	t.Parallel()

	rc := validRun(t)
	delete(rc.Dataset.Vocabulary, "normal")

	var verr *steps.ValidationError
	require.True(t, errors.As(steps.Validate(rc), &verr))
	require.Len(t, verr.Violations, 1)
	assert.Equal(t, `label "normal" is not a canonical code`, verr.Violations[0].Reason)
}

func TestValidateEmptyDataset(t *testing.T) {
	t.Parallel()

	rc := validRun(t)
	for _, dir := range []string{rc.ImagesDir(), rc.MasksDir()} {
		require.NoError(t, os.RemoveAll(dir))
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
	require.NoError(t, os.WriteFile(rc.MetadataPath(), nil, 0o600))

	var verr *steps.ValidationError
	require.True(t, errors.As(steps.Validate(rc), &verr))
	require.Len(t, verr.Violations, 1)
	assert.Equal(t, rc.MetadataPath(), verr.Violations[0].Path)
	assert.Equal(t, "dataset has no image", verr.Violations[0].Reason)
}
