package extractor_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-imgnorm/pkg/extractor"
)

func TestStem(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "00000001_000", extractor.Stem("/data/images/00000001_000.png"))
	assert.Equal(t, "scan.nii", extractor.Stem("scan.nii.gz"))
	assert.Equal(t, "README", extractor.Stem("README"))
}

func TestSegments(t *testing.T) {
	t.Parallel()

	path := filepath.Join("data", "Patients_CT", "049", "brain", "12.jpg")

	tcs := map[string]struct {
		imageID  extractor.ImageIDExtractor
		expected string
		wantErr  bool
	}{
		"basename":          {imageID: extractor.Basename{}, expected: "12"},
		"parent":            {imageID: extractor.ParentDir{Level: 1}, expected: "brain"},
		"parent default":    {imageID: extractor.ParentDir{}, expected: "brain"},
		"grand parent":      {imageID: extractor.ParentDir{Level: 2}, expected: "049"},
		"too deep":          {imageID: extractor.ParentDir{Level: 9}, wantErr: true},
		"separator":         {imageID: extractor.Separator{Sep: "_", Index: 0}, expected: "12"},
		"separator missing": {imageID: extractor.Separator{Sep: "_", Index: 1}, wantErr: true},
		"empty separator":   {imageID: extractor.Separator{Index: 0}, wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.imageID.ExtractImageID(path)
			if tc.wantErr {
				require.ErrorIs(t, err, extractor.ErrMalformedPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestSeparatorNegativeIndex(t *testing.T) {
	t.Parallel()

	sep := extractor.Separator{Sep: "_", Index: -1}

	got, err := sep.ExtractStudyID("/x/00000001_000.png")
	require.NoError(t, err)
	assert.Equal(t, "000", got)

	first, err := extractor.Separator{Sep: "_"}.ExtractStudyID("/x/00000001_000.png")
	require.NoError(t, err)
	assert.Equal(t, "00000001", first)
}

func TestConstant(t *testing.T) {
	t.Parallel()

	got, err := extractor.Constant{Value: "0"}.ExtractStudyID("/any/file.png")
	require.NoError(t, err)
	assert.Equal(t, "0", got)

	_, err = extractor.Constant{}.ExtractStudyID("/any/file.png")
	assert.ErrorIs(t, err, extractor.ErrMalformedPath)
}

func TestImageIDInjectiveWithinStudy(t *testing.T) {
	t.Parallel()

	paths := []string{
		"/d/049/brain/1.jpg",
		"/d/049/brain/2.jpg",
		"/d/049/brain/12.jpg",
		"/d/050/brain/1.jpg",
	}
	seen := map[string]string{}
	for _, p := range paths {
		study, err := extractor.ParentDir{Level: 2}.ExtractStudyID(p)
		require.NoError(t, err)
		image, err := extractor.Basename{}.ExtractImageID(p)
		require.NoError(t, err)
		key := study + "/" + image
		_, dup := seen[key]
		assert.False(t, dup, "%s collides with %s", p, seen[key])
		seen[key] = p
	}
}

func TestSetValidate(t *testing.T) {
	t.Parallel()

	set := extractor.Set{}
	assert.ErrorIs(t, set.Validate(false), extractor.ErrImageIDMustBeSet)

	set.ImageID = extractor.Basename{}
	assert.ErrorIs(t, set.Validate(false), extractor.ErrStudyIDMustBeSet)

	set.StudyID = extractor.StudyIDFunc(func(string) (string, error) { return "1", nil })
	assert.NoError(t, set.Validate(false))
	assert.ErrorIs(t, set.Validate(true), extractor.ErrLabelMustBeSet)
}
