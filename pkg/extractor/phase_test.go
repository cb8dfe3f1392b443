package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-imgnorm/pkg/extractor"
)

func TestPhaseTable(t *testing.T) {
	t.Parallel()

	phases := extractor.PhaseTable{
		Level:  1,
		Phases: map[string]string{"brain": "1", "bone": "2"},
	}

	got, err := phases.ExtractPhaseID("/data/049/bone/3.jpg")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
}

func TestPhaseTableUnknownPhaseIsFatal(t *testing.T) {
	t.Parallel()

	phases := extractor.PhaseTable{
		Level:  1,
		Phases: map[string]string{"brain": "1"},
	}

	_, err := phases.ExtractPhaseID("/data/049/arterial/3.jpg")
	require.ErrorIs(t, err, extractor.ErrUnknownPhase)
	assert.Contains(t, err.Error(), "/data/049/arterial/3.jpg")
	assert.Contains(t, err.Error(), "arterial")
}
