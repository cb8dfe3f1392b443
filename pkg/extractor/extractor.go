package extractor

import (
	"github.com/pkg/errors"
)

var (
	ErrMalformedPath       = errors.New("malformed path")
	ErrUnknownPhase        = errors.New("phase not in lookup table")
	ErrUnknownLabel        = errors.New("label not in vocabulary")
	ErrImageIDMustBeSet    = errors.New("image id extractor must be set")
	ErrStudyIDMustBeSet    = errors.New("study id extractor must be set")
	ErrLabelMustBeSet      = errors.New("label extractor must be set")
	ErrLabelTableMustBeSet = errors.New("label table path must be set")
)

// ImageIDExtractor returns the source image id of a file.
// Two distinct images of a study must never share an id.
type ImageIDExtractor interface {
	ExtractImageID(path string) (string, error)
}

// StudyIDExtractor returns the source study id of a file.
type StudyIDExtractor interface {
	ExtractStudyID(path string) (string, error)
}

// PhaseIDExtractor returns the phase id of a file from a controlled vocabulary.
type PhaseIDExtractor interface {
	ExtractPhaseID(path string) (string, error)
}

// LabelExtractor returns the canonical label codes and the raw source labels of an image.
// maskPath is empty when the image has no mask.
type LabelExtractor interface {
	ExtractLabels(imagePath, maskPath string) (codes, raw []string, err error)
}

// ImageIDFunc adapts a function to ImageIDExtractor.
type ImageIDFunc func(path string) (string, error)

func (f ImageIDFunc) ExtractImageID(path string) (string, error) { return f(path) }

// StudyIDFunc adapts a function to StudyIDExtractor.
type StudyIDFunc func(path string) (string, error)

func (f StudyIDFunc) ExtractStudyID(path string) (string, error) { return f(path) }

// PhaseIDFunc adapts a function to PhaseIDExtractor.
type PhaseIDFunc func(path string) (string, error)

func (f PhaseIDFunc) ExtractPhaseID(path string) (string, error) { return f(path) }

// LabelFunc adapts a function to LabelExtractor.
type LabelFunc func(imagePath, maskPath string) ([]string, []string, error)

func (f LabelFunc) ExtractLabels(imagePath, maskPath string) ([]string, []string, error) {
	return f(imagePath, maskPath)
}

// Set groups the extractors of a dataset. Phase is optional.
type Set struct {
	ImageID ImageIDExtractor
	StudyID StudyIDExtractor
	Phase   PhaseIDExtractor
	Labels  LabelExtractor
}

// Validate checks the mandatory capabilities are present.
func (s *Set) Validate(needLabels bool) error {
	if s.ImageID == nil {
		return ErrImageIDMustBeSet
	}
	if s.StudyID == nil {
		return ErrStudyIDMustBeSet
	}
	if needLabels && s.Labels == nil {
		return ErrLabelMustBeSet
	}
	return nil
}

var (
	_ ImageIDExtractor = ImageIDFunc(nil)
	_ StudyIDExtractor = StudyIDFunc(nil)
	_ PhaseIDExtractor = PhaseIDFunc(nil)
	_ LabelExtractor   = LabelFunc(nil)
)
