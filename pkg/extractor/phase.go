package extractor

import (
	"github.com/pkg/errors"
)

// PhaseTable resolves the phase of a file from the name of one of its ancestor directories.
type PhaseTable struct {
	// Level is the ancestor directory holding the phase name, 1 being the parent directory.
	Level int
	// Phases maps source phase names to phase ids.
	Phases map[string]string
}

// ExtractPhaseID returns ErrUnknownPhase when the phase name is absent from the table.
func (p PhaseTable) ExtractPhaseID(path string) (string, error) {
	name, err := ParentDir{Level: p.Level}.segment(path)
	if err != nil {
		return "", err
	}
	id, ok := p.Phases[name]
	if !ok {
		return "", errors.Wrapf(ErrUnknownPhase, "phase %q of %s", name, path)
	}
	return id, nil
}

var _ PhaseIDExtractor = PhaseTable{}
