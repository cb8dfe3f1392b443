package extractor

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Stem returns the file name without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Basename uses the file stem as id.
type Basename struct{}

func (Basename) segment(path string) (string, error) {
	stem := Stem(path)
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return "", errors.Wrapf(ErrMalformedPath, "no file name in %s", path)
	}
	return stem, nil
}

func (b Basename) ExtractImageID(path string) (string, error) { return b.segment(path) }
func (b Basename) ExtractStudyID(path string) (string, error) { return b.segment(path) }

// Separator splits the file stem on Sep and uses the part at Index.
// A negative index counts from the end.
type Separator struct {
	Sep   string
	Index int
}

func (s Separator) segment(path string) (string, error) {
	stem := Stem(path)
	parts := strings.Split(stem, s.Sep)
	idx := s.Index
	if idx < 0 {
		idx += len(parts)
	}
	if s.Sep == "" || idx < 0 || idx >= len(parts) || parts[idx] == "" {
		return "", errors.Wrapf(ErrMalformedPath, "no part %d separated by %q in %s", s.Index, s.Sep, path)
	}
	return parts[idx], nil
}

func (s Separator) ExtractImageID(path string) (string, error) { return s.segment(path) }
func (s Separator) ExtractStudyID(path string) (string, error) { return s.segment(path) }

// ParentDir uses the name of an ancestor directory. Level 1 is the directory holding the file.
type ParentDir struct {
	Level int
}

func (p ParentDir) segment(path string) (string, error) {
	dir := filepath.Dir(filepath.Clean(path))
	level := p.Level
	if level <= 0 {
		level = 1
	}
	for i := 1; i < level; i++ {
		dir = filepath.Dir(dir)
	}
	name := filepath.Base(dir)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "", errors.Wrapf(ErrMalformedPath, "no parent directory at level %d in %s", level, path)
	}
	return name, nil
}

func (p ParentDir) ExtractImageID(path string) (string, error) { return p.segment(path) }
func (p ParentDir) ExtractStudyID(path string) (string, error) { return p.segment(path) }

// Constant returns the same id for every file, for datasets without studies.
type Constant struct {
	Value string
}

func (c Constant) ExtractStudyID(string) (string, error) {
	if c.Value == "" {
		return "", errors.Wrap(ErrMalformedPath, "constant id is empty")
	}
	return c.Value, nil
}

var (
	_ ImageIDExtractor = Basename{}
	_ StudyIDExtractor = Basename{}
	_ ImageIDExtractor = Separator{}
	_ StudyIDExtractor = Separator{}
	_ ImageIDExtractor = ParentDir{}
	_ StudyIDExtractor = ParentDir{}
	_ StudyIDExtractor = Constant{}
)
