package extractor

import (
	"encoding/csv"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/askiada/go-imgnorm/pkg/mask"
)

// Vocabulary maps raw source labels to canonical label codes.
type Vocabulary map[string][]string

// Codes translates raw labels. A nil vocabulary keeps the raw labels as codes.
func (v Vocabulary) Codes(raw []string) ([]string, error) {
	codes := []string{}
	for _, label := range raw {
		if v == nil {
			codes = append(codes, label)
			continue
		}
		mapped, ok := v[label]
		if !ok {
			return nil, errors.Wrap(ErrUnknownLabel, label)
		}
		codes = append(codes, mapped...)
	}
	return codes, nil
}

// Known returns the set of canonical codes, nil for a nil vocabulary.
func (v Vocabulary) Known() map[string]struct{} {
	if v == nil {
		return nil
	}
	res := map[string]struct{}{}
	for _, codes := range v {
		for _, code := range codes {
			res[code] = struct{}{}
		}
	}
	return res
}

// LabelTableOptions describes the layout of a label side table.
type LabelTableOptions struct {
	// KeyColumn holds the source image file name.
	KeyColumn string
	// LabelColumn holds the labels of the image.
	LabelColumn string
	// Separator splits multiple labels of one cell. Empty means one label per cell.
	Separator string
	// Vocabulary translates raw labels to codes.
	Vocabulary Vocabulary
}

// LabelTable extracts labels from CSV side tables keyed by file name.
// Keys are compared without extension so a table listing DICOM files can label converted images.
type LabelTable struct {
	rows       map[string][]string
	vocabulary Vocabulary
}

// LoadLabelTable reads a CSV file, or every CSV file below a directory.
func LoadLabelTable(path string, opts LabelTableOptions) (*LabelTable, error) {
	if path == "" {
		return nil, ErrLabelTableMustBeSet
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to stat label table")
	}
	files := []string{path}
	if info.IsDir() {
		files, err = doublestar.FilepathGlob(filepath.Join(path, "**", "*.csv"))
		if err != nil {
			return nil, errors.Wrapf(err, "unable to list label tables in %s", path)
		}
		sort.Strings(files)
	}
	table := &LabelTable{rows: make(map[string][]string), vocabulary: opts.Vocabulary}
	for _, file := range files {
		err := table.load(file, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to load label table %s", file)
		}
	}
	return table, nil
}

func (t *LabelTable) load(path string, opts LabelTableOptions) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return errors.Wrap(err, "unable to read header")
	}
	keyIdx, labelIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case opts.KeyColumn:
			keyIdx = i
		case opts.LabelColumn:
			labelIdx = i
		}
	}
	if keyIdx < 0 || labelIdx < 0 {
		return errors.Errorf("columns %q and %q are required", opts.KeyColumn, opts.LabelColumn)
	}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "unable to read row")
		}
		if keyIdx >= len(record) || labelIdx >= len(record) {
			continue
		}
		key := strings.TrimSpace(record[keyIdx])
		cell := strings.TrimSpace(record[labelIdx])
		if key == "" || cell == "" {
			continue
		}
		labels := []string{cell}
		if opts.Separator != "" {
			labels = strings.Split(cell, opts.Separator)
		}
		for _, label := range labels {
			t.add(Stem(key), strings.TrimSpace(label))
		}
	}
}

func (t *LabelTable) add(key, label string) {
	for _, existing := range t.rows[key] {
		if existing == label {
			return
		}
	}
	t.rows[key] = append(t.rows[key], label)
}

// ExtractLabels returns empty lists when the image is absent from the table.
func (t *LabelTable) ExtractLabels(imagePath, _ string) ([]string, []string, error) {
	raw, ok := t.rows[Stem(imagePath)]
	if !ok {
		return []string{}, []string{}, nil
	}
	codes, err := t.vocabulary.Codes(raw)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "labels of %s", imagePath)
	}
	return codes, append([]string{}, raw...), nil
}

// Decoder reads an image file.
type Decoder func(path string) (image.Image, error)

// MaskClasses labels an image with the classes present in its canonical mask.
// Images without a mask, or with a mask without any class, get the Fallback label when it is set.
type MaskClasses struct {
	Table      *mask.Table
	Vocabulary Vocabulary
	Fallback   string
	Decode     Decoder
}

func (m MaskClasses) ExtractLabels(_, maskPath string) ([]string, []string, error) {
	raw := []string{}
	if maskPath != "" {
		img, err := m.Decode(maskPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, nil, errors.Wrapf(err, "unable to read mask %s", maskPath)
		default:
			raw = mask.Classes(img, m.Table)
		}
	}
	if len(raw) == 0 && m.Fallback != "" {
		raw = []string{m.Fallback}
	}
	codes, err := m.Vocabulary.Codes(raw)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "labels of mask %s", maskPath)
	}
	return codes, raw, nil
}

var (
	_ LabelExtractor = (*LabelTable)(nil)
	_ LabelExtractor = MaskClasses{}
)
