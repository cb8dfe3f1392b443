package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-imgnorm/pkg/pipeline"
	"github.com/askiada/go-imgnorm/pkg/pipeline/model"
)

// Violation is a single problem found in a dataset tree.
type Violation struct {
	Path   string
	Reason string
}

func (v Violation) String() string {
	return v.Path + ": " + v.Reason
}

// ValidationError lists every violation found by Validate.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		lines = append(lines, v.String())
	}
	return fmt.Sprintf("%d violations: %s", len(e.Violations), strings.Join(lines, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidTree
}

type validator struct {
	rc         *pipeline.RunContext
	violations []Violation
}

func (v *validator) add(path, format string, args ...any) {
	v.violations = append(v.violations, Violation{Path: path, Reason: fmt.Sprintf(format, args...)})
}

// Validate checks the canonical tree of a run. Every violation is reported in a single *ValidationError.
func Validate(rc *pipeline.RunContext) error {
	v := &validator{rc: rc}

	images := v.listFiles(rc.ImagesDir(), true)
	records, ok := v.readRecords()
	if ok && len(records) == 0 {
		v.add(rc.MetadataPath(), "dataset has no image")
	}

	v.checkRecords(records)
	v.checkImages(images, records)
	if rc.HasMasks() {
		v.checkMasks(images, v.listFiles(rc.MasksDir(), false))
	}

	if len(v.violations) == 0 {
		return nil
	}
	sort.SliceStable(v.violations, func(i, j int) bool {
		return v.violations[i].Path < v.violations[j].Path
	})
	return &ValidationError{Violations: v.violations}
}

// listFiles returns the file names of dir, ignoring hidden files.
func (v *validator) listFiles(dir string, required bool) map[string]struct{} {
	res := map[string]struct{}{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if required || !errors.Is(err, os.ErrNotExist) {
			v.add(dir, "unable to list directory: %v", err)
		}
		return res
	}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		res[entry.Name()] = struct{}{}
	}
	return res
}

func (v *validator) readRecords() ([]model.ImageRecord, bool) {
	path := v.rc.MetadataPath()
	records, err := ReadMetadata(path)
	if err != nil {
		v.add(path, "unable to read metadata: %v", err)
		return nil, false
	}
	return records, true
}

func (v *validator) checkID(path, kind, id string) {
	width := v.rc.Dataset.ZFill
	if len(id) != width {
		v.add(path, "%s id %q is not %d characters wide", kind, id, width)
		return
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			v.add(path, "%s id %q is not a number", kind, id)
			return
		}
	}
}

func (v *validator) checkRecords(records []model.ImageRecord) {
	codes := v.rc.Dataset.Vocabulary.Known()
	imageIDs := map[string]string{}
	for _, rec := range records {
		path := rec.SourcePath
		v.checkID(path, "study", rec.StudyID)
		v.checkID(path, "image", rec.ImageID)
		if other, ok := imageIDs[rec.ImageID]; ok {
			v.add(path, "image id %q already used by %s", rec.ImageID, other)
		}
		imageIDs[rec.ImageID] = path

		if rec.ImagePath == "" {
			v.add(path, "record has no image path")
		} else if !exists(absPath(v.rc, rec.ImagePath)) {
			v.add(path, "image %s does not exist", rec.ImagePath)
		}
		if rec.MaskPath != "" && !exists(absPath(v.rc, rec.MaskPath)) {
			v.add(path, "mask %s does not exist", rec.MaskPath)
		}
		if v.rc.HasMasks() && rec.MaskPath == "" {
			v.add(path, "image has no mask")
		}
		if codes != nil {
			for _, label := range rec.Labels {
				if _, ok := codes[label]; !ok {
					v.add(path, "label %q is not a canonical code", label)
				}
			}
		}
	}
}

func (v *validator) checkImages(images map[string]struct{}, records []model.ImageRecord) {
	referenced := make(map[string]struct{}, len(records))
	for _, rec := range records {
		referenced[filepath.Base(filepath.FromSlash(rec.ImagePath))] = struct{}{}
	}
	for name := range images {
		if _, ok := referenced[name]; !ok {
			v.add(filepath.Join(v.rc.ImagesDir(), name), "image has no metadata record")
		}
	}
}

func (v *validator) checkMasks(images, masks map[string]struct{}) {
	for name := range images {
		if _, ok := masks[name]; !ok {
			v.add(filepath.Join(v.rc.ImagesDir(), name), "image has no mask file")
		}
	}
	for name := range masks {
		if _, ok := images[name]; !ok {
			v.add(filepath.Join(v.rc.MasksDir(), name), "mask has no image")
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// validateData fails the run when the canonical tree is not valid.
func validateData(_ context.Context, rc *pipeline.RunContext) error {
	err := Validate(rc)
	if err != nil {
		return err
	}
	rc.Count(len(rc.Records()))
	rc.Logger.Info("dataset valid", "dataset", rc.Dataset.Name, "images", len(rc.Records()))
	return nil
}
