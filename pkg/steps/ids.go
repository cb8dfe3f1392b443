package steps

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/askiada/go-imgnorm/pkg/pipeline"
)

// addNewIDs extracts the source ids of every image and replaces them by zero-padded numbers. Studies are
// numbered in the sorted order of their source ids, images in the sorted order of their source paths.
// A (study, phase, image) triple must be unique.
func addNewIDs(ctx context.Context, rc *pipeline.RunContext) error {
	records := rc.Records()
	studies := map[string]int{}
	seen := map[[3]string]string{}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		study, err := rc.Extractors.StudyID.ExtractStudyID(rec.SourcePath)
		if err != nil {
			return errors.Wrapf(err, "unable to extract study id of %s", rec.SourcePath)
		}
		image, err := rc.Extractors.ImageID.ExtractImageID(rec.SourcePath)
		if err != nil {
			return errors.Wrapf(err, "unable to extract image id of %s", rec.SourcePath)
		}
		if study == "" || image == "" {
			return errors.Wrapf(ErrEmptyID, "%s", rec.SourcePath)
		}
		if rc.Extractors.Phase != nil {
			phase, err := rc.Extractors.Phase.ExtractPhaseID(rec.SourcePath)
			if err != nil {
				return errors.Wrapf(err, "unable to extract phase of %s", rec.SourcePath)
			}
			rec.PhaseID = phase
		}

		// Windows of the same slice share study and image ids and differ by phase.
		key := [3]string{study, rec.PhaseID, image}
		if other, ok := seen[key]; ok {
			return errors.Wrapf(ErrDuplicateImageID, "%s and %s are both image %q of study %q", other, rec.SourcePath, image, study)
		}
		seen[key] = rec.SourcePath
		rec.SourceStudyID = study
		rec.SourceImageID = image
		studies[study] = 0
	}

	width := rc.Dataset.ZFill
	if err := checkWidth(len(records), width); err != nil {
		return errors.Wrap(err, "images")
	}
	if err := checkWidth(len(studies), width); err != nil {
		return errors.Wrap(err, "studies")
	}

	studyIDs := make([]string, 0, len(studies))
	for study := range studies {
		studyIDs = append(studyIDs, study)
	}
	sort.Strings(studyIDs)
	for i, study := range studyIDs {
		studies[study] = i + 1
	}

	for i, rec := range records {
		rec.StudyID = pad(studies[rec.SourceStudyID], width)
		rec.ImageID = pad(i+1, width)
		rec.ImagePath = treePath(pipeline.ImagesDir, rec.FileName())
	}
	rc.Count(len(records))

	return nil
}

// checkWidth fails when n cannot be written with width digits.
func checkWidth(n, width int) error {
	if width >= 18 {
		return nil
	}
	limit := 1
	for range width {
		limit *= 10
	}
	if n >= limit {
		return errors.Wrapf(ErrIDOverflow, "%d ids with zfill %d", n, width)
	}
	return nil
}

func pad(n, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}

// treePath is the slash separated path of a file relative to the dataset directory.
func treePath(elem ...string) string {
	return filepath.ToSlash(filepath.Join(elem...))
}

// absPath resolves a tree path against the dataset directory.
func absPath(rc *pipeline.RunContext, rel string) string {
	return filepath.Join(rc.DatasetDir(), filepath.FromSlash(rel))
}
