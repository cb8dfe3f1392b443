package steps

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/askiada/go-imgnorm/pkg/pipeline"
	"github.com/askiada/go-imgnorm/pkg/pipeline/model"
)

// drop removes the files of a record from the canonical tree and the record from the run.
func drop(rc *pipeline.RunContext, rec *model.ImageRecord) error {
	files := []string{filepath.Join(rc.ImagesDir(), rec.FileName()), maskFile(rc, rec)}
	if rc.Dataset.Masks != nil {
		for _, class := range rc.Dataset.Masks.Foreground() {
			files = append(files, filepath.Join(rc.LayerDir(class.Name), rec.FileName()))
		}
	}
	for _, file := range files {
		err := os.Remove(file)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return errors.Wrapf(err, "unable to remove %s", file)
		}
	}
	rec.Dropped = true
	rc.Count(1)
	rc.Logger.Debug("image dropped", "source", rec.SourcePath)
	return nil
}

// deleteImgsWithoutMasks drops the images that have no mask.
func deleteImgsWithoutMasks(ctx context.Context, rc *pipeline.RunContext) error {
	for _, rec := range rc.Records() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if rec.MaskPath != "" {
			continue
		}
		if err := drop(rc, rec); err != nil {
			return err
		}
	}
	return nil
}

// deleteImgsWithNoAnnotations drops the images that have no label.
func deleteImgsWithNoAnnotations(ctx context.Context, rc *pipeline.RunContext) error {
	for _, rec := range rc.Records() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(rec.Labels) > 0 {
			continue
		}
		if err := drop(rc, rec); err != nil {
			return err
		}
	}
	return nil
}
