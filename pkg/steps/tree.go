package steps

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-imgnorm/pkg/pipeline"
)

// createFileTree creates the directories of the canonical tree.
func createFileTree(_ context.Context, rc *pipeline.RunContext) error {
	dirs := []string{rc.DatasetDir(), rc.ImagesDir()}
	if rc.HasMasks() || rc.Dataset.Masks != nil {
		dirs = append(dirs, rc.MasksDir())
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "unable to create %s", dir)
		}
	}
	rc.Count(len(dirs))
	return nil
}

// deleteTempFiles removes from the canonical tree every file that does not belong to an image of the
// run: files of dropped images, leftovers of interrupted writes and output of previous runs.
func deleteTempFiles(ctx context.Context, rc *pipeline.RunContext) error {
	keep := map[string]struct{}{}
	for _, rec := range rc.Records() {
		keep[rec.FileName()] = struct{}{}
	}

	dirs := []string{rc.ImagesDir(), rc.MasksDir()}
	layers, err := os.ReadDir(filepath.Join(rc.DatasetDir(), pipeline.LayersDir))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "unable to list layers")
	}
	for _, layer := range layers {
		if layer.IsDir() {
			dirs = append(dirs, filepath.Join(rc.DatasetDir(), pipeline.LayersDir, layer.Name()))
		}
	}

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "unable to list %s", dir)
		}
		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}
			if entry.IsDir() {
				continue
			}
			if _, ok := keep[entry.Name()]; ok {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if err := os.Remove(path); err != nil {
				return errors.Wrapf(err, "unable to remove %s", path)
			}
			rc.Count(1)
			rc.Logger.Debug("temporary file removed", "path", path)
		}
	}

	return removeHidden(rc)
}

// removeHidden removes the hidden files left at the root of the dataset directory by interrupted writes.
func removeHidden(rc *pipeline.RunContext) error {
	entries, err := os.ReadDir(rc.DatasetDir())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "unable to list %s", rc.DatasetDir())
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(rc.DatasetDir(), entry.Name())
		if err := os.Remove(path); err != nil {
			return errors.Wrapf(err, "unable to remove %s", path)
		}
		rc.Count(1)
	}
	return nil
}
