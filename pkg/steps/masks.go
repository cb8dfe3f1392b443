package steps

import (
	"context"
	"image"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/askiada/go-imgnorm/pkg/mask"
	"github.com/askiada/go-imgnorm/pkg/pipeline"
	"github.com/askiada/go-imgnorm/pkg/pipeline/model"
)

const defaultThreshold = 128

func maskFile(rc *pipeline.RunContext, rec *model.ImageRecord) string {
	return filepath.Join(rc.MasksDir(), rec.FileName())
}

// forEachMask runs fn on the records with a canonical mask.
func forEachMask(ctx context.Context, rc *pipeline.RunContext, fn func(rec *model.ImageRecord, path string) error) error {
	return rc.ForEachRecord(ctx, func(_ context.Context, rec *model.ImageRecord) error {
		if rec.MaskPath == "" {
			return nil
		}
		return fn(rec, absPath(rc, rec.MaskPath))
	})
}

// copyMasks writes the source mask of every image to the canonical tree as PNG.
func copyMasks(ctx context.Context, rc *pipeline.RunContext) error {
	return rc.ForEachRecord(ctx, func(_ context.Context, rec *model.ImageRecord) error {
		if !rec.HasMask() {
			return nil
		}
		img, err := rc.Codec.Read(rec.SourceMaskPath)
		if err != nil {
			return errors.Wrap(err, "unable to read source mask")
		}
		err = rc.Codec.Write(maskFile(rc, rec), img)
		if err != nil {
			return err
		}
		rec.MaskPath = treePath(pipeline.MasksDir, rec.FileName())
		return nil
	})
}

// rasterizePolygonMasks draws the polygon annotations of every image into a canonical mask.
func rasterizePolygonMasks(ctx context.Context, rc *pipeline.RunContext) error {
	return rc.ForEachRecord(ctx, func(_ context.Context, rec *model.ImageRecord) error {
		if !rec.HasMask() {
			return nil
		}
		file, err := os.Open(rec.SourceMaskPath)
		if err != nil {
			return errors.Wrap(err, "unable to open annotation")
		}
		defer file.Close()

		ann, err := mask.DecodePolygons(file)
		if err != nil {
			return errors.Wrapf(err, "annotation %s", rec.SourceMaskPath)
		}
		img, err := mask.Rasterize(image.Rect(0, 0, ann.Width, ann.Height), ann.Polygons, rc.Dataset.Masks)
		if err != nil {
			return errors.Wrapf(err, "annotation %s", rec.SourceMaskPath)
		}
		err = rc.Codec.Write(maskFile(rc, rec), img)
		if err != nil {
			return err
		}
		rec.MaskPath = treePath(pipeline.MasksDir, rec.FileName())
		return nil
	})
}

// thresholdMasks turns lossy masks into pure black and white masks.
func thresholdMasks(ctx context.Context, rc *pipeline.RunContext) error {
	level := rc.Dataset.ThresholdLevel
	if level == 0 {
		level = defaultThreshold
	}
	return forEachMask(ctx, rc, func(_ *model.ImageRecord, path string) error {
		img, err := rc.Codec.Read(path)
		if err != nil {
			return err
		}
		return rc.Codec.Write(path, mask.Threshold(img, level))
	})
}

// recolorMasks maps every mask to the target colours of the dataset colour table.
func recolorMasks(ctx context.Context, rc *pipeline.RunContext) error {
	return forEachMask(ctx, rc, func(_ *model.ImageRecord, path string) error {
		img, err := rc.Codec.Read(path)
		if err != nil {
			return err
		}
		return rc.Codec.Write(path, mask.Recolor(img, rc.Dataset.Masks))
	})
}

// createBlankMasks gives every image without a mask an all-background mask of the same size.
func createBlankMasks(ctx context.Context, rc *pipeline.RunContext) error {
	return rc.ForEachRecord(ctx, func(_ context.Context, rec *model.ImageRecord) error {
		if rec.MaskPath != "" {
			return nil
		}
		img, err := rc.Codec.Read(absPath(rc, rec.ImagePath))
		if err != nil {
			return errors.Wrap(err, "unable to read canonical image")
		}
		err = rc.Codec.Write(maskFile(rc, rec), mask.Blank(img.Bounds(), rc.Dataset.Masks))
		if err != nil {
			return err
		}
		rec.MaskPath = treePath(pipeline.MasksDir, rec.FileName())
		rc.Logger.Debug("blank mask created", "image", rec.ImagePath)
		return nil
	})
}

// binarizeMasks writes one indicator layer per foreground class of every mask.
func binarizeMasks(ctx context.Context, rc *pipeline.RunContext) error {
	return forEachMask(ctx, rc, func(rec *model.ImageRecord, path string) error {
		img, err := rc.Codec.Read(path)
		if err != nil {
			return err
		}
		for _, layer := range mask.Binarize(img, rc.Dataset.Masks) {
			err := rc.Codec.Write(filepath.Join(rc.LayerDir(layer.Class), rec.FileName()), layer.Image)
			if err != nil {
				return errors.Wrapf(err, "layer %s", layer.Class)
			}
		}
		return nil
	})
}
