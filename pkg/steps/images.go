package steps

import (
	"context"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/otiai10/copy"
	"github.com/pkg/errors"

	"github.com/askiada/go-imgnorm/pkg/pipeline"
	"github.com/askiada/go-imgnorm/pkg/pipeline/model"
)

// copyImages writes every source image to the canonical tree. PNG files are copied as they are, other
// formats are decoded and encoded as PNG.
func copyImages(ctx context.Context, rc *pipeline.RunContext) error {
	return rc.ForEachRecord(ctx, func(_ context.Context, rec *model.ImageRecord) error {
		dst := filepath.Join(rc.ImagesDir(), rec.FileName())

		mt, err := mimetype.DetectFile(rec.SourcePath)
		if err != nil {
			return errors.Wrap(err, "unable to detect image format")
		}
		if mt.Is("image/png") {
			rc.Logger.Debug("copying image", "source", rec.SourcePath, "target", dst)
			return errors.Wrap(copy.Copy(rec.SourcePath, dst), "unable to copy image")
		}

		rc.Logger.Debug("converting image", "source", rec.SourcePath, "format", mt.String(), "target", dst)
		img, err := rc.Codec.Read(rec.SourcePath)
		if err != nil {
			return err
		}
		return rc.Codec.Write(dst, img)
	})
}
