package steps

import (
	"context"

	"github.com/askiada/go-imgnorm/pkg/pipeline"
	"github.com/askiada/go-imgnorm/pkg/pipeline/model"
)

// addLabels assigns the canonical and source labels of every image. An image without annotation gets
// empty label lists.
func addLabels(ctx context.Context, rc *pipeline.RunContext) error {
	return rc.ForEachRecord(ctx, func(_ context.Context, rec *model.ImageRecord) error {
		maskPath := ""
		if rec.MaskPath != "" {
			maskPath = absPath(rc, rec.MaskPath)
		}
		codes, raw, err := rc.Extractors.Labels.ExtractLabels(rec.SourcePath, maskPath)
		if err != nil {
			return err
		}
		rec.Labels = nonNil(codes)
		rec.SourceLabels = nonNil(raw)
		return nil
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
