package steps

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/askiada/go-imgnorm/pkg/pipeline"
	"github.com/askiada/go-imgnorm/pkg/pipeline/model"
)

// SourcePathsFile maps every canonical image to its source files.
const SourcePathsFile = "source_paths.csv"

const maxLineSize = 1 << 20

// writeMetadata writes one JSON object per image, in the order of the image ids.
func writeMetadata(_ context.Context, rc *pipeline.RunContext) error {
	var buf bytes.Buffer
	records := rc.Records()
	for _, rec := range records {
		out := *rec
		out.Labels = nonNil(out.Labels)
		out.SourceLabels = nonNil(out.SourceLabels)
		line, err := json.Marshal(out)
		if err != nil {
			return errors.Wrapf(err, "unable to encode record of %s", rec.SourcePath)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	err := writeFile(rc.MetadataPath(), buf.Bytes())
	if err != nil {
		return err
	}
	rc.Count(len(records))
	return nil
}

// ReadMetadata reads a metadata file written by a run.
func ReadMetadata(path string) ([]model.ImageRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open metadata")
	}
	defer file.Close()

	var res []model.ImageRecord
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for line := 1; scanner.Scan(); line++ {
		if len(bytes.TrimSpace(scanner.Bytes())) == 0 {
			continue
		}
		var rec model.ImageRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, errors.Wrapf(err, "%s:%d", path, line)
		}
		res = append(res, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", path)
	}
	return res, nil
}

// storeSourcePaths writes the source files of every canonical image as CSV.
func storeSourcePaths(_ context.Context, rc *pipeline.RunContext) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	records := rc.Records()
	rows := [][]string{{"image_path", "mask_path", "source_path", "source_mask_path"}}
	for _, rec := range records {
		rows = append(rows, []string{rec.ImagePath, rec.MaskPath, rec.SourcePath, rec.SourceMaskPath})
	}
	if err := w.WriteAll(rows); err != nil {
		return errors.Wrap(err, "unable to encode source paths")
	}
	err := writeFile(filepath.Join(rc.DatasetDir(), SourcePathsFile), buf.Bytes())
	if err != nil {
		return err
	}
	rc.Count(len(records))
	return nil
}

// writeFile replaces path with data. Readers never see a partial file.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "unable to create %s", dir)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", path)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "unable to write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "unable to close %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrapf(err, "unable to set mode of %s", path)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), path), "unable to move %s", path)
}
