package pipeline

import (
	"context"
	"image"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-imgnorm/pkg/extractor"
	"github.com/askiada/go-imgnorm/pkg/mask"
	"github.com/askiada/go-imgnorm/pkg/pipeline/model"
	"github.com/askiada/go-imgnorm/pkg/selector"
)

const (
	ImagesDir = "Images"
	MasksDir  = "Masks"
	LayersDir = "Layers"
)

// Codec reads any supported image format and writes PNG.
type Codec interface {
	Read(path string) (image.Image, error)
	Write(path string, img image.Image) error
}

// Logger is the subset of the application logger used by the engine and the steps.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Dataset is the configuration of one dataset.
type Dataset struct {
	Name string
	// Dir is the name of the dataset directory under the target path.
	Dir string
	// ZFill is the width of the zero-padded study and image ids.
	ZFill int
	// MaskSuffix is stripped from mask file names before pairing them with images.
	MaskSuffix string
	// Vocabulary maps source labels to canonical codes. Optional.
	Vocabulary extractor.Vocabulary
	// Masks is the colour table of the dataset. Required when a step handles masks.
	Masks *mask.Table
	// ThresholdLevel is used by the threshold step, 128 when zero.
	ThresholdLevel uint8
}

// RunConfig is everything a run needs.
type RunConfig struct {
	Paths      model.PathBundle
	Dataset    Dataset
	Extractors extractor.Set
	Images     selector.ImageSelector
	Masks      selector.MaskSelector
	Codec      Codec
	Logger     Logger
	// Workers bounds the number of files a step processes concurrently. 1 when zero.
	Workers int
}

// RunContext is the state shared by the steps of one run. It is created by Execute and discarded
// when the run ends.
type RunContext struct {
	Paths      model.PathBundle
	Dataset    Dataset
	Extractors extractor.Set
	Images     selector.ImageSelector
	Masks      selector.MaskSelector
	Codec      Codec
	Logger     Logger
	Workers    int

	// SourceFiles and MaskFiles are the sorted files found by discovery.
	SourceFiles []string
	MaskFiles   []string

	mu        sync.Mutex
	records   map[string]*model.ImageRecord
	processed atomic.Int64
}

// NewRunContext validates cfg and builds the context of a run.
func NewRunContext(cfg RunConfig) (*RunContext, error) {
	if cfg.Paths.SourcePath == "" {
		return nil, ErrSourcePathMustBeSet
	}
	if cfg.Paths.TargetPath == "" {
		return nil, ErrTargetPathMustBeSet
	}
	if cfg.Dataset.Dir == "" {
		return nil, ErrDatasetDirMustBeSet
	}
	if cfg.Dataset.ZFill <= 0 {
		return nil, ErrInvalidZFill
	}
	if cfg.Codec == nil {
		return nil, ErrCodecMustBeSet
	}
	if cfg.Images == nil {
		cfg.Images = selector.All
	}
	if cfg.Masks == nil {
		cfg.Masks = selector.All
	}
	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &RunContext{
		Paths:      cfg.Paths,
		Dataset:    cfg.Dataset,
		Extractors: cfg.Extractors,
		Images:     cfg.Images,
		Masks:      cfg.Masks,
		Codec:      cfg.Codec,
		Logger:     cfg.Logger,
		Workers:    cfg.Workers,
		records:    map[string]*model.ImageRecord{},
	}, nil
}

// DatasetDir is the root of the canonical tree of the dataset.
func (rc *RunContext) DatasetDir() string {
	return filepath.Join(rc.Paths.TargetPath, rc.Dataset.Dir)
}

func (rc *RunContext) ImagesDir() string {
	return filepath.Join(rc.DatasetDir(), ImagesDir)
}

func (rc *RunContext) MasksDir() string {
	return filepath.Join(rc.DatasetDir(), MasksDir)
}

// LayerDir is the directory of the indicator layers of a class.
func (rc *RunContext) LayerDir(class string) string {
	return filepath.Join(rc.DatasetDir(), LayersDir, class)
}

func (rc *RunContext) MetadataPath() string {
	return filepath.Join(rc.DatasetDir(), rc.Dataset.Dir+".jsonl")
}

// HasMasks reports whether the dataset comes with source masks.
func (rc *RunContext) HasMasks() bool {
	return rc.Paths.MasksPath != ""
}

// AddRecord registers the record of a source image.
func (rc *RunContext) AddRecord(rec *model.ImageRecord) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if _, ok := rc.records[rec.SourcePath]; ok {
		return errors.Wrap(ErrDuplicateRecord, rec.SourcePath)
	}
	rc.records[rec.SourcePath] = rec
	return nil
}

// Record returns the record of a source image.
func (rc *RunContext) Record(sourcePath string) (*model.ImageRecord, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rec, ok := rc.records[sourcePath]
	return rec, ok
}

// Records returns the records that are part of the canonical tree, sorted by source path.
func (rc *RunContext) Records() []*model.ImageRecord {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	res := make([]*model.ImageRecord, 0, len(rc.records))
	for _, rec := range rc.records {
		if rec.Dropped {
			continue
		}
		res = append(res, rec)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].SourcePath < res[j].SourcePath })
	return res
}

// Processed returns the number of files processed by the current step.
func (rc *RunContext) Processed() int64 {
	return rc.processed.Load()
}

// ForEachFile calls fn for every file with at most Workers concurrent calls. It returns once every call
// is done. The first error cancels the calls not started yet.
func (rc *RunContext) ForEachFile(ctx context.Context, files []string, fn func(ctx context.Context, path string) error) error {
	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(rc.Workers)
	for _, file := range files {
		errGrp.Go(func() error {
			if err := dCtx.Err(); err != nil {
				return err
			}
			if err := fn(dCtx, file); err != nil {
				return errors.Wrapf(err, "file %s", file)
			}
			rc.processed.Add(1)
			return nil
		})
	}
	return errGrp.Wait()
}

// ForEachRecord calls fn for every record of the canonical tree like ForEachFile.
func (rc *RunContext) ForEachRecord(ctx context.Context, fn func(ctx context.Context, rec *model.ImageRecord) error) error {
	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(rc.Workers)
	for _, rec := range rc.Records() {
		errGrp.Go(func() error {
			if err := dCtx.Err(); err != nil {
				return err
			}
			if err := fn(dCtx, rec); err != nil {
				return errors.Wrapf(err, "file %s", rec.SourcePath)
			}
			rc.processed.Add(1)
			return nil
		})
	}
	return errGrp.Wait()
}

// Count adds n to the number of files processed by the current step, for steps that do not use
// ForEachFile or ForEachRecord.
func (rc *RunContext) Count(n int) {
	rc.processed.Add(int64(n))
}
