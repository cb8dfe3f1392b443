package steps_test

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-imgnorm/internal/codec"
	"github.com/askiada/go-imgnorm/pkg/extractor"
	"github.com/askiada/go-imgnorm/pkg/mask"
	"github.com/askiada/go-imgnorm/pkg/pipeline"
	"github.com/askiada/go-imgnorm/pkg/pipeline/model"
	"github.com/askiada/go-imgnorm/pkg/selector"
	"github.com/askiada/go-imgnorm/pkg/steps"
)

var brainSteps = []string{
	steps.GetFilePaths,
	steps.CreateFileTree,
	steps.AddNewIDs,
	steps.CopyImages,
	steps.CopyMasks,
	steps.RecolorMasks,
	steps.CreateBlankMasks,
	steps.BinarizeMasks,
	steps.AddLabels,
	steps.DeleteTempFiles,
	steps.WriteMetadata,
	steps.StoreSourcePaths,
	steps.ValidateData,
}

var chestSteps = []string{
	steps.CreateFileTree,
	steps.GetFilePaths,
	steps.AddNewIDs,
	steps.CopyImages,
	steps.AddLabels,
	steps.DeleteTempFiles,
	steps.WriteMetadata,
	steps.ValidateData,
}

func create(t *testing.T, path string, encode func(f *os.File) error) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, encode(file))
	require.NoError(t, file.Close())
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	create(t, path, func(f *os.File) error { return png.Encode(f, img) })
}

func writeJPEG(t *testing.T, path string, img image.Image) {
	t.Helper()
	create(t, path, func(f *os.File) error { return jpeg.Encode(f, img, &jpeg.Options{Quality: 100}) })
}

func writeText(t *testing.T, path, content string) {
	t.Helper()
	create(t, path, func(f *os.File) error {
		_, err := f.WriteString(content)
		return err
	})
}

// scan is a small gray image with a gradient.
func scan(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetGray(x, y, color.Gray{Y: uint8(16 * (x + y))})
		}
	}
	return img
}

// lesion is a black mask with a red square in its top left corner.
func lesion(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			c := color.RGBA{A: 0xff}
			if x < 2 && y < 2 {
				c.R = 0xff
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func brainTable(t *testing.T) *mask.Table {
	t.Helper()
	table, err := mask.NewTable([]mask.ClassConfig{
		{Name: "background", Background: true},
		{Name: "hemorrhage", Sources: []string{"#ff0000"}},
	})
	require.NoError(t, err)
	return table
}

// brainSource creates a study with an image with a mask and an image without mask.
func brainSource(t *testing.T, phase string) string {
	t.Helper()
	src := t.TempDir()
	writePNG(t, filepath.Join(src, "049", phase, "10.png"), scan(4, 4))
	writePNG(t, filepath.Join(src, "049", phase, "10_HGE_Seg.png"), lesion(4, 4))
	writeJPEG(t, filepath.Join(src, "049", phase, "11.jpg"), scan(4, 4))
	return src
}

func brainConfig(t *testing.T, src, target string) pipeline.RunConfig {
	t.Helper()
	table := brainTable(t)
	vocabulary := extractor.Vocabulary{"hemorrhage": {"hemorrhage"}, "normal": {"normal"}}
	cdc := codec.New()

	return pipeline.RunConfig{
		Paths: model.PathBundle{SourcePath: src, MasksPath: src, TargetPath: target},
		Dataset: pipeline.Dataset{
			Name:       "brain_with_intracranial_hemorrhage",
			Dir:        "brain-with-intracranial-hemorrhage",
			ZFill:      3,
			MaskSuffix: "_HGE_Seg",
			Vocabulary: vocabulary,
			Masks:      table,
		},
		Extractors: extractor.Set{
			ImageID: extractor.Basename{},
			StudyID: extractor.ParentDir{Level: 2},
			Phase:   extractor.PhaseTable{Level: 1, Phases: map[string]string{"brain": "1"}},
			Labels: extractor.MaskClasses{
				Table:      table,
				Vocabulary: vocabulary,
				Fallback:   "normal",
				Decode:     cdc.Read,
			},
		},
		Images:  selector.Contains{Substr: "."},
		Masks:   selector.Contains{Substr: "_HGE_Seg"},
		Codec:   cdc,
		Workers: 2,
	}
}

const chestCSV = `Image Index,Finding Labels
00000001_000.png,Cardiomegaly
00000002_000.png,Cardiomegaly|Emphysema
`

func chestConfig(t *testing.T, src, target string) pipeline.RunConfig {
	t.Helper()
	labelsPath := filepath.Join(t.TempDir(), "Data_Entry_2017.csv")
	writeText(t, labelsPath, chestCSV)
	vocabulary := extractor.Vocabulary{"Cardiomegaly": {"RID1385"}, "Emphysema": {"RID4799"}}
	labels, err := extractor.LoadLabelTable(labelsPath, extractor.LabelTableOptions{
		KeyColumn:   "Image Index",
		LabelColumn: "Finding Labels",
		Separator:   "|",
		Vocabulary:  vocabulary,
	})
	require.NoError(t, err)

	return pipeline.RunConfig{
		Paths: model.PathBundle{SourcePath: src, LabelsPath: labelsPath, TargetPath: target},
		Dataset: pipeline.Dataset{
			Name:       "chest_xray14",
			Dir:        "chest-xray14",
			ZFill:      4,
			Vocabulary: vocabulary,
		},
		Extractors: extractor.Set{
			ImageID: extractor.Separator{Sep: "_", Index: 1},
			StudyID: extractor.Separator{Sep: "_", Index: 0},
			Labels:  labels,
		},
		Codec: codec.New(),
	}
}

func chestSource(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	for _, name := range []string{"00000001_000.png", "00000002_000.png", "00000099_000.png"} {
		writePNG(t, filepath.Join(src, "images", name), scan(3, 3))
	}
	return src
}

func execute(t *testing.T, names []string, cfg pipeline.RunConfig) (*pipeline.RunResult, error) {
	t.Helper()
	pipe, err := steps.Build(cfg.Dataset.Name, names)
	require.NoError(t, err)
	return pipe.Execute(context.Background(), cfg)
}

func readMetadata(t *testing.T, cfg pipeline.RunConfig) []model.ImageRecord {
	t.Helper()
	records, err := steps.ReadMetadata(filepath.Join(cfg.Paths.TargetPath, cfg.Dataset.Dir, cfg.Dataset.Dir+".jsonl"))
	require.NoError(t, err)
	return records
}

func datasetFile(cfg pipeline.RunConfig, elem ...string) string {
	return filepath.Join(append([]string{cfg.Paths.TargetPath, cfg.Dataset.Dir}, elem...)...)
}

func readImage(t *testing.T, path string) image.Image {
	t.Helper()
	img, err := codec.New().Read(path)
	require.NoError(t, err)
	return img
}

func grayAt(img image.Image, x, y int) uint8 {
	r, _, _, _ := img.At(x, y).RGBA()
	return uint8(r >> 8)
}

func calciumTable(t *testing.T) *mask.Table {
	t.Helper()
	table, err := mask.NewTable([]mask.ClassConfig{{Name: "calcium"}})
	require.NoError(t, err)
	return table
}

func globSelector(t *testing.T, root string, include ...string) *selector.Glob {
	t.Helper()
	glob, err := selector.NewGlob(root, include, nil)
	require.NoError(t, err)
	return glob
}
