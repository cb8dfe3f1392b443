package steps

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-imgnorm/pkg/pipeline"
	"github.com/askiada/go-imgnorm/pkg/pipeline/model"
)

// getFilePaths lists the source images and masks and creates one record per image, paired with its
// mask when there is one.
func getFilePaths(ctx context.Context, rc *pipeline.RunContext) error {
	images, err := listFiles(ctx, rc, rc.Paths.SourcePath, func(path string) bool {
		if !rc.Images.IsImage(path) {
			return false
		}
		return !rc.HasMasks() || !within(rc.Paths.MasksPath, path) || !rc.Masks.IsMask(path)
	})
	if err != nil {
		return errors.Wrap(err, "unable to list images")
	}
	if len(images) == 0 {
		return errors.Wrapf(ErrNoImage, "source %s", rc.Paths.SourcePath)
	}
	rc.SourceFiles = images

	var masks []string
	if rc.HasMasks() {
		masks, err = listFiles(ctx, rc, rc.Paths.MasksPath, rc.Masks.IsMask)
		if err != nil {
			return errors.Wrap(err, "unable to list masks")
		}
	}
	rc.MaskFiles = masks

	pairs, err := pairMasks(rc, images, masks)
	if err != nil {
		return err
	}
	for _, img := range images {
		err := rc.AddRecord(&model.ImageRecord{SourcePath: img, SourceMaskPath: pairs[img]})
		if err != nil {
			return err
		}
	}

	rc.Logger.Info("files found", "images", len(images), "masks", len(masks), "paired", len(pairs))
	rc.Count(len(images) + len(masks))

	return nil
}

// listFiles returns the regular files under root accepted by keep, sorted. The dataset output directory
// is skipped when it lives under root.
func listFiles(ctx context.Context, rc *pipeline.RunContext, root string, keep func(path string) bool) ([]string, error) {
	output := filepath.Clean(rc.DatasetDir())
	var res []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if filepath.Clean(path) == output {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && keep(path) {
			res = append(res, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to walk %s", root)
	}
	sort.Strings(res)
	return res, nil
}

// pairKey is the path of a file relative to root without its extension, and without suffix at the end of
// its name.
func pairKey(root, path, suffix string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", errors.Wrapf(err, "unable to get relative path of %s", path)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	if suffix != "" {
		rel = strings.TrimSuffix(rel, suffix)
	}
	return filepath.ToSlash(rel), nil
}

// pairMasks matches masks to images by relative path. When masks live in their own tree, a mask with the
// image file name is accepted if its directory is a trailing part of the image directory, or the
// reverse, so a flat mask folder pairs with a nested image tree.
func pairMasks(rc *pipeline.RunContext, images, masks []string) (map[string]string, error) {
	separate := filepath.Clean(rc.Paths.MasksPath) != filepath.Clean(rc.Paths.SourcePath)
	byPath := make(map[string]string, len(masks))
	byName := make(map[string][]string, len(masks))
	for _, m := range masks {
		key, err := pairKey(rc.Paths.MasksPath, m, rc.Dataset.MaskSuffix)
		if err != nil {
			return nil, err
		}
		if other, ok := byPath[key]; ok {
			return nil, errors.Wrapf(ErrAmbiguousMask, "%s and %s", other, m)
		}
		byPath[key] = m
		dir, name := splitKey(key)
		byName[name] = append(byName[name], dir)
	}

	res := make(map[string]string, len(masks))
	used := make(map[string]struct{}, len(masks))
	for _, img := range images {
		key, err := pairKey(rc.Paths.SourcePath, img, "")
		if err != nil {
			return nil, err
		}
		m, ok := byPath[key]
		if !ok && separate {
			dir, name := splitKey(key)
			var candidates []string
			for _, maskDir := range byName[name] {
				if sameBranch(dir, maskDir) {
					candidates = append(candidates, byPath[joinKey(maskDir, name)])
				}
			}
			if len(candidates) > 1 {
				return nil, errors.Wrapf(ErrAmbiguousMask, "%s matches %s", img, strings.Join(candidates, ", "))
			}
			if len(candidates) == 1 {
				m, ok = candidates[0], true
			}
		}
		if !ok {
			continue
		}
		res[img] = m
		used[m] = struct{}{}
	}

	for _, m := range masks {
		if _, ok := used[m]; !ok {
			rc.Logger.Warn("mask without image", "mask", m)
		}
	}
	return res, nil
}

func splitKey(key string) (string, string) {
	if i := strings.LastIndexByte(key, '/'); i >= 0 {
		return key[:i], key[i+1:]
	}
	return "", key
}

func joinKey(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// sameBranch reports whether one directory is a trailing part of the other, component-wise.
func sameBranch(a, b string) bool {
	if a == "" || b == "" || a == b {
		return true
	}
	return strings.HasSuffix("/"+a, "/"+b) || strings.HasSuffix("/"+b, "/"+a)
}

// within reports whether path lies under root.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
