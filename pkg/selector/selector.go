// Package selector filters raw directory listings into images and masks.
package selector

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

var ErrInvalidPattern = errors.New("invalid glob pattern")

// ImageSelector reports whether a file is a source image.
type ImageSelector interface {
	IsImage(path string) bool
}

// MaskSelector reports whether a file is a source mask.
type MaskSelector interface {
	IsMask(path string) bool
}

// Selector matches a path. Every selector of this package is both an ImageSelector and a MaskSelector.
type Selector interface {
	ImageSelector
	MaskSelector
}

// Func adapts a predicate to Selector.
type Func func(path string) bool

func (f Func) IsImage(path string) bool { return f(path) }
func (f Func) IsMask(path string) bool  { return f(path) }

// All matches every file.
var All = Func(func(string) bool { return true })

// Glob matches paths relative to Root against doublestar patterns.
// A path is selected when it matches one of Include and none of Exclude.
type Glob struct {
	Root    string
	Include []string
	Exclude []string
}

// NewGlob validates the patterns.
func NewGlob(root string, include, exclude []string) (*Glob, error) {
	for _, pattern := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Wrap(ErrInvalidPattern, pattern)
		}
	}
	return &Glob{Root: root, Include: include, Exclude: exclude}, nil
}

func (g *Glob) match(path string) bool {
	rel := path
	if g.Root != "" {
		if r, err := filepath.Rel(g.Root, path); err == nil {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range g.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	for _, pattern := range g.Include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (g *Glob) IsImage(path string) bool { return g.match(path) }
func (g *Glob) IsMask(path string) bool  { return g.match(path) }

// Contains matches file names containing Substr.
type Contains struct {
	Substr string
}

func (c Contains) match(path string) bool {
	return strings.Contains(filepath.Base(path), c.Substr)
}

func (c Contains) IsImage(path string) bool { return c.match(path) }
func (c Contains) IsMask(path string) bool  { return c.match(path) }

// Not inverts a selector.
type Not struct {
	Selector Selector
}

func (n Not) IsImage(path string) bool { return !n.Selector.IsImage(path) }
func (n Not) IsMask(path string) bool  { return !n.Selector.IsMask(path) }

// And matches when every selector matches.
type And []Selector

func (a And) IsImage(path string) bool {
	for _, s := range a {
		if !s.IsImage(path) {
			return false
		}
	}
	return true
}

func (a And) IsMask(path string) bool {
	for _, s := range a {
		if !s.IsMask(path) {
			return false
		}
	}
	return true
}

// MIME sniffs the content of the file and matches image formats.
// Unreadable files are not selected.
type MIME struct{}

func (MIME) match(path string) bool {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return false
	}
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}

func (m MIME) IsImage(path string) bool { return m.match(path) }
func (m MIME) IsMask(path string) bool  { return m.match(path) }

var (
	_ Selector = Func(nil)
	_ Selector = (*Glob)(nil)
	_ Selector = Contains{}
	_ Selector = Not{}
	_ Selector = And{}
	_ Selector = MIME{}
)
