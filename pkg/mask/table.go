package mask

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint
)

var (
	ErrEmptyTable         = errors.New("colour table must have at least one class")
	ErrClassNameMustBeSet = errors.New("class name must be set")
	ErrDuplicateClass     = errors.New("duplicate class")
	ErrDuplicateTarget    = errors.New("target colours must be distinct")
	ErrBackgroundTaken    = errors.New("only one background class is allowed")
	ErrAmbiguousSource    = errors.New("source colour maps to more than one class")
	ErrSourceIsTarget     = errors.New("source colour is the target colour of another class")
	ErrUnknownClass       = errors.New("unknown class")
	ErrInvalidColour      = errors.New("invalid colour")
)

// RGB is an opaque 8-bit colour.
type RGB struct {
	R, G, B uint8
}

// Gray returns the gray colour with the given level.
func Gray(level uint8) RGB {
	return RGB{R: level, G: level, B: level}
}

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

func rgbOf(c color.Color) RGB {
	n, _ := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// ParseColour parses a gray level ("3"), a hex colour ("#ff0000") or a CSS rgb colour ("rgb(255,0,0)").
func ParseColour(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if level, err := strconv.ParseUint(s, 10, 8); err == nil {
		return Gray(uint8(level)), nil
	}
	parsed, err := colors.Parse(s)
	if err != nil {
		return RGB{}, errors.Wrapf(ErrInvalidColour, "%q: %v", s, err)
	}
	rgb := parsed.ToRGB()
	return RGB{R: rgb.R, G: rgb.G, B: rgb.B}, nil
}

// ClassConfig is the configuration form of a class.
type ClassConfig struct {
	Name       string   `yaml:"name" validate:"required"`
	Sources    []string `yaml:"source"`
	Target     string   `yaml:"target"`
	Background bool     `yaml:"background"`
}

// Class is a semantic class of a colour table.
type Class struct {
	Name       string
	Sources    []RGB
	Target     RGB
	Background bool
}

// Table maps source colours to canonical class colours.
type Table struct {
	classes    []Class
	lookup     map[RGB]int
	background int
}

// NewTable builds a colour table from class configurations.
// Classes without a target colour get the ordinal scheme: the background is gray level 0
// and the n-th other class is gray level n. Classes without source colours are expected to be canonical already.
func NewTable(confs []ClassConfig) (*Table, error) {
	if len(confs) == 0 {
		return nil, ErrEmptyTable
	}
	classes := make([]Class, 0, len(confs))
	ordinal := 0
	for _, conf := range confs {
		if conf.Name == "" {
			return nil, ErrClassNameMustBeSet
		}
		class := Class{Name: conf.Name, Background: conf.Background}
		if !conf.Background {
			ordinal++
		}
		switch {
		case conf.Target != "":
			target, err := ParseColour(conf.Target)
			if err != nil {
				return nil, errors.Wrapf(err, "class %s target", conf.Name)
			}
			class.Target = target
		case conf.Background:
			class.Target = Gray(0)
		default:
			class.Target = Gray(uint8(ordinal))
		}
		for _, src := range conf.Sources {
			source, err := ParseColour(src)
			if err != nil {
				return nil, errors.Wrapf(err, "class %s source", conf.Name)
			}
			class.Sources = append(class.Sources, source)
		}
		classes = append(classes, class)
	}
	return NewTableFromClasses(classes)
}

// NewTableFromClasses builds a colour table and checks its invariants.
func NewTableFromClasses(classes []Class) (*Table, error) {
	if len(classes) == 0 {
		return nil, ErrEmptyTable
	}
	t := &Table{
		classes:    make([]Class, len(classes)),
		lookup:     make(map[RGB]int),
		background: -1,
	}
	copy(t.classes, classes)

	names := make(map[string]struct{}, len(classes))
	targets := make(map[RGB]int, len(classes))
	for i, class := range t.classes {
		if class.Name == "" {
			return nil, ErrClassNameMustBeSet
		}
		if _, ok := names[class.Name]; ok {
			return nil, errors.Wrap(ErrDuplicateClass, class.Name)
		}
		names[class.Name] = struct{}{}
		if class.Background {
			if t.background >= 0 {
				return nil, errors.Wrapf(ErrBackgroundTaken, "%s and %s", t.classes[t.background].Name, class.Name)
			}
			t.background = i
		}
		if other, ok := targets[class.Target]; ok {
			return nil, errors.Wrapf(ErrDuplicateTarget, "%s and %s share %s", t.classes[other].Name, class.Name, class.Target)
		}
		targets[class.Target] = i
	}
	// Without a background class black is the implicit background colour.
	if t.background < 0 {
		if other, ok := targets[Gray(0)]; ok {
			return nil, errors.Wrapf(ErrDuplicateTarget, "%s uses the background colour", t.classes[other].Name)
		}
	}

	for i, class := range t.classes {
		t.lookup[class.Target] = i
	}
	for i, class := range t.classes {
		for _, src := range class.Sources {
			if owner, ok := targets[src]; ok && owner != i {
				return nil, errors.Wrapf(ErrSourceIsTarget, "%s source %s belongs to %s", class.Name, src, t.classes[owner].Name)
			}
			if t.background < 0 && src == Gray(0) {
				return nil, errors.Wrapf(ErrSourceIsTarget, "%s source %s is the background colour", class.Name, src)
			}
			if owner, ok := t.lookup[src]; ok && owner != i {
				return nil, errors.Wrapf(ErrAmbiguousSource, "%s for %s and %s", src, t.classes[owner].Name, class.Name)
			}
			t.lookup[src] = i
		}
	}
	return t, nil
}

// Classes returns the classes of the table in declaration order.
func (t *Table) Classes() []Class {
	out := make([]Class, len(t.classes))
	copy(out, t.classes)
	return out
}

// Background returns the background colour.
func (t *Table) Background() RGB {
	if t.background < 0 {
		return Gray(0)
	}
	return t.classes[t.background].Target
}

// Class returns the class with the given name.
func (t *Table) Class(name string) (Class, bool) {
	for _, class := range t.classes {
		if class.Name == name {
			return class, true
		}
	}
	return Class{}, false
}

// Foreground returns the non background classes in declaration order.
func (t *Table) Foreground() []Class {
	out := make([]Class, 0, len(t.classes))
	for _, class := range t.classes {
		if !class.Background {
			out = append(out, class)
		}
	}
	return out
}

// resolve returns the class index of a colour, or -1 when the colour is unmapped.
func (t *Table) resolve(c RGB) int {
	if idx, ok := t.lookup[c]; ok {
		return idx
	}
	return -1
}
