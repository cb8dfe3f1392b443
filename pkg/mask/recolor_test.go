package mask_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/askiada/go-imgnorm/pkg/mask"
)

func TestRecolor(t *testing.T) {
	t.Parallel()

	table := newTable(t,
		mask.ClassConfig{Name: "kidney", Sources: []string{"#ff0000"}},
		mask.ClassConfig{Name: "tumor", Sources: []string{"#00ff00", "#00fe00"}},
	)
	src := paint(t,
		[]mask.RGB{red, green, {G: 254}},
		[]mask.RGB{white, {B: 255}, mask.Gray(0)},
	)

	got := mask.Recolor(src, table)

	assert.Equal(t, mask.Gray(1), pixel(got, 0, 0))
	assert.Equal(t, mask.Gray(2), pixel(got, 1, 0))
	assert.Equal(t, mask.Gray(2), pixel(got, 2, 0))
	// unmapped colours are background
	assert.Equal(t, mask.Gray(0), pixel(got, 0, 1))
	assert.Equal(t, mask.Gray(0), pixel(got, 1, 1))
	assert.Equal(t, mask.Gray(0), pixel(got, 2, 1))
}

func TestRecolorIdempotent(t *testing.T) {
	t.Parallel()

	table := newTable(t,
		mask.ClassConfig{Name: "background", Background: true, Target: "#000000", Sources: []string{"#ffffff"}},
		mask.ClassConfig{Name: "hemorrhage", Target: "#ff0000", Sources: []string{"#fe0000"}},
	)
	src := paint(t,
		[]mask.RGB{white, {R: 254}, red},
		[]mask.RGB{{B: 12}, red, white},
	)

	once := mask.Recolor(src, table)
	twice := mask.Recolor(once, table)

	assert.Equal(t, once.Pix, twice.Pix)
}

func TestRecolorGrayscaleAndPaletted(t *testing.T) {
	t.Parallel()

	table := newTable(t, mask.ClassConfig{Name: "liver", Sources: []string{"255"}, Target: "#00ff00"})

	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.SetGray(0, 0, color.Gray{Y: 255})
	assert.Equal(t, green, pixel(mask.Recolor(gray, table), 0, 0))
	assert.Equal(t, mask.Gray(0), pixel(mask.Recolor(gray, table), 1, 0))

	paletted := image.NewPaletted(image.Rect(0, 0, 2, 1), color.Palette{color.Black, color.White})
	paletted.SetColorIndex(1, 0, 1)
	assert.Equal(t, green, pixel(mask.Recolor(paletted, table), 1, 0))
}

func TestClasses(t *testing.T) {
	t.Parallel()

	table := newTable(t,
		mask.ClassConfig{Name: "background", Background: true, Sources: []string{"#ffffff"}},
		mask.ClassConfig{Name: "kidney", Target: "#ff0000"},
		mask.ClassConfig{Name: "tumor", Target: "#00ff00"},
	)

	assert.Equal(t, []string{"tumor"}, mask.Classes(paint(t, []mask.RGB{white, green}), table))
	assert.Equal(t, []string{"kidney", "tumor"}, mask.Classes(paint(t, []mask.RGB{green, red}), table))
	assert.Empty(t, mask.Classes(paint(t, []mask.RGB{white, {B: 3}}), table))
	assert.NotNil(t, mask.Classes(paint(t, []mask.RGB{white}), table))
}

func TestBlank(t *testing.T) {
	t.Parallel()

	table := newTable(t,
		mask.ClassConfig{Name: "background", Background: true, Target: "#0000ff"},
		mask.ClassConfig{Name: "kidney", Target: "#ff0000"},
	)
	bounds := image.Rect(0, 0, 3, 2)

	got := mask.Blank(bounds, table)

	assert.Equal(t, bounds, got.Bounds())
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, mask.RGB{B: 255}, pixel(got, x, y))
		}
	}
	assert.Empty(t, mask.Classes(got, table))
}

func TestThreshold(t *testing.T) {
	t.Parallel()

	src := image.NewGray(image.Rect(0, 0, 3, 1))
	src.SetGray(0, 0, color.Gray{Y: 10})
	src.SetGray(1, 0, color.Gray{Y: 128})
	src.SetGray(2, 0, color.Gray{Y: 250})

	got := mask.Threshold(src, 127)

	assert.Equal(t, uint8(0), got.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), got.GrayAt(1, 0).Y)
	assert.Equal(t, uint8(255), got.GrayAt(2, 0).Y)
}
