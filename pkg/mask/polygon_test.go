package mask_test

import (
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-imgnorm/pkg/mask"
)

const annotationXML = `<annotation width="6" height="4">
  <polygon class="calcium">
    <point x="1" y="1"/>
    <point x="4" y="1"/>
    <point x="4" y="3"/>
    <point x="1" y="3"/>
  </polygon>
</annotation>`

func TestDecodePolygons(t *testing.T) {
	t.Parallel()

	ann, err := mask.DecodePolygons(strings.NewReader(annotationXML))
	require.NoError(t, err)
	assert.Equal(t, 6, ann.Width)
	assert.Equal(t, 4, ann.Height)
	require.Len(t, ann.Polygons, 1)
	assert.Equal(t, "calcium", ann.Polygons[0].Class)
	assert.Equal(t, []image.Point{{1, 1}, {4, 1}, {4, 3}, {1, 3}}, ann.Polygons[0].Points)
}

func TestDecodePolygonsInvalid(t *testing.T) {
	t.Parallel()

	_, err := mask.DecodePolygons(strings.NewReader(`<annotation width="0" height="4"></annotation>`))
	assert.Error(t, err)

	_, err = mask.DecodePolygons(strings.NewReader(`<annotation`))
	assert.Error(t, err)
}

func TestRasterize(t *testing.T) {
	t.Parallel()

	table := newTable(t, mask.ClassConfig{Name: "calcium", Target: "#ff0000"})
	ann, err := mask.DecodePolygons(strings.NewReader(annotationXML))
	require.NoError(t, err)

	got, err := mask.Rasterize(image.Rect(0, 0, ann.Width, ann.Height), ann.Polygons, table)
	require.NoError(t, err)

	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			inside := x >= 1 && x < 4 && y >= 1 && y < 3
			if inside {
				assert.Equal(t, red, pixel(got, x, y), "pixel %d,%d", x, y)
			} else {
				assert.Equal(t, mask.Gray(0), pixel(got, x, y), "pixel %d,%d", x, y)
			}
		}
	}
}

func TestRasterizeUnknownClass(t *testing.T) {
	t.Parallel()

	table := newTable(t, mask.ClassConfig{Name: "calcium"})
	_, err := mask.Rasterize(image.Rect(0, 0, 2, 2), []mask.Polygon{{Class: "plaque"}}, table)
	assert.ErrorIs(t, err, mask.ErrUnknownClass)
}
