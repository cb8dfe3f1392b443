package mask_test

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-imgnorm/pkg/mask"
)

var (
	red   = mask.RGB{R: 255}
	green = mask.RGB{G: 255}
	white = mask.Gray(255)
)

func newTable(t *testing.T, confs ...mask.ClassConfig) *mask.Table {
	t.Helper()
	table, err := mask.NewTable(confs)
	require.NoError(t, err)
	return table
}

// paint returns an image whose pixels are given row by row.
func paint(t *testing.T, rows ...[]mask.RGB) *image.RGBA {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, row := range rows {
		require.Len(t, row, len(rows[0]))
		for x, c := range row {
			img.Set(x, y, c)
		}
	}
	return img
}

func pixel(img image.Image, x, y int) mask.RGB {
	r, g, b, _ := img.At(x, y).RGBA()
	return mask.RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}
