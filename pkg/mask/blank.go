package mask

import (
	"image"
	"image/color"
)

// Blank returns a mask of the given size filled with the background colour.
func Blank(bounds image.Rectangle, t *Table) *image.RGBA {
	bg := t.Background()
	out := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			setRGB(out, x, y, bg)
		}
	}
	return out
}

// Threshold turns a lossy mask into a pure black and white mask.
// Pixels with a luminance strictly above level become white.
func Threshold(img image.Image, level uint8) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray, _ := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			if gray.Y > level {
				out.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}
	return out
}
