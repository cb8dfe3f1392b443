package mask

import (
	"image"
)

// Recolor maps every pixel of img to the target colour of its class.
// Unmapped colours become background. Recoloring a canonical mask returns an identical mask.
func Recolor(img image.Image, t *Table) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	background := t.Background()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			target := background
			if idx := t.resolve(rgbOf(img.At(x, y))); idx >= 0 {
				target = t.classes[idx].Target
			}
			setRGB(out, x, y, target)
		}
	}
	return out
}

// Classes returns the names of the non background classes present in img, in table order.
// A mask without any recognised colour yields an empty list.
func Classes(img image.Image, t *Table) []string {
	seen := make([]bool, len(t.classes))
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if idx := t.resolve(rgbOf(img.At(x, y))); idx >= 0 {
				seen[idx] = true
			}
		}
	}
	names := []string{}
	for i, class := range t.classes {
		if seen[i] && !class.Background {
			names = append(names, class.Name)
		}
	}
	return names
}

func setRGB(img *image.RGBA, x, y int, c RGB) {
	off := img.PixOffset(x, y)
	img.Pix[off] = c.R
	img.Pix[off+1] = c.G
	img.Pix[off+2] = c.B
	img.Pix[off+3] = 0xff
}
