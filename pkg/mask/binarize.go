package mask

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// Foreground is the value of a pixel belonging to the class of an indicator layer.
const Foreground = 0xff

// Layer is the indicator mask of a single class.
type Layer struct {
	Class string
	Image *image.Gray
}

// Binarize splits a canonical mask into one indicator layer per non background class.
// A pixel of a layer is foreground when the mask pixel equals the target colour of the layer class.
func Binarize(img image.Image, t *Table) []Layer {
	bounds := img.Bounds()
	foreground := t.Foreground()
	layers := make([]Layer, len(foreground))
	byTarget := make(map[RGB]*image.Gray, len(foreground))
	for i, class := range foreground {
		layers[i] = Layer{Class: class.Name, Image: image.NewGray(bounds)}
		byTarget[class.Target] = layers[i].Image
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if layer, ok := byTarget[rgbOf(img.At(x, y))]; ok {
				layer.SetGray(x, y, color.Gray{Y: Foreground})
			}
		}
	}
	return layers
}

// Merge rebuilds a canonical mask from indicator layers. It is the inverse of Binarize on canonical masks
// and is what tests check the layers against; no step calls it.
// Pixels not covered by any layer are background. Layers of unknown classes are rejected.
func Merge(bounds image.Rectangle, layers []Layer, t *Table) (*image.RGBA, error) {
	out := Blank(bounds, t)
	for _, layer := range layers {
		class, ok := t.Class(layer.Class)
		if !ok {
			return nil, errors.Wrap(ErrUnknownClass, layer.Class)
		}
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				if layer.Image.GrayAt(x, y).Y == Foreground {
					setRGB(out, x, y, class.Target)
				}
			}
		}
	}
	return out, nil
}
