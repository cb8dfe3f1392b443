package mask

import (
	"encoding/xml"
	"image"
	"io"
	"sort"

	"github.com/pkg/errors"
)

// Polygon is a closed outline of a class region.
type Polygon struct {
	Class  string
	Points []image.Point
}

// Annotation is a sparse mask: the image size and the polygons drawn on it.
type Annotation struct {
	Width    int
	Height   int
	Polygons []Polygon
}

type xmlAnnotation struct {
	XMLName  xml.Name     `xml:"annotation"`
	Width    int          `xml:"width,attr"`
	Height   int          `xml:"height,attr"`
	Polygons []xmlPolygon `xml:"polygon"`
}

type xmlPolygon struct {
	Class  string     `xml:"class,attr"`
	Points []xmlPoint `xml:"point"`
}

type xmlPoint struct {
	X int `xml:"x,attr"`
	Y int `xml:"y,attr"`
}

// DecodePolygons reads a sparse annotation of the form:
//
//	<annotation width="512" height="512">
//	  <polygon class="calcium">
//	    <point x="10" y="12"/>
//	    ...
//	  </polygon>
//	</annotation>
func DecodePolygons(r io.Reader) (*Annotation, error) {
	var raw xmlAnnotation
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "unable to decode polygon annotation")
	}
	if raw.Width <= 0 || raw.Height <= 0 {
		return nil, errors.Errorf("invalid annotation size %dx%d", raw.Width, raw.Height)
	}
	ann := &Annotation{Width: raw.Width, Height: raw.Height}
	for _, p := range raw.Polygons {
		poly := Polygon{Class: p.Class, Points: make([]image.Point, len(p.Points))}
		for i, pt := range p.Points {
			poly.Points[i] = image.Pt(pt.X, pt.Y)
		}
		ann.Polygons = append(ann.Polygons, poly)
	}
	return ann, nil
}

// Rasterize fills the polygons with their class target colour on a blank mask.
// A pixel is inside a polygon when its centre is, using the even-odd rule.
// Later polygons overwrite earlier ones.
func Rasterize(bounds image.Rectangle, polygons []Polygon, t *Table) (*image.RGBA, error) {
	out := Blank(bounds, t)
	for _, poly := range polygons {
		class, ok := t.Class(poly.Class)
		if !ok {
			return nil, errors.Wrap(ErrUnknownClass, poly.Class)
		}
		if len(poly.Points) < 3 {
			continue
		}
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			xs := crossings(poly.Points, float64(y)+0.5)
			for i := 0; i+1 < len(xs); i += 2 {
				for x := bounds.Min.X; x < bounds.Max.X; x++ {
					cx := float64(x) + 0.5
					if cx >= xs[i] && cx < xs[i+1] {
						setRGB(out, x, y, class.Target)
					}
				}
			}
		}
	}
	return out, nil
}

func crossings(points []image.Point, y float64) []float64 {
	var xs []float64
	for i := range points {
		p1 := points[i]
		p2 := points[(i+1)%len(points)]
		y1, y2 := float64(p1.Y), float64(p2.Y)
		if (y1 <= y) == (y2 <= y) {
			continue
		}
		x1, x2 := float64(p1.X), float64(p2.X)
		xs = append(xs, x1+(y-y1)*(x2-x1)/(y2-y1))
	}
	sort.Float64s(xs)
	return xs
}
