// Package render draws cell sequences as dot grids and reads them back from
// images. It is the raster collaborator of the core: it only produces and
// consumes jeomja.Sequence values.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/reoring/jeomja"
)

// Geometry fixes the layout of a rendered row: square cells of CellSize
// pixels, dots of DotRadius, and Margin pixels of background on every side.
type Geometry struct {
	CellSize  int
	DotRadius int
	Margin    int
}

// DefaultGeometry is 40px cells, 7px dots and a 20px margin.
func DefaultGeometry() Geometry { return Geometry{CellSize: 40, DotRadius: 7, Margin: 20} }

// Validate checks that dots fit inside their cell.
func (g Geometry) Validate() error {
	switch {
	case g.CellSize < 6:
		return fmt.Errorf("render: cell size %d too small", g.CellSize)
	case g.DotRadius < 1:
		return fmt.Errorf("render: dot radius %d too small", g.DotRadius)
	case g.Margin < 0:
		return fmt.Errorf("render: negative margin %d", g.Margin)
	case 2*g.DotRadius > g.CellSize/3+1:
		return fmt.Errorf("render: dot radius %d too large for cell size %d", g.DotRadius, g.CellSize)
	}
	return nil
}

// Size returns the image bounds for n cells.
func (g Geometry) Size(n int) image.Point {
	return image.Pt(2*g.Margin+n*g.CellSize, 2*g.Margin+g.CellSize)
}

// center returns the centre of dot (1..6) in cell i. Dots 1-3 form the left
// column top to bottom, dots 4-6 the right one.
func (g Geometry) center(i, dot int) (float64, float64) {
	col, row := (dot-1)/3, (dot-1)%3
	cs := float64(g.CellSize)
	x0 := float64(g.Margin + i*g.CellSize)
	y0 := float64(g.Margin)
	return x0 + float64(col)*cs/2 + cs/4, y0 + float64(row)*cs/3 + cs/6
}

// Draw renders seq as black dots on a white background.
func Draw(seq jeomja.Sequence, g Geometry) (*image.RGBA, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	size := g.Size(len(seq))
	img := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	z := vector.NewRasterizer(size.X, size.Y)
	r := float32(g.DotRadius)
	for i, c := range seq {
		for dot := 1; dot <= 6; dot++ {
			if !c.Raised(dot) {
				continue
			}
			cx, cy := g.center(i, dot)
			circle(z, float32(cx), float32(cy), r)
		}
	}
	z.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{})
	return img, nil
}

// kappa places cubic control points so four segments approximate a circle.
const kappa = 0.5522847498

func circle(z *vector.Rasterizer, cx, cy, r float32) {
	k := r * kappa
	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
}

// ErrNoCells is returned by Scan when the image is too small to hold a cell.
var ErrNoCells = errors.New("render: image holds no cells for this geometry")

// Threshold is the luminance under which a dot centre counts as raised.
const Threshold = 128

// Scan reads a row rendered with geometry g. The cell count follows from the
// image width; a dot is raised when the pixel at its centre is darker than
// Threshold.
func Scan(img image.Image, g Geometry) (jeomja.Sequence, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	b := img.Bounds()
	n := (b.Dx() - 2*g.Margin) / g.CellSize
	if n <= 0 || b.Dy() < 2*g.Margin+g.CellSize {
		return nil, ErrNoCells
	}
	out := make(jeomja.Sequence, n)
	for i := 0; i < n; i++ {
		var c jeomja.Cell
		for dot := 1; dot <= 6; dot++ {
			cx, cy := g.center(i, dot)
			px := b.Min.X + int(math.Round(cx))
			py := b.Min.Y + int(math.Round(cy))
			if luminance(img.At(px, py)) < Threshold {
				c |= 1 << (dot - 1)
			}
		}
		out[i] = c
	}
	return out, nil
}

func luminance(c color.Color) uint8 {
	return color.GrayModel.Convert(c).(color.Gray).Y
}
