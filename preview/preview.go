// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

// Package preview rasterizes an instanced glyph outline to a PNG image, for
// visually inspecting the effect of a variation coordinate. No pack repo
// decodes quadratic TrueType contours into a scan-converted bitmap, but
// npillmayer-opentype/ot-tools/view_cmd.go's renderGlyphPNG shows the shape
// of the job against golang.org/x/image/font/sfnt's already-flattened
// Segments: build a vector.Rasterizer, feed it MoveTo/LineTo/QuadTo calls
// scaled from font units to pixels, then Draw into an image.RGBA. This
// package does the same against variation.Point contours, which (unlike
// sfnt.Segments) still carry the raw on/off-curve quadratic encoding, so it
// first expands the "implied on-curve midpoint" convention into explicit
// quadratic segments.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/vector"

	"github.com/boxesandglue/fvarinstance/variation"
)

// Options controls how an outline is scaled and framed before rasterizing.
type Options struct {
	UnitsPerEm int     // font design units per em; must be > 0
	PPEM       float64 // pixels per em
	Width      int
	Height     int
	// Foreground is the fill color; zero value defaults to opaque black.
	Foreground color.Color
}

func (o Options) scale() float64 {
	if o.UnitsPerEm <= 0 {
		return 1
	}
	return o.PPEM / float64(o.UnitsPerEm)
}

// Render rasterizes one glyph's instanced contours (as returned by
// [variation.Evaluator.ApplyGlyph], phantom points excluded) into an RGBA
// image of size opts.Width x opts.Height, with a white background. The
// glyph origin sits at the left edge and the baseline three quarters of the
// way down the image; the glyph is not fitted or centred to its extent,
// since phantom points alone don't carry ascent/descent.
func Render(contours []variation.Point, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("preview: invalid image size %dx%d", opts.Width, opts.Height)
	}
	if opts.UnitsPerEm <= 0 {
		return nil, fmt.Errorf("preview: invalid unitsPerEm %d", opts.UnitsPerEm)
	}

	scale := opts.scale()
	tx, ty := float64(0), float64(opts.Height)*3/4

	rast := vector.NewRasterizer(opts.Width, opts.Height)
	rast.DrawOp = draw.Over
	for _, c := range splitContours(contours) {
		drawContour(rast, c, scale, tx, ty)
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	fg := opts.Foreground
	if fg == nil {
		fg = color.Black
	}
	rast.Draw(img, img.Bounds(), image.NewUniform(fg), image.Point{})
	return img, nil
}

// WritePNG renders contours and encodes the result as a PNG to w.
func WritePNG(w io.Writer, contours []variation.Point, opts Options) error {
	img, err := Render(contours, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// splitContours partitions a flat point slice into per-contour runs using
// each point's EndOfContour marker.
func splitContours(points []variation.Point) [][]variation.Point {
	var out [][]variation.Point
	start := 0
	for i, p := range points {
		if p.EndOfContour {
			out = append(out, points[start:i+1])
			start = i + 1
		}
	}
	return out
}

// drawContour expands a quadratic on/off-curve contour (the TrueType
// "implied on-curve midpoint between consecutive off-curve points"
// convention) into explicit MoveTo/LineTo/QuadTo calls on rast.
func drawContour(rast *vector.Rasterizer, contour []variation.Point, scale, tx, ty float64) {
	if len(contour) == 0 {
		return
	}
	px := func(p variation.Point) (float32, float32) {
		return float32(tx + float64(p.X)*scale), float32(ty - float64(p.Y)*scale)
	}

	anchors := expandImpliedOnCurvePoints(contour)
	x, y := px(anchors[0])
	rast.MoveTo(x, y)
	n := len(anchors)
	for i := 1; i < n; i++ {
		p := anchors[i]
		if p.OnCurve {
			x, y := px(p)
			rast.LineTo(x, y)
			continue
		}
		end := anchors[(i+1)%n]
		cx, cy := px(p)
		ex, ey := px(end)
		rast.QuadTo(cx, cy, ex, ey)
		i++
	}
}

// expandImpliedOnCurvePoints rewrites a raw cyclic quadratic contour into a
// normalized anchor list that starts with an on-curve point and never has
// two consecutive off-curve entries, per the TrueType convention that two
// consecutive off-curve points imply an on-curve point halfway between
// them. Callers can then walk the result pairwise: an off-curve entry is
// always immediately followed by an on-curve one.
func expandImpliedOnCurvePoints(contour []variation.Point) []variation.Point {
	n := len(contour)
	normalized := make([]variation.Point, 0, n+1)
	for i, p := range contour {
		normalized = append(normalized, p)
		next := contour[(i+1)%n]
		if !p.OnCurve && !next.OnCurve {
			mx, my := midpoint(p, next)
			normalized = append(normalized, variation.Point{X: mx, Y: my, OnCurve: true})
		}
	}

	start := 0
	for start < len(normalized) && !normalized[start].OnCurve {
		start++
	}
	if start == len(normalized) {
		// Degenerate single off-curve-point contour: treat its own position
		// as the anchor rather than producing an empty path.
		return []variation.Point{{X: contour[0].X, Y: contour[0].Y, OnCurve: true}}
	}
	rotated := make([]variation.Point, 0, len(normalized))
	rotated = append(rotated, normalized[start:]...)
	rotated = append(rotated, normalized[:start]...)
	return rotated
}

func midpoint(a, b variation.Point) (int32, int32) {
	return (a.X + b.X) / 2, (a.Y + b.Y) / 2
}
