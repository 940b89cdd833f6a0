// Package overlay draws visible, non-destructive markers around match
// locations: stroked rectangles on raster copies and color triples for PDF
// annotations.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// Style is the highlight appearance shared by every annotator.
type Style struct {
	Color color.RGBA
	// PDFWidth is the annotation border width in points
	PDFWidth float64
	// PixelWidth is the raster stroke width in pixels
	PixelWidth int
}

// DefaultStyle is a red outline, 1pt in PDFs and 2px on images.
func DefaultStyle() Style {
	return Style{
		Color:      color.RGBA{R: 0xFF, A: 0xFF},
		PDFWidth:   1,
		PixelWidth: 2,
	}
}

// ParseHexColor parses "#RRGGBB", "RRGGBB" or the short "#RGB" form.
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}

// Hex returns the color as RRGGBB without the leading '#'.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// PDFColor returns the color as the 0..1 RGB triple used in PDF /C arrays.
func PDFColor(c color.RGBA) [3]float64 {
	return [3]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

// Canvas returns a mutable RGBA copy of src with the same bounds.
func Canvas(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	xdraw.Draw(dst, b, src, b.Min, xdraw.Src)
	return dst
}

// StrokeRect draws an unfilled rectangle whose outer edge is r. The stroke
// grows inward so boxes at the image border stay fully visible. Parts
// outside the image are clipped.
func StrokeRect(dst draw.Image, r image.Rectangle, c color.Color, width int) {
	r = r.Canon()
	if width < 1 {
		width = 1
	}
	if r.Empty() {
		return
	}
	// clamp so opposite bands never cross
	width = min(width, (r.Dx()+1)/2, (r.Dy()+1)/2)

	src := image.NewUniform(c)
	bands := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), // top
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), // bottom
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), // left
		image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), // right
	}
	for _, band := range bands {
		band = band.Intersect(dst.Bounds())
		if band.Empty() {
			continue
		}
		draw.Draw(dst, band, src, image.Point{}, draw.Src)
	}
}
