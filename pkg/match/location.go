package match

import "fmt"

// Rect is an axis-aligned rectangle. For PDFs the unit is PDF user space
// (origin bottom-left); for raster images it is pixels (origin top-left).
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Union returns the smallest rectangle covering r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		X0: min(r.X0, o.X0),
		Y0: min(r.Y0, o.Y0),
		X1: max(r.X1, o.X1),
		Y1: max(r.Y1, o.Y1),
	}
}

// Location is one match. The concrete type depends on the document kind:
// Geometric, Cell or Paragraph.
type Location interface {
	fmt.Stringer
	isLocation()
}

// Geometric locates a match on a page (PDF) or in a raster image (Page 1).
type Geometric struct {
	Page int
	Rect Rect
}

// Cell locates a match in a spreadsheet. Row and Col are 1-based.
type Cell struct {
	Sheet string
	Row   int
	Col   int
	Ref   string
}

// Paragraph locates a match in a flow document without geometry.
type Paragraph struct {
	Index int
	Text  string
}

func (Geometric) isLocation() {}
func (Cell) isLocation()      {}
func (Paragraph) isLocation() {}

func (g Geometric) String() string {
	return fmt.Sprintf("page %d [%.1f %.1f %.1f %.1f]", g.Page, g.Rect.X0, g.Rect.Y0, g.Rect.X1, g.Rect.Y1)
}

func (c Cell) String() string {
	return fmt.Sprintf("%s!%s", c.Sheet, c.Ref)
}

func (p Paragraph) String() string {
	return fmt.Sprintf("paragraph %d", p.Index)
}
