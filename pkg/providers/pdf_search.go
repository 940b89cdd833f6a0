package providers

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/nodewee/doc-highlight/pkg/match"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

// Layout heuristics, as fractions of the glyph's font size
const (
	lineBreakRatio = 0.5  // baseline shift that starts a new line
	wordGapRatio   = 0.15 // horizontal gap that counts as a space
	descentRatio   = 0.2
	ascentRatio    = 0.8
	fallbackWidth  = 0.5 // glyph width used when the font has no metrics
)

// glyph is one positioned character in PDF user space
type glyph struct {
	text string
	rect match.Rect
}

// textLine is a run of glyphs sharing a baseline. folded is the case-folded
// line text; owner maps each byte of folded to its glyph, -1 for spaces
// inserted between words.
type textLine struct {
	glyphs []glyph
	folded string
	owner  []int
}

// SearchPDF returns one rectangle per occurrence of q on every page, in
// page order. Occurrences on a line do not overlap.
func SearchPDF(ctx context.Context, path string, q match.Query) (locations []match.Location, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.WrapError(err, "", "failed to open PDF")
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, utils.WrapError(err, "", "failed to stat PDF")
	}

	// the reader panics on some damaged files instead of returning errors
	defer func() {
		if r := recover(); r != nil {
			locations = nil
			err = utils.NewMalformedInputError(fmt.Sprintf("cannot parse PDF %s", path), fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, utils.NewMalformedInputError(fmt.Sprintf("cannot open PDF %s", path), err)
	}

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, utils.WrapError(err, utils.ErrorTypeTimeout, "PDF search interrupted")
		}
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		for _, line := range buildLines(page.Content().Text) {
			for _, rect := range line.find(q.Folded()) {
				locations = append(locations, match.Geometric{Page: pageNum, Rect: rect})
			}
		}
	}
	return locations, nil
}

// buildLines groups glyphs in content order into lines and inserts a space
// wherever the gap to the previous glyph is wider than a word gap
func buildLines(texts []pdf.Text) []*textLine {
	var (
		lines   []*textLine
		current *textLine
		lastY   float64
		lastEnd float64
	)

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		size := t.FontSize
		if size <= 0 {
			size = 1
		}
		width := t.W
		if width <= 0 {
			width = fallbackWidth * size
		}
		g := glyph{
			text: t.S,
			rect: match.Rect{
				X0: t.X,
				Y0: t.Y - descentRatio*size,
				X1: t.X + width,
				Y1: t.Y + ascentRatio*size,
			},
		}

		newLine := current == nil ||
			math.Abs(t.Y-lastY) > lineBreakRatio*size ||
			t.X < lastEnd-size
		if newLine {
			current = &textLine{}
			lines = append(lines, current)
		} else if t.X-lastEnd > wordGapRatio*size && !current.endsWithSpace() && !isSpace(t.S) {
			current.addSpace()
		}

		current.add(g)
		lastY = t.Y
		lastEnd = t.X + width
	}
	return lines
}

func isSpace(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}

func (l *textLine) add(g glyph) {
	idx := len(l.glyphs)
	l.glyphs = append(l.glyphs, g)
	if isSpace(g.text) {
		l.folded += " "
		l.owner = append(l.owner, idx)
		return
	}
	folded := match.Fold(g.text)
	l.folded += folded
	for range len(folded) {
		l.owner = append(l.owner, idx)
	}
}

func (l *textLine) addSpace() {
	l.folded += " "
	l.owner = append(l.owner, -1)
}

func (l *textLine) endsWithSpace() bool {
	return strings.HasSuffix(l.folded, " ")
}

// find returns the bounding box of every non-overlapping occurrence of the
// folded needle
func (l *textLine) find(needle string) []match.Rect {
	if needle == "" {
		return nil
	}
	var rects []match.Rect
	for start := 0; start+len(needle) <= len(l.folded); {
		i := strings.Index(l.folded[start:], needle)
		if i < 0 {
			break
		}
		from := start + i
		to := from + len(needle)
		if rect, ok := l.span(from, to); ok {
			rects = append(rects, rect)
		}
		start = to
	}
	return rects
}

// span unions the rectangles of the glyphs owning bytes [from, to)
func (l *textLine) span(from, to int) (match.Rect, bool) {
	var (
		rect  match.Rect
		found bool
	)
	for _, idx := range l.owner[from:to] {
		if idx < 0 {
			continue
		}
		if !found {
			rect = l.glyphs[idx].rect
			found = true
			continue
		}
		rect = rect.Union(l.glyphs[idx].rect)
	}
	return rect, found
}
