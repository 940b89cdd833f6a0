package providers

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nodewee/doc-highlight/pkg/interfaces"
	"github.com/nodewee/doc-highlight/pkg/logger"
	"github.com/nodewee/doc-highlight/pkg/match"
	"github.com/nodewee/doc-highlight/pkg/output"
	"github.com/nodewee/doc-highlight/pkg/overlay"
	"github.com/nodewee/doc-highlight/pkg/types"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

// SpreadsheetAnnotator borders every cell whose value contains the query
type SpreadsheetAnnotator struct {
	style  overlay.Style
	logger *logger.Logger
}

// NewSpreadsheetAnnotator creates a workbook annotator
func NewSpreadsheetAnnotator(style overlay.Style, log *logger.Logger) *SpreadsheetAnnotator {
	return &SpreadsheetAnnotator{style: style, logger: log}
}

// Name returns the name of the annotator
func (a *SpreadsheetAnnotator) Name() string { return "spreadsheet" }

// Kind returns the document kind handled
func (a *SpreadsheetAnnotator) Kind() types.DocumentKind { return types.KindSpreadsheet }

// CheckAvailable always succeeds; workbook support is compiled in
func (a *SpreadsheetAnnotator) CheckAvailable() error { return nil }

// Annotate scans all sheets in order and writes a copy of the workbook with
// matching cells bordered
func (a *SpreadsheetAnnotator) Annotate(ctx context.Context, input, outputPath string, q match.Query) (*interfaces.AnnotationResult, error) {
	start := time.Now()

	f, err := excelize.OpenFile(input)
	if err != nil {
		return nil, utils.NewMalformedInputError(fmt.Sprintf("cannot open workbook %s", input), err)
	}
	defer f.Close()

	borders := newBorderCache(f, overlay.Hex(a.style.Color))
	var locations []match.Location

	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, utils.WrapError(err, utils.ErrorTypeTimeout, "spreadsheet scan interrupted")
		}
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, utils.NewMalformedInputError(fmt.Sprintf("cannot read sheet %q", sheet), err)
		}
		for r, row := range rows {
			for c, value := range row {
				if value == "" || !q.Within(value) {
					continue
				}
				ref, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return nil, utils.NewSystemError("bad cell coordinates", err)
				}
				if err := borders.apply(sheet, ref); err != nil {
					return nil, err
				}
				locations = append(locations, match.Cell{Sheet: sheet, Row: r + 1, Col: c + 1, Ref: ref})
				a.logger.Debug("  match at %s!%s: %q", sheet, ref, value)
			}
		}
	}
	a.logger.Info("Found %d matching cell(s) in %s", len(locations), input)

	if err := output.WriteFile(outputPath, func(w io.Writer) error {
		if err := f.Write(w); err != nil {
			return utils.NewIOError("failed to write workbook", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	a.logger.Progress("💾", "Annotated workbook saved to: %s", outputPath)

	return &interfaces.AnnotationResult{
		OutputPath:          outputPath,
		MatchCount:          len(locations),
		Kind:                types.KindSpreadsheet,
		Strategy:            types.StrategyCellBorder,
		Locations:           locations,
		AttemptedStrategies: []string{types.StrategyCellBorder},
		ProcessTime:         time.Since(start),
	}, nil
}

// borderCache derives one bordered style per original style id, so cells
// keep their fills, fonts and number formats
type borderCache struct {
	f       *excelize.File
	color   string
	derived map[int]int
}

func newBorderCache(f *excelize.File, hexColor string) *borderCache {
	return &borderCache{f: f, color: hexColor, derived: make(map[int]int)}
}

func (b *borderCache) apply(sheet, ref string) error {
	orig, err := b.f.GetCellStyle(sheet, ref)
	if err != nil {
		return utils.NewMalformedInputError(fmt.Sprintf("cannot read style of %s!%s", sheet, ref), err)
	}

	id, ok := b.derived[orig]
	if !ok {
		style := &excelize.Style{}
		if orig != 0 {
			existing, err := b.f.GetStyle(orig)
			if err != nil {
				return utils.NewMalformedInputError(fmt.Sprintf("cannot load style %d", orig), err)
			}
			copied := *existing
			style = &copied
		}
		style.Border = []excelize.Border{
			{Type: "left", Color: b.color, Style: 1},
			{Type: "top", Color: b.color, Style: 1},
			{Type: "right", Color: b.color, Style: 1},
			{Type: "bottom", Color: b.color, Style: 1},
		}
		if id, err = b.f.NewStyle(style); err != nil {
			return utils.NewSystemError("cannot create highlight style", err)
		}
		b.derived[orig] = id
	}

	if err := b.f.SetCellStyle(sheet, ref, ref, id); err != nil {
		return utils.NewSystemError(fmt.Sprintf("cannot style %s!%s", sheet, ref), err)
	}
	return nil
}
