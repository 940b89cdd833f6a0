package providers

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/nodewee/doc-highlight/pkg/logger"
	"github.com/nodewee/doc-highlight/pkg/match"
	"github.com/nodewee/doc-highlight/pkg/overlay"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

func buildWorkbook(t *testing.T, path string, sheets map[string][][]interface{}, order ...string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatal(err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatal(err)
		}
		for r, row := range sheets[name] {
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func cellBorders(t *testing.T, f *excelize.File, sheet, ref string) []excelize.Border {
	t.Helper()
	id, err := f.GetCellStyle(sheet, ref)
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		return nil
	}
	st, err := f.GetStyle(id)
	if err != nil {
		t.Fatal(err)
	}
	return st.Border
}

// A cell in each of two sheets matches; both gain borders, nothing else does.
func TestSpreadsheetAnnotatorBordersMatchingCells(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "book.xlsx")
	buildWorkbook(t, input, map[string][][]interface{}{
		"Sales": {{"Region", "Total"}, {"North", 1200}},
		"Notes": {{"grand TOTAL pending"}, {"n/a"}},
	}, "Sales", "Notes")
	original, _ := os.ReadFile(input)

	out := filepath.Join(dir, "book_overlay.xlsx")
	res, err := NewSpreadsheetAnnotator(overlay.DefaultStyle(), logger.Discard()).
		Annotate(context.Background(), input, out, query(t, "total"))
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if res.MatchCount != 2 {
		t.Fatalf("MatchCount = %d, want 2", res.MatchCount)
	}
	want := []match.Location{
		match.Cell{Sheet: "Sales", Row: 1, Col: 2, Ref: "B1"},
		match.Cell{Sheet: "Notes", Row: 1, Col: 1, Ref: "A1"},
	}
	for i, loc := range res.Locations {
		if loc != want[i] {
			t.Errorf("location %d = %v, want %v", i, loc, want[i])
		}
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("output is not a workbook: %v", err)
	}
	defer f.Close()

	for _, c := range [][2]string{{"Sales", "B1"}, {"Notes", "A1"}} {
		borders := cellBorders(t, f, c[0], c[1])
		if len(borders) != 4 {
			t.Errorf("%s!%s has %d borders, want 4", c[0], c[1], len(borders))
			continue
		}
		for _, b := range borders {
			if !strings.HasSuffix(strings.ToUpper(b.Color), "FF0000") || b.Style != 1 {
				t.Errorf("%s!%s border = %+v", c[0], c[1], b)
			}
		}
	}
	for _, c := range [][2]string{{"Sales", "A1"}, {"Sales", "B2"}, {"Notes", "A2"}} {
		if borders := cellBorders(t, f, c[0], c[1]); len(borders) != 0 {
			t.Errorf("%s!%s gained borders: %+v", c[0], c[1], borders)
		}
	}
	if v, _ := f.GetCellValue("Sales", "B2"); v != "1200" {
		t.Errorf("cell value changed: %q", v)
	}

	after, _ := os.ReadFile(input)
	if !bytes.Equal(after, original) {
		t.Error("input workbook was modified")
	}
}

func TestSpreadsheetAnnotatorMatchesRawNumbers(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "book.xlsx")
	buildWorkbook(t, input, map[string][][]interface{}{
		"S": {{12345.5, "x"}},
	}, "S")

	res, err := NewSpreadsheetAnnotator(overlay.DefaultStyle(), logger.Discard()).
		Annotate(context.Background(), input, filepath.Join(dir, "out.xlsx"), query(t, "2345"))
	if err != nil {
		t.Fatal(err)
	}
	if res.MatchCount != 1 {
		t.Errorf("MatchCount = %d, want 1", res.MatchCount)
	}
}

func TestSpreadsheetAnnotatorIgnoresQueryCase(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "book.xlsx")
	buildWorkbook(t, input, map[string][][]interface{}{
		"A": {{"Invoice 7", "paid"}, {"see INVOICE 9", "invoiced"}},
	}, "A")

	a := NewSpreadsheetAnnotator(overlay.DefaultStyle(), logger.Discard())
	lower, err := a.Annotate(context.Background(), input, filepath.Join(dir, "lower.xlsx"), query(t, "invoice"))
	if err != nil {
		t.Fatal(err)
	}
	upper, err := a.Annotate(context.Background(), input, filepath.Join(dir, "upper.xlsx"), query(t, "INVOICE"))
	if err != nil {
		t.Fatal(err)
	}
	if lower.MatchCount != 3 || upper.MatchCount != lower.MatchCount {
		t.Errorf("counts = %d and %d, want 3 for both", lower.MatchCount, upper.MatchCount)
	}
	if !reflect.DeepEqual(lower.Locations, upper.Locations) {
		t.Errorf("locations differ:\n%v\n%v", lower.Locations, upper.Locations)
	}
}

func TestSpreadsheetAnnotatorMalformed(t *testing.T) {
	dir := t.TempDir()
	input := writeFixture(t, dir, "bad.xlsx", []byte("not a zip"))
	out := filepath.Join(dir, "out.xlsx")

	_, err := NewSpreadsheetAnnotator(overlay.DefaultStyle(), logger.Discard()).
		Annotate(context.Background(), input, out, query(t, "x"))
	if !errors.Is(err, utils.ErrMalformedInput) {
		t.Errorf("err = %v, want malformed input", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output written for a malformed workbook")
	}
}
