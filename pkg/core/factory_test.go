package core

import (
	"bytes"
	"context"
	"crypto/md5"
	"fmt"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nodewee/doc-highlight/pkg/config"
	"github.com/nodewee/doc-highlight/pkg/interfaces"
	"github.com/nodewee/doc-highlight/pkg/logger"
	"github.com/nodewee/doc-highlight/pkg/match"
	"github.com/nodewee/doc-highlight/pkg/types"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

// pngHeader is enough for content sniffing to report image/png
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

type recordingAnnotator struct {
	kind     types.DocumentKind
	availErr error
	calls    int
}

func (a *recordingAnnotator) Name() string             { return "rec-" + string(a.kind) }
func (a *recordingAnnotator) Kind() types.DocumentKind { return a.kind }
func (a *recordingAnnotator) CheckAvailable() error    { return a.availErr }
func (a *recordingAnnotator) Annotate(_ context.Context, input, out string, q match.Query) (*interfaces.AnnotationResult, error) {
	a.calls++
	if err := os.WriteFile(out, []byte("annotated"), 0644); err != nil {
		return nil, err
	}
	return &interfaces.AnnotationResult{OutputPath: out, MatchCount: 1, Kind: a.kind}, nil
}

func allKinds() map[types.DocumentKind]*recordingAnnotator {
	return map[types.DocumentKind]*recordingAnnotator{
		types.KindPDF:         {kind: types.KindPDF},
		types.KindImage:       {kind: types.KindImage},
		types.KindSpreadsheet: {kind: types.KindSpreadsheet},
		types.KindFlowText:    {kind: types.KindFlowText},
	}
}

func newTestDispatcher(recs map[types.DocumentKind]*recordingAnnotator) *DefaultDispatcher {
	var list []interfaces.Annotator
	for _, r := range recs {
		list = append(list, r)
	}
	return NewDispatcherWith(logger.Discard(), list...)
}

func mustQuery(t *testing.T, s string) match.Query {
	t.Helper()
	q, err := match.NewQuery(s)
	if err != nil {
		t.Fatal(err)
	}
	return q
}

func TestClassify(t *testing.T) {
	d := newTestDispatcher(allKinds())
	tests := []struct {
		path string
		want types.DocumentKind
	}{
		{"a.pdf", types.KindPDF},
		{"A.PDF", types.KindPDF},
		{"scan.Png", types.KindImage},
		{"photo.jpeg", types.KindImage},
		{"photo.JPG", types.KindImage},
		{"fax.tif", types.KindImage},
		{"fax.tiff", types.KindImage},
		{"old.bmp", types.KindImage},
		{"book.xlsx", types.KindSpreadsheet},
		{"memo.DOCX", types.KindFlowText},
		{"dir.v2/memo.docx", types.KindFlowText},
	}
	for _, tt := range tests {
		got, err := d.Classify(tt.path)
		if err != nil || got != tt.want {
			t.Errorf("Classify(%q) = %q, %v; want %q", tt.path, got, err, tt.want)
		}
	}

	for _, path := range []string{"data.csv", "old.doc", "old.xls", "noext", "archive.pdf.zip"} {
		if _, err := d.Classify(path); !errors.Is(err, utils.ErrUnsupportedFormat) {
			t.Errorf("Classify(%q) err = %v, want unsupported", path, err)
		}
	}
}

// An unsupported extension fails before any filesystem effect.
func TestDispatchUnsupportedWritesNothing(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(input, []byte("a,b\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "new-dir", "data_overlay.csv")

	recs := allKinds()
	_, err := newTestDispatcher(recs).Dispatch(context.Background(), input, out, mustQuery(t, "a"))
	if !errors.Is(err, utils.ErrUnsupportedFormat) {
		t.Fatalf("err = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(out)); !os.IsNotExist(err) {
		t.Error("output directory was created")
	}
	for _, r := range recs {
		if r.calls != 0 {
			t.Errorf("%s annotator was called", r.kind)
		}
	}
}

func TestDispatchMissingCapabilityWritesNothing(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "scan.png")
	os.WriteFile(input, pngHeader, 0644)
	out := filepath.Join(dir, "out", "scan_overlay.png")

	recs := allKinds()
	recs[types.KindImage].availErr = utils.NewMissingDependencyError("no OCR engine", nil)

	_, err := newTestDispatcher(recs).Dispatch(context.Background(), input, out, mustQuery(t, "x"))
	if !errors.Is(err, utils.ErrMissingDependency) {
		t.Fatalf("err = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(out)); !os.IsNotExist(err) {
		t.Error("output directory was created")
	}
}

func TestDispatchRejectsContradictingContent(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "fake.pdf")
	os.WriteFile(input, pngHeader, 0644)

	recs := allKinds()
	_, err := newTestDispatcher(recs).Dispatch(context.Background(), input, filepath.Join(dir, "o.pdf"), mustQuery(t, "x"))
	if !errors.Is(err, utils.ErrMalformedInput) {
		t.Errorf("err = %v, want malformed input", err)
	}
	if recs[types.KindPDF].calls != 0 {
		t.Error("annotator ran on contradicting content")
	}
}

func TestDispatchRoutesAndPreparesOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "scan.PNG")
	os.WriteFile(input, pngHeader, 0644)
	out := filepath.Join(dir, "a", "b", "scan_overlay.png")

	recs := allKinds()
	res, err := newTestDispatcher(recs).Dispatch(context.Background(), input, out, mustQuery(t, "x"))
	if err != nil {
		t.Fatal(err)
	}
	if recs[types.KindImage].calls != 1 || res.Kind != types.KindImage {
		t.Errorf("routed to wrong annotator: %+v", res)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestDispatchRefusesOutputEqualToInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "scan.png")
	os.WriteFile(input, pngHeader, 0644)

	_, err := newTestDispatcher(allKinds()).Dispatch(context.Background(), input, input, mustQuery(t, "x"))
	if !errors.Is(err, utils.ErrValidation) {
		t.Errorf("err = %v", err)
	}
	data, _ := os.ReadFile(input)
	if string(data) != string(pngHeader) {
		t.Error("input was overwritten")
	}
}

func TestNewDispatcherWiresAllKinds(t *testing.T) {
	cfg := config.NewConfig()
	d, err := NewDispatcher(cfg, utils.NewSimpleTempManager(t.TempDir(), logger.Discard()), logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	for _, kind := range []types.DocumentKind{types.KindPDF, types.KindImage, types.KindSpreadsheet, types.KindFlowText} {
		if _, ok := d.annotators[kind]; !ok {
			t.Errorf("no annotator for %s", kind)
		}
	}
}

func TestNewDispatcherRejectsBadStyle(t *testing.T) {
	cfg := config.NewConfig()
	cfg.HighlightColor = "not-a-color"
	if _, err := NewDispatcher(cfg, utils.NewSimpleTempManager(t.TempDir(), logger.Discard()), logger.Discard()); err == nil {
		t.Error("expected an error for an invalid color")
	}
}

func TestDispatchHashesInputOnlyForDebug(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "scan.png")
	os.WriteFile(input, pngHeader, 0644)
	sum := fmt.Sprintf("%x", md5.Sum(pngHeader))

	for _, level := range []string{"debug", "info"} {
		var buf bytes.Buffer
		log := logger.NewLogger(level, true)
		log.SetOutput(&buf)

		recs := allKinds()
		var list []interfaces.Annotator
		for _, r := range recs {
			list = append(list, r)
		}
		out := filepath.Join(dir, level, "scan_overlay.png")
		if _, err := NewDispatcherWith(log, list...).Dispatch(context.Background(), input, out, mustQuery(t, "x")); err != nil {
			t.Fatal(err)
		}
		if got := strings.Contains(buf.String(), sum); got != (level == "debug") {
			t.Errorf("%s log contains input hash = %v:\n%s", level, got, buf.String())
		}
	}
}
