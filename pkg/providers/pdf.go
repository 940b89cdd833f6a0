package providers

import (
	"context"
	"time"

	"github.com/nodewee/doc-highlight/pkg/interfaces"
	"github.com/nodewee/doc-highlight/pkg/logger"
	"github.com/nodewee/doc-highlight/pkg/match"
	"github.com/nodewee/doc-highlight/pkg/overlay"
	"github.com/nodewee/doc-highlight/pkg/types"
)

// PDFAnnotator draws a rectangle annotation around every exact occurrence of
// the query in a PDF
type PDFAnnotator struct {
	style  overlay.Style
	logger *logger.Logger
}

// NewPDFAnnotator creates a PDF annotator
func NewPDFAnnotator(style overlay.Style, log *logger.Logger) *PDFAnnotator {
	return &PDFAnnotator{style: style, logger: log}
}

// Name returns the name of the annotator
func (a *PDFAnnotator) Name() string { return "pdf" }

// Kind returns the document kind handled
func (a *PDFAnnotator) Kind() types.DocumentKind { return types.KindPDF }

// CheckAvailable always succeeds; PDF support is compiled in
func (a *PDFAnnotator) CheckAvailable() error { return nil }

// Annotate searches every page and writes the annotated copy. A PDF without
// matches is still re-saved, unannotated.
func (a *PDFAnnotator) Annotate(ctx context.Context, input, outputPath string, q match.Query) (*interfaces.AnnotationResult, error) {
	start := time.Now()
	a.logger.Progress("🔍", "Searching PDF text for '%s'", q.Text())

	locations, err := SearchPDF(ctx, input, q)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Found %d occurrence(s) in %s", len(locations), input)
	for _, loc := range locations {
		a.logger.Debug("  match at %s", loc)
	}

	if err := writePDFOverlay(input, outputPath, locations, a.style); err != nil {
		return nil, err
	}
	a.logger.Progress("💾", "Annotated PDF saved to: %s", outputPath)

	return &interfaces.AnnotationResult{
		OutputPath:          outputPath,
		MatchCount:          len(locations),
		Kind:                types.KindPDF,
		Strategy:            types.StrategyPDFOverlay,
		Locations:           locations,
		AttemptedStrategies: []string{types.StrategyPDFOverlay},
		ProcessTime:         time.Since(start),
	}, nil
}
