package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nodewee/doc-highlight/pkg/constants"
	"github.com/nodewee/doc-highlight/pkg/interfaces"
	"github.com/nodewee/doc-highlight/pkg/logger"
	"github.com/nodewee/doc-highlight/pkg/match"
	"github.com/nodewee/doc-highlight/pkg/output"
	"github.com/nodewee/doc-highlight/pkg/types"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

// flowState is one attempt in the flow document pipeline
type flowState int

const (
	stateConvertAndDelegate flowState = iota
	stateTextualFallback
	stateDone
)

func (s flowState) String() string {
	switch s {
	case stateConvertAndDelegate:
		return types.StrategyConvertDelegate
	case stateTextualFallback:
		return types.StrategyParagraphReport
	default:
		return "done"
	}
}

// FlowDocAnnotator handles word-processing documents. It first converts the
// document to PDF and delegates to the PDF annotator; when that fails for
// any reason it writes a paragraph citation report instead.
type FlowDocAnnotator struct {
	converter interfaces.Converter
	pdf       *PDFAnnotator
	temp      interfaces.TempFileManager
	logger    *logger.Logger
}

// NewFlowDocAnnotator creates a flow document annotator
func NewFlowDocAnnotator(converter interfaces.Converter, pdf *PDFAnnotator, temp interfaces.TempFileManager, log *logger.Logger) *FlowDocAnnotator {
	return &FlowDocAnnotator{converter: converter, pdf: pdf, temp: temp, logger: log}
}

// Name returns the name of the annotator
func (a *FlowDocAnnotator) Name() string { return "flowdoc" }

// Kind returns the document kind handled
func (a *FlowDocAnnotator) Kind() types.DocumentKind { return types.KindFlowText }

// CheckAvailable always succeeds; the paragraph report needs no external tool
func (a *FlowDocAnnotator) CheckAvailable() error { return nil }

// Annotate produces exactly one artifact: the PDF overlay at outputPath, or
// the text report at its .txt sibling
func (a *FlowDocAnnotator) Annotate(ctx context.Context, input, outputPath string, q match.Query) (*interfaces.AnnotationResult, error) {
	start := time.Now()

	var (
		result    *interfaces.AnnotationResult
		failures  []error
		attempted []string
	)
	for state := stateConvertAndDelegate; state != stateDone; {
		attempted = append(attempted, state.String())

		var err error
		switch state {
		case stateConvertAndDelegate:
			result, err = a.convertAndDelegate(ctx, input, outputPath, q)
			if err != nil {
				a.logger.Warn("Could not convert %s to PDF, writing a textual report instead: %v", input, err)
				failures = append(failures, utils.WrapError(err, utils.ErrorTypeConversion, "convert-and-delegate failed"))
				state = stateTextualFallback
				continue
			}
		case stateTextualFallback:
			result, err = a.textualFallback(input, outputPath, q)
			if err != nil {
				failures = append(failures, err)
				return nil, utils.NewMissingDependencyError(
					"no PDF converter worked and the paragraph report could not be produced", errors.Join(failures...))
			}
			result.FallbackUsed = true
		}
		state = stateDone
	}

	result.AttemptedStrategies = attempted
	result.ProcessTime = time.Since(start)
	return result, nil
}

func (a *FlowDocAnnotator) convertAndDelegate(ctx context.Context, input, outputPath string, q match.Query) (*interfaces.AnnotationResult, error) {
	if a.converter == nil {
		return nil, utils.NewMissingDependencyError("no PDF converter configured", nil)
	}
	if err := a.converter.IsAvailable(); err != nil {
		return nil, err
	}

	var result *interfaces.AnnotationResult
	err := a.temp.WithTempDir("convert", func(dir string) error {
		a.logger.Progress("🔄", "Converting %s to PDF with %s", input, a.converter.Name())
		pdfPath, err := a.converter.ConvertToPDF(ctx, input, dir)
		if err != nil {
			return err
		}
		result, err = a.pdf.Annotate(ctx, pdfPath, outputPath, q)
		return err
	})
	if err != nil {
		return nil, err
	}

	result.Kind = types.KindFlowText
	result.Strategy = types.StrategyConvertDelegate
	return result, nil
}

func (a *FlowDocAnnotator) textualFallback(input, outputPath string, q match.Query) (*interfaces.AnnotationResult, error) {
	paragraphs, err := ReadDocxParagraphs(input)
	if err != nil {
		return nil, err
	}

	var locations []match.Location
	for i, p := range paragraphs {
		if p == "" || !q.Within(p) {
			continue
		}
		locations = append(locations, match.Paragraph{Index: i + 1, Text: strings.TrimSpace(p)})
	}

	reportPath := output.ReportPath(outputPath)
	if err := output.WriteFile(reportPath, func(w io.Writer) error {
		return writeReport(w, q.Text(), input, locations)
	}); err != nil {
		return nil, err
	}
	a.logger.Progress("📝", "Wrote a textual report to: %s", reportPath)

	return &interfaces.AnnotationResult{
		OutputPath: reportPath,
		MatchCount: len(locations),
		Kind:       types.KindFlowText,
		Strategy:   types.StrategyParagraphReport,
		Locations:  locations,
	}, nil
}

// writeReport renders the citation report: a header, a blank line, then one
// line per matching paragraph
func writeReport(w io.Writer, queryText, input string, locations []match.Location) error {
	var b strings.Builder
	fmt.Fprintf(&b, constants.ReportHeaderFormat+"\n\n", queryText, input)
	for _, loc := range locations {
		p := loc.(match.Paragraph)
		// line breaks inside a paragraph would split its report line
		text := strings.ReplaceAll(p.Text, "\n", " ")
		fmt.Fprintf(&b, constants.ReportLineFormat+"\n", p.Index, text)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return utils.NewIOError("failed to write report", err)
	}
	return nil
}
