package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/nodewee/doc-highlight/pkg/config"
	"github.com/nodewee/doc-highlight/pkg/constants"
	"github.com/nodewee/doc-highlight/pkg/converters"
	"github.com/nodewee/doc-highlight/pkg/interfaces"
	"github.com/nodewee/doc-highlight/pkg/logger"
	"github.com/nodewee/doc-highlight/pkg/match"
	"github.com/nodewee/doc-highlight/pkg/ocr"
	"github.com/nodewee/doc-highlight/pkg/output"
	"github.com/nodewee/doc-highlight/pkg/providers"
	"github.com/nodewee/doc-highlight/pkg/types"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

// extensionKinds maps lower-case extensions to the document kind that
// handles them
var extensionKinds = func() map[string]types.DocumentKind {
	m := make(map[string]types.DocumentKind)
	for kind, exts := range map[types.DocumentKind][]string{
		types.KindPDF:         constants.PDFExtensions,
		types.KindImage:       constants.ImageExtensions,
		types.KindSpreadsheet: constants.SpreadsheetExtensions,
		types.KindFlowText:    constants.FlowDocExtensions,
	} {
		for _, ext := range exts {
			m[ext] = kind
		}
	}
	return m
}()

// SupportedExtensions lists every accepted extension, sorted
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extensionKinds))
	for ext := range extensionKinds {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// DefaultDispatcher routes a document to the annotator for its kind
type DefaultDispatcher struct {
	annotators map[types.DocumentKind]interfaces.Annotator
	logger     *logger.Logger
}

// NewDispatcher builds the dispatcher with every built-in annotator wired
// from cfg
func NewDispatcher(cfg *config.Config, temp interfaces.TempFileManager, log *logger.Logger) (*DefaultDispatcher, error) {
	style, err := cfg.Style()
	if err != nil {
		return nil, err
	}
	converter, err := converters.New(cfg, log)
	if err != nil {
		return nil, err
	}

	pdf := providers.NewPDFAnnotator(style, log)
	return NewDispatcherWith(log,
		pdf,
		providers.NewRasterAnnotator(ocr.NewOCRSelector(cfg, log), cfg.OCREngine, style, log),
		providers.NewSpreadsheetAnnotator(style, log),
		providers.NewFlowDocAnnotator(converter, pdf, temp, log),
	), nil
}

// NewDispatcherWith creates a dispatcher over the given annotators, one per kind
func NewDispatcherWith(log *logger.Logger, annotators ...interfaces.Annotator) *DefaultDispatcher {
	d := &DefaultDispatcher{
		annotators: make(map[types.DocumentKind]interfaces.Annotator, len(annotators)),
		logger:     log,
	}
	for _, a := range annotators {
		d.annotators[a.Kind()] = a
		log.Debug("Registered annotator: %s (%s)", a.Name(), a.Kind())
	}
	return d
}

// Classify maps the file extension to a document kind. The file is not
// touched.
func (d *DefaultDispatcher) Classify(path string) (types.DocumentKind, error) {
	ext := utils.Extension(path)
	if kind, ok := extensionKinds[ext]; ok {
		return kind, nil
	}
	if ext == "" {
		return "", utils.NewUnsupportedError(fmt.Sprintf("cannot determine the format of %s: no file extension", path), nil)
	}
	return "", utils.NewUnsupportedError(
		fmt.Sprintf("unsupported file format: .%s (supported: %v)", ext, SupportedExtensions()), nil)
}

// Dispatch classifies input, checks the annotator can run, confirms the
// content does not contradict the extension, prepares output and delegates.
// Nothing is written unless every check passes.
func (d *DefaultDispatcher) Dispatch(ctx context.Context, input, outputPath string, q match.Query) (*interfaces.AnnotationResult, error) {
	kind, err := d.Classify(input)
	if err != nil {
		return nil, err
	}

	annotator, ok := d.annotators[kind]
	if !ok {
		return nil, utils.NewUnsupportedError(fmt.Sprintf("no annotator registered for %s documents", kind), nil)
	}
	if err := annotator.CheckAvailable(); err != nil {
		return nil, err
	}

	info, err := utils.GetFileInfo(input, d.logger.DebugEnabled())
	if err != nil {
		return nil, utils.WrapError(err, "", "failed to read input")
	}
	info.Kind = kind
	if utils.ContradictsKind(info.MimeType, kind) {
		return nil, utils.NewMalformedInputError(
			fmt.Sprintf("%s has a %s extension but its content is %s", input, kind, info.MimeType), nil)
	}
	d.logger.Debug("Input: %s (%s, %s, %d bytes, md5 %s)", input, info.Kind, info.MimeType, info.Size, info.MD5Hash)

	if err := output.Prepare(input, outputPath); err != nil {
		return nil, err
	}

	d.logger.Info("Dispatching %s to %s annotator", input, annotator.Name())
	return annotator.Annotate(ctx, input, outputPath, q)
}

var _ interfaces.Dispatcher = (*DefaultDispatcher)(nil)
