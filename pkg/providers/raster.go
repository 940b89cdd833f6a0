package providers

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/nodewee/doc-highlight/pkg/constants"
	"github.com/nodewee/doc-highlight/pkg/interfaces"
	"github.com/nodewee/doc-highlight/pkg/logger"
	"github.com/nodewee/doc-highlight/pkg/match"
	"github.com/nodewee/doc-highlight/pkg/overlay"
	"github.com/nodewee/doc-highlight/pkg/output"
	"github.com/nodewee/doc-highlight/pkg/types"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

// RasterAnnotator outlines OCR word boxes that match the query on a copy of
// an image
type RasterAnnotator struct {
	selector   interfaces.OCRSelector
	engineName string
	style      overlay.Style
	logger     *logger.Logger

	mu     sync.Mutex
	engine interfaces.OCREngine
}

// NewRasterAnnotator creates a raster annotator. The OCR engine is resolved
// from selector on first successful use; failed lookups are retried.
func NewRasterAnnotator(selector interfaces.OCRSelector, engineName string, style overlay.Style, log *logger.Logger) *RasterAnnotator {
	return &RasterAnnotator{
		selector:   selector,
		engineName: engineName,
		style:      style,
		logger:     log,
	}
}

// Name returns the name of the annotator
func (a *RasterAnnotator) Name() string { return "raster" }

// Kind returns the document kind handled
func (a *RasterAnnotator) Kind() types.DocumentKind { return types.KindImage }

// CheckAvailable resolves the OCR engine
func (a *RasterAnnotator) CheckAvailable() error {
	_, err := a.resolveEngine()
	return err
}

func (a *RasterAnnotator) resolveEngine() (interfaces.OCREngine, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.engine != nil {
		return a.engine, nil
	}
	engine, err := a.selector.SelectEngine(a.engineName)
	if err != nil {
		return nil, err
	}
	a.engine = engine
	return engine, nil
}

// Annotate runs OCR once, strokes every matching word box and saves the copy
func (a *RasterAnnotator) Annotate(ctx context.Context, input, outputPath string, q match.Query) (*interfaces.AnnotationResult, error) {
	start := time.Now()

	engine, err := a.resolveEngine()
	if err != nil {
		return nil, err
	}

	src, format, err := decodeImage(input)
	if err != nil {
		return nil, err
	}

	a.logger.Progress("🔍", "Running OCR (%s) on %s", engine.Name(), input)
	words, err := engine.RecognizeWords(ctx, input)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeOCR, "OCR failed")
	}
	a.logger.Debug("OCR returned %d words", len(words))

	canvas := overlay.Canvas(src)
	origin := canvas.Bounds().Min
	var locations []match.Location
	for _, w := range words {
		if !q.Bidirectional(w.Text) {
			continue
		}
		box := image.Rect(w.Left, w.Top, w.Left+w.Width, w.Top+w.Height).Add(origin)
		overlay.StrokeRect(canvas, box, a.style.Color, a.style.PixelWidth)
		locations = append(locations, match.Geometric{
			Page: 1,
			Rect: match.Rect{
				X0: float64(box.Min.X), Y0: float64(box.Min.Y),
				X1: float64(box.Max.X), Y1: float64(box.Max.Y),
			},
		})
		a.logger.Debug("  word %q at %v", w.Text, box)
	}
	a.logger.Info("Found %d matching word(s) in %s", len(locations), input)

	outFormat := imageFormatForPath(outputPath, format)
	if err := output.WriteFile(outputPath, func(w io.Writer) error {
		return encodeImage(w, canvas, outFormat)
	}); err != nil {
		return nil, err
	}
	a.logger.Progress("💾", "Annotated image saved to: %s", outputPath)

	return &interfaces.AnnotationResult{
		OutputPath:          outputPath,
		MatchCount:          len(locations),
		Kind:                types.KindImage,
		Strategy:            types.StrategyRasterOverlay,
		Locations:           locations,
		AttemptedStrategies: []string{types.StrategyRasterOverlay},
		ProcessTime:         time.Since(start),
	}, nil
}

// decodeImage reads an image and reports its registered format name
func decodeImage(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", utils.WrapError(err, "", "failed to open image")
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", utils.NewMalformedInputError(fmt.Sprintf("cannot decode image %s", path), err)
	}
	return img, format, nil
}

// imageFormatForPath maps the output extension to an encoder name, keeping
// the source format when the extension is not an image type
func imageFormatForPath(path, fallback string) string {
	switch utils.Extension(path) {
	case "png":
		return "png"
	case "jpg", "jpeg":
		return "jpeg"
	case "bmp":
		return "bmp"
	case "tif", "tiff":
		return "tiff"
	}
	return fallback
}

func encodeImage(w io.Writer, img image.Image, format string) error {
	var err error
	switch format {
	case "png":
		err = png.Encode(w, img)
	case "jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: constants.DefaultImageQuality})
	case "bmp":
		err = bmp.Encode(w, img)
	case "tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return utils.NewUnsupportedError(fmt.Sprintf("cannot encode image as %q", format), nil)
	}
	if err != nil {
		return utils.NewIOError("failed to encode image", err)
	}
	return nil
}
