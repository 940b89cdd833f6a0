//go:build cgo && !nogosseract

package engines

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/nodewee/doc-highlight/pkg/constants"
	"github.com/nodewee/doc-highlight/pkg/logger"
	"github.com/nodewee/doc-highlight/pkg/types"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

// GosseractLinked reports whether libtesseract is compiled into the binary
const GosseractLinked = true

// GosseractEngine runs libtesseract in-process through gosseract
type GosseractEngine struct {
	languages     []string
	logger        *logger.Logger
	clientFactory func() *gosseract.Client
}

// NewGosseractEngine creates an in-process tesseract engine
func NewGosseractEngine(languages []string, log *logger.Logger) *GosseractEngine {
	return &GosseractEngine{
		languages:     languages,
		logger:        log,
		clientFactory: gosseract.NewClient,
	}
}

// Name returns the name of the OCR engine
func (e *GosseractEngine) Name() string {
	return constants.OCREngineGosseract
}

// GetDescription returns a description of the OCR engine
func (e *GosseractEngine) GetDescription() string {
	return "Tesseract via libtesseract (gosseract)"
}

// IsAvailable checks that libtesseract loads and has the configured languages
func (e *GosseractEngine) IsAvailable() error {
	langs, err := gosseract.GetAvailableLanguages()
	if err != nil {
		return utils.NewMissingDependencyError("libtesseract is not usable", err)
	}
	installed := make(map[string]bool, len(langs))
	for _, l := range langs {
		installed[l] = true
	}
	for _, want := range e.languages {
		if !installed[want] {
			return utils.NewMissingDependencyError(
				fmt.Sprintf("tesseract language data %q is not installed (have %s)", want, strings.Join(langs, ", ")), nil)
		}
	}
	return nil
}

// RecognizeWords runs OCR over the whole image and returns word boxes
func (e *GosseractEngine) RecognizeWords(ctx context.Context, imagePath string) ([]types.OCRWord, error) {
	client := e.clientFactory()
	defer client.Close()

	if len(e.languages) > 0 {
		if err := client.SetLanguage(e.languages...); err != nil {
			return nil, utils.NewOCRError("failed to set OCR languages", err)
		}
	}
	if err := client.SetImage(imagePath); err != nil {
		return nil, utils.NewOCRError(fmt.Sprintf("failed to load image %s", imagePath), err)
	}

	select {
	case <-ctx.Done():
		return nil, utils.WrapError(ctx.Err(), utils.ErrorTypeTimeout, "OCR interrupted")
	default:
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, utils.NewOCRError("word recognition failed", err)
	}

	words := make([]types.OCRWord, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, types.OCRWord{
			Text:       b.Word,
			Left:       b.Box.Min.X,
			Top:        b.Box.Min.Y,
			Width:      b.Box.Dx(),
			Height:     b.Box.Dy(),
			Confidence: b.Confidence,
		})
	}
	e.logger.Debug("gosseract recognized %d words in %s", len(words), imagePath)
	return words, nil
}
