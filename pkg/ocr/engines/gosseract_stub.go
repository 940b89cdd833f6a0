//go:build !cgo || nogosseract

package engines

import (
	"context"

	"github.com/nodewee/doc-highlight/pkg/constants"
	"github.com/nodewee/doc-highlight/pkg/logger"
	"github.com/nodewee/doc-highlight/pkg/types"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

const GosseractLinked = false

// GosseractEngine is unavailable in builds without cgo
type GosseractEngine struct{}

// NewGosseractEngine returns an engine that always reports itself missing
func NewGosseractEngine(languages []string, log *logger.Logger) *GosseractEngine {
	return &GosseractEngine{}
}

func (e *GosseractEngine) Name() string { return constants.OCREngineGosseract }

func (e *GosseractEngine) GetDescription() string {
	return "Tesseract via libtesseract (not compiled in)"
}

func (e *GosseractEngine) IsAvailable() error {
	return utils.NewMissingDependencyError("binary was built without libtesseract support", nil)
}

func (e *GosseractEngine) RecognizeWords(ctx context.Context, imagePath string) ([]types.OCRWord, error) {
	return nil, e.IsAvailable()
}
