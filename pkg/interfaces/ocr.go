package interfaces

import (
	"context"

	"github.com/nodewee/doc-highlight/pkg/types"
)

// OCREngine defines the interface for different OCR implementations
type OCREngine interface {
	// Name returns the name of the OCR engine
	Name() string

	// GetDescription returns a description of the OCR engine
	GetDescription() string

	// IsAvailable returns nil when the engine can run on this system
	IsAvailable() error

	// RecognizeWords runs OCR once over the whole image and returns every
	// word box in reading order
	RecognizeWords(ctx context.Context, imagePath string) ([]types.OCRWord, error)
}

// OCRSelector picks the OCR engine to use
type OCRSelector interface {
	// SelectEngine returns the named engine, or the first available one for "auto"
	SelectEngine(name string) (OCREngine, error)

	// AvailableEngines lists the engines that can run here
	AvailableEngines() []string
}
