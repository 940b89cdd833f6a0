package interfaces

import (
	"context"
	"time"

	"github.com/nodewee/doc-highlight/pkg/match"
	"github.com/nodewee/doc-highlight/pkg/types"
)

// Annotator finds every occurrence of a query in one kind of document and
// writes an annotated copy
type Annotator interface {
	// Name returns the name of the annotator
	Name() string

	// Kind returns the document kind this annotator handles
	Kind() types.DocumentKind

	// CheckAvailable reports a missing capability before any I/O happens
	CheckAvailable() error

	// Annotate reads input, never modifies it, and writes the annotated
	// artifact to output
	Annotate(ctx context.Context, input, output string, q match.Query) (*AnnotationResult, error)
}

// AnnotationResult holds the outcome of one annotation run. OutputPath and
// MatchCount are the contract; the rest is diagnostic.
type AnnotationResult struct {
	OutputPath          string             `json:"output_path"`
	MatchCount          int                `json:"match_count"`
	Kind                types.DocumentKind `json:"kind"`
	Strategy            string             `json:"strategy"`
	Locations           []match.Location   `json:"-"`
	FallbackUsed        bool               `json:"fallback_used,omitempty"`
	AttemptedStrategies []string           `json:"attempted_strategies,omitempty"`
	ProcessTime         time.Duration      `json:"process_time"`
}

// Dispatcher selects the annotator for a path and runs it
type Dispatcher interface {
	// Classify maps a path to a document kind without touching the file
	Classify(path string) (types.DocumentKind, error)

	// Dispatch runs the matching annotator
	Dispatch(ctx context.Context, input, output string, q match.Query) (*AnnotationResult, error)
}

// Converter turns a flow document into a PDF
type Converter interface {
	// Name returns the name of the converter
	Name() string

	// IsAvailable returns nil when the converter can run
	IsAvailable() error

	// ConvertToPDF writes a PDF into outDir and returns its path
	ConvertToPDF(ctx context.Context, input, outDir string) (string, error)
}

// FileProcessor handles one end-to-end invocation
type FileProcessor interface {
	// ProcessFile annotates inputFile into outputFile for the given search text
	ProcessFile(ctx context.Context, inputFile, outputFile, searchText string) (*AnnotationResult, error)
}
