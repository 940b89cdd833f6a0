package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nodewee/doc-highlight/pkg/config"
	"github.com/nodewee/doc-highlight/pkg/history"
	"github.com/nodewee/doc-highlight/pkg/interfaces"
	"github.com/nodewee/doc-highlight/pkg/logger"
	"github.com/nodewee/doc-highlight/pkg/match"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

// HistoryRecorder stores one entry per run
type HistoryRecorder interface {
	Record(ctx context.Context, e *history.Entry) error
}

// DefaultFileProcessor implements FileProcessor interface
type DefaultFileProcessor struct {
	config     *config.Config
	logger     *logger.Logger
	dispatcher interfaces.Dispatcher
	history    HistoryRecorder
	closers    []func() error
}

// NewFileProcessor creates a file processor wired from cfg. History is
// recorded only when cfg.HistoryDB is set.
func NewFileProcessor(cfg *config.Config, log *logger.Logger) (*DefaultFileProcessor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, utils.WrapError(err, "", "configuration validation failed")
	}

	temp := utils.NewSimpleTempManager("", log)
	dispatcher, err := NewDispatcher(cfg, temp, log)
	if err != nil {
		return nil, err
	}

	p := &DefaultFileProcessor{
		config:     cfg,
		logger:     log,
		dispatcher: dispatcher,
	}
	p.closers = append(p.closers, temp.Cleanup)

	if cfg.HistoryDB != "" {
		path, err := utils.ExpandPath(cfg.HistoryDB)
		if err != nil {
			return nil, utils.WrapError(err, utils.ErrorTypeValidation, "invalid history_db path")
		}
		store, err := history.Open(path)
		if err != nil {
			// history is optional; the pipeline still runs without it
			log.Warn("Run history disabled: %v", err)
		} else {
			p.history = store
			p.closers = append(p.closers, store.Close)
		}
	}

	log.Info("File processor initialized:")
	log.Info("  OCR engine: %s (languages: %v)", cfg.OCREngine, cfg.Languages())
	log.Info("  Converter: %s", cfg.Converter)
	log.Info("  Highlight color: %s", cfg.HighlightColor)
	return p, nil
}

// NewFileProcessorWith creates a processor around an existing dispatcher;
// recorder may be nil
func NewFileProcessorWith(cfg *config.Config, log *logger.Logger, d interfaces.Dispatcher, recorder HistoryRecorder) *DefaultFileProcessor {
	return &DefaultFileProcessor{config: cfg, logger: log, dispatcher: d, history: recorder}
}

// Dispatcher returns the dispatcher used for runs
func (p *DefaultFileProcessor) Dispatcher() interfaces.Dispatcher {
	return p.dispatcher
}

// ProcessFile validates the request and annotates inputFile into outputFile
func (p *DefaultFileProcessor) ProcessFile(ctx context.Context, inputFile, outputFile, searchText string) (*interfaces.AnnotationResult, error) {
	start := time.Now()

	p.logger.Info("=== Starting file processing ===")
	p.logger.Info("Input file: %s", inputFile)
	p.logger.Info("Output file: %s", outputFile)

	result, err := p.process(ctx, inputFile, outputFile, searchText)
	elapsed := time.Since(start)

	if outcome := p.recordHistory(ctx, inputFile, outputFile, searchText, result, err, elapsed); outcome.IsIgnorable() {
		p.logger.Warn("Could not record run history: %v", outcome.Err())
	}

	if err != nil {
		return nil, err
	}
	result.ProcessTime = elapsed
	p.logger.Progress("✅", "Annotation completed in %dms", elapsed.Milliseconds())
	p.logger.Info("=== File processing completed ===")
	return result, nil
}

func (p *DefaultFileProcessor) process(ctx context.Context, inputFile, outputFile, searchText string) (*interfaces.AnnotationResult, error) {
	if inputFile == "" {
		return nil, utils.NewValidationError("input file path cannot be empty", nil)
	}
	// an unsupported format fails before the file is touched
	if _, err := p.dispatcher.Classify(inputFile); err != nil {
		return nil, err
	}
	if err := p.validateInputFile(inputFile); err != nil {
		return nil, err
	}
	if outputFile == "" {
		return nil, utils.NewValidationError("output file path cannot be empty", nil)
	}

	q, err := match.NewQuery(searchText)
	if err != nil {
		if errors.Is(err, match.ErrEmptyQuery) {
			return nil, utils.NewValidationError("search text cannot be empty", err)
		}
		return nil, utils.WrapError(err, utils.ErrorTypeValidation, "invalid search text")
	}

	return p.dispatcher.Dispatch(ctx, inputFile, outputFile, q)
}

// validateInputFile validates the input file
func (p *DefaultFileProcessor) validateInputFile(inputFile string) error {
	info, err := os.Stat(inputFile)
	if os.IsNotExist(err) {
		return utils.NewNotFoundError(fmt.Sprintf("input file not found: %s", inputFile), err)
	}
	if err != nil {
		return utils.WrapError(err, "", fmt.Sprintf("cannot access input file: %s", inputFile))
	}
	if info.IsDir() {
		return utils.NewValidationError(fmt.Sprintf("input path is a directory: %s", inputFile), nil)
	}

	// Check if file is readable
	if file, err := os.Open(inputFile); err != nil {
		return utils.NewPermissionError(fmt.Sprintf("cannot read input file: %s", inputFile), err)
	} else {
		file.Close()
	}
	return nil
}

// recordHistory stores the run when history is enabled. Failures here are
// ignorable and never change the run's result.
func (p *DefaultFileProcessor) recordHistory(ctx context.Context, input, outputFile, searchText string, result *interfaces.AnnotationResult, runErr error, elapsed time.Duration) utils.Outcome {
	if p.history == nil {
		return utils.Succeeded()
	}

	entry := &history.Entry{
		Input:    input,
		Output:   outputFile,
		Query:    searchText,
		Duration: elapsed,
	}
	if result != nil {
		entry.Output = result.OutputPath
		entry.Kind = string(result.Kind)
		entry.Strategy = result.Strategy
		entry.MatchCount = result.MatchCount
		entry.FallbackUsed = result.FallbackUsed
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}
	return utils.Ignorable(p.history.Record(ctx, entry))
}

// Close releases the history database and scratch directories
func (p *DefaultFileProcessor) Close() error {
	var errs []error
	for _, c := range p.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	p.closers = nil
	return errors.Join(errs...)
}

var _ interfaces.FileProcessor = (*DefaultFileProcessor)(nil)
