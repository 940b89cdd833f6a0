package ocr

import (
	"fmt"
	"strings"

	"github.com/nodewee/doc-highlight/pkg/config"
	"github.com/nodewee/doc-highlight/pkg/constants"
	"github.com/nodewee/doc-highlight/pkg/interfaces"
	"github.com/nodewee/doc-highlight/pkg/logger"
	"github.com/nodewee/doc-highlight/pkg/ocr/engines"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

// DefaultOCRSelector implements OCR engine selection
type DefaultOCRSelector struct {
	logger  *logger.Logger
	order   []string
	engines map[string]interfaces.OCREngine
}

// NewOCRSelector creates a selector with the built-in engines registered in
// preference order
func NewOCRSelector(cfg *config.Config, log *logger.Logger) *DefaultOCRSelector {
	langs := cfg.Languages()
	return NewOCRSelectorWith(log,
		engines.NewGosseractEngine(langs, log),
		engines.NewTesseractCLIEngine(cfg.TesseractPath, langs, log),
	)
}

// NewOCRSelectorWith creates a selector over the given engines; earlier
// engines win in auto mode
func NewOCRSelectorWith(log *logger.Logger, list ...interfaces.OCREngine) *DefaultOCRSelector {
	s := &DefaultOCRSelector{
		logger:  log,
		engines: make(map[string]interfaces.OCREngine, len(list)),
	}
	for _, e := range list {
		s.order = append(s.order, e.Name())
		s.engines[e.Name()] = e
	}
	return s
}

// SelectEngine returns the named engine, or the first available one for auto
func (s *DefaultOCRSelector) SelectEngine(name string) (interfaces.OCREngine, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == constants.OCREngineAuto {
		var reasons []string
		for _, n := range s.order {
			e := s.engines[n]
			if err := e.IsAvailable(); err != nil {
				s.logger.Debug("OCR engine %s unavailable: %v", n, err)
				reasons = append(reasons, fmt.Sprintf("%s: %v", n, err))
				continue
			}
			s.logger.Info("Selected OCR engine: %s", e.GetDescription())
			return e, nil
		}
		return nil, utils.NewMissingDependencyError(
			fmt.Sprintf("no OCR engine is available (%s)", strings.Join(reasons, "; ")), nil)
	}

	e, ok := s.engines[name]
	if !ok {
		return nil, utils.NewValidationError(fmt.Sprintf("unknown OCR engine: %s", name), nil)
	}
	if err := e.IsAvailable(); err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeMissingDependency,
			fmt.Sprintf("OCR engine '%s' is not available on this system", name))
	}
	s.logger.Info("Selected OCR engine: %s", e.GetDescription())
	return e, nil
}

// AvailableEngines lists the engines that can run here, in preference order
func (s *DefaultOCRSelector) AvailableEngines() []string {
	var available []string
	for _, n := range s.order {
		if s.engines[n].IsAvailable() == nil {
			available = append(available, n)
		}
	}
	return available
}

var _ interfaces.OCRSelector = (*DefaultOCRSelector)(nil)
