package config

import (
	"fmt"
	"strings"

	"github.com/nodewee/doc-highlight/pkg/constants"
	"github.com/nodewee/doc-highlight/pkg/overlay"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

// ConfigValidator checks configuration values before the pipeline starts
type ConfigValidator struct{}

// NewConfigValidator creates a configuration validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// Validate collects every problem and reports them together
func (v *ConfigValidator) Validate(c *Config) error {
	var problems []string

	if err := v.validateOCREngine(c.OCREngine); err != nil {
		problems = append(problems, err.Error())
	}
	if err := v.validateConverter(c.Converter); err != nil {
		problems = append(problems, err.Error())
	}
	if err := v.validateStyle(c); err != nil {
		problems = append(problems, err.Error())
	}
	if err := v.validateLogLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return utils.NewValidationError("configuration validation failed",
			fmt.Errorf("validation errors: %s", strings.Join(problems, "; ")))
	}
	return nil
}

func (v *ConfigValidator) validateOCREngine(engine string) error {
	switch engine {
	case constants.OCREngineAuto, constants.OCREngineGosseract, constants.OCREngineTesseract:
		return nil
	}
	return fmt.Errorf("invalid OCR engine: %q", engine)
}

func (v *ConfigValidator) validateConverter(converter string) error {
	switch converter {
	case constants.ConverterLibreOffice, constants.ConverterPandoc:
		return nil
	}
	return fmt.Errorf("invalid converter: %q", converter)
}

func (v *ConfigValidator) validateStyle(c *Config) error {
	if _, err := overlay.ParseHexColor(c.HighlightColor); err != nil {
		return err
	}
	if c.PDFStrokeWidth <= 0 || c.PDFStrokeWidth > 20 {
		return fmt.Errorf("pdf stroke width must be in (0, 20], got %g", c.PDFStrokeWidth)
	}
	if c.ImageStrokeWidth < 1 || c.ImageStrokeWidth > 50 {
		return fmt.Errorf("image stroke width must be in [1, 50], got %d", c.ImageStrokeWidth)
	}
	return nil
}

func (v *ConfigValidator) validateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("invalid log level: %q", level)
}
