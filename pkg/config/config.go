package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nodewee/doc-highlight/pkg/constants"
	"github.com/nodewee/doc-highlight/pkg/overlay"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

// Default values
const (
	DefaultLogLevel      = "info"
	DefaultEnableVerbose = false
	DefaultHistoryDB     = ""
)

// Config holds application configuration. It is built once at the command
// line boundary and handed to every component that needs it.
type Config struct {
	// External tool paths
	SofficePath   string `yaml:"soffice_path"`
	PandocPath    string `yaml:"pandoc_path"`
	TesseractPath string `yaml:"tesseract_path"`

	// Recognition and conversion
	OCREngine    string `yaml:"ocr_engine"`
	OCRLanguages string `yaml:"ocr_languages"`
	Converter    string `yaml:"converter"`

	// Highlight style
	HighlightColor   string  `yaml:"highlight_color"`
	PDFStrokeWidth   float64 `yaml:"pdf_stroke_width"`
	ImageStrokeWidth int     `yaml:"image_stroke_width"`

	// Run history, disabled when empty
	HistoryDB string `yaml:"history_db"`

	LogLevel string `yaml:"log_level"`

	// Runtime settings (not persisted to file)
	EnableVerbose bool `yaml:"-"`
}

// NewConfig returns a configuration filled with defaults and no tool paths
func NewConfig() *Config {
	return &Config{
		OCREngine:        constants.DefaultOCREngine,
		OCRLanguages:     constants.DefaultOCRLanguages,
		Converter:        constants.DefaultConverter,
		HighlightColor:   constants.DefaultHighlightColor,
		PDFStrokeWidth:   constants.DefaultPDFStrokeWidth,
		ImageStrokeWidth: constants.DefaultImageStrokeWidth,
		HistoryDB:        DefaultHistoryDB,
		LogLevel:         DefaultLogLevel,
		EnableVerbose:    DefaultEnableVerbose,
	}
}

// DefaultConfig returns the configuration by loading from file or creating default
func DefaultConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to load config file, using basic defaults: %v\n", err)
		return NewConfig()
	}
	return config
}

// LoadConfigWithEnvOverrides loads config from file and applies environment variable overrides
func LoadConfigWithEnvOverrides() *Config {
	config := DefaultConfig()
	ApplyEnvOverrides(config, os.Getenv)
	return config
}

// ApplyEnvOverrides overlays environment variables read through getenv
func ApplyEnvOverrides(config *Config, getenv func(string) string) {
	if value := getenv("SOFFICE_PATH"); value != "" {
		config.SofficePath = value
	}
	if value := getenv("PANDOC_PATH"); value != "" {
		config.PandocPath = value
	}
	if value := getenv("TESSERACT_PATH"); value != "" {
		config.TesseractPath = value
	}

	if value := getenv("DOC_HIGHLIGHT_OCR_ENGINE"); value != "" {
		config.OCREngine = value
	}
	if value := getenv("DOC_HIGHLIGHT_OCR_LANGUAGES"); value != "" {
		config.OCRLanguages = value
	}
	if value := getenv("DOC_HIGHLIGHT_CONVERTER"); value != "" {
		config.Converter = value
	}
	if value := getenv("DOC_HIGHLIGHT_COLOR"); value != "" {
		config.HighlightColor = value
	}
	if value := getenv("DOC_HIGHLIGHT_PDF_STROKE_WIDTH"); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			config.PDFStrokeWidth = f
		}
	}
	if value := getenv("DOC_HIGHLIGHT_IMAGE_STROKE_WIDTH"); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			config.ImageStrokeWidth = n
		}
	}
	if value := getenv("DOC_HIGHLIGHT_HISTORY_DB"); value != "" {
		config.HistoryDB = value
	}
	if value := getenv("DOC_HIGHLIGHT_LOG_LEVEL"); value != "" {
		config.LogLevel = value
	}
	if value := getenv("DOC_HIGHLIGHT_VERBOSE"); value != "" {
		config.EnableVerbose = value == "true" || value == "1" || value == "yes"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	return NewConfigValidator().Validate(c)
}

// Style converts the highlight settings into an overlay style
func (c *Config) Style() (overlay.Style, error) {
	col, err := overlay.ParseHexColor(c.HighlightColor)
	if err != nil {
		return overlay.Style{}, utils.NewValidationError("invalid highlight_color", err)
	}
	return overlay.Style{
		Color:      col,
		PDFWidth:   c.PDFStrokeWidth,
		PixelWidth: c.ImageStrokeWidth,
	}, nil
}

// Languages splits OCRLanguages ("eng+deu" or "eng,deu") into codes
func (c *Config) Languages() []string {
	fields := strings.FieldsFunc(c.OCRLanguages, func(r rune) bool {
		return r == '+' || r == ',' || r == ' '
	})
	if len(fields) == 0 {
		return []string{constants.DefaultOCRLanguages}
	}
	return fields
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{OCREngine: %s, Converter: %s, Color: %s, LogLevel: %s, Verbose: %v}",
		c.OCREngine, c.Converter, c.HighlightColor, c.LogLevel, c.EnableVerbose)
}
