// Package converters turns flow documents into PDF with external tools so the
// PDF matcher can place overlays on them.
package converters

import (
	"fmt"
	"strings"

	"github.com/nodewee/doc-highlight/pkg/config"
	"github.com/nodewee/doc-highlight/pkg/constants"
	"github.com/nodewee/doc-highlight/pkg/interfaces"
	"github.com/nodewee/doc-highlight/pkg/logger"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

// New returns the converter configured by name
func New(cfg *config.Config, log *logger.Logger) (interfaces.Converter, error) {
	switch strings.ToLower(cfg.Converter) {
	case "", constants.ConverterLibreOffice:
		return NewLibreOffice(cfg.SofficePath, log), nil
	case constants.ConverterPandoc:
		return NewPandoc(cfg.PandocPath, log), nil
	default:
		return nil, utils.NewValidationError(fmt.Sprintf("unknown converter: %s", cfg.Converter), nil)
	}
}

// commandOutput trims tool output for error messages
func commandOutput(out []byte) string {
	s := strings.TrimSpace(string(out))
	if len(s) > 500 {
		s = s[:500] + "..."
	}
	return s
}
