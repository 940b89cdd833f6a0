package converters

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/nodewee/doc-highlight/pkg/constants"
	"github.com/nodewee/doc-highlight/pkg/logger"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

// LibreOffice converts documents with a headless soffice
type LibreOffice struct {
	path   string
	logger *logger.Logger
}

// NewLibreOffice creates a converter using the soffice binary at path, or
// soffice from PATH when path is empty
func NewLibreOffice(path string, log *logger.Logger) *LibreOffice {
	if path == "" {
		path = constants.ExecutableName("soffice")
	}
	return &LibreOffice{path: path, logger: log}
}

// Name returns the name of the converter
func (c *LibreOffice) Name() string { return constants.ConverterLibreOffice }

// IsAvailable checks if soffice can be found
func (c *LibreOffice) IsAvailable() error {
	if _, err := exec.LookPath(c.path); err != nil {
		return utils.NewMissingDependencyError(
			fmt.Sprintf("LibreOffice (%s) not found; install it or set soffice_path", c.path), err)
	}
	return nil
}

// ConvertToPDF runs `soffice --headless --convert-to pdf --outdir <outDir> <input>`
func (c *LibreOffice) ConvertToPDF(ctx context.Context, input, outDir string) (string, error) {
	if err := c.IsAvailable(); err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, c.path, "--headless", "--convert-to", "pdf", "--outdir", outDir, input)
	c.logger.Debug("Running LibreOffice command: %s", cmd.String())
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", utils.NewConversionError(
			fmt.Sprintf("LibreOffice conversion failed: %s", commandOutput(out)), err)
	}

	pdfPath := filepath.Join(outDir, utils.Stem(input)+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return "", utils.NewConversionError(
			fmt.Sprintf("LibreOffice reported success but %s is missing: %s", pdfPath, commandOutput(out)), err)
	}
	return pdfPath, nil
}
