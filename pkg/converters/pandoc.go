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

// Pandoc converts documents with pandoc and its configured PDF engine
type Pandoc struct {
	path   string
	logger *logger.Logger
}

// NewPandoc creates a converter using the pandoc binary at path, or pandoc
// from PATH when path is empty
func NewPandoc(path string, log *logger.Logger) *Pandoc {
	if path == "" {
		path = constants.ExecutableName("pandoc")
	}
	return &Pandoc{path: path, logger: log}
}

// Name returns the name of the converter
func (c *Pandoc) Name() string { return constants.ConverterPandoc }

// IsAvailable checks if pandoc can be found
func (c *Pandoc) IsAvailable() error {
	if _, err := exec.LookPath(c.path); err != nil {
		return utils.NewMissingDependencyError(
			fmt.Sprintf("pandoc (%s) not found; install it or set pandoc_path", c.path), err)
	}
	return nil
}

// ConvertToPDF runs `pandoc <input> -o <outDir>/<stem>.pdf`
func (c *Pandoc) ConvertToPDF(ctx context.Context, input, outDir string) (string, error) {
	if err := c.IsAvailable(); err != nil {
		return "", err
	}

	pdfPath := filepath.Join(outDir, utils.Stem(input)+".pdf")
	cmd := exec.CommandContext(ctx, c.path, input, "-o", pdfPath)
	c.logger.Debug("Running pandoc command: %s", cmd.String())
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", utils.NewConversionError(
			fmt.Sprintf("pandoc conversion failed: %s", commandOutput(out)), err)
	}
	if _, err := os.Stat(pdfPath); err != nil {
		return "", utils.NewConversionError(fmt.Sprintf("pandoc produced no %s", pdfPath), err)
	}
	return pdfPath, nil
}
