package engines

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/nodewee/doc-highlight/pkg/constants"
	"github.com/nodewee/doc-highlight/pkg/logger"
	"github.com/nodewee/doc-highlight/pkg/types"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

// tsvWordLevel is the page-layout level tesseract assigns to single words
const tsvWordLevel = 5

// TesseractCLIEngine shells out to the tesseract binary and parses its TSV
// output
type TesseractCLIEngine struct {
	path      string
	languages []string
	logger    *logger.Logger
}

// NewTesseractCLIEngine creates an engine using the binary at path, or
// "tesseract" from PATH when path is empty
func NewTesseractCLIEngine(path string, languages []string, log *logger.Logger) *TesseractCLIEngine {
	if path == "" {
		path = constants.ExecutableName("tesseract")
	}
	return &TesseractCLIEngine{path: path, languages: languages, logger: log}
}

// Name returns the name of the OCR engine
func (e *TesseractCLIEngine) Name() string {
	return constants.OCREngineTesseract
}

// GetDescription returns a description of the OCR engine
func (e *TesseractCLIEngine) GetDescription() string {
	return fmt.Sprintf("Tesseract command line (%s)", e.path)
}

// IsAvailable checks if the tesseract binary can be found
func (e *TesseractCLIEngine) IsAvailable() error {
	if _, err := exec.LookPath(e.path); err != nil {
		return utils.NewMissingDependencyError(
			fmt.Sprintf("tesseract executable not found (%s); install tesseract-ocr or set tesseract_path", e.path), err)
	}
	return nil
}

// RecognizeWords runs `tesseract <image> stdout -l <langs> tsv`
func (e *TesseractCLIEngine) RecognizeWords(ctx context.Context, imagePath string) ([]types.OCRWord, error) {
	args := []string{imagePath, "stdout"}
	if len(e.languages) > 0 {
		args = append(args, "-l", strings.Join(e.languages, "+"))
	}
	args = append(args, "tsv")

	cmd := exec.CommandContext(ctx, e.path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	e.logger.Debug("Running tesseract command: %s", cmd.String())
	out, err := cmd.Output()
	if err != nil {
		return nil, utils.NewOCRError(
			fmt.Sprintf("tesseract failed: %s", strings.TrimSpace(stderr.String())), err)
	}

	words, err := ParseTSV(bytes.NewReader(out))
	if err != nil {
		return nil, utils.NewOCRError("cannot parse tesseract output", err)
	}
	e.logger.Debug("tesseract recognized %d words in %s", len(words), imagePath)
	return words, nil
}

// ParseTSV reads tesseract TSV output and returns the word-level rows in
// order. Rows for blocks, paragraphs and lines are skipped.
func ParseTSV(r io.Reader) ([]types.OCRWord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		columns map[string]int
		words   []types.OCRWord
	)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")

		if columns == nil {
			columns = make(map[string]int, len(fields))
			for i, name := range fields {
				columns[name] = i
			}
			for _, required := range []string{"level", "left", "top", "width", "height", "conf", "text"} {
				if _, ok := columns[required]; !ok {
					return nil, fmt.Errorf("missing TSV column %q", required)
				}
			}
			continue
		}

		// the text column is last and may be absent on non-word rows
		get := func(name string) string {
			if i := columns[name]; i < len(fields) {
				return fields[i]
			}
			return ""
		}

		level, err := strconv.Atoi(get("level"))
		if err != nil {
			return nil, fmt.Errorf("bad level %q: %w", get("level"), err)
		}
		if level != tsvWordLevel {
			continue
		}

		word := types.OCRWord{Text: get("text")}
		for _, f := range []struct {
			name string
			dst  *int
		}{
			{"left", &word.Left},
			{"top", &word.Top},
			{"width", &word.Width},
			{"height", &word.Height},
		} {
			if *f.dst, err = strconv.Atoi(get(f.name)); err != nil {
				return nil, fmt.Errorf("bad %s %q: %w", f.name, get(f.name), err)
			}
		}
		word.Confidence, _ = strconv.ParseFloat(get("conf"), 64)
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}
