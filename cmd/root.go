package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nodewee/doc-highlight/pkg/config"
	"github.com/nodewee/doc-highlight/pkg/core"
	"github.com/nodewee/doc-highlight/pkg/interfaces"
	"github.com/nodewee/doc-highlight/pkg/logger"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

var (
	inputPath   string
	searchText  string
	outputPath  string
	ocrEngine   string
	ocrLang     string
	converter   string
	verbose     bool
	showVersion bool
	runUI       bool
)

// AppHandler encapsulates application main processing logic
type AppHandler struct {
	config    *config.Config
	logger    *logger.Logger
	processor *core.DefaultFileProcessor
	out       io.Writer
}

// NewAppHandler creates an application handler
func NewAppHandler(out io.Writer) *AppHandler {
	return &AppHandler{out: out}
}

// ProcessFile is the main entry point for one annotation run
func (h *AppHandler) ProcessFile(ctx context.Context, input, text, output string) error {
	if err := h.initialize(); err != nil {
		return err
	}
	defer h.processor.Close()

	absInput, err := filepath.Abs(input)
	if err != nil {
		return utils.WrapError(err, utils.ErrorTypeValidation, "error resolving input path")
	}
	absOutput, err := filepath.Abs(output)
	if err != nil {
		return utils.WrapError(err, utils.ErrorTypeValidation, "error resolving output path")
	}

	result, err := h.processor.ProcessFile(ctx, absInput, absOutput, text)
	if err != nil {
		return err
	}
	h.displayResults(result)
	return nil
}

// initialize loads configuration and builds the processor
func (h *AppHandler) initialize() error {
	h.config = config.LoadConfigWithEnvOverrides()
	applyCommandLineOverrides(h.config)

	if err := h.config.Validate(); err != nil {
		return utils.WrapError(err, "", "configuration validation failed")
	}

	h.logger = logger.NewLogger(h.config.LogLevel, h.config.EnableVerbose)
	processor, err := core.NewFileProcessor(h.config, h.logger)
	if err != nil {
		return err
	}
	h.processor = processor
	return nil
}

// applyCommandLineOverrides applies flag values on top of file and env settings
func applyCommandLineOverrides(cfg *config.Config) {
	if ocrEngine != "" {
		cfg.OCREngine = ocrEngine
	}
	if ocrLang != "" {
		cfg.OCRLanguages = ocrLang
	}
	if converter != "" {
		cfg.Converter = converter
	}
	if verbose {
		cfg.EnableVerbose = true
	}
}

// displayResults prints the outcome of a run
func (h *AppHandler) displayResults(result *interfaces.AnnotationResult) {
	if result.FallbackUsed {
		fmt.Fprintf(h.out, "⚠️  Could not convert the document to PDF; wrote a textual report instead\n")
		fmt.Fprintf(h.out, "📝 Report saved to: %s\n", result.OutputPath)
		fmt.Fprintf(h.out, "🔄 Attempted strategies: %v\n", result.AttemptedStrategies)
	} else {
		fmt.Fprintf(h.out, "✅ Annotated copy saved to: %s\n", result.OutputPath)
	}
	fmt.Fprintf(h.out, "📊 Matches: %d\n", result.MatchCount)
	fmt.Fprintf(h.out, "⏱️  Processing time: %dms\n", result.ProcessTime.Milliseconds())
}

// missingFlags lists the required flags that were not given
func missingFlags() []string {
	var missing []string
	if inputPath == "" {
		missing = append(missing, "--input")
	}
	if strings.TrimSpace(searchText) == "" {
		missing = append(missing, "--text")
	}
	if outputPath == "" {
		missing = append(missing, "--output")
	}
	return missing
}

// FormatError renders an error the way the CLI reports it
func FormatError(err error) string {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		msg := appErr.Message
		if appErr.Cause != nil {
			msg += ": " + appErr.Cause.Error()
		}
		return fmt.Sprintf("Error (%s): %s", appErr.Type, msg)
	}
	return fmt.Sprintf("Error: %v", err)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, FormatError(err))
	os.Exit(1)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "doc-highlight --input <file> --text <query> --output <file>",
	Short: "Find text in documents and write a copy with every occurrence highlighted",
	Long: `Locate every occurrence of a search text in a document and write an annotated
copy with the matches outlined. The input file is never modified.

Supported formats:
- PDF (.pdf): rectangle annotations around exact, case-insensitive matches
- Images (.png .jpg .jpeg .tiff .tif .bmp): OCR word boxes outlined on a copy
- Spreadsheets (.xlsx): matching cells get a colored border
- Word documents (.docx): converted to PDF and annotated; when no converter
  works, a paragraph report is written next to the output (.txt)

OCR Engines:
- auto: first available of gosseract and tesseract (default)
- gosseract: libtesseract linked in (needs a cgo build)
- tesseract: the tesseract command line tool

Converters:
- libreoffice: soffice --headless --convert-to pdf (default)
- pandoc: pandoc with its PDF engine

Examples:
  doc-highlight -i invoice.pdf -t "Total due" -o out/invoice_overlay.pdf
  doc-highlight -i scan.png -t Invoice123 -o scan_overlay.png --ocr tesseract --lang eng+deu
  doc-highlight -i book.xlsx -t pending -o book_overlay.xlsx
  doc-highlight -i memo.docx -t penalty -o memo_overlay.pdf --converter pandoc
  doc-highlight --ui                                  # open the web form on :8501
  doc-highlight history --limit 5                      # show recent runs`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Fprintf(cmd.OutOrStdout(), "doc-highlight %s\n", version)
			return
		}

		if runUI {
			if err := runServer(cmd.Context(), defaultServeAddr(), defaultWorkDir()); err != nil {
				exitWithError(err)
			}
			return
		}

		if missing := missingFlags(); len(missing) > 0 {
			cmd.Usage()
			exitWithError(utils.NewValidationError(
				fmt.Sprintf("missing required parameters: %s", strings.Join(missing, ", ")), nil))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		handler := NewAppHandler(cmd.OutOrStdout())
		if err := handler.ProcessFile(ctx, inputPath, searchText, outputPath); err != nil {
			exitWithError(err)
		}
	},
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exitWithError(err)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input document path")
	rootCmd.Flags().StringVarP(&searchText, "text", "t", "", "Text to search for (case-insensitive)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Annotated output path")
	rootCmd.Flags().StringVar(&ocrEngine, "ocr", "", "OCR engine for images (auto, gosseract, tesseract)")
	rootCmd.Flags().StringVar(&ocrLang, "lang", "", "OCR languages, e.g. eng or eng+deu")
	rootCmd.Flags().StringVar(&converter, "converter", "", "DOCX to PDF converter (libreoffice, pandoc)")
	rootCmd.Flags().BoolVar(&runUI, "ui", false, "Start the web form instead of processing a file")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "V", false, "Show version information")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output to show progress information")
}
