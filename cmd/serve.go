package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/nodewee/doc-highlight/pkg/config"
	"github.com/nodewee/doc-highlight/pkg/constants"
	"github.com/nodewee/doc-highlight/pkg/core"
	"github.com/nodewee/doc-highlight/pkg/logger"
	"github.com/nodewee/doc-highlight/pkg/utils"
	"github.com/nodewee/doc-highlight/pkg/web"
)

var (
	serveAddr    string
	serveWorkDir string
)

func defaultServeAddr() string { return constants.DefaultServeAddr }

func defaultWorkDir() string { return constants.DefaultUploadDir }

// runServer builds the processor from configuration and serves the web form
// until interrupted
func runServer(ctx context.Context, addr, workDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.LoadConfigWithEnvOverrides()
	applyCommandLineOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return utils.WrapError(err, "", "configuration validation failed")
	}

	log := logger.NewLogger(cfg.LogLevel, cfg.EnableVerbose)
	processor, err := core.NewFileProcessor(cfg, log)
	if err != nil {
		return err
	}
	defer processor.Close()

	srv, err := web.NewServer(processor, workDir, core.SupportedExtensions(), log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	return srv.ListenAndServe(ctx, addr)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload form in a browser",
	Long: `Start a local web page where a document can be uploaded together with the
text to find. The annotated copy is offered for download and images are
previewed inline. Uploads and results are kept in the work directory.

Examples:
  doc-highlight serve
  doc-highlight serve --addr 127.0.0.1:9000 --work-dir /tmp/highlight`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServer(cmd.Context(), serveAddr, serveWorkDir); err != nil {
			exitWithError(err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", constants.DefaultServeAddr, "Listen address")
	serveCmd.Flags().StringVar(&serveWorkDir, "work-dir", constants.DefaultUploadDir, "Directory for uploads and results")
	serveCmd.Flags().StringVar(&ocrEngine, "ocr", "", "OCR engine for images (auto, gosseract, tesseract)")
	serveCmd.Flags().StringVar(&ocrLang, "lang", "", "OCR languages, e.g. eng or eng+deu")
	serveCmd.Flags().StringVar(&converter, "converter", "", "DOCX to PDF converter (libreoffice, pandoc)")
	rootCmd.AddCommand(serveCmd)
}
