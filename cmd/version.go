package cmd

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nodewee/doc-highlight/pkg/config"
	"github.com/nodewee/doc-highlight/pkg/constants"
	"github.com/nodewee/doc-highlight/pkg/converters"
	"github.com/nodewee/doc-highlight/pkg/logger"
	"github.com/nodewee/doc-highlight/pkg/ocr"
	"github.com/nodewee/doc-highlight/pkg/ocr/engines"
)

// Version information variables - set by main.go
var (
	version   = "dev"
	gitCommit = "none"
	buildTime = "unknown"
	buildBy   = "unknown"
)

// SetVersionInfo sets the version information from main.go
func SetVersionInfo(v, commit, buildTimeParam, buildByParam string) {
	version = v
	gitCommit = commit
	buildTime = buildTimeParam
	buildBy = buildByParam
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information and available capabilities",
	Long: `Show build information together with the OCR engines and document
converters that can run on this machine. Images need at least one OCR engine;
Word documents fall back to a textual report when no converter works.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		showVersionInfo(out)
		showCapabilities(out, config.LoadConfigWithEnvOverrides())
	},
}

// showVersionInfo displays build and runtime information
func showVersionInfo(w io.Writer) {
	fmt.Fprintf(w, "🖍️  Doc Highlight\n")
	fmt.Fprintf(w, "=================\n\n")

	fmt.Fprintf(w, "🔖 Version Information:\n")
	fmt.Fprintf(w, "  Version:     %s\n", version)
	fmt.Fprintf(w, "  Git Commit:  %s\n", gitCommit)
	fmt.Fprintf(w, "  Build Time:  %s\n", buildTime)
	fmt.Fprintf(w, "  Built By:    %s\n", buildBy)
	fmt.Fprintf(w, "  Go Version:  %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "\n")
}

// showCapabilities probes the configured OCR engines and converters
func showCapabilities(w io.Writer, cfg *config.Config) {
	log := logger.Discard()

	fmt.Fprintf(w, "⚙️ Capabilities:\n")
	fmt.Fprintf(w, "  PDF, XLSX:   built in\n")
	fmt.Fprintf(w, "  libtesseract linked: %t\n", engines.GosseractLinked)

	available := ocr.NewOCRSelector(cfg, log).AvailableEngines()
	if len(available) == 0 {
		fmt.Fprintf(w, "  OCR engines: ❌ none (install tesseract to annotate images)\n")
	} else {
		fmt.Fprintf(w, "  OCR engines: ✅ %s (languages: %s)\n", strings.Join(available, ", "), strings.Join(cfg.Languages(), "+"))
	}

	for _, name := range []string{constants.ConverterLibreOffice, constants.ConverterPandoc} {
		c := cfg.Clone()
		c.Converter = name
		conv, err := converters.New(c, log)
		if err == nil {
			err = conv.IsAvailable()
		}
		mark := "✅"
		if err != nil {
			mark = "❌"
		}
		fmt.Fprintf(w, "  %-12s %s\n", name+":", mark)
	}
	fmt.Fprintf(w, "\n")
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
