package constants

// Application constants
const (
	AppName = "doc-highlight"
	// AppVersion is injected through ldflags in main.go
)

// File processing constants
const (
	// Default file permissions
	DefaultFilePermission = 0644
	DefaultDirPermission  = 0755

	// Fallback report
	ReportFileExtension = ".txt"
	ReportHeaderFormat  = "Search report for '%s' in %s"
	ReportLineFormat    = "Paragraph %d: %s"

	// Web shell
	DefaultServeAddr   = ":8501"
	DefaultUploadDir   = "temp_uploads"
	OverlayFileSuffix  = "_overlay"
	MaxUploadSizeBytes = 64 << 20
)

// Highlight style defaults
const (
	DefaultHighlightColor   = "#FF0000"
	DefaultPDFStrokeWidth   = 1.0
	DefaultImageStrokeWidth = 2
	DefaultImageQuality     = 90
)

// OCR and conversion defaults
const (
	OCREngineAuto      = "auto"
	OCREngineGosseract = "gosseract"
	OCREngineTesseract = "tesseract"

	ConverterLibreOffice = "libreoffice"
	ConverterPandoc      = "pandoc"

	DefaultOCRLanguages = "eng"
	DefaultOCREngine    = OCREngineAuto
	DefaultConverter    = ConverterLibreOffice
)

// Supported input extensions, lower case without the dot
var (
	PDFExtensions         = []string{"pdf"}
	ImageExtensions       = []string{"png", "jpg", "jpeg", "tiff", "tif", "bmp"}
	SpreadsheetExtensions = []string{"xlsx"}
	FlowDocExtensions     = []string{"docx"}
)

// MIME families reported by content sniffing for each kind
var (
	PDFMimeTypes = []string{"application/pdf"}

	ImageMimePrefix = "image/"

	// xlsx and docx are zip containers; sniffers report either the OOXML
	// type or plain zip depending on how much of the archive they inspect
	OOXMLMimeTypes = []string{
		"application/zip",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
)
