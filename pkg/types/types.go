package types

// DocumentKind is the structural family a file belongs to. It selects the
// extraction technique and the annotation primitive.
type DocumentKind string

const (
	KindPDF         DocumentKind = "pdf"
	KindImage       DocumentKind = "image"
	KindSpreadsheet DocumentKind = "spreadsheet"
	KindFlowText    DocumentKind = "flow"
)

// Strategy names reported in results and run history
const (
	StrategyPDFOverlay      = "pdf-overlay"
	StrategyRasterOverlay   = "raster-overlay"
	StrategyCellBorder      = "cell-border"
	StrategyConvertDelegate = "convert-and-delegate"
	StrategyParagraphReport = "paragraph-report"
)

// OCRWord is one word box recognized in a raster image, in pixel space with
// the origin at the top-left corner.
type OCRWord struct {
	Text       string  `json:"text"`
	Left       int     `json:"left"`
	Top        int     `json:"top"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"confidence"`
}

// FileInfo contains basic information about a file
type FileInfo struct {
	MD5Hash   string       `json:"md5_hash"`
	Extension string       `json:"extension"`
	MimeType  string       `json:"mime_type"`
	Size      int64        `json:"size"`
	Kind      DocumentKind `json:"kind"`
}
