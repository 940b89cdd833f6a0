package constants

import (
	"runtime"
)

// Platform-specific tool configurations
type PlatformConfig struct {
	SofficePaths   []string
	PandocPaths    []string
	TesseractPaths []string
}

// GetPlatformConfig returns platform-specific configuration
func GetPlatformConfig() *PlatformConfig {
	switch runtime.GOOS {
	case "windows":
		return &PlatformConfig{
			SofficePaths: []string{
				"soffice.exe",
				"C:\\Program Files\\LibreOffice\\program\\soffice.exe",
				"C:\\Program Files (x86)\\LibreOffice\\program\\soffice.exe",
			},
			PandocPaths: []string{
				"pandoc.exe",
				"C:\\Program Files\\Pandoc\\pandoc.exe",
				"C:\\Program Files (x86)\\Pandoc\\pandoc.exe",
			},
			TesseractPaths: []string{
				"tesseract.exe",
				"C:\\Program Files\\Tesseract-OCR\\tesseract.exe",
				"C:\\Program Files (x86)\\Tesseract-OCR\\tesseract.exe",
			},
		}
	case "darwin":
		return &PlatformConfig{
			SofficePaths: []string{
				"soffice",
				"/Applications/LibreOffice.app/Contents/MacOS/soffice",
				"/opt/homebrew/bin/soffice",
				"/usr/local/bin/soffice",
			},
			PandocPaths: []string{
				"pandoc",
				"/usr/local/bin/pandoc",
				"/opt/homebrew/bin/pandoc",
				"/usr/bin/pandoc",
			},
			TesseractPaths: []string{
				"tesseract",
				"/opt/homebrew/bin/tesseract",
				"/usr/local/bin/tesseract",
			},
		}
	default: // Linux and other Unix-like systems
		return &PlatformConfig{
			SofficePaths: []string{
				"soffice",
				"libreoffice",
				"/usr/bin/soffice",
				"/usr/lib/libreoffice/program/soffice",
				"/opt/libreoffice/program/soffice",
				"/snap/bin/libreoffice",
			},
			PandocPaths: []string{
				"pandoc",
				"/usr/bin/pandoc",
				"/usr/local/bin/pandoc",
			},
			TesseractPaths: []string{
				"tesseract",
				"/usr/bin/tesseract",
				"/usr/local/bin/tesseract",
			},
		}
	}
}

// IsWindows returns true if running on Windows
func IsWindows() bool {
	return runtime.GOOS == "windows"
}

// ExecutableName appends the platform executable extension to a tool name
func ExecutableName(baseName string) string {
	if IsWindows() {
		return baseName + ".exe"
	}
	return baseName
}
