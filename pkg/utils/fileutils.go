package utils

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/h2non/filetype"

	"github.com/nodewee/doc-highlight/pkg/constants"
	"github.com/nodewee/doc-highlight/pkg/types"
)

// sniffLen covers every signature filetype knows about
const sniffLen = 8192

var (
	unsafeWindowsChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	unsafeUnixChars    = regexp.MustCompile(`[/\x00]`)
)

// NormalizePath standardizes file paths
func NormalizePath(path string) string {
	return filepath.Clean(path)
}

// EnsureDir creates directory if it doesn't exist
func EnsureDir(dirPath string) error {
	if dirPath == "" {
		return fmt.Errorf("directory path cannot be empty")
	}
	return os.MkdirAll(dirPath, constants.DefaultDirPermission)
}

// IsCommandAvailable checks if a command is available in PATH or as a path
func IsCommandAvailable(command string) bool {
	if command == "" {
		return false
	}
	_, err := exec.LookPath(command)
	return err == nil
}

// SanitizeFileName cleans filename for cross-platform compatibility
func SanitizeFileName(filename string) string {
	if runtime.GOOS == "windows" {
		filename = unsafeWindowsChars.ReplaceAllString(filename, "_")
	} else {
		filename = unsafeUnixChars.ReplaceAllString(filename, "_")
	}
	filename = strings.TrimSpace(filename)
	if len(filename) > 250 {
		filename = filename[:250]
	}
	return filename
}

// Extension returns the lower-case extension of path without the dot
func Extension(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// GetFileInfo gathers size and sniffed MIME type of a file. Only the header
// is read unless withHash asks for the MD5 of the whole content.
func GetFileInfo(filePath string, withHash bool) (*types.FileInfo, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, WrapError(err, "", "failed to get file stats")
	}

	mimeType, err := SniffMimeType(filePath)
	if err != nil {
		return nil, NewIOError("failed to read file header", err)
	}

	info := &types.FileInfo{
		Extension: Extension(filePath),
		MimeType:  mimeType,
		Size:      stat.Size(),
	}
	if withHash {
		if info.MD5Hash, err = CalculateFileMD5(filePath); err != nil {
			return nil, err
		}
	}
	return info, nil
}

// CalculateFileMD5 calculates MD5 hash of file
func CalculateFileMD5(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", WrapError(err, "", "failed to open file for MD5 calculation")
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", NewIOError("failed to calculate MD5 hash", err)
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// SniffMimeType detects the MIME type from the file's leading bytes.
// Unknown content yields an empty string and no error.
func SniffMimeType(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}

	kind, err := filetype.Match(head[:n])
	if err != nil || kind == filetype.Unknown {
		return "", nil
	}
	return kind.MIME.Value, nil
}

// ContradictsKind reports whether a sniffed MIME type clearly belongs to a
// different document family than kind. Empty MIME types never contradict.
func ContradictsKind(mimeType string, kind types.DocumentKind) bool {
	if mimeType == "" {
		return false
	}
	switch kind {
	case types.KindPDF:
		return !contains(constants.PDFMimeTypes, mimeType)
	case types.KindImage:
		return !strings.HasPrefix(mimeType, constants.ImageMimePrefix)
	case types.KindSpreadsheet, types.KindFlowText:
		return !contains(constants.OOXMLMimeTypes, mimeType)
	}
	return false
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
