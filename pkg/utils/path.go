package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nodewee/doc-highlight/pkg/constants"
)

// IsExecutable reports whether filePath is a regular file that can be run
func IsExecutable(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		return false
	}
	if constants.IsWindows() {
		return strings.HasSuffix(strings.ToLower(filePath), ".exe")
	}
	return info.Mode()&0111 != 0
}

// ExpandPath resolves a leading ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", NewIOError("failed to get user home directory", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Stem returns the base name of path without its extension
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReplaceExt swaps the extension of path for ext (which includes the dot)
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
