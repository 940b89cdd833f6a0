// Package output places annotated artifacts on disk. Writes go to a sibling
// temporary file that is renamed into place, so a failed step never leaves a
// partial artifact behind and never touches the input document.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nodewee/doc-highlight/pkg/constants"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

// Prepare checks that output is a distinct file from input and creates the
// missing parent directories of output.
func Prepare(input, output string) error {
	if output == "" {
		return utils.NewValidationError("output path cannot be empty", nil)
	}
	same, err := SamePath(input, output)
	if err != nil {
		return err
	}
	if same {
		return utils.NewValidationError(
			fmt.Sprintf("output path %s resolves to the input file", output), nil)
	}
	if err := utils.EnsureDir(filepath.Dir(output)); err != nil {
		return utils.WrapError(err, "", "failed to create output directory")
	}
	return nil
}

// SamePath reports whether a and b name the same file, either lexically
// after resolving to absolute paths or, when both exist, by inode.
func SamePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, utils.NewValidationError("cannot resolve path "+a, err)
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, utils.NewValidationError("cannot resolve path "+b, err)
	}
	if absA == absB {
		return true, nil
	}
	infoA, errA := os.Stat(absA)
	infoB, errB := os.Stat(absB)
	if errA != nil || errB != nil {
		return false, nil
	}
	return os.SameFile(infoA, infoB), nil
}

// WriteFile streams the artifact produced by write into path atomically.
func WriteFile(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return utils.WrapError(err, "", "failed to create temporary output file")
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Chmod(constants.DefaultFilePermission); err != nil {
		return utils.NewIOError("failed to set output permissions", err)
	}
	if err = tmp.Close(); err != nil {
		return utils.NewIOError("failed to flush output file", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return utils.NewIOError("failed to move output into place", err)
	}
	return nil
}

// WriteBytes writes data to path atomically.
func WriteBytes(path string, data []byte) error {
	return WriteFile(path, func(w io.Writer) error {
		_, err := w.Write(data)
		if err != nil {
			return utils.NewIOError("failed to write output", err)
		}
		return nil
	})
}

// ReportPath derives the textual fallback report path from the requested
// output path by swapping its extension for .txt.
func ReportPath(output string) string {
	return utils.ReplaceExt(output, constants.ReportFileExtension)
}
