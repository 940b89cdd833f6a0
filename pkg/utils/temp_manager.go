package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nodewee/doc-highlight/pkg/constants"
	"github.com/nodewee/doc-highlight/pkg/interfaces"
	"github.com/nodewee/doc-highlight/pkg/logger"
)

// SimpleTempManager hands out scratch directories under one base directory.
// Layout: {base_dir}/{prefix}-{random}/
type SimpleTempManager struct {
	baseDir string
	mu      sync.Mutex
	live    map[string]struct{}
	logger  *logger.Logger
}

var _ interfaces.TempFileManager = (*SimpleTempManager)(nil)

// NewSimpleTempManager creates a temp manager rooted at baseDir, or at the
// system temp directory when baseDir is empty
func NewSimpleTempManager(baseDir string, log *logger.Logger) *SimpleTempManager {
	if baseDir == "" {
		baseDir = filepath.Join(os.TempDir(), constants.AppName)
	}
	return &SimpleTempManager{
		baseDir: NormalizePath(baseDir),
		live:    make(map[string]struct{}),
		logger:  log,
	}
}

// GetBasePath returns the base path for scratch entries
func (tm *SimpleTempManager) GetBasePath() string {
	return tm.baseDir
}

// CreateTempDir creates a scratch directory that lives until Release or
// Cleanup
func (tm *SimpleTempManager) CreateTempDir(prefix string) (string, error) {
	if err := EnsureDir(tm.baseDir); err != nil {
		return "", NewIOError("failed to ensure temp base directory", err)
	}

	prefix = SanitizeFileName(prefix)
	if prefix == "" {
		prefix = "temp"
	}
	dir, err := os.MkdirTemp(tm.baseDir, prefix+"-")
	if err != nil {
		return "", NewIOError("failed to create temp directory", err)
	}

	tm.mu.Lock()
	tm.live[dir] = struct{}{}
	tm.mu.Unlock()
	tm.logger.Debug("Created temp directory: %s", dir)
	return dir, nil
}

// Release removes one scratch directory created by this manager
func (tm *SimpleTempManager) Release(dir string) error {
	tm.mu.Lock()
	_, ok := tm.live[dir]
	delete(tm.live, dir)
	tm.mu.Unlock()
	if !ok {
		return NewValidationError(fmt.Sprintf("not a managed temp directory: %s", dir), nil)
	}

	if err := os.RemoveAll(dir); err != nil {
		tm.logger.Warn("Failed to remove temporary directory: %s, error: %v", dir, err)
		return NewIOError(fmt.Sprintf("failed to remove temp dir %s", dir), err)
	}
	tm.logger.Debug("Removed temporary directory: %s", dir)
	return nil
}

// WithTempDir runs fn with a fresh scratch directory and removes it afterwards,
// whether fn succeeded or not. A removal failure is logged, never returned.
func (tm *SimpleTempManager) WithTempDir(prefix string, fn func(dir string) error) error {
	dir, err := tm.CreateTempDir(prefix)
	if err != nil {
		return err
	}
	defer func() {
		if err := tm.Release(dir); err != nil {
			tm.logger.Error("Temporary file cleanup failed: %v", err)
		}
	}()
	return fn(dir)
}

// Cleanup removes every scratch directory still alive
func (tm *SimpleTempManager) Cleanup() error {
	tm.mu.Lock()
	dirs := make([]string, 0, len(tm.live))
	for dir := range tm.live {
		dirs = append(dirs, dir)
	}
	tm.mu.Unlock()

	var errs []error
	for _, dir := range dirs {
		if err := tm.Release(dir); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
