package interfaces

// TempFileManager hands out scratch directories that only live for one
// pipeline step
type TempFileManager interface {
	// GetBasePath returns the directory all scratch entries are created under
	GetBasePath() string

	// CreateTempDir creates a scratch directory
	CreateTempDir(prefix string) (string, error)

	// WithTempDir runs fn with a fresh scratch directory and removes it afterwards
	WithTempDir(prefix string, fn func(dir string) error) error

	// Cleanup removes every scratch directory still alive
	Cleanup() error
}
