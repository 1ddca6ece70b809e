package scan

import (
	"os"
	"path/filepath"
)

// Filter decides whether a directory entry of a node_modules listing is
// a dependency package worth visiting.
type Filter struct {
	logf func(string, ...any)
}

// NewFilter creates a filter. logf receives diagnostics for entries
// skipped due to filesystem errors; it may be nil.
func NewFilter(logf func(string, ...any)) *Filter {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Filter{logf: logf}
}

// IsPackage reports whether path is a directory containing a readable
// package.json directly inside it. Stray files, scoped-namespace
// wrapper directories, and unreadable entries all fail the test.
// Filesystem errors are logged and treated as "not a package": a broken
// entry skips itself, never the run.
func (f *Filter) IsPackage(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logf("skipping %s: %v", path, err)
		}
		return false
	}
	if !info.IsDir() {
		return false
	}

	manifest := filepath.Join(path, ManifestFile)
	fh, err := os.Open(manifest)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logf("skipping %s: manifest unreadable: %v", path, err)
		}
		return false
	}
	_ = fh.Close()
	return true
}
