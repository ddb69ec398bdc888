package picker

import (
	"path/filepath"
	"strings"
)

// Provider reads a directory tree. Paths are absolute, slash separated on
// remote providers.
type Provider interface {
	// Abs normalises a user supplied path into the provider's absolute form
	Abs(path string) (string, error)
	Stat(path string) (Kind, error)
	ReadDir(path string) ([]RawEntry, error)
}

// Resolver is implemented by providers that can follow links
type Resolver interface {
	Resolve(path string) (string, error)
}

// Within reports whether path equals root or is nested below it. Both
// paths must already be clean and absolute.
func Within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
