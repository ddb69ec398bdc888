package source

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/HaiFongPan/fpick/internal/picker"
)

// Local lists the local file system
type Local struct{}

// NewLocal returns the local file system source
func NewLocal() *Local {
	return &Local{}
}

// Name implements Source
func (l *Local) Name() string {
	return "local"
}

// Abs expands a leading ~ and makes path absolute and clean
func (l *Local) Abs(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}

// Stat follows symlinks
func (l *Local) Stat(path string) (picker.Kind, error) {
	info, err := os.Stat(path)
	if err != nil {
		return picker.KindFile, err
	}
	if info.IsDir() {
		return picker.KindDirectory, nil
	}
	return picker.KindFile, nil
}

// ReadDir lists path. An entry whose metadata cannot be read is returned
// without Meta instead of failing the whole listing.
func (l *Local) ReadDir(path string) ([]picker.RawEntry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	entries := make([]picker.RawEntry, 0, len(dirEntries))
	for _, e := range dirEntries {
		name := e.Name()
		raw := picker.RawEntry{Name: name, Kind: picker.KindFile}
		if display := norm.NFC.String(name); display != name {
			raw.DisplayName = display
		}
		if e.IsDir() {
			raw.Kind = picker.KindDirectory
		}

		info, err := e.Info()
		if err != nil {
			raw.Err = err
			entries = append(entries, raw)
			continue
		}

		// symlinks are listed as what they point to
		if info.Mode()&os.ModeSymlink != 0 {
			target, err := os.Stat(filepath.Join(path, name))
			if err != nil {
				raw.Err = err
				entries = append(entries, raw)
				continue
			}
			info = target
			if target.IsDir() {
				raw.Kind = picker.KindDirectory
			}
		}

		raw.Meta = &picker.Meta{Size: info.Size(), Modified: info.ModTime()}
		entries = append(entries, raw)
	}
	return entries, nil
}

// Resolve evaluates symlinks so containment can be checked on real paths
func (l *Local) Resolve(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}

// Open implements Source
func (l *Local) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Close implements Source
func (l *Local) Close() error {
	return nil
}
