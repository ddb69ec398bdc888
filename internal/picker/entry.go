package picker

import (
	"fmt"
	"time"
)

// Kind tells files and directories apart
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

// String returns a short label for the kind
func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	default:
		return "file"
	}
}

// Meta holds the stat information of an entry. Directories carry a
// modification time only, their Size is ignored.
type Meta struct {
	Size     int64
	Modified time.Time
}

// RawEntry is one child as reported by a Provider
type RawEntry struct {
	// Name is the on-disk name, used to build the child's path
	Name string
	// DisplayName overrides Name in listings when set
	DisplayName string
	Kind        Kind
	// Meta is nil when the provider could not stat the child
	Meta *Meta
	// Err carries the stat failure when Meta is nil
	Err error
}

// Entry is one row of a directory listing
type Entry struct {
	Path   string
	Name   string
	Kind   Kind
	Parent bool
	Meta   *Meta
	// Err is a *ListingDegradedError when the metadata could not be read
	Err error
}

// IsDir reports whether the entry is a directory
func (e Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// Row is the display form of an entry pushed to a Sink
type Row struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Size     string `json:"size"`
	Modified string `json:"date_modified"`
	Dir      bool   `json:"dir"`
}

// Row renders the entry the way the listing table shows it
func (e Entry) Row() Row {
	row := Row{ID: e.Path, Dir: e.IsDir()}

	switch {
	case e.Parent:
		row.Name = "📁 ../"
		row.Size = "--"
		row.Modified = "--"
		return row
	case e.IsDir():
		row.Name = fmt.Sprintf("📁 %s/", e.Name)
	default:
		row.Name = e.Name
	}

	if e.Meta == nil {
		return row
	}
	if e.IsDir() {
		row.Size = "--"
	} else {
		row.Size = ReadableSize(e.Meta.Size)
	}
	row.Modified = FormatModified(e.Meta.Modified)
	return row
}

// Rows converts a listing into display rows
func Rows(entries []Entry) []Row {
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = e.Row()
	}
	return rows
}
