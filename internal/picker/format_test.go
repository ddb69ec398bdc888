package picker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadableSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 bytes"},
		{1023, "1023 bytes"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{5 * 1024 * 1024 * 1024, "5.00 GB"},
		{1 << 40, "1.00 TB"},
		{1 << 50, "1.00 PB"},
		{3 << 50, "3.00 PB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ReadableSize(tt.size), "size %d", tt.size)
	}
}

func TestFormatModified(t *testing.T) {
	ts := time.Date(2023, 11, 2, 8, 4, 5, 0, time.Local)
	assert.Equal(t, "2023-11-02 08:04:05", FormatModified(ts))
	assert.Equal(t, "", FormatModified(time.Time{}))
}

func TestAcceptFilter(t *testing.T) {
	all := NewAcceptFilter()
	assert.True(t, all.AcceptsAll())
	assert.True(t, all.Match("anything.bin", KindFile))

	blank := ParseAccept("")
	assert.True(t, blank.AcceptsAll())

	// 零值同样接受所有文件
	var zero AcceptFilter
	assert.True(t, zero.AcceptsAll())
	assert.True(t, zero.Match("a.txt", KindFile))
	assert.True(t, NewAcceptFilter("jpg", "").Match("a.txt", KindFile))

	images := ParseAccept("jpg, PNG", "gif")
	assert.Equal(t, []string{"jpg", "png", "gif"}, images.Suffixes())
	assert.True(t, images.Match("cat.JPG", KindFile))
	assert.True(t, images.Match("cat.png", KindFile))
	assert.False(t, images.Match("cat.webp", KindFile))
	assert.True(t, images.Match("folder", KindDirectory))

	// plain suffix test, no dot is implied
	py := NewAcceptFilter("py")
	assert.True(t, py.Match("happy", KindFile))
	assert.True(t, NewAcceptFilter(".py").Match("x.py", KindFile))
	assert.False(t, NewAcceptFilter(".py").Match("happy", KindFile))
}

func TestWithin(t *testing.T) {
	tests := []struct {
		root, path string
		want       bool
	}{
		{"/data", "/data", true},
		{"/data", "/data/sub/x", true},
		{"/data", "/database", false},
		{"/data", "/", false},
		{"/data", "/etc", false},
		{"/", "/etc", true},
		{"/data", "/data/..x", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Within(tt.root, tt.path), "%s in %s", tt.path, tt.root)
	}
}

func TestEntryRow(t *testing.T) {
	mod := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
	dir := Entry{Path: "/r/d", Name: "d", Kind: KindDirectory, Meta: &Meta{Modified: mod}}
	assert.Equal(t, Row{ID: "/r/d", Name: "📁 d/", Size: "--", Modified: "2024-01-02 03:04:05", Dir: true}, dir.Row())

	file := Entry{Path: "/r/f", Name: "f", Kind: KindFile, Meta: &Meta{Size: 2048, Modified: mod}}
	assert.Equal(t, Row{ID: "/r/f", Name: "f", Size: "2.00 KB", Modified: "2024-01-02 03:04:05"}, file.Row())
}
