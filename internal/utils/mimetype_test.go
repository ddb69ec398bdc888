package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectContentType(t *testing.T) {
	ct, err := DetectContentType("photo.JPG", nil)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)

	ct, err = DetectContentType("noext", strings.NewReader("\x89PNG\r\n\x1a\n0000"))
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	ct, err = DetectContentType("noext", nil)
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", ct)
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		name string
		dir  bool
		want string
	}{
		{"docs", true, "directory"},
		{"a.png", false, "image"},
		{"clip.mp4", false, "video"},
		{"song.mp3", false, "audio"},
		{"notes.md", false, "text"},
		{"data.json", false, "text"},
		{"paper.pdf", false, "document"},
		{"backup.tar", false, "archive"},
		{"blob", false, "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategoryOf(tt.name, tt.dir), tt.name)
	}
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, IsImageFile("x.webp"))
	assert.False(t, IsImageFile("x.txt"))
}
