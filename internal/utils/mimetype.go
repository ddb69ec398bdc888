package utils

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// commonTypes covers extensions missing from the system mime tables
var commonTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
	".log":  "text/plain",
	".md":   "text/markdown",
	".go":   "text/x-go",
	".py":   "text/x-python",
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".json": "application/json",
	".xml":  "application/xml",
	".zip":  "application/zip",
	".tar":  "application/x-tar",
	".gz":   "application/gzip",
	".7z":   "application/x-7z-compressed",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".webm": "video/webm",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
}

// DetectContentType detects the MIME type of a file from its extension and,
// failing that, from the first bytes of reader (which may be nil)
func DetectContentType(filePath string, reader io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if contentType, ok := commonTypes[ext]; ok {
		return contentType, nil
	}
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType, nil
	}

	if reader != nil {
		buffer := make([]byte, 512)
		n, err := io.ReadFull(reader, buffer)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return "", err
		}
		if contentType := http.DetectContentType(buffer[:n]); contentType != "application/octet-stream" {
			return contentType, nil
		}
	}

	return "application/octet-stream", nil
}

// IsImageType checks if the content type represents an image
func IsImageType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// IsImageFile reports whether name looks like an image by extension
func IsImageFile(name string) bool {
	contentType, _ := DetectContentType(name, nil)
	return IsImageType(contentType)
}

// GetFileCategory returns a general category for the content type
func GetFileCategory(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "image"
	case strings.HasPrefix(contentType, "video/"):
		return "video"
	case strings.HasPrefix(contentType, "audio/"):
		return "audio"
	case strings.HasPrefix(contentType, "text/"), contentType == "application/json", contentType == "application/xml", contentType == "application/javascript":
		return "text"
	case strings.Contains(contentType, "pdf"), strings.Contains(contentType, "word"):
		return "document"
	case strings.Contains(contentType, "zip"), strings.Contains(contentType, "tar"), strings.Contains(contentType, "gzip"), strings.Contains(contentType, "7z"):
		return "archive"
	default:
		return "other"
	}
}

// CategoryOf returns the category of a listing entry by name
func CategoryOf(name string, dir bool) string {
	if dir {
		return "directory"
	}
	contentType, _ := DetectContentType(name, nil)
	return GetFileCategory(contentType)
}
