package theme

import "github.com/HaiFongPan/fpick/internal/picker"

// Terminal-compatible color constants using ANSI standard colors
// These colors work consistently across different terminal themes
const (
	// Primary colors (ANSI standard)
	ColorWhite        = "#FFFFFF" // ANSI 15 - primary text
	ColorBrightBlack  = "#808080" // ANSI 8 - secondary text
	ColorBrightBlue   = "#5C7CFA" // ANSI 12 - primary accent
	ColorBrightCyan   = "#51CF66" // ANSI 14 - secondary accent
	ColorBrightGreen  = "#51CF66" // ANSI 10 - success/links
	ColorBrightYellow = "#FFD43B" // ANSI 11 - warning
	ColorBrightRed    = "#FF6B6B" // ANSI 9 - error

	// File type colors (using ANSI palette)
	ColorFileDirectory = "#5C7CFA" // Blue
	ColorFileImage     = "#74C0FC" // Light blue
	ColorFileDocument  = "#51CF66" // Green
	ColorFileArchive   = "#FCC419" // Amber
	ColorFileVideo     = "#FF8787" // Light red
	ColorFileAudio     = "#DA77F2" // Purple
	ColorFileText      = "#74C0FC" // Cyan
)

// GetFileColor returns the color for a given file category
func GetFileColor(category string) string {
	switch category {
	case "directory":
		return ColorFileDirectory
	case "image":
		return ColorFileImage
	case "document":
		return ColorFileDocument
	case "archive":
		return ColorFileArchive
	case "video":
		return ColorFileVideo
	case "audio":
		return ColorFileAudio
	case "text":
		return ColorFileText
	default:
		return ColorWhite
	}
}

// GetCategoryEmoji returns the icon shown before a file of category
func GetCategoryEmoji(category string) string {
	switch category {
	case "directory":
		return "📁"
	case "image":
		return "🖼️"
	case "document":
		return "📝"
	case "archive":
		return "📦"
	case "video":
		return "🎬"
	case "audio":
		return "🎵"
	default:
		return "📄"
	}
}

// GetMessageColor returns the color for a notice level
func GetMessageColor(level picker.Level) string {
	switch level {
	case picker.LevelError:
		return ColorBrightRed
	case picker.LevelSuccess:
		return ColorBrightGreen
	case picker.LevelWarning:
		return ColorBrightYellow
	default:
		return ColorBrightCyan
	}
}

// GetMessageIcon returns the icon for a notice level
func GetMessageIcon(level picker.Level) string {
	switch level {
	case picker.LevelError:
		return "❌ "
	case picker.LevelSuccess:
		return "✅ "
	case picker.LevelWarning:
		return "⚠️ "
	default:
		return "ℹ️ "
	}
}
