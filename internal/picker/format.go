package picker

import (
	"fmt"
	"time"
)

// ModifiedLayout is the timestamp layout used in listings
const ModifiedLayout = "2006-01-02 15:04:05"

// ReadableSize formats a byte count: whole bytes below 1 KB, two decimals above
func ReadableSize(size int64) string {
	if size < 1024 {
		return fmt.Sprintf("%d bytes", size)
	}
	value := float64(size)
	for _, unit := range []string{"bytes", "KB", "MB", "GB", "TB"} {
		if value < 1024.0 {
			return fmt.Sprintf("%.2f %s", value, unit)
		}
		value /= 1024.0
	}
	return fmt.Sprintf("%.2f PB", value)
}

// FormatModified formats a modification time in local time
func FormatModified(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(ModifiedLayout)
}
