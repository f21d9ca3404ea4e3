package utils

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// TruncateString truncates a string to maxLength runes
func TruncateString(s string, maxLength int) string {
	if utf8.RuneCountInString(s) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return strings.Repeat(".", max(maxLength, 0))
	}
	runes := []rune(s)
	return string(runes[:maxLength-3]) + "..."
}

// MaskSecret returns a partially masked version of a secret for safe
// display. Values no longer than minVisibleLen are masked completely.
func MaskSecret(s string, minVisibleLen int) string {
	n := utf8.RuneCountInString(s)
	if n <= minVisibleLen {
		return strings.Repeat("*", n)
	}
	runes := []rune(s)
	visible := min(4, n/4)
	return string(runes[:visible]) + strings.Repeat("*", n-visible*2) + string(runes[n-visible:])
}

// FormatByteSize formats a byte size into a human-readable string
func FormatByteSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatDuration formats a duration in a human-readable format
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := d.Seconds() - float64(minutes*60)
	return fmt.Sprintf("%dm %.0fs", minutes, seconds)
}
