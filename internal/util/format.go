package util

import (
	"fmt"
	"time"
)

// FormatTokens formats an int64 token count with K/M suffix for readability.
// Examples: 500 -> "500", 1500 -> "1.5K", 1500000 -> "1.5M"
func FormatTokens(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

// FormatCost formats a USD amount for display.
// Examples: 0.0004 -> "$0.0004", 1.5 -> "$1.50"
func FormatCost(usd float64) string {
	if usd == 0 {
		return "$0.00"
	}
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

// FormatLatency formats a millisecond latency.
// Examples: 850 -> "850ms", 2500 -> "2.5s"
func FormatLatency(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%.0fms", ms)
	}
	return fmt.Sprintf("%.1fs", ms/1000)
}

// FormatDateTime formats an RFC3339 timestamp string to date-time format (2006-01-02 15:04).
// Returns the original string if parsing fails.
func FormatDateTime(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02 15:04")
}

// ParseTimestamp parses a stored timestamp to time.Time. Handles
// RFC3339 and the SQLite "YYYY-MM-DD HH:MM:SS" format.
// Returns zero time if parsing fails.
func ParseTimestamp(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	t, _ := time.Parse("2006-01-02 15:04:05", s)
	return t
}
