package cli

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// FormatValue formats a price or Greek with six decimal places.
func FormatValue(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "+Inf"
	case math.IsInf(x, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(x, 'f', 6, 64)
}

// FormatSigned formats a value with an explicit sign.
func FormatSigned(x float64) string {
	s := FormatValue(x)
	if x > 0 {
		return "+" + s
	}
	return s
}

// FormatRate formats a continuously compounded rate as a percentage.
func FormatRate(r float64) string {
	return fmt.Sprintf("%.2f%%", r*100)
}

// FormatDateTime formats a timestamp in local time.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("02-Jan-2006 15:04:05")
}

// FormatDuration formats an evaluation time in human-readable form.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000)
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
}

// TruncateString truncates a string to max length with ellipsis.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// jsonFloat maps values encoding/json cannot represent to null.
func jsonFloat(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}
