package utils

import "fmt"

// FormatDuration renders whole seconds as "1h 2m 3s", "2m 3s" or "3s".
func FormatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

func FormatHoursMinutes(totalMinutes int) string {
	return fmt.Sprintf("%dh %dm", totalMinutes/60, totalMinutes%60)
}
