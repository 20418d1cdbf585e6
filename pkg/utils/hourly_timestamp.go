package utils

import "fmt"

func FormatHourTimestamp(hour int) string {
	if hour == 0 {
		return "12:00 AM"
	} else if hour < 12 {
		return fmt.Sprintf("%d:00 AM", hour)
	} else if hour == 12 {
		return "12:00 PM"
	} else {
		return fmt.Sprintf("%d:00 PM", hour-12)
	}
}

// FormatHourLabel is the compact form used in hourly charts: "12am", "9am", "3pm".
func FormatHourLabel(hour int) string {
	if hour == 0 {
		return "12am"
	} else if hour < 12 {
		return fmt.Sprintf("%dam", hour)
	} else if hour == 12 {
		return "12pm"
	} else {
		return fmt.Sprintf("%dpm", hour-12)
	}
}
