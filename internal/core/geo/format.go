package geo

import (
	"fmt"
	"math"
)

// FormatDistance renders a distance for display, e.g. "3.2 km" or "850 m".
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%d m", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1f km", km)
}

// FormatETA renders an ETA in minutes, e.g. "7 min" or "1 h 5 min".
func FormatETA(minutes int) string {
	if minutes <= 0 {
		return "arrived"
	}
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%d h", h)
	}
	return fmt.Sprintf("%d h %d min", h, m)
}
