package stats

import (
	"fmt"
	"math"
)

var kibUnits = []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB", "ZiB"}

// FormatKiB renders a byte quantity already expressed in KiB with one
// decimal place and a binary unit, e.g. FormatKiB(1024) == "1.0 MiB".
func FormatKiB(num float64) string {
	for _, unit := range kibUnits {
		if math.Abs(num) < 1024 {
			return fmt.Sprintf("%.1f %s", num, unit)
		}
		num /= 1024
	}
	return fmt.Sprintf("%.1f YiB", num)
}
