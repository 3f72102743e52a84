package utils

import (
	"fmt"
	"math"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count in the largest fitting unit, matching the
// shape the mobile client displays ("1.50 MB").
func FormatBytes(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	idx := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if idx >= len(sizeUnits) {
		idx = len(sizeUnits) - 1
	}
	value := float64(bytes) / math.Pow(1024, float64(idx))
	return fmt.Sprintf("%.2f %s", value, sizeUnits[idx])
}

// StoragePercentage reports how much of the quota is used, capped at 100.
func StoragePercentage(used, limit int64) float64 {
	if limit <= 0 {
		return 0
	}
	pct := float64(used) / float64(limit) * 100
	if pct > 100 {
		return 100
	}
	return pct
}
