package format

import (
	"math"
	"strconv"
)

const (
	kilobyte int64 = 1024
	megabyte       = kilobyte * 1024
	gigabyte       = megabyte * 1024
)

// DefaultPrecision is the number of decimals Size renders for KB and above.
const DefaultPrecision = 1

// Size renders a byte count with DefaultPrecision ("1.5 MB", "12 Bytes").
func Size(bytes int64) string {
	return SizeWithPrecision(bytes, DefaultPrecision)
}

// SizeWithPrecision renders a byte count in Bytes, KB, MB or GB. Each unit is
// used strictly below the next threshold, so 1024 renders as "1.0 KB".
// Negative counts and negative precision are clamped to zero.
func SizeWithPrecision(bytes int64, digits int) string {
	if bytes < 0 {
		bytes = 0
	}
	if digits < 0 {
		digits = 0
	}

	switch {
	case bytes < kilobyte:
		return strconv.FormatInt(bytes, 10) + " Bytes"
	case bytes < megabyte:
		return scaled(bytes, kilobyte, digits) + " KB"
	case bytes < gigabyte:
		return scaled(bytes, megabyte, digits) + " MB"
	default:
		return scaled(bytes, gigabyte, digits) + " GB"
	}
}

// scaled rounds exact halves up, so 1280 bytes is "1.3 KB" rather than the
// round-half-even "1.2 KB".
func scaled(bytes, unit int64, digits int) string {
	pow := math.Pow(10, float64(digits))
	v := math.Floor(float64(bytes)/float64(unit)*pow+0.5) / pow
	return strconv.FormatFloat(v, 'f', digits, 64)
}
