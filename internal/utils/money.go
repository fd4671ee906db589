package utils

import (
	"math"
	"regexp"
	"strings"
)

var (
	skuSpaces = regexp.MustCompile(`\s+`)
	skuUnsafe = regexp.MustCompile(`[^A-Za-z0-9-]`)
)

// Round2 rounds a money amount to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// NormalizeSKU turns "rice 1kg!" into "RICE-1KG" so the same code typed two
// ways maps to one catalog entry.
func NormalizeSKU(raw string) string {
	s := strings.TrimSpace(raw)
	s = skuSpaces.ReplaceAllString(s, "-")
	s = skuUnsafe.ReplaceAllString(s, "")
	return strings.ToUpper(s)
}
