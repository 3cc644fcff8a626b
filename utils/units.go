package utils

import "fmt"

// SiUnits formats number with a decimal SI prefix, e.g. 1.50 M
func SiUnits(number float64, decimals int) string {
	for _, unit := range [...]struct {
		scale  float64
		prefix string
	}{
		{1e12, "T"},
		{1e9, "G"},
		{1e6, "M"},
		{1e3, "K"},
	} {
		if number >= unit.scale {
			return fmt.Sprintf("%.*f %s", decimals, number/unit.scale, unit.prefix)
		}
	}

	return fmt.Sprintf("%.*f ", decimals, number)
}
