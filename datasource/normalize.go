package datasource

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Round1 rounds v to one decimal place
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// MPSToKPH converts a wind speed from m/s to km/h, rounded to one decimal
func MPSToKPH(v float64) float64 {
	return Round1(v * 3.6)
}

// Capitalize upper-cases the first letter of a description and lower-cases the rest,
// e.g. "scattered CLOUDS" becomes "Scattered clouds"
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	// Casers are stateful, so each call gets its own
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.English).String(s[:size]) + cases.Lower(language.English).String(s[size:])
}
