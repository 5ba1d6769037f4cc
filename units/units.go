package units

import (
	"regexp"
	"strconv"
	"strings"
)

// Unit is a temperature scale shown on the dashboard
type Unit int

const (
	Celsius Unit = iota
	Fahrenheit
)

// Symbol returns the single letter used after the degree sign
func (u Unit) Symbol() string {
	if u == Fahrenheit {
		return "F"
	}
	return "C"
}

// String returns the glyph appended to rendered temperatures, e.g. "°C"
func (u Unit) String() string {
	return "°" + u.Symbol()
}

// Opposite returns the other unit
func (u Unit) Opposite() Unit {
	if u == Fahrenheit {
		return Celsius
	}
	return Fahrenheit
}

// UnitFromSymbol maps "C" or "F" to a Unit
func UnitFromSymbol(s string) (Unit, bool) {
	switch s {
	case "C":
		return Celsius, true
	case "F":
		return Fahrenheit, true
	}
	return Celsius, false
}

// ToFahrenheit converts a Celsius value
func ToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// ToCelsius converts a Fahrenheit value
func ToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// Convert converts v between units. Same-unit conversion returns v unchanged.
func Convert(v float64, from, to Unit) float64 {
	switch {
	case from == Celsius && to == Fahrenheit:
		return ToFahrenheit(v)
	case from == Fahrenheit && to == Celsius:
		return ToCelsius(v)
	default:
		return v
	}
}

// FormatValue renders v with exactly one decimal place
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Format renders v with one decimal place followed by the unit glyph
func Format(v float64, u Unit) string {
	return FormatValue(v) + u.String()
}

var leadingNumber = regexp.MustCompile(`^\s*([+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?)`)

// ParseLeading extracts the floating point number at the start of text and
// ignores whatever follows it, so "21.5°C" yields 21.5.
func ParseLeading(text string) (float64, bool) {
	m := leadingNumber.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IsPlaceholder reports whether text is a "no data" rendering
func IsPlaceholder(text string) bool {
	t := strings.TrimSpace(text)
	return t == "" || strings.HasPrefix(t, "--")
}
