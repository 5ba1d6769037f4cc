package units

import (
	"errors"
	"regexp"
	"strconv"
)

var (
	// ErrNoReading means there is no temperature on screen to convert yet
	ErrNoReading = errors.New("search for a city first")

	// ErrUnparseable means a primary field holds text without a leading number
	ErrUnparseable = errors.New("displayed temperature is not a number")
)

// Field is a rendered piece of text the converter reads from and writes to
type Field interface {
	Text() string
	SetText(string)
}

// Directional glyphs prefixed to forecast high and low temperatures
const (
	GlyphHigh = "↑"
	GlyphLow  = "↓"
)

var forecastRe = regexp.MustCompile(`([↑↓]) (-?\d+(?:\.\d+)?)°([CF])`)

// FormatForecast renders a forecast card temperature, e.g. "↑ 25.0°C"
func FormatForecast(glyph string, v float64, u Unit) string {
	return glyph + " " + Format(v, u)
}

// ToggleReadings converts the primary temperature and feels-like texts from
// current to the opposite unit. The leading number of each text is used and
// the trailing glyph ignored. It returns the new unit and both new texts.
func ToggleReadings(current Unit, temp, feels string) (Unit, string, string, error) {
	if IsPlaceholder(temp) || IsPlaceholder(feels) {
		return current, temp, feels, ErrNoReading
	}
	t, ok := ParseLeading(temp)
	if !ok {
		return current, temp, feels, ErrUnparseable
	}
	f, ok := ParseLeading(feels)
	if !ok {
		return current, temp, feels, ErrUnparseable
	}
	next := current.Opposite()
	return next, Format(Convert(t, current, next), next), Format(Convert(f, current, next), next), nil
}

// ConvertForecastText rewrites a forecast card temperature into target.
// Text already in target, or text that does not contain a
// "<glyph> <number>°<C|F>" reading, is returned unchanged with changed=false.
func ConvertForecastText(text string, target Unit) (string, bool) {
	m := forecastRe.FindStringSubmatch(text)
	if m == nil {
		return text, false
	}
	from, ok := UnitFromSymbol(m[3])
	if !ok || from == target {
		return text, false
	}
	v, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return text, false
	}
	return FormatForecast(m[1], Convert(v, from, target), target), true
}

// CardFields are the high and low temperature fields of one forecast card
type CardFields struct {
	High Field
	Low  Field
}

// Converter keeps the primary display and every forecast card on a single
// unit. It is not safe for concurrent use; callers serialize access.
type Converter struct {
	unit     Unit
	temp     Field
	feels    Field
	forecast []CardFields
}

// NewConverter creates a converter showing Celsius
func NewConverter() *Converter {
	return &Converter{unit: Celsius}
}

// Unit returns the unit currently shown
func (c *Converter) Unit() Unit {
	return c.unit
}

// Bind attaches the primary temperature and feels-like fields
func (c *Converter) Bind(temp, feels Field) {
	c.temp = temp
	c.feels = feels
}

// SetForecast replaces the forecast card fields that propagation walks
func (c *Converter) SetForecast(cards []CardFields) {
	c.forecast = cards
}

// Reset puts the flag back to Celsius. Forecast cards are left as they are.
func (c *Converter) Reset() {
	c.unit = Celsius
}

// ToggleMain flips the primary fields to the other unit and propagates the
// new unit to the forecast cards. Nothing is written when it returns an error.
func (c *Converter) ToggleMain() (Unit, error) {
	if c.temp == nil || c.feels == nil {
		return c.unit, ErrNoReading
	}
	next, temp, feels, err := ToggleReadings(c.unit, c.temp.Text(), c.feels.Text())
	if err != nil {
		return c.unit, err
	}
	c.temp.SetText(temp)
	c.feels.SetText(feels)
	c.unit = next
	c.PropagateForecast(next)
	return next, nil
}

// PropagateForecast converts every forecast high and low into target and
// returns how many fields were rewritten.
func (c *Converter) PropagateForecast(target Unit) int {
	rewritten := 0
	for _, card := range c.forecast {
		for _, f := range []Field{card.High, card.Low} {
			if f == nil {
				continue
			}
			if text, changed := ConvertForecastText(f.Text(), target); changed {
				f.SetText(text)
				rewritten++
			}
		}
	}
	return rewritten
}
