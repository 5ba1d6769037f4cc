package display

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"weather-dashboard/units"
)

// Placeholder is the temperature text shown before any search
const Placeholder = "--°C"

// Search control labels
const (
	SearchLabel  = "🔍 Search"
	LoadingLabel = "🔄 Loading..."
)

// Section is one of the switchable views of the page
type Section string

const (
	SectionWeather  Section = "weather"
	SectionForecast Section = "forecast"
	SectionHistory  Section = "history"
	SectionSettings Section = "settings"
)

// ParseSection maps a section name to a Section
func ParseSection(s string) (Section, bool) {
	switch Section(strings.ToLower(strings.TrimSpace(s))) {
	case SectionWeather:
		return SectionWeather, true
	case SectionForecast:
		return SectionForecast, true
	case SectionHistory:
		return SectionHistory, true
	case SectionSettings:
		return SectionSettings, true
	}
	return "", false
}

// Card is one rendered forecast day, or a placeholder message when Placeholder is set
type Card struct {
	Placeholder bool
	Title       *TextField
	Date        *TextField
	Icon        *TextField
	Description *TextField
	High        *TextField
	Low         *TextField
	Humidity    *TextField
	Wind        *TextField
}

// NewPlaceholderCard creates a card that only carries a title and a message
func NewPlaceholderCard(title, message string) *Card {
	return &Card{
		Placeholder: true,
		Title:       NewTextField(title),
		Description: NewTextField(message),
	}
}

// Fields returns the high and low temperature fields for unit propagation
func (c *Card) Fields() units.CardFields {
	if c.Placeholder {
		return units.CardFields{}
	}
	return units.CardFields{High: c.High, Low: c.Low}
}

// Panel is the in-memory page the dashboard renders into
type Panel struct {
	City        *TextField
	Temperature *TextField
	Description *TextField
	FeelsLike   *TextField
	Humidity    *TextField
	Wind        *TextField
	Pressure    *TextField
	Visibility  *TextField
	Sunrise     *TextField
	Sunset      *TextField
	Date        *TextField
	Time        *TextField
	Icon        *TextField
	Background  *TextField
	Search      *TextField

	weatherShown  atomic.Bool
	searchEnabled atomic.Bool

	mu       sync.RWMutex
	section  Section
	forecast []*Card
	lines    map[Section][]string
}

// NewPanel creates a page in its initial, nothing-searched-yet state
func NewPanel() *Panel {
	p := &Panel{
		City:        NewTextField(""),
		Temperature: NewTextField(Placeholder),
		Description: NewTextField(""),
		FeelsLike:   NewTextField(Placeholder),
		Humidity:    NewTextField("--%"),
		Wind:        NewTextField("-- km/h"),
		Pressure:    NewTextField("-- hPa"),
		Visibility:  NewTextField(""),
		Sunrise:     NewTextField(""),
		Sunset:      NewTextField(""),
		Date:        NewTextField(""),
		Time:        NewTextField(""),
		Icon:        NewTextField(""),
		Background:  NewTextField(""),
		Search:      NewTextField(SearchLabel),
		section:     SectionWeather,
		lines:       make(map[Section][]string),
	}
	p.searchEnabled.Store(true)
	return p
}

// ShowWeather marks the weather data block as visible
func (p *Panel) ShowWeather() {
	p.weatherShown.Store(true)
}

// WeatherShown reports whether a weather result has been rendered
func (p *Panel) WeatherShown() bool {
	return p.weatherShown.Load()
}

// SetSearchEnabled toggles the search control between idle and loading
func (p *Panel) SetSearchEnabled(enabled bool) {
	p.searchEnabled.Store(enabled)
	if enabled {
		p.Search.SetText(SearchLabel)
	} else {
		p.Search.SetText(LoadingLabel)
	}
}

// SearchEnabled reports whether the search control accepts input
func (p *Panel) SearchEnabled() bool {
	return p.searchEnabled.Load()
}

// Section returns the active section
func (p *Panel) Section() Section {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.section
}

// SetSection switches the active section
func (p *Panel) SetSection(s Section) {
	p.mu.Lock()
	p.section = s
	p.mu.Unlock()
}

// Forecast returns the rendered forecast cards
func (p *Panel) Forecast() []*Card {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*Card, len(p.forecast))
	copy(out, p.forecast)
	return out
}

// SetForecast replaces the forecast cards
func (p *Panel) SetForecast(cards []*Card) {
	p.mu.Lock()
	p.forecast = cards
	p.mu.Unlock()
}

// SetLines sets the text body of the history or settings section
func (p *Panel) SetLines(s Section, lines []string) {
	p.mu.Lock()
	p.lines[s] = lines
	p.mu.Unlock()
}

// Render writes the active section as plain text
func (p *Panel) Render(w io.Writer) error {
	section := p.Section()
	var b strings.Builder

	fmt.Fprintf(&b, "== %s ==\n", strings.ToUpper(string(section)))
	switch section {
	case SectionWeather:
		p.renderWeather(&b)
	case SectionForecast:
		p.renderForecast(&b)
	default:
		p.mu.RLock()
		for _, line := range p.lines[section] {
			fmt.Fprintln(&b, line)
		}
		p.mu.RUnlock()
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (p *Panel) renderWeather(b *strings.Builder) {
	if !p.SearchEnabled() {
		fmt.Fprintln(b, p.Search.Text())
	}
	if !p.WeatherShown() {
		fmt.Fprintln(b, "Search for a city to see the weather.")
		fmt.Fprintf(b, "%s  %s\n", p.Date.Text(), p.Time.Text())
		return
	}
	fmt.Fprintln(b, p.City.Text())
	fmt.Fprintf(b, "%s  %s\n", p.Temperature.Text(), p.Description.Text())
	fmt.Fprintf(b, "Feels like: %s   Humidity: %s   Wind: %s   Pressure: %s\n",
		p.FeelsLike.Text(), p.Humidity.Text(), p.Wind.Text(), p.Pressure.Text())
	if v := p.Visibility.Text(); v != "" {
		fmt.Fprintf(b, "Visibility: %s   Sunrise: %s   Sunset: %s\n", v, p.Sunrise.Text(), p.Sunset.Text())
	}
	fmt.Fprintf(b, "%s  %s\n", p.Date.Text(), p.Time.Text())
	if icon := p.Icon.Text(); icon != "" {
		fmt.Fprintf(b, "Icon: %s\n", icon)
	}
	if bg := p.Background.Text(); bg != "" {
		fmt.Fprintf(b, "Background: %s\n", bg)
	}
}

func (p *Panel) renderForecast(b *strings.Builder) {
	cards := p.Forecast()
	if len(cards) == 0 {
		fmt.Fprintln(b, "📭 No Data")
		fmt.Fprintln(b, "Please search for a city first")
		return
	}
	for _, c := range cards {
		if c.Placeholder {
			fmt.Fprintln(b, c.Title.Text())
			fmt.Fprintln(b, c.Description.Text())
			continue
		}
		fmt.Fprintf(b, "%-10s %-7s %s  %s  %-22s  💧 %s  💨 %s\n",
			c.Title.Text(), c.Date.Text(), c.High.Text(), c.Low.Text(),
			c.Description.Text(), c.Humidity.Text(), c.Wind.Text())
	}
}
