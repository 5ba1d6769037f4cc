package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/google/uuid"

	"weather-dashboard/datasource"
	"weather-dashboard/datetime"
	"weather-dashboard/display"
	"weather-dashboard/models"
	"weather-dashboard/settings"
	"weather-dashboard/storage"
	"weather-dashboard/units"
)

// Notices shown to the user
const (
	MsgEmptyCity    = "Please enter a city name!"
	MsgCityNotFound = "City not found! Please try again."
	MsgFetchFailed  = "Unable to fetch weather data right now. Please try again."
	MsgSearchFirst  = "Search for a city first!"
)

// Forecast placeholder card texts
const (
	CardNoData       = "📭 No Data"
	CardLoading      = "⏳ Loading..."
	CardError        = "❌ Error"
	MsgNoCity        = "Please search for a city first"
	MsgNoForecast    = "No forecast available"
	MsgForecastError = "Unable to fetch forecast"
	MsgNetworkError  = "Network error. Please try again."
)

var (
	// ErrEmptyCity is returned by Search for blank input
	ErrEmptyCity = errors.New("empty city name")

	// ErrBusy is returned by Search while another search is running
	ErrBusy = errors.New("search already in progress")

	// ErrNoSuchEntry is returned by SearchFromHistory for an index outside the list
	ErrNoSuchEntry = errors.New("no such history entry")
)

// Notifier shows a blocking message to the user
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to a Notifier
type NotifierFunc func(message string)

// Notify calls f
func (f NotifierFunc) Notify(message string) {
	f(message)
}

// Dashboard runs the page: searches, forecast, unit toggling, sections,
// history and settings. Operations are serialized; the clock and refresher
// may run alongside in their own goroutines.
type Dashboard struct {
	mu        sync.Mutex
	searching atomic.Bool
	saves     sync.WaitGroup

	panel      *display.Panel
	converter  *units.Converter
	weather    datasource.WeatherProvider
	forecast   datasource.ForecastSource
	background datasource.BackgroundSource
	store      storage.Store
	notifier   Notifier
	format     datetime.FormatSource
	clock      clock.Clock

	fallbackBackground string
	forecastDays       int
	fetchTimeout       time.Duration

	city string
}

// Option configures a Dashboard
type Option func(*Dashboard)

// WithBackground enables background pictures from src, with fallback shown on failure
func WithBackground(src datasource.BackgroundSource, fallback string) Option {
	return func(d *Dashboard) {
		d.background = src
		if fallback != "" {
			d.fallbackBackground = fallback
		}
	}
}

// WithForecastDays sets how many forecast days are requested
func WithForecastDays(days int) Option {
	return func(d *Dashboard) {
		if days > 0 {
			d.forecastDays = days
		}
	}
}

// WithClock replaces the wall clock used for history timestamps and the rendered time
func WithClock(clk clock.Clock) Option {
	return func(d *Dashboard) { d.clock = clk }
}

// WithFetchTimeout bounds every provider call
func WithFetchTimeout(timeout time.Duration) Option {
	return func(d *Dashboard) {
		if timeout > 0 {
			d.fetchTimeout = timeout
		}
	}
}

// New creates a dashboard rendering into panel. A nil notifier discards notices.
func New(panel *display.Panel, weather datasource.WeatherProvider, forecast datasource.ForecastSource,
	store storage.Store, notifier Notifier, opts ...Option) *Dashboard {
	if notifier == nil {
		notifier = NotifierFunc(func(string) {})
	}

	d := &Dashboard{
		panel:              panel,
		converter:          units.NewConverter(),
		weather:            weather,
		forecast:           forecast,
		store:              store,
		notifier:           notifier,
		format:             settings.NewPreferences(store),
		clock:              clock.NewClock(),
		fallbackBackground: datasource.FallbackBackgroundURL,
		forecastDays:       5,
		fetchTimeout:       10 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.converter.Bind(panel.Temperature, panel.FeelsLike)
	panel.SetForecast([]*display.Card{display.NewPlaceholderCard(CardNoData, MsgNoCity)})
	return d
}

// Panel returns the page the dashboard renders into
func (d *Dashboard) Panel() *display.Panel {
	return d.panel
}

// City returns the city whose weather is on screen, empty before the first successful search
func (d *Dashboard) City() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.city
}

// Unit returns the unit the primary temperature is shown in
func (d *Dashboard) Unit() units.Unit {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.converter.Unit()
}

// Search loads the weather for city. On success the panel shows it, the city
// is added to the history, the background and forecast are refreshed and the
// unit goes back to Celsius. On failure the user is notified and the panel is
// left as it was.
func (d *Dashboard) Search(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		d.notifier.Notify(MsgEmptyCity)
		return ErrEmptyCity
	}

	if !d.searching.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer d.searching.Store(false)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.panel.SetSearchEnabled(false)
	defer d.panel.SetSearchEnabled(true)

	if err := d.load(ctx, city, true); err != nil {
		log.Printf("Error fetching weather for %s from %s: %v", city, d.weather.Name(), err)
		if errors.Is(err, datasource.ErrCityNotFound) {
			d.notifier.Notify(MsgCityNotFound)
		} else {
			d.notifier.Notify(MsgFetchFailed)
		}
		return err
	}
	return nil
}

// Refresh reloads the weather of the city on screen. Failures are only logged
// and nothing is added to the history. It does nothing before the first search.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.city == "" {
		return nil
	}
	if err := d.load(ctx, d.city, false); err != nil {
		log.Printf("Error refreshing weather for %s: %v", d.city, err)
		return err
	}
	return nil
}

// load fetches and renders the weather of city with d.mu held. record adds
// the city to the history.
func (d *Dashboard) load(ctx context.Context, city string, record bool) error {
	fetchCtx, cancel := context.WithTimeout(ctx, d.fetchTimeout)
	data, err := d.weather.GetWeather(fetchCtx, city)
	cancel()
	if err != nil {
		return err
	}

	d.render(data)
	d.city = data.City

	if record {
		d.saveHistory(data.City)
	}
	d.updateBackground(ctx, city, data.Description)
	d.loadForecast(ctx, d.city)
	d.converter.Reset()

	log.Printf("Weather data loaded for %s from %s", data.City, d.weather.Name())
	return nil
}

func (d *Dashboard) render(data models.WeatherData) {
	p := d.panel

	name := data.City
	if data.Country != "" {
		name = fmt.Sprintf("%s, %s", data.City, data.Country)
	}
	p.City.SetText(name)
	p.Temperature.SetText(units.Format(data.Temperature, units.Celsius))
	p.Description.SetText(data.Description)
	p.FeelsLike.SetText(units.Format(data.FeelsLike, units.Celsius))
	p.Humidity.SetText(trimFloat(data.Humidity) + "%")
	p.Wind.SetText(trimFloat(data.WindSpeed) + " km/h")
	p.Pressure.SetText(trimFloat(data.Pressure) + " hPa")
	p.Visibility.SetText(trimFloat(data.Visibility) + " km")
	p.Sunrise.SetText(sunTime(data.Sunrise))
	p.Sunset.SetText(sunTime(data.Sunset))
	p.Icon.SetText(models.IconURL(data.Icon))

	out := datetime.Render(d.clock.Now(), d.format.TimeFormat())
	p.Date.SetText(out.Date)
	p.Time.SetText(out.Time)

	p.ShowWeather()
}

// saveHistory records the search without waiting for the store
func (d *Dashboard) saveHistory(city string) {
	entry := models.HistoryEntry{
		ID:         uuid.NewString(),
		City:       city,
		SearchedAt: d.clock.Now(),
	}

	d.saves.Add(1)
	go func() {
		defer d.saves.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.fetchTimeout)
		defer cancel()
		if err := d.store.AppendHistory(ctx, entry); err != nil {
			log.Printf("Error saving %s to history: %v", city, err)
			return
		}
		log.Printf("Saved %s to history at %s", city, entry.Timestamp())
	}()
}

func (d *Dashboard) updateBackground(ctx context.Context, city, description string) {
	enabled := settings.Defaults().DynamicBackground
	if v, ok, err := d.store.Get(settings.KeyDynamicBackground); err != nil {
		log.Printf("Error reading %s: %v", settings.KeyDynamicBackground, err)
	} else if ok {
		if b, err := strconv.ParseBool(v); err == nil {
			enabled = b
		}
	}
	if !enabled {
		return
	}

	if d.background == nil {
		d.panel.Background.SetText(d.fallbackBackground)
		return
	}

	fetchCtx, cancel := context.WithTimeout(ctx, d.fetchTimeout)
	defer cancel()
	bg, err := d.background.FetchBackground(fetchCtx, city, description)
	if err != nil {
		log.Printf("Using fallback background for %s: %v", city, err)
		d.panel.Background.SetText(d.fallbackBackground)
		return
	}

	text := bg.ImageURL
	if bg.Photographer != "" {
		text = fmt.Sprintf("%s (Photo by %s on Unsplash)", bg.ImageURL, bg.Photographer)
	}
	d.panel.Background.SetText(text)
}

// LoadForecast renders the forecast for city. The new cards follow the unit
// currently shown.
func (d *Dashboard) LoadForecast(ctx context.Context, city string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.loadForecast(ctx, strings.TrimSpace(city))
	d.converter.PropagateForecast(d.converter.Unit())
	return err
}

// loadForecast renders forecast cards in Celsius with d.mu held
func (d *Dashboard) loadForecast(ctx context.Context, city string) error {
	if city == "" {
		d.setCards([]*display.Card{display.NewPlaceholderCard(CardNoData, MsgNoCity)})
		return ErrEmptyCity
	}

	d.setCards([]*display.Card{display.NewPlaceholderCard(CardLoading,
		fmt.Sprintf("Fetching %d-day forecast...", d.forecastDays))})

	fetchCtx, cancel := context.WithTimeout(ctx, d.fetchTimeout)
	data, err := d.forecast.FetchForecast(fetchCtx, city, d.forecastDays)
	cancel()
	if err != nil {
		log.Printf("Error fetching forecast for %s from %s: %v", city, d.forecast.Name(), err)
		d.setCards([]*display.Card{display.NewPlaceholderCard(CardError, forecastMessage(err))})
		return err
	}

	if len(data.Days) == 0 {
		d.setCards([]*display.Card{display.NewPlaceholderCard(CardNoData, MsgNoForecast)})
		return nil
	}

	cards := make([]*display.Card, 0, len(data.Days))
	for _, day := range data.Days {
		cards = append(cards, newCard(day))
	}
	d.setCards(cards)
	log.Printf("Displayed %d forecast days for %s", len(cards), city)
	return nil
}

func forecastMessage(err error) string {
	var urlErr *url.Error
	switch {
	case errors.Is(err, datasource.ErrCityNotFound):
		return "City not found"
	case errors.As(err, &urlErr), errors.Is(err, context.DeadlineExceeded):
		return MsgNetworkError
	default:
		return MsgForecastError
	}
}

func newCard(day models.ForecastDay) *display.Card {
	title := day.Day
	if title == "" {
		title = "N/A"
	}
	description := day.Description
	if description == "" {
		description = "No description"
	}
	return &display.Card{
		Title:       display.NewTextField(title),
		Date:        display.NewTextField(day.Date),
		Icon:        display.NewTextField(models.IconURL(day.Icon)),
		Description: display.NewTextField(description),
		High:        display.NewTextField(units.FormatForecast(units.GlyphHigh, day.TempMax, units.Celsius)),
		Low:         display.NewTextField(units.FormatForecast(units.GlyphLow, day.TempMin, units.Celsius)),
		Humidity:    display.NewTextField(trimFloat(day.Humidity) + "%"),
		Wind:        display.NewTextField(trimFloat(day.WindSpeed) + " km/h"),
	}
}

func (d *Dashboard) setCards(cards []*display.Card) {
	d.panel.SetForecast(cards)
	fields := make([]units.CardFields, 0, len(cards))
	for _, c := range cards {
		if !c.Placeholder {
			fields = append(fields, c.Fields())
		}
	}
	d.converter.SetForecast(fields)
}

// ToggleUnits flips the primary temperatures and every forecast card between
// Celsius and Fahrenheit
func (d *Dashboard) ToggleUnits() (units.Unit, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, err := d.converter.ToggleMain()
	switch {
	case errors.Is(err, units.ErrNoReading):
		d.notifier.Notify(MsgSearchFirst)
	case err != nil:
		log.Printf("Unit toggle skipped: %v", err)
	}
	return u, err
}

// ShowSection switches the active section. Showing the forecast reloads it
// for the city on screen.
func (d *Dashboard) ShowSection(ctx context.Context, section display.Section) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	switch section {
	case display.SectionForecast:
		if d.city != "" {
			err = d.loadForecast(ctx, d.city)
			d.converter.PropagateForecast(d.converter.Unit())
		}
	case display.SectionHistory:
		err = d.renderHistory(ctx)
	case display.SectionSettings:
		err = d.renderSettings()
	}

	d.panel.SetSection(section)
	return err
}

func (d *Dashboard) renderHistory(ctx context.Context) error {
	entries, err := d.store.ListHistory(ctx)
	if err != nil {
		d.panel.SetLines(display.SectionHistory, []string{"Unable to load history"})
		return fmt.Errorf("failed to load history: %w", err)
	}
	d.panel.SetLines(display.SectionHistory, HistoryLines(entries))
	return nil
}

func (d *Dashboard) renderSettings() error {
	s, err := settings.Load(d.store)
	d.panel.SetLines(display.SectionSettings, s.Lines())
	return err
}

// HistoryLines renders history entries for the history section
func HistoryLines(entries []models.HistoryEntry) []string {
	if len(entries) == 0 {
		return []string{"No search history yet."}
	}
	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		lines = append(lines, fmt.Sprintf("%2d. %-20s %s at %s", i+1, e.City, e.Date(), e.Time()))
	}
	return lines
}

// History returns the searched cities, newest first, once pending saves have landed
func (d *Dashboard) History(ctx context.Context) ([]models.HistoryEntry, error) {
	d.saves.Wait()
	entries, err := d.store.ListHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return entries, nil
}

// SearchFromHistory searches again for the n-th history entry, counting from 1
func (d *Dashboard) SearchFromHistory(ctx context.Context, n int) error {
	entries, err := d.History(ctx)
	if err != nil {
		return err
	}
	if n < 1 || n > len(entries) {
		return fmt.Errorf("%w: %d", ErrNoSuchEntry, n)
	}
	return d.Search(ctx, entries[n-1].City)
}

// ClearHistory forgets every searched city
func (d *Dashboard) ClearHistory(ctx context.Context) error {
	d.saves.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.store.ClearHistory(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	if d.panel.Section() == display.SectionHistory {
		d.panel.SetLines(display.SectionHistory, HistoryLines(nil))
	}
	return nil
}

// Settings returns the stored settings
func (d *Dashboard) Settings() (settings.Settings, error) {
	return settings.Load(d.store)
}

// UpdateSetting validates and stores one setting
func (d *Dashboard) UpdateSetting(key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := settings.Update(d.store, key, value); err != nil {
		return err
	}
	if d.panel.Section() == display.SectionSettings {
		return d.renderSettings()
	}
	return nil
}

// ResetSettings stores the default for every setting
func (d *Dashboard) ResetSettings() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := settings.Save(d.store, settings.Defaults()); err != nil {
		return err
	}
	if d.panel.Section() == display.SectionSettings {
		return d.renderSettings()
	}
	return nil
}

// Startup searches for the default city when auto-load is on
func (d *Dashboard) Startup(ctx context.Context) error {
	s, err := settings.Load(d.store)
	if err != nil {
		return err
	}
	if !s.AutoLoad || strings.TrimSpace(s.DefaultCity) == "" {
		return nil
	}
	log.Printf("Auto-loading weather for %s", s.DefaultCity)
	return d.Search(ctx, s.DefaultCity)
}

// ClockOutput renders the current instant in the stored time format
func (d *Dashboard) ClockOutput() datetime.Output {
	return datetime.Render(d.clock.Now(), d.format.TimeFormat())
}

// Wait blocks until pending history saves are done
func (d *Dashboard) Wait() {
	d.saves.Wait()
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sunTime(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format("03:04 PM")
}
