package settings

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"weather-dashboard/datetime"
)

// Store is the key-value persistence the settings live in
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Setting keys
const (
	KeyDefaultCity       = "default_city"
	KeyAutoLoad          = "auto_load"
	KeyDynamicBackground = "dynamic_background"
	KeyTimeFormat        = "time_format"
	KeyRefreshInterval   = "refresh_interval"
)

// Keys lists every setting in display order
var Keys = []string{
	KeyDefaultCity,
	KeyAutoLoad,
	KeyDynamicBackground,
	KeyTimeFormat,
	KeyRefreshInterval,
}

// ErrUnknownKey is returned by Update for a key that is not a setting
var ErrUnknownKey = errors.New("unknown setting")

// ErrInvalidValue is returned by Update when the value does not fit the key
var ErrInvalidValue = errors.New("invalid setting value")

// Settings holds the user preferences that survive across sessions
type Settings struct {
	DefaultCity       string
	AutoLoad          bool
	DynamicBackground bool
	TimeFormat        datetime.TimeFormat
	// RefreshInterval is in minutes; 0 disables automatic refresh
	RefreshInterval int
}

// Defaults returns the settings used when nothing has been stored yet
func Defaults() Settings {
	return Settings{
		DynamicBackground: true,
		TimeFormat:        datetime.Format12h,
	}
}

// Load reads all settings. Missing or malformed values keep their defaults.
func Load(store Store) (Settings, error) {
	s := Defaults()

	values := make(map[string]string, len(Keys))
	for _, key := range Keys {
		v, ok, err := store.Get(key)
		if err != nil {
			return s, fmt.Errorf("failed to read setting %s: %w", key, err)
		}
		if ok {
			values[key] = v
		}
	}

	if v, ok := values[KeyDefaultCity]; ok {
		s.DefaultCity = v
	}
	if v, ok := values[KeyAutoLoad]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			s.AutoLoad = b
		}
	}
	if v, ok := values[KeyDynamicBackground]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			s.DynamicBackground = b
		}
	}
	if v, ok := values[KeyTimeFormat]; ok {
		if f, ok := datetime.ParseTimeFormat(v); ok {
			s.TimeFormat = f
		}
	}
	if v, ok := values[KeyRefreshInterval]; ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			s.RefreshInterval = n
		}
	}
	return s, nil
}

// Save writes every setting
func Save(store Store, s Settings) error {
	values := map[string]string{
		KeyDefaultCity:       s.DefaultCity,
		KeyAutoLoad:          strconv.FormatBool(s.AutoLoad),
		KeyDynamicBackground: strconv.FormatBool(s.DynamicBackground),
		KeyTimeFormat:        string(s.TimeFormat),
		KeyRefreshInterval:   strconv.Itoa(s.RefreshInterval),
	}
	for _, key := range Keys {
		if err := store.Set(key, values[key]); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}
	return nil
}

// Update validates and stores a single setting given as text
func Update(store Store, key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case KeyDefaultCity:
	case KeyAutoLoad, KeyDynamicBackground:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false", ErrInvalidValue, key)
		}
		value = strconv.FormatBool(b)
	case KeyTimeFormat:
		f, ok := datetime.ParseTimeFormat(value)
		if !ok {
			return fmt.Errorf("%w: %s expects 12 or 24", ErrInvalidValue, key)
		}
		value = string(f)
	case KeyRefreshInterval:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s expects minutes >= 0", ErrInvalidValue, key)
		}
		value = strconv.Itoa(n)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	if err := store.Set(key, value); err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

// Lines renders the settings for the settings section
func (s Settings) Lines() []string {
	return []string{
		fmt.Sprintf("%-20s %s", KeyDefaultCity, s.DefaultCity),
		fmt.Sprintf("%-20s %t", KeyAutoLoad, s.AutoLoad),
		fmt.Sprintf("%-20s %t", KeyDynamicBackground, s.DynamicBackground),
		fmt.Sprintf("%-20s %s", KeyTimeFormat, s.TimeFormat),
		fmt.Sprintf("%-20s %d", KeyRefreshInterval, s.RefreshInterval),
	}
}

// Preferences reads the time format from the store each time it is asked,
// so the clock picks up changes on its next tick.
type Preferences struct {
	store Store
}

// NewPreferences creates a datetime.FormatSource backed by store
func NewPreferences(store Store) *Preferences {
	return &Preferences{store: store}
}

// TimeFormat returns the stored time format, or 12-hour when unset or unreadable
func (p *Preferences) TimeFormat() datetime.TimeFormat {
	v, ok, err := p.store.Get(KeyTimeFormat)
	if err != nil {
		log.Printf("Error reading %s: %v", KeyTimeFormat, err)
		return datetime.Format12h
	}
	if !ok {
		return datetime.Format12h
	}
	f, _ := datetime.ParseTimeFormat(v)
	return f
}

// RefreshInterval returns the stored refresh interval in minutes, 0 when unset or unreadable
func (p *Preferences) RefreshInterval() int {
	v, ok, err := p.store.Get(KeyRefreshInterval)
	if err != nil {
		log.Printf("Error reading %s: %v", KeyRefreshInterval, err)
		return 0
	}
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

var _ datetime.FormatSource = (*Preferences)(nil)
