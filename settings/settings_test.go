package settings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-dashboard/datetime"
)

type mapStore struct {
	values map[string]string
	err    error
}

func newMapStore() *mapStore {
	return &mapStore{values: map[string]string{}}
}

func (m *mapStore) Get(key string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mapStore) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load(newMapStore())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
	assert.Equal(t, "", s.DefaultCity)
	assert.False(t, s.AutoLoad)
	assert.True(t, s.DynamicBackground)
	assert.Equal(t, datetime.Format12h, s.TimeFormat)
	assert.Equal(t, 0, s.RefreshInterval)
}

func TestSaveLoad(t *testing.T) {
	store := newMapStore()
	want := Settings{
		DefaultCity:       "Kyoto",
		AutoLoad:          true,
		DynamicBackground: false,
		TimeFormat:        datetime.Format24h,
		RefreshInterval:   15,
	}
	require.NoError(t, Save(store, want))

	got, err := Load(store)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadMalformed(t *testing.T) {
	store := newMapStore()
	store.values[KeyAutoLoad] = "maybe"
	store.values[KeyTimeFormat] = "13"
	store.values[KeyRefreshInterval] = "-5"

	s, err := Load(store)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
}

func TestUpdate(t *testing.T) {
	store := newMapStore()

	require.NoError(t, Update(store, KeyTimeFormat, "24h"))
	assert.Equal(t, "24", store.values[KeyTimeFormat])

	require.NoError(t, Update(store, KeyAutoLoad, " TRUE "))
	assert.Equal(t, "true", store.values[KeyAutoLoad])

	require.NoError(t, Update(store, KeyDefaultCity, "  New York "))
	assert.Equal(t, "New York", store.values[KeyDefaultCity])

	assert.ErrorIs(t, Update(store, KeyRefreshInterval, "soon"), ErrInvalidValue)
	assert.ErrorIs(t, Update(store, KeyDynamicBackground, "2"), ErrInvalidValue)
	assert.ErrorIs(t, Update(store, "theme", "dark"), ErrUnknownKey)
}

func TestPreferences(t *testing.T) {
	store := newMapStore()
	prefs := NewPreferences(store)
	assert.Equal(t, datetime.Format12h, prefs.TimeFormat())
	assert.Equal(t, 0, prefs.RefreshInterval())

	require.NoError(t, Update(store, KeyTimeFormat, "24"))
	require.NoError(t, Update(store, KeyRefreshInterval, "10"))
	assert.Equal(t, datetime.Format24h, prefs.TimeFormat())
	assert.Equal(t, 10, prefs.RefreshInterval())

	store.err = errors.New("disk gone")
	assert.Equal(t, datetime.Format12h, prefs.TimeFormat())
	assert.Equal(t, 0, prefs.RefreshInterval())
}

func TestLoadStoreError(t *testing.T) {
	store := newMapStore()
	store.err = errors.New("disk gone")
	_, err := Load(store)
	assert.Error(t, err)
}
