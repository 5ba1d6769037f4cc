package storage

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/text/cases"

	"weather-dashboard/models"
	"weather-dashboard/settings"
)

// MaxHistory is how many searched cities are kept
const MaxHistory = 10

// HistoryStore keeps the list of searched cities, newest first
type HistoryStore interface {
	AppendHistory(ctx context.Context, entry models.HistoryEntry) error
	ListHistory(ctx context.Context) ([]models.HistoryEntry, error)
	ClearHistory(ctx context.Context) error
}

// Store is the persistence the dashboard needs: settings plus history
type Store interface {
	settings.Store
	HistoryStore
	Close() error
}

// CityKey is the case-folded form cities are matched on. Folding is Unicode
// aware, so "München" and "MÜNCHEN" share a key.
func CityKey(city string) string {
	// Casers are stateful, so each call gets its own
	return cases.Fold().String(city)
}

// PushHistory adds entry to list, newest first, replacing any entry for the
// same city (case-insensitive) and trimming the result to MaxHistory. An
// entry older than the one already kept for its city is ignored, so saves may
// land in any order.
func PushHistory(list []models.HistoryEntry, entry models.HistoryEntry) []models.HistoryEntry {
	key := CityKey(entry.City)
	out := make([]models.HistoryEntry, 0, len(list)+1)
	for _, e := range list {
		if CityKey(e.City) == key {
			if e.SearchedAt.After(entry.SearchedAt) {
				return list
			}
			continue
		}
		out = append(out, e)
	}
	out = append(out, entry)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SearchedAt.After(out[j].SearchedAt)
	})
	if len(out) > MaxHistory {
		out = out[:MaxHistory]
	}
	return out
}

// MemoryStore keeps settings and history in memory only
type MemoryStore struct {
	mu       sync.RWMutex
	settings map[string]string
	history  []models.HistoryEntry
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		settings: make(map[string]string),
	}
}

// Get returns a stored setting
func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.settings[key]
	return v, ok, nil
}

// Set stores a setting
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
	return nil
}

// AppendHistory records a searched city
func (s *MemoryStore) AppendHistory(_ context.Context, entry models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = PushHistory(s.history, entry)
	return nil
}

// ListHistory returns the searched cities, newest first
func (s *MemoryStore) ListHistory(_ context.Context) ([]models.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.HistoryEntry, len(s.history))
	copy(out, s.history)
	return out, nil
}

// ClearHistory forgets every searched city
func (s *MemoryStore) ClearHistory(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)
