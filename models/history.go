package models

import "time"

// History display layouts
const (
	HistoryTimestampLayout = "2006-01-02 03:04:05 PM"
	HistoryDateLayout      = "January 02, 2006"
	HistoryTimeLayout      = "03:04 PM"
)

// HistoryEntry is one searched city
type HistoryEntry struct {
	ID         string    `json:"id"`
	City       string    `json:"city"`
	SearchedAt time.Time `json:"searched_at"`
}

// Timestamp returns the full local timestamp of the search
func (e HistoryEntry) Timestamp() string {
	return e.SearchedAt.Format(HistoryTimestampLayout)
}

// Date returns the day of the search, e.g. "October 14, 2026"
func (e HistoryEntry) Date() string {
	return e.SearchedAt.Format(HistoryDateLayout)
}

// Time returns the time of the search, e.g. "03:04 PM"
func (e HistoryEntry) Time() string {
	return e.SearchedAt.Format(HistoryTimeLayout)
}
