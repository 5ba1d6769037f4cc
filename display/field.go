package display

import "sync"

// Field is a piece of rendered text on the page
type Field interface {
	Text() string
	SetText(string)
}

// TextField is a Field safe for use by the clock goroutine and the command loop at once
type TextField struct {
	mu   sync.RWMutex
	text string
}

// NewTextField creates a field holding text
func NewTextField(text string) *TextField {
	return &TextField{text: text}
}

// Text returns the current text
func (f *TextField) Text() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.text
}

// SetText replaces the text
func (f *TextField) SetText(text string) {
	f.mu.Lock()
	f.text = text
	f.mu.Unlock()
}
