package services

import (
	"sync"
	"time"
)

// StatusTracker holds the latest human-readable pipeline status
type StatusTracker struct {
	mu        sync.RWMutex
	message   string
	updatedAt time.Time
	onChange  func(string)
}

// NewStatusTracker creates a StatusTracker. onChange, when not nil, receives every update.
func NewStatusTracker(onChange func(string)) *StatusTracker {
	return &StatusTracker{onChange: onChange}
}

// Set records message as the current status
func (t *StatusTracker) Set(message string) {
	t.mu.Lock()
	t.message = message
	t.updatedAt = time.Now()
	t.mu.Unlock()

	if t.onChange != nil {
		t.onChange(message)
	}
}

// Get returns the current status and when it was set. The zero time means nothing has run yet.
func (t *StatusTracker) Get() (string, time.Time) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.message, t.updatedAt
}
