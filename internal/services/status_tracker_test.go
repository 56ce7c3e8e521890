package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTracker(t *testing.T) {
	var seen []string
	tracker := NewStatusTracker(func(message string) {
		seen = append(seen, message)
	})

	message, at := tracker.Get()
	assert.Empty(t, message)
	assert.True(t, at.IsZero())

	tracker.Set("Downloading video: demo")
	tracker.Set("All videos processed (1 succeeded, 0 failed)")

	message, at = tracker.Get()
	assert.Equal(t, "All videos processed (1 succeeded, 0 failed)", message)
	assert.False(t, at.IsZero())
	assert.Equal(t, []string{"Downloading video: demo", "All videos processed (1 succeeded, 0 failed)"}, seen)

	NewStatusTracker(nil).Set("no callback")
}
