package sensor

import (
	"sync"
	"time"
)

const (
	trackingWindow   = 5 * time.Minute
	confirmThreshold = 3
)

type trackerEntry struct {
	at     time.Time
	labels []string
}

// TrackerStore keeps a per-sensor sliding window of recent classified
// readings and promotes a label to "confirmed" once it persists across
// enough samples. The window is process-local; a restart loses history.
type TrackerStore struct {
	mu        sync.Mutex
	windows   map[string][]trackerEntry
	window    time.Duration
	threshold int

	// now is swappable so window eviction is testable
	now func() time.Time
}

// NewTrackerStore creates a tracker with the default 5-minute window and
// 3-reading confirmation threshold
func NewTrackerStore() *TrackerStore {
	return NewTrackerStoreWith(trackingWindow, confirmThreshold)
}

// NewTrackerStoreWith creates a tracker with explicit window and threshold
func NewTrackerStoreWith(window time.Duration, threshold int) *TrackerStore {
	return &TrackerStore{
		windows:   make(map[string][]trackerEntry),
		window:    window,
		threshold: threshold,
		now:       time.Now,
	}
}

// Observe records one classified reading for a sensor and returns the labels
// confirmed by the current window: entries older than the window are evicted
// first, then each label present in the new reading counts its occurrences
// across the remaining entries.
func (t *TrackerStore) Observe(sensorID string, labels []string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	cutoff := now.Add(-t.window)

	kept := t.windows[sensorID][:0]
	for _, entry := range t.windows[sensorID] {
		if entry.at.After(cutoff) {
			kept = append(kept, entry)
		}
	}
	kept = append(kept, trackerEntry{at: now, labels: labels})
	t.windows[sensorID] = kept

	var confirmed []string
	for _, label := range labels {
		count := 0
		for _, entry := range kept {
			for _, seen := range entry.labels {
				if seen == label {
					count++
					break
				}
			}
		}
		if count >= t.threshold {
			confirmed = append(confirmed, label)
		}
	}

	return confirmed
}

// Reset drops the window for a sensor
func (t *TrackerStore) Reset(sensorID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.windows, sensorID)
}
