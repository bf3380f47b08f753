package sensor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func trackerAt(start time.Time) (*TrackerStore, *time.Time) {
	tracker := NewTrackerStore()
	current := start
	tracker.now = func() time.Time { return current }
	return tracker, &current
}

func TestTrackerStore_ConfirmsAtThreeReadings(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tracker, clock := trackerAt(start)

	confirmed := tracker.Observe("sensor-1", []string{LabelTachycardia})
	assert.Empty(t, confirmed)

	*clock = start.Add(1 * time.Minute)
	confirmed = tracker.Observe("sensor-1", []string{LabelTachycardia})
	assert.Empty(t, confirmed)

	*clock = start.Add(2 * time.Minute)
	confirmed = tracker.Observe("sensor-1", []string{LabelTachycardia})
	assert.Equal(t, []string{LabelTachycardia}, confirmed)
}

func TestTrackerStore_EvictionDropsConfirmation(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tracker, clock := trackerAt(start)

	tracker.Observe("sensor-1", []string{LabelTachycardia})
	*clock = start.Add(4 * time.Minute)
	tracker.Observe("sensor-1", []string{LabelTachycardia})
	*clock = start.Add(4*time.Minute + 30*time.Second)
	confirmed := tracker.Observe("sensor-1", []string{LabelTachycardia})
	assert.Equal(t, []string{LabelTachycardia}, confirmed)

	// 6 minutes after the first reading: it falls out of the window and the
	// count drops back below the threshold
	*clock = start.Add(6 * time.Minute)
	confirmed = tracker.Observe("sensor-1", []string{LabelTachycardia})
	assert.Empty(t, confirmed)
}

func TestTrackerStore_WindowsAreIndependentPerSensor(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tracker, clock := trackerAt(start)

	tracker.Observe("sensor-1", []string{LabelHypoxemia})
	*clock = start.Add(time.Minute)
	tracker.Observe("sensor-1", []string{LabelHypoxemia})
	*clock = start.Add(2 * time.Minute)

	// A third reading on a different sensor must not confirm for sensor-1
	confirmed := tracker.Observe("sensor-2", []string{LabelHypoxemia})
	assert.Empty(t, confirmed)

	confirmed = tracker.Observe("sensor-1", []string{LabelHypoxemia})
	assert.Equal(t, []string{LabelHypoxemia}, confirmed)
}

func TestTrackerStore_OnlyPersistentLabelsConfirm(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tracker, clock := trackerAt(start)

	tracker.Observe("sensor-1", []string{LabelTachycardia, LabelHypoxemia})
	*clock = start.Add(time.Minute)
	tracker.Observe("sensor-1", []string{LabelTachycardia})
	*clock = start.Add(2 * time.Minute)
	confirmed := tracker.Observe("sensor-1", []string{LabelTachycardia, LabelHypoxemia})

	// Hypoxemia appeared only twice in the window
	assert.Equal(t, []string{LabelTachycardia}, confirmed)
}

func TestTrackerStore_Reset(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tracker, clock := trackerAt(start)

	tracker.Observe("sensor-1", []string{LabelTachycardia})
	*clock = start.Add(time.Minute)
	tracker.Observe("sensor-1", []string{LabelTachycardia})
	tracker.Reset("sensor-1")

	*clock = start.Add(2 * time.Minute)
	confirmed := tracker.Observe("sensor-1", []string{LabelTachycardia})
	assert.Empty(t, confirmed)
}

func TestTrackerStore_CustomThreshold(t *testing.T) {
	tracker := NewTrackerStoreWith(5*time.Minute, 2)
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	current := start
	tracker.now = func() time.Time { return current }

	tracker.Observe("sensor-1", []string{LabelBradycardia})
	current = start.Add(time.Minute)
	confirmed := tracker.Observe("sensor-1", []string{LabelBradycardia})

	assert.Equal(t, []string{LabelBradycardia}, confirmed)
}
