package domain

import (
	"sync/atomic"
	"time"

	"github.com/mmiyara/eversolo2mqtt/pkg/eversolo"
)

// DisplayState groups the front-panel settings that are fetched from
// the display endpoints rather than getState.
type DisplayState struct {
	Brightness     int
	KnobBrightness int
	VUModes        []eversolo.DisplayMode
	SpectrumModes  []eversolo.DisplayMode
}

// CurrentVUMode returns the selected VU meter style, or "".
func (d *DisplayState) CurrentVUMode() string {
	return selectedMode(d.VUModes)
}

// CurrentSpectrumMode returns the selected spectrum style, or "".
func (d *DisplayState) CurrentSpectrumMode() string {
	return selectedMode(d.SpectrumModes)
}

func selectedMode(modes []eversolo.DisplayMode) string {
	for _, m := range modes {
		if m.Selected {
			return m.Name
		}
	}
	return ""
}

// DeviceSnapshot is the canonical device state the rest of the bridge
// reads from. A snapshot is immutable once published; the sync loop
// replaces the whole value instead of mutating fields in place.
type DeviceSnapshot struct {
	Info         eversolo.DeviceInfo
	Capabilities eversolo.Capabilities
	Player       eversolo.PlayerState
	IO           eversolo.InputOutputList
	Display      DisplayState
	Online       bool
	UpdatedAt    time.Time
}

// SnapshotStore publishes snapshots to concurrent readers. Readers on
// the HTTP server and projection side only ever see a complete
// snapshot, never a half-applied poll cycle.
type SnapshotStore struct {
	current atomic.Pointer[DeviceSnapshot]
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Load returns the latest published snapshot, or nil before the first
// successful poll cycle.
func (s *SnapshotStore) Load() *DeviceSnapshot {
	return s.current.Load()
}

// Publish atomically replaces the current snapshot.
func (s *SnapshotStore) Publish(snap *DeviceSnapshot) {
	s.current.Store(snap)
}
