package eversolo

import (
	"time"
)

// PlaybackState is the canonical playback state derived from the
// device's integer state codes.
type PlaybackState int

const (
	PlaybackUnknown PlaybackState = iota
	PlaybackIdle
	PlaybackPlaying
	PlaybackPaused
)

func (s PlaybackState) String() string {
	switch s {
	case PlaybackIdle:
		return "idle"
	case PlaybackPlaying:
		return "playing"
	case PlaybackPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// BoolEncoding records which wire encoding the device used for a
// boolean-ish field. Firmware versions disagree on bool vs 0/1.
type BoolEncoding string

const (
	EncodingBool    BoolEncoding = "bool"
	EncodingInt     BoolEncoding = "int"
	EncodingInvalid BoolEncoding = "invalid"
)

// Track is media metadata for the current item. A nil *Track means
// "no media", which is distinct from a paused track at position 0.
type Track struct {
	Title      string
	Artist     string
	Album      string
	ArtworkURL string
	Duration   time.Duration
	Position   time.Duration
}

// PlayerState is the canonical result of the getState endpoint.
type PlayerState struct {
	State PlaybackState
	// Volume is normalized to 0..100 regardless of the device's
	// native maxVolume scale.
	Volume    int
	MaxVolume int
	// RawVolume is the device-scale volume, needed to convert a
	// percentage back when issuing setDevicesVolume.
	RawVolume int
	Muted     bool
	// MuteEncoding and VolumeField record observed vendor quirks.
	MuteEncoding BoolEncoding
	VolumeField  string
	Track        *Track
	NetMAC       string
}

// InputEntry is one selectable input source.
type InputEntry struct {
	Name string `json:"name"`
	Tag  string `json:"tag"`
}

// OutputEntry is one audio output as reported by the device. Enabled
// is false for outputs that need hardware attached (e.g. USB DAC).
type OutputEntry struct {
	Name    string `json:"name"`
	Tag     string `json:"tag"`
	Enabled bool   `json:"enable"`
	// Encoding is how the device encoded the enable flag this cycle.
	Encoding BoolEncoding `json:"-"`
}

// InputOutputList is the canonical result of getInputAndOutputList.
type InputOutputList struct {
	Inputs      []InputEntry
	Outputs     []OutputEntry
	InputIndex  int
	OutputIndex int
}

// CurrentInputTag resolves the active input tag, or "unknown" when the
// reported index does not match the list.
func (l *InputOutputList) CurrentInputTag() string {
	if l.InputIndex >= 0 && l.InputIndex < len(l.Inputs) {
		return l.Inputs[l.InputIndex].Tag
	}
	return TagUnknown
}

// CurrentInputName resolves the active input's display name, falling
// back to the raw tag when the list carries no name for it.
func (l *InputOutputList) CurrentInputName() string {
	if l.InputIndex >= 0 && l.InputIndex < len(l.Inputs) {
		if name := l.Inputs[l.InputIndex].Name; name != "" {
			return name
		}
		return l.Inputs[l.InputIndex].Tag
	}
	return TagUnknown
}

// CurrentOutputTag resolves the active output tag, or "unknown".
func (l *InputOutputList) CurrentOutputTag() string {
	if l.OutputIndex >= 0 && l.OutputIndex < len(l.Outputs) {
		return l.Outputs[l.OutputIndex].Tag
	}
	return TagUnknown
}

// EnabledOutputTags returns the tags of outputs the device reports as
// usable right now, in list order.
func (l *InputOutputList) EnabledOutputTags() []string {
	var tags []string
	for _, o := range l.Outputs {
		if o.Enabled {
			tags = append(tags, o.Tag)
		}
	}
	return tags
}

// Output looks up an output entry by tag.
func (l *InputOutputList) Output(tag string) (OutputEntry, bool) {
	for _, o := range l.Outputs {
		if o.Tag == tag {
			return o, true
		}
	}
	return OutputEntry{}, false
}

// TagUnknown marks an input/output tag that could not be resolved from
// the last successfully fetched list.
const TagUnknown = "unknown"

// DeviceInfo is the result of the getModel probe.
type DeviceInfo struct {
	Model           string
	DeviceName      string
	FirmwareVersion string
	NetMAC          string
}

// DisplayMode is one entry of the VU meter / spectrum mode lists.
type DisplayMode struct {
	Name     string
	Index    int
	Selected bool
}
