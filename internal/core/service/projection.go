package service

import (
	"github.com/mmiyara/eversolo2mqtt/internal/core/domain"
	"github.com/mmiyara/eversolo2mqtt/pkg/eversolo"
)

// ProjectSnapshot flattens a device snapshot into the sensor update
// events to publish. The projection is pure so the same snapshot always
// yields the same event set.
func ProjectSnapshot(snap *domain.DeviceSnapshot) []domain.SensorUpdateEvent {

	var events []domain.SensorUpdateEvent

	events = append(events, domain.BinarySensorUpdateEvent{
		SensorUpdateEventMixIn: mixin(domain.SENSOR_ID_DEVICE_STATE),
		Value:                  snap.Online,
	})

	events = append(events, domain.TextSensorUpdateEvent{
		SensorUpdateEventMixIn: mixin(domain.SENSOR_ID_PLAYBACK_STATE),
		Value:                  snap.Player.State.String(),
	})

	// Track metadata. Absent media projects empty strings so stale tags
	// from a previous track never linger on the broker.
	var title, artist, album string
	var duration, position float64
	if t := snap.Player.Track; t != nil {
		title = t.Title
		artist = t.Artist
		album = t.Album
		duration = t.Duration.Seconds()
		position = t.Position.Seconds()
	}
	events = append(events, domain.TextSensorUpdateEvent{
		SensorUpdateEventMixIn: mixin(domain.SENSOR_ID_TRACK_TITLE),
		Value:                  title,
	})
	events = append(events, domain.TextSensorUpdateEvent{
		SensorUpdateEventMixIn: mixin(domain.SENSOR_ID_TRACK_ARTIST),
		Value:                  artist,
	})
	events = append(events, domain.TextSensorUpdateEvent{
		SensorUpdateEventMixIn: mixin(domain.SENSOR_ID_TRACK_ALBUM),
		Value:                  album,
	})
	events = append(events, domain.FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: mixin(domain.SENSOR_ID_TRACK_DURATION),
		Value:                  duration,
	})
	events = append(events, domain.InputNumberSensorUpdateEvent{
		SensorUpdateEventMixIn: mixin(domain.NUMBER_ID_TRACK_POSITION),
		Value:                  position,
	})

	events = append(events, domain.InputNumberSensorUpdateEvent{
		SensorUpdateEventMixIn: mixin(domain.NUMBER_ID_VOLUME),
		Value:                  float64(snap.Player.Volume),
	})
	events = append(events, domain.SwitchSensorUpdateEvent{
		SensorUpdateEventMixIn: mixin(domain.SWITCH_ID_MUTE),
		Value:                  snap.Player.Muted,
	})

	events = append(events, domain.TextSensorUpdateEvent{
		SensorUpdateEventMixIn: mixin(domain.SENSOR_ID_SOURCE),
		Value:                  snap.IO.CurrentInputName(),
	})
	events = append(events, domain.SelectSensorUpdateEvent{
		SensorUpdateEventMixIn: mixin(domain.SELECT_ID_INPUT),
		Value:                  snap.IO.CurrentInputTag(),
	})
	events = append(events, domain.SelectSensorUpdateEvent{
		SensorUpdateEventMixIn: mixin(domain.SELECT_ID_OUTPUT),
		Value:                  snap.IO.CurrentOutputTag(),
	})

	events = append(events, domain.InputNumberSensorUpdateEvent{
		SensorUpdateEventMixIn: mixin(domain.NUMBER_ID_DISPLAY_BRIGHTNESS),
		Value:                  float64(snap.Display.Brightness),
	})
	if snap.Capabilities.HasKnob {
		events = append(events, domain.InputNumberSensorUpdateEvent{
			SensorUpdateEventMixIn: mixin(domain.NUMBER_ID_KNOB_BRIGHTNESS),
			Value:                  float64(snap.Display.KnobBrightness),
		})
	}
	if mode := snap.Display.CurrentVUMode(); mode != "" {
		events = append(events, domain.SelectSensorUpdateEvent{
			SensorUpdateEventMixIn: mixin(domain.SELECT_ID_VU_MODE),
			Value:                  mode,
		})
	}
	if mode := snap.Display.CurrentSpectrumMode(); mode != "" {
		events = append(events, domain.SelectSensorUpdateEvent{
			SensorUpdateEventMixIn: mixin(domain.SELECT_ID_SPECTRUM_MODE),
			Value:                  mode,
		})
	}

	return events
}

// GuardCommand validates a control request against the capability
// descriptor and the last known output list. A command rejected here
// never reaches the network.
func GuardCommand(cmd domain.DeviceControlRequest, snap *domain.DeviceSnapshot) error {
	caps := snap.Capabilities
	switch c := cmd.(type) {
	case domain.SetKnobBrightnessRequest:
		if !caps.HasKnob {
			return &eversolo.UnsupportedCapabilityError{Model: caps.Model, Capability: "knob"}
		}
	case domain.SelectOutputRequest:
		if !caps.SupportsOutput(c.Tag) {
			return &eversolo.UnsupportedCapabilityError{Model: caps.Model, Capability: "output " + c.Tag}
		}
		// Shipped outputs can still be unavailable without hardware
		// attached, e.g. USB DAC with nothing plugged in.
		if out, ok := snap.IO.Output(c.Tag); ok && !out.Enabled {
			return &eversolo.HardwareUnavailableError{Output: c.Tag}
		}
	case domain.SelectInputRequest:
		if !supportsInput(caps, &snap.IO, c.Tag) {
			return &eversolo.UnsupportedCapabilityError{Model: caps.Model, Capability: "input " + c.Tag}
		}
	case domain.SetVUModeRequest:
		if _, ok := ModeIndexByName(snap.Display.VUModes, c.Name); !ok {
			return &eversolo.UnsupportedCapabilityError{Model: caps.Model, Capability: "VU mode " + c.Name}
		}
	case domain.SetSpectrumModeRequest:
		if _, ok := ModeIndexByName(snap.Display.SpectrumModes, c.Name); !ok {
			return &eversolo.UnsupportedCapabilityError{Model: caps.Model, Capability: "spectrum mode " + c.Name}
		}
	}
	return nil
}

// ModeIndexByName resolves a display mode name to the index the set
// endpoints expect.
func ModeIndexByName(modes []eversolo.DisplayMode, name string) (int, bool) {
	for _, m := range modes {
		if m.Name == name {
			return m.Index, true
		}
	}
	return 0, false
}

// ResolveInputIndex resolves an input tag to its list index.
func ResolveInputIndex(io *eversolo.InputOutputList, tag string) (int, bool) {
	for i, in := range io.Inputs {
		if in.Tag == tag {
			return i, true
		}
	}
	return 0, false
}

// ResolveOutputIndex resolves an output tag to its list index.
func ResolveOutputIndex(io *eversolo.InputOutputList, tag string) (int, bool) {
	for i, out := range io.Outputs {
		if out.Tag == tag {
			return i, true
		}
	}
	return 0, false
}

// PercentToDeviceVolume converts a 0..100 percentage to the device
// volume scale reported by the last state fetch.
func PercentToDeviceVolume(percent, maxVolume int) int {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if maxVolume <= 0 {
		maxVolume = 100
	}
	return percent * maxVolume / 100
}

func supportsInput(caps eversolo.Capabilities, io *eversolo.InputOutputList, tag string) bool {
	if _, ok := ResolveInputIndex(io, tag); ok {
		return true
	}
	for _, in := range caps.Inputs {
		if in == tag {
			return true
		}
	}
	return false
}

func mixin(id string) domain.SensorUpdateEventMixIn {
	return domain.SensorUpdateEventMixIn{Id: id}
}
