package service

import (
	"testing"
	"time"

	"github.com/mmiyara/eversolo2mqtt/internal/core/domain"
	"github.com/mmiyara/eversolo2mqtt/pkg/eversolo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playingSnapshot(model string) *domain.DeviceSnapshot {
	caps, err := eversolo.CapabilitiesFor(model)
	if err != nil {
		caps = eversolo.DefaultCapabilities()
	}
	return &domain.DeviceSnapshot{
		Info: eversolo.DeviceInfo{
			Model:      model,
			DeviceName: "Listening room",
			NetMAC:     "aa:bb:cc:dd:ee:ff",
		},
		Capabilities: caps,
		Player: eversolo.PlayerState{
			State:     eversolo.PlaybackPlaying,
			Volume:    50,
			MaxVolume: 200,
			RawVolume: 100,
			Track: &eversolo.Track{
				Title:    "So What",
				Artist:   "Miles Davis",
				Album:    "Kind of Blue",
				Duration: 545 * time.Second,
				Position: 61 * time.Second,
			},
		},
		IO: eversolo.InputOutputList{
			Inputs: []eversolo.InputEntry{
				{Name: "Internal player", Tag: "INTERNALPLAYER"},
				{Name: "Bluetooth", Tag: "BT"},
			},
			Outputs: []eversolo.OutputEntry{
				{Name: "RCA", Tag: "RCA", Enabled: true},
				{Name: "XLR", Tag: "XLR", Enabled: true},
				{Name: "USB DAC", Tag: "USB", Enabled: false},
			},
			InputIndex:  0,
			OutputIndex: 1,
		},
		Display: domain.DisplayState{
			Brightness:     80,
			KnobBrightness: 200,
			VUModes: []eversolo.DisplayMode{
				{Name: "Classic", Index: 0, Selected: true},
				{Name: "Modern", Index: 1},
			},
			SpectrumModes: []eversolo.DisplayMode{
				{Name: "Bars", Index: 0},
				{Name: "Wave", Index: 1, Selected: true},
			},
		},
		Online:    true,
		UpdatedAt: time.Now(),
	}
}

func eventById(events []domain.SensorUpdateEvent, id string) domain.SensorUpdateEvent {
	for _, e := range events {
		if e.SensorId() == id {
			return e
		}
	}
	return nil
}

func TestProjectPlayingSnapshot(t *testing.T) {

	require := require.New(t)
	assert := assert.New(t)

	events := ProjectSnapshot(playingSnapshot("DMP-A6"))

	online, ok := eventById(events, domain.SENSOR_ID_DEVICE_STATE).(domain.BinarySensorUpdateEvent)
	require.True(ok)
	assert.True(online.Value)

	state, ok := eventById(events, domain.SENSOR_ID_PLAYBACK_STATE).(domain.TextSensorUpdateEvent)
	require.True(ok)
	assert.Equal("playing", state.Value)

	title := eventById(events, domain.SENSOR_ID_TRACK_TITLE).(domain.TextSensorUpdateEvent)
	assert.Equal("So What", title.Value)

	volume := eventById(events, domain.NUMBER_ID_VOLUME).(domain.InputNumberSensorUpdateEvent)
	assert.Equal(float64(50), volume.Value)

	mute := eventById(events, domain.SWITCH_ID_MUTE).(domain.SwitchSensorUpdateEvent)
	assert.False(mute.Value)

	input := eventById(events, domain.SELECT_ID_INPUT).(domain.SelectSensorUpdateEvent)
	assert.Equal("INTERNALPLAYER", input.Value)

	output := eventById(events, domain.SELECT_ID_OUTPUT).(domain.SelectSensorUpdateEvent)
	assert.Equal("XLR", output.Value)

	vu := eventById(events, domain.SELECT_ID_VU_MODE).(domain.SelectSensorUpdateEvent)
	assert.Equal("Classic", vu.Value)

	spectrum := eventById(events, domain.SELECT_ID_SPECTRUM_MODE).(domain.SelectSensorUpdateEvent)
	assert.Equal("Wave", spectrum.Value)

	knob := eventById(events, domain.NUMBER_ID_KNOB_BRIGHTNESS)
	require.NotNil(knob, "A6 has a knob")
}

func TestProjectSourceLabel(t *testing.T) {

	assert := assert.New(t)

	snap := playingSnapshot("DMP-A6")

	events := ProjectSnapshot(snap)
	source := eventById(events, domain.SENSOR_ID_SOURCE).(domain.TextSensorUpdateEvent)
	assert.Equal("Internal player", source.Value)

	snap.IO.Inputs[0].Name = ""
	events = ProjectSnapshot(snap)
	source = eventById(events, domain.SENSOR_ID_SOURCE).(domain.TextSensorUpdateEvent)
	assert.Equal("INTERNALPLAYER", source.Value, "missing name falls back to the raw tag")

	snap.IO.InputIndex = 9
	events = ProjectSnapshot(snap)
	source = eventById(events, domain.SENSOR_ID_SOURCE).(domain.TextSensorUpdateEvent)
	assert.Equal(eversolo.TagUnknown, source.Value)
}

func TestProjectNoMediaSnapshot(t *testing.T) {

	assert := assert.New(t)

	snap := playingSnapshot("DMP-A6")
	snap.Player.State = eversolo.PlaybackIdle
	snap.Player.Track = nil

	events := ProjectSnapshot(snap)

	title := eventById(events, domain.SENSOR_ID_TRACK_TITLE).(domain.TextSensorUpdateEvent)
	assert.Equal("", title.Value, "stale title must be cleared")

	artist := eventById(events, domain.SENSOR_ID_TRACK_ARTIST).(domain.TextSensorUpdateEvent)
	assert.Equal("", artist.Value)

	duration := eventById(events, domain.SENSOR_ID_TRACK_DURATION).(domain.FloatSensorUpdateEvent)
	assert.Equal(float64(0), duration.Value)
}

func TestProjectNoKnobModel(t *testing.T) {

	snap := playingSnapshot("DMP-A10")
	events := ProjectSnapshot(snap)

	assert.Nil(t, eventById(events, domain.NUMBER_ID_KNOB_BRIGHTNESS), "A10 has no knob")
}

func TestProjectionDeterministic(t *testing.T) {

	snap := playingSnapshot("DMP-A8")

	assert.Equal(t, ProjectSnapshot(snap), ProjectSnapshot(snap))
}

func TestGuardUnsupportedOutput(t *testing.T) {

	snap := playingSnapshot("DMP-A8")

	err := GuardCommand(domain.SelectOutputRequest{Tag: eversolo.OutputHDMI}, snap)

	var unsupported *eversolo.UnsupportedCapabilityError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "DMP-A8", unsupported.Model)
}

func TestGuardDisabledOutput(t *testing.T) {

	snap := playingSnapshot("DMP-A6")

	err := GuardCommand(domain.SelectOutputRequest{Tag: eversolo.OutputUSB}, snap)

	var unavailable *eversolo.HardwareUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, eversolo.OutputUSB, unavailable.Output)
}

func TestGuardEnabledOutputPasses(t *testing.T) {

	snap := playingSnapshot("DMP-A6")

	assert.NoError(t, GuardCommand(domain.SelectOutputRequest{Tag: eversolo.OutputXLR}, snap))
}

func TestGuardKnobOnKnoblessModel(t *testing.T) {

	snap := playingSnapshot("DMP-A10")

	err := GuardCommand(domain.SetKnobBrightnessRequest{Level: 100}, snap)

	var unsupported *eversolo.UnsupportedCapabilityError
	require.ErrorAs(t, err, &unsupported)

	snap = playingSnapshot("DMP-A6")
	assert.NoError(t, GuardCommand(domain.SetKnobBrightnessRequest{Level: 100}, snap))
}

func TestGuardUnknownDisplayMode(t *testing.T) {

	snap := playingSnapshot("DMP-A6")

	err := GuardCommand(domain.SetVUModeRequest{Name: "Nope"}, snap)

	var unsupported *eversolo.UnsupportedCapabilityError
	require.ErrorAs(t, err, &unsupported)

	assert.NoError(t, GuardCommand(domain.SetVUModeRequest{Name: "Modern"}, snap))
}

func TestPercentToDeviceVolume(t *testing.T) {

	assert := assert.New(t)

	assert.Equal(100, PercentToDeviceVolume(50, 200))
	assert.Equal(0, PercentToDeviceVolume(-10, 200))
	assert.Equal(200, PercentToDeviceVolume(150, 200))
	assert.Equal(40, PercentToDeviceVolume(40, 0), "missing max falls back to percent scale")
}

func TestResolveIndexes(t *testing.T) {

	assert := assert.New(t)

	snap := playingSnapshot("DMP-A6")

	i, ok := ResolveInputIndex(&snap.IO, "BT")
	assert.True(ok)
	assert.Equal(1, i)

	o, ok := ResolveOutputIndex(&snap.IO, "USB")
	assert.True(ok)
	assert.Equal(2, o)

	_, ok = ResolveOutputIndex(&snap.IO, "IIS")
	assert.False(ok)

	idx, ok := ModeIndexByName(snap.Display.SpectrumModes, "Wave")
	assert.True(ok)
	assert.Equal(1, idx)
}
