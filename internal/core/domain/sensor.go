package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/mmiyara/eversolo2mqtt/pkg/eversolo"

	"github.com/carlmjohnson/versioninfo"
)

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("eversolo2mqtt_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "mmiyara",
		Model:        "Eversolo2MQTT",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Eversolo2MQTT %s", md5HashShort(baseTopic)),
	}
}

func StreamerDevice(info *eversolo.DeviceInfo) Device {
	return Device{
		Id:           fmt.Sprintf("evs_streamer_%s", md5HashShort(info.NetMAC)),
		Version:      info.FirmwareVersion,
		Manufacturer: "Eversolo",
		Model:        info.Model,
		Name:         info.DeviceName,
	}
}

func IdDevice(device Device) Device {
	return Device{
		Id:   device.Id,
		Name: device.Name,
	}
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {

	var sensors []GenericSensor

	sensors = append(sensors, GenericSensor{
		Device:         bridgeDevice,
		Id:             SENSOR_ID_BRIDGE_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Connection state",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
	})

	return sensors
}

func StreamerSensors(streamerDevice Device) []GenericSensor {

	var sensors []GenericSensor

	// Device reachability
	sensors = append(sensors, GenericSensor{
		Device:         streamerDevice,
		Id:             SENSOR_ID_DEVICE_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Reachable",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(streamerDevice.Id, SENSOR_ID_DEVICE_STATE),
	})

	// Playback state
	sensors = append(sensors, GenericSensor{
		Device:     streamerDevice,
		Id:         SENSOR_ID_PLAYBACK_STATE,
		SensorType: SENSOR_TYPE_SENSOR,
		Name:       "Playback state",
		Icon:       "mdi:play-circle",
		UniqueId:   uniqueId(streamerDevice.Id, SENSOR_ID_PLAYBACK_STATE),
	})

	// Source label, resolved from the input list
	sensors = append(sensors, GenericSensor{
		Device:     streamerDevice,
		Id:         SENSOR_ID_SOURCE,
		SensorType: SENSOR_TYPE_SENSOR,
		Name:       "Source",
		Icon:       "mdi:audio-input-rca",
		UniqueId:   uniqueId(streamerDevice.Id, SENSOR_ID_SOURCE),
	})

	// Track title
	sensors = append(sensors, GenericSensor{
		Device:     streamerDevice,
		Id:         SENSOR_ID_TRACK_TITLE,
		SensorType: SENSOR_TYPE_SENSOR,
		Name:       "Track title",
		Icon:       "mdi:music-note",
		UniqueId:   uniqueId(streamerDevice.Id, SENSOR_ID_TRACK_TITLE),
	})

	// Track artist
	sensors = append(sensors, GenericSensor{
		Device:     streamerDevice,
		Id:         SENSOR_ID_TRACK_ARTIST,
		SensorType: SENSOR_TYPE_SENSOR,
		Name:       "Track artist",
		Icon:       "mdi:account-music",
		UniqueId:   uniqueId(streamerDevice.Id, SENSOR_ID_TRACK_ARTIST),
	})

	// Track album
	sensors = append(sensors, GenericSensor{
		Device:     streamerDevice,
		Id:         SENSOR_ID_TRACK_ALBUM,
		SensorType: SENSOR_TYPE_SENSOR,
		Name:       "Track album",
		Icon:       "mdi:album",
		UniqueId:   uniqueId(streamerDevice.Id, SENSOR_ID_TRACK_ALBUM),
	})

	// Track duration
	sensors = append(sensors, GenericSensor{
		Device:            streamerDevice,
		Id:                SENSOR_ID_TRACK_DURATION,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Track duration",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_DURATION,
		UnitOfMeasurement: "s",
		EnabledByDefault:  optionalBool(false),
		UniqueId:          uniqueId(streamerDevice.Id, SENSOR_ID_TRACK_DURATION),
	})

	return sensors
}

func StreamerSwitches(streamerDevice Device) []GenericSwitch {

	var switches []GenericSwitch

	// Mute
	switches = append(switches, GenericSwitch{
		Device:   streamerDevice,
		Id:       SWITCH_ID_MUTE,
		Name:     "Mute",
		UniqueId: uniqueId(streamerDevice.Id, SWITCH_ID_MUTE),
		Icon:     "mdi:volume-mute",
	})
	// Screen
	switches = append(switches, GenericSwitch{
		Device:   streamerDevice,
		Id:       SWITCH_ID_SCREEN,
		Name:     "Screen",
		UniqueId: uniqueId(streamerDevice.Id, SWITCH_ID_SCREEN),
		Icon:     "mdi:monitor",
	})

	return switches
}

func StreamerInputNumbers(streamerDevice Device, caps eversolo.Capabilities) []GenericInputNumber {

	var inputNumbers []GenericInputNumber

	// Volume
	inputNumbers = append(inputNumbers, GenericInputNumber{
		Device:   streamerDevice,
		Id:       NUMBER_ID_VOLUME,
		Name:     "Volume",
		UniqueId: uniqueId(streamerDevice.Id, NUMBER_ID_VOLUME),
		Icon:     "mdi:volume-high",
		Max:      100,
		Min:      0,
		Step:     1,
		Mode:     INPUT_NUMBER_MODE_SLIDER,
	})

	// Track position (seek)
	inputNumbers = append(inputNumbers, GenericInputNumber{
		Device:   streamerDevice,
		Id:       NUMBER_ID_TRACK_POSITION,
		Name:     "Track position",
		UniqueId: uniqueId(streamerDevice.Id, NUMBER_ID_TRACK_POSITION),
		Icon:     "mdi:timer-outline",
		Max:      36000,
		Min:      0,
		Step:     1,
		Mode:     INPUT_NUMBER_MODE_BOX,
	})

	// Display brightness
	inputNumbers = append(inputNumbers, GenericInputNumber{
		Device:   streamerDevice,
		Id:       NUMBER_ID_DISPLAY_BRIGHTNESS,
		Name:     "Display brightness",
		UniqueId: uniqueId(streamerDevice.Id, NUMBER_ID_DISPLAY_BRIGHTNESS),
		Icon:     "mdi:brightness-6",
		Max:      float64(caps.DisplayBrightnessMax),
		Min:      0,
		Step:     1,
		Mode:     INPUT_NUMBER_MODE_SLIDER,
	})

	// Knob brightness, only on variants that ship a knob
	if caps.HasKnob {
		inputNumbers = append(inputNumbers, GenericInputNumber{
			Device:   streamerDevice,
			Id:       NUMBER_ID_KNOB_BRIGHTNESS,
			Name:     "Knob brightness",
			UniqueId: uniqueId(streamerDevice.Id, NUMBER_ID_KNOB_BRIGHTNESS),
			Icon:     "mdi:knob",
			Max:      float64(caps.KnobBrightnessMax),
			Min:      0,
			Step:     1,
			Mode:     INPUT_NUMBER_MODE_SLIDER,
		})
	}

	return inputNumbers
}

func StreamerSelects(streamerDevice Device, caps eversolo.Capabilities, snap *DeviceSnapshot) []GenericSelect {

	var selects []GenericSelect

	// Input source
	selects = append(selects, GenericSelect{
		Device:   streamerDevice,
		Id:       SELECT_ID_INPUT,
		Name:     "Input",
		UniqueId: uniqueId(streamerDevice.Id, SELECT_ID_INPUT),
		Icon:     "mdi:import",
		Options:  inputOptions(caps, snap),
	})

	// Output. Disabled-but-shipped outputs (e.g. USB DAC with nothing
	// attached) stay listed; activating one is rejected by the guard.
	selects = append(selects, GenericSelect{
		Device:   streamerDevice,
		Id:       SELECT_ID_OUTPUT,
		Name:     "Output",
		UniqueId: uniqueId(streamerDevice.Id, SELECT_ID_OUTPUT),
		Icon:     "mdi:export",
		Options:  outputOptions(caps, snap),
	})

	// VU meter style
	if modes := modeOptions(snap.Display.VUModes); len(modes) > 0 {
		selects = append(selects, GenericSelect{
			Device:   streamerDevice,
			Id:       SELECT_ID_VU_MODE,
			Name:     "VU meter style",
			UniqueId: uniqueId(streamerDevice.Id, SELECT_ID_VU_MODE),
			Icon:     "mdi:gauge",
			Options:  modes,
		})
	}

	// Spectrum style
	if modes := modeOptions(snap.Display.SpectrumModes); len(modes) > 0 {
		selects = append(selects, GenericSelect{
			Device:   streamerDevice,
			Id:       SELECT_ID_SPECTRUM_MODE,
			Name:     "Spectrum style",
			UniqueId: uniqueId(streamerDevice.Id, SELECT_ID_SPECTRUM_MODE),
			Icon:     "mdi:chart-bar",
			Options:  modes,
		})
	}

	return selects
}

func StreamerButtons(streamerDevice Device) []GenericButton {

	var buttons []GenericButton

	buttons = append(buttons, GenericButton{
		Device:   streamerDevice,
		Id:       BUTTON_ID_PLAY_PAUSE,
		Name:     "Play / Pause",
		UniqueId: uniqueId(streamerDevice.Id, BUTTON_ID_PLAY_PAUSE),
		Icon:     "mdi:play-pause",
	})
	buttons = append(buttons, GenericButton{
		Device:   streamerDevice,
		Id:       BUTTON_ID_NEXT_TRACK,
		Name:     "Next track",
		UniqueId: uniqueId(streamerDevice.Id, BUTTON_ID_NEXT_TRACK),
		Icon:     "mdi:skip-next",
	})
	buttons = append(buttons, GenericButton{
		Device:   streamerDevice,
		Id:       BUTTON_ID_PREVIOUS_TRACK,
		Name:     "Previous track",
		UniqueId: uniqueId(streamerDevice.Id, BUTTON_ID_PREVIOUS_TRACK),
		Icon:     "mdi:skip-previous",
	})
	buttons = append(buttons, GenericButton{
		Device:   streamerDevice,
		Id:       BUTTON_ID_VOLUME_UP,
		Name:     "Volume up",
		UniqueId: uniqueId(streamerDevice.Id, BUTTON_ID_VOLUME_UP),
		Icon:     "mdi:volume-plus",
	})
	buttons = append(buttons, GenericButton{
		Device:   streamerDevice,
		Id:       BUTTON_ID_VOLUME_DOWN,
		Name:     "Volume down",
		UniqueId: uniqueId(streamerDevice.Id, BUTTON_ID_VOLUME_DOWN),
		Icon:     "mdi:volume-minus",
	})
	buttons = append(buttons, GenericButton{
		Device:   streamerDevice,
		Id:       BUTTON_ID_POWER_ON,
		Name:     "Power on",
		UniqueId: uniqueId(streamerDevice.Id, BUTTON_ID_POWER_ON),
		Icon:     "mdi:power",
	})
	buttons = append(buttons, GenericButton{
		Device:   streamerDevice,
		Id:       BUTTON_ID_POWER_OFF,
		Name:     "Power off",
		UniqueId: uniqueId(streamerDevice.Id, BUTTON_ID_POWER_OFF),
		Icon:     "mdi:power-off",
	})
	buttons = append(buttons, GenericButton{
		Device:   streamerDevice,
		Id:       BUTTON_ID_REBOOT,
		Name:     "Reboot",
		UniqueId: uniqueId(streamerDevice.Id, BUTTON_ID_REBOOT),
		Icon:     "mdi:restart",
	})
	buttons = append(buttons, GenericButton{
		Device:   streamerDevice,
		Id:       BUTTON_ID_VU_CYCLE,
		Name:     "Cycle VU display",
		UniqueId: uniqueId(streamerDevice.Id, BUTTON_ID_VU_CYCLE),
		Icon:     "mdi:gauge-low",
	})

	return buttons
}

func inputOptions(caps eversolo.Capabilities, snap *DeviceSnapshot) []string {
	if snap != nil && len(snap.IO.Inputs) > 0 {
		var tags []string
		for _, in := range snap.IO.Inputs {
			tags = append(tags, in.Tag)
		}
		return tags
	}
	return caps.Inputs
}

func outputOptions(caps eversolo.Capabilities, snap *DeviceSnapshot) []string {
	if snap != nil && len(snap.IO.Outputs) > 0 {
		var tags []string
		for _, o := range snap.IO.Outputs {
			tags = append(tags, o.Tag)
		}
		return tags
	}
	var tags []string
	for _, o := range caps.EnabledOutputs() {
		tags = append(tags, o.Tag)
	}
	return tags
}

func modeOptions(modes []eversolo.DisplayMode) []string {
	var names []string
	for _, m := range modes {
		names = append(names, m.Name)
	}
	return names
}

func uniqueId(baseId, id string) string {
	return fmt.Sprintf("uid_%s_%s", baseId, id)
}

func md5HashShort(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])[0:8]
}

func optionalBool(value bool) *bool {
	return &value
}
