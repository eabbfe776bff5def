package domain

const (
	SENSOR_ID_BRIDGE_STATE       = "bridge"
	SENSOR_ID_DEVICE_STATE       = "device_state"
	SENSOR_ID_PLAYBACK_STATE     = "playback_state"
	SENSOR_ID_SOURCE             = "source"
	SENSOR_ID_TRACK_TITLE        = "track_title"
	SENSOR_ID_TRACK_ARTIST       = "track_artist"
	SENSOR_ID_TRACK_ALBUM        = "track_album"
	SENSOR_ID_TRACK_DURATION     = "track_duration"
	SWITCH_ID_MUTE               = "mute"
	SWITCH_ID_SCREEN             = "screen"
	NUMBER_ID_VOLUME             = "volume"
	NUMBER_ID_TRACK_POSITION     = "track_position"
	NUMBER_ID_DISPLAY_BRIGHTNESS = "display_brightness"
	NUMBER_ID_KNOB_BRIGHTNESS    = "knob_brightness"
	SELECT_ID_INPUT              = "input"
	SELECT_ID_OUTPUT             = "output"
	SELECT_ID_VU_MODE            = "vu_mode"
	SELECT_ID_SPECTRUM_MODE      = "spectrum_mode"
	BUTTON_ID_PLAY_PAUSE         = "play_pause"
	BUTTON_ID_NEXT_TRACK         = "next_track"
	BUTTON_ID_PREVIOUS_TRACK     = "previous_track"
	BUTTON_ID_POWER_ON           = "power_on"
	BUTTON_ID_POWER_OFF          = "power_off"
	BUTTON_ID_REBOOT             = "reboot"
	BUTTON_ID_VU_CYCLE           = "vu_cycle"
	BUTTON_ID_VOLUME_UP          = "volume_up"
	BUTTON_ID_VOLUME_DOWN        = "volume_down"

	STATE_CLASS_DURATION      = "duration"
	STATE_CLASS_MEASUREMENT   = "measurement"
	DEVICE_CLASS_CONNECTIVITY = "connectivity"
	DEVICE_CLASS_DURATION     = "duration"
	ENTITY_CLASS_DIAGNOSTIC   = "diagnostic"
	ENTITY_CLASS_CONFIG       = "config"
	SENSOR_TYPE_SENSOR        = "sensor"
	SENSOR_TYPE_BINARY        = "binary_sensor"
	INPUT_NUMBER_MODE_BOX     = "box"
	INPUT_NUMBER_MODE_SLIDER  = "slider"
)

type Device struct {
	Id           string
	Name         string
	Version      string
	Model        string
	Manufacturer string
	ViaDevice    string
}

type GenericSensor struct {
	Device            Device
	Id                string
	SensorType        string
	Name              string
	UniqueId          string
	UnitOfMeasurement string
	StateClass        string // measurement, duration
	DeviceClass       string // connectivity, duration
	EntityCategory    string // diagnostic, config, nil
	EnabledByDefault  *bool
	Icon              string
}

type GenericSwitch struct {
	Device   Device
	Id       string
	Name     string
	UniqueId string
	Icon     string
}

type GenericInputNumber struct {
	Device       Device
	Id           string
	Name         string
	UniqueId     string
	Icon         string
	Max          float64
	Min          float64
	Step         float64
	Mode         string
	InitialValue float64
}

type GenericSelect struct {
	Device   Device
	Id       string
	Name     string
	UniqueId string
	Icon     string
	Options  []string
}

type GenericButton struct {
	Device   Device
	Id       string
	Name     string
	UniqueId string
	Icon     string
}
