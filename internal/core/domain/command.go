package domain

import (
	"fmt"
	"time"
)

// DeviceControlRequest

type DeviceControlRequest interface {
	ActorRequest
	DeviceControlCommand() string
}

type DeviceControlRequestMixIn struct {
	ActorRequestMixIn
}

func (r DeviceControlRequestMixIn) DeviceControlCommand() string {
	return fmt.Sprintf("%T", r)
}

// DeviceControlResponse

type DeviceControlResponse struct {
	ActorResponseMixIn
}

// Transport commands

type PlayPauseRequest struct {
	DeviceControlRequestMixIn
}

type NextTrackRequest struct {
	DeviceControlRequestMixIn
}

type PreviousTrackRequest struct {
	DeviceControlRequestMixIn
}

type SeekRequest struct {
	DeviceControlRequestMixIn
	Position time.Duration
}

// Volume commands

type SetVolumeRequest struct {
	DeviceControlRequestMixIn
	// Percent is 0..100; the device-scale value is derived from the
	// last known maxVolume.
	Percent int
}

type SetMuteRequest struct {
	DeviceControlRequestMixIn
	Mute bool
}

// Routing commands

type SelectInputRequest struct {
	DeviceControlRequestMixIn
	Tag string
}

type SelectOutputRequest struct {
	DeviceControlRequestMixIn
	Tag string
}

// Power commands

type PowerOnRequest struct {
	DeviceControlRequestMixIn
}

type PowerOffRequest struct {
	DeviceControlRequestMixIn
}

type RebootRequest struct {
	DeviceControlRequestMixIn
}

// Display commands

type SetDisplayBrightnessRequest struct {
	DeviceControlRequestMixIn
	Level int
}

type SetKnobBrightnessRequest struct {
	DeviceControlRequestMixIn
	Level int
}

type SetVUModeRequest struct {
	DeviceControlRequestMixIn
	Name string
}

type SetSpectrumModeRequest struct {
	DeviceControlRequestMixIn
	Name string
}

type CycleVUDisplayRequest struct {
	DeviceControlRequestMixIn
}

type SetScreenRequest struct {
	DeviceControlRequestMixIn
	On bool
}

type SendKeyRequest struct {
	DeviceControlRequestMixIn
	Key string
}

// ensure interface compliance
var _ DeviceControlRequest = (*PlayPauseRequest)(nil)
