package domain

import "github.com/mmiyara/eversolo2mqtt/pkg/eversolo"

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_DEVICE       = "device"
	ACTOR_ID_SYNC         = "sync"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

type GetDeviceInfoRequest struct {
	ActorRequestMixIn
}

type GetDeviceInfoResponse struct {
	ActorResponseMixIn
	Info         *eversolo.DeviceInfo
	Capabilities *eversolo.Capabilities
}

type FetchStateRequest struct {
	ActorRequestMixIn
}

type FetchStateResponse struct {
	ActorResponseMixIn
	State *eversolo.PlayerState
}

type FetchInputOutputRequest struct {
	ActorRequestMixIn
}

type FetchInputOutputResponse struct {
	ActorResponseMixIn
	List *eversolo.InputOutputList
}

type FetchDisplayStateRequest struct {
	ActorRequestMixIn
}

type FetchDisplayStateResponse struct {
	ActorResponseMixIn
	Display *DisplayState
}

type GetSnapshotRequest struct {
	ActorRequestMixIn
}

type GetSnapshotResponse struct {
	ActorResponseMixIn
	Snapshot *DeviceSnapshot
}

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors      []GenericSensor
	Switches     []GenericSwitch
	InputNumbers []GenericInputNumber
	Selects      []GenericSelect
	Buttons      []GenericButton
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
