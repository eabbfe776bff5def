package actor

import (
	"testing"
	"time"

	"github.com/mmiyara/eversolo2mqtt/internal/core/domain"
	"github.com/mmiyara/eversolo2mqtt/internal/util"
	"github.com/mmiyara/eversolo2mqtt/internal/util/actorutil"
	"github.com/mmiyara/eversolo2mqtt/pkg/eversolo"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func spawnDeviceActor(t *testing.T, client eversolo.Client) (*actor.ActorSystem, *actor.RootContext, *actor.PID) {
	cfg := util.LoadTestConfig()
	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewDeviceActor(client, cfg.Device, logger) })
	pid := context.Spawn(props)

	time.Sleep(500 * time.Millisecond)

	return as, context, pid
}

func TestGetDeviceInfoDeviceActor(t *testing.T) {

	assert := assert.New(t)

	client := eversolo.NewTestClient("DMP-A6")
	as, context, pid := spawnDeviceActor(t, client)

	result, err := context.RequestFuture(pid, domain.GetDeviceInfoRequest{}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.GetDeviceInfoResponse)

	assert.False(resp.HasResponseError())
	assert.Equal("DMP-A6", resp.Info.Model, "device model")
	assert.Equal("Living Room", resp.Info.DeviceName, "device name")
	assert.True(resp.Capabilities.HasKnob, "A6 capabilities")
	assert.True(resp.Capabilities.SupportsOutput(eversolo.OutputHDMI))

	context.Stop(pid)
	as.Shutdown()
}

func TestGetDeviceInfoUnknownModel(t *testing.T) {

	assert := assert.New(t)

	client := eversolo.NewTestClient("DMP-A99")
	as, context, pid := spawnDeviceActor(t, client)

	result, err := context.RequestFuture(pid, domain.GetDeviceInfoRequest{}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.GetDeviceInfoResponse)

	assert.False(resp.HasResponseError())
	assert.Equal("unknown", resp.Capabilities.Model, "default capability fallback")
	assert.False(resp.Capabilities.SupportsOutput(eversolo.OutputHDMI))

	context.Stop(pid)
	as.Shutdown()
}

func TestFetchStateDeviceActor(t *testing.T) {

	assert := assert.New(t)

	client := eversolo.NewTestClient("DMP-A6")
	as, context, pid := spawnDeviceActor(t, client)

	result, err := context.RequestFuture(pid, domain.FetchStateRequest{}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.FetchStateResponse)

	assert.False(resp.HasResponseError())
	assert.Equal(eversolo.PlaybackPlaying, resp.State.State)
	assert.Equal(35, resp.State.Volume)
	assert.Equal("So What", resp.State.Track.Title)

	context.Stop(pid)
	as.Shutdown()
}

func TestFetchStateError(t *testing.T) {

	assert := assert.New(t)

	client := eversolo.NewTestClient("DMP-A6")
	client.FailFetches = 1
	as, context, pid := spawnDeviceActor(t, client)

	result, err := context.RequestFuture(pid, domain.FetchStateRequest{}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.FetchStateResponse)

	assert.True(resp.HasResponseError())
	var connErr *eversolo.ConnectionError
	assert.ErrorAs(resp.GetResponseError(), &connErr)

	context.Stop(pid)
	as.Shutdown()
}

func TestControlVolumeUsesDeviceScale(t *testing.T) {

	assert := assert.New(t)

	client := eversolo.NewTestClient("DMP-A6")
	as, context, pid := spawnDeviceActor(t, client)

	// prime the actor with the device volume scale
	_, err := context.RequestFuture(pid, domain.FetchStateRequest{}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}

	result, err := context.RequestFuture(pid, domain.SetVolumeRequest{Percent: 50}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.DeviceControlResponse)
	assert.False(resp.HasResponseError())

	// maxVolume is 200, so 50% must become device volume 100
	assert.Equal(100, client.State.RawVolume, "percent converted to device scale")

	context.Stop(pid)
	as.Shutdown()
}

func TestControlSelectOutputResolvesIndex(t *testing.T) {

	assert := assert.New(t)

	client := eversolo.NewTestClient("DMP-A6")
	as, context, pid := spawnDeviceActor(t, client)

	// the output list must be fetched before tags can resolve
	_, err := context.RequestFuture(pid, domain.FetchInputOutputRequest{}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}

	result, err := context.RequestFuture(pid, domain.SelectOutputRequest{Tag: eversolo.OutputXLR}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.DeviceControlResponse)
	assert.False(resp.HasResponseError())
	assert.Contains(client.CallLog(), "SelectOutput:XLR")

	context.Stop(pid)
	as.Shutdown()
}

func TestControlScreenSwitchSendsKey(t *testing.T) {

	assert := assert.New(t)

	client := eversolo.NewTestClient("DMP-A6")
	as, context, pid := spawnDeviceActor(t, client)

	_, err := context.RequestFuture(pid, domain.SetScreenRequest{On: false}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}

	assert.Contains(client.CallLog(), "SendKey:"+eversolo.KeyScreenOff)

	context.Stop(pid)
	as.Shutdown()
}
