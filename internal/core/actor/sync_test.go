package actor

import (
	"sync"
	"testing"
	"time"

	adactor "github.com/mmiyara/eversolo2mqtt/internal/adapter/actor"
	"github.com/mmiyara/eversolo2mqtt/internal/config"
	"github.com/mmiyara/eversolo2mqtt/internal/core/domain"
	"github.com/mmiyara/eversolo2mqtt/internal/util"
	"github.com/mmiyara/eversolo2mqtt/internal/util/actorutil"
	"github.com/mmiyara/eversolo2mqtt/pkg/eversolo"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type eventCollector struct {
	mu     sync.Mutex
	events []any
}

func (c *eventCollector) add(event any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *eventCollector) all() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]any, len(c.events))
	copy(out, c.events)
	return out
}

func (c *eventCollector) containsDeviceUpdated() bool {
	for _, e := range c.all() {
		if _, ok := e.(domain.DeviceUpdatedEvent); ok {
			return true
		}
	}
	return false
}

func spawnSyncFixture(t *testing.T, cfg config.Config, client eversolo.Client) (*actor.ActorSystem, *actor.RootContext, *actor.PID, *domain.SnapshotStore, *eventCollector) {
	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	root := as.Root

	deviceProps := actor.PropsFromProducer(func() actor.Actor {
		return adactor.NewDeviceActor(client, cfg.Device, logger)
	})
	devicePID := root.Spawn(deviceProps)

	es := &eventstream.EventStream{}
	collector := &eventCollector{}
	es.Subscribe(collector.add)

	store := domain.NewSnapshotStore()

	syncProps := actor.PropsFromProducer(func() actor.Actor {
		return NewSyncActor(&cfg, devicePID, es, store, logger)
	})
	syncPID := root.Spawn(syncProps)

	return as, root, syncPID, store, collector
}

func TestSyncFirstCycleCommitsSnapshot(t *testing.T) {

	require := require.New(t)
	assert := assert.New(t)

	client := eversolo.NewTestClient("DMP-A6")
	as, _, _, store, collector := spawnSyncFixture(t, util.LoadTestConfig(), client)
	defer as.Shutdown()

	time.Sleep(2 * time.Second)

	snap := store.Load()
	require.NotNil(snap, "first poll cycle must commit a snapshot")

	assert.True(snap.Online)
	assert.Equal("DMP-A6", snap.Info.Model)
	assert.Equal(eversolo.PlaybackPlaying, snap.Player.State)
	assert.Equal(35, snap.Player.Volume)
	assert.Len(snap.IO.Outputs, 4)
	assert.Equal(80, snap.Display.Brightness)
	assert.Equal("Classic", snap.Display.CurrentVUMode())

	assert.True(collector.containsDeviceUpdated(), "snapshot commit must announce on the event stream")
}

func TestSyncGuardedCommandNeverHitsDevice(t *testing.T) {

	require := require.New(t)
	assert := assert.New(t)

	client := eversolo.NewTestClient("DMP-A6")
	as, root, syncPID, store, _ := spawnSyncFixture(t, util.LoadTestConfig(), client)
	defer as.Shutdown()

	time.Sleep(2 * time.Second)
	require.NotNil(store.Load())

	// USB DAC output is listed but disabled on the scripted device
	result, err := root.RequestFuture(syncPID, domain.SelectOutputRequest{Tag: eversolo.OutputUSB}, 10*time.Second).Result()
	require.NoError(err)
	resp, ok := result.(domain.DeviceControlResponse)
	require.True(ok)

	require.True(resp.HasResponseError())
	var unavailable *eversolo.HardwareUnavailableError
	assert.ErrorAs(resp.GetResponseError(), &unavailable)

	assert.NotContains(client.CallLog(), "SelectOutput:"+eversolo.OutputUSB, "rejected command must not reach the device")
}

func TestSyncControlVolumeOptimistic(t *testing.T) {

	require := require.New(t)
	assert := assert.New(t)

	client := eversolo.NewTestClient("DMP-A6")
	as, root, syncPID, store, _ := spawnSyncFixture(t, util.LoadTestConfig(), client)
	defer as.Shutdown()

	time.Sleep(2 * time.Second)
	require.NotNil(store.Load())

	result, err := root.RequestFuture(syncPID, domain.SetVolumeRequest{Percent: 50}, 10*time.Second).Result()
	require.NoError(err)
	resp, ok := result.(domain.DeviceControlResponse)
	require.True(ok)
	require.False(resp.HasResponseError())

	time.Sleep(500 * time.Millisecond)

	// maxVolume is 200, so 50% is device volume 100
	assert.Equal(100, client.State.RawVolume)

	snap := store.Load()
	require.NotNil(snap)
	assert.Equal(50, snap.Player.Volume, "acknowledged volume shows up before the next poll")
}

func TestSyncTransientFailureLogsQuiet(t *testing.T) {

	require := require.New(t)
	assert := assert.New(t)

	client := eversolo.NewTestClient("DMP-A6")
	client.FailFetches = 2 // exactly one failed poll cycle

	cfg := util.LoadTestConfig()
	cfg.Device.PollIntervalMillis = 300

	observedCore, logs := observer.New(zap.DebugLevel)
	observed := zap.New(observedCore)

	as := actorutil.NewActorSystemWithZapLogger(zap.Must(zap.NewDevelopment()))
	root := as.Root
	defer as.Shutdown()

	devicePID := root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return adactor.NewDeviceActor(client, cfg.Device, zap.Must(zap.NewDevelopment()))
	}))

	store := domain.NewSnapshotStore()
	root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewSyncActor(&cfg, devicePID, &eventstream.EventStream{}, store, observed)
	}))

	time.Sleep(2 * time.Second)

	snap := store.Load()
	require.NotNil(snap, "loop must recover after the transient failure")
	assert.True(snap.Online)

	assert.Zero(logs.FilterLevelExact(zap.ErrorLevel).Len(),
		"below-threshold failures never log at error severity")
}

func TestSyncGuardsBeforeFirstSnapshot(t *testing.T) {

	require := require.New(t)
	assert := assert.New(t)

	client := eversolo.NewTestClient("DMP-A10")
	client.FailFetches = 100 // no poll cycle ever commits

	cfg := util.LoadTestConfig()
	cfg.Device.Model = "DMP-A10"

	as, root, syncPID, store, _ := spawnSyncFixture(t, cfg, client)
	defer as.Shutdown()

	time.Sleep(1 * time.Second)
	require.Nil(store.Load(), "fetch failures must leave the store empty")

	// A10 has no knob, so the command is rejected on capabilities alone
	result, err := root.RequestFuture(syncPID, domain.SetKnobBrightnessRequest{Level: 100}, 10*time.Second).Result()
	require.NoError(err)
	resp, ok := result.(domain.DeviceControlResponse)
	require.True(ok)

	require.True(resp.HasResponseError())
	var unsupported *eversolo.UnsupportedCapabilityError
	assert.ErrorAs(resp.GetResponseError(), &unsupported)

	assert.NotContains(client.CallLog(), "SetKnobBrightness", "rejected command must not reach the device")
}

func TestSyncOfflineAfterFailures(t *testing.T) {

	require := require.New(t)
	assert := assert.New(t)

	client := eversolo.NewTestClient("DMP-A6")
	client.FailFetches = 100

	cfg := util.LoadTestConfig()
	cfg.Device.PollIntervalMillis = 300
	cfg.Device.MaxPollFailures = 2

	as, root, syncPID, store, _ := spawnSyncFixture(t, cfg, client)
	defer as.Shutdown()

	time.Sleep(3 * time.Second)

	snap := store.Load()
	require.NotNil(snap, "crossing the failure threshold must publish an offline snapshot")
	assert.False(snap.Online)

	result, err := root.RequestFuture(syncPID, domain.ActorHealthRequest{}, 5*time.Second).Result()
	require.NoError(err)
	health, ok := result.(domain.ActorHealthResponse)
	require.True(ok)
	assert.Equal("offline", health.State)
}

func TestSyncSnapshotRequest(t *testing.T) {

	require := require.New(t)

	client := eversolo.NewTestClient("DMP-A8")
	as, root, syncPID, _, _ := spawnSyncFixture(t, util.LoadTestConfig(), client)
	defer as.Shutdown()

	time.Sleep(2 * time.Second)

	result, err := root.RequestFuture(syncPID, domain.GetSnapshotRequest{}, 5*time.Second).Result()
	require.NoError(err)
	resp, ok := result.(domain.GetSnapshotResponse)
	require.True(ok)
	require.NotNil(resp.Snapshot)
	require.Equal("DMP-A8", resp.Snapshot.Info.Model)
}
