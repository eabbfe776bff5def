package actor

import (
	"errors"
	"fmt"
	"time"

	"github.com/mmiyara/eversolo2mqtt/internal/config"
	"github.com/mmiyara/eversolo2mqtt/internal/core/domain"
	"github.com/mmiyara/eversolo2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

const (
	// the first poll cycle may still be running when discovery starts
	snapshotRetryInterval = 5 * time.Second
)

// HADiscoveryActor publishes the Home Assistant discovery config once
// the first device snapshot is available. Select options depend on the
// live input/output lists, so discovery waits for an online snapshot.
type HADiscoveryActor struct {
	config           *config.Config
	behavior         actor.Behavior
	stash            *actorutil.Stash
	scheduler        *scheduler.TimerScheduler
	syncActor        *actor.PID
	mqttActor        *actor.PID
	syncActorHealthy bool
	mqttActorHealthy bool
	healthyRecv      int

	logger *zap.Logger
}

type snapshotRetry struct {
}

func NewHADiscoveryActor(config *config.Config, syncActor *actor.PID, mqttActor *actor.PID, logger *zap.Logger) *HADiscoveryActor {
	act := &HADiscoveryActor{
		config:    config,
		syncActor: syncActor,
		mqttActor: mqttActor,
		behavior:  actor.NewBehavior(),
		stash:     &actorutil.Stash{},
		logger:    actorutil.ActorLogger(domain.ACTOR_ID_HA_DISCOVERY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *HADiscoveryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *HADiscoveryActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("hadiscovery@starting started")

		state.scheduler = scheduler.NewTimerScheduler(ctx)

		// Check Sync and MQTT actor healthy
		state.healthyRecv = 0
		state.syncActorHealthy = false
		state.mqttActorHealthy = false
		// Sync Actor Request
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.syncActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_SYNC,
				Healthy: false,
			}
		})
		// MQTT Actor Request
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.mqttActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_MQTT,
				Healthy: false,
			}
		})
		state.behavior.Become(state.WaitingHealthyReceive)
	case *actor.Restarting:
	default:
		state.logger.Debug("hadiscovery@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) WaitingHealthyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthResponse:
		state.logger.Debug("hadiscovery@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.healthyRecv++
		if msg.Healthy {
			switch msg.Id {
			case domain.ACTOR_ID_SYNC:
				state.syncActorHealthy = true
			case domain.ACTOR_ID_MQTT:
				state.mqttActorHealthy = true
			}
		}
		if state.healthyRecv == 2 {

			if state.syncActorHealthy && state.mqttActorHealthy {
				state.askSnapshot(ctx)
				state.behavior.Become(state.WaitingSnapshotReceive)
				state.stash.UnstashAll(ctx)
			} else {
				panic(errors.New("MQTT Actor or Sync Actor are not healthy"))
			}
		}
	default:
		state.logger.Debug("hadiscovery@healthcheck: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) askSnapshot(ctx actor.Context) {
	actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.syncActor, domain.GetSnapshotRequest{}, 2*time.Second), func(err error) any {
		return domain.GetSnapshotResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: err,
			},
		}
	})
}

func (state *HADiscoveryActor) Done(ctx actor.Context) {

}

func (state *HADiscoveryActor) WaitingSnapshotReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case snapshotRetry:
		state.askSnapshot(ctx)
	case domain.GetSnapshotResponse:
		if msg.HasResponseError() {
			panic(msg.GetResponseError())
		}
		if msg.Snapshot == nil || !msg.Snapshot.Online {
			// no complete poll cycle yet, ask again later
			state.logger.Debug("hadiscovery@snapshot: not ready, retrying")
			state.scheduler.RequestOnce(snapshotRetryInterval, ctx.Self(), snapshotRetry{})
			return
		}
		state.logger.Debug("hadiscovery@snapshot: GetSnapshotResponse", zap.String("model", msg.Snapshot.Info.Model))

		snap := msg.Snapshot

		var sensors []domain.GenericSensor
		var switches []domain.GenericSwitch
		var inputNumbers []domain.GenericInputNumber
		var selects []domain.GenericSelect
		var buttons []domain.GenericButton

		bridgeDevice := domain.BridgeDevice(state.config.MQTT.BaseTopic)
		bridgeSensors := domain.BridgeSensors(bridgeDevice)
		sensors = append(sensors, bridgeSensors...)

		streamerDevice := domain.StreamerDevice(&snap.Info)
		streamerDevice.ViaDevice = bridgeDevice.Id
		streamerSensors := domain.StreamerSensors(streamerDevice)
		for i := range streamerSensors {
			if i > 0 {
				streamerSensors[i].Device = domain.IdDevice(streamerDevice)
			}
			sensors = append(sensors, streamerSensors[i])
		}

		idDevice := domain.IdDevice(streamerDevice)
		switches = append(switches, domain.StreamerSwitches(idDevice)...)
		inputNumbers = append(inputNumbers, domain.StreamerInputNumbers(idDevice, snap.Capabilities)...)
		selects = append(selects, domain.StreamerSelects(idDevice, snap.Capabilities, snap)...)
		buttons = append(buttons, domain.StreamerButtons(idDevice)...)

		ctx.Send(state.mqttActor, domain.PublishDiscoveryRequest{
			Sensors:      sensors,
			Switches:     switches,
			InputNumbers: inputNumbers,
			Selects:      selects,
			Buttons:      buttons,
		})
		state.behavior.Become(state.Done)

	default:
		state.logger.Debug("hadiscovery@snapshot: default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}
