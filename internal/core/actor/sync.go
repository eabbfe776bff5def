package actor

import (
	"errors"
	"fmt"
	"time"

	"github.com/mmiyara/eversolo2mqtt/internal/config"
	"github.com/mmiyara/eversolo2mqtt/internal/core/domain"
	"github.com/mmiyara/eversolo2mqtt/internal/core/service"
	. "github.com/mmiyara/eversolo2mqtt/internal/util/actorutil"
	"github.com/mmiyara/eversolo2mqtt/pkg/eversolo"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

const (
	// device requests ride on a slow HTTP API, so futures must outlive
	// the device actor's own task timeout
	syncRequestTimeout = 65 * time.Second

	// brightness and display mode lists change rarely
	displayRefreshTicks = 5
)

// SyncActor runs the poll loop against the device actor and owns the
// snapshot store. Every poll cycle fetches playback state and the
// input/output lists; a cycle only commits when all fetches succeed.
type SyncActor struct {
	behavior  actor.Behavior
	stash     *Stash
	scheduler *scheduler.TimerScheduler

	deviceActor *actor.PID
	config      *config.Config
	eventStream *eventstream.EventStream
	store       *domain.SnapshotStore

	info         *eversolo.DeviceInfo
	capabilities eversolo.Capabilities
	display      domain.DisplayState
	displayAge   uint
	failures     uint
	cycle        pollCycle

	logger *zap.Logger
}

type syncTick struct {
}

type pollCycle struct {
	state    *eversolo.PlayerState
	io       *eversolo.InputOutputList
	received int
	expected int
	failed   bool
}

type controlDone struct {
	cmd      domain.DeviceControlRequest
	replyTo  *actor.PID
	response domain.DeviceControlResponse
}

func NewSyncActor(config *config.Config, deviceActor *actor.PID, eventStream *eventstream.EventStream,
	store *domain.SnapshotStore, logger *zap.Logger) *SyncActor {
	act := &SyncActor{
		config:      config,
		deviceActor: deviceActor,
		behavior:    actor.NewBehavior(),
		stash:       &Stash{},
		logger:      ActorLogger(domain.ACTOR_ID_SYNC, logger),
		eventStream: eventStream,
		store:       store,
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *SyncActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *SyncActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("sync@starting started")

		state.scheduler = scheduler.NewTimerScheduler(ctx)
		state.requestDeviceInfo(ctx)
	case *actor.Restarting:
	default:
		state.logger.Debug("sync@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *SyncActor) requestDeviceInfo(ctx actor.Context) {
	PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.deviceActor, domain.GetDeviceInfoRequest{}, syncRequestTimeout), func(err error) any {
		return domain.GetDeviceInfoResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: err,
			},
		}
	})
	state.behavior.Become(state.WaitingInfoReceive)
}

func (state *SyncActor) WaitingInfoReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetDeviceInfoResponse:
		if msg.HasResponseError() {
			state.logger.Warn("sync@waitingInfo GetDeviceInfoResponse", zap.Error(msg.GetResponseError()))
			state.registerFailure()
			state.scheduleNextTick(ctx)
			state.behavior.Become(state.DefaultReceive)
			state.stash.UnstashAll(ctx)
			return
		}
		state.logger.Debug("sync@waitingInfo GetDeviceInfoResponse",
			zap.String("model", msg.Info.Model), zap.String("name", msg.Info.DeviceName))
		state.info = msg.Info
		state.capabilities = *msg.Capabilities
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
		// first poll cycle right away, the next ones on the timer
		ctx.Send(ctx.Self(), syncTick{})
	default:
		state.logger.Debug("sync@waitingInfo: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *SyncActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("sync@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_SYNC,
			Healthy: true,
			State:   state.healthState(),
		})
	case domain.GetSnapshotRequest:
		ctx.Respond(domain.GetSnapshotResponse{
			Snapshot: state.store.Load(),
		})
	case syncTick:
		state.logger.Debug("sync@default tick")
		if state.info == nil {
			// info fetch failed on boot, try again before polling
			state.requestDeviceInfo(ctx)
			return
		}
		state.startPollCycle(ctx)
		state.scheduleNextTick(ctx)
		state.behavior.BecomeStacked(state.WaitingPollReceive)
	case domain.DeviceControlRequest:
		state.logger.Debug("sync@default control", zap.String("type", fmt.Sprintf("%T", msg)))
		state.handleControl(ctx, msg)
	case controlDone:
		if msg.replyTo != nil {
			ctx.Send(msg.replyTo, msg.response)
		}
		if msg.response.HasResponseError() {
			state.logger.Error("sync@default control failed",
				zap.String("command", fmt.Sprintf("%T", msg.cmd)), zap.Error(msg.response.GetResponseError()))
		} else {
			state.applyOptimistic(msg.cmd)
		}
	default:
		state.logger.Debug("sync@default: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *SyncActor) startPollCycle(ctx actor.Context) {
	state.cycle = pollCycle{expected: 2}

	PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.deviceActor, domain.FetchStateRequest{}, syncRequestTimeout), func(err error) any {
		return domain.FetchStateResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: err,
			},
		}
	})
	PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.deviceActor, domain.FetchInputOutputRequest{}, syncRequestTimeout), func(err error) any {
		return domain.FetchInputOutputResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: err,
			},
		}
	})
	if state.displayAge == 0 {
		state.cycle.expected++
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.deviceActor, domain.FetchDisplayStateRequest{}, syncRequestTimeout), func(err error) any {
			return domain.FetchDisplayStateResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
	}
	state.displayAge = (state.displayAge + 1) % displayRefreshTicks
}

func (state *SyncActor) WaitingPollReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.FetchStateResponse:
		if msg.HasResponseError() {
			state.logger.Debug("sync@polling FetchStateResponse error", zap.Error(msg.GetResponseError()))
			state.cycle.failed = true
		} else {
			state.cycle.state = msg.State
		}
		state.pollPieceReceived(ctx)
	case domain.FetchInputOutputResponse:
		if msg.HasResponseError() {
			state.logger.Debug("sync@polling FetchInputOutputResponse error", zap.Error(msg.GetResponseError()))
			state.cycle.failed = true
		} else {
			state.cycle.io = msg.List
		}
		state.pollPieceReceived(ctx)
	case domain.FetchDisplayStateResponse:
		if msg.HasResponseError() {
			state.logger.Debug("sync@polling FetchDisplayStateResponse error", zap.Error(msg.GetResponseError()))
			state.cycle.failed = true
		} else {
			state.display = *msg.Display
		}
		state.pollPieceReceived(ctx)
	default:
		state.logger.Debug("sync@polling: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *SyncActor) pollPieceReceived(ctx actor.Context) {
	state.cycle.received++
	if state.cycle.received < state.cycle.expected {
		return
	}
	if state.cycle.failed {
		state.registerFailure()
	} else {
		state.failures = 0
		state.commitSnapshot(ctx)
	}
	state.behavior.UnbecomeStacked()
	state.stash.UnstashAll(ctx)
}

// registerFailure counts a failed poll cycle and flips the snapshot to
// offline once the configured threshold is crossed. Below-threshold
// failures are treated as transient and stay quiet.
func (state *SyncActor) registerFailure() {
	state.failures++
	maxFailures := state.config.Device.MaxPollFailures
	if maxFailures == 0 {
		maxFailures = 1
	}
	if state.failures < maxFailures {
		state.logger.Debug("sync: poll cycle failed", zap.Uint("failures", state.failures))
		return
	}
	prev := state.store.Load()
	if prev != nil && !prev.Online {
		return
	}
	snap := &domain.DeviceSnapshot{}
	if prev != nil {
		*snap = *prev
	} else if state.info != nil {
		snap.Info = *state.info
		snap.Capabilities = state.capabilities
	}
	snap.Online = false
	snap.UpdatedAt = time.Now()
	state.store.Publish(snap)

	state.logger.Error("sync: device offline", zap.Uint("failures", state.failures))
	state.eventStream.Publish(domain.DeviceUpdatedEvent{})
	state.eventStream.Publish(domain.BinarySensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: domain.SENSOR_ID_DEVICE_STATE},
		Value:                  false,
	})
}

func (state *SyncActor) commitSnapshot(ctx actor.Context) {
	snap := &domain.DeviceSnapshot{
		Info:         *state.info,
		Capabilities: state.capabilities,
		Player:       *state.cycle.state,
		IO:           *state.cycle.io,
		Display:      state.display,
		Online:       true,
		UpdatedAt:    time.Now(),
	}
	state.store.Publish(snap)
	state.publishProjection(snap)
}

func (state *SyncActor) publishProjection(snap *domain.DeviceSnapshot) {
	state.eventStream.Publish(domain.DeviceUpdatedEvent{})
	for _, ev := range service.ProjectSnapshot(snap) {
		state.eventStream.Publish(ev)
	}
}

// handleControl validates a command against the current snapshot and,
// if it passes, forwards it to the device actor. Commands rejected by
// the guard never reach the device.
func (state *SyncActor) handleControl(ctx actor.Context, cmd domain.DeviceControlRequest) {
	replyTo := ctx.Sender()
	snap := state.store.Load()
	if snap == nil {
		if state.info == nil {
			state.rejectControl(ctx, cmd, replyTo, errors.New("device not connected yet"))
			return
		}
		// no snapshot committed yet, guard against the capability
		// descriptor alone
		snap = &domain.DeviceSnapshot{
			Info:         *state.info,
			Capabilities: state.capabilities,
		}
	}
	if err := service.GuardCommand(cmd, snap); err != nil {
		state.rejectControl(ctx, cmd, replyTo, err)
		return
	}
	ctx.ReenterAfter(ctx.RequestFuture(state.deviceActor, cmd, syncRequestTimeout), func(res any, err error) {
		response, ok := res.(domain.DeviceControlResponse)
		if err != nil {
			response = domain.DeviceControlResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		} else if !ok {
			response = domain.DeviceControlResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: fmt.Errorf("unexpected control response %T", res),
				},
			}
		}
		ctx.Send(ctx.Self(), controlDone{cmd: cmd, replyTo: replyTo, response: response})
	})
}

func (state *SyncActor) rejectControl(ctx actor.Context, cmd domain.DeviceControlRequest, replyTo *actor.PID, err error) {
	state.logger.Warn("sync: command rejected",
		zap.String("command", fmt.Sprintf("%T", cmd)), zap.Error(err))
	if replyTo != nil {
		ctx.Send(replyTo, domain.DeviceControlResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: err,
			},
		})
	}
}

// applyOptimistic folds an acknowledged command into a fresh snapshot
// so entity state reflects it before the next poll cycle lands.
func (state *SyncActor) applyOptimistic(cmd domain.DeviceControlRequest) {
	prev := state.store.Load()
	if prev == nil {
		return
	}
	snap := *prev
	switch c := cmd.(type) {
	case domain.SetVolumeRequest:
		percent := c.Percent
		if percent < 0 {
			percent = 0
		} else if percent > 100 {
			percent = 100
		}
		snap.Player.Volume = percent
	case domain.SetMuteRequest:
		snap.Player.Muted = c.Mute
	case domain.SelectInputRequest:
		index, ok := service.ResolveInputIndex(&snap.IO, c.Tag)
		if !ok {
			return
		}
		snap.IO.InputIndex = index
	case domain.SelectOutputRequest:
		index, ok := service.ResolveOutputIndex(&snap.IO, c.Tag)
		if !ok {
			return
		}
		snap.IO.OutputIndex = index
	case domain.SetDisplayBrightnessRequest:
		snap.Display.Brightness = c.Level
	case domain.SetKnobBrightnessRequest:
		snap.Display.KnobBrightness = c.Level
	case domain.SetVUModeRequest:
		snap.Display.VUModes = selectModeByName(snap.Display.VUModes, c.Name)
	case domain.SetSpectrumModeRequest:
		snap.Display.SpectrumModes = selectModeByName(snap.Display.SpectrumModes, c.Name)
	default:
		// playback and power commands wait for the next poll cycle
		return
	}
	snap.UpdatedAt = time.Now()
	state.store.Publish(&snap)
	state.display = snap.Display
	state.publishProjection(&snap)
}

// selectModeByName returns a copy of modes with only the named entry
// selected. Snapshots are immutable, so the slice is never mutated in
// place.
func selectModeByName(modes []eversolo.DisplayMode, name string) []eversolo.DisplayMode {
	out := make([]eversolo.DisplayMode, len(modes))
	for i, m := range modes {
		m.Selected = m.Name == name
		out[i] = m
	}
	return out
}

func (state *SyncActor) scheduleNextTick(ctx actor.Context) {
	interval := time.Duration(state.config.Device.PollIntervalMillis) * time.Millisecond
	if interval <= 0 {
		return
	}
	state.scheduler.RequestOnce(interval, ctx.Self(), syncTick{})
}

func (state *SyncActor) healthState() string {
	snap := state.store.Load()
	if snap == nil {
		return "starting"
	}
	if !snap.Online {
		return "offline"
	}
	return "idle"
}
