package actor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmiyara/eversolo2mqtt/internal/config"
	"github.com/mmiyara/eversolo2mqtt/internal/core/domain"
	"github.com/mmiyara/eversolo2mqtt/internal/core/service"
	"github.com/mmiyara/eversolo2mqtt/internal/util/actorutil"
	"github.com/mmiyara/eversolo2mqtt/pkg/eversolo"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/reugn/go-quartz/logger"
	"go.uber.org/zap"
)

const (
	DEVICE_ACTOR_ID = "device"

	// The streamer can take tens of seconds to answer while booting or
	// switching outputs, and the HTTP client retries on top of that.
	deviceTaskTimeout = 60 * time.Second
)

// DeviceActor owns all traffic to one Eversolo unit. Requests run as
// background tasks while the actor stashes everything else, so the
// device never sees two concurrent commands.
type DeviceActor struct {
	behavior actor.Behavior
	stash    *actorutil.Stash
	client   eversolo.Client
	cfg      config.DeviceConfig
	logger   *zap.Logger

	info *eversolo.DeviceInfo
	caps eversolo.Capabilities
	// macAddress is the WoL target: the config override, or the MAC
	// captured from the device at connect time.
	macAddress string
	lastState  *eversolo.PlayerState
	lastIO     *eversolo.InputOutputList
	lastModes  domain.DisplayState
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

func NewDeviceActor(client eversolo.Client, cfg config.DeviceConfig, logger *zap.Logger) *DeviceActor {
	act := &DeviceActor{
		client:     client,
		cfg:        cfg,
		behavior:   actor.NewBehavior(),
		stash:      &actorutil.Stash{},
		logger:     actorutil.ActorLogger("device", logger),
		caps:       eversolo.DefaultCapabilities(),
		macAddress: cfg.MACAddress,
	}
	act.behavior.Become(act.DefaultReceive)
	return act
}

func (state *DeviceActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *DeviceActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("device@default started")
	case domain.ActorHealthRequest:
		state.logger.Debug("device@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      DEVICE_ACTOR_ID,
			Healthy: true,
			State:   "idle",
		})
	case domain.GetDeviceInfoRequest:
		state.logger.Debug("device@default: GetDeviceInfoRequest")
		runDeviceTask(state, ctx, actorutil.ForRequest(msg).ReplyTo(ctx), state.getDeviceInfo,
			func(err error) any {
				return domain.GetDeviceInfoResponse{ActorResponseMixIn: errMixIn(err)}
			})
	case domain.FetchStateRequest:
		state.logger.Debug("device@default: FetchStateRequest")
		runDeviceTask(state, ctx, actorutil.ForRequest(msg).ReplyTo(ctx), state.fetchState,
			func(err error) any {
				return domain.FetchStateResponse{ActorResponseMixIn: errMixIn(err)}
			})
	case domain.FetchInputOutputRequest:
		state.logger.Debug("device@default: FetchInputOutputRequest")
		runDeviceTask(state, ctx, actorutil.ForRequest(msg).ReplyTo(ctx), state.fetchInputOutput,
			func(err error) any {
				return domain.FetchInputOutputResponse{ActorResponseMixIn: errMixIn(err)}
			})
	case domain.FetchDisplayStateRequest:
		state.logger.Debug("device@default: FetchDisplayStateRequest")
		runDeviceTask(state, ctx, actorutil.ForRequest(msg).ReplyTo(ctx), state.fetchDisplayState,
			func(err error) any {
				return domain.FetchDisplayStateResponse{ActorResponseMixIn: errMixIn(err)}
			})
	case domain.DeviceControlRequest:
		state.logger.Debug("device@default: control", zap.String("type", fmt.Sprintf("%T", msg)))
		runDeviceTask(state, ctx, actorutil.ForRequest(msg).ReplyTo(ctx), func() (*domain.DeviceControlResponse, error) {
			return state.control(msg)
		}, func(err error) any {
			return domain.DeviceControlResponse{ActorResponseMixIn: errMixIn(err)}
		})
	default:
		state.logger.Debug("device@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *DeviceActor) WaitingDevice(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("device@waiting backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		state.absorbResult(msg.message)
		ctx.Send(msg.replyTo, msg.message)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("device@waiting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

// runDeviceTask executes fn off the actor goroutine and pipes the
// result back through WaitingDevice. Incoming messages are stashed
// until the result arrives.
func runDeviceTask[T any](state *DeviceActor, ctx actor.Context, sender *actor.PID, fn func() (*T, error), recover func(error) any) {
	actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, fn),
		mapTaskResult[T](sender)).Recover(func(err error) backgroundTaskResult {
		return backgroundTaskResult{
			message: recover(err),
			replyTo: sender,
		}
	}).WithTimeout(deviceTaskTimeout).PipeTo(ctx.Self())
	state.behavior.BecomeStacked(state.WaitingDevice)
}

// absorbResult keeps the actor's view of the device fresh so control
// requests can resolve tags and scales without an extra round trip.
func (state *DeviceActor) absorbResult(message any) {
	switch r := message.(type) {
	case domain.GetDeviceInfoResponse:
		if !r.HasResponseError() {
			state.info = r.Info
			state.caps = *r.Capabilities
			if state.cfg.MACAddress == "" && r.Info.NetMAC != "" {
				state.macAddress = r.Info.NetMAC
			}
		}
	case domain.FetchStateResponse:
		if !r.HasResponseError() {
			state.lastState = r.State
		}
	case domain.FetchInputOutputResponse:
		if !r.HasResponseError() {
			state.lastIO = r.List
		}
	case domain.FetchDisplayStateResponse:
		if !r.HasResponseError() {
			state.lastModes = *r.Display
		}
	}
}

func (a *DeviceActor) getDeviceInfo() (*domain.GetDeviceInfoResponse, error) {
	info, err := a.client.GetModelInfo(context.Background())
	if err != nil {
		logger.Error(err)
		return nil, err
	}
	model := a.cfg.Model
	if model == "" {
		model = info.Model
	}
	caps, err := eversolo.CapabilitiesFor(model)
	if err != nil {
		var unknown *eversolo.UnknownModelError
		if !errors.As(err, &unknown) {
			return nil, err
		}
		a.logger.Warn("unknown model, using default capabilities", zap.String("model", model))
		caps = eversolo.DefaultCapabilities()
	}
	return &domain.GetDeviceInfoResponse{
		Info:         info,
		Capabilities: &caps,
	}, nil
}

func (a *DeviceActor) fetchState() (*domain.FetchStateResponse, error) {
	st, err := a.client.GetState(context.Background())
	if err != nil {
		logger.Error(err)
		return nil, err
	}
	return &domain.FetchStateResponse{State: st}, nil
}

func (a *DeviceActor) fetchInputOutput() (*domain.FetchInputOutputResponse, error) {
	list, err := a.client.GetInputOutputList(context.Background())
	if err != nil {
		logger.Error(err)
		return nil, err
	}
	return &domain.FetchInputOutputResponse{List: list}, nil
}

func (a *DeviceActor) fetchDisplayState() (*domain.FetchDisplayStateResponse, error) {
	bg := context.Background()
	display := domain.DisplayState{}

	brightness, err := a.client.DisplayBrightness(bg)
	if err != nil {
		logger.Error(err)
		return nil, err
	}
	display.Brightness = brightness

	if a.caps.HasKnob {
		knob, err := a.client.KnobBrightness(bg)
		if err != nil {
			logger.Error(err)
			return nil, err
		}
		display.KnobBrightness = knob
	}

	vu, err := a.client.VUModes(bg)
	if err != nil {
		logger.Error(err)
		return nil, err
	}
	display.VUModes = vu

	spectrum, err := a.client.SpectrumModes(bg)
	if err != nil {
		logger.Error(err)
		return nil, err
	}
	display.SpectrumModes = spectrum

	return &domain.FetchDisplayStateResponse{Display: &display}, nil
}

func (a *DeviceActor) control(cmd domain.DeviceControlRequest) (*domain.DeviceControlResponse, error) {
	bg := context.Background()
	var err error
	switch c := cmd.(type) {
	case domain.PlayPauseRequest:
		err = a.client.PlayPause(bg)
	case domain.NextTrackRequest:
		err = a.client.Next(bg)
	case domain.PreviousTrackRequest:
		err = a.client.Previous(bg)
	case domain.SeekRequest:
		err = a.client.Seek(bg, c.Position)
	case domain.SetVolumeRequest:
		maxVolume := 100
		if a.lastState != nil {
			maxVolume = a.lastState.MaxVolume
		}
		err = a.client.SetVolume(bg, service.PercentToDeviceVolume(c.Percent, maxVolume))
	case domain.SetMuteRequest:
		err = a.client.SetMute(bg, c.Mute)
	case domain.SelectInputRequest:
		err = a.selectInput(bg, c.Tag)
	case domain.SelectOutputRequest:
		err = a.selectOutput(bg, c.Tag)
	case domain.PowerOnRequest:
		err = a.powerOn()
	case domain.PowerOffRequest:
		err = a.client.PowerOff(bg)
	case domain.RebootRequest:
		err = a.client.Reboot(bg)
	case domain.SetDisplayBrightnessRequest:
		err = a.client.SetDisplayBrightness(bg, clampLevel(c.Level, a.caps.DisplayBrightnessMax))
	case domain.SetKnobBrightnessRequest:
		err = a.client.SetKnobBrightness(bg, clampLevel(c.Level, a.caps.KnobBrightnessMax))
	case domain.SetVUModeRequest:
		err = a.setDisplayMode(bg, a.lastModes.VUModes, c.Name, a.client.SetVUMode)
	case domain.SetSpectrumModeRequest:
		err = a.setDisplayMode(bg, a.lastModes.SpectrumModes, c.Name, a.client.SetSpectrumMode)
	case domain.CycleVUDisplayRequest:
		err = a.client.CycleVUDisplay(bg, false)
	case domain.SetScreenRequest:
		key := eversolo.KeyScreenOff
		if c.On {
			key = eversolo.KeyScreenOn
		}
		err = a.client.SendKey(bg, key)
	case domain.SendKeyRequest:
		err = a.client.SendKey(bg, c.Key)
	default:
		err = fmt.Errorf("unhandled control request %T", cmd)
	}
	if err != nil {
		logger.Error(err)
		return nil, err
	}
	return &domain.DeviceControlResponse{}, nil
}

func (a *DeviceActor) selectInput(ctx context.Context, tag string) error {
	if a.lastIO == nil {
		return errors.New("no input list fetched yet")
	}
	index, ok := service.ResolveInputIndex(a.lastIO, tag)
	if !ok {
		return fmt.Errorf("unknown input tag %q", tag)
	}
	return a.client.SelectInput(ctx, tag, index)
}

func (a *DeviceActor) selectOutput(ctx context.Context, tag string) error {
	if a.lastIO == nil {
		return errors.New("no output list fetched yet")
	}
	index, ok := service.ResolveOutputIndex(a.lastIO, tag)
	if !ok {
		return fmt.Errorf("unknown output tag %q", tag)
	}
	return a.client.SelectOutput(ctx, tag, index)
}

// powerOn wakes the device over the LAN. Once powered off the HTTP API
// is gone, so this is the only power-on path.
func (a *DeviceActor) powerOn() error {
	if a.macAddress == "" {
		return errors.New("no MAC address known for wake-on-lan")
	}
	return eversolo.WakeOnLAN(a.macAddress)
}

func (a *DeviceActor) setDisplayMode(ctx context.Context, modes []eversolo.DisplayMode, name string,
	set func(context.Context, int) error) error {
	index, ok := service.ModeIndexByName(modes, name)
	if !ok {
		return fmt.Errorf("unknown display mode %q", name)
	}
	return set(ctx, index)
}

func clampLevel(level, max int) int {
	if level < 0 {
		return 0
	}
	if max > 0 && level > max {
		return max
	}
	return level
}

func errMixIn(err error) domain.ActorResponseMixIn {
	return domain.ActorResponseMixIn{ResponseError: err}
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
