package actorutil

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/mmiyara/eversolo2mqtt/internal/core/domain"
	"github.com/mmiyara/eversolo2mqtt/internal/mqtt"
	"github.com/mmiyara/eversolo2mqtt/pkg/eversolo"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"
	"go.uber.org/zap"
)

func PipeToSelfWithRecover(ctx actor.Context, future *actor.Future, mapFn func(error) any) {
	ctx.ReenterAfter(future, func(msg any, err error) {
		if err != nil {
			ctx.Send(ctx.Self(), mapFn(err))
			return
		}
		ctx.Send(ctx.Self(), msg)
	})
}

func NewActorSystemWithZapLogger(logger *zap.Logger) *actor.ActorSystem {
	stdOutLogger := zap.NewStdLog(logger)

	var slogLevel slog.Level = slog.LevelInfo

	switch logger.Level() {
	case zap.DebugLevel:
		slogLevel = slog.LevelDebug
	case zap.InfoLevel:
		slogLevel = slog.LevelInfo
	case zap.WarnLevel:
		slogLevel = slog.LevelWarn
	case zap.ErrorLevel:
		slogLevel = slog.LevelError
	case zap.PanicLevel:
		slogLevel = slog.LevelError
	}

	return actor.NewActorSystem(actor.WithLoggerFactory(func(system *actor.ActorSystem) *slog.Logger {

		// create a new logger
		return slog.New(tint.NewHandler(stdOutLogger.Writer(), &tint.Options{
			Level:      slogLevel,
			TimeFormat: time.DateTime,
		}))
	}))
}

func ActorLogger(actorName string, logger *zap.Logger) *zap.Logger {
	return logger.With(zap.String("actor", actorName))
}

// ParsedMQTTCommandToCommand maps an MQTT command topic hit to a device
// control request. Returns (nil, nil) for topics that match no entity.
func ParsedMQTTCommandToCommand(cmd mqtt.ParsedMQTTCommand) (domain.ActorRequest, error) {
	switch cmd.Command {
	case mqtt.COMMAND_TYPE_SWITCH:
		switch cmd.DeviceId {
		case domain.SWITCH_ID_MUTE:
			return domain.SetMuteRequest{
				Mute: cmd.Payload == mqtt.MQTT_PAYLOAD_ON,
			}, nil
		case domain.SWITCH_ID_SCREEN:
			return domain.SetScreenRequest{
				On: cmd.Payload == mqtt.MQTT_PAYLOAD_ON,
			}, nil
		}
	case mqtt.COMMAND_TYPE_NUMBER:
		value, err := strconv.ParseFloat(cmd.Payload, 64)
		if err != nil {
			return nil, err
		}
		switch cmd.DeviceId {
		case domain.NUMBER_ID_VOLUME:
			return domain.SetVolumeRequest{Percent: int(value)}, nil
		case domain.NUMBER_ID_TRACK_POSITION:
			return domain.SeekRequest{Position: time.Duration(value) * time.Second}, nil
		case domain.NUMBER_ID_DISPLAY_BRIGHTNESS:
			return domain.SetDisplayBrightnessRequest{Level: int(value)}, nil
		case domain.NUMBER_ID_KNOB_BRIGHTNESS:
			return domain.SetKnobBrightnessRequest{Level: int(value)}, nil
		}
	case mqtt.COMMAND_TYPE_SELECT:
		switch cmd.DeviceId {
		case domain.SELECT_ID_INPUT:
			return domain.SelectInputRequest{Tag: cmd.Payload}, nil
		case domain.SELECT_ID_OUTPUT:
			return domain.SelectOutputRequest{Tag: cmd.Payload}, nil
		case domain.SELECT_ID_VU_MODE:
			return domain.SetVUModeRequest{Name: cmd.Payload}, nil
		case domain.SELECT_ID_SPECTRUM_MODE:
			return domain.SetSpectrumModeRequest{Name: cmd.Payload}, nil
		}
	case mqtt.COMMAND_TYPE_BUTTON:
		switch cmd.DeviceId {
		case domain.BUTTON_ID_PLAY_PAUSE:
			return domain.PlayPauseRequest{}, nil
		case domain.BUTTON_ID_NEXT_TRACK:
			return domain.NextTrackRequest{}, nil
		case domain.BUTTON_ID_PREVIOUS_TRACK:
			return domain.PreviousTrackRequest{}, nil
		case domain.BUTTON_ID_POWER_ON:
			return domain.PowerOnRequest{}, nil
		case domain.BUTTON_ID_POWER_OFF:
			return domain.PowerOffRequest{}, nil
		case domain.BUTTON_ID_REBOOT:
			return domain.RebootRequest{}, nil
		case domain.BUTTON_ID_VU_CYCLE:
			return domain.CycleVUDisplayRequest{}, nil
		case domain.BUTTON_ID_VOLUME_UP:
			return domain.SendKeyRequest{Key: eversolo.KeyVolumeUp}, nil
		case domain.BUTTON_ID_VOLUME_DOWN:
			return domain.SendKeyRequest{Key: eversolo.KeyVolumeDown}, nil
		}
	}
	return nil, nil
}
