package eversolo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// Vendor HTTP API paths. The device exposes a Zidoo-derived control
// surface on port 9529.
const (
	pathGetState           = "/ZidooMusicControl/v2/getState"
	pathGetInputOutputList = "/ZidooMusicControl/v2/getInputAndOutputList"
	pathGetModel           = "/ZidooControlCenter/getModel"
	pathPlayOrPause        = "/ZidooMusicControl/v2/playOrPause"
	pathPlayNext           = "/ZidooMusicControl/v2/playNext"
	pathPlayLast           = "/ZidooMusicControl/v2/playLast"
	pathSeekTo             = "/ZidooMusicControl/v2/seekTo"
	pathSetVolume          = "/ZidooMusicControl/v2/setDevicesVolume"
	pathSetMute            = "/ZidooMusicControl/v2/setMuteVolume"
	pathSetInput           = "/ZidooMusicControl/v2/setInputList"
	pathSetOutput          = "/ZidooMusicControl/v2/setOutInputList"
	pathPowerOption        = "/ZidooMusicControl/v2/setPowerOption"
	pathCycleVUDisplay     = "/ZidooMusicControl/v2/changVUDisplay"

	pathGetScreenBrightness = "/SystemSettings/displaySettings/getScreenBrightness"
	pathSetScreenBrightness = "/SystemSettings/displaySettings/setScreenBrightness"
	pathGetKnobBrightness   = "/SystemSettings/displaySettings/getKnobBrightness"
	pathSetKnobBrightness   = "/SystemSettings/displaySettings/setKnobBrightness"
	pathGetVUModeList       = "/SystemSettings/displaySettings/getVUModeList"
	pathSetVUMode           = "/SystemSettings/displaySettings/setVUMode"
	pathGetSpectrumModes    = "/SystemSettings/displaySettings/getSpPlayModeList"
	pathSetSpectrumMode     = "/SystemSettings/displaySettings/setSpPlayModeList"
)

// The vendor documents two base paths for remote-key commands and it is
// unclear whether both are genuine. The path is configurable instead of
// hardcoding either assumption.
const (
	DefaultRemoteKeyPath = "/ZidooControlCenter/RemoteControl/sendkey"
	AltRemoteKeyPath     = "/ControlCenter/RemoteControl/sendkey"
)

// Remote key codes accepted by the sendkey endpoint.
const (
	KeyVolumeUp   = "Key.VolumeUp"
	KeyVolumeDown = "Key.VolumeDown"
	KeyScreenOn   = "Key.Screen.ON"
	KeyScreenOff  = "Key.Screen.OFF"
)

const DefaultPort = 9529

// Client is the device API consumed by the actors. Implementations
// must be safe for use from a single goroutine at a time.
type Client interface {
	// GetModelInfo probes the device for model id and hardware
	// metadata. Used once when establishing the connection.
	GetModelInfo(ctx context.Context) (*DeviceInfo, error)
	GetState(ctx context.Context) (*PlayerState, error)
	GetInputOutputList(ctx context.Context) (*InputOutputList, error)

	SelectInput(ctx context.Context, tag string, index int) error
	SelectOutput(ctx context.Context, tag string, index int) error
	SetVolume(ctx context.Context, deviceVolume int) error
	SetMute(ctx context.Context, mute bool) error
	PlayPause(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	Seek(ctx context.Context, position time.Duration) error
	PowerOff(ctx context.Context) error
	Reboot(ctx context.Context) error

	DisplayBrightness(ctx context.Context) (int, error)
	SetDisplayBrightness(ctx context.Context, level int) error
	KnobBrightness(ctx context.Context) (int, error)
	SetKnobBrightness(ctx context.Context, level int) error
	VUModes(ctx context.Context) ([]DisplayMode, error)
	SetVUMode(ctx context.Context, index int) error
	SpectrumModes(ctx context.Context) ([]DisplayMode, error)
	SetSpectrumMode(ctx context.Context, index int) error
	CycleVUDisplay(ctx context.Context, spectrum bool) error

	SendKey(ctx context.Context, key string) error
}

// HTTPClient talks to a real device. Eversolo units are slow to
// respond, so the underlying client retries with backoff and generous
// timeouts.
type HTTPClient struct {
	baseURL       string
	remoteKeyPath string
	http          *retryablehttp.Client
	logger        *zap.Logger
}

type HTTPClientOption func(*HTTPClient)

// WithRemoteKeyPath overrides the remote-key base path.
func WithRemoteKeyPath(path string) HTTPClientOption {
	return func(c *HTTPClient) {
		if path != "" {
			c.remoteKeyPath = path
		}
	}
}

func NewHTTPClient(host string, port uint, logger *zap.Logger, opts ...HTTPClientOption) *HTTPClient {
	if port == 0 {
		port = DefaultPort
	}
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil

	c := &HTTPClient{
		baseURL:       fmt.Sprintf("http://%s:%d", host, port),
		remoteKeyPath: DefaultRemoteKeyPath,
		http:          rc,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &ConnectionError{Endpoint: path, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ConnectionError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &ConnectionError{Endpoint: path, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{Endpoint: path, Err: err}
	}
	return body, nil
}

// fire issues a control request where only success/failure matters.
func (c *HTTPClient) fire(ctx context.Context, path string, query url.Values) error {
	_, err := c.get(ctx, path, query)
	return err
}

func (c *HTTPClient) GetModelInfo(ctx context.Context) (*DeviceInfo, error) {
	body, err := c.get(ctx, pathGetModel, nil)
	if err != nil {
		return nil, err
	}
	return NormalizeModelInfo(body)
}

func (c *HTTPClient) GetState(ctx context.Context) (*PlayerState, error) {
	body, err := c.get(ctx, pathGetState, nil)
	if err != nil {
		return nil, err
	}
	return NormalizeState(body, c.logger)
}

func (c *HTTPClient) GetInputOutputList(ctx context.Context) (*InputOutputList, error) {
	body, err := c.get(ctx, pathGetInputOutputList, nil)
	if err != nil {
		return nil, err
	}
	return NormalizeInputOutput(body, c.logger)
}

func (c *HTTPClient) SelectInput(ctx context.Context, tag string, index int) error {
	return c.fire(ctx, pathSetInput, url.Values{
		"tag":   {tag},
		"index": {fmt.Sprint(index)},
	})
}

func (c *HTTPClient) SelectOutput(ctx context.Context, tag string, index int) error {
	return c.fire(ctx, pathSetOutput, url.Values{
		"tag":   {tag},
		"index": {fmt.Sprint(index)},
	})
}

func (c *HTTPClient) SetVolume(ctx context.Context, deviceVolume int) error {
	return c.fire(ctx, pathSetVolume, url.Values{"volume": {fmt.Sprint(deviceVolume)}})
}

func (c *HTTPClient) SetMute(ctx context.Context, mute bool) error {
	v := "0"
	if mute {
		v = "1"
	}
	return c.fire(ctx, pathSetMute, url.Values{"isMute": {v}})
}

func (c *HTTPClient) PlayPause(ctx context.Context) error {
	return c.fire(ctx, pathPlayOrPause, nil)
}

func (c *HTTPClient) Next(ctx context.Context) error {
	return c.fire(ctx, pathPlayNext, nil)
}

func (c *HTTPClient) Previous(ctx context.Context) error {
	return c.fire(ctx, pathPlayLast, nil)
}

func (c *HTTPClient) Seek(ctx context.Context, position time.Duration) error {
	return c.fire(ctx, pathSeekTo, url.Values{"time": {fmt.Sprint(position.Milliseconds())}})
}

func (c *HTTPClient) PowerOff(ctx context.Context) error {
	return c.fire(ctx, pathPowerOption, url.Values{"tag": {"poweroff"}})
}

func (c *HTTPClient) Reboot(ctx context.Context) error {
	return c.fire(ctx, pathPowerOption, url.Values{"tag": {"reboot"}})
}

func (c *HTTPClient) DisplayBrightness(ctx context.Context) (int, error) {
	body, err := c.get(ctx, pathGetScreenBrightness, nil)
	if err != nil {
		return 0, err
	}
	return NormalizeBrightness(body)
}

func (c *HTTPClient) SetDisplayBrightness(ctx context.Context, level int) error {
	return c.fire(ctx, pathSetScreenBrightness, url.Values{"index": {fmt.Sprint(level)}})
}

func (c *HTTPClient) KnobBrightness(ctx context.Context) (int, error) {
	body, err := c.get(ctx, pathGetKnobBrightness, nil)
	if err != nil {
		return 0, err
	}
	return NormalizeBrightness(body)
}

func (c *HTTPClient) SetKnobBrightness(ctx context.Context, level int) error {
	return c.fire(ctx, pathSetKnobBrightness, url.Values{"index": {fmt.Sprint(level)}})
}

func (c *HTTPClient) VUModes(ctx context.Context) ([]DisplayMode, error) {
	body, err := c.get(ctx, pathGetVUModeList, nil)
	if err != nil {
		return nil, err
	}
	return NormalizeDisplayModes(body)
}

func (c *HTTPClient) SetVUMode(ctx context.Context, index int) error {
	return c.fire(ctx, pathSetVUMode, url.Values{"index": {fmt.Sprint(index)}})
}

func (c *HTTPClient) SpectrumModes(ctx context.Context) ([]DisplayMode, error) {
	body, err := c.get(ctx, pathGetSpectrumModes, nil)
	if err != nil {
		return nil, err
	}
	return NormalizeDisplayModes(body)
}

func (c *HTTPClient) SetSpectrumMode(ctx context.Context, index int) error {
	return c.fire(ctx, pathSetSpectrumMode, url.Values{"index": {fmt.Sprint(index)}})
}

func (c *HTTPClient) CycleVUDisplay(ctx context.Context, spectrum bool) error {
	v := "0"
	if spectrum {
		v = "1"
	}
	return c.fire(ctx, pathCycleVUDisplay, url.Values{"openType": {v}})
}

func (c *HTTPClient) SendKey(ctx context.Context, key string) error {
	return c.fire(ctx, c.remoteKeyPath, url.Values{"key": {key}})
}

var _ Client = (*HTTPClient)(nil)
