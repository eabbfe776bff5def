package eversolo

import (
	"context"
	"errors"
	"sync"
	"time"
)

// TestClient is a scripted in-memory device used by actor and sync
// tests. It records every call so tests can assert that guarded
// commands never reach the network.
type TestClient struct {
	mu sync.Mutex

	Info   DeviceInfo
	State  PlayerState
	InOut  InputOutputList
	VUList []DisplayMode
	SpList []DisplayMode

	DisplayLevel int
	KnobLevel    int

	// FailFetches makes the next N state/list fetches fail with a
	// ConnectionError.
	FailFetches int
	// ConnectErr, when set, fails GetModelInfo.
	ConnectErr error

	Calls []string
}

func NewTestClient(model string) *TestClient {
	return &TestClient{
		Info: DeviceInfo{
			Model:           model,
			DeviceName:      "Living Room",
			FirmwareVersion: "1.2.86",
			NetMAC:          "aa:bb:cc:dd:ee:ff",
		},
		State: PlayerState{
			State:     PlaybackPlaying,
			Volume:    35,
			MaxVolume: 200,
			RawVolume: 70,
			Track: &Track{
				Title:    "So What",
				Artist:   "Miles Davis",
				Album:    "Kind of Blue",
				Duration: 545 * time.Second,
				Position: 61 * time.Second,
			},
		},
		InOut: InputOutputList{
			Inputs: []InputEntry{
				{Name: "Internal Player", Tag: "INTERNALPLAYER"},
				{Name: "USB-C", Tag: "USB"},
				{Name: "Optical", Tag: "OPT"},
			},
			Outputs: []OutputEntry{
				{Name: "RCA", Tag: OutputRCA, Enabled: true, Encoding: EncodingBool},
				{Name: "XLR", Tag: OutputXLR, Enabled: true, Encoding: EncodingInt},
				{Name: "USB DAC", Tag: OutputUSB, Enabled: false, Encoding: EncodingInt},
				{Name: "HDMI", Tag: OutputHDMI, Enabled: true, Encoding: EncodingBool},
			},
			InputIndex:  0,
			OutputIndex: 0,
		},
		VUList: []DisplayMode{
			{Name: "Classic", Index: 0, Selected: true},
			{Name: "Modern", Index: 1},
		},
		SpList: []DisplayMode{
			{Name: "Bars", Index: 0, Selected: true},
			{Name: "Wave", Index: 1},
		},
		DisplayLevel: 80,
		KnobLevel:    200,
	}
}

func (c *TestClient) record(call string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, call)
}

// CallLog returns a copy of the recorded calls.
func (c *TestClient) CallLog() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.Calls))
	copy(out, c.Calls)
	return out
}

func (c *TestClient) failFetch() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailFetches > 0 {
		c.FailFetches--
		return true
	}
	return false
}

func (c *TestClient) GetModelInfo(ctx context.Context) (*DeviceInfo, error) {
	c.record("GetModelInfo")
	if c.ConnectErr != nil {
		return nil, c.ConnectErr
	}
	info := c.Info
	return &info, nil
}

func (c *TestClient) GetState(ctx context.Context) (*PlayerState, error) {
	c.record("GetState")
	if c.failFetch() {
		return nil, &ConnectionError{Endpoint: pathGetState, Err: errors.New("scripted failure")}
	}
	st := c.State
	if c.State.Track != nil {
		track := *c.State.Track
		st.Track = &track
	}
	return &st, nil
}

func (c *TestClient) GetInputOutputList(ctx context.Context) (*InputOutputList, error) {
	c.record("GetInputOutputList")
	if c.failFetch() {
		return nil, &ConnectionError{Endpoint: pathGetInputOutputList, Err: errors.New("scripted failure")}
	}
	list := c.InOut
	list.Inputs = append([]InputEntry(nil), c.InOut.Inputs...)
	list.Outputs = append([]OutputEntry(nil), c.InOut.Outputs...)
	return &list, nil
}

func (c *TestClient) SelectInput(ctx context.Context, tag string, index int) error {
	c.record("SelectInput:" + tag)
	return nil
}

func (c *TestClient) SelectOutput(ctx context.Context, tag string, index int) error {
	c.record("SelectOutput:" + tag)
	return nil
}

func (c *TestClient) SetVolume(ctx context.Context, deviceVolume int) error {
	c.record("SetVolume")
	c.mu.Lock()
	defer c.mu.Unlock()
	c.State.RawVolume = deviceVolume
	if c.State.MaxVolume > 0 {
		c.State.Volume = clampPercent(deviceVolume * 100 / c.State.MaxVolume)
	}
	return nil
}

func (c *TestClient) SetMute(ctx context.Context, mute bool) error {
	c.record("SetMute")
	c.mu.Lock()
	defer c.mu.Unlock()
	c.State.Muted = mute
	return nil
}

func (c *TestClient) PlayPause(ctx context.Context) error {
	c.record("PlayPause")
	return nil
}

func (c *TestClient) Next(ctx context.Context) error {
	c.record("Next")
	return nil
}

func (c *TestClient) Previous(ctx context.Context) error {
	c.record("Previous")
	return nil
}

func (c *TestClient) Seek(ctx context.Context, position time.Duration) error {
	c.record("Seek")
	return nil
}

func (c *TestClient) PowerOff(ctx context.Context) error {
	c.record("PowerOff")
	return nil
}

func (c *TestClient) Reboot(ctx context.Context) error {
	c.record("Reboot")
	return nil
}

func (c *TestClient) DisplayBrightness(ctx context.Context) (int, error) {
	c.record("DisplayBrightness")
	return c.DisplayLevel, nil
}

func (c *TestClient) SetDisplayBrightness(ctx context.Context, level int) error {
	c.record("SetDisplayBrightness")
	c.mu.Lock()
	defer c.mu.Unlock()
	c.DisplayLevel = level
	return nil
}

func (c *TestClient) KnobBrightness(ctx context.Context) (int, error) {
	c.record("KnobBrightness")
	return c.KnobLevel, nil
}

func (c *TestClient) SetKnobBrightness(ctx context.Context, level int) error {
	c.record("SetKnobBrightness")
	c.mu.Lock()
	defer c.mu.Unlock()
	c.KnobLevel = level
	return nil
}

func (c *TestClient) VUModes(ctx context.Context) ([]DisplayMode, error) {
	c.record("VUModes")
	return append([]DisplayMode(nil), c.VUList...), nil
}

func (c *TestClient) SetVUMode(ctx context.Context, index int) error {
	c.record("SetVUMode")
	return nil
}

func (c *TestClient) SpectrumModes(ctx context.Context) ([]DisplayMode, error) {
	c.record("SpectrumModes")
	return append([]DisplayMode(nil), c.SpList...), nil
}

func (c *TestClient) SetSpectrumMode(ctx context.Context, index int) error {
	c.record("SetSpectrumMode")
	return nil
}

func (c *TestClient) CycleVUDisplay(ctx context.Context, spectrum bool) error {
	c.record("CycleVUDisplay")
	return nil
}

func (c *TestClient) SendKey(ctx context.Context, key string) error {
	c.record("SendKey:" + key)
	return nil
}

var _ Client = (*TestClient)(nil)
