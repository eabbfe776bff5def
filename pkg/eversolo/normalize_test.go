package eversolo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const sampleState = `{
	"state": 3,
	"playType": 5,
	"duration": 545000,
	"position": 61000,
	"volumeData": {"currenttVolume": 100, "maxVolume": 200, "isMute": 0},
	"playingMusic": {"title": "So What", "artist": "Miles Davis", "album": "Kind of Blue"},
	"deviceInfo": {"net_mac": "aa:bb:cc:dd:ee:ff"}
}`

func TestNormalizeStateVendorVolumeSpelling(t *testing.T) {

	assert := assert.New(t)

	state, err := NormalizeState([]byte(sampleState), zap.NewNop())
	if err != nil {
		t.Error(err)
		return
	}

	assert.Equal(PlaybackPlaying, state.State, "playback state")
	assert.Equal(50, state.Volume, "volume normalized to percent")
	assert.Equal(100, state.RawVolume, "device-scale volume")
	assert.Equal("currenttVolume", state.VolumeField, "observed field spelling")
	assert.False(state.Muted, "mute flag")
	assert.Equal(EncodingInt, state.MuteEncoding, "mute encoding")
	assert.Equal("aa:bb:cc:dd:ee:ff", state.NetMAC, "mac capture")
}

func TestNormalizeStateCorrectedVolumeSpelling(t *testing.T) {

	assert := assert.New(t)

	payload := `{"state": 4, "volumeData": {"currentVolume": 25, "maxVolume": 100, "isMute": true}}`
	state, err := NormalizeState([]byte(payload), zap.NewNop())
	if err != nil {
		t.Error(err)
		return
	}

	assert.Equal(PlaybackPaused, state.State)
	assert.Equal(25, state.Volume)
	assert.Equal("currentVolume", state.VolumeField)
	assert.True(state.Muted)
	assert.Equal(EncodingBool, state.MuteEncoding)
}

func TestNormalizeStateNoVolumeField(t *testing.T) {

	payload := `{"state": 0, "volumeData": {"maxVolume": 100}}`
	_, err := NormalizeState([]byte(payload), zap.NewNop())

	assert.Error(t, err)
	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
	assert.Equal(t, "currenttVolume", malformed.Field, "error names the field")
}

func TestNormalizeStateMissingVolumeData(t *testing.T) {

	_, err := NormalizeState([]byte(`{"state": 0}`), zap.NewNop())

	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
	assert.Equal(t, "volumeData", malformed.Field)
}

func TestNormalizeStateNoMedia(t *testing.T) {

	assert := assert.New(t)

	// no playType at all
	payload := `{"state": 0, "volumeData": {"currenttVolume": 0, "maxVolume": 100, "isMute": false}}`
	state, err := NormalizeState([]byte(payload), zap.NewNop())
	if err != nil {
		t.Error(err)
		return
	}
	assert.Nil(state.Track, "absent metadata must be nil, not zero values")

	// metadata block present but empty
	payload = `{"state": 4, "playType": 5, "playingMusic": {},
		"volumeData": {"currenttVolume": 0, "maxVolume": 100, "isMute": false}}`
	state, err = NormalizeState([]byte(payload), zap.NewNop())
	if err != nil {
		t.Error(err)
		return
	}
	assert.Nil(state.Track, "empty metadata is still no media")
}

func TestNormalizeStateIdempotent(t *testing.T) {

	first, err := NormalizeState([]byte(sampleState), zap.NewNop())
	if err != nil {
		t.Error(err)
		return
	}
	second, err := NormalizeState([]byte(sampleState), zap.NewNop())
	if err != nil {
		t.Error(err)
		return
	}

	assert.Equal(t, first, second, "same payload normalizes identically")
}

func TestNormalizeOutputEnableParity(t *testing.T) {

	assert := assert.New(t)

	payload := `{
		"inputData": [{"name": "USB-C", "tag": "USB"}],
		"outputData": [
			{"name": "RCA", "tag": "RCA", "enable": true},
			{"name": "XLR", "tag": "XLR", "enable": 1},
			{"name": "OPT/COAX", "tag": "SPDIF", "enable": false},
			{"name": "USB DAC", "tag": "USB/DAC", "enable": 0},
			{"name": "HDMI", "tag": "HDMI", "enable": "x"}
		],
		"inputIndex": 0,
		"outputIndex": 1
	}`

	core, observed := observer.New(zap.WarnLevel)
	list, err := NormalizeInputOutput([]byte(payload), zap.New(core))
	if err != nil {
		t.Error(err)
		return
	}

	assert.Len(list.Outputs, 5)
	assert.True(list.Outputs[0].Enabled, "bool true")
	assert.Equal(EncodingBool, list.Outputs[0].Encoding)
	assert.True(list.Outputs[1].Enabled, "int 1")
	assert.Equal(EncodingInt, list.Outputs[1].Encoding)
	assert.False(list.Outputs[2].Enabled, "bool false")
	assert.False(list.Outputs[3].Enabled, "int 0")
	assert.Equal("USBDAC", list.Outputs[3].Tag, "tag separator stripped")
	assert.False(list.Outputs[4].Enabled, "invalid value treated as disabled")
	assert.Equal(EncodingInvalid, list.Outputs[4].Encoding)

	assert.Equal(1, observed.Len(), "exactly one warning for the invalid encoding")

	assert.Equal("USB", list.CurrentInputTag())
	assert.Equal("XLR", list.CurrentOutputTag())
	assert.Equal([]string{"RCA", "XLR"}, list.EnabledOutputTags())
}

func TestNormalizeOutputListRoundTrip(t *testing.T) {

	payload := `{
		"outputData": [
			{"name": "RCA", "tag": "RCA", "enable": 1},
			{"name": "XLR", "tag": "XLR", "enable": true},
			{"name": "USB DAC", "tag": "USB", "enable": 0}
		]
	}`
	list, err := NormalizeInputOutput([]byte(payload), zap.NewNop())
	if err != nil {
		t.Error(err)
		return
	}

	encoded, err := json.Marshal(list.Outputs)
	if err != nil {
		t.Error(err)
		return
	}
	var decoded []OutputEntry
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Error(err)
		return
	}

	var want, got []string
	for _, o := range list.Outputs {
		if o.Enabled {
			want = append(want, o.Tag)
		}
	}
	for _, o := range decoded {
		if o.Enabled {
			got = append(got, o.Tag)
		}
	}
	assert.Equal(t, want, got, "enabled tag set survives a round trip")
}

func TestNormalizeOutputListMissingOutputs(t *testing.T) {

	_, err := NormalizeInputOutput([]byte(`{"inputData": []}`), zap.NewNop())

	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
	assert.Equal(t, "outputData", malformed.Field)
}

func TestNormalizeOutOfRangeIndexes(t *testing.T) {

	payload := `{
		"outputData": [{"name": "RCA", "tag": "RCA", "enable": 1}],
		"inputIndex": 7,
		"outputIndex": -1
	}`
	list, err := NormalizeInputOutput([]byte(payload), zap.NewNop())
	if err != nil {
		t.Error(err)
		return
	}

	assert.Equal(t, TagUnknown, list.CurrentInputTag())
	assert.Equal(t, TagUnknown, list.CurrentOutputTag())
}

func TestNormalizeModelInfo(t *testing.T) {

	assert := assert.New(t)

	info, err := NormalizeModelInfo([]byte(`{"model": "DMP-A6", "deviceName": "Office", "firmware": "1.2.86", "net_mac": "aa:bb:cc:dd:ee:ff"}`))
	if err != nil {
		t.Error(err)
		return
	}
	assert.Equal("DMP-A6", info.Model)
	assert.Equal("Office", info.DeviceName)

	_, err = NormalizeModelInfo([]byte(`{"deviceName": "Office"}`))
	var malformed *MalformedResponseError
	assert.ErrorAs(err, &malformed)
	assert.Equal("model", malformed.Field)
}
