package eversolo

import (
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
)

// The vendor API is inconsistent across firmware versions: boolean
// fields arrive as true/false or 1/0 depending on build, and the
// current volume field is misspelled ("currenttVolume") on every known
// firmware while some builds also expose the corrected spelling. All
// of that is absorbed here so the rest of the system only sees
// canonical types.

// flexBool decodes bool, 0/1 integers, or anything else (invalid).
// Decoding never fails; invalid values normalize to false and the
// caller decides whether to log.
type flexBool struct {
	value    bool
	encoding BoolEncoding
	present  bool
}

func (b *flexBool) UnmarshalJSON(data []byte) error {
	b.present = true
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		b.value = v
		b.encoding = EncodingBool
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil && (n == 0 || n == 1) {
		b.value = n == 1
		b.encoding = EncodingInt
		return nil
	}
	b.value = false
	b.encoding = EncodingInvalid
	return nil
}

const (
	playStateIdle    = 0
	playStatePlaying = 3
	playStatePaused  = 4

	playTypeEverSolo    = 4
	playTypeLocal       = 5
	playTypeEverSoloAlt = 6
)

type rawVolumeData struct {
	// "currenttVolume" is the vendor's spelling. Some firmware also
	// ships the corrected field; accept either.
	CurrenttVolume *int     `json:"currenttVolume"`
	CurrentVolume  *int     `json:"currentVolume"`
	MaxVolume      *int     `json:"maxVolume"`
	IsMute         flexBool `json:"isMute"`
}

type rawPlayAudioInfo struct {
	SongName   string `json:"songName"`
	ArtistName string `json:"artistName"`
	AlbumName  string `json:"albumName"`
	AlbumURL   string `json:"albumUrl"`
}

type rawState struct {
	State            *int           `json:"state"`
	PlayType         *int           `json:"playType"`
	Duration         int64          `json:"duration"`
	Position         int64          `json:"position"`
	VolumeData       *rawVolumeData `json:"volumeData"`
	EverSoloPlayInfo struct {
		EverSoloPlayAudioInfo rawPlayAudioInfo `json:"everSoloPlayAudioInfo"`
	} `json:"everSoloPlayInfo"`
	PlayingMusic struct {
		Title  string `json:"title"`
		Artist string `json:"artist"`
		Album  string `json:"album"`
		Art    string `json:"albumArt"`
	} `json:"playingMusic"`
	DeviceInfo struct {
		NetMAC string `json:"net_mac"`
	} `json:"deviceInfo"`
}

type rawInputEntry struct {
	Name string `json:"name"`
	Tag  string `json:"tag"`
}

type rawOutputEntry struct {
	Name   string   `json:"name"`
	Tag    string   `json:"tag"`
	Enable flexBool `json:"enable"`
}

type rawInputOutputList struct {
	InputData   []rawInputEntry  `json:"inputData"`
	OutputData  []rawOutputEntry `json:"outputData"`
	InputIndex  *int             `json:"inputIndex"`
	OutputIndex *int             `json:"outputIndex"`
}

type rawModelInfo struct {
	Model       string `json:"model"`
	DeviceModel string `json:"deviceModel"`
	DeviceName  string `json:"deviceName"`
	Firmware    string `json:"firmware"`
	NetMAC      string `json:"net_mac"`
}

type rawDisplayModeList struct {
	CurrentIndex int `json:"currentIndex"`
	Data         []struct {
		Name string `json:"name"`
	} `json:"data"`
}

type rawBrightness struct {
	CurrentIndex *int `json:"currentIndex"`
}

// NormalizeState converts a raw getState payload into a canonical
// PlayerState or fails with MalformedResponseError naming the field.
func NormalizeState(payload []byte, logger *zap.Logger) (*PlayerState, error) {
	var raw rawState
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, &MalformedResponseError{Field: "getState", Reason: "is not a JSON object"}
	}
	if raw.State == nil {
		return nil, &MalformedResponseError{Field: "state", Reason: "is missing"}
	}
	if raw.VolumeData == nil {
		return nil, &MalformedResponseError{Field: "volumeData", Reason: "is missing"}
	}

	ps := &PlayerState{
		NetMAC: raw.DeviceInfo.NetMAC,
	}

	switch *raw.State {
	case playStateIdle:
		ps.State = PlaybackIdle
	case playStatePlaying:
		ps.State = PlaybackPlaying
	case playStatePaused:
		ps.State = PlaybackPaused
	default:
		ps.State = PlaybackUnknown
	}

	// Accept the vendor typo first, then the corrected spelling.
	// Silently defaulting to 0 would be indistinguishable from a real
	// muted-low volume, so neither present is an error.
	var current *int
	switch {
	case raw.VolumeData.CurrenttVolume != nil:
		current = raw.VolumeData.CurrenttVolume
		ps.VolumeField = "currenttVolume"
	case raw.VolumeData.CurrentVolume != nil:
		current = raw.VolumeData.CurrentVolume
		ps.VolumeField = "currentVolume"
	default:
		return nil, &MalformedResponseError{Field: "currenttVolume", Reason: "is missing (no known volume field spelling present)"}
	}

	maxVolume := 100
	if raw.VolumeData.MaxVolume != nil && *raw.VolumeData.MaxVolume > 0 {
		maxVolume = *raw.VolumeData.MaxVolume
	}
	ps.MaxVolume = maxVolume
	ps.RawVolume = *current
	ps.Volume = clampPercent(*current * 100 / maxVolume)

	if raw.VolumeData.IsMute.present {
		ps.Muted = raw.VolumeData.IsMute.value
		ps.MuteEncoding = raw.VolumeData.IsMute.encoding
		if ps.MuteEncoding == EncodingInvalid {
			logger.Warn("unexpected isMute encoding, treating as unmuted")
		}
	}

	ps.Track = normalizeTrack(&raw)

	return ps, nil
}

func normalizeTrack(raw *rawState) *Track {
	var t Track
	if raw.PlayType == nil {
		return nil
	}
	switch *raw.PlayType {
	case playTypeEverSolo, playTypeEverSoloAlt:
		info := raw.EverSoloPlayInfo.EverSoloPlayAudioInfo
		t.Title = info.SongName
		t.Artist = info.ArtistName
		t.Album = info.AlbumName
		t.ArtworkURL = info.AlbumURL
	case playTypeLocal:
		t.Title = raw.PlayingMusic.Title
		t.Artist = raw.PlayingMusic.Artist
		t.Album = raw.PlayingMusic.Album
		t.ArtworkURL = raw.PlayingMusic.Art
	default:
		return nil
	}
	if t.Title == "" && t.Artist == "" && t.Album == "" {
		// metadata block present but empty: still "no media"
		return nil
	}
	if raw.Duration > 0 {
		t.Duration = time.Duration(raw.Duration) * time.Millisecond
	}
	if raw.Position > 0 {
		t.Position = time.Duration(raw.Position) * time.Millisecond
	}
	return &t
}

// NormalizeInputOutput converts a raw getInputAndOutputList payload.
// A single malformed enable flag downgrades that output to disabled
// with a warning; it never aborts the whole refresh.
func NormalizeInputOutput(payload []byte, logger *zap.Logger) (*InputOutputList, error) {
	var raw rawInputOutputList
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, &MalformedResponseError{Field: "getInputAndOutputList", Reason: "is not a JSON object"}
	}
	if raw.OutputData == nil {
		return nil, &MalformedResponseError{Field: "outputData", Reason: "is missing"}
	}

	list := &InputOutputList{
		InputIndex:  -1,
		OutputIndex: -1,
	}
	if raw.InputIndex != nil {
		list.InputIndex = *raw.InputIndex
	}
	if raw.OutputIndex != nil {
		list.OutputIndex = *raw.OutputIndex
	}

	for _, in := range raw.InputData {
		tag := cleanTag(in.Tag)
		if tag == "" || in.Name == "" {
			continue
		}
		list.Inputs = append(list.Inputs, InputEntry{Name: in.Name, Tag: tag})
	}

	for _, out := range raw.OutputData {
		tag := cleanTag(out.Tag)
		if tag == "" || out.Name == "" {
			continue
		}
		entry := OutputEntry{
			Name:     out.Name,
			Tag:      tag,
			Enabled:  out.Enable.value,
			Encoding: out.Enable.encoding,
		}
		if !out.Enable.present {
			entry.Encoding = EncodingInvalid
		}
		if entry.Encoding == EncodingInvalid {
			logger.Warn("output enable flag has unexpected encoding, treating as disabled",
				zap.String("output", tag))
		}
		list.Outputs = append(list.Outputs, entry)
	}

	return list, nil
}

// NormalizeModelInfo converts a raw getModel payload.
func NormalizeModelInfo(payload []byte) (*DeviceInfo, error) {
	var raw rawModelInfo
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, &MalformedResponseError{Field: "getModel", Reason: "is not a JSON object"}
	}
	model := raw.Model
	if model == "" {
		model = raw.DeviceModel
	}
	if model == "" {
		return nil, &MalformedResponseError{Field: "model", Reason: "is missing"}
	}
	return &DeviceInfo{
		Model:           model,
		DeviceName:      raw.DeviceName,
		FirmwareVersion: raw.Firmware,
		NetMAC:          raw.NetMAC,
	}, nil
}

// NormalizeDisplayModes converts a VU/spectrum mode list payload.
func NormalizeDisplayModes(payload []byte) ([]DisplayMode, error) {
	var raw rawDisplayModeList
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, &MalformedResponseError{Field: "data", Reason: "is not a JSON object"}
	}
	modes := make([]DisplayMode, 0, len(raw.Data))
	for i, m := range raw.Data {
		modes = append(modes, DisplayMode{
			Name:     m.Name,
			Index:    i,
			Selected: i == raw.CurrentIndex,
		})
	}
	return modes, nil
}

// NormalizeBrightness extracts currentIndex from a brightness payload.
func NormalizeBrightness(payload []byte) (int, error) {
	var raw rawBrightness
	if err := json.Unmarshal(payload, &raw); err != nil {
		return 0, &MalformedResponseError{Field: "currentIndex", Reason: "is not a JSON object"}
	}
	if raw.CurrentIndex == nil {
		return 0, &MalformedResponseError{Field: "currentIndex", Reason: "is missing"}
	}
	return *raw.CurrentIndex, nil
}

// Device tags occasionally carry path separators ("USB/DAC").
func cleanTag(tag string) string {
	return strings.ReplaceAll(tag, "/", "")
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
