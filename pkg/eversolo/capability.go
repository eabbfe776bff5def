package eversolo

// Capability table for the DMP family. Model-specific behavior is
// expressed as data here; consuming code never branches on model-name
// strings. Adding a variant means adding a registry entry.

// OutputCapability describes one output surface of a model variant.
// Enabled marks whether the variant ships that output at all; the
// runtime enable flag from the device is a separate concern.
type OutputCapability struct {
	Tag     string
	Name    string
	Enabled bool
}

// Capabilities is the immutable per-model capability descriptor,
// created once at model-selection time.
type Capabilities struct {
	Model        string
	Outputs      []OutputCapability
	Inputs       []string
	HasKnob      bool
	HasDSP       bool
	HasSubwoofer bool
	HasEQ        bool

	DisplayBrightnessMax int
	KnobBrightnessMax    int
}

// SupportsOutput reports whether the variant ships the given output.
func (c Capabilities) SupportsOutput(tag string) bool {
	for _, o := range c.Outputs {
		if o.Tag == tag && o.Enabled {
			return true
		}
	}
	return false
}

// EnabledOutputs returns the outputs the variant ships, in order.
func (c Capabilities) EnabledOutputs() []OutputCapability {
	var out []OutputCapability
	for _, o := range c.Outputs {
		if o.Enabled {
			out = append(out, o)
		}
	}
	return out
}

// Output tags as used by the setOutInputList endpoint.
const (
	OutputRCA    = "RCA"
	OutputXLR    = "XLR"
	OutputXLRRCA = "XLRRCA"
	OutputSPDIF  = "SPDIF"
	OutputUSB    = "USB"
	OutputHDMI   = "HDMI"
	OutputIIS    = "IIS"
)

const (
	displayBrightnessMax = 115
	knobBrightnessMax    = 255
)

var capabilityTable = map[string]Capabilities{
	// Streamer with HDMI output and volume knob. No room DSP.
	"DMP-A6": {
		Model: "DMP-A6",
		Outputs: []OutputCapability{
			{Tag: OutputRCA, Name: "RCA", Enabled: true},
			{Tag: OutputXLR, Name: "XLR", Enabled: true},
			{Tag: OutputXLRRCA, Name: "XLR+RCA", Enabled: true},
			{Tag: OutputSPDIF, Name: "OPT/COAX", Enabled: true},
			{Tag: OutputUSB, Name: "USB DAC", Enabled: true},
			{Tag: OutputHDMI, Name: "HDMI", Enabled: true},
			{Tag: OutputIIS, Name: "IIS", Enabled: true},
		},
		Inputs:               []string{"INTERNALPLAYER", "USB", "OPT", "COAX", "BT"},
		HasKnob:              true,
		DisplayBrightnessMax: displayBrightnessMax,
		KnobBrightnessMax:    knobBrightnessMax,
	},
	// Streamer/DAC with knob and parametric EQ. No HDMI, no DSP.
	"DMP-A8": {
		Model: "DMP-A8",
		Outputs: []OutputCapability{
			{Tag: OutputRCA, Name: "RCA", Enabled: true},
			{Tag: OutputXLR, Name: "XLR", Enabled: true},
			{Tag: OutputXLRRCA, Name: "XLR+RCA", Enabled: true},
			{Tag: OutputSPDIF, Name: "OPT/COAX", Enabled: true},
			{Tag: OutputUSB, Name: "USB DAC", Enabled: true},
			{Tag: OutputIIS, Name: "IIS", Enabled: true},
			{Tag: OutputHDMI, Name: "HDMI", Enabled: false},
		},
		Inputs:               []string{"INTERNALPLAYER", "USB", "OPT", "COAX", "BT", "PHONO"},
		HasKnob:              true,
		HasEQ:                true,
		DisplayBrightnessMax: displayBrightnessMax,
		KnobBrightnessMax:    knobBrightnessMax,
	},
	// DAC/preamp with room DSP and subwoofer output. No HDMI, no knob.
	"DMP-A10": {
		Model: "DMP-A10",
		Outputs: []OutputCapability{
			{Tag: OutputRCA, Name: "RCA", Enabled: true},
			{Tag: OutputXLR, Name: "XLR", Enabled: true},
			{Tag: OutputXLRRCA, Name: "XLR+RCA", Enabled: true},
			{Tag: OutputSPDIF, Name: "OPT/COAX", Enabled: true},
			{Tag: OutputHDMI, Name: "HDMI", Enabled: false},
			{Tag: OutputUSB, Name: "USB DAC", Enabled: false},
		},
		Inputs:               []string{"INTERNALPLAYER", "USB", "OPT", "COAX", "BT", "HDMIARC"},
		HasDSP:               true,
		HasSubwoofer:         true,
		DisplayBrightnessMax: displayBrightnessMax,
	},
}

// CapabilitiesFor returns the capability descriptor for a model id.
// Unrecognized models yield UnknownModelError; callers should fall
// back to DefaultCapabilities rather than failing setup.
func CapabilitiesFor(model string) (Capabilities, error) {
	caps, ok := capabilityTable[model]
	if !ok {
		return Capabilities{}, &UnknownModelError{Model: model}
	}
	return caps, nil
}

// DefaultCapabilities is the conservative fallback for unknown models:
// the outputs every variant ships, no advanced features.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		Model: "unknown",
		Outputs: []OutputCapability{
			{Tag: OutputRCA, Name: "RCA", Enabled: true},
			{Tag: OutputXLR, Name: "XLR", Enabled: true},
			{Tag: OutputSPDIF, Name: "OPT/COAX", Enabled: true},
		},
		Inputs:               []string{"INTERNALPLAYER", "USB", "OPT", "COAX", "BT"},
		DisplayBrightnessMax: displayBrightnessMax,
	}
}

// KnownModels lists the model ids in the capability table.
func KnownModels() []string {
	return []string{"DMP-A6", "DMP-A8", "DMP-A10"}
}
