package eversolo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilityTableConsistency(t *testing.T) {

	assert := assert.New(t)

	for _, model := range KnownModels() {
		caps, err := CapabilitiesFor(model)
		if err != nil {
			t.Error(err)
			continue
		}
		assert.Equal(model, caps.Model)
		assert.NotEmpty(caps.EnabledOutputs(), "%s has at least one output", model)
		assert.NotEmpty(caps.Inputs, "%s has at least one input", model)
		// DSP and EQ partition the family: no model has both.
		assert.False(caps.HasDSP && caps.HasEQ, "%s: DSP and EQ are mutually exclusive", model)
	}
}

func TestCapabilityFeatureMatrix(t *testing.T) {

	assert := assert.New(t)

	a6, _ := CapabilitiesFor("DMP-A6")
	assert.True(a6.SupportsOutput(OutputHDMI), "A6 ships HDMI")
	assert.True(a6.HasKnob, "A6 has a knob")
	assert.False(a6.HasDSP)
	assert.False(a6.HasEQ)

	a8, _ := CapabilitiesFor("DMP-A8")
	assert.False(a8.SupportsOutput(OutputHDMI), "A8 has no HDMI")
	assert.True(a8.HasKnob)
	assert.True(a8.HasEQ)
	assert.False(a8.HasDSP)

	a10, _ := CapabilitiesFor("DMP-A10")
	assert.False(a10.SupportsOutput(OutputHDMI), "A10 has no HDMI")
	assert.False(a10.HasKnob, "A10 has no knob")
	assert.True(a10.HasDSP)
	assert.True(a10.HasSubwoofer)
	assert.False(a10.HasEQ)
}

func TestCapabilitiesForUnknownModel(t *testing.T) {

	assert := assert.New(t)

	_, err := CapabilitiesFor("DMP-A99")
	var unknown *UnknownModelError
	assert.ErrorAs(err, &unknown)
	assert.Equal("DMP-A99", unknown.Model)

	// conservative fallback: common outputs, no advanced features
	caps := DefaultCapabilities()
	assert.NotEmpty(caps.EnabledOutputs())
	assert.False(caps.SupportsOutput(OutputHDMI))
	assert.False(caps.HasKnob)
	assert.False(caps.HasDSP)
	assert.False(caps.HasSubwoofer)
	assert.False(caps.HasEQ)
}
