package domain

import (
	"testing"

	"github.com/mmiyara/eversolo2mqtt/pkg/eversolo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectById(selects []GenericSelect, id string) *GenericSelect {
	for i := range selects {
		if selects[i].Id == id {
			return &selects[i]
		}
	}
	return nil
}

func TestStreamerSelectsKeepDisabledOutputs(t *testing.T) {

	require := require.New(t)
	assert := assert.New(t)

	caps, err := eversolo.CapabilitiesFor("DMP-A6")
	require.NoError(err)

	snap := &DeviceSnapshot{
		Capabilities: caps,
		IO: eversolo.InputOutputList{
			Inputs: []eversolo.InputEntry{
				{Name: "Internal Player", Tag: "INTERNALPLAYER"},
			},
			Outputs: []eversolo.OutputEntry{
				{Name: "RCA", Tag: eversolo.OutputRCA, Enabled: true},
				{Name: "USB DAC", Tag: eversolo.OutputUSB, Enabled: false},
			},
		},
	}

	output := selectById(StreamerSelects(Device{Id: "dev"}, caps, snap), SELECT_ID_OUTPUT)
	require.NotNil(output)

	assert.Contains(output.Options, eversolo.OutputRCA)
	assert.Contains(output.Options, eversolo.OutputUSB,
		"outputs waiting on hardware stay listed, activation is guarded")
}

func TestStreamerSelectOutputFallsBackToCapabilities(t *testing.T) {

	require := require.New(t)
	assert := assert.New(t)

	caps, err := eversolo.CapabilitiesFor("DMP-A8")
	require.NoError(err)

	// no live list yet, options come from the capability descriptor
	output := selectById(StreamerSelects(Device{Id: "dev"}, caps, &DeviceSnapshot{Capabilities: caps}), SELECT_ID_OUTPUT)
	require.NotNil(output)

	assert.Contains(output.Options, eversolo.OutputUSB)
	assert.NotContains(output.Options, eversolo.OutputHDMI, "A8 does not ship HDMI")
}
