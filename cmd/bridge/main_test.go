package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitConfigEnvPrefix(t *testing.T) {

	require := require.New(t)
	assert := assert.New(t)

	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(os.WriteFile(cfgFile, []byte("device:\n  host: 192.168.30.40\n"), 0o600))
	t.Setenv("CONFIG_FILE", cfgFile)
	t.Setenv("EVERSOLO2MQTT_LOG_LEVEL", "debug")

	cfg, err := initConfig()
	require.NoError(err)

	assert.Equal("192.168.30.40", cfg.Device.Host)
	assert.Equal(zap.DebugLevel, cfg.LogLevel, "EVERSOLO2MQTT_ prefixed env vars must be honored")
	assert.Equal("eversolo2mqtt", cfg.MQTT.BaseTopic)
}
