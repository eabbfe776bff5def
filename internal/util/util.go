package util

import (
	"github.com/mmiyara/eversolo2mqtt/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		Device: config.DeviceConfig{
			Host:               "-.-.-.-",
			Port:               9529,
			Name:               "Test Streamer",
			Model:              "DMP-A6",
			PollIntervalMillis: 5000,
			MaxPollFailures:    3,
		},
		MQTT: config.MQTTConfig{
			Host:      "localhost",
			Port:      1883,
			BaseTopic: "eversolo2mqtt",
		},
		Port: 8080,
	}
}
