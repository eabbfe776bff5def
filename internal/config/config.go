package config

import (
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	LogLevel zapcore.Level
	Device   DeviceConfig `mapstructure:"device"`
	MQTT     MQTTConfig   `mapstructure:"mqtt"`

	Port    uint `mapstructure:"port"`
	HttpLog bool `mapstructure:"http_log"`
}

type DeviceConfig struct {
	Host string
	Port uint
	Name string
	// Model selects the capability descriptor. Unknown models fall
	// back to a conservative default capability set.
	Model              string
	PollIntervalMillis uint32 `mapstructure:"poll_interval_millis"`
	// MaxPollFailures is the consecutive-failure threshold after which
	// the device is reported unavailable.
	MaxPollFailures uint `mapstructure:"max_poll_failures"`
	// RemoteKeyPath overrides the sendkey base path. The vendor docs
	// list two prefixes and it is unclear which is authoritative.
	RemoteKeyPath string `mapstructure:"remote_key_path"`
	// MACAddress enables Wake-on-LAN power-on. Auto-captured from the
	// device when left empty.
	MACAddress string `mapstructure:"mac_address"`
}

type MQTTConfig struct {
	Host              string
	Port              int
	Username          string
	Password          string
	BaseTopic         string `mapstructure:"base_topic"`
	HADiscoveryEnable bool   `mapstructure:"ha_discovery_enable"`
	HADiscoveryTopic  string `mapstructure:"ha_discovery_topic"`
}

func CheckMQTTTopic(baseTopic string) (string, error) {
	// check and fix base topic
	lowerBaseTopic := strings.ToLower(baseTopic)
	baseTopicRegexp := regexp.MustCompile("^[a-z0-9_]+$")
	matches := baseTopicRegexp.FindAllStringSubmatch(lowerBaseTopic, 1)
	if len(matches) <= 0 {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}
