package util

import (
	"github.com/berfenger/heatnet/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		MQTT: config.MQTTConfig{
			Enable:           true,
			Host:             "localhost",
			Port:             1883,
			BaseTopic:        "heatnet",
			HADiscoveryTopic: "homeassistant",
		},
		Network: config.NetworkConfig{
			RetryLoopLimit:          100,
			Formulation:             "heat",
			Files:                   map[string]string{},
			ConversionTimeoutMillis: 5000,
			EstimatedVelocity:       1.0,
		},
		Port: 8080,
	}
}
