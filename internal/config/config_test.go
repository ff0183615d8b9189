package config

import (
	"testing"

	"github.com/berfenger/heatnet/pkg/component"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func validConfig() Config {
	return Config{
		MQTT: MQTTConfig{
			BaseTopic:        "HeatNet",
			HADiscoveryTopic: "homeassistant",
		},
		Network: NetworkConfig{
			RetryLoopLimit:          100,
			ConversionTimeoutMillis: 10000,
			EstimatedVelocity:       1.0,
		},
	}
}

func TestValidate(t *testing.T) {
	assert := assert.New(t)

	cfg := validConfig()
	assert.NoError(cfg.Validate())
	assert.Equal("heatnet", cfg.MQTT.BaseTopic)

	cfg = validConfig()
	cfg.Network.ReloadCron = "0 */5 * * * *"
	assert.NoError(cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(c *Config){
		"topic":       func(c *Config) { c.MQTT.BaseTopic = "heat/net" },
		"ha topic":    func(c *Config) { c.MQTT.HADiscoveryTopic = "" },
		"retry limit": func(c *Config) { c.Network.RetryLoopLimit = 0 },
		"formulation": func(c *Config) { c.Network.Formulation = "steam" },
		"timeout":     func(c *Config) { c.Network.ConversionTimeoutMillis = 10 },
		"velocity":    func(c *Config) { c.Network.EstimatedVelocity = 0 },
		"cron":        func(c *Config) { c.Network.ReloadCron = "every minute" },
		"file name":   func(c *Config) { c.Network.Files = map[string]string{" ": "a.yaml"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestFormulationOrDefault(t *testing.T) {
	assert := assert.New(t)

	f, err := NetworkConfig{}.FormulationOrDefault()
	assert.NoError(err)
	assert.Equal(component.FORMULATION_HEAT, f)

	f, err = NetworkConfig{Formulation: "QTH"}.FormulationOrDefault()
	assert.NoError(err)
	assert.Equal(component.FORMULATION_QTH, f)
}

func TestParseLogLevel(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(zap.DebugLevel, ParseLogLevel("trace"))
	assert.Equal(zap.WarnLevel, ParseLogLevel("warn"))
	assert.Equal(zap.InfoLevel, ParseLogLevel("nonsense"))
}
