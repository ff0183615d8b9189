package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/berfenger/heatnet/pkg/component"

	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	LogLevel zapcore.Level
	MQTT     MQTTConfig    `mapstructure:"mqtt"`
	Network  NetworkConfig `mapstructure:"network"`
	Port     uint          `mapstructure:"port"`
	HttpLog  bool          `mapstructure:"http_log"`
}

type MQTTConfig struct {
	Enable            bool
	Host              string
	Port              int
	Username          string
	Password          string
	BaseTopic         string `mapstructure:"base_topic"`
	HADiscoveryEnable bool   `mapstructure:"ha_discovery_enable"`
	HADiscoveryTopic  string `mapstructure:"ha_discovery_topic"`
}

type NetworkConfig struct {
	RetryLoopLimit          int               `mapstructure:"retry_loop_limit"`
	Formulation             string            `mapstructure:"formulation"`
	Files                   map[string]string `mapstructure:"files"`
	ReloadCron              string            `mapstructure:"reload_cron"`
	ConversionTimeoutMillis uint32            `mapstructure:"conversion_timeout_millis"`
	EstimatedVelocity       float64           `mapstructure:"estimated_velocity"`
	RequireReturnPairs      bool              `mapstructure:"require_return_pairs"`
}

// FormulationOrDefault maps the configured formulation onto a known one.
func (c NetworkConfig) FormulationOrDefault() (component.Formulation, error) {
	switch strings.ToLower(c.Formulation) {
	case "", "heat":
		return component.FORMULATION_HEAT, nil
	case "qth":
		return component.FORMULATION_QTH, nil
	}
	return "", fmt.Errorf("unknown formulation %q", c.Formulation)
}

func ParseLogLevel(level string) zapcore.Level {
	switch level {
	case "trace":
		return zap.DebugLevel
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "error":
		return zap.ErrorLevel
	case "warn":
		return zap.WarnLevel
	case "fatal":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}

// Validate fixes topic names and checks bounds.
func (c *Config) Validate() error {
	// check and fix base topic
	baseTopic, err := CheckMQTTTopic(c.MQTT.BaseTopic)
	if err != nil {
		return errors.New("invalid base topic. can only contain letters, numbers and underscores")
	}
	c.MQTT.BaseTopic = baseTopic

	// check and fix homeassistant discovery topic
	hadBaseTopic, err := CheckMQTTTopic(c.MQTT.HADiscoveryTopic)
	if err != nil {
		return errors.New("invalid homeassistant discovery topic. can only contain letters, numbers and underscores")
	}
	c.MQTT.HADiscoveryTopic = hadBaseTopic

	// check bounds
	if c.Network.RetryLoopLimit < 1 {
		return errors.New("config param network.retry_loop_limit should be >= 1")
	}
	if _, err := c.Network.FormulationOrDefault(); err != nil {
		return fmt.Errorf("config param network.formulation: %w", err)
	}
	if c.Network.ConversionTimeoutMillis < 100 {
		return errors.New("config param network.conversion_timeout_millis should be >= 100")
	}
	if c.Network.EstimatedVelocity <= 0 {
		return errors.New("config param network.estimated_velocity should be > 0")
	}
	if c.Network.ReloadCron != "" {
		if _, err := quartz.NewCronTrigger(c.Network.ReloadCron); err != nil {
			return fmt.Errorf("config param network.reload_cron: %w", err)
		}
	}
	for name := range c.Network.Files {
		if strings.TrimSpace(name) == "" {
			return errors.New("config param network.files contains an empty network name")
		}
	}
	return nil
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
