package mqtt

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"

	"github.com/berfenger/heatnet/internal/config"
	"github.com/berfenger/heatnet/internal/core/domain"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	MQTT_PAYLOAD_ONLINE  = "online"
	MQTT_PAYLOAD_OFFLINE = "offline"
	MQTT_PAYLOAD_ON      = "on"
	MQTT_PAYLOAD_OFF     = "off"
	MQTT_PAYLOAD_PRESS   = "PRESS"

	COMMAND_CONVERT = "convert"
	COMMAND_RELOAD  = "reload"
)

func OptsFromConfig(cfg *config.Config) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTT.Host, cfg.MQTT.Port))
	opts.SetClientID(fmt.Sprintf("heatnet_%d", rand.IntN(1000)))
	if cfg.MQTT.Username != "" && cfg.MQTT.Password != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}
	opts.WillEnabled = true
	opts.WillPayload = []byte(MQTT_PAYLOAD_OFFLINE)
	opts.WillRetained = true
	opts.WillTopic = bridgeStateTopic(cfg.MQTT.BaseTopic)
	opts.WillQos = 0

	return opts
}

func CreateMQTTClient(cfg *config.Config, opts *mqtt.ClientOptions, onConnectHandler func(client mqtt.Client),
	onConnectionLostHandler func(mqtt.Client, error)) *MQTTClient {
	if onConnectHandler != nil {
		opts.OnConnect = onConnectHandler
	}
	if onConnectionLostHandler != nil {
		opts.OnConnectionLost = onConnectionLostHandler
	}
	return &MQTTClient{
		client:               mqtt.NewClient(opts),
		cfg:                  cfg.MQTT,
		networkCommandRegexp: networkCommandExtractor(cfg.MQTT.BaseTopic),
		bridgeCommandRegexp:  bridgeCommandExtractor(cfg.MQTT.BaseTopic),
	}
}

type MQTTClient struct {
	client               mqtt.Client
	cfg                  config.MQTTConfig
	networkCommandRegexp *regexp.Regexp
	bridgeCommandRegexp  *regexp.Regexp
}

// ParsedMQTTCommand is a command received on a command topic. Network is
// the sensor key of the target network, empty for bridge commands.
type ParsedMQTTCommand struct {
	Network string
	Command string
	Payload string
}

func (c *MQTTClient) baseTopic() string {
	return c.cfg.BaseTopic
}

func (c *MQTTClient) BridgeStateTopic() string {
	return bridgeStateTopic(c.baseTopic())
}

func (c *MQTTClient) SensorStateTopic(sensorId string) string {
	return fmt.Sprintf("%s/sensor/%s/state", c.baseTopic(), sensorId)
}

func (c *MQTTClient) BinarySensorStateTopic(sensorId string) string {
	return fmt.Sprintf("%s/binary_sensor/%s/state", c.baseTopic(), sensorId)
}

// NetworkReportTopic carries the JSON report of the last conversion.
func (c *MQTTClient) NetworkReportTopic(network string) string {
	return fmt.Sprintf("%s/network/%s/report", c.baseTopic(), domain.SensorKey(network))
}

func (c *MQTTClient) NetworkCommandTopic(network string) string {
	return fmt.Sprintf("%s/network/%s/%s", c.baseTopic(), domain.SensorKey(network), COMMAND_CONVERT)
}

func (c *MQTTClient) BridgeCommandTopic() string {
	return fmt.Sprintf("%s/bridge/%s", c.baseTopic(), COMMAND_RELOAD)
}

func (c *MQTTClient) ParseMQTTCommand(msg mqtt.Message) (*ParsedMQTTCommand, error) {
	return c.parseCommand(msg.Topic(), string(msg.Payload()))
}

func (c *MQTTClient) parseCommand(topic, payload string) (*ParsedMQTTCommand, error) {
	if matches := c.networkCommandRegexp.FindStringSubmatch(topic); len(matches) == 2 {
		return &ParsedMQTTCommand{
			Network: matches[1],
			Command: COMMAND_CONVERT,
			Payload: payload,
		}, nil
	}
	if c.bridgeCommandRegexp.MatchString(topic) {
		return &ParsedMQTTCommand{
			Command: COMMAND_RELOAD,
			Payload: payload,
		}, nil
	}
	return nil, errors.New("invalid command")
}

func (c *MQTTClient) Publish(topic string, payload any, qos byte, retain bool, continuation func(error), timeout time.Duration) {
	continueWith(c.client.Publish(topic, qos, retain, payload), "publish", continuation, timeout)
}

// SubscribeToCommandTopics subscribes handler to network and bridge
// commands. Report and state topics are not covered.
func (c *MQTTClient) SubscribeToCommandTopics(handler mqtt.MessageHandler, continuation func(error), timeout time.Duration) {
	token := c.client.SubscribeMultiple(map[string]byte{
		c.networkCommandFilter(): 1,
		c.BridgeCommandTopic():   1,
	}, handler)
	continueWith(token, "subscribe", continuation, timeout)
}

func (c *MQTTClient) Connect(continuation func(error), timeout time.Duration) {
	continueWith(c.client.Connect(), "connect", continuation, timeout)
}

func (c *MQTTClient) Disconnect(timeout time.Duration) {
	c.client.Disconnect(uint(timeout.Milliseconds()))
}

// continueWith waits for token in the background and hands the outcome to
// continuation.
func continueWith(token mqtt.Token, op string, continuation func(error), timeout time.Duration) {
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(fmt.Errorf("MQTT %s timed out", op))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) networkCommandFilter() string {
	return fmt.Sprintf("%s/network/+/%s", c.baseTopic(), COMMAND_CONVERT)
}

func networkCommandExtractor(baseTopic string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf("^%s/network/([a-z0-9_]+)/%s$", regexp.QuoteMeta(baseTopic), COMMAND_CONVERT))
}

func bridgeCommandExtractor(baseTopic string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf("^%s/bridge/%s$", regexp.QuoteMeta(baseTopic), COMMAND_RELOAD))
}

func bridgeStateTopic(baseTopic string) string {
	return fmt.Sprintf("%s/bridge/state", baseTopic)
}
