package mqtt

import (
	"testing"

	"github.com/berfenger/heatnet/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkCommandParse(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "heatnet"
	topic := "heatnet/network/district_1/convert"
	r := networkCommandExtractor(baseTopic)
	matches := r.FindAllStringSubmatch(topic, 1)

	assert.Equal("district_1", matches[0][1], "network extract")
}

func TestNetworkCommandParseFail(t *testing.T) {

	assert := assert.New(t)

	r := networkCommandExtractor("heatnet")

	assert.Len(r.FindAllStringSubmatch("heatnet/network/district_1/report", 1), 0, "report topic is not a command")
	assert.Len(r.FindAllStringSubmatch("other/network/district_1/convert", 1), 0, "foreign base topic")
	assert.Len(r.FindAllStringSubmatch("heatnet/network/a/b/convert", 1), 0, "nested topic")
}

func TestParseCommand(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cfg := util.LoadTestConfig()
	client := CreateMQTTClient(&cfg, OptsFromConfig(&cfg), nil, nil)

	cmd, err := client.parseCommand(client.NetworkCommandTopic("District 1"), "")
	require.NoError(err)
	assert.Equal(ParsedMQTTCommand{Network: "district_1", Command: COMMAND_CONVERT}, *cmd)

	cmd, err = client.parseCommand(client.BridgeCommandTopic(), MQTT_PAYLOAD_PRESS)
	require.NoError(err)
	assert.Equal(COMMAND_RELOAD, cmd.Command)
	assert.Empty(cmd.Network)

	_, err = client.parseCommand(client.NetworkReportTopic("District 1"), "{}")
	assert.Error(err)
}

func TestTopics(t *testing.T) {
	assert := assert.New(t)

	cfg := util.LoadTestConfig()
	client := CreateMQTTClient(&cfg, OptsFromConfig(&cfg), nil, nil)

	assert.Equal("heatnet/bridge/state", client.BridgeStateTopic())
	assert.Equal("heatnet/network/north_loop/report", client.NetworkReportTopic("North-Loop"))
	assert.Equal("heatnet/network/+/convert", client.networkCommandFilter())
	assert.Equal("heatnet/sensor/north_loop_rounds/state", client.SensorStateTopic("north_loop_rounds"))
}
