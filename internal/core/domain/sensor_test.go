package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSensorKey(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("north_district", SensorKey("North District"))
	assert.Equal("a_b_c", SensorKey("--A.b/c--"))
	assert.Equal("loop2", SensorKey("loop2"))
	assert.Equal("north_district_status", NetworkSensorId("North District", SENSOR_SUFFIX_STATUS))
}

func TestNetworkSensorsAndButtons(t *testing.T) {
	assert := assert.New(t)

	bridge := BridgeDevice("heatnet")
	device := NetworkDevice(bridge, "North District")
	assert.Equal("heatnet_network_north_district", device.Id)
	assert.Equal(bridge.Id, device.ViaDevice)

	sensors := NetworkSensors(device, "North District")
	assert.Len(sensors, 5)
	ids := map[string]bool{}
	for _, s := range sensors {
		assert.Equal(SENSOR_TYPE_SENSOR, s.SensorType)
		assert.Equal(device.Id+"_"+s.Id, s.UniqueId)
		ids[s.Id] = true
	}
	assert.Len(ids, 5)
	assert.True(ids["north_district_rounds"])
	assert.Empty(sensors[0].StateClass)

	buttons := NetworkButtons(device, "North District")
	assert.Len(buttons, 1)
	assert.Equal("North District", buttons[0].Network)
	assert.Equal("north_district_convert", buttons[0].Id)
}

func TestNetworkReportToUpdateEvents(t *testing.T) {
	assert := assert.New(t)

	report := NetworkReport{
		Name:        "loop",
		Rounds:      2,
		Components:  []ComponentReport{{Name: "a"}, {Name: "b"}},
		Connections: [][2]string{{"a.out", "b.in"}},
		Skipped:     []string{},
	}
	events := NetworkReportToUpdateEvents(report)
	assert.Len(events, 5)

	byId := map[string]SensorUpdateEvent{}
	for _, e := range events {
		byId[e.SensorId()] = e
	}
	assert.Equal(NETWORK_STATUS_OK, byId["loop_status"].(TextSensorUpdateEvent).Value)
	assert.Equal(2.0, byId["loop_components"].(FloatSensorUpdateEvent).Value)
	assert.Equal(1.0, byId["loop_connections"].(FloatSensorUpdateEvent).Value)
	assert.Equal(0.0, byId["loop_skipped"].(FloatSensorUpdateEvent).Value)
	assert.Equal(2.0, byId["loop_rounds"].(FloatSensorUpdateEvent).Value)

	failed := NetworkReportToUpdateEvents(FailedReport("loop", errors.New("boom")))
	assert.Equal(NETWORK_STATUS_ERROR, failed[0].(TextSensorUpdateEvent).Value)
	assert.Equal(0.0, failed[1].(FloatSensorUpdateEvent).Value)
}
