package domain

import "fmt"

type SensorUpdateEventMixIn struct {
	Id string
}

type SensorUpdateEvent interface {
	SensorUpdateEvent() string
	SensorId() string
}

func (e SensorUpdateEventMixIn) SensorUpdateEvent() string {
	return fmt.Sprintf("%T", e)
}

func (e SensorUpdateEventMixIn) SensorId() string {
	return e.Id
}

type FloatSensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value    float64
	Decimals uint
}

type TextSensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value string
}

type BridgeStateUpdateEvent struct {
	SensorUpdateEventMixIn
	Value bool
}

// NetworkConvertedEvent is published on the event stream after every
// conversion attempt, successful or not.
type NetworkConvertedEvent struct {
	Report NetworkReport
}

// NetworkReportToUpdateEvents maps a report onto the sensor values of its network.
func NetworkReportToUpdateEvents(report NetworkReport) []SensorUpdateEvent {
	status := NETWORK_STATUS_OK
	if !report.Ok() {
		status = NETWORK_STATUS_ERROR
	}

	count := func(suffix string, value int) SensorUpdateEvent {
		return FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: NetworkSensorId(report.Name, suffix),
			},
			Value: float64(value),
		}
	}

	return []SensorUpdateEvent{
		TextSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: NetworkSensorId(report.Name, SENSOR_SUFFIX_STATUS),
			},
			Value: status,
		},
		count(SENSOR_SUFFIX_COMPONENTS, len(report.Components)),
		count(SENSOR_SUFFIX_CONNECTIONS, len(report.Connections)),
		count(SENSOR_SUFFIX_SKIPPED, len(report.Skipped)),
		count(SENSOR_SUFFIX_ROUNDS, report.Rounds),
	}
}
