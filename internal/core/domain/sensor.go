package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE    = "bridge"
	SENSOR_SUFFIX_STATUS      = "status"
	SENSOR_SUFFIX_COMPONENTS  = "components"
	SENSOR_SUFFIX_CONNECTIONS = "connections"
	SENSOR_SUFFIX_ROUNDS      = "rounds"
	SENSOR_SUFFIX_SKIPPED     = "skipped"
	BUTTON_SUFFIX_CONVERT     = "convert"
	STATE_CLASS_MEASUREMENT   = "measurement"
	DEVICE_CLASS_CONNECTIVITY = "connectivity"
	ENTITY_CLASS_DIAGNOSTIC   = "diagnostic"
	SENSOR_TYPE_SENSOR        = "sensor"
	SENSOR_TYPE_BINARY        = "binary_sensor"
	NETWORK_STATUS_OK         = "ok"
	NETWORK_STATUS_ERROR      = "error"
)

type Device struct {
	Id           string
	Name         string
	Version      string
	Model        string
	Manufacturer string
	ViaDevice    string
}

type GenericSensor struct {
	Device            Device
	Id                string
	SensorType        string
	Name              string
	UniqueId          string
	UnitOfMeasurement string
	StateClass        string // measurement, total_increasing
	DeviceClass       string
	EntityCategory    string // diagnostic, config, nil
	EnabledByDefault  *bool
	Icon              string
}

// GenericButton is a stateless trigger; pressing it publishes to its command topic.
type GenericButton struct {
	Device   Device
	Id       string
	Name     string
	UniqueId string
	Icon     string
	// network the button converts
	Network string
}

var sensorKeyRegexp = regexp.MustCompile("[^a-z0-9_]+")

// SensorKey turns a network name into a topic and id safe key.
func SensorKey(network string) string {
	return strings.Trim(sensorKeyRegexp.ReplaceAllString(strings.ToLower(network), "_"), "_")
}

func NetworkSensorId(network, suffix string) string {
	return fmt.Sprintf("%s_%s", SensorKey(network), suffix)
}

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("heatnet_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "ACasal",
		Model:        "Heatnet",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Heatnet %s", md5HashShort(baseTopic)),
	}
}

func NetworkDevice(bridge Device, network string) Device {
	return Device{
		Id:           fmt.Sprintf("heatnet_network_%s", SensorKey(network)),
		Manufacturer: bridge.Manufacturer,
		Model:        "District heating network",
		Version:      bridge.Version,
		Name:         fmt.Sprintf("Heat network %s", network),
		ViaDevice:    bridge.Id,
	}
}

func IdDevice(device Device) Device {
	return Device{
		Id:   device.Id,
		Name: device.Name,
	}
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {
	return []GenericSensor{{
		Device:         bridgeDevice,
		Id:             SENSOR_ID_BRIDGE_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Bridge state",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
	}}
}

func NetworkSensors(networkDevice Device, network string) []GenericSensor {
	sensor := func(suffix, name, icon string) GenericSensor {
		id := NetworkSensorId(network, suffix)
		return GenericSensor{
			Device:     networkDevice,
			Id:         id,
			SensorType: SENSOR_TYPE_SENSOR,
			Name:       name,
			StateClass: STATE_CLASS_MEASUREMENT,
			Icon:       icon,
			UniqueId:   uniqueId(networkDevice.Id, id),
		}
	}

	status := sensor(SENSOR_SUFFIX_STATUS, "Conversion status", "mdi:check-network")
	status.StateClass = ""
	rounds := sensor(SENSOR_SUFFIX_ROUNDS, "Conversion rounds", "mdi:sync")
	rounds.EntityCategory = ENTITY_CLASS_DIAGNOSTIC

	return []GenericSensor{
		status,
		sensor(SENSOR_SUFFIX_COMPONENTS, "Components", "mdi:pipe"),
		sensor(SENSOR_SUFFIX_CONNECTIONS, "Connections", "mdi:pipe-disconnected"),
		sensor(SENSOR_SUFFIX_SKIPPED, "Skipped assets", "mdi:debug-step-over"),
		rounds,
	}
}

func NetworkButtons(networkDevice Device, network string) []GenericButton {
	id := NetworkSensorId(network, BUTTON_SUFFIX_CONVERT)
	return []GenericButton{{
		Device:   networkDevice,
		Id:       id,
		Name:     "Convert network",
		UniqueId: uniqueId(networkDevice.Id, id),
		Icon:     "mdi:refresh",
		Network:  network,
	}}
}

func uniqueId(deviceId string, sensorId string) string {
	return fmt.Sprintf("%s_%s", deviceId, sensorId)
}

func md5HashShort(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])[:6]
}
