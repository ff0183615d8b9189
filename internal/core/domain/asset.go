package domain

import (
	"fmt"
	"strings"
)

type AssetType string

const (
	ASSET_TYPE_PIPE                 AssetType = "Pipe"
	ASSET_TYPE_JOINT                AssetType = "Joint"
	ASSET_TYPE_GENERIC_CONVERSION   AssetType = "GenericConversion"
	ASSET_TYPE_HEAT_PUMP            AssetType = "HeatPump"
	ASSET_TYPE_HEAT_EXCHANGE        AssetType = "HeatExchange"
	ASSET_TYPE_RESIDUAL_HEAT_SOURCE AssetType = "ResidualHeatSource"
	ASSET_TYPE_GENERIC_PRODUCER     AssetType = "GenericProducer"
	ASSET_TYPE_GEOTHERMAL_SOURCE    AssetType = "GeothermalSource"
	ASSET_TYPE_HEATING_DEMAND       AssetType = "HeatingDemand"
	ASSET_TYPE_GENERIC_CONSUMER     AssetType = "GenericConsumer"
	ASSET_TYPE_HEAT_STORAGE         AssetType = "HeatStorage"
	ASSET_TYPE_PUMP                 AssetType = "Pump"
	ASSET_TYPE_CHECK_VALVE          AssetType = "CheckValve"
	ASSET_TYPE_VALVE                AssetType = "Valve"
)

// RETURN_MARKER tags return-line assets and carriers.
const RETURN_MARKER = "_ret"

type PortDirection int

const (
	PORT_IN PortDirection = iota
	PORT_OUT
)

func (d PortDirection) String() string {
	if d == PORT_IN {
		return "In"
	}
	return "Out"
}

type Carrier struct {
	Id          string
	Name        string
	Temperature float64
}

// IsReturn reports whether the carrier belongs to a return line.
func (c *Carrier) IsReturn() bool {
	return c != nil && strings.Contains(c.Name, RETURN_MARKER)
}

// PairName is the carrier name shared by the supply and the return line.
func (c Carrier) PairName() string {
	return strings.ReplaceAll(c.Name, RETURN_MARKER, "")
}

type GlobalProperties struct {
	Carriers map[string]Carrier
}

type Port struct {
	Id          string
	Direction   PortDirection
	Carrier     *Carrier
	ConnectedTo []*Port
	Asset       *Asset
}

// ConnectTo records a connection on both ports. Connections already present
// on either side are not duplicated.
func (p *Port) ConnectTo(other *Port) {
	if !p.IsConnectedTo(other) {
		p.ConnectedTo = append(p.ConnectedTo, other)
	}
	if !other.IsConnectedTo(p) {
		other.ConnectedTo = append(other.ConnectedTo, p)
	}
}

func (p *Port) IsConnectedTo(other *Port) bool {
	for _, c := range p.ConnectedTo {
		if c.Id == other.Id {
			return true
		}
	}
	return false
}

// Asset is an energy-system element read from an asset graph. The
// conversion never mutates assets.
type Asset struct {
	Id               string
	Name             string
	AssetType        AssetType
	InPorts          []*Port
	OutPorts         []*Port
	Attributes       map[string]float64
	GlobalProperties GlobalProperties
}

// Ports returns in-ports followed by out-ports.
func (a *Asset) Ports() []*Port {
	ports := make([]*Port, 0, len(a.InPorts)+len(a.OutPorts))
	ports = append(ports, a.InPorts...)
	return append(ports, a.OutPorts...)
}

func (a *Asset) Attribute(key string) (float64, bool) {
	v, ok := a.Attributes[key]
	return v, ok
}

// PairName is the asset name with the return marker removed. A supply asset
// and its return asset share the same pair name.
func (a *Asset) PairName() string {
	return strings.ReplaceAll(a.Name, RETURN_MARKER, "")
}

// InCarrier resolves the carrier of the first in-port through the global
// carrier table.
func (a *Asset) InCarrier() (Carrier, error) {
	if len(a.InPorts) == 0 {
		return Carrier{}, &PortConfigurationError{Asset: a.Name, Reason: "has no in port"}
	}
	ref := a.InPorts[0].Carrier
	if ref == nil {
		return Carrier{}, &PortConfigurationError{Asset: a.Name, Reason: fmt.Sprintf("in port %s has no carrier", a.InPorts[0].Id)}
	}
	carrier, ok := a.GlobalProperties.Carriers[ref.Id]
	if !ok {
		return Carrier{}, &PortConfigurationError{Asset: a.Name, Reason: fmt.Sprintf("unknown carrier %s", ref.Id)}
	}
	return carrier, nil
}

// PortCarrier resolves the carrier of port p through the global carrier table.
func (a *Asset) PortCarrier(p *Port) (Carrier, bool) {
	if p.Carrier == nil {
		return Carrier{}, false
	}
	carrier, ok := a.GlobalProperties.Carriers[p.Carrier.Id]
	return carrier, ok
}

// IsReturnPort reports whether port p carries a return carrier.
func (a *Asset) IsReturnPort(p *Port) bool {
	if carrier, ok := a.PortCarrier(p); ok {
		return carrier.IsReturn()
	}
	return p.Carrier.IsReturn()
}

// IsPrimaryPort reports whether port p of a four-port asset belongs to the
// primary circuit: supply in or return out.
func (a *Asset) IsPrimaryPort(p *Port) bool {
	return (p.Direction == PORT_IN) != a.IsReturnPort(p)
}

func NewPort(id string, direction PortDirection, carrier *Carrier) *Port {
	return &Port{Id: id, Direction: direction, Carrier: carrier}
}

// AddInPort attaches a port to the asset's in-port list.
func (a *Asset) AddInPort(p *Port) *Port {
	p.Direction = PORT_IN
	p.Asset = a
	a.InPorts = append(a.InPorts, p)
	return p
}

func (a *Asset) AddOutPort(p *Port) *Port {
	p.Direction = PORT_OUT
	p.Asset = a
	a.OutPorts = append(a.OutPorts, p)
	return p
}

// AssetGraph is an ordered collection of assets. Order is the document
// order and makes every conversion deterministic.
type AssetGraph struct {
	Name   string
	assets []*Asset
	byId   map[string]*Asset
}

func NewAssetGraph(name string, assets ...*Asset) (*AssetGraph, error) {
	g := &AssetGraph{
		Name: name,
		byId: make(map[string]*Asset, len(assets)),
	}
	for _, a := range assets {
		if err := g.Add(a); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *AssetGraph) Add(a *Asset) error {
	if a.Id == "" {
		return fmt.Errorf("asset %q has no id", a.Name)
	}
	if _, exists := g.byId[a.Id]; exists {
		return fmt.Errorf("asset id %s already exists in graph", a.Id)
	}
	g.byId[a.Id] = a
	g.assets = append(g.assets, a)
	return nil
}

func (g *AssetGraph) Asset(id string) (*Asset, bool) {
	a, ok := g.byId[id]
	return a, ok
}

func (g *AssetGraph) Assets() []*Asset {
	return g.assets
}

func (g *AssetGraph) Len() int {
	return len(g.assets)
}
