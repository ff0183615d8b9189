package service

import (
	"errors"
	"fmt"

	"github.com/berfenger/heatnet/internal/core/domain"
	"github.com/berfenger/heatnet/internal/core/port"
	"github.com/berfenger/heatnet/pkg/component"
	"github.com/berfenger/heatnet/pkg/physics"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

const (
	DEFAULT_ESTIMATED_VELOCITY = 1.0 // m/s
	DEFAULT_Q_NOMINAL          = 1.0 // m3/s

	ATTRIBUTE_LENGTH          = "length"
	ATTRIBUTE_DIAMETER        = "diameter"
	ATTRIBUTE_DN              = "dn"
	ATTRIBUTE_FRICTION_FACTOR = "friction_factor"
	ATTRIBUTE_COP             = "cop"
)

var ErrMissingAttribute = errors.New("missing required attribute")

var assetKinds = map[domain.AssetType]component.Kind{
	domain.ASSET_TYPE_PIPE:                 component.KIND_PIPE,
	domain.ASSET_TYPE_JOINT:                component.KIND_NODE,
	domain.ASSET_TYPE_RESIDUAL_HEAT_SOURCE: component.KIND_SOURCE,
	domain.ASSET_TYPE_GENERIC_PRODUCER:     component.KIND_SOURCE,
	domain.ASSET_TYPE_GEOTHERMAL_SOURCE:    component.KIND_SOURCE,
	domain.ASSET_TYPE_HEATING_DEMAND:       component.KIND_DEMAND,
	domain.ASSET_TYPE_GENERIC_CONSUMER:     component.KIND_DEMAND,
	domain.ASSET_TYPE_HEAT_STORAGE:         component.KIND_BUFFER,
	domain.ASSET_TYPE_PUMP:                 component.KIND_PUMP,
	domain.ASSET_TYPE_CHECK_VALVE:          component.KIND_CHECK_VALVE,
	domain.ASSET_TYPE_VALVE:                component.KIND_CONTROL_VALVE,
	domain.ASSET_TYPE_HEAT_PUMP:            component.KIND_HEAT_PUMP,
	domain.ASSET_TYPE_GENERIC_CONVERSION:   component.KIND_HEAT_PUMP,
	domain.ASSET_TYPE_HEAT_EXCHANGE:        component.KIND_HEAT_EXCHANGER,
}

// KindOf returns the component kind an asset type converts to.
func KindOf(assetType domain.AssetType) (component.Kind, bool) {
	k, ok := assetKinds[assetType]
	return k, ok
}

// HeatConverter converts district heating assets. The nominal discharge of
// a non-pipe asset is taken from the pipes it is directly connected to, so
// those assets wait until their pipes are converted.
type HeatConverter struct {
	EstimatedVelocity float64
	Logger            *zap.Logger
}

// ensure interface compliance
var _ port.AssetConverter = (*HeatConverter)(nil)

func NewHeatConverter(estimatedVelocity float64, logger *zap.Logger) *HeatConverter {
	return &HeatConverter{EstimatedVelocity: estimatedVelocity, Logger: logger}
}

func (hc *HeatConverter) Convert(asset *domain.Asset, done port.ConvertedAssets) (domain.Conversion, error) {
	kind, ok := KindOf(asset.AssetType)
	if !ok {
		return domain.Skip(fmt.Sprintf("asset type %s has no heat network component", asset.AssetType)), nil
	}
	if !connected(asset) {
		return domain.Skip("asset is not connected"), nil
	}

	switch {
	case kind == component.KIND_PIPE:
		return hc.convertPipe(asset)
	case kind.IsNode():
		return hc.convertNode(asset, done)
	case kind.FourPort():
		return hc.convertFourPort(asset, kind, done)
	}

	qNominal, pending := connectedPipesNominal(asset, asset.Ports(), done)
	if pending != "" {
		return domain.RetryLater(fmt.Sprintf("waiting for pipe %s", pending)), nil
	}
	modifiers := attributeModifiers(asset)
	modifiers["Q_nominal"] = qNominal
	if carrier, err := asset.InCarrier(); err == nil {
		modifiers["temperature"] = carrier.Temperature
	}
	return domain.Converted(kind, modifiers), nil
}

func (hc *HeatConverter) velocity() float64 {
	if hc.EstimatedVelocity <= 0 {
		return DEFAULT_ESTIMATED_VELOCITY
	}
	return hc.EstimatedVelocity
}

func (hc *HeatConverter) convertPipe(asset *domain.Asset) (domain.Conversion, error) {
	length, ok := asset.Attribute(ATTRIBUTE_LENGTH)
	if !ok {
		return domain.Conversion{}, fmt.Errorf("%w %s", ErrMissingAttribute, ATTRIBUTE_LENGTH)
	}

	modifiers := attributeModifiers(asset)
	diameter, ok := asset.Attribute(ATTRIBUTE_DIAMETER)
	if dn, hasDN := asset.Attribute(ATTRIBUTE_DN); hasDN {
		class, err := physics.PipeClassByName(fmt.Sprintf("DN%d", int(dn)))
		if err != nil {
			return domain.Conversion{}, err
		}
		if !ok {
			diameter, ok = class.InnerDiameter, true
		}
		modifiers["maximum_velocity"] = class.MaximumVelocity
		modifiers["investment_cost"] = class.InvestmentCost
	}
	if !ok {
		return domain.Conversion{}, fmt.Errorf("%w %s", ErrMissingAttribute, ATTRIBUTE_DIAMETER)
	}

	friction := physics.DEFAULT_FRICTION_FACTOR
	if f, ok := asset.Attribute(ATTRIBUTE_FRICTION_FACTOR); ok {
		friction = f
	}
	c, err := physics.HeadLossCoefficient(length, diameter, friction)
	if err != nil {
		return domain.Conversion{}, err
	}
	carrier, err := asset.InCarrier()
	if err != nil {
		return domain.Conversion{}, err
	}

	area := physics.CrossSectionArea(diameter)
	modifiers[ATTRIBUTE_LENGTH] = length
	modifiers[ATTRIBUTE_DIAMETER] = diameter
	modifiers["area"] = area
	modifiers["Q_nominal"] = area * hc.velocity()
	modifiers["temperature"] = carrier.Temperature
	modifiers["head_loss_coefficient"] = c
	return domain.Converted(component.KIND_PIPE, modifiers), nil
}

// convertNode estimates the connection count from the neighbours not
// skipped so far; the builder sets the final count once the node is wired.
func (hc *HeatConverter) convertNode(asset *domain.Asset, done port.ConvertedAssets) (domain.Conversion, error) {
	targets := make(map[string]bool)
	for _, p := range asset.Ports() {
		for _, t := range p.ConnectedTo {
			if t.Asset != nil && done.Skipped(t.Asset.Id) {
				continue
			}
			targets[t.Id] = true
		}
	}
	modifiers := domain.Modifiers{domain.MODIFIER_NODE_CONNECTIONS: len(targets)}
	if carrier, err := asset.InCarrier(); err == nil {
		modifiers["temperature"] = carrier.Temperature
	}
	return domain.Converted(component.KIND_NODE, modifiers), nil
}

func (hc *HeatConverter) convertFourPort(asset *domain.Asset, kind component.Kind, done port.ConvertedAssets) (domain.Conversion, error) {
	var primary, secondary []*domain.Port
	for _, p := range asset.Ports() {
		if asset.IsPrimaryPort(p) {
			primary = append(primary, p)
		} else {
			secondary = append(secondary, p)
		}
	}

	circuit := func(ports []*domain.Port) (domain.Modifiers, string) {
		q, pending := connectedPipesNominal(asset, ports, done)
		mods := domain.Modifiers{"Q_nominal": q}
		for _, p := range ports {
			if carrier, ok := asset.PortCarrier(p); ok && p.Direction == domain.PORT_IN {
				mods["temperature"] = carrier.Temperature
			}
		}
		return mods, pending
	}
	primaryMods, pending := circuit(primary)
	if pending != "" {
		return domain.RetryLater(fmt.Sprintf("waiting for pipe %s", pending)), nil
	}
	secondaryMods, pending := circuit(secondary)
	if pending != "" {
		return domain.RetryLater(fmt.Sprintf("waiting for pipe %s", pending)), nil
	}

	modifiers := attributeModifiers(asset)
	delete(modifiers, ATTRIBUTE_COP)
	modifiers["Primary"] = primaryMods
	modifiers["Secondary"] = secondaryMods
	if kind == component.KIND_HEAT_PUMP {
		cop, ok := asset.Attribute(ATTRIBUTE_COP)
		if !ok {
			return domain.Conversion{}, fmt.Errorf("%w %s", ErrMissingAttribute, ATTRIBUTE_COP)
		}
		modifiers["COP"] = cop
	}
	return domain.Converted(kind, modifiers), nil
}

// connectedPipesNominal returns the largest nominal discharge of the pipes
// directly connected to ports, or the name of a pipe not converted yet.
func connectedPipesNominal(asset *domain.Asset, ports []*domain.Port, done port.ConvertedAssets) (float64, string) {
	var nominals []float64
	for _, p := range ports {
		for _, t := range p.ConnectedTo {
			if t.Asset == nil || t.Asset.AssetType != domain.ASSET_TYPE_PIPE || done.Skipped(t.Asset.Id) {
				continue
			}
			pipe, ok := done.Converted(t.Asset.Id)
			if !ok {
				return 0, t.Asset.Name
			}
			if q, ok := pipe.Modifiers.Float("Q_nominal"); ok {
				nominals = append(nominals, q)
			}
		}
	}
	if len(nominals) == 0 {
		return DEFAULT_Q_NOMINAL, ""
	}
	return floats.Max(nominals), ""
}

func connected(asset *domain.Asset) bool {
	for _, p := range asset.Ports() {
		if len(p.ConnectedTo) > 0 {
			return true
		}
	}
	return false
}

func attributeModifiers(asset *domain.Asset) domain.Modifiers {
	modifiers := make(domain.Modifiers, len(asset.Attributes))
	for k, v := range asset.Attributes {
		modifiers[k] = v
	}
	return modifiers
}
