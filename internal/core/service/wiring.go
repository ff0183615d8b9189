package service

import (
	"fmt"

	"github.com/berfenger/heatnet/internal/core/domain"
	"github.com/berfenger/heatnet/pkg/component"

	"go.uber.org/zap"
)

// checkCarriers compares the in-port carrier of every pipe and node with
// the one of its supply/return counterpart, ignoring the return marker of
// the carrier names. Assets without a counterpart are only rejected when
// RequireReturnPairs is set.
func (nb *DefaultNetworkBuilder) checkCarriers(b *buildContext) error {
	for _, asset := range b.pipesAndNodes {
		carrier, err := asset.InCarrier()
		if err != nil {
			return err
		}

		var counterpart *domain.Asset
		for _, x := range b.pipesAndNodes {
			if x.PairName() == asset.PairName() && x.Name != asset.Name {
				counterpart = x
				break
			}
		}
		if counterpart == nil {
			if nb.RequireReturnPairs {
				return &domain.CarrierMismatchError{Asset: asset.Name, Carrier: carrier.Name}
			}
			nb.Logger.Debug("asset has no supply/return counterpart", zap.String("asset", asset.Name))
			continue
		}

		counterpartCarrier, err := counterpart.InCarrier()
		if err != nil {
			return err
		}
		if carrier.PairName() != counterpartCarrier.PairName() {
			return &domain.CarrierMismatchError{
				Asset:              asset.Name,
				Counterpart:        counterpart.Name,
				Carrier:            carrier.Name,
				CounterpartCarrier: counterpartCarrier.Name,
			}
		}
	}
	return nil
}

// mapPorts registers the component port of every raw port of the non-node
// assets.
func (nb *DefaultNetworkBuilder) mapPorts(b *buildContext) error {
	for _, asset := range b.nonNodes {
		c := b.components[asset.Id]
		if c.Kind.FourPort() {
			if err := nb.mapFourPorts(b, asset, c); err != nil {
				return err
			}
			continue
		}
		if len(asset.InPorts) != 1 || len(asset.OutPorts) != 1 {
			return &domain.PortConfigurationError{
				Asset:  asset.Name,
				Reason: fmt.Sprintf("expected 1 in port and 1 out port, got %d and %d", len(asset.InPorts), len(asset.OutPorts)),
			}
		}
		b.portMap[asset.InPorts[0].Id] = component.Port(c.Name, component.ROLE_IN)
		b.portMap[asset.OutPorts[0].Id] = component.Port(c.Name, component.ROLE_OUT)
	}
	return nil
}

// mapFourPorts splits a four-port asset into its primary and secondary
// circuits by port direction and return marker of the port carrier.
func (nb *DefaultNetworkBuilder) mapFourPorts(b *buildContext, asset *domain.Asset, c *domain.Component) error {
	if b.network.Formulation != component.FORMULATION_HEAT {
		return &domain.PortConfigurationError{
			Asset:  asset.Name,
			Reason: fmt.Sprintf("hydraulically decoupled systems are not supported for the %s formulation", b.network.Formulation),
		}
	}
	if len(asset.InPorts) != 2 || len(asset.OutPorts) != 2 {
		return &domain.PortConfigurationError{
			Asset:  asset.Name,
			Reason: fmt.Sprintf("expected 2 in ports and 2 out ports, got %d and %d", len(asset.InPorts), len(asset.OutPorts)),
		}
	}
	for _, p := range asset.Ports() {
		ret := asset.IsReturnPort(p)
		var role component.Role
		switch {
		case p.Direction == domain.PORT_IN && !ret:
			role = component.ROLE_PRIMARY_IN
		case p.Direction == domain.PORT_IN && ret:
			role = component.ROLE_SECONDARY_IN
		case ret:
			role = component.ROLE_PRIMARY_OUT
		default:
			role = component.ROLE_SECONDARY_OUT
		}
		b.portMap[p.Id] = component.Port(c.Name, role)
	}
	return nil
}

// wireNodes connects every live target of a node's in and out port to the
// next connection slot of the node. Slot numbering is shared by both ports.
func (nb *DefaultNetworkBuilder) wireNodes(b *buildContext) error {
	wired := b.network.ConnectionSet()
	for _, asset := range b.nodes {
		if len(asset.InPorts) != 1 || len(asset.OutPorts) != 1 {
			return &domain.PortConfigurationError{
				Asset:  asset.Name,
				Reason: "a joint needs exactly one in port and one out port, multiple connections to a single joint port are allowed",
			}
		}
		node := b.components[asset.Id]

		slot := 1
		for _, p := range []*domain.Port{asset.InPorts[0], asset.OutPorts[0]} {
			for _, target := range p.ConnectedTo {
				if b.skippedPorts[target.Id] || wired.Has(p.Id, target.Id) {
					continue
				}
				targetRef, ok := b.portMap[target.Id]
				if !ok {
					return &domain.PortConfigurationError{
						Asset:  asset.Name,
						Reason: fmt.Sprintf("port %s is connected to %s which is not a port of a two or four port component", p.Id, target.Id),
					}
				}
				conn, err := node.Conn(slot)
				if err != nil {
					return err
				}
				if err := b.network.Connect(conn, targetRef); err != nil {
					return err
				}
				wired.Add(p.Id, target.Id)
				slot++
			}
		}

		// the slot count wins over the converter's estimate
		if n, ok := node.Modifiers.Float(domain.MODIFIER_NODE_CONNECTIONS); ok && int(n) != node.Slots() {
			nb.Logger.Debug("node connection count corrected",
				zap.String("asset", asset.Name), zap.Int("declared", int(n)), zap.Int("wired", node.Slots()))
		}
		node.Modifiers[domain.MODIFIER_NODE_CONNECTIONS] = node.Slots()
	}
	return nil
}

// wireRemaining connects every port of the non-node assets to its single
// live target. Ports of skipped assets are not live.
func (nb *DefaultNetworkBuilder) wireRemaining(b *buildContext) error {
	wired := b.network.ConnectionSet()
	for _, asset := range b.nonNodes {
		for _, p := range asset.Ports() {
			var live []*domain.Port
			for _, target := range p.ConnectedTo {
				if !b.skippedPorts[target.Id] {
					live = append(live, target)
				}
			}
			if len(live) != 1 {
				if len(live) > 1 {
					nb.Logger.Warn("multiple connections to a single port",
						zap.String("asset", asset.Name),
						zap.String("type", string(asset.AssetType)),
						zap.String("port", p.Id),
						zap.Int("connections", len(live)))
				}
				return &domain.AmbiguousConnectionError{Asset: asset.Name, AssetType: asset.AssetType, Port: p.Id, Live: len(live)}
			}

			target := live[0]
			if wired.Has(p.Id, target.Id) {
				continue
			}
			targetRef, ok := b.portMap[target.Id]
			if !ok {
				return &domain.PortConfigurationError{
					Asset:  asset.Name,
					Reason: fmt.Sprintf("port %s is connected to unknown port %s", p.Id, target.Id),
				}
			}
			if err := b.network.Connect(b.portMap[p.Id], targetRef); err != nil {
				return err
			}
			wired.Add(p.Id, target.Id)
		}
	}
	return nil
}
