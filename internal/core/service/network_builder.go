package service

import (
	"fmt"

	"github.com/berfenger/heatnet/internal/core/domain"
	"github.com/berfenger/heatnet/internal/core/port"
	"github.com/berfenger/heatnet/pkg/component"

	"go.uber.org/zap"
)

const DEFAULT_RETRY_LOOP_LIMIT = 100

// DefaultNetworkBuilder converts asset graphs to component networks. Every
// call to Build works on a fresh network and build context.
type DefaultNetworkBuilder struct {
	RetryLoopLimit     int
	Formulation        component.Formulation
	// reject pipes and joints without a supply/return counterpart
	RequireReturnPairs bool
	Logger             *zap.Logger
}

// buildContext is the mutable state threaded through the build phases.
type buildContext struct {
	graph   *domain.AssetGraph
	network *domain.Network

	// asset id -> component
	components   map[string]*domain.Component
	// raw port id -> component port, non-node assets only
	portMap      map[string]component.PortRef
	skipped      map[string]bool
	skippedPorts map[string]bool

	pipesAndNodes []*domain.Asset
	nodes         []*domain.Asset
	nonNodes      []*domain.Asset
}

func (b *buildContext) Converted(assetId string) (*domain.Component, bool) {
	c, ok := b.components[assetId]
	return c, ok
}

func (b *buildContext) Skipped(assetId string) bool {
	return b.skipped[assetId]
}

// ensure interface compliance
var _ port.NetworkBuilder = (*DefaultNetworkBuilder)(nil)
var _ port.ConvertedAssets = (*buildContext)(nil)

func NewNetworkBuilder(retryLoopLimit int, formulation component.Formulation, logger *zap.Logger) *DefaultNetworkBuilder {
	return &DefaultNetworkBuilder{
		RetryLoopLimit: retryLoopLimit,
		Formulation:    formulation,
		Logger:         logger,
	}
}

// Build runs the fixpoint conversion of every asset, checks supply/return
// carriers, maps asset ports onto component ports and wires all
// connections. No network is returned on error.
func (nb *DefaultNetworkBuilder) Build(graph *domain.AssetGraph, converter port.AssetConverter) (*domain.Network, error) {
	b := &buildContext{
		graph:        graph,
		network:      domain.NewNetwork(graph.Name, nb.formulation()),
		components:   make(map[string]*domain.Component),
		portMap:      make(map[string]component.PortRef),
		skipped:      make(map[string]bool),
		skippedPorts: make(map[string]bool),
	}

	phases := []func(*buildContext) error{
		func(b *buildContext) error { return nb.convertAssets(b, converter) },
		nb.partition,
		nb.checkCarriers,
		nb.mapPorts,
		nb.wireNodes,
		nb.wireRemaining,
	}
	for _, phase := range phases {
		if err := phase(b); err != nil {
			return nil, err
		}
	}

	nb.Logger.Info("network built",
		zap.String("network", graph.Name),
		zap.Int("components", len(b.network.Components())),
		zap.Int("connections", len(b.network.Connections())),
		zap.Int("skipped", len(b.network.Skipped)),
		zap.Int("rounds", b.network.Rounds))
	return b.network, nil
}

func (nb *DefaultNetworkBuilder) retryLoopLimit() int {
	if nb.RetryLoopLimit <= 0 {
		return DEFAULT_RETRY_LOOP_LIMIT
	}
	return nb.RetryLoopLimit
}

func (nb *DefaultNetworkBuilder) formulation() component.Formulation {
	if nb.Formulation == "" {
		return component.FORMULATION_HEAT
	}
	return nb.Formulation
}

// convertAssets calls the converter on every pending asset, round after
// round, until none is pending or the retry limit is reached.
func (nb *DefaultNetworkBuilder) convertAssets(b *buildContext, converter port.AssetConverter) error {
	pending := b.graph.Assets()
	limit := nb.retryLoopLimit()

	for round := 1; round <= limit; round++ {
		current := pending
		pending = nil

		for _, asset := range current {
			conv, err := converter.Convert(asset, b)
			if err != nil {
				return fmt.Errorf("convert asset %s: %w", asset.Name, err)
			}
			switch conv.Outcome {
			case domain.OUTCOME_SKIP:
				nb.Logger.Debug("asset skipped", zap.String("asset", asset.Name), zap.String("reason", conv.Reason))
				b.skip(asset)
			case domain.OUTCOME_RETRY_LATER:
				pending = append(pending, asset)
			case domain.OUTCOME_CONVERTED:
				c, err := b.network.AddComponent(conv.Kind, asset.Name, conv.Modifiers)
				if err != nil {
					return fmt.Errorf("convert asset %s: %w", asset.Name, err)
				}
				b.components[asset.Id] = c
			default:
				return fmt.Errorf("convert asset %s: unknown outcome %d", asset.Name, conv.Outcome)
			}
		}

		nb.Logger.Debug("conversion round", zap.Int("round", round), zap.Int("pending", len(pending)))
		if len(pending) == 0 {
			b.network.Rounds = round
			return nil
		}
	}

	names := make([]string, len(pending))
	for i, a := range pending {
		names[i] = a.Name
	}
	return &domain.UnresolvedDependencyError{Rounds: limit, Pending: names}
}

func (b *buildContext) skip(asset *domain.Asset) {
	b.skipped[asset.Id] = true
	b.network.Skipped = append(b.network.Skipped, asset.Name)
	for _, p := range asset.Ports() {
		b.skippedPorts[p.Id] = true
	}
}

// partition builds the pipe-or-node, node and non-node views over the
// surviving assets, in graph order.
func (nb *DefaultNetworkBuilder) partition(b *buildContext) error {
	for _, asset := range b.graph.Assets() {
		if b.skipped[asset.Id] {
			continue
		}
		isNode := asset.AssetType == domain.ASSET_TYPE_JOINT
		if isNode || asset.AssetType == domain.ASSET_TYPE_PIPE {
			b.pipesAndNodes = append(b.pipesAndNodes, asset)
		}
		if isNode {
			b.nodes = append(b.nodes, asset)
		} else {
			b.nonNodes = append(b.nonNodes, asset)
		}
	}
	return nil
}
