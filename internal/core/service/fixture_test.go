package service

import (
	"testing"

	"github.com/berfenger/heatnet/internal/core/domain"
	"github.com/berfenger/heatnet/internal/core/port"
	"github.com/berfenger/heatnet/pkg/component"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	CARRIER_HEAT     = "c_heat"
	CARRIER_HEAT_RET = "c_heat_ret"
	CARRIER_PRIM     = "c_prim"
	CARRIER_PRIM_RET = "c_prim_ret"
	CARRIER_SEC      = "c_sec"
	CARRIER_SEC_RET  = "c_sec_ret"
)

// testGraph assembles asset graphs by asset name. Asset ids are the names,
// two-port assets get the port ids <name>_in and <name>_out.
type testGraph struct {
	props  domain.GlobalProperties
	assets []*domain.Asset
	ports  map[string]*domain.Port
}

func newTestGraph() *testGraph {
	return &testGraph{
		props: domain.GlobalProperties{Carriers: map[string]domain.Carrier{
			CARRIER_HEAT:     {Id: CARRIER_HEAT, Name: "Heat", Temperature: 70},
			CARRIER_HEAT_RET: {Id: CARRIER_HEAT_RET, Name: "Heat_ret", Temperature: 40},
			CARRIER_PRIM:     {Id: CARRIER_PRIM, Name: "Prim", Temperature: 30},
			CARRIER_PRIM_RET: {Id: CARRIER_PRIM_RET, Name: "Prim_ret", Temperature: 20},
			CARRIER_SEC:      {Id: CARRIER_SEC, Name: "Sec", Temperature: 80},
			CARRIER_SEC_RET:  {Id: CARRIER_SEC_RET, Name: "Sec_ret", Temperature: 50},
			"c_cold":         {Id: "c_cold", Name: "Cold", Temperature: 10},
		}},
		ports: make(map[string]*domain.Port),
	}
}

func (g *testGraph) carrier(id string) *domain.Carrier {
	c := g.props.Carriers[id]
	return &c
}

func (g *testGraph) asset(name string, assetType domain.AssetType, attributes map[string]float64) *domain.Asset {
	a := &domain.Asset{
		Id:               name,
		Name:             name,
		AssetType:        assetType,
		Attributes:       attributes,
		GlobalProperties: g.props,
	}
	g.assets = append(g.assets, a)
	return a
}

func (g *testGraph) inPort(a *domain.Asset, id, carrier string) {
	g.ports[id] = a.AddInPort(domain.NewPort(id, domain.PORT_IN, g.carrier(carrier)))
}

func (g *testGraph) outPort(a *domain.Asset, id, carrier string) {
	g.ports[id] = a.AddOutPort(domain.NewPort(id, domain.PORT_OUT, g.carrier(carrier)))
}

func (g *testGraph) twoPort(name string, assetType domain.AssetType, carrier string, attributes map[string]float64) *domain.Asset {
	a := g.asset(name, assetType, attributes)
	g.inPort(a, name+"_in", carrier)
	g.outPort(a, name+"_out", carrier)
	return a
}

func (g *testGraph) pipe(name string) *domain.Asset {
	return g.twoPort(name, domain.ASSET_TYPE_PIPE, CARRIER_HEAT, map[string]float64{"length": 100, "diameter": 0.1})
}

func (g *testGraph) connect(t *testing.T, a, b string) {
	pa, ok := g.ports[a]
	require.True(t, ok, "port %s", a)
	pb, ok := g.ports[b]
	require.True(t, ok, "port %s", b)
	pa.ConnectTo(pb)
}

func (g *testGraph) build(t *testing.T) *domain.AssetGraph {
	graph, err := domain.NewAssetGraph("test", g.assets...)
	require.NoError(t, err)
	return graph
}

// scriptedConverter converts by asset type and lets tests declare
// dependencies between assets.
type scriptedConverter struct {
	waitFor map[string]string
	skip    map[string]bool
	calls   int
}

var _ port.AssetConverter = (*scriptedConverter)(nil)

func (c *scriptedConverter) Convert(asset *domain.Asset, done port.ConvertedAssets) (domain.Conversion, error) {
	c.calls++
	if c.skip[asset.Name] {
		return domain.Skip("scripted"), nil
	}
	if dep, ok := c.waitFor[asset.Name]; ok {
		if _, ok := done.Converted(dep); !ok {
			return domain.RetryLater("waiting for " + dep), nil
		}
	}
	kind, ok := KindOf(asset.AssetType)
	if !ok {
		return domain.Skip("unsupported"), nil
	}
	return domain.Converted(kind, domain.Modifiers{}), nil
}

func testBuilder(retryLimit int) *DefaultNetworkBuilder {
	return NewNetworkBuilder(retryLimit, component.FORMULATION_HEAT, zap.Must(zap.NewDevelopment()))
}
