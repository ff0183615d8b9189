package service

import (
	"math"
	"testing"

	"github.com/berfenger/heatnet/internal/core/domain"
	"github.com/berfenger/heatnet/pkg/component"
	"github.com/berfenger/heatnet/pkg/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// convertedMap holds converted components; a nil entry marks a skipped asset.
type convertedMap map[string]*domain.Component

func (m convertedMap) Converted(assetId string) (*domain.Component, bool) {
	c, ok := m[assetId]
	return c, ok && c != nil
}

func (m convertedMap) Skipped(assetId string) bool {
	c, ok := m[assetId]
	return ok && c == nil
}

func testConverter() *HeatConverter {
	return NewHeatConverter(2.0, zap.NewNop())
}

func TestHeatConverterPipe(t *testing.T) {

	assert := assert.New(t)
	require := require.New(t)

	g := newTestGraph()
	p := g.pipe("p1")
	g.pipe("p2")
	g.connect(t, "p1_out", "p2_in")

	conv, err := testConverter().Convert(p, convertedMap{})
	require.NoError(err)
	require.Equal(domain.OUTCOME_CONVERTED, conv.Outcome)
	assert.Equal(component.KIND_PIPE, conv.Kind)

	area := math.Pi * 0.1 * 0.1 / 4
	q, _ := conv.Modifiers.Float("Q_nominal")
	assert.InDelta(area*2.0, q, 1e-12)
	c, _ := conv.Modifiers.Float("head_loss_coefficient")
	assert.InDelta(physics.DEFAULT_FRICTION_FACTOR*100/(2*physics.GRAVITATIONAL_CONSTANT*0.1), c, 1e-12)
	temp, _ := conv.Modifiers.Float("temperature")
	assert.Equal(70.0, temp)
}

func TestHeatConverterPipeClass(t *testing.T) {

	assert := assert.New(t)
	require := require.New(t)

	g := newTestGraph()
	p := g.twoPort("p1", domain.ASSET_TYPE_PIPE, CARRIER_HEAT, map[string]float64{"length": 50, "dn": 150})
	g.pipe("p2")
	g.connect(t, "p1_out", "p2_in")

	conv, err := testConverter().Convert(p, convertedMap{})
	require.NoError(err)
	d, _ := conv.Modifiers.Float("diameter")
	assert.Equal(0.1603, d)
	v, _ := conv.Modifiers.Float("maximum_velocity")
	assert.Equal(2.8, v)

	bad := g.twoPort("p3", domain.ASSET_TYPE_PIPE, CARRIER_HEAT, map[string]float64{"length": 50, "dn": 42})
	g.connect(t, "p3_out", "p2_out")
	_, err = testConverter().Convert(bad, convertedMap{})
	assert.Error(err)
}

func TestHeatConverterPipeMissingAttribute(t *testing.T) {

	assert := assert.New(t)

	g := newTestGraph()
	p := g.twoPort("p1", domain.ASSET_TYPE_PIPE, CARRIER_HEAT, map[string]float64{"diameter": 0.1})
	g.pipe("p2")
	g.connect(t, "p1_out", "p2_in")

	_, err := testConverter().Convert(p, convertedMap{})
	assert.ErrorIs(err, ErrMissingAttribute)
	assert.ErrorContains(err, "length")
}

func TestHeatConverterSkips(t *testing.T) {

	assert := assert.New(t)
	require := require.New(t)

	g := newTestGraph()
	cable := g.twoPort("cable", domain.AssetType("ElectricityCable"), CARRIER_HEAT, nil)
	lonely := g.pipe("lonely")

	conv, err := testConverter().Convert(cable, convertedMap{})
	require.NoError(err)
	assert.Equal(domain.OUTCOME_SKIP, conv.Outcome)

	conv, err = testConverter().Convert(lonely, convertedMap{})
	require.NoError(err)
	assert.Equal(domain.OUTCOME_SKIP, conv.Outcome)
	assert.Equal("asset is not connected", conv.Reason)
}

func TestHeatConverterWaitsForPipes(t *testing.T) {

	assert := assert.New(t)
	require := require.New(t)

	g := newTestGraph()
	demand := g.twoPort("demand", domain.ASSET_TYPE_HEATING_DEMAND, CARRIER_HEAT, map[string]float64{"power": 1e6})
	g.pipe("small")
	g.twoPort("big", domain.ASSET_TYPE_PIPE, CARRIER_HEAT, map[string]float64{"length": 10, "diameter": 0.3})
	g.connect(t, "small_out", "demand_in")
	g.connect(t, "demand_out", "big_in")

	hc := testConverter()
	conv, err := hc.Convert(demand, convertedMap{})
	require.NoError(err)
	assert.Equal(domain.OUTCOME_RETRY_LATER, conv.Outcome)
	assert.Contains(conv.Reason, "small")

	done := convertedMap{}
	for _, name := range []string{"small", "big"} {
		a, _ := g.build(t).Asset(name)
		c, err := hc.Convert(a, done)
		require.NoError(err)
		done[name] = &domain.Component{Name: name, Kind: c.Kind, Modifiers: c.Modifiers}
	}

	conv, err = hc.Convert(demand, done)
	require.NoError(err)
	require.Equal(domain.OUTCOME_CONVERTED, conv.Outcome)
	assert.Equal(component.KIND_DEMAND, conv.Kind)
	q, _ := conv.Modifiers.Float("Q_nominal")
	bigQ, _ := done["big"].Modifiers.Float("Q_nominal")
	assert.Equal(bigQ, q, "largest connected pipe wins")
	power, _ := conv.Modifiers.Float("power")
	assert.Equal(1e6, power)
}

func TestHeatConverterIgnoresSkippedPipes(t *testing.T) {

	assert := assert.New(t)
	require := require.New(t)

	g := newTestGraph()
	demand := g.twoPort("demand", domain.ASSET_TYPE_HEATING_DEMAND, CARRIER_HEAT, nil)
	g.pipe("gone")
	g.connect(t, "gone_out", "demand_in")

	conv, err := testConverter().Convert(demand, convertedMap{"gone": nil})
	require.NoError(err)
	require.Equal(domain.OUTCOME_CONVERTED, conv.Outcome)
	q, _ := conv.Modifiers.Float("Q_nominal")
	assert.Equal(DEFAULT_Q_NOMINAL, q)
}

func TestHeatConverterDefaultNominal(t *testing.T) {

	assert := assert.New(t)
	require := require.New(t)

	g := newTestGraph()
	src := g.twoPort("src", domain.ASSET_TYPE_RESIDUAL_HEAT_SOURCE, CARRIER_HEAT, nil)
	g.twoPort("node", domain.ASSET_TYPE_JOINT, CARRIER_HEAT, nil)
	g.connect(t, "src_out", "node_in")

	conv, err := testConverter().Convert(src, convertedMap{})
	require.NoError(err)
	assert.Equal(component.KIND_SOURCE, conv.Kind)
	q, _ := conv.Modifiers.Float("Q_nominal")
	assert.Equal(DEFAULT_Q_NOMINAL, q)
}

func TestHeatConverterNode(t *testing.T) {

	assert := assert.New(t)
	require := require.New(t)

	g := newTestGraph()
	node := g.twoPort("node", domain.ASSET_TYPE_JOINT, CARRIER_HEAT, nil)
	g.pipe("a")
	g.pipe("b")
	g.pipe("c")
	g.connect(t, "a_out", "node_in")
	g.connect(t, "node_out", "b_in")
	g.connect(t, "node_out", "c_in")

	conv, err := testConverter().Convert(node, convertedMap{})
	require.NoError(err)
	assert.Equal(component.KIND_NODE, conv.Kind)
	assert.Equal(3, conv.Modifiers["n"])

	conv, err = testConverter().Convert(node, convertedMap{"c": nil})
	require.NoError(err)
	assert.Equal(2, conv.Modifiers[domain.MODIFIER_NODE_CONNECTIONS], "skipped neighbours are not counted")
}

func TestHeatConverterHeatPump(t *testing.T) {

	assert := assert.New(t)
	require := require.New(t)

	g := newTestGraph()
	hp := g.asset("hp", domain.ASSET_TYPE_HEAT_PUMP, map[string]float64{"cop": 4.5})
	g.inPort(hp, "hp_in_supply", CARRIER_PRIM)
	g.inPort(hp, "hp_in_return", CARRIER_SEC_RET)
	g.outPort(hp, "hp_out_return", CARRIER_PRIM_RET)
	g.outPort(hp, "hp_out_supply", CARRIER_SEC)
	g.twoPort("prim", domain.ASSET_TYPE_PIPE, CARRIER_PRIM, map[string]float64{"length": 10, "diameter": 0.2})
	g.connect(t, "prim_out", "hp_in_supply")

	hc := testConverter()
	conv, err := hc.Convert(hp, convertedMap{})
	require.NoError(err)
	assert.Equal(domain.OUTCOME_RETRY_LATER, conv.Outcome)

	prim, _ := g.build(t).Asset("prim")
	pc, err := hc.Convert(prim, convertedMap{})
	require.NoError(err)
	done := convertedMap{"prim": {Name: "prim", Kind: pc.Kind, Modifiers: pc.Modifiers}}

	conv, err = hc.Convert(hp, done)
	require.NoError(err)
	require.Equal(domain.OUTCOME_CONVERTED, conv.Outcome)
	assert.Equal(component.KIND_HEAT_PUMP, conv.Kind)
	cop, _ := conv.Modifiers.Float("COP")
	assert.Equal(4.5, cop)
	_, hasLower := conv.Modifiers["cop"]
	assert.False(hasLower)

	primQ, _ := conv.Modifiers.Sub("Primary").Float("Q_nominal")
	pipeQ, _ := pc.Modifiers.Float("Q_nominal")
	assert.Equal(pipeQ, primQ)
	primT, _ := conv.Modifiers.Sub("Primary").Float("temperature")
	assert.Equal(30.0, primT)
	secT, _ := conv.Modifiers.Sub("Secondary").Float("temperature")
	assert.Equal(50.0, secT)
	secQ, _ := conv.Modifiers.Sub("Secondary").Float("Q_nominal")
	assert.Equal(DEFAULT_Q_NOMINAL, secQ)

	delete(hp.Attributes, "cop")
	_, err = hc.Convert(hp, done)
	assert.ErrorIs(err, ErrMissingAttribute)
}

func TestKindOf(t *testing.T) {

	assert := assert.New(t)

	k, ok := KindOf(domain.ASSET_TYPE_GENERIC_CONVERSION)
	assert.True(ok)
	assert.Equal(component.KIND_HEAT_PUMP, k)
	k, _ = KindOf(domain.ASSET_TYPE_HEAT_EXCHANGE)
	assert.True(k.FourPort())
	_, ok = KindOf(domain.AssetType("PVInstallation"))
	assert.False(ok)
}
