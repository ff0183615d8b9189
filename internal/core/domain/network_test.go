package domain

import (
	"testing"

	"github.com/berfenger/heatnet/pkg/component"
	"github.com/berfenger/heatnet/pkg/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkAddComponent(t *testing.T) {

	assert := assert.New(t)
	require := require.New(t)

	n := NewNetwork("net", component.FORMULATION_HEAT)

	c, err := n.AddComponent(component.KIND_PIPE, "pipe1", Modifiers{"length": 10.0})
	require.NoError(err)
	assert.Equal(component.KIND_PIPE, c.Kind)

	_, err = n.AddComponent(component.KIND_PIPE, "pipe1", nil)
	assert.Error(err, "duplicate name")

	_, err = n.AddComponent(component.Kind("Turbine"), "t1", nil)
	assert.Error(err, "unknown kind")

	got, ok := n.Component("pipe1")
	assert.True(ok)
	assert.Same(c, got)
	assert.Len(n.Components(), 1)
}

func TestNetworkConnect(t *testing.T) {

	assert := assert.New(t)
	require := require.New(t)

	n := NewNetwork("net", component.FORMULATION_HEAT)
	_, err := n.AddComponent(component.KIND_PIPE, "pipe1", nil)
	require.NoError(err)
	_, err = n.AddComponent(component.KIND_NODE, "node1", nil)
	require.NoError(err)
	_, err = n.AddComponent(component.KIND_HEAT_PUMP, "hp1", nil)
	require.NoError(err)

	require.NoError(n.Connect(component.Conn("node1", 1), component.Port("pipe1", component.ROLE_IN)))
	require.NoError(n.Connect(component.Conn("node1", 3), component.Port("hp1", component.ROLE_PRIMARY_OUT)))

	node, _ := n.Component("node1")
	assert.Equal(3, node.Slots(), "slots grow to highest index")

	assert.Error(n.Connect(component.Port("pipe1", component.ROLE_PRIMARY_IN), component.Conn("node1", 2)), "pipe has no primary port")
	assert.Error(n.Connect(component.Conn("node1", 0), component.Port("pipe1", component.ROLE_OUT)), "slot index starts at 1")
	assert.Error(n.Connect(component.Conn("pipe1", 1), component.Port("hp1", component.ROLE_SECONDARY_IN)), "only nodes have slots")
	assert.Error(n.Connect(component.Port("ghost", component.ROLE_IN), component.Port("pipe1", component.ROLE_OUT)), "unknown component")

	assert.Len(n.Connections(), 2)
	report := n.Report()
	assert.Equal([2]string{"node1.HeatConn[1]", "pipe1.HeatIn"}, report.Connections[0])
	assert.Equal([2]string{"node1.HeatConn[3]", "hp1.Primary.HeatOut"}, report.Connections[1])
}

func TestConnectionSetOrientation(t *testing.T) {

	assert := assert.New(t)

	s := NewConnectionSet()
	assert.True(s.Add("b", "a"))
	assert.False(s.Add("a", "b"), "reverse orientation is the same pair")
	assert.True(s.Has("a", "b"))
	assert.True(s.Has("b", "a"))
	assert.False(s.Has("a", "c"))
	assert.Equal([]PortPair{{"a", "b"}}, s.Pairs())
	assert.Equal(1, s.Len())
}

func TestNetworkStatesAndParameters(t *testing.T) {

	assert := assert.New(t)
	require := require.New(t)

	n := NewNetwork("net", component.FORMULATION_QTH)
	_, err := n.AddComponent(component.KIND_SOURCE, "src", Modifiers{"Q_nominal": 1.5})
	require.NoError(err)
	_, err = n.AddComponent(component.KIND_HEAT_PUMP, "hp", Modifiers{
		"COP":       4,
		"Primary":   Modifiers{"Q_nominal": 2.0},
		"Secondary": Modifiers{"Q_nominal": 3.0},
		"label":     "ignored",
	})
	require.NoError(err)
	n.AddVariable("hp.Power_elec")

	states := n.States()
	assert.Contains(states, "src.QTHIn.T")
	assert.Contains(states, "hp.Secondary.QTHOut.Q")
	assert.Equal("hp.Power_elec", states[len(states)-1])

	s, err := n.State("src.QTHOut.H")
	assert.NoError(err)
	assert.Equal("src.QTHOut.H", s)
	_, err = n.State("src.QTHOut.Heat")
	assert.Error(err)

	params := n.Parameters()
	assert.Equal(map[string]float64{
		"src.Q_nominal":          1.5,
		"hp.COP":                 4,
		"hp.Primary.Q_nominal":   2.0,
		"hp.Secondary.Q_nominal": 3.0,
	}, params)

	n.AddEquation(physics.Equation{Name: "e", Expression: "x", Lower: 0, Upper: 0})
	assert.Len(n.Equations(), 1)
}

func TestNetworkIncidence(t *testing.T) {

	assert := assert.New(t)
	require := require.New(t)

	n := NewNetwork("net", component.FORMULATION_HEAT)
	m, cols := n.Incidence()
	assert.Nil(m)
	assert.Nil(cols)

	_, err := n.AddComponent(component.KIND_PIPE, "p1", nil)
	require.NoError(err)
	_, err = n.AddComponent(component.KIND_PIPE, "p2", nil)
	require.NoError(err)
	require.NoError(n.Connect(component.Port("p1", component.ROLE_OUT), component.Port("p2", component.ROLE_IN)))

	m, cols = n.Incidence()
	require.NotNil(m)
	rows, c := m.Dims()
	assert.Equal(1, rows)
	assert.Equal(2, c)
	assert.Equal([]string{"p1.HeatOut", "p2.HeatIn"}, cols)
	assert.Equal(1.0, m.At(0, 0))
	assert.Equal(-1.0, m.At(0, 1))

	report := n.IncidenceReport()
	assert.Equal(cols, report.Ports)
	assert.Equal([][]float64{{1, -1}}, report.Rows)
	assert.Empty(NewNetwork("empty", component.FORMULATION_HEAT).IncidenceReport().Rows)
}

func TestNetworkReport(t *testing.T) {

	assert := assert.New(t)
	require := require.New(t)

	n := NewNetwork("net", component.FORMULATION_HEAT)
	n.Rounds = 2
	n.Skipped = []string{"cable"}
	_, err := n.AddComponent(component.KIND_DEMAND, "d1", nil)
	require.NoError(err)

	report := n.Report()
	assert.True(report.Ok())
	assert.Equal(n.Id.String(), report.ID)
	assert.Equal([]ComponentReport{{Name: "d1", Kind: component.KIND_DEMAND}}, report.Components)
	assert.Equal([]string{"cable"}, report.Skipped)
	assert.Equal(2, report.Rounds)
	assert.Empty(report.Connections)

	failed := FailedReport("net", &PortConfigurationError{Asset: "a", Reason: "r"})
	assert.False(failed.Ok())
	assert.Contains(failed.Error, "unsupported ports for asset a")
}
