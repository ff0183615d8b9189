package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPortNames(t *testing.T) {

	assert := assert.New(t)

	assert.Equal("pipe1.HeatIn", Port("pipe1", ROLE_IN).Name(FORMULATION_HEAT))
	assert.Equal("pipe1.QTHOut", Port("pipe1", ROLE_OUT).Name(FORMULATION_QTH))
	assert.Equal("hp1.Primary.HeatIn", Port("hp1", ROLE_PRIMARY_IN).Name(FORMULATION_HEAT))
	assert.Equal("hp1.Secondary.HeatOut", Port("hp1", ROLE_SECONDARY_OUT).Name(FORMULATION_HEAT))
	assert.Equal("node1.HeatConn[3]", Conn("node1", 3).Name(FORMULATION_HEAT))
}

func TestPortStateNames(t *testing.T) {

	assert := assert.New(t)

	assert.Equal([]string{"pipe1.HeatIn.Q", "pipe1.HeatIn.H", "pipe1.HeatIn.Heat"},
		Port("pipe1", ROLE_IN).StateNames(FORMULATION_HEAT))
	assert.Equal([]string{"pipe1.QTHIn.Q", "pipe1.QTHIn.H", "pipe1.QTHIn.T"},
		Port("pipe1", ROLE_IN).StateNames(FORMULATION_QTH))
}

func TestKindRoles(t *testing.T) {

	assert := assert.New(t)

	assert.True(KIND_PIPE.HasRole(ROLE_IN))
	assert.False(KIND_PIPE.HasRole(ROLE_PRIMARY_IN))
	assert.True(KIND_HEAT_PUMP.HasRole(ROLE_SECONDARY_OUT))
	assert.False(KIND_HEAT_PUMP.HasRole(ROLE_IN))
	assert.True(KIND_NODE.HasRole(ROLE_CONN))
	assert.True(KIND_HEAT_EXCHANGER.FourPort())
	assert.False(KIND_BUFFER.FourPort())
	for _, k := range Kinds() {
		assert.True(k.Valid(), "kind %s registered", k)
		assert.NotEmpty(k.Roles())
	}
}

func TestParse(t *testing.T) {

	assert := assert.New(t)

	f, err := ParseFormulation("qth")
	assert.NoError(err)
	assert.Equal(FORMULATION_QTH, f)

	_, err = ParseFormulation("qh")
	assert.Error(err)

	k, err := ParseKind("Pipe")
	assert.NoError(err)
	assert.Equal(KIND_PIPE, k)

	_, err = ParseKind("Boiler")
	assert.Error(err)
}
