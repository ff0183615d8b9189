package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortConnectToIsSymmetric(t *testing.T) {

	assert := assert.New(t)

	a := NewPort("a", PORT_OUT, nil)
	b := NewPort("b", PORT_IN, nil)

	a.ConnectTo(b)
	b.ConnectTo(a)

	assert.Len(a.ConnectedTo, 1)
	assert.Len(b.ConnectedTo, 1)
	assert.True(b.IsConnectedTo(a))
}

func TestAssetPairName(t *testing.T) {

	assert := assert.New(t)

	assert.Equal("pipe1", (&Asset{Name: "pipe1_ret"}).PairName())
	assert.Equal("pipe1", (&Asset{Name: "pipe1"}).PairName())
	assert.Equal("x_y", (&Asset{Name: "x_ret_y"}).PairName())
}

func TestAssetInCarrier(t *testing.T) {

	assert := assert.New(t)

	props := GlobalProperties{Carriers: map[string]Carrier{
		"c1": {Id: "c1", Name: "Supply", Temperature: 70},
	}}

	a := &Asset{Name: "a", GlobalProperties: props}
	_, err := a.InCarrier()
	assert.ErrorIs(err, ErrUnsupportedPortConfiguration)

	a.AddInPort(NewPort("a_in", PORT_IN, &Carrier{Id: "c1"}))
	carrier, err := a.InCarrier()
	assert.NoError(err)
	assert.Equal("Supply", carrier.Name)

	b := &Asset{Name: "b", GlobalProperties: props}
	b.AddInPort(NewPort("b_in", PORT_IN, &Carrier{Id: "missing"}))
	_, err = b.InCarrier()
	var pce *PortConfigurationError
	assert.True(errors.As(err, &pce))
	assert.Equal("b", pce.Asset)
}

func TestAssetGraphOrderAndIds(t *testing.T) {

	assert := assert.New(t)
	require := require.New(t)

	g, err := NewAssetGraph("g", &Asset{Id: "2", Name: "b"}, &Asset{Id: "1", Name: "a"})
	require.NoError(err)
	assert.Equal(2, g.Len())
	assert.Equal("b", g.Assets()[0].Name)

	a, ok := g.Asset("1")
	assert.True(ok)
	assert.Equal("a", a.Name)

	assert.Error(g.Add(&Asset{Id: "1", Name: "dup"}))
	assert.Error(g.Add(&Asset{Name: "noid"}))
}

func TestCarrierIsReturn(t *testing.T) {

	assert := assert.New(t)

	assert.True((&Carrier{Name: "Heat_ret"}).IsReturn())
	assert.False((&Carrier{Name: "Heat"}).IsReturn())
	var nilCarrier *Carrier
	assert.False(nilCarrier.IsReturn())
}

func TestCarrierPairName(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("Heat", Carrier{Name: "Heat"}.PairName())
	assert.Equal("Heat", Carrier{Name: "Heat_ret"}.PairName())
	assert.NotEqual(Carrier{Name: "Heat"}.PairName(), Carrier{Name: "Cold_ret"}.PairName())
}
