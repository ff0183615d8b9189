package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadLossCoefficient(t *testing.T) {

	require := require.New(t)

	c, err := HeadLossCoefficient(1000, 0.2, DEFAULT_FRICTION_FACTOR)
	require.NoError(err)
	require.InDelta(0.04*1000/(2*9.81*0.2), c, 1e-12)

	_, err = HeadLossCoefficient(1000, 0, DEFAULT_FRICTION_FACTOR)
	require.Error(err)

	_, err = HeadLossCoefficient(-1, 0.2, DEFAULT_FRICTION_FACTOR)
	require.Error(err)
}

func TestHeadLoss(t *testing.T) {

	c := 10.0
	d := 0.1
	q := CrossSectionArea(d) * 2 // v = 2 m/s
	assert.InDelta(t, 40.0, HeadLoss(c, d, q), 1e-9)
}

func TestPipeClasses(t *testing.T) {

	assert := assert.New(t)

	classes := PipeClasses()
	assert.Len(classes, 16)
	for i := 1; i < len(classes); i++ {
		assert.Greater(classes[i].InnerDiameter, classes[i-1].InnerDiameter, "sorted by diameter")
	}

	// copy must not alias the catalogue
	classes[1].InnerDiameter = 42
	dn40, err := PipeClassByName("DN40")
	assert.NoError(err)
	assert.Equal(0.0431, dn40.InnerDiameter)
	assert.InDelta(math.Pi*0.0431*0.0431/4*1.5, dn40.MaximumDischarge(), 1e-12)

	_, err = PipeClassByName("DN1000")
	assert.Error(err)
}

func TestHeatPumpBalance(t *testing.T) {

	assert := assert.New(t)

	eqs := HeatPumpBalance("hp1", "Heat")
	assert.Len(eqs, 6)
	for _, eq := range eqs {
		assert.True(eq.IsEquality(), eq.Name)
	}
	assert.Equal("hp1.energy_balance", eqs[2].Name)
	assert.Contains(eqs[0].Expression, "hp1.Primary.HeatOut.H")

	hl := PipeHeadLoss("pipe1", 2.0, 0.1)
	assert.False(hl.IsEquality())
	assert.True(math.IsInf(hl.Upper, 1))
	assert.Contains(hl.String(), "pipe1.head_loss")
}
