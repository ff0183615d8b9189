package domain

import (
	"testing"

	"github.com/berfenger/heatnet/pkg/component"
	"github.com/stretchr/testify/assert"
)

func TestConversionConstructors(t *testing.T) {

	assert := assert.New(t)

	c := Converted(component.KIND_PIPE, Modifiers{"length": 1.0})
	assert.Equal(OUTCOME_CONVERTED, c.Outcome)
	assert.Equal("converted", c.Outcome.String())
	assert.Equal(OUTCOME_SKIP, Skip("electricity").Outcome)
	assert.Equal("retry_later", RetryLater("pipe pending").Outcome.String())
}

func TestMergeModifiers(t *testing.T) {

	assert := assert.New(t)

	base := Modifiers{
		"COP":     4.0,
		"Primary": Modifiers{"Q_nominal": 1.0, "T_supply": 70.0},
	}
	merged := MergeModifiers(base, Modifiers{
		"Primary": Modifiers{"Q_nominal": 2.0},
		"extra":   1,
	})

	assert.Equal(2.0, merged.Sub("Primary")["Q_nominal"])
	assert.Equal(70.0, merged.Sub("Primary")["T_supply"])
	assert.Equal(1.0, base.Sub("Primary")["Q_nominal"], "base untouched")

	v, ok := merged.Float("extra")
	assert.True(ok)
	assert.Equal(1.0, v)
	_, ok = merged.Float("Primary")
	assert.False(ok)
	assert.Nil(merged.Sub("COP"))
}
