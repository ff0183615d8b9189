package physics

import (
	"fmt"
	"math"
)

const (
	GRAVITATIONAL_CONSTANT  = 9.81
	DEFAULT_FRICTION_FACTOR = 0.04
)

// PipeClass is one selectable pipe size for diameter sizing problems.
type PipeClass struct {
	Name            string
	InnerDiameter   float64    // m
	MaximumVelocity float64    // m/s
	UValues         [2]float64 // W/(m K), insulation and ground coupling
	InvestmentCost  float64    // per meter
}

func (c PipeClass) Area() float64 {
	return CrossSectionArea(c.InnerDiameter)
}

// MaximumDischarge is the flow at maximum velocity, in m3/s.
func (c PipeClass) MaximumDischarge() float64 {
	return c.Area() * c.MaximumVelocity
}

var defaultPipeClasses = []PipeClass{
	{"None", 0.0, 0.0, [2]float64{0.0, 0.0}, 0.0},
	{"DN40", 0.0431, 1.5, [2]float64{0.179091, 0.005049}, 1.0},
	{"DN50", 0.0545, 1.7, [2]float64{0.201377, 0.006086}, 1.0},
	{"DN65", 0.0703, 1.9, [2]float64{0.227114, 0.007300}, 1.0},
	{"DN80", 0.0825, 2.2, [2]float64{0.238244, 0.007611}, 1.0},
	{"DN100", 0.1071, 2.4, [2]float64{0.247804, 0.007386}, 1.0},
	{"DN125", 0.1325, 2.6, [2]float64{0.287779, 0.009431}, 1.0},
	{"DN150", 0.1603, 2.8, [2]float64{0.328592, 0.011567}, 1.0},
	{"DN200", 0.2101, 3.0, [2]float64{0.346285, 0.011215}, 1.0},
	{"DN250", 0.263, 3.0, [2]float64{0.334606, 0.009037}, 1.0},
	{"DN300", 0.3127, 3.0, [2]float64{0.384640, 0.011141}, 1.0},
	{"DN350", 0.3444, 3.0, [2]float64{0.368061, 0.009447}, 1.0},
	{"DN400", 0.3938, 3.0, [2]float64{0.381603, 0.009349}, 1.0},
	{"DN450", 0.4444, 3.0, [2]float64{0.380070, 0.008506}, 1.0},
	{"DN500", 0.4954, 3.0, [2]float64{0.369282, 0.007349}, 1.0},
	{"DN600", 0.5954, 3.0, [2]float64{0.431023, 0.009155}, 1.0},
}

// PipeClasses returns a copy of the standard DN catalogue, smallest first.
func PipeClasses() []PipeClass {
	classes := make([]PipeClass, len(defaultPipeClasses))
	copy(classes, defaultPipeClasses)
	return classes
}

func PipeClassByName(name string) (PipeClass, error) {
	for _, c := range defaultPipeClasses {
		if c.Name == name {
			return c, nil
		}
	}
	return PipeClass{}, fmt.Errorf("unknown pipe class %q", name)
}

func CrossSectionArea(diameter float64) float64 {
	return math.Pi * diameter * diameter / 4
}

// HeadLossCoefficient returns c in |dH| >= c v^2, i.e. f L / (2 g D).
func HeadLossCoefficient(length, diameter, frictionFactor float64) (float64, error) {
	if diameter <= 0 {
		return 0, fmt.Errorf("pipe diameter must be > 0, got %g", diameter)
	}
	if length < 0 {
		return 0, fmt.Errorf("pipe length must be >= 0, got %g", length)
	}
	return frictionFactor * length / (2 * GRAVITATIONAL_CONSTANT * diameter), nil
}

// HeadLoss evaluates c v^2 for a discharge q through a pipe of the given diameter.
func HeadLoss(c, diameter, q float64) float64 {
	v := q / CrossSectionArea(diameter)
	return c * v * v
}
