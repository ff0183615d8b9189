package physics

import (
	"fmt"
	"math"
)

// Equation is a constraint template lb <= Expression <= ub over state and
// parameter names of a network. The expression is opaque to this package.
type Equation struct {
	Name       string
	Expression string
	Lower      float64
	Upper      float64
}

func (e Equation) IsEquality() bool {
	return e.Lower == e.Upper
}

func (e Equation) String() string {
	if e.IsEquality() {
		return fmt.Sprintf("%s: %s = %g", e.Name, e.Expression, e.Lower)
	}
	return fmt.Sprintf("%s: %g <= %s <= %g", e.Name, e.Lower, e.Expression, e.Upper)
}

// PipeHeadLoss is the one-sided head loss relaxation -dH - c v^2 >= 0. The
// optimization objective is expected to drag it tight.
func PipeHeadLoss(pipe string, c, diameter float64) Equation {
	area := CrossSectionArea(diameter)
	return Equation{
		Name:       pipe + ".head_loss",
		Expression: fmt.Sprintf("-%s.dH - %g*(%s.Q/%g)^2", pipe, c, pipe, area),
		Lower:      0,
		Upper:      math.Inf(1),
	}
}

// HeatPumpBalance returns the energy balance of a four-port heat pump. The
// primary and secondary circuits are hydraulically decoupled, so each keeps
// its own head difference.
func HeatPumpBalance(name, prefix string) []Equation {
	eq := func(suffix, expr string) Equation {
		return Equation{Name: name + "." + suffix, Expression: expr}
	}
	return []Equation{
		eq("dH_prim", fmt.Sprintf("%[1]s.dH_prim - (%[1]s.Primary.%[2]sOut.H - %[1]s.Primary.%[2]sIn.H)", name, prefix)),
		eq("dH_sec", fmt.Sprintf("%[1]s.dH_sec - (%[1]s.Secondary.%[2]sOut.H - %[1]s.Secondary.%[2]sIn.H)", name, prefix)),
		eq("energy_balance", fmt.Sprintf("%[1]s.Primary_heat + %[1]s.Power_elec - %[1]s.Secondary_heat", name)),
		eq("cop", fmt.Sprintf("%[1]s.Secondary_heat - %[1]s.COP * %[1]s.Power_elec", name)),
		eq("primary_heat", fmt.Sprintf("%[1]s.Primary_heat - (%[1]s.Primary.%[2]sIn.Heat - %[1]s.Primary.%[2]sOut.Heat)", name, prefix)),
		eq("secondary_heat", fmt.Sprintf("%[1]s.Secondary_heat - (%[1]s.Secondary.%[2]sOut.Heat - %[1]s.Secondary.%[2]sIn.Heat)", name, prefix)),
	}
}

// HeatPumpVariables are the extra non-negative variables a heat pump adds.
func HeatPumpVariables(name string) []string {
	return []string{name + ".Primary_heat", name + ".Secondary_heat", name + ".Power_elec"}
}
