package service

import (
	"github.com/berfenger/heatnet/internal/core/domain"
	"github.com/berfenger/heatnet/pkg/component"
	"github.com/berfenger/heatnet/pkg/physics"
)

// AttachEquations adds the physical constraint templates of every pipe and
// heat pump of a built network. Pipes without a head loss coefficient get
// no head loss constraint.
func AttachEquations(network *domain.Network) {
	for _, c := range network.Components() {
		switch c.Kind {
		case component.KIND_PIPE:
			coefficient, ok := c.Modifiers.Float("head_loss_coefficient")
			diameter, hasDiameter := c.Modifiers.Float(ATTRIBUTE_DIAMETER)
			if ok && hasDiameter && diameter > 0 {
				network.AddVariable(c.Name + ".dH")
				network.AddEquation(physics.PipeHeadLoss(c.Name, coefficient, diameter))
			}
		case component.KIND_HEAT_PUMP:
			for _, v := range physics.HeatPumpVariables(c.Name) {
				network.AddVariable(v)
			}
			network.AddVariable(c.Name + ".dH_prim")
			network.AddVariable(c.Name + ".dH_sec")
			for _, eq := range physics.HeatPumpBalance(c.Name, network.Formulation.Prefix()) {
				network.AddEquation(eq)
			}
		}
	}
}
