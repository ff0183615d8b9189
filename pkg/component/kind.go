package component

import "fmt"

// Kind is a typed component model with a fixed port interface.
type Kind string

const (
	KIND_PIPE           Kind = "Pipe"
	KIND_NODE           Kind = "Node"
	KIND_SOURCE         Kind = "Source"
	KIND_DEMAND         Kind = "Demand"
	KIND_BUFFER         Kind = "Buffer"
	KIND_PUMP           Kind = "Pump"
	KIND_CHECK_VALVE    Kind = "CheckValve"
	KIND_CONTROL_VALVE  Kind = "ControlValve"
	KIND_HEAT_PUMP      Kind = "HeatPump"
	KIND_HEAT_EXCHANGER Kind = "HeatExchanger"
)

var (
	twoPortRoles  = []Role{ROLE_IN, ROLE_OUT}
	fourPortRoles = []Role{ROLE_PRIMARY_IN, ROLE_PRIMARY_OUT, ROLE_SECONDARY_IN, ROLE_SECONDARY_OUT}
	nodeRoles     = []Role{ROLE_CONN}

	registry = map[Kind][]Role{
		KIND_PIPE:           twoPortRoles,
		KIND_NODE:           nodeRoles,
		KIND_SOURCE:         twoPortRoles,
		KIND_DEMAND:         twoPortRoles,
		KIND_BUFFER:         twoPortRoles,
		KIND_PUMP:           twoPortRoles,
		KIND_CHECK_VALVE:    twoPortRoles,
		KIND_CONTROL_VALVE:  twoPortRoles,
		KIND_HEAT_PUMP:      fourPortRoles,
		KIND_HEAT_EXCHANGER: fourPortRoles,
	}
)

// Kinds returns every registered kind.
func Kinds() []Kind {
	return []Kind{KIND_PIPE, KIND_NODE, KIND_SOURCE, KIND_DEMAND, KIND_BUFFER, KIND_PUMP,
		KIND_CHECK_VALVE, KIND_CONTROL_VALVE, KIND_HEAT_PUMP, KIND_HEAT_EXCHANGER}
}

func (k Kind) Valid() bool {
	_, ok := registry[k]
	return ok
}

// Roles lists the port roles a component of this kind exposes.
func (k Kind) Roles() []Role {
	return registry[k]
}

// FourPort reports whether the kind has hydraulically decoupled primary and secondary circuits.
func (k Kind) FourPort() bool {
	return k == KIND_HEAT_PUMP || k == KIND_HEAT_EXCHANGER
}

func (k Kind) IsNode() bool {
	return k == KIND_NODE
}

// HasRole reports whether role is part of the kind's port interface.
func (k Kind) HasRole(role Role) bool {
	for _, r := range registry[k] {
		if r == role {
			return true
		}
	}
	return false
}

func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown component kind %q", s)
	}
	return k, nil
}
