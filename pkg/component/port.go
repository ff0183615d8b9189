package component

import (
	"fmt"
	"strings"
)

// Formulation selects the hydraulic/thermal port variables of every component.
type Formulation string

const (
	// FORMULATION_HEAT uses flow, head and heat per port.
	FORMULATION_HEAT Formulation = "Heat"
	// FORMULATION_QTH uses flow, head and temperature per port.
	FORMULATION_QTH Formulation = "QTH"
)

func ParseFormulation(s string) (Formulation, error) {
	switch strings.ToLower(s) {
	case "heat":
		return FORMULATION_HEAT, nil
	case "qth":
		return FORMULATION_QTH, nil
	}
	return "", fmt.Errorf("unknown formulation %q", s)
}

// Prefix is prepended to port names, e.g. HeatIn or QTHOut.
func (f Formulation) Prefix() string {
	return string(f)
}

// States returns the state variables carried by every port.
func (f Formulation) States() []string {
	if f == FORMULATION_QTH {
		return []string{"Q", "H", "T"}
	}
	return []string{"Q", "H", "Heat"}
}

// Role addresses one named sub-port of a component.
type Role int

const (
	ROLE_IN Role = iota
	ROLE_OUT
	ROLE_PRIMARY_IN
	ROLE_PRIMARY_OUT
	ROLE_SECONDARY_IN
	ROLE_SECONDARY_OUT
	ROLE_CONN
)

func (r Role) circuit() string {
	switch r {
	case ROLE_PRIMARY_IN, ROLE_PRIMARY_OUT:
		return "Primary."
	case ROLE_SECONDARY_IN, ROLE_SECONDARY_OUT:
		return "Secondary."
	}
	return ""
}

func (r Role) suffix() string {
	switch r {
	case ROLE_IN, ROLE_PRIMARY_IN, ROLE_SECONDARY_IN:
		return "In"
	case ROLE_OUT, ROLE_PRIMARY_OUT, ROLE_SECONDARY_OUT:
		return "Out"
	case ROLE_CONN:
		return "Conn"
	}
	return "?"
}

func (r Role) String() string {
	return r.circuit() + r.suffix()
}

// PortRef is a handle to a component sub-port. Index is only used for
// ROLE_CONN and starts at 1.
type PortRef struct {
	Component string
	Role      Role
	Index     int
}

func Port(component string, role Role) PortRef {
	return PortRef{Component: component, Role: role}
}

func Conn(component string, index int) PortRef {
	return PortRef{Component: component, Role: ROLE_CONN, Index: index}
}

// Name renders the fully qualified port name for a formulation.
func (p PortRef) Name(f Formulation) string {
	name := fmt.Sprintf("%s.%s%s%s", p.Component, p.Role.circuit(), f.Prefix(), p.Role.suffix())
	if p.Role == ROLE_CONN {
		name = fmt.Sprintf("%s[%d]", name, p.Index)
	}
	return name
}

// StateNames returns the fully qualified state variable names of the port.
func (p PortRef) StateNames(f Formulation) []string {
	base := p.Name(f)
	states := f.States()
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = base + "." + s
	}
	return names
}

func (p PortRef) String() string {
	return p.Name(FORMULATION_HEAT)
}
