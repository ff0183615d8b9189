package domain

import (
	"fmt"

	"github.com/berfenger/heatnet/pkg/component"
	"github.com/berfenger/heatnet/pkg/physics"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
)

// Component is one instantiated component model of a network.
type Component struct {
	Name      string
	Kind      component.Kind
	Modifiers Modifiers
	// used node connection slots, only for KIND_NODE
	slots int
}

func (c *Component) Port(role component.Role) (component.PortRef, error) {
	if role == component.ROLE_CONN || !c.Kind.HasRole(role) {
		return component.PortRef{}, fmt.Errorf("component %s of kind %s has no port %s", c.Name, c.Kind, role)
	}
	return component.Port(c.Name, role), nil
}

// Conn returns the 1-based node connection slot i.
func (c *Component) Conn(i int) (component.PortRef, error) {
	if !c.Kind.IsNode() {
		return component.PortRef{}, fmt.Errorf("component %s of kind %s has no connection array", c.Name, c.Kind)
	}
	if i < 1 {
		return component.PortRef{}, fmt.Errorf("node %s connection index must be >= 1, got %d", c.Name, i)
	}
	return component.Conn(c.Name, i), nil
}

// Slots is the number of populated node connection slots.
func (c *Component) Slots() int {
	return c.slots
}

// Ports lists all port handles of the component, node slots included.
func (c *Component) Ports() []component.PortRef {
	if c.Kind.IsNode() {
		refs := make([]component.PortRef, 0, c.slots)
		for i := 1; i <= c.slots; i++ {
			refs = append(refs, component.Conn(c.Name, i))
		}
		return refs
	}
	roles := c.Kind.Roles()
	refs := make([]component.PortRef, len(roles))
	for i, r := range roles {
		refs[i] = component.Port(c.Name, r)
	}
	return refs
}

// Connection is a directed equality connection between two component ports.
type Connection struct {
	A component.PortRef
	B component.PortRef
}

// PortPair is an unordered pair of asset port ids, stored sorted.
type PortPair [2]string

func NewPortPair(a, b string) PortPair {
	if b < a {
		a, b = b, a
	}
	return PortPair{a, b}
}

// ConnectionSet records which asset port pairs are already wired, whichever
// side of the connection they were discovered from.
type ConnectionSet struct {
	pairs map[PortPair]struct{}
	order []PortPair
}

func NewConnectionSet() *ConnectionSet {
	return &ConnectionSet{pairs: make(map[PortPair]struct{})}
}

func (s *ConnectionSet) Has(a, b string) bool {
	_, ok := s.pairs[NewPortPair(a, b)]
	return ok
}

// Add records the pair and reports whether it was new.
func (s *ConnectionSet) Add(a, b string) bool {
	p := NewPortPair(a, b)
	if _, ok := s.pairs[p]; ok {
		return false
	}
	s.pairs[p] = struct{}{}
	s.order = append(s.order, p)
	return true
}

func (s *ConnectionSet) Len() int {
	return len(s.order)
}

// Pairs returns the pairs in insertion order.
func (s *ConnectionSet) Pairs() []PortPair {
	pairs := make([]PortPair, len(s.order))
	copy(pairs, s.order)
	return pairs
}

// Network accumulates component instances and the connections between their
// ports. It is the model handed to the optimization backend.
type Network struct {
	Id          uuid.UUID
	Name        string
	Formulation component.Formulation
	// conversion rounds needed to resolve all assets
	Rounds int
	// names of assets the converter excluded
	Skipped []string

	components  []*Component
	byName      map[string]*Component
	connections []Connection
	wired       *ConnectionSet
	variables   []string
	equations   []physics.Equation
}

func NewNetwork(name string, formulation component.Formulation) *Network {
	return &Network{
		Id:          uuid.New(),
		Name:        name,
		Formulation: formulation,
		byName:      make(map[string]*Component),
		wired:       NewConnectionSet(),
	}
}

func (n *Network) AddComponent(kind component.Kind, name string, modifiers Modifiers) (*Component, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown component kind %q for %s", kind, name)
	}
	if _, exists := n.byName[name]; exists {
		return nil, fmt.Errorf("component %s already exists in network", name)
	}
	if modifiers == nil {
		modifiers = Modifiers{}
	}
	c := &Component{Name: name, Kind: kind, Modifiers: modifiers}
	n.byName[name] = c
	n.components = append(n.components, c)
	return c, nil
}

func (n *Network) Component(name string) (*Component, bool) {
	c, ok := n.byName[name]
	return c, ok
}

func (n *Network) Components() []*Component {
	return n.components
}

func (n *Network) Connections() []Connection {
	return n.connections
}

// ConnectionSet is the set of asset port pairs wired into the network.
func (n *Network) ConnectionSet() *ConnectionSet {
	return n.wired
}

// Connect adds an equality connection between two ports of components in
// the network. Node slots grow to the highest index used.
func (n *Network) Connect(a, b component.PortRef) error {
	for _, ref := range []component.PortRef{a, b} {
		c, ok := n.byName[ref.Component]
		if !ok {
			return fmt.Errorf("connect %s: component %s not in network", ref.Name(n.Formulation), ref.Component)
		}
		if ref.Role == component.ROLE_CONN {
			if _, err := c.Conn(ref.Index); err != nil {
				return err
			}
		} else if _, err := c.Port(ref.Role); err != nil {
			return err
		}
	}
	for _, ref := range []component.PortRef{a, b} {
		if ref.Role == component.ROLE_CONN {
			c := n.byName[ref.Component]
			if ref.Index > c.slots {
				c.slots = ref.Index
			}
		}
	}
	n.connections = append(n.connections, Connection{A: a, B: b})
	return nil
}

func (n *Network) AddVariable(name string) {
	n.variables = append(n.variables, name)
}

func (n *Network) AddEquation(eq physics.Equation) {
	n.equations = append(n.equations, eq)
}

func (n *Network) Equations() []physics.Equation {
	return n.equations
}

// States lists every state variable of the network: all port states
// followed by extra variables.
func (n *Network) States() []string {
	var states []string
	for _, c := range n.components {
		for _, ref := range c.Ports() {
			states = append(states, ref.StateNames(n.Formulation)...)
		}
	}
	return append(states, n.variables...)
}

// State checks that name is a state variable of the network and returns it.
func (n *Network) State(name string) (string, error) {
	for _, s := range n.States() {
		if s == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown state %s", name)
}

// Parameters returns the numeric component modifiers keyed as component.modifier.
func (n *Network) Parameters() map[string]float64 {
	params := make(map[string]float64)
	for _, c := range n.components {
		c.Modifiers.flatten(c.Name, params)
	}
	return params
}

// Incidence returns the connection by port incidence matrix (+1 on the first
// port of a connection, -1 on the second) and the port name of each column.
// It returns nil when the network has no connections.
func (n *Network) Incidence() (*mat.Dense, []string) {
	if len(n.connections) == 0 {
		return nil, nil
	}
	index := make(map[string]int)
	var columns []string
	col := func(ref component.PortRef) int {
		name := ref.Name(n.Formulation)
		if i, ok := index[name]; ok {
			return i
		}
		index[name] = len(columns)
		columns = append(columns, name)
		return index[name]
	}
	type entry struct{ a, b int }
	entries := make([]entry, len(n.connections))
	for i, c := range n.connections {
		entries[i] = entry{col(c.A), col(c.B)}
	}
	m := mat.NewDense(len(n.connections), len(columns), nil)
	for i, e := range entries {
		m.Set(i, e.a, 1)
		m.Set(i, e.b, -1)
	}
	return m, columns
}
