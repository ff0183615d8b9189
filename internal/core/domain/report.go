package domain

import (
	"github.com/berfenger/heatnet/pkg/component"

	"gonum.org/v1/gonum/mat"
)

type ComponentReport struct {
	Name string         `json:"name"`
	Kind component.Kind `json:"kind"`
}

// NetworkReport is the serializable summary of a converted network.
type NetworkReport struct {
	ID          string                `json:"id,omitempty"`
	Name        string                `json:"name"`
	Formulation component.Formulation `json:"formulation,omitempty"`
	Rounds      int                   `json:"rounds"`
	Components  []ComponentReport     `json:"components"`
	Connections [][2]string           `json:"connections"`
	Skipped     []string              `json:"skipped"`
	Error       string                `json:"error,omitempty"`
}

func (r NetworkReport) Ok() bool {
	return r.Error == ""
}

func (n *Network) Report() NetworkReport {
	report := NetworkReport{
		ID:          n.Id.String(),
		Name:        n.Name,
		Formulation: n.Formulation,
		Rounds:      n.Rounds,
		Components:  make([]ComponentReport, 0, len(n.components)),
		Connections: make([][2]string, 0, len(n.connections)),
		Skipped:     append([]string{}, n.Skipped...),
	}
	for _, c := range n.components {
		report.Components = append(report.Components, ComponentReport{Name: c.Name, Kind: c.Kind})
	}
	for _, c := range n.connections {
		report.Connections = append(report.Connections, [2]string{c.A.Name(n.Formulation), c.B.Name(n.Formulation)})
	}
	return report
}

// FailedReport describes a conversion of network name that failed with err.
func FailedReport(name string, err error) NetworkReport {
	return NetworkReport{
		Name:        name,
		Components:  []ComponentReport{},
		Connections: [][2]string{},
		Skipped:     []string{},
		Error:       err.Error(),
	}
}

// IncidenceReport is the serializable connection by port incidence matrix
// of a network, one row per connection.
type IncidenceReport struct {
	Ports []string    `json:"ports"`
	Rows  [][]float64 `json:"rows"`
}

func (n *Network) IncidenceReport() IncidenceReport {
	report := IncidenceReport{Ports: []string{}, Rows: [][]float64{}}
	m, ports := n.Incidence()
	if m == nil {
		return report
	}
	report.Ports = ports
	rows, _ := m.Dims()
	for i := 0; i < rows; i++ {
		report.Rows = append(report.Rows, mat.Row(nil, i, m))
	}
	return report
}
