package esdl

// Document is the on-disk form of an asset graph. YAML and JSON are both
// accepted.
type Document struct {
	Name     string            `yaml:"name" json:"name" validate:"required"`
	Carriers []CarrierDocument `yaml:"carriers" json:"carriers" validate:"required,min=1,unique=Id,dive"`
	Assets   []AssetDocument   `yaml:"assets" json:"assets" validate:"required,min=1,unique=Id,dive"`
}

type CarrierDocument struct {
	Id          string  `yaml:"id" json:"id" validate:"required"`
	Name        string  `yaml:"name" json:"name" validate:"required"`
	Temperature float64 `yaml:"temperature" json:"temperature"`
}

type AssetDocument struct {
	Id         string             `yaml:"id" json:"id" validate:"required"`
	Name       string             `yaml:"name" json:"name" validate:"required"`
	Type       string             `yaml:"type" json:"type" validate:"required"`
	Attributes map[string]float64 `yaml:"attributes" json:"attributes"`
	InPorts    []PortDocument     `yaml:"in_ports" json:"in_ports" validate:"dive"`
	OutPorts   []PortDocument     `yaml:"out_ports" json:"out_ports" validate:"dive"`
}

type PortDocument struct {
	Id          string   `yaml:"id" json:"id" validate:"required"`
	Carrier     string   `yaml:"carrier" json:"carrier" validate:"required"`
	ConnectedTo []string `yaml:"connected_to" json:"connected_to" validate:"dive,required"`
}
