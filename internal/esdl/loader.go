package esdl

import (
	"errors"
	"fmt"
	"os"

	"github.com/berfenger/heatnet/internal/core/domain"
	"github.com/berfenger/heatnet/internal/core/port"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	validate = validator.New()

	ErrInvalidDocument = errors.New("invalid asset graph document")
)

// Loader reads asset graph documents.
type Loader struct {
	logger *zap.Logger
}

// ensure interface compliance
var _ port.AssetGraphLoader = (*Loader)(nil)

func NewLoader(logger *zap.Logger) *Loader {
	return &Loader{logger: logger}
}

func (l *Loader) LoadFile(name, path string) (*domain.AssetGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("loading asset graph", zap.String("network", name), zap.String("path", path))
	return l.Load(name, data)
}

// Load decodes and validates a document and resolves it into an asset
// graph. A non-empty name overrides the document name.
func (l *Loader) Load(name string, data []byte) (*domain.AssetGraph, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if name != "" {
		doc.Name = name
	}
	return Resolve(doc)
}

// Resolve validates doc and builds the asset graph. Connections listed on
// one side only are made symmetric.
func Resolve(doc Document) (*domain.AssetGraph, error) {
	if err := validate.Struct(doc); err != nil {
		return nil, formatValidationError(err)
	}

	carriers := make(map[string]domain.Carrier, len(doc.Carriers))
	for _, c := range doc.Carriers {
		carriers[c.Id] = domain.Carrier{Id: c.Id, Name: c.Name, Temperature: c.Temperature}
	}
	props := domain.GlobalProperties{Carriers: carriers}

	ports := make(map[string]*domain.Port)
	newPort := func(asset AssetDocument, p PortDocument, direction domain.PortDirection) (*domain.Port, error) {
		if _, exists := ports[p.Id]; exists {
			return nil, fmt.Errorf("%w: port id %s is used twice", ErrInvalidDocument, p.Id)
		}
		carrier, ok := carriers[p.Carrier]
		if !ok {
			return nil, fmt.Errorf("%w: port %s of asset %s references unknown carrier %s", ErrInvalidDocument, p.Id, asset.Name, p.Carrier)
		}
		created := domain.NewPort(p.Id, direction, &carrier)
		ports[p.Id] = created
		return created, nil
	}

	graph, err := domain.NewAssetGraph(doc.Name)
	if err != nil {
		return nil, err
	}
	for _, a := range doc.Assets {
		asset := &domain.Asset{
			Id:               a.Id,
			Name:             a.Name,
			AssetType:        domain.AssetType(a.Type),
			Attributes:       a.Attributes,
			GlobalProperties: props,
		}
		if asset.Attributes == nil {
			asset.Attributes = map[string]float64{}
		}
		for _, p := range a.InPorts {
			in, err := newPort(a, p, domain.PORT_IN)
			if err != nil {
				return nil, err
			}
			asset.AddInPort(in)
		}
		for _, p := range a.OutPorts {
			out, err := newPort(a, p, domain.PORT_OUT)
			if err != nil {
				return nil, err
			}
			asset.AddOutPort(out)
		}
		if err := graph.Add(asset); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	}

	// second pass, every port exists now
	for _, a := range doc.Assets {
		for _, p := range append(append([]PortDocument{}, a.InPorts...), a.OutPorts...) {
			for _, target := range p.ConnectedTo {
				other, ok := ports[target]
				if !ok {
					return nil, fmt.Errorf("%w: port %s of asset %s is connected to unknown port %s", ErrInvalidDocument, p.Id, a.Name, target)
				}
				if other.Id == p.Id {
					return nil, fmt.Errorf("%w: port %s is connected to itself", ErrInvalidDocument, p.Id)
				}
				ports[p.Id].ConnectTo(other)
			}
		}
	}
	return graph, nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	// first validation error only
	for _, e := range validationErrs {
		field := e.Namespace()
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%w: %s is required", ErrInvalidDocument, field)
		case "min":
			return fmt.Errorf("%w: %s must have at least %s element(s)", ErrInvalidDocument, field, e.Param())
		case "unique":
			return fmt.Errorf("%w: %s must have unique %s values", ErrInvalidDocument, field, e.Param())
		default:
			return fmt.Errorf("%w: %s failed validation (%s)", ErrInvalidDocument, field, e.Tag())
		}
	}
	return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
}
