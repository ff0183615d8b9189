package service

import (
	"fmt"
	"time"

	"github.com/berfenger/heatnet/internal/core/domain"
	"github.com/berfenger/heatnet/internal/core/port"

	"go.uber.org/zap"
)

// ConversionService builds networks from asset graphs and reports on them.
type ConversionService struct {
	Builder   port.NetworkBuilder
	Converter port.AssetConverter
	Recorder  port.ConversionRecorder
	Logger    *zap.Logger
}

func NewConversionService(builder port.NetworkBuilder, converter port.AssetConverter, recorder port.ConversionRecorder, logger *zap.Logger) *ConversionService {
	return &ConversionService{
		Builder:   builder,
		Converter: converter,
		Recorder:  recorder,
		Logger:    logger,
	}
}

// Convert builds the network of graph and attaches its equations. The
// report is always filled, with the error message on failure.
func (s *ConversionService) Convert(graph *domain.AssetGraph) (*domain.Network, domain.NetworkReport, error) {
	start := time.Now()
	network, err := s.Builder.Build(graph, s.Converter)

	var report domain.NetworkReport
	if err != nil {
		s.Logger.Error("network conversion failed", zap.String("network", graph.Name), zap.Error(err))
		report = domain.FailedReport(graph.Name, err)
	} else {
		AttachEquations(network)
		report = network.Report()
	}

	if s.Recorder != nil {
		s.Recorder.ObserveConversion(report, time.Since(start).Seconds())
	}
	return network, report, err
}

// ConvertFile loads the document at path as network name and converts it.
// Load failures are reported and recorded like conversion failures.
func (s *ConversionService) ConvertFile(loader port.AssetGraphLoader, name, path string) (*domain.Network, domain.NetworkReport, error) {
	graph, err := loader.LoadFile(name, path)
	if err != nil {
		err = fmt.Errorf("load network %s: %w", name, err)
		s.Logger.Error("network document could not be loaded", zap.String("network", name), zap.String("path", path), zap.Error(err))
		report := domain.FailedReport(name, err)
		if s.Recorder != nil {
			s.Recorder.ObserveConversion(report, 0)
		}
		return nil, report, err
	}
	return s.Convert(graph)
}
