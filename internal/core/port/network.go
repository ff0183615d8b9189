package port

import (
	"github.com/berfenger/heatnet/internal/core/domain"
)

// ConvertedAssets gives a converter read access to the components built so
// far, keyed by asset id.
type ConvertedAssets interface {
	Converted(assetId string) (*domain.Component, bool)
	// Skipped reports whether the asset was excluded from the network.
	Skipped(assetId string) bool
}

// AssetConverter decides, for one asset, whether it becomes a component,
// is excluded, or has to wait for other assets.
type AssetConverter interface {
	Convert(asset *domain.Asset, done ConvertedAssets) (domain.Conversion, error)
}

// NetworkBuilder turns an asset graph into a connected component network.
type NetworkBuilder interface {
	Build(graph *domain.AssetGraph, converter AssetConverter) (*domain.Network, error)
}

// AssetGraphLoader reads an asset graph from a named document.
type AssetGraphLoader interface {
	LoadFile(name, path string) (*domain.AssetGraph, error)
	Load(name string, data []byte) (*domain.AssetGraph, error)
}

// ConversionRecorder observes conversion results.
type ConversionRecorder interface {
	ObserveConversion(report domain.NetworkReport, seconds float64)
}
