package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnresolvedDependency         = errors.New("unresolved asset dependency")
	ErrCarrierMismatch              = errors.New("carrier mismatch")
	ErrUnpairedAsset                = errors.New("asset has no supply/return counterpart")
	ErrUnsupportedPortConfiguration = errors.New("unsupported port configuration")
	ErrAmbiguousConnection          = errors.New("ambiguous connection")
	ErrUnknownNetwork               = errors.New("unknown network")
)

// UnresolvedDependencyError is returned when assets are still pending after
// the retry loop limit.
type UnresolvedDependencyError struct {
	Rounds  int
	Pending []string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("parsing of assets exceeded maximum iteration limit (%d rounds), pending: %s",
		e.Rounds, strings.Join(e.Pending, ", "))
}

func (e *UnresolvedDependencyError) Unwrap() error {
	return ErrUnresolvedDependency
}

// CarrierMismatchError names a supply asset and its return counterpart whose
// carriers disagree. Counterpart is empty when no counterpart exists.
type CarrierMismatchError struct {
	Asset              string
	Counterpart        string
	Carrier            string
	CounterpartCarrier string
}

func (e *CarrierMismatchError) Error() string {
	if e.Counterpart == "" {
		return fmt.Sprintf("%s has no matching supply/return asset", e.Asset)
	}
	return fmt.Sprintf("%s and %s do not have the matching carriers specified (%s != %s)",
		e.Asset, e.Counterpart, e.Carrier, e.CounterpartCarrier)
}

func (e *CarrierMismatchError) Unwrap() error {
	if e.Counterpart == "" {
		return ErrUnpairedAsset
	}
	return ErrCarrierMismatch
}

type PortConfigurationError struct {
	Asset  string
	Reason string
}

func (e *PortConfigurationError) Error() string {
	return fmt.Sprintf("unsupported ports for asset %s: %s", e.Asset, e.Reason)
}

func (e *PortConfigurationError) Unwrap() error {
	return ErrUnsupportedPortConfiguration
}

// AmbiguousConnectionError is returned for a non-node port without exactly
// one live connection.
type AmbiguousConnectionError struct {
	Asset     string
	AssetType AssetType
	Port      string
	Live      int
}

func (e *AmbiguousConnectionError) Error() string {
	if e.Live == 0 {
		return fmt.Sprintf("%s '%s' port %s is not connected", e.AssetType, e.Asset, e.Port)
	}
	return fmt.Sprintf("%s '%s' has multiple connections (%d) to a single port %s", e.AssetType, e.Asset, e.Live, e.Port)
}

func (e *AmbiguousConnectionError) Unwrap() error {
	return ErrAmbiguousConnection
}
