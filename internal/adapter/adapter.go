package adapter

import (
	"context"
	"net/url"

	"adaptkit/internal/domain"
)

// Adapter defines the interface for element extractors
type Adapter interface {
	// ID returns the unique identifier for this adapter
	ID() string

	// IsApplicable reports whether the adapter can extract elements from the artifact
	IsApplicable(uri *url.URL) bool

	// Extract returns the elements found in the artifact.
	// An error means the input was malformed for this adapter.
	Extract(ctx context.Context, uri *url.URL) ([]domain.Element, error)
}

// Descriptor declares an adapter's metadata
type Descriptor struct {
	// ID is the unique adapter identifier
	ID string `json:"id"`
	// Name is the display name
	Name string `json:"name"`
	// Icon is the declared icon path; it is never loaded
	Icon string `json:"icon,omitempty"`
	// Kinds lists the element kinds this adapter owns
	Kinds []domain.ElementKind `json:"kinds"`
}

// Factory constructs an adapter from its settings
type Factory func(settings map[string]any) (Adapter, error)

// Registration is one row of the registration table
type Registration struct {
	Descriptor Descriptor
	Factory    Factory
}

// AdapterConfig holds configuration for an adapter instance
type AdapterConfig struct {
	// Enabled determines if the adapter takes part in resolution
	Enabled bool `json:"enabled"`
	// Settings holds adapter-specific configuration
	Settings map[string]any `json:"settings,omitempty"`
}

// DefaultAdapterConfig enables the adapter with no settings
func DefaultAdapterConfig() AdapterConfig {
	return AdapterConfig{Enabled: true}
}

// Source provides the adapter universe for one resolve or extract call
type Source interface {
	Adapters() []Adapter
}
