package store

import (
	"go.ngs.io/ocean-forcing/internal/adapter/store/bry"
	"go.ngs.io/ocean-forcing/internal/domain"
)

// GridLoader loads the model grid.
type GridLoader interface {
	Load() (*domain.Grid, error)
}

// SourceLoader loads one variable of the external ocean product.
type SourceLoader interface {
	// Load returns the native (time, depth, lat, lon) field for a variable kind.
	Load(kind string) (*domain.SourceField, error)
}

// SliceWriter serializes finished boundary slices.
type SliceWriter interface {
	Write(h bry.Header, slices []*domain.BoundarySlice) error
}
