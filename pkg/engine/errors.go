package engine

import "errors"

// Sentinel errors for the failure classes a conversion can hit. Callers
// match with errors.Is; the wrapped chain keeps the underlying detail.
var (
	ErrInvalidArgument     = errors.New("engine: invalid argument")
	ErrEmptyDataset        = errors.New("engine: dataset contains no geometries")
	ErrNoMatchingGeometry  = errors.New("engine: no geometry matches the requested feature type")
	ErrUnsupportedGeometry = errors.New("engine: no supported geometry in dataset")
	ErrMalformedSource     = errors.New("engine: malformed source file")
)
