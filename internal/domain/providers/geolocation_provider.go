package providers

import (
	"context"
	"errors"
)

// Geocode failure modes. Callers decide whether an unresolved origin means
// "skip radius filtering" or "abort"; the provider never retries on its own.
var (
	// ErrNoMatch indicates the address was ambiguous or unknown.
	ErrNoMatch = errors.New("geocode: no match for address")

	// ErrUnavailable indicates a transport or upstream failure.
	ErrUnavailable = errors.New("geocode: service unavailable")
)

// Geocoder resolves a free-form address or postal code to coordinates.
type Geocoder interface {
	// Geocode converts an address to coordinates. Returns an error wrapping
	// ErrNoMatch or ErrUnavailable on failure.
	Geocode(ctx context.Context, address string) (*Coordinates, error)
}

// Coordinates represents geographical coordinates.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}
