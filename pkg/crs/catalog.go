// Copyright (c) 2025 Daniel Nugroho
// Licensed under the MIT License

// Package crs provides lookup and resolution of Australian coordinate
// reference systems (GDA1994/GDA2020, MGA zones 50-56 and their
// geographic counterparts).
package crs

import (
	"errors"
	"fmt"
)

// Datum is the geodetic reference frame underlying a projection.
type Datum string

const (
	DatumGDA1994 Datum = "GDA1994"
	DatumGDA2020 Datum = "GDA2020"
	DatumUnknown Datum = "Unknown"
)

// Projection is the projection family of a coordinate reference system.
type Projection string

const (
	ProjectionMGA        Projection = "MGA"
	ProjectionGeographic Projection = "Geographic"
	ProjectionUnknown    Projection = "Unknown"
)

// MGA zone bounds for the supported region.
const (
	MinZone = 50
	MaxZone = 56
)

// ErrInvalidZone reports an MGA zone outside [MinZone, MaxZone]. This is a
// caller contract violation, not a recoverable runtime condition.
var ErrInvalidZone = errors.New("crs: zone outside supported range")

// ErrUnknownDatum reports a datum value the catalog has no entries for.
var ErrUnknownDatum = errors.New("crs: unknown datum")

// idRange is one row of the identifier catalog. MGA rows map a zone Z to
// the identifier base+Z; geographic rows are single fixed identifiers
// (base 0, min == max).
type idRange struct {
	datum Datum
	proj  Projection
	base  int
	min   int
	max   int
}

// idRanges is the closed identifier table. Order matters: resolution tests
// membership top to bottom and the first match wins.
var idRanges = []idRange{
	{DatumGDA1994, ProjectionMGA, 28300, 28350, 28356},
	{DatumGDA2020, ProjectionMGA, 7800, 7850, 7856},
	{DatumGDA1994, ProjectionGeographic, 0, 4283, 4283},
	{DatumGDA2020, ProjectionGeographic, 0, 7844, 7844},
}

// ResolveID returns the spatial reference identifier for an MGA datum/zone
// pair. A zone outside [MinZone, MaxZone] or an unknown datum returns an
// error wrapping ErrInvalidZone or ErrUnknownDatum.
func ResolveID(datum Datum, zone int) (int, error) {
	if zone < MinZone || zone > MaxZone {
		return 0, fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidZone, zone, MinZone, MaxZone)
	}
	for _, r := range idRanges {
		if r.datum == datum && r.proj == ProjectionMGA {
			return r.base + zone, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDatum, datum)
}

// GeographicID returns the fixed identifier for a datum's geographic
// (unprojected) reference system.
func GeographicID(datum Datum) (int, error) {
	for _, r := range idRanges {
		if r.datum == datum && r.proj == ProjectionGeographic {
			return r.min, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDatum, datum)
}

// ResolveZone is the inverse of ResolveID/GeographicID. For an MGA
// identifier the returned zone is id-base; for a geographic identifier the
// zone is 0. The boolean reports whether the identifier is in the catalog.
func ResolveZone(id int) (Datum, Projection, int, bool) {
	for _, r := range idRanges {
		if id >= r.min && id <= r.max {
			zone := 0
			if r.proj == ProjectionMGA {
				zone = id - r.base
			}
			return r.datum, r.proj, zone, true
		}
	}
	return DatumUnknown, ProjectionUnknown, 0, false
}

// ParseDatum converts a user-supplied datum string to a Datum. It accepts
// the short forms used in projection labels (GDA94, GDA20) as well as the
// canonical names.
func ParseDatum(s string) (Datum, error) {
	switch s {
	case "GDA1994", "GDA94", "MGA1994":
		return DatumGDA1994, nil
	case "GDA2020", "GDA20", "MGA2020":
		return DatumGDA2020, nil
	}
	return DatumUnknown, fmt.Errorf("%w: %q", ErrUnknownDatum, s)
}
