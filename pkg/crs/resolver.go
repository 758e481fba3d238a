package crs

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Descriptor is the resolved description of a coordinate reference system.
// Zone and SpatialRefID are 0 when unset. Source retains the raw
// description for diagnostics when resolution came from text.
type Descriptor struct {
	Datum           Datum
	Projection      Projection
	Zone            int
	SpatialRefID    int
	SupportedRegion bool
	Source          string
}

// ErrNoCRS reports that no reference system information was available at
// all. Callers treat it as a warning: conversion proceeds and the output is
// written without projection information.
var ErrNoCRS = errors.New("crs: no reference system information")

// Label returns a human-readable name for the descriptor, suitable for
// drawing headers and log output.
func (d Descriptor) Label() string {
	switch {
	case d.Projection == ProjectionMGA && d.Zone != 0:
		return fmt.Sprintf("%s / MGA zone %d", d.Datum, d.Zone)
	case d.Projection == ProjectionMGA:
		return fmt.Sprintf("%s / MGA", d.Datum)
	case d.Projection == ProjectionGeographic:
		return fmt.Sprintf("%s geographic", d.Datum)
	case d.Source != "":
		return d.Source
	}
	return string(d.Datum)
}

// textRule is one row of the textual fallback table. Rules are evaluated
// in order; the first matching datum token wins, which makes GDA1994 the
// tie-break for strings naming both datums.
type textRule struct {
	datum  Datum
	tokens []string
}

var textRules = []textRule{
	{DatumGDA1994, []string{"GDA1994", "GDA94"}},
	{DatumGDA2020, []string{"GDA2020", "GDA20"}},
}

// zonePattern extracts a two-digit MGA zone following a ZONE token, e.g.
// "zone 55", "Zone_55" or "ZONE55".
var zonePattern = regexp.MustCompile(`ZONE[_ ]*(\d{2})`)

// authorityPattern extracts EPSG authority codes from well-known text.
var authorityPattern = regexp.MustCompile(`AUTHORITY\[\s*"EPSG"\s*,\s*"?(\d+)"?\s*\]`)

// Resolve determines the datum, projection and zone of a reference system
// description. A non-zero identifier is authoritative and checked against
// the catalog's identifier ranges first; otherwise the description string
// is scanned with the textual rule table. Resolve returns ErrNoCRS when
// both inputs are absent.
func Resolve(id int, description string) (Descriptor, error) {
	if id == 0 && strings.TrimSpace(description) == "" {
		return Descriptor{}, ErrNoCRS
	}

	if id != 0 {
		if datum, proj, zone, ok := ResolveZone(id); ok {
			return Descriptor{
				Datum:           datum,
				Projection:      proj,
				Zone:            zone,
				SpatialRefID:    id,
				SupportedRegion: true,
				Source:          description,
			}, nil
		}
	}

	desc := resolveText(description)
	if !desc.SupportedRegion && id != 0 {
		// Identifier present but outside every supported range and the
		// text gave nothing either: keep the id for diagnostics.
		desc.SpatialRefID = id
	}
	return desc, nil
}

// ResolveWKT resolves a .prj sidecar's well-known text, preferring the
// outermost EPSG authority code over textual pattern matching.
func ResolveWKT(wkt string) (Descriptor, error) {
	id := 0
	matches := authorityPattern.FindAllStringSubmatch(wkt, -1)
	if len(matches) > 0 {
		// The last AUTHORITY entry in well-known text belongs to the
		// outermost (whole-CRS) node.
		if n, err := strconv.Atoi(matches[len(matches)-1][1]); err == nil {
			id = n
		}
	}
	return Resolve(id, wkt)
}

// resolveText applies the ordered textual rule table.
func resolveText(description string) Descriptor {
	upper := strings.ToUpper(description)
	desc := Descriptor{
		Datum:      DatumUnknown,
		Projection: ProjectionUnknown,
		Source:     description,
	}

	for _, rule := range textRules {
		if !containsAny(upper, rule.tokens) {
			continue
		}
		desc.Datum = rule.datum
		desc.SupportedRegion = true
		if strings.Contains(upper, "MGA") {
			desc.Projection = ProjectionMGA
			if m := zonePattern.FindStringSubmatch(upper); m != nil {
				zone, _ := strconv.Atoi(m[1])
				desc.Zone = zone
				if id, err := ResolveID(rule.datum, zone); err == nil {
					desc.SpatialRefID = id
				}
			}
		} else {
			desc.Projection = ProjectionGeographic
			if id, err := GeographicID(rule.datum); err == nil {
				desc.SpatialRefID = id
			}
		}
		return desc
	}

	return desc
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}
