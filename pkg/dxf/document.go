// Copyright (c) 2025 Daniel Nugroho
// Licensed under the MIT License

// Package dxf provides a minimal DXF document model with ASCII and binary
// encodings, covering the entity types involved in geospatial conversion:
// POINT, LINE, LWPOLYLINE, POLYLINE and CIRCLE.
package dxf

import (
	"errors"
	"fmt"
)

// Version identifies a supported drawing format version.
type Version string

const (
	VersionR2010 Version = "R2010"
	VersionR2013 Version = "R2013"
	VersionR2018 Version = "R2018"
)

// acadVersions maps format versions to their $ACADVER header value.
var acadVersions = map[Version]string{
	VersionR2010: "AC1024",
	VersionR2013: "AC1027",
	VersionR2018: "AC1032",
}

// ErrUnsupportedVersion reports a drawing format version outside the
// supported set.
var ErrUnsupportedVersion = errors.New("dxf: unsupported format version")

// ParseVersion converts a version string such as "R2018" (case
// insensitive, leading R optional) to a Version.
func ParseVersion(s string) (Version, error) {
	switch s {
	case "R2010", "r2010", "2010":
		return VersionR2010, nil
	case "R2013", "r2013", "2013":
		return VersionR2013, nil
	case "R2018", "r2018", "2018":
		return VersionR2018, nil
	}
	return "", fmt.Errorf("%w: %q (supported: R2010, R2013, R2018)", ErrUnsupportedVersion, s)
}

// EntityType is the DXF entity type name.
type EntityType string

const (
	EntityPoint      EntityType = "POINT"
	EntityLine       EntityType = "LINE"
	EntityLWPolyline EntityType = "LWPOLYLINE"
	EntityPolyline   EntityType = "POLYLINE"
	EntityCircle     EntityType = "CIRCLE"
)

// Point is a drawing-space coordinate.
type Point struct {
	X, Y, Z float64
}

// Polyline flag bits (group code 70).
const flagClosed = 1

// Entity is one drawing entity. Which fields are meaningful depends on
// Type: Location for POINT, Start/End for LINE, Vertices for LWPOLYLINE
// and POLYLINE, Center/Radius for CIRCLE. Entities of types outside the
// supported set are retained with their type name only, so callers can
// still count them.
type Entity struct {
	Type     EntityType
	Layer    string
	Location Point
	Start    Point
	End      Point
	Vertices []Point
	Center   Point
	Radius   float64

	flags        int
	hasFlags     bool
	elevation    float64
	hasElevation bool
}

// ClosedFlag returns the entity's closed flag and whether the flag was
// present at all in the source data.
func (e *Entity) ClosedFlag() (closed, present bool) {
	if !e.hasFlags {
		return false, false
	}
	return e.flags&flagClosed != 0, true
}

// Closed reports whether the entity is closed, defaulting to open when the
// closed flag is absent.
func (e *Entity) Closed() bool {
	closed, _ := e.ClosedFlag()
	return closed
}

// SetClosed sets or clears the closed flag.
func (e *Entity) SetClosed(closed bool) {
	e.hasFlags = true
	if closed {
		e.flags |= flagClosed
	} else {
		e.flags &^= flagClosed
	}
}

// Elevation returns the entity's elevation and whether one was present.
func (e *Entity) Elevation() (float64, bool) {
	return e.elevation, e.hasElevation
}

// SetElevation sets the entity elevation.
func (e *Entity) SetElevation(z float64) {
	e.elevation = z
	e.hasElevation = true
}

// Document is a parsed or in-construction drawing. ProjCS and ProjZone
// mirror the $PROJCS and $PROJZONE header variables used to carry
// projection information; both are zero-valued when the header has none.
type Document struct {
	Version  Version
	ProjCS   string
	ProjZone int
	Entities []Entity
}

// New creates an empty document of the requested format version.
func New(version string) (*Document, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return nil, err
	}
	return &Document{Version: v}, nil
}

// AddPoint appends a POINT entity.
func (d *Document) AddPoint(x, y, z float64) {
	d.Entities = append(d.Entities, Entity{
		Type:     EntityPoint,
		Location: Point{X: x, Y: y, Z: z},
	})
}

// AddLine appends a LINE entity.
func (d *Document) AddLine(start, end Point) {
	d.Entities = append(d.Entities, Entity{
		Type:  EntityLine,
		Start: start,
		End:   end,
	})
}

// AddLWPolyline appends a LWPOLYLINE entity with the given vertices.
func (d *Document) AddLWPolyline(vertices []Point, closed bool) {
	e := Entity{
		Type:     EntityLWPolyline,
		Vertices: vertices,
	}
	e.SetClosed(closed)
	d.Entities = append(d.Entities, e)
}

// AddCircle appends a CIRCLE entity.
func (d *Document) AddCircle(center Point, radius float64) {
	d.Entities = append(d.Entities, Entity{
		Type:   EntityCircle,
		Center: center,
		Radius: radius,
	})
}
