// Copyright (c) 2025 Daniel Nugroho
// Licensed under the MIT License

// Package export turns geometry collections into drawing entities for
// the shapefile to DXF direction.
package export

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/paulmach/orb"

	"github.com/dnugroho/shapecad/pkg/dxf"
	"github.com/dnugroho/shapecad/pkg/geometry"
)

// ErrUnsupportedGeometry reports a collection in which no geometry could
// be exported.
var ErrUnsupportedGeometry = errors.New("export: no exportable geometry")

// Skip records one geometry that could not be exported, with the reason.
type Skip struct {
	Index  int
	Reason string
}

// Result is the outcome of exporting a geometry collection. Category is
// the dominant category of the input, kept for labeling the output.
type Result struct {
	Entities []dxf.Entity
	Skipped  []Skip
	Category geometry.Category
}

// ToEntities converts a geometry collection into drawing entities.
// Points become POINT entities, line strings open LWPOLYLINEs and
// polygons closed LWPOLYLINEs carrying the outer ring only. Multi-part
// geometries are flattened first and every part converts independently,
// so a degenerate part never takes its valid siblings down with it.
// Each failed part is recorded in Skipped under its input geometry's
// index; only a collection producing zero entities is an error.
func ToEntities(geoms []orb.Geometry, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cls, err := geometry.Classify(geoms)
	if err != nil {
		return nil, err
	}

	res := &Result{Category: cls.Dominant}
	for i, g := range geoms {
		if holes := holeCount(g); holes > 0 {
			logger.Debug("dropping interior rings", "index", i, "rings", holes)
		}

		parts, reason := flatten(g)
		if reason != "" {
			res.Skipped = append(res.Skipped, Skip{Index: i, Reason: reason})
			logger.Warn("skipping geometry", "index", i, "reason", reason)
			continue
		}
		for _, part := range parts {
			e, reason := convertPart(part)
			if reason != "" {
				res.Skipped = append(res.Skipped, Skip{Index: i, Reason: reason})
				logger.Warn("skipping geometry part", "index", i, "reason", reason)
				continue
			}
			res.Entities = append(res.Entities, e)
		}
	}

	if len(res.Entities) == 0 {
		return nil, fmt.Errorf("%w in %d input geometries", ErrUnsupportedGeometry, len(geoms))
	}
	logger.Info("exported entities",
		"category", string(res.Category),
		"count", len(res.Entities),
		"skipped", len(res.Skipped))
	return res, nil
}

func holeCount(g orb.Geometry) int {
	switch v := g.(type) {
	case orb.Polygon:
		if len(v) > 1 {
			return len(v) - 1
		}
	case orb.MultiPolygon:
		n := 0
		for _, p := range v {
			n += holeCount(p)
		}
		return n
	}
	return 0
}

// flatten splits a multi-part geometry into its single-part members.
// Single-part geometries pass through as a one-element slice.
func flatten(g orb.Geometry) ([]orb.Geometry, string) {
	switch v := g.(type) {
	case nil:
		return nil, "nil geometry"
	case orb.MultiPoint:
		if len(v) == 0 {
			return nil, "empty multipoint"
		}
		out := make([]orb.Geometry, len(v))
		for i, p := range v {
			out[i] = p
		}
		return out, ""
	case orb.MultiLineString:
		if len(v) == 0 {
			return nil, "empty multilinestring"
		}
		out := make([]orb.Geometry, len(v))
		for i, ls := range v {
			out[i] = ls
		}
		return out, ""
	case orb.MultiPolygon:
		if len(v) == 0 {
			return nil, "empty multipolygon"
		}
		out := make([]orb.Geometry, len(v))
		for i, p := range v {
			out[i] = p
		}
		return out, ""
	}
	return []orb.Geometry{g}, ""
}

func convertPart(g orb.Geometry) (dxf.Entity, string) {
	switch v := g.(type) {
	case orb.Point:
		return pointEntity(v), ""
	case orb.LineString:
		return lineEntity(v)
	case orb.Polygon:
		return polygonEntity(v)
	}
	return dxf.Entity{}, fmt.Sprintf("unsupported geometry type %T", g)
}

func pointEntity(p orb.Point) dxf.Entity {
	return dxf.Entity{
		Type:     dxf.EntityPoint,
		Location: dxf.Point{X: p[0], Y: p[1]},
	}
}

func lineEntity(ls orb.LineString) (dxf.Entity, string) {
	if len(ls) < 2 {
		return dxf.Entity{}, fmt.Sprintf("linestring has %d points, need at least 2", len(ls))
	}
	e := dxf.Entity{
		Type:     dxf.EntityLWPolyline,
		Vertices: toVertices(ls),
	}
	e.SetClosed(false)
	return e, ""
}

// polygonEntity exports the outer ring as a closed polyline. Interior
// rings have no drawing-entity counterpart and are dropped. The ring's
// duplicated closing vertex is removed since the closed flag carries the
// closure.
func polygonEntity(p orb.Polygon) (dxf.Entity, string) {
	if len(p) == 0 || len(p[0]) < 3 {
		return dxf.Entity{}, "polygon has no usable outer ring"
	}
	ring := []orb.Point(p[0])
	if ring[0].Equal(ring[len(ring)-1]) {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return dxf.Entity{}, "polygon outer ring has fewer than 3 distinct vertices"
	}
	e := dxf.Entity{
		Type:     dxf.EntityLWPolyline,
		Vertices: toVertices(ring),
	}
	e.SetClosed(true)
	return e, ""
}

func toVertices(pts []orb.Point) []dxf.Point {
	out := make([]dxf.Point, len(pts))
	for i, p := range pts {
		out[i] = dxf.Point{X: p[0], Y: p[1]}
	}
	return out
}
