// Copyright (c) 2025 Daniel Nugroho
// Licensed under the MIT License

// Package extract pulls geometries of one feature category out of a
// parsed drawing, skipping entities that cannot produce a valid geometry
// instead of failing the whole run.
package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/dnugroho/shapecad/pkg/dxf"
	"github.com/dnugroho/shapecad/pkg/geometry"
)

// ErrNoMatch reports a drawing that contains no entity convertible to the
// requested feature category.
var ErrNoMatch = errors.New("extract: no matching geometry found")

// circleSegments is the number of arc samples used to approximate a
// CIRCLE entity as a polygon ring.
const circleSegments = 32

// Skip records one entity that was passed over, with the reason.
type Skip struct {
	Index  int
	Type   dxf.EntityType
	Reason string
}

// Result is the outcome of extracting one feature category from a
// drawing. Histogram counts every entity in the drawing by type,
// including types outside the requested category.
type Result struct {
	Geometries []orb.Geometry
	Skipped    []Skip
	Histogram  map[dxf.EntityType]int
}

// FromDocument extracts all geometries of the requested category from
// doc. Individual entities that cannot yield a valid geometry are
// recorded in Skipped and logged; only a drawing with zero matching
// geometries is an error.
func FromDocument(doc *dxf.Document, category geometry.Category, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	res := &Result{Histogram: make(map[dxf.EntityType]int)}
	for i := range doc.Entities {
		e := &doc.Entities[i]
		res.Histogram[e.Type]++

		g, reason := convertEntity(e, category)
		if reason != "" {
			res.Skipped = append(res.Skipped, Skip{Index: i, Type: e.Type, Reason: reason})
			logger.Warn("skipping entity", "index", i, "type", string(e.Type), "reason", reason)
			continue
		}
		if g != nil {
			res.Geometries = append(res.Geometries, g)
		}
	}

	if len(res.Geometries) == 0 {
		return nil, fmt.Errorf("%w: no %s in drawing", ErrNoMatch, category)
	}
	logger.Info("extracted geometries",
		"category", string(category),
		"count", len(res.Geometries),
		"skipped", len(res.Skipped))
	return res, nil
}

// convertEntity converts one entity to a geometry of the requested
// category. A nil geometry with an empty reason means the entity simply
// belongs to another category; a non-empty reason means the entity was
// expected to match but could not produce a valid geometry.
func convertEntity(e *dxf.Entity, category geometry.Category) (orb.Geometry, string) {
	switch category {
	case geometry.CategoryPoints:
		if e.Type == dxf.EntityPoint {
			return orb.Point{e.Location.X, e.Location.Y}, ""
		}

	case geometry.CategoryLines:
		switch e.Type {
		case dxf.EntityLine:
			return orb.LineString{
				{e.Start.X, e.Start.Y},
				{e.End.X, e.End.Y},
			}, ""
		case dxf.EntityLWPolyline, dxf.EntityPolyline:
			if e.Closed() {
				return nil, ""
			}
			if len(e.Vertices) < 2 {
				return nil, fmt.Sprintf("polyline has %d vertices, need at least 2", len(e.Vertices))
			}
			return vertexLine(e.Vertices), ""
		}

	case geometry.CategoryAreas:
		switch e.Type {
		case dxf.EntityLWPolyline, dxf.EntityPolyline:
			if !e.Closed() {
				return nil, ""
			}
			return polylineRing(e.Vertices)
		case dxf.EntityCircle:
			if e.Radius <= 0 {
				return nil, fmt.Sprintf("circle has non-positive radius %v", e.Radius)
			}
			return circleRing(e.Center, e.Radius), ""
		}
	}
	return nil, ""
}

func vertexLine(vertices []dxf.Point) orb.LineString {
	ls := make(orb.LineString, len(vertices))
	for i, v := range vertices {
		ls[i] = orb.Point{v.X, v.Y}
	}
	return ls
}

// polylineRing builds a polygon from a closed polyline, appending the
// closing vertex when the drawing relies on the closed flag alone.
func polylineRing(vertices []dxf.Point) (orb.Geometry, string) {
	if len(vertices) < 3 {
		return nil, fmt.Sprintf("closed polyline has %d vertices, need at least 3", len(vertices))
	}

	ring := make(orb.Ring, 0, len(vertices)+1)
	for _, v := range vertices {
		ring = append(ring, orb.Point{v.X, v.Y})
	}
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}
	if len(ring) < 4 {
		return nil, "closed polyline collapses to fewer than 3 distinct vertices"
	}
	if planar.Area(ring) == 0 {
		return nil, "closed polyline encloses zero area"
	}
	return orb.Polygon{ring}, ""
}

// circleRing approximates a circle as a ring of evenly spaced samples
// plus the repeated first vertex.
func circleRing(center dxf.Point, radius float64) orb.Polygon {
	ring := make(orb.Ring, 0, circleSegments+1)
	for k := 0; k < circleSegments; k++ {
		angle := float64(k) * 2 * math.Pi / circleSegments
		ring = append(ring, orb.Point{
			center.X + radius*math.Cos(angle),
			center.Y + radius*math.Sin(angle),
		})
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}
