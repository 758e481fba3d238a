// Copyright (c) 2025 Daniel Nugroho
// Licensed under the MIT License

// Package geometry classifies geometry collections into the three
// conversion-facing feature categories and provides small helpers shared
// by both conversion directions.
package geometry

import (
	"errors"

	"github.com/paulmach/orb"
)

// Category is a conversion-facing feature category. It drives which
// drawing entities are read during extraction and which are written
// during export.
type Category string

const (
	CategoryPoints Category = "Points"
	CategoryLines  Category = "Lines"
	CategoryAreas  Category = "Areas"
)

// ParseCategory converts a user-supplied feature type to a Category. It
// accepts the singular names used by the conversion options ("Point",
// "Line", "Polygon") as well as the category names.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "Points", "Point", "points", "point":
		return CategoryPoints, nil
	case "Lines", "Line", "lines", "line":
		return CategoryLines, nil
	case "Areas", "Area", "areas", "area", "Polygon", "polygon":
		return CategoryAreas, nil
	}
	return "", errors.New("geometry: unknown feature category: " + s)
}

// ErrEmptyCollection reports a classification request over a collection
// with no valid geometries.
var ErrEmptyCollection = errors.New("geometry: no valid geometries to classify")

// Classification is the outcome of classifying a geometry collection.
// Mixed is informational: a mixed collection classifies to its dominant
// category and never blocks conversion.
type Classification struct {
	Dominant      Category
	DominantCount int
	Total         int
	Mixed         bool
}

// Classify determines the dominant category of a geometry collection by
// frequency. Multi-part variants tally into the same bucket as their
// single-part counterpart. Ties break to the category first encountered
// in scan order. Nil and empty geometries are ignored; a collection with
// no valid members returns ErrEmptyCollection.
func Classify(geoms []orb.Geometry) (Classification, error) {
	counts := make(map[Category]int, 3)
	var order []Category

	for _, g := range geoms {
		cat, ok := CategoryOf(g)
		if !ok {
			continue
		}
		if counts[cat] == 0 {
			order = append(order, cat)
		}
		counts[cat]++
	}

	if len(order) == 0 {
		return Classification{}, ErrEmptyCollection
	}

	result := Classification{Mixed: len(order) > 1}
	for _, cat := range order {
		result.Total += counts[cat]
		// Strict greater-than keeps the first-encountered category on ties.
		if counts[cat] > result.DominantCount {
			result.Dominant = cat
			result.DominantCount = counts[cat]
		}
	}
	return result, nil
}

// CategoryOf maps a geometry to its category. The boolean is false for
// nil, empty or unclassifiable geometries.
func CategoryOf(g orb.Geometry) (Category, bool) {
	switch v := g.(type) {
	case orb.Point:
		return CategoryPoints, true
	case orb.MultiPoint:
		return CategoryPoints, len(v) > 0
	case orb.LineString:
		return CategoryLines, len(v) >= 2
	case orb.MultiLineString:
		return CategoryLines, len(v) > 0
	case orb.Polygon:
		return CategoryAreas, len(v) > 0 && len(v[0]) > 0
	case orb.MultiPolygon:
		return CategoryAreas, len(v) > 0
	}
	return "", false
}
