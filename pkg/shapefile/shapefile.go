// Copyright (c) 2025 Daniel Nugroho
// Licensed under the MIT License

// Package shapefile reads and writes ESRI shapefiles along with their
// .prj reference system sidecars.
package shapefile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"

	"github.com/dnugroho/shapecad/pkg/crs"
	"github.com/dnugroho/shapecad/pkg/geometry"
)

// ErrCorrupt reports a shapefile that exists but could not be parsed,
// as opposed to one that could not be opened at all.
var ErrCorrupt = errors.New("shapefile: malformed file")

// Dataset is the content of one shapefile. CRS is nil when no .prj
// sidecar was found next to the .shp file.
type Dataset struct {
	Path       string
	Geometries []orb.Geometry
	Fields     []string
	CRS        *crs.Descriptor
}

// Read loads all shapes from the shapefile at path and resolves the .prj
// sidecar if one exists. Shape types outside the supported set are
// skipped with a warning.
func Read(path string, logger *slog.Logger) (*Dataset, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r, err := shp.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("shapefile: opening %s: %w", path, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, path, err)
	}
	defer r.Close()

	ds := &Dataset{Path: path}
	for _, f := range r.Fields() {
		ds.Fields = append(ds.Fields, f.String())
	}

	for r.Next() {
		n, shape := r.Shape()
		g, ok := fromShape(shape)
		if !ok {
			logger.Warn("skipping shape", "index", n, "type", fmt.Sprintf("%T", shape))
			continue
		}
		ds.Geometries = append(ds.Geometries, g)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, path, err)
	}

	ds.CRS = readProjection(path, logger)
	return ds, nil
}

// readProjection resolves the .prj sidecar. Absent or unreadable sidecars
// yield a nil descriptor rather than an error.
func readProjection(path string, logger *slog.Logger) *crs.Descriptor {
	prjPath := sidecarPath(path, ".prj")
	data, err := os.ReadFile(prjPath)
	if err != nil {
		logger.Warn("no projection sidecar", "path", prjPath)
		return nil
	}

	desc, err := crs.ResolveWKT(string(data))
	if err != nil {
		logger.Warn("projection sidecar carries no reference system", "path", prjPath)
		return nil
	}
	if !desc.SupportedRegion {
		logger.Warn("reference system outside supported region",
			"path", prjPath, "spatial_ref_id", desc.SpatialRefID)
	}
	return &desc
}

func fromShape(shape shp.Shape) (orb.Geometry, bool) {
	switch s := shape.(type) {
	case *shp.Point:
		return orb.Point{s.X, s.Y}, true
	case *shp.PointZ:
		return orb.Point{s.X, s.Y}, true
	case *shp.PointM:
		return orb.Point{s.X, s.Y}, true
	case *shp.MultiPoint:
		return orb.MultiPoint(toOrbPoints(s.Points)), true
	case *shp.PolyLine:
		return lineGeometry(s.Points, s.Parts), true
	case *shp.PolyLineZ:
		return lineGeometry(s.Points, s.Parts), true
	case *shp.PolyLineM:
		return lineGeometry(s.Points, s.Parts), true
	case *shp.Polygon:
		return polygonGeometry(s.Points, s.Parts), true
	case *shp.PolygonZ:
		return polygonGeometry(s.Points, s.Parts), true
	case *shp.PolygonM:
		return polygonGeometry(s.Points, s.Parts), true
	}
	return nil, false
}

func toOrbPoints(pts []shp.Point) []orb.Point {
	out := make([]orb.Point, len(pts))
	for i, p := range pts {
		out[i] = orb.Point{p.X, p.Y}
	}
	return out
}

// splitParts cuts the flat point array at the part offsets.
func splitParts(points []shp.Point, parts []int32) [][]orb.Point {
	if len(parts) == 0 {
		return [][]orb.Point{toOrbPoints(points)}
	}
	out := make([][]orb.Point, 0, len(parts))
	for i, start := range parts {
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || int(start) > len(points) || end < start {
			continue
		}
		out = append(out, toOrbPoints(points[start:end]))
	}
	return out
}

func lineGeometry(points []shp.Point, parts []int32) orb.Geometry {
	split := splitParts(points, parts)
	if len(split) == 1 {
		return orb.LineString(split[0])
	}
	mls := make(orb.MultiLineString, len(split))
	for i, part := range split {
		mls[i] = orb.LineString(part)
	}
	return mls
}

func polygonGeometry(points []shp.Point, parts []int32) orb.Geometry {
	split := splitParts(points, parts)
	poly := make(orb.Polygon, len(split))
	for i, part := range split {
		poly[i] = orb.Ring(part)
	}
	return poly
}

// Write stores the geometries as a shapefile of the category's shape
// type, with ID, FEATTYPE and SRCFILE attributes. When desc names a
// supported reference system a matching .prj sidecar is written too.
func Write(path string, geoms []orb.Geometry, category geometry.Category, desc *crs.Descriptor, sourceName string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	w, err := shp.Create(path, shapeTypeFor(category))
	if err != nil {
		return fmt.Errorf("shapefile: creating %s: %w", path, err)
	}
	defer w.Close()

	w.SetFields([]shp.Field{
		shp.NumberField("ID", 10),
		shp.StringField("FEATTYPE", 25),
		shp.StringField("SRCFILE", 64),
	})

	row := 0
	for i, g := range geoms {
		shape, err := toShape(g, category)
		if err != nil {
			return fmt.Errorf("shapefile: geometry %d: %w", i, err)
		}
		n := int(w.Write(shape))
		if err := w.WriteAttribute(n, 0, n+1); err != nil {
			return fmt.Errorf("shapefile: writing ID for record %d: %w", n, err)
		}
		if err := w.WriteAttribute(n, 1, string(category)); err != nil {
			return fmt.Errorf("shapefile: writing FEATTYPE for record %d: %w", n, err)
		}
		if err := w.WriteAttribute(n, 2, sourceName); err != nil {
			return fmt.Errorf("shapefile: writing SRCFILE for record %d: %w", n, err)
		}
		row++
	}

	if desc != nil && desc.SpatialRefID != 0 {
		if wkt, ok := crs.WKT(desc.SpatialRefID); ok {
			prjPath := sidecarPath(path, ".prj")
			if err := os.WriteFile(prjPath, []byte(wkt), 0o644); err != nil {
				return fmt.Errorf("shapefile: writing %s: %w", prjPath, err)
			}
			logger.Info("wrote projection sidecar", "path", prjPath, "crs", desc.Label())
		} else {
			logger.Warn("reference system has no well-known text, skipping .prj",
				"spatial_ref_id", desc.SpatialRefID)
		}
	}

	logger.Info("wrote shapefile", "path", path, "shapes", row)
	return nil
}

func shapeTypeFor(category geometry.Category) shp.ShapeType {
	switch category {
	case geometry.CategoryPoints:
		return shp.POINT
	case geometry.CategoryLines:
		return shp.POLYLINE
	default:
		return shp.POLYGON
	}
}

func toShape(g orb.Geometry, category geometry.Category) (shp.Shape, error) {
	switch category {
	case geometry.CategoryPoints:
		p, ok := g.(orb.Point)
		if !ok {
			return nil, fmt.Errorf("expected point geometry, got %T", g)
		}
		return &shp.Point{X: p[0], Y: p[1]}, nil

	case geometry.CategoryLines:
		switch v := g.(type) {
		case orb.LineString:
			return shp.NewPolyLine([][]shp.Point{toShpPoints(v)}), nil
		case orb.MultiLineString:
			parts := make([][]shp.Point, len(v))
			for i, ls := range v {
				parts[i] = toShpPoints(ls)
			}
			return shp.NewPolyLine(parts), nil
		}
		return nil, fmt.Errorf("expected line geometry, got %T", g)

	case geometry.CategoryAreas:
		poly, ok := g.(orb.Polygon)
		if !ok {
			return nil, fmt.Errorf("expected polygon geometry, got %T", g)
		}
		parts := make([][]shp.Point, len(poly))
		for i, ring := range poly {
			parts[i] = toShpPoints(ring)
		}
		shape := shp.Polygon(*shp.NewPolyLine(parts))
		return &shape, nil
	}
	return nil, fmt.Errorf("unknown feature category %q", category)
}

func toShpPoints(pts []orb.Point) []shp.Point {
	out := make([]shp.Point, len(pts))
	for i, p := range pts {
		out[i] = shp.Point{X: p[0], Y: p[1]}
	}
	return out
}

func sidecarPath(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
