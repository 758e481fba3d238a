// Copyright (c) 2025 Daniel Nugroho
// Licensed under the MIT License

// Package engine orchestrates conversions between CAD drawings and
// shapefiles, tying the parsing, extraction, classification and output
// stages together.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dnugroho/shapecad/pkg/crs"
	"github.com/dnugroho/shapecad/pkg/dxf"
	"github.com/dnugroho/shapecad/pkg/export"
	"github.com/dnugroho/shapecad/pkg/extract"
	"github.com/dnugroho/shapecad/pkg/geometry"
	"github.com/dnugroho/shapecad/pkg/shapefile"
)

// Engine runs conversions. The zero value is not usable; construct with
// New.
type Engine struct {
	logger *slog.Logger
}

// New creates an engine. A nil logger discards all output.
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{logger: logger}
}

// GeographicRequest describes a drawing to shapefile conversion. Datum
// and Zone name the reference system of the drawing's coordinates; when
// Datum is empty the drawing's own projection header is used instead, and
// a drawing without one converts with no .prj sidecar.
type GeographicRequest struct {
	InputPath  string
	OutputPath string
	Datum      string
	Zone       int
	Category   geometry.Category
}

// DrawingRequest describes a shapefile to drawing conversion.
type DrawingRequest struct {
	InputPath     string
	OutputPath    string
	FormatVersion string
	Binary        bool
}

// Result summarizes a completed conversion.
type Result struct {
	ConvertedCount   int
	SkippedCount     int
	DetectedCategory geometry.Category
	CRS              *crs.Descriptor
}

// ToGeographic converts a drawing to a shapefile of the requested
// feature category.
func (e *Engine) ToGeographic(req GeographicRequest) (*Result, error) {
	if req.InputPath == "" || req.OutputPath == "" {
		return nil, fmt.Errorf("%w: input and output paths are required", ErrInvalidArgument)
	}
	if req.Category == "" {
		return nil, fmt.Errorf("%w: feature category is required", ErrInvalidArgument)
	}

	var explicit *crs.Descriptor
	if req.Datum != "" {
		datum, err := crs.ParseDatum(req.Datum)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		explicit, err = descriptorFor(datum, req.Zone)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}

	doc, err := dxf.ReadFile(req.InputPath)
	if err != nil {
		if errors.Is(err, dxf.ErrMalformed) {
			return nil, fmt.Errorf("%w: %w", ErrMalformedSource, err)
		}
		return nil, err
	}
	e.logger.Info("parsed drawing",
		"path", req.InputPath,
		"version", string(doc.Version),
		"entities", len(doc.Entities))

	res, err := extract.FromDocument(doc, req.Category, e.logger)
	if err != nil {
		if errors.Is(err, extract.ErrNoMatch) {
			return nil, fmt.Errorf("%w: %w", ErrNoMatchingGeometry, err)
		}
		return nil, err
	}

	desc := explicit
	if desc == nil {
		desc = e.detectDrawingCRS(doc)
	}
	name := filepath.Base(req.InputPath)
	if err := shapefile.Write(req.OutputPath, res.Geometries, req.Category, desc, name, e.logger); err != nil {
		return nil, err
	}

	return &Result{
		ConvertedCount:   len(res.Geometries),
		SkippedCount:     len(res.Skipped),
		DetectedCategory: req.Category,
		CRS:              desc,
	}, nil
}

// detectDrawingCRS reads the drawing's own projection header. A drawing
// without one converts with no reference system attached.
func (e *Engine) detectDrawingCRS(doc *dxf.Document) *crs.Descriptor {
	desc, err := crs.Resolve(0, doc.ProjCS)
	if err != nil {
		e.logger.Warn("drawing has no projection header, writing output without reference system")
		return nil
	}
	if desc.Zone == 0 && doc.ProjZone != 0 {
		desc.Zone = doc.ProjZone
		if id, idErr := crs.ResolveID(desc.Datum, desc.Zone); idErr == nil {
			desc.SpatialRefID = id
			desc.Projection = crs.ProjectionMGA
		}
	}
	if !desc.SupportedRegion {
		e.logger.Warn("projection header names an unsupported reference system", "header", doc.ProjCS)
		return nil
	}
	e.logger.Info("detected reference system from drawing header", "crs", desc.Label())
	return &desc
}

func descriptorFor(datum crs.Datum, zone int) (*crs.Descriptor, error) {
	if zone == 0 {
		id, err := crs.GeographicID(datum)
		if err != nil {
			return nil, err
		}
		return &crs.Descriptor{
			Datum:           datum,
			Projection:      crs.ProjectionGeographic,
			SpatialRefID:    id,
			SupportedRegion: true,
		}, nil
	}
	id, err := crs.ResolveID(datum, zone)
	if err != nil {
		return nil, err
	}
	return &crs.Descriptor{
		Datum:           datum,
		Projection:      crs.ProjectionMGA,
		Zone:            zone,
		SpatialRefID:    id,
		SupportedRegion: true,
	}, nil
}

// ToDrawing converts a shapefile to a drawing, classifying the dataset
// to label the output and carrying the reference system into the
// drawing's projection header.
func (e *Engine) ToDrawing(req DrawingRequest) (*Result, error) {
	if req.InputPath == "" || req.OutputPath == "" {
		return nil, fmt.Errorf("%w: input and output paths are required", ErrInvalidArgument)
	}

	ds, err := shapefile.Read(req.InputPath, e.logger)
	if err != nil {
		if errors.Is(err, shapefile.ErrCorrupt) {
			return nil, fmt.Errorf("%w: %w", ErrMalformedSource, err)
		}
		return nil, err
	}
	if len(ds.Geometries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDataset, req.InputPath)
	}

	res, err := export.ToEntities(ds.Geometries, e.logger)
	if err != nil {
		if errors.Is(err, geometry.ErrEmptyCollection) || errors.Is(err, export.ErrUnsupportedGeometry) {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedGeometry, err)
		}
		return nil, err
	}

	doc, err := dxf.New(req.FormatVersion)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	doc.Entities = res.Entities
	if ds.CRS != nil && ds.CRS.SupportedRegion {
		doc.ProjCS = ds.CRS.Label()
		doc.ProjZone = ds.CRS.Zone
	}

	if err := doc.SaveAs(req.OutputPath, req.Binary); err != nil {
		return nil, err
	}
	e.logger.Info("wrote drawing",
		"path", req.OutputPath,
		"version", string(doc.Version),
		"binary", req.Binary,
		"entities", len(doc.Entities))

	return &Result{
		ConvertedCount:   len(res.Entities),
		SkippedCount:     len(res.Skipped),
		DetectedCategory: res.Category,
		CRS:              ds.CRS,
	}, nil
}

// DatasetInfo is a shapefile probe result, used to prefill conversion
// options before committing to a run. Err records why probing failed;
// the other fields hold whatever could still be determined.
type DatasetInfo struct {
	Path          string
	GeometryCount int
	Category      geometry.Category
	Mixed         bool
	Fields        []string
	CRS           *crs.Descriptor
	Samples       []string
	Err           error
}

// DetectDatasetInfo inspects a shapefile without converting it. The
// probe never fails: an unreadable or unclassifiable dataset comes back
// with Err set and the determinable fields filled in.
func (e *Engine) DetectDatasetInfo(path string) *DatasetInfo {
	info := &DatasetInfo{Path: path}

	ds, err := shapefile.Read(path, e.logger)
	if err != nil {
		if errors.Is(err, shapefile.ErrCorrupt) {
			err = fmt.Errorf("%w: %w", ErrMalformedSource, err)
		}
		info.Err = err
		return info
	}

	info.GeometryCount = len(ds.Geometries)
	info.Fields = ds.Fields
	info.CRS = ds.CRS
	for _, g := range ds.Geometries {
		if len(info.Samples) == maxSamples {
			break
		}
		if wkt := geometry.ToWKT(g); wkt != "" {
			info.Samples = append(info.Samples, wkt)
		}
	}
	if cls, err := geometry.Classify(ds.Geometries); err == nil {
		info.Category = cls.Dominant
		info.Mixed = cls.Mixed
	} else {
		info.Err = err
	}
	return info
}

// maxSamples bounds the WKT previews a probe collects.
const maxSamples = 3

// DrawingInfo is a drawing probe result, with the same never-fail
// contract as DatasetInfo.
type DrawingInfo struct {
	Path         string
	Version      dxf.Version
	EntityCounts map[dxf.EntityType]int
	CRS          *crs.Descriptor
	Err          error
}

// DetectDrawingInfo inspects a drawing's header and entity makeup
// without converting it.
func (e *Engine) DetectDrawingInfo(path string) *DrawingInfo {
	info := &DrawingInfo{Path: path}

	doc, err := dxf.ReadFile(path)
	if err != nil {
		if errors.Is(err, dxf.ErrMalformed) {
			err = fmt.Errorf("%w: %w", ErrMalformedSource, err)
		}
		info.Err = err
		return info
	}

	info.Version = doc.Version
	info.EntityCounts = make(map[dxf.EntityType]int)
	for _, ent := range doc.Entities {
		info.EntityCounts[ent.Type]++
	}
	if desc, err := crs.Resolve(0, doc.ProjCS); err == nil {
		if desc.Zone == 0 && doc.ProjZone != 0 {
			desc.Zone = doc.ProjZone
			if id, idErr := crs.ResolveID(desc.Datum, desc.Zone); idErr == nil {
				desc.SpatialRefID = id
				desc.Projection = crs.ProjectionMGA
			}
		}
		info.CRS = &desc
	}
	return info
}
