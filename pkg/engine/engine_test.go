package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dnugroho/shapecad/pkg/dxf"
	"github.com/dnugroho/shapecad/pkg/geometry"
)

func writeDrawing(t *testing.T, build func(*dxf.Document)) string {
	t.Helper()
	doc, err := dxf.New("R2018")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	build(doc)
	path := filepath.Join(t.TempDir(), "input.dxf")
	if err := doc.SaveAs(path, false); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	return path
}

func TestToGeographicPoints(t *testing.T) {
	in := writeDrawing(t, func(d *dxf.Document) {
		d.ProjCS = "GDA2020 / MGA zone 55"
		d.ProjZone = 55
		d.AddPoint(318500, 5812000, 10)
		d.AddPoint(318600, 5812100, 20)
	})
	out := filepath.Join(t.TempDir(), "out.shp")

	res, err := New(nil).ToGeographic(GeographicRequest{
		InputPath:  in,
		OutputPath: out,
		Category:   geometry.CategoryPoints,
	})
	if err != nil {
		t.Fatalf("ToGeographic failed: %v", err)
	}
	if res.ConvertedCount != 2 {
		t.Errorf("ConvertedCount = %d, want 2", res.ConvertedCount)
	}
	if res.CRS == nil || res.CRS.SpatialRefID != 7855 {
		t.Errorf("CRS = %+v, want id 7855 from drawing header", res.CRS)
	}
}

func TestToGeographicExplicitDatumWins(t *testing.T) {
	in := writeDrawing(t, func(d *dxf.Document) {
		d.ProjCS = "GDA2020 / MGA zone 55"
		d.AddPoint(1, 2, 0)
	})
	out := filepath.Join(t.TempDir(), "out.shp")

	res, err := New(nil).ToGeographic(GeographicRequest{
		InputPath:  in,
		OutputPath: out,
		Datum:      "GDA94",
		Zone:       50,
		Category:   geometry.CategoryPoints,
	})
	if err != nil {
		t.Fatalf("ToGeographic failed: %v", err)
	}
	if res.CRS == nil || res.CRS.SpatialRefID != 28350 {
		t.Errorf("CRS = %+v, want explicit GDA1994 zone 50 (id 28350)", res.CRS)
	}
}

func TestToGeographicNoMatch(t *testing.T) {
	in := writeDrawing(t, func(d *dxf.Document) {
		d.AddLine(dxf.Point{}, dxf.Point{X: 5})
	})
	out := filepath.Join(t.TempDir(), "out.shp")

	_, err := New(nil).ToGeographic(GeographicRequest{
		InputPath:  in,
		OutputPath: out,
		Category:   geometry.CategoryPoints,
	})
	if !errors.Is(err, ErrNoMatchingGeometry) {
		t.Fatalf("ToGeographic = %v, want ErrNoMatchingGeometry", err)
	}
}

func TestToGeographicValidation(t *testing.T) {
	eng := New(nil)
	if _, err := eng.ToGeographic(GeographicRequest{}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("empty request = %v, want ErrInvalidArgument", err)
	}
	if _, err := eng.ToGeographic(GeographicRequest{InputPath: "a.dxf", OutputPath: "b.shp"}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("missing category = %v, want ErrInvalidArgument", err)
	}
	req := GeographicRequest{
		InputPath:  "a.dxf",
		OutputPath: "b.shp",
		Datum:      "GDA2020",
		Zone:       49,
		Category:   geometry.CategoryPoints,
	}
	if _, err := eng.ToGeographic(req); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zone 49 = %v, want ErrInvalidArgument", err)
	}
	req.Zone = 55
	req.Datum = "NAD83"
	if _, err := eng.ToGeographic(req); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("unknown datum = %v, want ErrInvalidArgument", err)
	}
}

func TestRoundTripAreas(t *testing.T) {
	dir := t.TempDir()
	in := writeDrawing(t, func(d *dxf.Document) {
		d.ProjCS = "GDA2020 / MGA zone 54"
		d.ProjZone = 54
		for i := 0; i < 5; i++ {
			off := float64(i) * 100
			d.AddLWPolyline([]dxf.Point{
				{X: off, Y: 0}, {X: off + 50, Y: 0}, {X: off + 50, Y: 50}, {X: off, Y: 50},
			}, true)
		}
	})
	shpPath := filepath.Join(dir, "areas.shp")
	dxfPath := filepath.Join(dir, "back.dxf")

	eng := New(nil)
	res, err := eng.ToGeographic(GeographicRequest{
		InputPath:  in,
		OutputPath: shpPath,
		Category:   geometry.CategoryAreas,
	})
	if err != nil {
		t.Fatalf("ToGeographic failed: %v", err)
	}
	if res.ConvertedCount != 5 {
		t.Fatalf("ConvertedCount = %d, want 5", res.ConvertedCount)
	}

	back, err := eng.ToDrawing(DrawingRequest{
		InputPath:     shpPath,
		OutputPath:    dxfPath,
		FormatVersion: "R2013",
	})
	if err != nil {
		t.Fatalf("ToDrawing failed: %v", err)
	}
	if back.ConvertedCount != 5 {
		t.Errorf("ConvertedCount = %d, want 5", back.ConvertedCount)
	}
	if back.DetectedCategory != geometry.CategoryAreas {
		t.Errorf("DetectedCategory = %s, want Areas", back.DetectedCategory)
	}

	doc, err := dxf.ReadFile(dxfPath)
	if err != nil {
		t.Fatalf("reading round-tripped drawing: %v", err)
	}
	if doc.Version != dxf.VersionR2013 {
		t.Errorf("Version = %s, want R2013", doc.Version)
	}
	if doc.ProjZone != 54 {
		t.Errorf("ProjZone = %d, want 54 carried through the round trip", doc.ProjZone)
	}
	if len(doc.Entities) != 5 {
		t.Fatalf("entity count = %d, want 5", len(doc.Entities))
	}
	for i, ent := range doc.Entities {
		if ent.Type != dxf.EntityLWPolyline || !ent.Closed() {
			t.Errorf("entity %d = %s closed=%v, want closed LWPOLYLINE", i, ent.Type, ent.Closed())
		}
	}
}

func TestToDrawingCorruptShapefile(t *testing.T) {
	dir := t.TempDir()
	shpPath := filepath.Join(dir, "corrupt.shp")
	if err := os.WriteFile(shpPath, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	_, err := New(nil).ToDrawing(DrawingRequest{
		InputPath:     shpPath,
		OutputPath:    filepath.Join(dir, "out.dxf"),
		FormatVersion: "R2018",
	})
	if !errors.Is(err, ErrMalformedSource) {
		t.Fatalf("ToDrawing = %v, want ErrMalformedSource", err)
	}
}

func TestToDrawingBadVersion(t *testing.T) {
	dir := t.TempDir()
	in := writeDrawing(t, func(d *dxf.Document) {
		d.AddPoint(1, 2, 0)
	})
	shpPath := filepath.Join(dir, "pts.shp")
	eng := New(nil)
	if _, err := eng.ToGeographic(GeographicRequest{InputPath: in, OutputPath: shpPath, Category: geometry.CategoryPoints}); err != nil {
		t.Fatalf("ToGeographic failed: %v", err)
	}

	_, err := eng.ToDrawing(DrawingRequest{
		InputPath:     shpPath,
		OutputPath:    filepath.Join(dir, "out.dxf"),
		FormatVersion: "R2007",
	})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("ToDrawing = %v, want ErrInvalidArgument for unsupported version", err)
	}
}

func TestDetectDrawingInfo(t *testing.T) {
	in := writeDrawing(t, func(d *dxf.Document) {
		d.ProjCS = "GDA94 / MGA zone 56"
		d.ProjZone = 56
		d.AddPoint(1, 2, 0)
		d.AddLine(dxf.Point{}, dxf.Point{X: 1})
		d.AddLine(dxf.Point{}, dxf.Point{Y: 1})
	})

	info := New(nil).DetectDrawingInfo(in)
	if info.Err != nil {
		t.Fatalf("DetectDrawingInfo failed: %v", info.Err)
	}
	if info.Version != dxf.VersionR2018 {
		t.Errorf("Version = %s, want R2018", info.Version)
	}
	if info.EntityCounts[dxf.EntityPoint] != 1 || info.EntityCounts[dxf.EntityLine] != 2 {
		t.Errorf("EntityCounts = %v, want 1 POINT and 2 LINE", info.EntityCounts)
	}
	if info.CRS == nil || info.CRS.SpatialRefID != 28356 {
		t.Errorf("CRS = %+v, want GDA1994 zone 56 (id 28356)", info.CRS)
	}
}

func TestDetectDatasetInfo(t *testing.T) {
	dir := t.TempDir()
	in := writeDrawing(t, func(d *dxf.Document) {
		d.ProjCS = "GDA2020 / MGA zone 55"
		d.ProjZone = 55
		d.AddPoint(1, 2, 0)
		d.AddPoint(3, 4, 0)
	})
	shpPath := filepath.Join(dir, "pts.shp")
	eng := New(nil)
	if _, err := eng.ToGeographic(GeographicRequest{InputPath: in, OutputPath: shpPath, Category: geometry.CategoryPoints}); err != nil {
		t.Fatalf("ToGeographic failed: %v", err)
	}

	info := eng.DetectDatasetInfo(shpPath)
	if info.Err != nil {
		t.Fatalf("DetectDatasetInfo failed: %v", info.Err)
	}
	if info.GeometryCount != 2 {
		t.Errorf("GeometryCount = %d, want 2", info.GeometryCount)
	}
	if info.Category != geometry.CategoryPoints {
		t.Errorf("Category = %s, want Points", info.Category)
	}
	if info.CRS == nil || info.CRS.Zone != 55 {
		t.Errorf("CRS = %+v, want zone 55 from sidecar", info.CRS)
	}
	if len(info.Samples) != 2 {
		t.Errorf("Samples = %v, want 2 WKT previews", info.Samples)
	}
}

func TestProbesNeverFail(t *testing.T) {
	eng := New(nil)
	missing := filepath.Join(t.TempDir(), "missing")

	if info := eng.DetectDatasetInfo(missing + ".shp"); info.Err == nil {
		t.Error("dataset probe of missing file has nil Err")
	}
	if info := eng.DetectDrawingInfo(missing + ".dxf"); info.Err == nil {
		t.Error("drawing probe of missing file has nil Err")
	}
}
