package extract

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/dnugroho/shapecad/pkg/dxf"
	"github.com/dnugroho/shapecad/pkg/geometry"
)

func TestExtractPoints(t *testing.T) {
	doc := &dxf.Document{}
	doc.AddPoint(1, 2, 99)
	doc.AddPoint(3, 4, 0)
	doc.AddLine(dxf.Point{}, dxf.Point{X: 1})

	res, err := FromDocument(doc, geometry.CategoryPoints, nil)
	if err != nil {
		t.Fatalf("FromDocument failed: %v", err)
	}
	if len(res.Geometries) != 2 {
		t.Fatalf("geometry count = %d, want 2", len(res.Geometries))
	}
	// Z is discarded.
	if p, ok := res.Geometries[0].(orb.Point); !ok || p != (orb.Point{1, 2}) {
		t.Errorf("first point = %v, want POINT(1 2)", res.Geometries[0])
	}
	if res.Histogram[dxf.EntityLine] != 1 {
		t.Errorf("histogram[LINE] = %d, want 1", res.Histogram[dxf.EntityLine])
	}
}

func TestExtractLines(t *testing.T) {
	doc := &dxf.Document{}
	doc.AddLine(dxf.Point{X: 0, Y: 0}, dxf.Point{X: 10, Y: 10})
	doc.AddLWPolyline([]dxf.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 5}}, false)
	doc.AddLWPolyline([]dxf.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}, true) // closed, not a line

	res, err := FromDocument(doc, geometry.CategoryLines, nil)
	if err != nil {
		t.Fatalf("FromDocument failed: %v", err)
	}
	if len(res.Geometries) != 2 {
		t.Fatalf("geometry count = %d, want 2", len(res.Geometries))
	}
	if len(res.Skipped) != 0 {
		t.Errorf("skipped = %d, want 0 (closed polylines are another category, not a skip)", len(res.Skipped))
	}
	ls, ok := res.Geometries[1].(orb.LineString)
	if !ok || len(ls) != 3 {
		t.Fatalf("second geometry = %v, want 3-point LineString", res.Geometries[1])
	}
}

func TestExtractAreasFromClosedPolyline(t *testing.T) {
	doc := &dxf.Document{}
	doc.AddLWPolyline([]dxf.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}, true)

	res, err := FromDocument(doc, geometry.CategoryAreas, nil)
	if err != nil {
		t.Fatalf("FromDocument failed: %v", err)
	}
	poly, ok := res.Geometries[0].(orb.Polygon)
	if !ok {
		t.Fatalf("geometry = %T, want Polygon", res.Geometries[0])
	}
	ring := poly[0]
	// The closing vertex is appended when only the closed flag closes it.
	if len(ring) != 5 {
		t.Fatalf("ring length = %d, want 5", len(ring))
	}
	if !ring[0].Equal(ring[len(ring)-1]) {
		t.Error("ring is not explicitly closed")
	}
}

func TestExtractCircle(t *testing.T) {
	doc := &dxf.Document{}
	doc.AddCircle(dxf.Point{X: 100, Y: 200}, 10)

	res, err := FromDocument(doc, geometry.CategoryAreas, nil)
	if err != nil {
		t.Fatalf("FromDocument failed: %v", err)
	}
	poly, ok := res.Geometries[0].(orb.Polygon)
	if !ok {
		t.Fatalf("geometry = %T, want Polygon", res.Geometries[0])
	}
	ring := poly[0]
	if len(ring) != 33 {
		t.Fatalf("ring length = %d, want 33 (32 samples plus closing vertex)", len(ring))
	}
	if !ring[0].Equal(ring[len(ring)-1]) {
		t.Error("circle ring is not closed")
	}
	for i, p := range ring {
		d := math.Hypot(p[0]-100, p[1]-200)
		if math.Abs(d-10) > 1e-9 {
			t.Fatalf("vertex %d at distance %v from center, want 10", i, d)
		}
	}
}

func TestExtractTwoPointPolyline(t *testing.T) {
	vertices := []dxf.Point{{X: 0, Y: 0}, {X: 7, Y: 3}}

	// Open: the minimum line.
	doc := &dxf.Document{}
	doc.AddLWPolyline(vertices, false)
	res, err := FromDocument(doc, geometry.CategoryLines, nil)
	if err != nil {
		t.Fatalf("FromDocument failed: %v", err)
	}
	ls, ok := res.Geometries[0].(orb.LineString)
	if !ok || len(ls) != 2 {
		t.Fatalf("geometry = %v, want 2-point LineString", res.Geometries[0])
	}
	if !ls[1].Equal(orb.Point{7, 3}) {
		t.Errorf("endpoint = %v, want (7, 3)", ls[1])
	}

	// The same vertices flagged closed cannot form an area.
	doc = &dxf.Document{}
	doc.AddLWPolyline(vertices, true)
	if _, err := FromDocument(doc, geometry.CategoryAreas, nil); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("FromDocument = %v, want ErrNoMatch for a closed 2-point polyline", err)
	}
	// Nor is it a line for the Lines category.
	if _, err := FromDocument(doc, geometry.CategoryLines, nil); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("FromDocument = %v, want ErrNoMatch (closed polylines are not lines)", err)
	}
}

func TestExtractSkipsDegenerateAreas(t *testing.T) {
	doc := &dxf.Document{}
	doc.AddLWPolyline([]dxf.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, true) // closed 2-point
	doc.AddLWPolyline([]dxf.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}, true) // collinear, zero area
	doc.AddLWPolyline([]dxf.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}}, true)

	res, err := FromDocument(doc, geometry.CategoryAreas, nil)
	if err != nil {
		t.Fatalf("FromDocument failed: %v", err)
	}
	if len(res.Geometries) != 1 {
		t.Fatalf("geometry count = %d, want 1", len(res.Geometries))
	}
	if len(res.Skipped) != 2 {
		t.Fatalf("skipped = %d, want 2", len(res.Skipped))
	}
	for _, s := range res.Skipped {
		if s.Reason == "" {
			t.Errorf("skip at index %d has no reason", s.Index)
		}
	}
}

func TestExtractNoMatch(t *testing.T) {
	doc := &dxf.Document{}
	doc.AddLine(dxf.Point{}, dxf.Point{X: 1})

	_, err := FromDocument(doc, geometry.CategoryPoints, nil)
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("FromDocument = %v, want ErrNoMatch", err)
	}
}

func TestExtractEmptyDrawing(t *testing.T) {
	if _, err := FromDocument(&dxf.Document{}, geometry.CategoryLines, nil); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("FromDocument = %v, want ErrNoMatch", err)
	}
}
