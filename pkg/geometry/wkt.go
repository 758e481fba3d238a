package geometry

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// ToWKT converts a geometry to a WKT string. Returns empty string for nil
// or unsupported geometries.
func ToWKT(g orb.Geometry) string {
	switch v := g.(type) {
	case orb.Point:
		return fmt.Sprintf("POINT (%s)", formatPoint(v))
	case orb.LineString:
		if len(v) == 0 {
			return ""
		}
		return fmt.Sprintf("LINESTRING (%s)", formatPoints(v))
	case orb.Ring:
		return ToWKT(orb.Polygon{v})
	case orb.Polygon:
		if len(v) == 0 {
			return ""
		}
		rings := make([]string, 0, len(v))
		for _, ring := range v {
			if len(ring) == 0 {
				continue
			}
			// Ensure the ring is closed for WKT.
			pts := []orb.Point(ring)
			if !pts[0].Equal(pts[len(pts)-1]) {
				pts = append(pts, pts[0])
			}
			rings = append(rings, fmt.Sprintf("(%s)", formatPoints(pts)))
		}
		if len(rings) == 0 {
			return ""
		}
		return fmt.Sprintf("POLYGON (%s)", strings.Join(rings, ", "))
	case orb.MultiPoint:
		if len(v) == 0 {
			return ""
		}
		return fmt.Sprintf("MULTIPOINT (%s)", formatPoints(v))
	case orb.MultiLineString:
		if len(v) == 0 {
			return ""
		}
		lines := make([]string, 0, len(v))
		for _, ls := range v {
			lines = append(lines, fmt.Sprintf("(%s)", formatPoints(ls)))
		}
		return fmt.Sprintf("MULTILINESTRING (%s)", strings.Join(lines, ", "))
	}
	return ""
}

func formatPoint(p orb.Point) string {
	return fmt.Sprintf("%.10f %.10f", p[0], p[1])
}

func formatPoints(pts []orb.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = formatPoint(p)
	}
	return strings.Join(parts, ", ")
}
