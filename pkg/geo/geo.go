package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/project"
)

// GeometryError marks a polygon payload that cannot be accepted as a farm
// boundary: unparseable, degenerate or self-intersecting geometry.
type GeometryError struct {
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("invalid geometry: %s", e.Reason)
}

func newGeometryError(format string, args ...interface{}) error {
	return &GeometryError{Reason: fmt.Sprintf(format, args...)}
}

// ParseMultiPolygon decodes a GeoJSON geometry (Polygon or MultiPolygon,
// WGS84 lon/lat) and validates it. Anything else fails with a GeometryError.
func ParseMultiPolygon(raw []byte) (orb.MultiPolygon, error) {
	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, newGeometryError("unparseable GeoJSON: %v", err)
	}

	var mp orb.MultiPolygon
	switch geom := g.Geometry().(type) {
	case orb.Polygon:
		mp = orb.MultiPolygon{geom}
	case orb.MultiPolygon:
		mp = geom
	default:
		return nil, newGeometryError("unsupported geometry type %q, expected Polygon or MultiPolygon", g.Type)
	}

	if err := Validate(mp); err != nil {
		return nil, err
	}

	return mp, nil
}

// Validate rejects degenerate multi-polygons: empty geometry, open or
// too-short rings, out-of-range coordinates, self-intersecting rings and
// zero-area regions.
func Validate(mp orb.MultiPolygon) error {
	if len(mp) == 0 {
		return newGeometryError("empty multi-polygon")
	}

	for pi, polygon := range mp {
		if len(polygon) == 0 {
			return newGeometryError("polygon %d has no rings", pi)
		}
		for ri, ring := range polygon {
			if len(ring) < 4 {
				return newGeometryError("polygon %d ring %d has %d points, need at least 4", pi, ri, len(ring))
			}
			if !ring.Closed() {
				return newGeometryError("polygon %d ring %d is not closed", pi, ri)
			}
			for _, pt := range ring {
				if pt.Lon() < -180 || pt.Lon() > 180 || pt.Lat() < -90 || pt.Lat() > 90 {
					return newGeometryError("coordinate (%f, %f) outside WGS84 range", pt.Lon(), pt.Lat())
				}
			}
			if ringSelfIntersects(ring) {
				return newGeometryError("polygon %d ring %d is self-intersecting", pi, ri)
			}
		}
	}

	if area := planar.Area(project.MultiPolygon(mp.Clone(), project.WGS84.ToMercator)); area <= 0 {
		return newGeometryError("zero-area geometry")
	}

	return nil
}

// AreaHectares reprojects the boundary to Web Mercator, takes the planar
// area and converts m² to hectares, rounded to 2 decimals. Area is never
// computed in degrees.
func AreaHectares(mp orb.MultiPolygon) (float64, error) {
	if err := Validate(mp); err != nil {
		return 0, err
	}

	projected := project.MultiPolygon(mp.Clone(), project.WGS84.ToMercator)
	areaSqm := planar.Area(projected)

	return math.Round(areaSqm/10000*100) / 100, nil
}

// Contains reports whether the point lies within the boundary. Points on the
// ring itself count as inside.
func Contains(mp orb.MultiPolygon, point orb.Point) bool {
	for _, polygon := range mp {
		for _, ring := range polygon {
			for i := 0; i < len(ring)-1; i++ {
				if pointOnSegment(point, ring[i], ring[i+1]) {
					return true
				}
			}
		}
	}
	return planar.MultiPolygonContains(mp, point)
}

// Intersects reports whether two boundaries share any area or boundary.
// Touching edges and vertices count as an intersection.
func Intersects(a, b orb.MultiPolygon) bool {
	// Any vertex of one inside the other covers containment and overlap.
	for _, polygon := range a {
		for _, ring := range polygon {
			for _, pt := range ring {
				if Contains(b, pt) {
					return true
				}
			}
		}
	}
	for _, polygon := range b {
		for _, ring := range polygon {
			for _, pt := range ring {
				if Contains(a, pt) {
					return true
				}
			}
		}
	}

	// Edge crossings without any contained vertex.
	for _, pa := range a {
		for _, ra := range pa {
			for _, pb := range b {
				for _, rb := range pb {
					if ringsCross(ra, rb) {
						return true
					}
				}
			}
		}
	}

	return false
}

// Centroid returns the area-weighted geometric center of the boundary.
func Centroid(mp orb.MultiPolygon) orb.Point {
	center, _ := planar.CentroidArea(mp)
	return center
}

// DistanceMeters is the planar distance between two WGS84 points after
// reprojection to Web Mercator, rounded to 2 decimals.
func DistanceMeters(a, b orb.Point) float64 {
	pa := project.Point(a, project.WGS84.ToMercator)
	pb := project.Point(b, project.WGS84.ToMercator)
	return math.Round(planar.Distance(pa, pb)*100) / 100
}

func ringsCross(a, b orb.Ring) bool {
	for i := 0; i < len(a)-1; i++ {
		for j := 0; j < len(b)-1; j++ {
			if segmentsIntersect(a[i], a[i+1], b[j], b[j+1]) {
				return true
			}
		}
	}
	return false
}

func ringSelfIntersects(ring orb.Ring) bool {
	n := len(ring) - 1 // last point repeats the first
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			// Skip adjacent segments, they share an endpoint by construction.
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			if segmentsIntersect(ring[i], ring[i+1], ring[j], ring[j+1]) {
				return true
			}
		}
	}
	return false
}

// segmentsIntersect includes shared endpoints and collinear overlap.
func segmentsIntersect(p1, p2, q1, q2 orb.Point) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	if d1 == 0 && pointOnSegment(p1, q1, q2) {
		return true
	}
	if d2 == 0 && pointOnSegment(p2, q1, q2) {
		return true
	}
	if d3 == 0 && pointOnSegment(q1, p1, p2) {
		return true
	}
	if d4 == 0 && pointOnSegment(q2, p1, p2) {
		return true
	}

	return false
}

func cross(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func pointOnSegment(p, a, b orb.Point) bool {
	if cross(a, b, p) != 0 {
		return false
	}
	return math.Min(a[0], b[0]) <= p[0] && p[0] <= math.Max(a[0], b[0]) &&
		math.Min(a[1], b[1]) <= p[1] && p[1] <= math.Max(a[1], b[1])
}
