// Package geo provides coordinate projection and coarse geographic
// classification for South African coordinates.
package geo

import "math"

// earthRadius is the WGS84 semi-major axis used by spherical Web Mercator
// (EPSG:3857), in meters.
const earthRadius = 6378137.0

// maxMercatorLat bounds the latitude fed into the Mercator formulas, which
// are undefined at the poles.
const maxMercatorLat = 89.9

// Point is a geographic coordinate in decimal degrees (WGS84).
type Point struct {
	Lat float64
	Lng float64
}

// ProjectedPoint is a coordinate in Web Mercator meters.
type ProjectedPoint struct {
	X float64
	Y float64
}

// Envelope is a rectangular bounding box in Web Mercator meters.
type Envelope struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// ToMercator projects a geographic point to Web Mercator. Latitudes are
// clamped to ±89.9° before projection.
func ToMercator(p Point) ProjectedPoint {
	lat := clamp(p.Lat, -maxMercatorLat, maxMercatorLat)

	x := earthRadius * p.Lng * math.Pi / 180
	y := earthRadius * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))

	return ProjectedPoint{X: x, Y: y}
}

// FromMercator applies the inverse Web Mercator projection.
func FromMercator(p ProjectedPoint) Point {
	lng := p.X / earthRadius * 180 / math.Pi
	lat := (2*math.Atan(math.Exp(p.Y/earthRadius)) - math.Pi/2) * 180 / math.Pi

	return Point{Lat: lat, Lng: lng}
}

// BoundingBox returns a square envelope of bufferMeters around the point, in
// projected units.
func BoundingBox(p Point, bufferMeters float64) Envelope {
	center := ToMercator(p)

	return Envelope{
		MinX: center.X - bufferMeters,
		MinY: center.Y - bufferMeters,
		MaxX: center.X + bufferMeters,
		MaxY: center.Y + bufferMeters,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
