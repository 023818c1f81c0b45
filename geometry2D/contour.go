package geometry2D

import (
	"math"
)

// Segment is one piece of an isoline crossing a single triangle
type Segment [2]Point

// IsoSegments returns the marching triangle segments of the level set F == level.
// Triangles with a NaN vertex value are skipped
func IsoSegments(X, Y, F []float64, tris [][3]int, level float64) (segs []Segment) {
	for _, tri := range tris {
		var (
			f   [3]float64
			pts [3]Point
			nan bool
		)
		for n, ind := range tri {
			f[n] = F[ind]
			pts[n] = NewPoint(X[ind], Y[ind])
			nan = nan || math.IsNaN(f[n])
		}
		if nan {
			continue
		}
		var cross []Point
		for n := 0; n < 3; n++ {
			m := (n + 1) % 3
			fa, fb := f[n], f[m]
			// Vertices exactly on the level count as above it so every crossing is
			// found once per edge
			aAbove, bAbove := fa >= level, fb >= level
			if aAbove == bAbove {
				continue
			}
			cross = append(cross, pts[n].Lerp(pts[m], (level-fa)/(fb-fa)))
		}
		if len(cross) == 2 {
			segs = append(segs, Segment{cross[0], cross[1]})
		}
	}
	return
}

// BandPolygons clips every triangle to the band lo <= F <= hi, the field
// being linear over each triangle. Each returned polygon lies in one triangle
func BandPolygons(X, Y, F []float64, tris [][3]int, lo, hi float64) (polys []*Polygon) {
	for _, tri := range tris {
		var (
			verts = make([]valuedPoint, 3)
			nan   bool
		)
		for n, ind := range tri {
			verts[n] = valuedPoint{Point: NewPoint(X[ind], Y[ind]), f: F[ind]}
			nan = nan || math.IsNaN(F[ind])
		}
		if nan {
			continue
		}
		if fMin, fMax := minMax3(verts); fMax < lo || fMin > hi {
			continue
		}
		verts = clipAbove(verts, lo)
		verts = clipBelow(verts, hi)
		if len(verts) < 3 {
			continue
		}
		geom := make([]Point, len(verts))
		for i, v := range verts {
			geom[i] = v.Point
		}
		poly := NewPolygon(geom)
		if math.Abs(poly.Area()) == 0 {
			continue
		}
		polys = append(polys, poly)
	}
	return
}

type valuedPoint struct {
	Point
	f float64
}

func minMax3(verts []valuedPoint) (fMin, fMax float64) {
	fMin, fMax = verts[0].f, verts[0].f
	for _, v := range verts[1:] {
		fMin, fMax = math.Min(fMin, v.f), math.Max(fMax, v.f)
	}
	return
}

// clipAbove is one Sutherland-Hodgman pass keeping f >= level
func clipAbove(in []valuedPoint, level float64) []valuedPoint {
	return clip(in, func(f float64) bool { return f >= level }, level)
}

// clipBelow keeps f <= level
func clipBelow(in []valuedPoint, level float64) []valuedPoint {
	return clip(in, func(f float64) bool { return f <= level }, level)
}

func clip(in []valuedPoint, keep func(float64) bool, level float64) (out []valuedPoint) {
	if len(in) == 0 {
		return
	}
	prev := in[len(in)-1]
	for _, cur := range in {
		switch {
		case keep(cur.f):
			if !keep(prev.f) {
				out = append(out, crossing(prev, cur, level))
			}
			out = append(out, cur)
		case keep(prev.f):
			out = append(out, crossing(prev, cur, level))
		}
		prev = cur
	}
	return
}

func crossing(a, b valuedPoint, level float64) valuedPoint {
	t := (level - a.f) / (b.f - a.f)
	return valuedPoint{Point: a.Point.Lerp(b.Point, t), f: level}
}
