package geometry2D

import (
	"math"
)

type Point struct {
	X [2]float64
}

func NewPoint(x, y float64) Point {
	return Point{X: [2]float64{x, y}}
}

func (pt Point) Minus(rhs Point) Point {
	return Point{X: [2]float64{pt.X[0] - rhs.X[0], pt.X[1] - rhs.X[1]}}
}

func (pt Point) Plus(rhs Point) Point {
	return Point{X: [2]float64{pt.X[0] + rhs.X[0], pt.X[1] + rhs.X[1]}}
}

// Lerp returns the point a fraction f of the way from pt to rhs
func (pt Point) Lerp(rhs Point, f float64) Point {
	return Point{X: [2]float64{
		pt.X[0] + f*(rhs.X[0]-pt.X[0]),
		pt.X[1] + f*(rhs.X[1]-pt.X[1]),
	}}
}

type BoundingBox struct {
	XMin [2]float64
	XMax [2]float64
}

func NewBoundingBox(X, Y []float64) (Box *BoundingBox) {
	if len(X) == 0 {
		return nil
	}
	Box = &BoundingBox{
		XMin: [2]float64{math.Inf(1), math.Inf(1)},
		XMax: [2]float64{math.Inf(-1), math.Inf(-1)},
	}
	for i, x := range X {
		Box.Add(x, Y[i])
	}
	return Box
}

// Add grows the box to include (x,y), NaN coordinates are ignored
func (bb *BoundingBox) Add(x, y float64) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return
	}
	bb.XMin[0], bb.XMax[0] = math.Min(bb.XMin[0], x), math.Max(bb.XMax[0], x)
	bb.XMin[1], bb.XMax[1] = math.Min(bb.XMin[1], y), math.Max(bb.XMax[1], y)
}

func (bb *BoundingBox) Width() float64  { return bb.XMax[0] - bb.XMin[0] }
func (bb *BoundingBox) Height() float64 { return bb.XMax[1] - bb.XMin[1] }

func (bb *BoundingBox) Centroid() Point {
	return Point{X: [2]float64{
		0.5 * (bb.XMax[0] + bb.XMin[0]),
		0.5 * (bb.XMax[1] + bb.XMin[1]),
	}}
}

func (bb *BoundingBox) Grow(newBB *BoundingBox) {
	for i := 0; i < 2; i++ {
		bb.XMin[i] = math.Min(bb.XMin[i], newBB.XMin[i])
		bb.XMax[i] = math.Max(bb.XMax[i], newBB.XMax[i])
	}
}

// FitAspect widens the shorter side about the centroid so that
// width/height equals aspect
func (bb *BoundingBox) FitAspect(aspect float64) (bbOut *BoundingBox) {
	var (
		w, h = bb.Width(), bb.Height()
		c    = bb.Centroid()
	)
	bbOut = new(BoundingBox)
	*bbOut = *bb
	if w <= 0 || h <= 0 || aspect <= 0 {
		return
	}
	if w/h < aspect {
		w = h * aspect
	} else {
		h = w / aspect
	}
	bbOut.XMin = [2]float64{c.X[0] - 0.5*w, c.X[1] - 0.5*h}
	bbOut.XMax = [2]float64{c.X[0] + 0.5*w, c.X[1] + 0.5*h}
	return
}

type Polygon struct {
	Geometry []Point
}

func NewPolygon(geom []Point) (poly *Polygon) {
	return &Polygon{Geometry: geom}
}

// Area is signed, positive for counter-clockwise vertex order
func (pg *Polygon) Area() (area float64) {
	/*
		Algorithm: Green's theorem in the plane
	*/
	var (
		n = len(pg.Geometry)
	)
	for i := 0; i < n; i++ {
		pt0 := pg.Geometry[i]
		pt1 := pg.Geometry[(i+1)%n]
		area += pt0.X[0]*pt1.X[1] - pt1.X[0]*pt0.X[1]
	}
	return 0.5 * area
}

func (pg *Polygon) Centroid() (centroid Point) {
	var (
		n    = len(pg.Geometry)
		area = pg.Area()
	)
	if area == 0 {
		for _, pt := range pg.Geometry {
			centroid = centroid.Plus(pt)
		}
		centroid.X[0] /= float64(n)
		centroid.X[1] /= float64(n)
		return
	}
	for i := 0; i < n; i++ {
		pt0, pt1 := pg.Geometry[i], pg.Geometry[(i+1)%n]
		metric := pt0.X[0]*pt1.X[1] - pt1.X[0]*pt0.X[1]
		centroid.X[0] += (pt0.X[0] + pt1.X[0]) * metric
		centroid.X[1] += (pt0.X[1] + pt1.X[1]) * metric
	}
	centroid.X[0] /= 6 * area
	centroid.X[1] /= 6 * area
	return
}
