package plot2D

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/vtkplot/interpolate"
)

// tracer integrates streamlines in axes normalized coordinates, where the
// grid spans the unit square. An occupancy mask keeps lines apart
type tracer struct {
	xAxis, yAxis []float64
	u, v, w      *mat.Dense
	nx, ny       int
	ds           float64
	mask         *streamMask
}

func newTracer(g *interpolate.Grid, widths *mat.Dense, maskSize int) (tr *tracer) {
	tr = &tracer{
		xAxis: g.XAxis,
		yAxis: g.YAxis,
		u:     g.Values[0],
		v:     g.Values[1],
		w:     widths,
		nx:    len(g.XAxis),
		ny:    len(g.YAxis),
		mask:  newStreamMask(maskSize),
	}
	tr.ds = 0.5 / float64(maskSize)
	for _, n := range []int{tr.nx, tr.ny} {
		if n > 1 {
			tr.ds = math.Min(tr.ds, 0.5/float64(n-1))
		}
	}
	return
}

// cell returns the lower grid index and fraction along one axis for a
// normalized coordinate
func cell(xn float64, n int) (i int, f float64) {
	xi := xn * float64(n-1)
	i = int(math.Floor(xi))
	if i >= n-1 {
		i = n - 2
	}
	if i < 0 {
		i = 0
	}
	return i, xi - float64(i)
}

func (tr *tracer) bilinear(M *mat.Dense, xn, yn float64) float64 {
	var (
		j, fx = cell(xn, tr.nx)
		i, fy = cell(yn, tr.ny)
	)
	return (1-fy)*((1-fx)*M.At(i, j)+fx*M.At(i, j+1)) +
		fy*((1-fx)*M.At(i+1, j)+fx*M.At(i+1, j+1))
}

// direction is the unit velocity in normalized coordinates, false where the
// velocity is undefined or zero
func (tr *tracer) direction(xn, yn float64) (dx, dy float64, ok bool) {
	var (
		j, _ = cell(xn, tr.nx)
		i, _ = cell(yn, tr.ny)
		hx   = (tr.xAxis[j+1] - tr.xAxis[j]) * float64(tr.nx-1)
		hy   = (tr.yAxis[i+1] - tr.yAxis[i]) * float64(tr.ny-1)
		un   = tr.bilinear(tr.u, xn, yn) / hx
		vn   = tr.bilinear(tr.v, xn, yn) / hy
		s    = math.Hypot(un, vn)
	)
	if math.IsNaN(s) || math.IsInf(s, 0) || s == 0 {
		return 0, 0, false
	}
	return un / s, vn / s, true
}

func inside(xn, yn float64) bool {
	return xn >= 0 && xn <= 1 && yn >= 0 && yn <= 1
}

// toData maps a normalized coordinate onto its axis
func toData(axis []float64, xn float64) float64 {
	j, f := cell(xn, len(axis))
	return axis[j] + f*(axis[j+1]-axis[j])
}

type trajectory struct {
	xs, ys  []float64
	length  float64
	current int
	cells   []int
}

// enter claims the mask cell at the point, false when another line, or an
// earlier part of this one, owns it
func (t *trajectory) enter(m *streamMask, xn, yn float64) bool {
	c := m.cellOf(xn, yn)
	if c == t.current {
		return true
	}
	if m.occupied[c] {
		return false
	}
	m.occupied[c] = true
	t.cells = append(t.cells, c)
	t.current = c
	return true
}

// integrate walks from (x,y) with midpoint steps, sign -1 walks upstream
func (tr *tracer) integrate(t *trajectory, x, y, sign float64) (xs, ys []float64) {
	maxSteps := int(maxStreamLength/tr.ds) + 1
	for step := 0; step < maxSteps && t.length < maxStreamLength; step++ {
		dx1, dy1, ok := tr.direction(x, y)
		if !ok {
			break
		}
		xm, ym := x+0.5*sign*tr.ds*dx1, y+0.5*sign*tr.ds*dy1
		if !inside(xm, ym) {
			break
		}
		dx2, dy2, ok := tr.direction(xm, ym)
		if !ok {
			break
		}
		xn, yn := x+sign*tr.ds*dx2, y+sign*tr.ds*dy2
		if !inside(xn, yn) || !t.enter(tr.mask, xn, yn) {
			break
		}
		x, y = xn, yn
		xs, ys = append(xs, x), append(ys, y)
		t.length += tr.ds
	}
	return
}

// trace follows the flow both ways from a seed, nil when the line is too short
func (tr *tracer) trace(xs, ys float64) (sl *Streamline) {
	if _, _, ok := tr.direction(xs, ys); !ok {
		return nil
	}
	t := &trajectory{current: -1}
	if !t.enter(tr.mask, xs, ys) {
		return nil
	}
	seedCell := t.current
	bx, by := tr.integrate(t, xs, ys, -1)
	t.current = seedCell
	fx, fy := tr.integrate(t, xs, ys, 1)
	if t.length < minStreamLength {
		for _, c := range t.cells {
			tr.mask.occupied[c] = false
		}
		return nil
	}
	// Upstream points reversed so the line runs with the flow
	for i := len(bx) - 1; i >= 0; i-- {
		t.xs, t.ys = append(t.xs, bx[i]), append(t.ys, by[i])
	}
	t.xs, t.ys = append(t.xs, xs), append(t.ys, ys)
	t.xs, t.ys = append(t.xs, fx...), append(t.ys, fy...)
	sl = &Streamline{
		X:      make([]float64, len(t.xs)),
		Y:      make([]float64, len(t.xs)),
		Widths: make([]float64, len(t.xs)-1),
	}
	for i := range t.xs {
		sl.X[i], sl.Y[i] = toData(tr.xAxis, t.xs[i]), toData(tr.yAxis, t.ys[i])
		if i > 0 {
			w := tr.bilinear(tr.w, 0.5*(t.xs[i-1]+t.xs[i]), 0.5*(t.ys[i-1]+t.ys[i]))
			if math.IsNaN(w) || w < 0 {
				w = 0
			}
			sl.Widths[i-1] = w
		}
	}
	return
}

// traceAll seeds from every free mask cell, outermost ring first
func (tr *tracer) traceAll() (lines []Streamline) {
	if tr.nx < 2 || tr.ny < 2 {
		return nil
	}
	n := tr.mask.n
	for _, c := range spiral(n) {
		if tr.mask.occupied[c] {
			continue
		}
		xs, ys := (float64(c%n)+0.5)/float64(n), (float64(c/n)+0.5)/float64(n)
		if sl := tr.trace(xs, ys); sl != nil {
			lines = append(lines, *sl)
		}
	}
	return
}

type streamMask struct {
	n        int
	occupied []bool
}

func newStreamMask(n int) *streamMask {
	return &streamMask{n: n, occupied: make([]bool, n*n)}
}

func (m *streamMask) cellOf(xn, yn float64) int {
	clamp := func(v float64) int {
		i := int(v * float64(m.n))
		if i >= m.n {
			i = m.n - 1
		}
		if i < 0 {
			i = 0
		}
		return i
	}
	return clamp(yn)*m.n + clamp(xn)
}

// spiral lists the cells of an n x n mask ring by ring from the boundary in
func spiral(n int) (cells []int) {
	var (
		xlo, xhi = 0, n - 1
		ylo, yhi = 0, n - 1
	)
	for xlo <= xhi && ylo <= yhi {
		for i := xlo; i <= xhi; i++ {
			cells = append(cells, ylo*n+i)
		}
		for j := ylo + 1; j <= yhi; j++ {
			cells = append(cells, j*n+xhi)
		}
		if ylo < yhi {
			for i := xhi - 1; i >= xlo; i-- {
				cells = append(cells, yhi*n+i)
			}
		}
		if xlo < xhi {
			for j := yhi - 1; j > ylo; j-- {
				cells = append(cells, j*n+xlo)
			}
		}
		xlo, xhi, ylo, yhi = xlo+1, xhi-1, ylo+1, yhi-1
	}
	return
}
