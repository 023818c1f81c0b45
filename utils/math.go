package utils

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Linspace returns N evenly spaced values from min to max inclusive
func Linspace(min, max float64, N int) (v []float64) {
	switch {
	case N <= 0:
		return nil
	case N == 1:
		return []float64{min}
	}
	return floats.Span(make([]float64, N), min, max)
}

// Unique returns the sorted distinct non NaN values of v
func Unique(v []float64) (u []float64) {
	for _, val := range v {
		if !math.IsNaN(val) {
			u = append(u, val)
		}
	}
	sort.Float64s(u)
	if len(u) == 0 {
		return
	}
	n := 1
	for _, val := range u[1:] {
		if val != u[n-1] {
			u[n] = val
			n++
		}
	}
	return u[:n]
}

// Meshgrid expands the axes into coordinate matrices with one row per y value
func Meshgrid(xAxis, yAxis []float64) (X, Y *mat.Dense) {
	var (
		nr, nc = len(yAxis), len(xAxis)
	)
	X, Y = mat.NewDense(nr, nc, nil), mat.NewDense(nr, nc, nil)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			X.Set(i, j, xAxis[j])
			Y.Set(i, j, yAxis[i])
		}
	}
	return
}

// MinMax ignores NaN values, both results are NaN when there are none
func MinMax(v []float64) (min, max float64) {
	min, max = math.NaN(), math.NaN()
	for _, val := range v {
		if math.IsNaN(val) {
			continue
		}
		if math.IsNaN(min) || val < min {
			min = val
		}
		if math.IsNaN(max) || val > max {
			max = val
		}
	}
	return
}

func DenseMinMax(M *mat.Dense) (min, max float64) {
	nr, _ := M.Dims()
	min, max = math.NaN(), math.NaN()
	for i := 0; i < nr; i++ {
		rmin, rmax := MinMax(M.RawRowView(i))
		if !math.IsNaN(rmin) && (math.IsNaN(min) || rmin < min) {
			min = rmin
		}
		if !math.IsNaN(rmax) && (math.IsNaN(max) || rmax > max) {
			max = rmax
		}
	}
	return
}
