package roughness

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/surface.report/internal/pointcloud"
)

// ErrInsufficientData is returned when there are no points to evaluate.
var ErrInsufficientData = errors.New("insufficient data for surface statistics")

var errFactorize = errors.New("plane fit: SVD factorization failed")

// Plane is the least-squares reference plane z = A*x + B*y + C.
type Plane struct {
	A, B, C float64
}

// At returns the plane height at (x, y).
func (p Plane) At(x, y float64) float64 {
	return p.A*x + p.B*y + p.C
}

// FitPlane solves the least-squares plane through the cloud. Rank-deficient
// designs (a single profile, collinear points) get the minimum-norm
// solution.
func FitPlane(c pointcloud.Cloud) (Plane, error) {
	n := len(c)
	if n == 0 {
		return Plane{}, ErrInsufficientData
	}

	design := mat.NewDense(n, 3, nil)
	z := mat.NewVecDense(n, nil)
	for i, p := range c {
		design.Set(i, 0, p.X)
		design.Set(i, 1, p.Y)
		design.Set(i, 2, 1)
		z.SetVec(i, p.Z)
	}

	var svd mat.SVD
	if ok := svd.Factorize(design, mat.SVDThin); !ok {
		return Plane{}, errFactorize
	}

	rcond := math.Nextafter(1, 2) - 1
	rcond *= float64(max(n, 3))
	rank := svd.Rank(rcond)
	if rank == 0 {
		return Plane{}, nil
	}

	var coef mat.VecDense
	svd.SolveVecTo(&coef, z, rank)
	return Plane{A: coef.AtVec(0), B: coef.AtVec(1), C: coef.AtVec(2)}, nil
}

// Residuals returns z minus the plane height for every point.
func Residuals(c pointcloud.Cloud, p Plane) []float64 {
	r := make([]float64, len(c))
	for i, pt := range c {
		r[i] = pt.Z - p.At(pt.X, pt.Y)
	}
	return r
}
