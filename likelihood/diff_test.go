package likelihood

import (
	"testing"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"

	"github.com/entjos/statfit/statfit"
)

// testdata returns a small deterministic data set with a binary
// outcome, a count outcome, survival times, and two covariates.
func testdata() statfit.Dataset {

	da := [][]statfit.Dtype{
		{0, 1, 1, 0, 1, 0, 1, 1, 0, 1},
		{0, 2, 1, 0, 3, 1, 4, 2, 0, 5},
		{2, 1, 3, 4, 1, 5, 2, 3, 6, 1},
		{1, 1, 0, 0, 1, 0, 0, 1, 1, 0},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		{-1, 0.5, 1, -0.5, 2, 0, 1.5, -2, 0.5, 1},
		{0, 1, 0, 1, 0, 1, 0, 1, 0, 1},
	}

	names := []string{"y", "count", "time", "status", "icept", "x1", "x2"}

	data, err := statfit.NewDataset(da, names)
	if err != nil {
		panic(err)
	}

	return data
}

// checkGrad compares the analytic gradient to a finite-difference
// gradient of the objective at each of the given points.
func checkGrad(t *testing.T, obj statfit.Objective, points [][]float64) {
	t.Helper()

	p := obj.NumParams()
	agrad := make([]float64, p)
	ngrad := make([]float64, p)

	for _, pt := range points {
		obj.Grad(agrad, pt)
		fd.Gradient(ngrad, obj.Value, pt, nil)
		if !floats.EqualApprox(agrad, ngrad, 1e-5) {
			t.Errorf("gradients at %v differ: analytic %v, numeric %v", pt, agrad, ngrad)
		}
	}
}

func TestLogisticGrad(t *testing.T) {

	model, err := NewLogistic(testdata(), "y", []string{"icept", "x1", "x2"})
	if err != nil {
		panic(err)
	}

	checkGrad(t, model, [][]float64{
		{0, 0, 0},
		{0.5, -0.2, 0.1},
		{-1, 1, 0.3},
	})
}

func TestPoissonGrad(t *testing.T) {

	model, err := NewPoisson(testdata(), "count", []string{"icept", "x1", "x2"}, "")
	if err != nil {
		panic(err)
	}

	checkGrad(t, model, [][]float64{
		{0, 0, 0},
		{0.2, 0.3, -0.1},
	})
}

func TestPoissonOffsetGrad(t *testing.T) {

	model, err := NewPoisson(testdata(), "count", []string{"icept", "x1"}, "x2")
	if err != nil {
		panic(err)
	}

	checkGrad(t, model, [][]float64{
		{0, 0},
		{0.4, -0.3},
	})
}

func TestWeibullGrad(t *testing.T) {

	model, err := NewWeibull(testdata(), "time", "status", []string{"icept", "x1"})
	if err != nil {
		panic(err)
	}

	checkGrad(t, model, [][]float64{
		{0, 0, 0},
		{0.3, -0.5, 0.2},
		{-0.2, 0.1, -0.1},
	})
}

func TestCoxGrad(t *testing.T) {

	model, err := NewCox(testdata(), "time", "status", []string{"x1"}, "")
	if err != nil {
		panic(err)
	}

	checkGrad(t, model, [][]float64{
		{0},
		{0.5},
		{-0.7},
	})
}

func TestCoxStratifiedGrad(t *testing.T) {

	model, err := NewCox(testdata(), "time", "status", []string{"x1"}, "x2")
	if err != nil {
		panic(err)
	}

	checkGrad(t, model, [][]float64{
		{0},
		{0.5},
	})
}
