// Package mestimate implements M-estimation: parameter estimation by
// finding the root of a sum of per-observation estimating functions,
// with a sandwich variance estimator that is robust to model
// misspecification.  Maximum likelihood is the special case where the
// estimating functions are the score contributions of the
// log-likelihood.
package mestimate

import (
	"fmt"
	"log"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/entjos/statfit/optimizer"
	"github.com/entjos/statfit/statfit"
)

// EstimatingFunctions provides stacked per-observation estimating
// functions.  The estimator solves sum_i psi_i(theta) = 0.
type EstimatingFunctions interface {

	// NumParams returns the dimension of the parameter vector,
	// which equals the dimension of each estimating function.
	NumParams() int

	// NumObs returns the number of observations.
	NumObs() int

	// ScoreObs stores psi_i(theta) for observation i into out.
	ScoreObs(out []float64, i int, theta []float64)
}

// Config holds settings for Solve.
type Config struct {

	// Start is the starting point for the root search; the zero
	// vector if nil.
	Start []float64

	// Root configures the Newton root finder.
	Root *optimizer.RootConfig

	// If not nil, write log messages here.
	Log *log.Logger
}

// Results holds an M-estimation fit: the root of the estimating
// equations together with the sandwich covariance B^-1 F (B^-1)^T / n
// formed from the bread matrix B (the negated mean Jacobian of the
// estimating functions) and the filling matrix F (the mean outer
// product of the estimating functions at the root).
type Results struct {
	*statfit.Results

	bread   []float64
	filling []float64
	root    *optimizer.RootResult
}

// Bread returns the bread matrix B, vectorized by row.
func (r *Results) Bread() []float64 {
	return r.bread
}

// Filling returns the filling matrix F, vectorized by row.
func (r *Results) Filling() []float64 {
	return r.filling
}

// Root returns the underlying root-finder result.
func (r *Results) Root() *optimizer.RootResult {
	return r.root
}

// Solve estimates theta by solving the stacked estimating equations
// and returns the estimate with its sandwich covariance.  names label
// the parameters in summaries.
func Solve(ef EstimatingFunctions, names []string, cfg *Config) (*Results, error) {

	if cfg == nil {
		cfg = &Config{}
	}

	p := ef.NumParams()
	n := ef.NumObs()

	start := cfg.Start
	if start == nil {
		start = make([]float64, p)
	}

	psi := make([]float64, p)
	sum := func(out, theta []float64) {
		for j := range out {
			out[j] = 0
		}
		for i := 0; i < n; i++ {
			ef.ScoreObs(psi, i, theta)
			for j := range out {
				out[j] += psi[j]
			}
		}
	}

	rootcfg := cfg.Root
	if rootcfg == nil {
		rootcfg = &optimizer.RootConfig{Log: cfg.Log}
	}

	root, err := optimizer.NewtonRoot(sum, nil, start, rootcfg)
	if err != nil {
		return nil, err
	}
	if !root.Converged {
		return nil, fmt.Errorf("mestimate: estimating equations did not converge (norm %e)", root.Norm)
	}

	theta := root.X

	bread := breadMatrix(ef, theta)
	filling := fillingMatrix(ef, theta)

	vcov, err := sandwich(bread, filling, p, n)
	if err != nil {
		return nil, err
	}

	return &Results{
		Results: statfit.NewResults(names, 0, theta, vcov),
		bread:   bread,
		filling: filling,
		root:    root,
	}, nil
}

// breadMatrix returns B = -(1/n) sum_i d psi_i / d theta, using a
// finite-difference Jacobian of the summed estimating functions.
func breadMatrix(ef EstimatingFunctions, theta []float64) []float64 {

	p := ef.NumParams()
	n := ef.NumObs()

	psi := make([]float64, p)
	sum := func(out, x []float64) {
		for j := range out {
			out[j] = 0
		}
		for i := 0; i < n; i++ {
			ef.ScoreObs(psi, i, x)
			for j := range out {
				out[j] += psi[j]
			}
		}
	}

	J := mat.NewDense(p, p, nil)
	fd.Jacobian(J, sum, theta, nil)

	bread := make([]float64, p*p)
	for i := 0; i < p; i++ {
		for j := 0; j < p; j++ {
			bread[i*p+j] = -J.At(i, j) / float64(n)
		}
	}

	return bread
}

// fillingMatrix returns F = (1/n) sum_i psi_i psi_i^T at theta.
func fillingMatrix(ef EstimatingFunctions, theta []float64) []float64 {

	p := ef.NumParams()
	n := ef.NumObs()

	psi := make([]float64, p)
	filling := make([]float64, p*p)

	for i := 0; i < n; i++ {
		ef.ScoreObs(psi, i, theta)
		for a := 0; a < p; a++ {
			for b := 0; b < p; b++ {
				filling[a*p+b] += psi[a] * psi[b]
			}
		}
	}
	for k := range filling {
		filling[k] /= float64(n)
	}

	return filling
}

// sandwich returns B^-1 F (B^-1)^T / n, vectorized by row.
func sandwich(bread, filling []float64, p, n int) ([]float64, error) {

	B := mat.NewDense(p, p, bread)
	F := mat.NewDense(p, p, filling)

	var Bi mat.Dense
	if err := Bi.Inverse(B); err != nil {
		return nil, fmt.Errorf("mestimate: can't invert bread matrix: %v", err)
	}

	var tmp, S mat.Dense
	tmp.Mul(&Bi, F)
	S.Mul(&tmp, Bi.T())
	S.Scale(1/float64(n), &S)

	vcov := make([]float64, p*p)
	for i := 0; i < p; i++ {
		for j := 0; j < p; j++ {
			vcov[i*p+j] = S.At(i, j)
		}
	}

	return vcov, nil
}
