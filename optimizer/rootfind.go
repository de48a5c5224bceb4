package optimizer

import (
	"fmt"
	"log"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// RootConfig holds settings for NewtonRoot.
type RootConfig struct {

	// MaxIter is the iteration limit (default 100).
	MaxIter int

	// Tol is the convergence threshold on the maximum absolute
	// component of the function value (default 1e-9).
	Tol float64

	// If not nil, write log messages here.
	Log *log.Logger
}

// RootResult describes the outcome of a root-finding run.
type RootResult struct {

	// X is the final point.
	X []float64

	// Norm is the maximum absolute component of the function at X.
	Norm float64

	// Iter is the number of Newton iterations used.
	Iter int

	// Converged reports whether Norm fell below the tolerance.
	// A non-converged root should not be used for estimation.
	Converged bool
}

func maxabs(x []float64) float64 {
	var m float64
	for _, v := range x {
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}
	return m
}

// NewtonRoot solves g(x) = 0 for a vector-valued function g of the
// same dimension as x, using damped Newton iterations.  jac stores
// the Jacobian of g at x into dst; pass nil to use finite
// differences.  Non-convergence within the iteration limit is
// reported through the result, not as an error; an error is returned
// only when a Newton step cannot be computed (singular Jacobian).
func NewtonRoot(g func(out, x []float64), jac func(dst *mat.Dense, x []float64), start []float64, cfg *RootConfig) (*RootResult, error) {

	if cfg == nil {
		cfg = &RootConfig{}
	}
	maxiter := cfg.MaxIter
	if maxiter == 0 {
		maxiter = 100
	}
	tol := cfg.Tol
	if tol == 0 {
		tol = 1e-9
	}

	p := len(start)
	x := make([]float64, p)
	copy(x, start)

	gv := make([]float64, p)
	gtrial := make([]float64, p)
	xtrial := make([]float64, p)
	J := mat.NewDense(p, p, nil)

	g(gv, x)
	norm := maxabs(gv)

	res := &RootResult{X: x, Norm: norm}

	for iter := 0; iter < maxiter; iter++ {

		if norm < tol {
			res.Converged = true
			res.Iter = iter
			res.Norm = norm
			return res, nil
		}

		if jac != nil {
			jac(J, x)
		} else {
			fd.Jacobian(J, g, x, nil)
		}

		var step mat.VecDense
		if err := step.SolveVec(J, mat.NewVecDense(p, gv)); err != nil {
			res.Iter = iter
			res.Norm = norm
			return res, fmt.Errorf("optimizer: singular Jacobian in Newton step: %v", err)
		}

		// Backtrack until the step reduces the residual.
		lam := 1.0
		improved := false
		for k := 0; k < 30; k++ {
			for j := 0; j < p; j++ {
				xtrial[j] = x[j] - lam*step.AtVec(j)
			}
			g(gtrial, xtrial)
			if tn := maxabs(gtrial); tn < norm {
				copy(x, xtrial)
				copy(gv, gtrial)
				norm = tn
				improved = true
				break
			}
			lam /= 2
		}

		if cfg.Log != nil {
			cfg.Log.Printf("newton iter %d: norm=%e", iter+1, norm)
		}

		if !improved {
			// Stalled; report the best point found.
			res.Iter = iter + 1
			res.Norm = norm
			return res, nil
		}
	}

	res.Iter = maxiter
	res.Norm = norm
	res.Converged = norm < tol
	return res, nil
}
