// Package optimizer drives general-purpose local optimization of
// likelihood objectives.  It runs one or more gonum optimization
// algorithms from a common starting point and reports a result per
// algorithm, including its convergence status; non-convergence is
// surfaced, never retried, and callers filter to the converged runs
// before trusting the estimates.
package optimizer

import (
	"fmt"
	"log"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/entjos/statfit/statfit"
)

// Method pairs a gonum optimization method with a display name.
type Method struct {
	Name   string
	Method optimize.Method
}

// DefaultMethods returns the set of algorithms run when the caller
// does not choose its own: Nelder-Mead plus three gradient methods.
func DefaultMethods() []Method {
	return []Method{
		{Name: "NelderMead", Method: &optimize.NelderMead{}},
		{Name: "BFGS", Method: &optimize.BFGS{}},
		{Name: "LBFGS", Method: &optimize.LBFGS{}},
		{Name: "CG", Method: &optimize.CG{}},
	}
}

// Config holds settings for a Minimize run.
type Config struct {

	// Methods to run.  If empty, DefaultMethods is used.
	Methods []Method

	// Settings are passed to every gonum optimization run.
	Settings *optimize.Settings

	// Hessian requests a finite-difference Hessian of the
	// objective at each converged optimum.
	Hessian bool

	// If not nil, write log messages here.
	Log *log.Logger
}

// defaultSettings returns the gonum settings used when the caller
// supplies none: a gradient threshold suitable for likelihood work,
// plus iteration and evaluation budgets so that a run which fails to
// converge still terminates with a status instead of spinning.
func defaultSettings() *optimize.Settings {
	return &optimize.Settings{
		GradientThreshold: 1e-6,
		MajorIterations:   1000,
		FuncEvaluations:   100000,
	}
}

// DefaultConfig returns a Config with the default methods, the
// default settings, and Hessians enabled.
func DefaultConfig() *Config {
	return &Config{
		Methods:  DefaultMethods(),
		Settings: defaultSettings(),
		Hessian:  true,
	}
}

// Result describes the outcome of one algorithm's run.
type Result struct {

	// Method is the display name of the algorithm.
	Method string

	// X is the parameter value at termination.
	X []float64

	// F is the objective value at X.
	F float64

	// Status is the gonum termination status.
	Status optimize.Status

	// Converged reports whether the run terminated at a point the
	// algorithm considers an optimum.  Estimates from
	// non-converged runs should not be trusted.
	Converged bool

	// Hessian is the finite-difference Hessian of the objective
	// at X, vectorized by row.  Nil unless requested and converged.
	Hessian []float64
}

// Minimize runs each configured algorithm on the objective from the
// given starting point.  One Result is returned per algorithm, in
// order; individual failures are recorded in the result rather than
// returned as errors.
func Minimize(obj statfit.Objective, start []float64, cfg *Config) []Result {

	if cfg == nil {
		cfg = DefaultConfig()
	}
	methods := cfg.Methods
	if len(methods) == 0 {
		methods = DefaultMethods()
	}
	settings := cfg.Settings
	if settings == nil {
		settings = defaultSettings()
	}

	prob := optimize.Problem{
		Func: obj.Value,
		Grad: obj.Grad,
	}

	var results []Result
	for _, m := range methods {

		x0 := make([]float64, len(start))
		copy(x0, start)

		res := Result{Method: m.Name}

		optrslt, err := optimize.Minimize(prob, x0, settings, m.Method)
		if optrslt != nil {
			res.X = optrslt.X
			res.F = optrslt.F
			res.Status = optrslt.Status
		}
		res.Converged = err == nil && optrslt != nil && optrslt.Status.Err() == nil &&
			optrslt.Status != optimize.NotTerminated

		if cfg.Log != nil {
			if res.Converged {
				cfg.Log.Printf("%s: converged, f=%f status=%v", m.Name, res.F, res.Status)
			} else {
				cfg.Log.Printf("%s: did not converge, err=%v status=%v", m.Name, err, res.Status)
			}
		}

		if res.Converged && cfg.Hessian {
			res.Hessian = NumHessian(obj, res.X)
		}

		results = append(results, res)
	}

	return results
}

// Converged filters results down to the converged runs.
func Converged(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Converged {
			out = append(out, r)
		}
	}
	return out
}

// Best returns the converged result with the lowest objective value.
// It returns an error when no run converged.
func Best(results []Result) (Result, error) {

	conv := Converged(results)
	if len(conv) == 0 {
		return Result{}, fmt.Errorf("optimizer: no algorithm converged")
	}

	best := conv[0]
	for _, r := range conv[1:] {
		if r.F < best.F {
			best = r
		}
	}

	return best, nil
}

// NumHessian returns a finite-difference Hessian of the objective at
// x, vectorized by row.  It differences the analytic gradient rather
// than the objective value, which loses only one order of accuracy to
// the step instead of two, and symmetrizes the result.
func NumHessian(obj statfit.Objective, x []float64) []float64 {

	p := len(x)
	J := mat.NewDense(p, p, nil)
	fd.Jacobian(J, obj.Grad, x, nil)

	hess := make([]float64, p*p)
	for i := 0; i < p; i++ {
		for j := 0; j < p; j++ {
			hess[i*p+j] = (J.At(i, j) + J.At(j, i)) / 2
		}
	}

	return hess
}
