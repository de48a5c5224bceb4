// Package statfit provides the shared building blocks for fitting
// parametric statistical models by numerical optimization: datasets,
// objective function contracts, fitted-model results, and Wald-type
// inference derived from the Hessian at the optimum.
package statfit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Dtype is the numeric type used for all data values.
type Dtype = float64

// Objective is a smooth scalar objective (a negative log-likelihood)
// with an analytic gradient.  For fixed data, Value and Grad must be
// pure functions of the parameter vector.
type Objective interface {

	// NumParams returns the length of the parameter vector.
	NumParams() int

	// Value returns the objective at x.  Parameter values that
	// produce out-of-domain intermediates are mapped to a large
	// penalty value rather than an error, so that optimizers are
	// steered away from infeasible regions.
	Value(x []float64) float64

	// Grad stores the gradient of the objective at x into grad.
	Grad(grad, x []float64)
}

// RegFitter is a regression model with analytic log-likelihood
// derivatives, used as a reference fit against which optimizer-based
// estimates are compared.
type RegFitter interface {

	// NumParams returns the number of model coefficients.
	NumParams() int

	// NumObs returns the number of observations in the data set.
	NumObs() int

	// LogLike returns the log-likelihood at the given coefficients.
	LogLike(coeff []float64) float64

	// Score stores the score vector at the given coefficients.
	Score(coeff, score []float64)

	// Hessian stores the log-likelihood Hessian, vectorized by
	// row, at the given coefficients.
	Hessian(coeff, hess []float64)
}

// VCov returns the sampling variance/covariance matrix of the maximum
// likelihood estimate, computed as the negative inverse of the
// log-likelihood Hessian at coeff.  The matrix is vectorized by row.
func VCov(model RegFitter, coeff []float64) ([]float64, error) {

	nvar := model.NumParams()
	hess := make([]float64, nvar*nvar)
	model.Hessian(coeff, hess)

	hmat := mat.NewDense(nvar, nvar, hess)
	vcov := make([]float64, nvar*nvar)
	vmat := mat.NewDense(nvar, nvar, vcov)

	if err := vmat.Inverse(hmat); err != nil {
		return nil, fmt.Errorf("statfit: can't invert Hessian: %v", err)
	}
	vmat.Scale(-1, vmat)

	return vcov, nil
}

// VCovFromNegHess returns the sampling variance/covariance matrix
// obtained by inverting the Hessian of a negative log-likelihood,
// e.g. the numeric Hessian produced by an optimizer run.
func VCovFromNegHess(hess []float64, nvar int) ([]float64, error) {

	if len(hess) != nvar*nvar {
		return nil, fmt.Errorf("statfit: Hessian has length %d, need %d", len(hess), nvar*nvar)
	}

	hmat := mat.NewDense(nvar, nvar, hess)
	vcov := make([]float64, nvar*nvar)
	vmat := mat.NewDense(nvar, nvar, vcov)

	if err := vmat.Inverse(hmat); err != nil {
		return nil, fmt.Errorf("statfit: can't invert Hessian: %v", err)
	}

	return vcov, nil
}

// Results holds the estimates and sampling covariance for a fitted
// model.  A Results value is created once per fit and never mutated,
// except for lazily caching derived quantities.
type Results struct {
	names   []string
	loglike float64
	params  []float64
	vcov    []float64
	stderr  []float64
	zscores []float64
	pvalues []float64
}

// NewResults returns a Results value for the given parameter names,
// achieved log-likelihood, point estimates, and covariance matrix
// (vectorized by row).  vcov may be nil if no covariance is available,
// in which case the derived quantities are nil as well.
func NewResults(names []string, loglike float64, params, vcov []float64) *Results {
	return &Results{
		names:   names,
		loglike: loglike,
		params:  params,
		vcov:    vcov,
	}
}

// Names returns the names of the model parameters.
func (r *Results) Names() []string {
	return r.names
}

// LogLike returns the log-likelihood or objective value at the estimate.
func (r *Results) LogLike() float64 {
	return r.loglike
}

// Params returns the point estimates.
func (r *Results) Params() []float64 {
	return r.params
}

// VCov returns the sampling variance/covariance matrix, vectorized by row.
func (r *Results) VCov() []float64 {
	return r.vcov
}

// StdErr returns the standard errors of the parameter estimates.
func (r *Results) StdErr() []float64 {

	if r.vcov == nil {
		return nil
	}
	if r.stderr != nil {
		return r.stderr
	}

	p := len(r.params)
	r.stderr = make([]float64, p)
	for i := range r.stderr {
		r.stderr[i] = math.Sqrt(r.vcov[i*p+i])
	}

	return r.stderr
}

// ZScores returns the parameter estimates divided by their standard errors.
func (r *Results) ZScores() []float64 {

	if r.vcov == nil {
		return nil
	}
	if r.zscores != nil {
		return r.zscores
	}

	std := r.StdErr()
	r.zscores = make([]float64, len(std))
	for i := range std {
		r.zscores[i] = r.params[i] / std[i]
	}

	return r.zscores
}

func normcdf(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt(2))
}

// PValues returns two-sided p-values for the null hypothesis that each
// parameter's population value is zero.
func (r *Results) PValues() []float64 {

	if r.vcov == nil {
		return nil
	}
	if r.pvalues != nil {
		return r.pvalues
	}

	z := r.ZScores()
	r.pvalues = make([]float64, len(z))
	for i := range z {
		r.pvalues[i] = 2 * normcdf(-math.Abs(z[i]))
	}

	return r.pvalues
}

// Summary returns a coefficient table for the fit under the given
// title.  Model-specific fitters wrap this with their own headers.
func (r *Results) Summary(title string) string {

	lcb, ucb := r.ConfInt(0.95)

	sum := &SummaryTable{
		Title:    title,
		ColNames: []string{"Variable", "Coefficient", "SE", "LCB", "UCB", "Z-score", "P-value"},
		ColFmt: []Fmter{FmtString, FmtNumber, FmtNumber, FmtNumber,
			FmtNumber, FmtNumber, FmtNumber},
		Cols: []interface{}{
			r.Names(),
			r.Params(),
			r.StdErr(),
			lcb,
			ucb,
			r.ZScores(),
			r.PValues(),
		},
	}

	return sum.String()
}

// ConfInt returns the lower and upper Wald confidence limits at the
// given coverage level, e.g. 0.95.
func (r *Results) ConfInt(level float64) ([]float64, []float64) {

	std := r.StdErr()
	if std == nil {
		return nil, nil
	}

	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.5 + level/2)

	lcb := make([]float64, len(std))
	ucb := make([]float64, len(std))
	for i := range std {
		lcb[i] = r.params[i] - z*std[i]
		ucb[i] = r.params[i] + z*std[i]
	}

	return lcb, ucb
}
