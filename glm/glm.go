// Package glm fits generalized linear models by iteratively
// reweighted least squares.  It serves as the reference fit for the
// hand-derived likelihood objectives in the likelihood package: the
// two paths are developed independently and their coefficients and
// standard errors are compared against each other.
package glm

import (
	"fmt"
	"log"

	"gonum.org/v1/gonum/floats"

	"github.com/entjos/statfit/statfit"
)

// GLM represents a generalized linear model.
type GLM struct {
	yname  string
	xnames []string

	y   []statfit.Dtype
	x   [][]statfit.Dtype
	wgt []statfit.Dtype
	off []statfit.Dtype

	fam  *Family
	link *Link
	vari *Variance

	start   []float64
	maxiter int
	tol     float64

	log *log.Logger
}

// Config defines configuration parameters for a GLM.
type Config struct {

	// Start contains starting values for IRLS.
	Start []float64

	// WeightVar is the name of a case weight variable; if empty,
	// all weights are 1.
	WeightVar string

	// OffsetVar is the name of an offset variable, if any.
	OffsetVar string

	// Link overrides the canonical link of the family.
	Link *Link

	// MaxIter is the IRLS iteration limit.
	MaxIter int

	// Tol is the convergence threshold on the largest absolute
	// coefficient change between IRLS iterations.
	Tol float64

	// If not nil, write log messages here.
	Log *log.Logger
}

// DefaultConfig returns a default configuration for a GLM.
func DefaultConfig() *Config {
	return &Config{
		MaxIter: 50,
		Tol:     1e-10,
	}
}

// NewGLM returns a GLM value for the given outcome, predictors, and
// family, ready to be fit with the Fit method.
func NewGLM(data statfit.Dataset, outcome string, predictors []string, fam *Family, config *Config) (*GLM, error) {

	if config == nil {
		config = DefaultConfig()
	}

	y, err := data.Column(outcome)
	if err != nil {
		return nil, err
	}

	x, err := data.Columns(predictors)
	if err != nil {
		return nil, err
	}

	var wgt, off []statfit.Dtype
	if config.WeightVar != "" {
		if wgt, err = data.Column(config.WeightVar); err != nil {
			return nil, err
		}
	}
	if config.OffsetVar != "" {
		if off, err = data.Column(config.OffsetVar); err != nil {
			return nil, err
		}
	}

	link := config.Link
	if link == nil {
		link = NewLink(fam.validLinks[0])
	} else if !fam.IsValidLink(link) {
		return nil, fmt.Errorf("glm: link %s is not valid for family %s", link.Name, fam.Name)
	}

	maxiter := config.MaxIter
	if maxiter == 0 {
		maxiter = 50
	}
	tol := config.Tol
	if tol == 0 {
		tol = 1e-10
	}

	return &GLM{
		yname:   outcome,
		xnames:  predictors,
		y:       y,
		x:       x,
		wgt:     wgt,
		off:     off,
		fam:     fam,
		link:    link,
		vari:    defaultVariance(fam),
		start:   config.Start,
		maxiter: maxiter,
		tol:     tol,
		log:     config.Log,
	}, nil
}

// NumParams returns the number of covariates in the model.
func (glm *GLM) NumParams() int {
	return len(glm.x)
}

// NumObs returns the number of observations in the data set.
func (glm *GLM) NumObs() int {
	return len(glm.y)
}

// linpred computes the linear predictor at the given coefficients.
func (glm *GLM) linpred(coeff, lp []float64) {
	for i := range lp {
		lp[i] = 0
	}
	for j := range glm.x {
		xda := glm.x[j]
		for i := range xda {
			lp[i] += coeff[j] * float64(xda[i])
		}
	}
	if glm.off != nil {
		for i := range lp {
			lp[i] += float64(glm.off[i])
		}
	}
}

// LogLike returns the log-likelihood at the given coefficients.  For
// families with a free scale parameter, the scale estimate at the
// coefficients is plugged in.
func (glm *GLM) LogLike(coeff []float64) float64 {

	n := glm.NumObs()
	lp := make([]float64, n)
	mn := make([]float64, n)

	glm.linpred(coeff, lp)
	glm.link.InvLink(lp, mn)

	return glm.fam.LogLike(glm.y, mn, glm.wgt, glm.EstimateScale(coeff))
}

// Score stores the score vector at the given coefficients.
func (glm *GLM) Score(coeff, score []float64) {

	n := glm.NumObs()
	lp := make([]float64, n)
	mn := make([]float64, n)
	deriv := make([]float64, n)
	va := make([]float64, n)

	glm.linpred(coeff, lp)
	glm.link.InvLink(lp, mn)
	glm.link.Deriv(mn, deriv)
	glm.vari.Var(mn, va)

	for j := range score {
		score[j] = 0
	}

	for i := range glm.y {
		fac := (float64(glm.y[i]) - mn[i]) / (deriv[i] * va[i])
		if glm.wgt != nil {
			fac *= float64(glm.wgt[i])
		}
		for j := range glm.x {
			score[j] += fac * float64(glm.x[j][i])
		}
	}
}

// Hessian stores the expected Hessian of the log-likelihood at the
// given coefficients, vectorized by row.  For the canonical links
// used here the expected and observed Hessians agree.
func (glm *GLM) Hessian(coeff, hess []float64) {

	n := glm.NumObs()
	p := glm.NumParams()
	lp := make([]float64, n)
	mn := make([]float64, n)
	deriv := make([]float64, n)
	va := make([]float64, n)

	glm.linpred(coeff, lp)
	glm.link.InvLink(lp, mn)
	glm.link.Deriv(mn, deriv)
	glm.vari.Var(mn, va)

	for k := range hess {
		hess[k] = 0
	}

	for i := range glm.y {
		fac := 1 / (deriv[i] * deriv[i] * va[i])
		if glm.wgt != nil {
			fac *= float64(glm.wgt[i])
		}
		for j1 := 0; j1 < p; j1++ {
			for j2 := 0; j2 <= j1; j2++ {
				u := fac * float64(glm.x[j1][i]) * float64(glm.x[j2][i])
				hess[j1*p+j2] -= u
				if j1 != j2 {
					hess[j2*p+j1] -= u
				}
			}
		}
	}
}

// EstimateScale returns an estimate of the scale parameter at the
// given coefficients: 1 for families with fixed scale, otherwise the
// Pearson estimate.
func (glm *GLM) EstimateScale(coeff []float64) float64 {

	if glm.fam.fixedScale {
		return 1
	}

	n := glm.NumObs()
	lp := make([]float64, n)
	mn := make([]float64, n)
	va := make([]float64, n)

	glm.linpred(coeff, lp)
	glm.link.InvLink(lp, mn)
	glm.vari.Var(mn, va)

	var scale, ws float64
	for i := range glm.y {
		w := 1.0
		if glm.wgt != nil {
			w = float64(glm.wgt[i])
		}
		r := float64(glm.y[i]) - mn[i]
		scale += w * r * r / va[i]
		ws += w
	}

	return scale / (ws - float64(glm.NumParams()))
}

// Results describes the results of a fitted generalized linear model.
type Results struct {
	*statfit.Results

	model *GLM
	scale float64
}

// Scale returns the estimated scale parameter.
func (rslt *Results) Scale() float64 {
	return rslt.scale
}

// Fit estimates the model parameters by IRLS and returns a results
// value.
func (glm *GLM) Fit() (*Results, error) {

	start := glm.start
	if start == nil {
		start = make([]float64, glm.NumParams())
	}

	if glm.log != nil {
		glm.log.Printf("glm: fitting %s/%s model with %d covariates",
			glm.fam.Name, glm.link.Name, glm.NumParams())
	}

	coeff, err := glm.fitIRLS(start)
	if err != nil {
		return nil, err
	}

	scale := glm.EstimateScale(coeff)

	vcov, err := statfit.VCov(glm, coeff)
	if err != nil {
		return nil, err
	}
	floats.Scale(scale, vcov)

	ll := glm.LogLike(coeff)

	return &Results{
		Results: statfit.NewResults(glm.xnames, ll, coeff, vcov),
		model:   glm,
		scale:   scale,
	}, nil
}

// Summary returns a string summarizing the fitted model.
func (rslt *Results) Summary() string {

	glm := rslt.model

	n := glm.NumObs()
	lp := make([]float64, n)
	mn := make([]float64, n)
	glm.linpred(rslt.Params(), lp)
	glm.link.InvLink(lp, mn)
	dev := glm.fam.Deviance(glm.y, mn, glm.wgt)

	lcb, ucb := rslt.ConfInt(0.95)

	sum := &statfit.SummaryTable{
		Title: "Generalized linear model analysis",
		Top: []string{
			fmt.Sprintf("Family:   %s", glm.fam.Name),
			fmt.Sprintf("Link:     %s", glm.link.Name),
			fmt.Sprintf("Num obs:  %d", n),
			fmt.Sprintf("Scale:    %f", rslt.scale),
			fmt.Sprintf("Deviance: %f", dev),
		},
		ColNames: []string{"Variable", "Coefficient", "SE", "LCB", "UCB", "Z-score", "P-value"},
		ColFmt: []statfit.Fmter{statfit.FmtString, statfit.FmtNumber, statfit.FmtNumber,
			statfit.FmtNumber, statfit.FmtNumber, statfit.FmtNumber, statfit.FmtNumber},
		Cols: []interface{}{
			rslt.Names(),
			rslt.Params(),
			rslt.StdErr(),
			lcb,
			ucb,
			rslt.ZScores(),
			rslt.PValues(),
		},
	}

	return sum.String()
}

var _ statfit.RegFitter = (*GLM)(nil)
