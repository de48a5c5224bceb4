package likelihood

import (
	"math"

	"github.com/entjos/statfit/statfit"
)

// Poisson is the negative log-likelihood of a Poisson regression with
// a log link and an optional exposure offset.  The log-likelihood is
// exact, including the log-factorial terms, so its optimum value can
// be compared directly against reference fits.
type Poisson struct {
	y      []statfit.Dtype
	x      [][]statfit.Dtype
	offset []statfit.Dtype
	names  []string
}

// NewPoisson builds a Poisson regression objective for the given
// count outcome and predictors.  offsetVar names a log-exposure
// column, or is empty for no offset.
func NewPoisson(data statfit.Dataset, outcome string, predictors []string, offsetVar string) (*Poisson, error) {

	y, err := data.Column(outcome)
	if err != nil {
		return nil, err
	}

	x, err := data.Columns(predictors)
	if err != nil {
		return nil, err
	}

	var off []statfit.Dtype
	if offsetVar != "" {
		off, err = data.Column(offsetVar)
		if err != nil {
			return nil, err
		}
	}

	return &Poisson{y: y, x: x, offset: off, names: predictors}, nil
}

// ParamNames returns the names of the model parameters.
func (m *Poisson) ParamNames() []string {
	return m.names
}

// NumParams returns the number of model parameters.
func (m *Poisson) NumParams() int {
	return len(m.x)
}

// NumObs returns the number of observations.
func (m *Poisson) NumObs() int {
	return len(m.y)
}

func (m *Poisson) linpred(i int, beta []float64) float64 {
	var lp float64
	for j := range m.x {
		lp += beta[j] * float64(m.x[j][i])
	}
	if m.offset != nil {
		lp += float64(m.offset[i])
	}
	return lp
}

// Value returns the negative log-likelihood at beta.  An overflowing
// mean yields the penalty value.
func (m *Poisson) Value(beta []float64) float64 {

	var nll float64
	for i := range m.y {
		lp := m.linpred(i, beta)
		mu := math.Exp(lp)
		if !finite(mu) {
			return Penalty
		}
		lg, _ := math.Lgamma(float64(m.y[i]) + 1)
		nll += mu - float64(m.y[i])*lp + lg
	}

	if !finite(nll) {
		return Penalty
	}

	return nll
}

// Grad stores the gradient of the negative log-likelihood at beta.
func (m *Poisson) Grad(grad, beta []float64) {

	for j := range grad {
		grad[j] = 0
	}

	for i := range m.y {
		r := math.Exp(m.linpred(i, beta)) - float64(m.y[i])
		for j := range m.x {
			grad[j] += r * float64(m.x[j][i])
		}
	}

	guardGrad(grad)
}

// ScoreObs stores the score contribution of observation i at beta.
func (m *Poisson) ScoreObs(out []float64, i int, beta []float64) {

	r := float64(m.y[i]) - math.Exp(m.linpred(i, beta))
	for j := range m.x {
		out[j] = r * float64(m.x[j][i])
	}
}
