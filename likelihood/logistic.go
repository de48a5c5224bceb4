package likelihood

import (
	"math"

	"github.com/entjos/statfit/statfit"
)

// Logistic is the negative log-likelihood of a logistic regression:
// a binary outcome modeled with a logit link.  The parameter vector
// holds one coefficient per predictor.
type Logistic struct {
	y     []statfit.Dtype
	x     [][]statfit.Dtype
	names []string
}

// NewLogistic builds a logistic regression objective for the given
// 0/1 outcome and predictors.
func NewLogistic(data statfit.Dataset, outcome string, predictors []string) (*Logistic, error) {

	y, err := data.Column(outcome)
	if err != nil {
		return nil, err
	}

	x, err := data.Columns(predictors)
	if err != nil {
		return nil, err
	}

	return &Logistic{y: y, x: x, names: predictors}, nil
}

// ParamNames returns the names of the model parameters.
func (m *Logistic) ParamNames() []string {
	return m.names
}

// NumParams returns the number of model parameters.
func (m *Logistic) NumParams() int {
	return len(m.x)
}

// NumObs returns the number of observations.
func (m *Logistic) NumObs() int {
	return len(m.y)
}

func (m *Logistic) linpred(i int, beta []float64) float64 {
	var lp float64
	for j := range m.x {
		lp += beta[j] * float64(m.x[j][i])
	}
	return lp
}

// Value returns the negative log-likelihood at beta.  Fitted
// probabilities of exactly 0 or 1 are out of domain and yield the
// penalty value.
func (m *Logistic) Value(beta []float64) float64 {

	var nll float64
	for i := range m.y {
		mu := 1 / (1 + math.Exp(-m.linpred(i, beta)))
		if mu <= 0 || mu >= 1 {
			return Penalty
		}
		nll -= float64(m.y[i])*math.Log(mu) + (1-float64(m.y[i]))*math.Log(1-mu)
	}

	if !finite(nll) {
		return Penalty
	}

	return nll
}

// Grad stores the gradient of the negative log-likelihood at beta.
func (m *Logistic) Grad(grad, beta []float64) {

	for j := range grad {
		grad[j] = 0
	}

	for i := range m.y {
		mu := 1 / (1 + math.Exp(-m.linpred(i, beta)))
		r := mu - float64(m.y[i])
		for j := range m.x {
			grad[j] += r * float64(m.x[j][i])
		}
	}

	guardGrad(grad)
}

// ScoreObs stores the score contribution (the gradient of the
// log-likelihood, not its negative) of observation i at beta.  This
// is the estimating function used for sandwich variance estimation.
func (m *Logistic) ScoreObs(out []float64, i int, beta []float64) {

	mu := 1 / (1 + math.Exp(-m.linpred(i, beta)))
	r := float64(m.y[i]) - mu
	for j := range m.x {
		out[j] = r * float64(m.x[j][i])
	}
}
