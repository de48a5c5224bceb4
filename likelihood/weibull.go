package likelihood

import (
	"fmt"
	"math"

	"github.com/entjos/statfit/statfit"
)

// Weibull is the negative log-likelihood of a Weibull proportional
// hazards model for right-censored survival times, with hazard
//
//	h(t|x) = k t^(k-1) exp(x'b)
//
// The first element of the parameter vector is the log shape log(k),
// so the optimizer works on an unconstrained scale; the remaining
// elements are the regression coefficients, including the baseline
// intercept.
type Weibull struct {
	time   []statfit.Dtype
	status []statfit.Dtype
	x      [][]statfit.Dtype
	names  []string
}

// NewWeibull builds a Weibull survival objective.  All event and
// censoring times must be positive, and status must be 0 or 1.
func NewWeibull(data statfit.Dataset, timeVar, statusVar string, predictors []string) (*Weibull, error) {

	time, err := data.Column(timeVar)
	if err != nil {
		return nil, err
	}

	status, err := data.Column(statusVar)
	if err != nil {
		return nil, err
	}

	x, err := data.Columns(predictors)
	if err != nil {
		return nil, err
	}

	for i := range time {
		if time[i] <= 0 {
			return nil, fmt.Errorf("likelihood: times must be positive")
		}
		if status[i] != 0 && status[i] != 1 {
			return nil, fmt.Errorf("likelihood: status values must be 0 or 1")
		}
	}

	names := append([]string{"log(shape)"}, predictors...)

	return &Weibull{time: time, status: status, x: x, names: names}, nil
}

// ParamNames returns the names of the model parameters, log shape first.
func (m *Weibull) ParamNames() []string {
	return m.names
}

// NumParams returns the number of model parameters.
func (m *Weibull) NumParams() int {
	return 1 + len(m.x)
}

// NumObs returns the number of observations.
func (m *Weibull) NumObs() int {
	return len(m.time)
}

func (m *Weibull) linpred(i int, theta []float64) float64 {
	var lp float64
	for j := range m.x {
		lp += theta[1+j] * float64(m.x[j][i])
	}
	return lp
}

// Value returns the negative log-likelihood at theta.  Each
// observation contributes d*log h(t|x) - H(t|x) with cumulative
// hazard H(t|x) = t^k exp(x'b).  Non-finite contributions yield the
// penalty value.
func (m *Weibull) Value(theta []float64) float64 {

	k := math.Exp(theta[0])
	if !finite(k) || k <= 0 {
		return Penalty
	}

	var nll float64
	for i := range m.time {
		t := float64(m.time[i])
		if t <= 0 {
			return Penalty
		}
		lp := m.linpred(i, theta)
		lt := math.Log(t)
		cumh := math.Pow(t, k) * math.Exp(lp)
		if !finite(cumh) {
			return Penalty
		}
		nll -= float64(m.status[i])*(theta[0]+(k-1)*lt+lp) - cumh
	}

	if !finite(nll) {
		return Penalty
	}

	return nll
}

// Grad stores the gradient of the negative log-likelihood at theta.
func (m *Weibull) Grad(grad, theta []float64) {

	for j := range grad {
		grad[j] = 0
	}

	k := math.Exp(theta[0])

	for i := range m.time {
		t := float64(m.time[i])
		d := float64(m.status[i])
		lt := math.Log(t)
		cumh := math.Pow(t, k) * math.Exp(m.linpred(i, theta))

		// Chain rule through k = exp(theta[0]).
		grad[0] -= d*(1+k*lt) - cumh*k*lt

		r := d - cumh
		for j := range m.x {
			grad[1+j] -= r * float64(m.x[j][i])
		}
	}

	guardGrad(grad)
}

// LogCumHaz returns the log cumulative hazard log H(t|x) at time t
// for a covariate vector x, along with its gradient with respect to
// theta.  Confidence limits for the survival probability
// S = exp(-H) are best formed on this scale and then transformed.
func (m *Weibull) LogCumHaz(theta []float64, t float64, x []float64) (float64, []float64) {

	k := math.Exp(theta[0])
	lch := k * math.Log(t)
	grad := make([]float64, m.NumParams())
	grad[0] = k * math.Log(t)

	for j := range x {
		lch += theta[1+j] * x[j]
		grad[1+j] = x[j]
	}

	return lch, grad
}

// Survival returns the fitted survival probability S(t|x) = exp(-H(t|x)).
func (m *Weibull) Survival(theta []float64, t float64, x []float64) float64 {
	lch, _ := m.LogCumHaz(theta, t, x)
	return math.Exp(-math.Exp(lch))
}
