// Package likelihood provides hand-derived negative log-likelihood
// objectives with analytic gradients for several standard parametric
// models: logistic regression, Poisson regression, Weibull survival
// with right censoring, and Cox proportional hazards (optionally
// stratified).  Each objective is a pure function of the parameter
// vector for fixed data and satisfies statfit.Objective, so it can be
// handed to any of the optimizers in the optimizer package.
package likelihood

import "math"

// Penalty is the objective value returned when a parameter vector
// produces out-of-domain intermediate values (probabilities of 0 or
// 1, infinite means, non-finite likelihood contributions).  Returning
// a large finite value instead of an error or infinity steers the
// optimizer back toward the feasible region.
const Penalty = 1e10

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// guardGrad zeroes the gradient when any component is non-finite.
// Value is the flat Penalty constant wherever the likelihood leaves
// its domain, so the matching gradient there is zero; letting NaN or
// Inf through instead defeats the optimizers' convergence checks.
func guardGrad(grad []float64) {
	for _, v := range grad {
		if !finite(v) {
			for j := range grad {
				grad[j] = 0
			}
			return
		}
	}
}
