package statfit

import "gonum.org/v1/gonum/diff/fd"

// DeltaMethodGrad returns the approximate sampling variance of a
// transform g of the parameter estimates via first-order propagation,
// grad' * vcov * grad, where grad is the gradient of g at the
// estimates and vcov is the covariance matrix vectorized by row.
//
// Transforms of fitted quantities are usually more stable when the
// propagation is done on a log scale (e.g. the log cumulative hazard)
// and the result mapped back afterwards, rather than transforming
// first.
func DeltaMethodGrad(grad, vcov []float64) float64 {

	p := len(grad)
	var v float64
	for i := 0; i < p; i++ {
		for j := 0; j < p; j++ {
			v += grad[i] * vcov[i*p+j] * grad[j]
		}
	}

	return v
}

// DeltaMethod is like DeltaMethodGrad, with the gradient of g obtained
// by finite differencing at params.
func DeltaMethod(g func(x []float64) float64, params, vcov []float64) float64 {
	grad := fd.Gradient(nil, g, params, nil)
	return DeltaMethodGrad(grad, vcov)
}
