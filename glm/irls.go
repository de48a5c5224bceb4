package glm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// fitIRLS estimates the model coefficients by iteratively reweighted
// least squares.  Each iteration solves the weighted normal equations
// X'WX b = X'Wz for the working response z.
func (glm *GLM) fitIRLS(start []float64) ([]float64, error) {

	n := glm.NumObs()
	nvar := glm.NumParams()

	lp := make([]float64, n)
	mn := make([]float64, n)
	va := make([]float64, n)
	lderiv := make([]float64, n)
	irlsw := make([]float64, n)
	adjy := make([]float64, n)

	xty := make([]float64, nvar)
	xtx := make([]float64, nvar*nvar)

	coeff := make([]float64, nvar)
	copy(coeff, start)
	last := make([]float64, nvar)

	for iter := 0; iter < glm.maxiter; iter++ {

		glm.linpred(coeff, lp)
		glm.link.InvLink(lp, mn)
		glm.link.Deriv(mn, lderiv)
		glm.vari.Var(mn, va)

		// IRLS weights and working response.
		for i := 0; i < n; i++ {
			irlsw[i] = 1 / (lderiv[i] * lderiv[i] * va[i])
			if glm.wgt != nil {
				irlsw[i] *= float64(glm.wgt[i])
			}
			adjy[i] = lp[i] + lderiv[i]*(float64(glm.y[i])-mn[i])
			if glm.off != nil {
				adjy[i] -= float64(glm.off[i])
			}
		}

		// Weighted normal equations.
		for j := range xty {
			xty[j] = 0
		}
		for k := range xtx {
			xtx[k] = 0
		}
		for i := 0; i < n; i++ {
			w := irlsw[i]
			for j1 := 0; j1 < nvar; j1++ {
				u := w * float64(glm.x[j1][i])
				xty[j1] += u * adjy[i]
				for j2 := 0; j2 <= j1; j2++ {
					xtx[j1*nvar+j2] += u * float64(glm.x[j2][i])
				}
			}
		}
		for j1 := 0; j1 < nvar; j1++ {
			for j2 := j1 + 1; j2 < nvar; j2++ {
				xtx[j1*nvar+j2] = xtx[j2*nvar+j1]
			}
		}

		copy(last, coeff)

		var sol mat.VecDense
		if err := sol.SolveVec(mat.NewDense(nvar, nvar, xtx), mat.NewVecDense(nvar, xty)); err != nil {
			return nil, fmt.Errorf("glm: IRLS normal equations are singular: %v", err)
		}
		for j := 0; j < nvar; j++ {
			coeff[j] = sol.AtVec(j)
		}

		var dc float64
		for j := range coeff {
			if d := math.Abs(coeff[j] - last[j]); d > dc {
				dc = d
			}
		}

		if glm.log != nil {
			glm.log.Printf("glm: IRLS iteration %d, max coefficient change %e", iter+1, dc)
		}

		if dc < glm.tol {
			return coeff, nil
		}
	}

	return nil, fmt.Errorf("glm: IRLS did not converge in %d iterations", glm.maxiter)
}
