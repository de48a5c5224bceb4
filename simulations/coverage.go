//go:build ignore
// +build ignore

/*
This simulation generates data from a logistic regression model with
known coefficients, fits each replicate by direct minimization of the
negative log-likelihood, and reports the empirical coverage of the
nominal 95% Wald confidence intervals.
*/

package main

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/entjos/statfit/likelihood"
	"github.com/entjos/statfit/optimizer"
	"github.com/entjos/statfit/statfit"
)

var truth = []float64{-0.5, 1.0, -0.75}

func simulate(n int, rng *rand.Rand) statfit.Dataset {

	icept := make([]float64, n)
	x1 := make([]float64, n)
	x2 := make([]float64, n)
	y := make([]float64, n)

	for i := 0; i < n; i++ {
		icept[i] = 1
		x1[i] = rng.NormFloat64()
		x2[i] = rng.NormFloat64()

		lp := truth[0] + truth[1]*x1[i] + truth[2]*x2[i]
		p := 1 / (1 + math.Exp(-lp))
		if rng.Float64() < p {
			y[i] = 1
		}
	}

	data, err := statfit.NewDataset([][]float64{y, icept, x1, x2},
		[]string{"y", "icept", "x1", "x2"})
	if err != nil {
		panic(err)
	}

	return data
}

func main() {

	rng := rand.New(rand.NewSource(20260829))

	nrep := 500
	n := 400

	covered := make([]int, len(truth))
	fitted := 0

	for rep := 0; rep < nrep; rep++ {

		data := simulate(n, rng)
		model, err := likelihood.NewLogistic(data, "y", []string{"icept", "x1", "x2"})
		if err != nil {
			panic(err)
		}

		runs := optimizer.Minimize(model, make([]float64, model.NumParams()), optimizer.DefaultConfig())
		best, err := optimizer.Best(runs)
		if err != nil {
			continue
		}
		vcov, err := statfit.VCovFromNegHess(best.Hessian, len(best.X))
		if err != nil {
			continue
		}

		rslt := statfit.NewResults(model.ParamNames(), -best.F, best.X, vcov)
		lcb, ucb := rslt.ConfInt(0.95)
		for j := range truth {
			if lcb[j] <= truth[j] && truth[j] <= ucb[j] {
				covered[j]++
			}
		}
		fitted++
	}

	fmt.Printf("%d of %d replicates fit\n\n", fitted, nrep)
	fmt.Printf("%-10s %10s %10s\n", "Parameter", "True", "Coverage")
	names := []string{"icept", "x1", "x2"}
	for j := range truth {
		fmt.Printf("%-10s %10.2f %10.3f\n", names[j], truth[j], float64(covered[j])/float64(fitted))
	}
}
