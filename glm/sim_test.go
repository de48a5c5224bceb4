package glm

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/entjos/statfit/statfit"
)

// Wald confidence intervals from the fitted model should cover the
// true coefficients at close to their nominal rate.
func TestWaldCoverage(t *testing.T) {

	if testing.Short() {
		t.Skip("skipping coverage simulation in short mode")
	}

	truth := []float64{-0.5, 1.0, -0.75}
	rng := rand.New(rand.NewSource(20260829))

	nrep := 200
	n := 300

	covered := make([]int, len(truth))
	fitted := 0

	for rep := 0; rep < nrep; rep++ {

		icept := make([]statfit.Dtype, n)
		x1 := make([]statfit.Dtype, n)
		x2 := make([]statfit.Dtype, n)
		y := make([]statfit.Dtype, n)
		for i := 0; i < n; i++ {
			icept[i] = 1
			x1[i] = rng.NormFloat64()
			x2[i] = rng.NormFloat64()
			lp := truth[0] + truth[1]*float64(x1[i]) + truth[2]*float64(x2[i])
			if rng.Float64() < 1/(1+math.Exp(-lp)) {
				y[i] = 1
			}
		}

		data, err := statfit.NewDataset([][]statfit.Dtype{y, icept, x1, x2},
			[]string{"y", "icept", "x1", "x2"})
		if err != nil {
			panic(err)
		}

		model, err := NewGLM(data, "y", []string{"icept", "x1", "x2"},
			NewFamily(BinomialFamily), nil)
		if err != nil {
			panic(err)
		}
		rslt, err := model.Fit()
		if err != nil {
			continue
		}

		lcb, ucb := rslt.ConfInt(0.95)
		for j := range truth {
			if lcb[j] <= truth[j] && truth[j] <= ucb[j] {
				covered[j]++
			}
		}
		fitted++
	}

	if fitted < nrep*9/10 {
		t.Fatalf("only %d of %d replicates fit", fitted, nrep)
	}

	// With 200 replicates the Monte Carlo error of a 95% coverage
	// rate is about 1.5%, so a wide band is used.
	for j := range truth {
		rate := float64(covered[j]) / float64(fitted)
		if rate < 0.88 || rate > 0.995 {
			t.Errorf("coverage for parameter %d is %.3f", j, rate)
		}
	}
}
