package likelihood

import (
	"math"
	"testing"

	"github.com/entjos/statfit/statfit"
)

// At the zero vector the logistic likelihood reduces to n*log(2).
func TestLogisticAtZero(t *testing.T) {

	model, err := NewLogistic(testdata(), "y", []string{"icept", "x1", "x2"})
	if err != nil {
		panic(err)
	}

	beta := make([]float64, model.NumParams())
	want := float64(model.NumObs()) * math.Log(2)
	if math.Abs(model.Value(beta)-want) > 1e-10 {
		t.Errorf("value at zero: got %v, want %v", model.Value(beta), want)
	}
}

// At the zero vector the Poisson gradient is sum (1-y)*x.
func TestPoissonGradAtZero(t *testing.T) {

	data := testdata()
	model, err := NewPoisson(data, "count", []string{"icept", "x1"}, "")
	if err != nil {
		panic(err)
	}

	y, _ := data.Column("count")
	x1, _ := data.Column("x1")

	want := make([]float64, 2)
	for i := range y {
		want[0] += 1 - float64(y[i])
		want[1] += (1 - float64(y[i])) * float64(x1[i])
	}

	grad := make([]float64, 2)
	model.Grad(grad, []float64{0, 0})
	for j := range grad {
		if math.Abs(grad[j]-want[j]) > 1e-10 {
			t.Errorf("gradient at zero: got %v, want %v", grad, want)
		}
	}
}

// With log shape zero and no covariate effects, the Weibull hazard is
// constant at 1 and the negative log-likelihood is the total time.
func TestWeibullAtZero(t *testing.T) {

	data := testdata()
	model, err := NewWeibull(data, "time", "status", []string{"icept", "x1"})
	if err != nil {
		panic(err)
	}

	time, _ := data.Column("time")
	var want float64
	for i := range time {
		want += float64(time[i])
	}

	theta := make([]float64, model.NumParams())
	if math.Abs(model.Value(theta)-want) > 1e-10 {
		t.Errorf("value at zero: got %v, want %v", model.Value(theta), want)
	}
}

// At the zero vector the Cox partial likelihood is the negated sum of
// the log risk set sizes over the events.
func TestCoxAtZero(t *testing.T) {

	model, err := NewCox(testdata(), "time", "status", []string{"x1"}, "")
	if err != nil {
		panic(err)
	}

	// Events at times 6, 3, 2, 1, 1 with risk sets of size 1, 5,
	// 7, 10 and 10.
	want := math.Log(5) + math.Log(7) + 2*math.Log(10)
	if math.Abs(model.Value([]float64{0})-want) > 1e-10 {
		t.Errorf("value at zero: got %v, want %v", model.Value([]float64{0}), want)
	}
}

func TestPenalty(t *testing.T) {

	data := testdata()

	logit, err := NewLogistic(data, "y", []string{"icept", "x1", "x2"})
	if err != nil {
		panic(err)
	}
	if logit.Value([]float64{800, 0, 0}) != Penalty {
		t.Errorf("logistic: expected penalty for saturated probabilities")
	}

	pois, err := NewPoisson(data, "count", []string{"icept", "x1"}, "")
	if err != nil {
		panic(err)
	}
	if pois.Value([]float64{800, 0}) != Penalty {
		t.Errorf("poisson: expected penalty for overflowing mean")
	}

	weib, err := NewWeibull(data, "time", "status", []string{"icept", "x1"})
	if err != nil {
		panic(err)
	}
	if weib.Value([]float64{300, 0, 0}) != Penalty {
		t.Errorf("weibull: expected penalty for overflowing cumulative hazard")
	}
}

// Where Value returns the flat penalty constant the gradient must stay
// finite, otherwise the optimizers never terminate.
func TestPenaltyGrad(t *testing.T) {

	data := testdata()

	logit, err := NewLogistic(data, "y", []string{"icept", "x1", "x2"})
	if err != nil {
		panic(err)
	}
	pois, err := NewPoisson(data, "count", []string{"icept", "x1"}, "")
	if err != nil {
		panic(err)
	}
	weib, err := NewWeibull(data, "time", "status", []string{"icept", "x1"})
	if err != nil {
		panic(err)
	}

	for _, c := range []struct {
		name string
		grad func([]float64, []float64)
		par  []float64
	}{
		{"logistic", logit.Grad, []float64{800, 0, 0}},
		{"poisson", pois.Grad, []float64{800, 0}},
		{"weibull", weib.Grad, []float64{300, 0, 0}},
	} {
		grad := make([]float64, len(c.par))
		c.grad(grad, c.par)
		for j, v := range grad {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("%s: gradient component %d is not finite: %v", c.name, j, v)
			}
		}
	}
}

func TestWeibullInvalidData(t *testing.T) {

	names := []string{"time", "status", "icept"}

	data, err := statfit.NewDataset([][]statfit.Dtype{
		{1, 2, 0, 4},
		{1, 0, 1, 0},
		{1, 1, 1, 1},
	}, names)
	if err != nil {
		panic(err)
	}
	if _, err := NewWeibull(data, "time", "status", []string{"icept"}); err == nil {
		t.Errorf("expected error for non-positive time")
	}

	data, err = statfit.NewDataset([][]statfit.Dtype{
		{1, 2, 3, 4},
		{1, 0, 2, 0},
		{1, 1, 1, 1},
	}, names)
	if err != nil {
		panic(err)
	}
	if _, err := NewWeibull(data, "time", "status", []string{"icept"}); err == nil {
		t.Errorf("expected error for status outside {0, 1}")
	}
}
