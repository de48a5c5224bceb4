package likelihood

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/entjos/statfit/datasets"
	"github.com/entjos/statfit/duration"
	"github.com/entjos/statfit/glm"
	"github.com/entjos/statfit/optimizer"
	"github.com/entjos/statfit/statfit"
)

// fitBest minimizes the objective from a zero start and returns the
// best converged run with Wald inference from the numeric Hessian.
func fitBest(t *testing.T, obj statfit.Objective, names []string) (*statfit.Results, optimizer.Result) {
	t.Helper()

	runs := optimizer.Minimize(obj, make([]float64, obj.NumParams()), optimizer.DefaultConfig())
	best, err := optimizer.Best(runs)
	if err != nil {
		t.Fatal(err)
	}

	vcov, err := statfit.VCovFromNegHess(best.Hessian, len(best.X))
	if err != nil {
		t.Fatal(err)
	}

	return statfit.NewResults(names, -best.F, best.X, vcov), best
}

// Reference values from an independent Newton-Raphson fit.
func TestLogisticCohort(t *testing.T) {

	data, err := datasets.Cohort()
	if err != nil {
		panic(err)
	}

	model, err := NewLogistic(data, "status", []string{"icept", "female", "age"})
	if err != nil {
		panic(err)
	}

	rslt, best := fitBest(t, model, model.ParamNames())

	if !floats.EqualApprox(rslt.Params(), []float64{-5.9879543477, -1.0709854554, 0.1101449538}, 1e-4) {
		t.Errorf("coefficients differ: %v", rslt.Params())
	}
	if !floats.EqualApprox(rslt.StdErr(), []float64{1.1905310546, 0.3230481477, 0.0197357004}, 1e-4) {
		t.Errorf("standard errors differ: %v", rslt.StdErr())
	}
	if math.Abs(rslt.LogLike()-(-129.8314465280)) > 1e-6 {
		t.Errorf("log-likelihood differs: %v", rslt.LogLike())
	}

	// The optimizer-based fit and the IRLS fit must agree.
	ref, err := glm.NewGLM(data, "status", []string{"icept", "female", "age"},
		glm.NewFamily(glm.BinomialFamily), nil)
	if err != nil {
		panic(err)
	}
	grslt, err := ref.Fit()
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualApprox(best.X, grslt.Params(), 1e-5) {
		t.Errorf("optimizer and IRLS estimates differ: %v vs %v", best.X, grslt.Params())
	}
	if !floats.EqualApprox(rslt.StdErr(), grslt.StdErr(), 1e-4) {
		t.Errorf("optimizer and IRLS standard errors differ: %v vs %v", rslt.StdErr(), grslt.StdErr())
	}
}

func TestPoissonCohort(t *testing.T) {

	data, err := datasets.Cohort()
	if err != nil {
		panic(err)
	}

	model, err := NewPoisson(data, "visits", []string{"icept", "female", "age"}, "")
	if err != nil {
		panic(err)
	}

	// The exact likelihood includes the log-factorial terms.
	nll := model.Value(make([]float64, model.NumParams()))
	if math.Abs(nll-1217.5234074418) > 1e-6 {
		t.Errorf("value at zero differs: %v", nll)
	}

	rslt, best := fitBest(t, model, model.ParamNames())

	if !floats.EqualApprox(rslt.Params(), []float64{0.9843585318, -0.3216549286, 0.0096316598}, 1e-4) {
		t.Errorf("coefficients differ: %v", rslt.Params())
	}
	if !floats.EqualApprox(rslt.StdErr(), []float64{0.2204519428, 0.0706141593, 0.0034857402}, 1e-4) {
		t.Errorf("standard errors differ: %v", rslt.StdErr())
	}
	if math.Abs(rslt.LogLike()-(-486.7922279938)) > 1e-6 {
		t.Errorf("log-likelihood differs: %v", rslt.LogLike())
	}

	ref, err := glm.NewGLM(data, "visits", []string{"icept", "female", "age"},
		glm.NewFamily(glm.PoissonFamily), nil)
	if err != nil {
		panic(err)
	}
	grslt, err := ref.Fit()
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualApprox(best.X, grslt.Params(), 1e-5) {
		t.Errorf("optimizer and IRLS estimates differ: %v vs %v", best.X, grslt.Params())
	}
}

func TestWeibullCohort(t *testing.T) {

	data, err := datasets.Cohort()
	if err != nil {
		panic(err)
	}

	model, err := NewWeibull(data, "time", "status", []string{"icept", "female", "age"})
	if err != nil {
		panic(err)
	}

	rslt, best := fitBest(t, model, model.ParamNames())

	if !floats.EqualApprox(rslt.Params(),
		[]float64{0.3032068589, -7.2463332447, -0.6654343346, 0.0845904765}, 1e-4) {
		t.Errorf("coefficients differ: %v", rslt.Params())
	}
	if !floats.EqualApprox(rslt.StdErr(),
		[]float64{0.0722702725, 0.7692286924, 0.1945430228, 0.0112138687}, 1e-4) {
		t.Errorf("standard errors differ: %v", rslt.StdErr())
	}
	if math.Abs(-best.F-(-330.6272590606)) > 1e-6 {
		t.Errorf("log-likelihood differs: %v", -best.F)
	}

	// Three year survival for a 60 year old woman, with a Wald
	// interval built on the log cumulative hazard scale.
	x := []float64{1, 1, 60}
	surv := model.Survival(best.X, 3, x)
	if math.Abs(surv-0.7713582475) > 1e-4 {
		t.Errorf("survival probability differs: %v", surv)
	}

	lch, grad := model.LogCumHaz(best.X, 3, x)
	se := math.Sqrt(statfit.DeltaMethodGrad(grad, rslt.VCov()))
	lcb := math.Exp(-math.Exp(lch + 1.959964*se))
	ucb := math.Exp(-math.Exp(lch - 1.959964*se))
	if math.Abs(lcb-0.6890327174) > 1e-3 || math.Abs(ucb-0.8344870111) > 1e-3 {
		t.Errorf("confidence limits differ: %v, %v", lcb, ucb)
	}
}

func TestCoxCohort(t *testing.T) {

	data, err := datasets.Cohort()
	if err != nil {
		panic(err)
	}

	model, err := NewCox(data, "time", "status", []string{"female", "age"}, "")
	if err != nil {
		panic(err)
	}

	if math.Abs(model.Value([]float64{0, 0})-645.2594845671) > 1e-6 {
		t.Errorf("value at zero differs: %v", model.Value([]float64{0, 0}))
	}

	rslt, best := fitBest(t, model, model.ParamNames())

	if !floats.EqualApprox(rslt.Params(), []float64{-0.6778649662, 0.0879167141}, 1e-4) {
		t.Errorf("coefficients differ: %v", rslt.Params())
	}
	if !floats.EqualApprox(rslt.StdErr(), []float64{0.1949638388, 0.0114639493}, 1e-4) {
		t.Errorf("standard errors differ: %v", rslt.StdErr())
	}
	if math.Abs(-best.F-(-609.7684475215)) > 1e-6 {
		t.Errorf("log partial likelihood differs: %v", -best.F)
	}

	// The optimizer-based fit and the dedicated proportional
	// hazards fitter must agree.
	ref, err := duration.NewPHReg(data, "time", "status", []string{"female", "age"}, nil)
	if err != nil {
		panic(err)
	}
	drslt, err := ref.Fit()
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualApprox(best.X, drslt.Params(), 1e-5) {
		t.Errorf("fits differ: %v vs %v", best.X, drslt.Params())
	}
	if !floats.EqualApprox(rslt.StdErr(), drslt.StdErr(), 1e-4) {
		t.Errorf("standard errors differ: %v vs %v", rslt.StdErr(), drslt.StdErr())
	}
}

func TestCoxStratifiedCohort(t *testing.T) {

	data, err := datasets.Cohort()
	if err != nil {
		panic(err)
	}

	model, err := NewCox(data, "time", "status", []string{"age"}, "female")
	if err != nil {
		panic(err)
	}

	if model.NumStrata() != 2 {
		t.Errorf("expected 2 strata, got %d", model.NumStrata())
	}
	if math.Abs(model.Value([]float64{0})-563.1020564159) > 1e-6 {
		t.Errorf("value at zero differs: %v", model.Value([]float64{0}))
	}

	rslt, best := fitBest(t, model, model.ParamNames())

	if math.Abs(rslt.Params()[0]-0.0885594953) > 1e-4 {
		t.Errorf("coefficient differs: %v", rslt.Params())
	}
	if math.Abs(rslt.StdErr()[0]-0.0115067105) > 1e-4 {
		t.Errorf("standard error differs: %v", rslt.StdErr())
	}
	if math.Abs(-best.F-(-530.6958862627)) > 1e-6 {
		t.Errorf("log partial likelihood differs: %v", -best.F)
	}

	dcfg := duration.DefaultConfig()
	dcfg.StrataVar = "female"
	ref, err := duration.NewPHReg(data, "time", "status", []string{"age"}, dcfg)
	if err != nil {
		panic(err)
	}
	drslt, err := ref.Fit()
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualApprox(best.X, drslt.Params(), 1e-5) {
		t.Errorf("fits differ: %v vs %v", best.X, drslt.Params())
	}
}
