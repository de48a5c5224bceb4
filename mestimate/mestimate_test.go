package mestimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/entjos/statfit/datasets"
	"github.com/entjos/statfit/likelihood"
)

// Solving the logistic score equations reproduces the maximum
// likelihood estimate, and the sandwich standard errors match an
// independent reference computation.
func TestSandwichLogistic(t *testing.T) {

	data, err := datasets.Cohort()
	require.NoError(t, err)

	model, err := likelihood.NewLogistic(data, "status", []string{"icept", "female", "age"})
	require.NoError(t, err)

	rslt, err := Solve(model, model.ParamNames(), nil)
	require.NoError(t, err)
	require.True(t, rslt.Root().Converged)

	assert.True(t, floats.EqualApprox(rslt.Params(),
		[]float64{-5.9879543477, -1.0709854554, 0.1101449538}, 1e-4),
		"wrong root %v", rslt.Params())

	assert.True(t, floats.EqualApprox(rslt.StdErr(),
		[]float64{1.2022956787, 0.3328130159, 0.0200548424}, 1e-3),
		"wrong sandwich standard errors %v", rslt.StdErr())
}

// When the mean model is correct, the bread and filling estimate the
// same information matrix, so the sandwich and model-based standard
// errors are close but not identical.
func TestSandwichPoisson(t *testing.T) {

	data, err := datasets.Cohort()
	require.NoError(t, err)

	model, err := likelihood.NewPoisson(data, "visits", []string{"icept", "female", "age"}, "")
	require.NoError(t, err)

	rslt, err := Solve(model, model.ParamNames(), nil)
	require.NoError(t, err)

	assert.True(t, floats.EqualApprox(rslt.Params(),
		[]float64{0.9843585318, -0.3216549286, 0.0096316598}, 1e-4),
		"wrong root %v", rslt.Params())

	p := model.NumParams()
	assert.Len(t, rslt.Bread(), p*p)
	assert.Len(t, rslt.Filling(), p*p)

	// The sandwich must be within a factor of two of the
	// model-based standard errors on well-specified data.
	modelSE := []float64{0.2204519428, 0.0706141593, 0.0034857402}
	for j, se := range rslt.StdErr() {
		assert.Greater(t, se, modelSE[j]/2)
		assert.Less(t, se, modelSE[j]*2)
	}
}
