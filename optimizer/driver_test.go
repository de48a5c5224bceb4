package optimizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

// quadratic is a strictly convex objective with minimum at (1, -2).
type quadratic struct{}

func (quadratic) NumParams() int { return 2 }

func (quadratic) Value(x []float64) float64 {
	return 2*(x[0]-1)*(x[0]-1) + 3*(x[1]+2)*(x[1]+2) + 5
}

func (quadratic) Grad(grad, x []float64) {
	grad[0] = 4 * (x[0] - 1)
	grad[1] = 6 * (x[1] + 2)
}

func TestMinimizeQuadratic(t *testing.T) {

	runs := Minimize(quadratic{}, []float64{0, 0}, DefaultConfig())
	require.Len(t, runs, len(DefaultMethods()))

	for _, r := range runs {
		require.True(t, r.Converged, "%s did not converge", r.Method)
		assert.True(t, floats.EqualApprox(r.X, []float64{1, -2}, 1e-4),
			"%s: wrong optimum %v", r.Method, r.X)
		assert.InDelta(t, 5, r.F, 1e-8, "%s: wrong objective", r.Method)
	}

	best, err := Best(runs)
	require.NoError(t, err)
	assert.InDelta(t, 5, best.F, 1e-8)

	// The Hessian of the quadratic is constant and diagonal.
	require.NotNil(t, best.Hessian)
	assert.True(t, floats.EqualApprox(best.Hessian, []float64{4, 0, 0, 6}, 1e-4),
		"wrong Hessian %v", best.Hessian)
}

// plateau is a quadratic with minimum at the origin, surrounded by a
// flat penalty region where the value is a large constant and the
// gradient is zero.  Likelihood objectives look like this outside
// their domain, and the driver has to terminate on the flat part
// rather than iterate forever.
type plateau struct{}

func (plateau) NumParams() int { return 2 }

func (plateau) Value(x []float64) float64 {
	if math.Abs(x[0]) > 2 || math.Abs(x[1]) > 2 {
		return 1e10
	}
	return x[0]*x[0] + x[1]*x[1]
}

func (plateau) Grad(grad, x []float64) {
	if math.Abs(x[0]) > 2 || math.Abs(x[1]) > 2 {
		grad[0] = 0
		grad[1] = 0
		return
	}
	grad[0] = 2 * x[0]
	grad[1] = 2 * x[1]
}

func TestMinimizePlateau(t *testing.T) {

	// Starting near the boundary, line searches step onto the flat
	// region and have to back off.
	runs := Minimize(plateau{}, []float64{1.9, 1.9}, DefaultConfig())
	require.Len(t, runs, len(DefaultMethods()))

	best, err := Best(runs)
	require.NoError(t, err)
	assert.True(t, floats.EqualApprox(best.X, []float64{0, 0}, 1e-4),
		"wrong optimum %v", best.X)

	// Starting on the plateau itself every method must still return,
	// converged or not, within the default evaluation budget.
	runs = Minimize(plateau{}, []float64{50, 50}, DefaultConfig())
	require.Len(t, runs, len(DefaultMethods()))
}

func TestBestNoConverged(t *testing.T) {

	_, err := Best([]Result{{Method: "BFGS", Converged: false}})
	assert.Error(t, err)
}

func TestNumHessian(t *testing.T) {

	hess := NumHessian(quadratic{}, []float64{3, 7})
	assert.True(t, floats.EqualApprox(hess, []float64{4, 0, 0, 6}, 1e-4),
		"wrong Hessian %v", hess)
}
