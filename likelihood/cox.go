package likelihood

import (
	"math"
	"sort"

	"github.com/entjos/statfit/statfit"
)

// Cox is the negative log partial likelihood of a Cox proportional
// hazards model for right-censored survival times, using the Breslow
// approximation for tied event times.  When a strata variable is
// given, the risk sets are formed within each stratum and the partial
// likelihoods are summed (a stratified Cox model).
type Cox struct {
	time   []statfit.Dtype
	status []statfit.Dtype
	x      [][]statfit.Dtype
	names  []string

	// Row indices per stratum, sorted by decreasing time.
	strata [][]int
}

// NewCox builds a Cox partial likelihood objective.  strataVar names
// the stratification variable, or is empty for an unstratified model.
func NewCox(data statfit.Dataset, timeVar, statusVar string, predictors []string, strataVar string) (*Cox, error) {

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

	m := &Cox{time: time, status: status, x: x, names: predictors}

	if strataVar == "" {
		ix := make([]int, len(time))
		for i := range ix {
			ix[i] = i
		}
		m.strata = [][]int{ix}
	} else {
		sv, err := data.Column(strataVar)
		if err != nil {
			return nil, err
		}
		groups := make(map[statfit.Dtype][]int)
		var levels []statfit.Dtype
		for i, v := range sv {
			if _, ok := groups[v]; !ok {
				levels = append(levels, v)
			}
			groups[v] = append(groups[v], i)
		}
		sort.Float64s(levels)
		for _, v := range levels {
			m.strata = append(m.strata, groups[v])
		}
	}

	// Sort each stratum by decreasing time so risk sets accumulate
	// as we walk forward.
	for _, ix := range m.strata {
		sort.Slice(ix, func(a, b int) bool {
			return time[ix[a]] > time[ix[b]]
		})
	}

	return m, nil
}

// ParamNames returns the names of the model parameters.
func (m *Cox) ParamNames() []string {
	return m.names
}

// NumParams returns the number of model parameters.
func (m *Cox) NumParams() int {
	return len(m.x)
}

// NumObs returns the number of observations.
func (m *Cox) NumObs() int {
	return len(m.time)
}

// NumStrata returns the number of strata.
func (m *Cox) NumStrata() int {
	return len(m.strata)
}

func (m *Cox) linpred(i int, beta []float64) float64 {
	var lp float64
	for j := range m.x {
		lp += beta[j] * float64(m.x[j][i])
	}
	return lp
}

// Value returns the negative log partial likelihood at beta.  A
// non-finite likelihood yields the penalty value.
func (m *Cox) Value(beta []float64) float64 {

	var ll float64

	for _, ix := range m.strata {
		if len(ix) == 0 {
			continue
		}

		// The partial likelihood is invariant to shifting the
		// linear predictors, so shift by the stratum maximum to
		// avoid overflow in the exponentials.
		mx := math.Inf(-1)
		for _, i := range ix {
			if lp := m.linpred(i, beta); lp > mx {
				mx = lp
			}
		}

		var s0 float64
		pos := 0
		for pos < len(ix) {
			t := m.time[ix[pos]]

			// All subjects with this time enter the risk set
			// before the events at this time are scored.
			end := pos
			for end < len(ix) && m.time[ix[end]] == t {
				s0 += math.Exp(m.linpred(ix[end], beta) - mx)
				end++
			}

			for q := pos; q < end; q++ {
				i := ix[q]
				if m.status[i] == 1 {
					ll += m.linpred(i, beta) - mx - math.Log(s0)
				}
			}
			pos = end
		}
	}

	if !finite(ll) {
		return Penalty
	}

	return -ll
}

// Grad stores the gradient of the negative log partial likelihood at
// beta.
func (m *Cox) Grad(grad, beta []float64) {

	p := len(m.x)
	for j := range grad {
		grad[j] = 0
	}
	s1 := make([]float64, p)

	for _, ix := range m.strata {
		if len(ix) == 0 {
			continue
		}

		mx := math.Inf(-1)
		for _, i := range ix {
			if lp := m.linpred(i, beta); lp > mx {
				mx = lp
			}
		}

		var s0 float64
		for j := range s1 {
			s1[j] = 0
		}

		pos := 0
		for pos < len(ix) {
			t := m.time[ix[pos]]

			end := pos
			for end < len(ix) && m.time[ix[end]] == t {
				i := ix[end]
				w := math.Exp(m.linpred(i, beta) - mx)
				s0 += w
				for j := range m.x {
					s1[j] += w * float64(m.x[j][i])
				}
				end++
			}

			for q := pos; q < end; q++ {
				i := ix[q]
				if m.status[i] == 1 {
					for j := range m.x {
						grad[j] -= float64(m.x[j][i]) - s1[j]/s0
					}
				}
			}
			pos = end
		}
	}
}
