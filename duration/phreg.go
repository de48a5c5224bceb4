// Package duration supports statistical analysis of duration data
// (survival analysis): Cox proportional hazards regression with
// optional stratification, left truncation, and case weights, and
// nonparametric estimation of the survival function.  The PHReg fit
// serves as the reference against which the hand-derived Cox partial
// likelihood in the likelihood package is compared.
package duration

import (
	"fmt"
	"log"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"github.com/entjos/statfit/statfit"
)

// PHReg describes a proportional hazards regression model for right
// censored data.
type PHReg struct {
	xnames []string

	time   []statfit.Dtype
	status []statfit.Dtype
	entry  []statfit.Dtype
	wgt    []statfit.Dtype
	x      [][]statfit.Dtype

	// Rows belonging to each stratum.
	strata [][]int

	// The sorted distinct times at which events occur in each stratum.
	etimes [][]float64

	// enter[s][j] are the rows that enter the risk set at the jth
	// distinct event time of stratum s; exit and event are analogous.
	enter [][][]int
	exit  [][][]int
	event [][][]int

	// The weighted sum of covariates over event rows, per stratum.
	sumx [][]float64

	// skip[i] marks rows censored before the first event in their
	// stratum; they never contribute to any risk set.
	skip  []bool
	nskip int

	start       []float64
	optsettings *optimize.Settings
	optmethod   optimize.Method
	log         *log.Logger
}

// Config defines configuration parameters for a proportional hazards
// regression.
type Config struct {

	// Start contains starting values for the coefficients.
	Start []float64

	// WeightVar is the name of a case weight variable; if empty,
	// all weights are 1.
	WeightVar string

	// StrataVar is the name of a variable that defines strata.
	StrataVar string

	// EntryVar is the name of a variable with entry (left
	// truncation) times.
	EntryVar string

	// OptMethod is the gonum optimization method used to fit the
	// model.
	OptMethod optimize.Method

	// OptSettings configures the gonum optimization routine.
	OptSettings *optimize.Settings

	// If not nil, write log messages here.
	Log *log.Logger
}

// DefaultConfig returns a default configuration for a proportional
// hazards regression.
func DefaultConfig() *Config {
	return &Config{
		OptMethod: &optimize.BFGS{
			Linesearcher: &optimize.MoreThuente{},
		},
	}
}

// NewPHReg returns a PHReg value that can be used to fit a
// proportional hazards regression model.
func NewPHReg(data statfit.Dataset, timeVar, statusVar string, predictors []string, config *Config) (*PHReg, error) {

	if config == nil {
		config = DefaultConfig()
	}

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

	var wgt, entry []statfit.Dtype
	if config.WeightVar != "" {
		if wgt, err = data.Column(config.WeightVar); err != nil {
			return nil, err
		}
	}
	if config.EntryVar != "" {
		if entry, err = data.Column(config.EntryVar); err != nil {
			return nil, err
		}
	}

	ph := &PHReg{
		xnames:      predictors,
		time:        time,
		status:      status,
		entry:       entry,
		wgt:         wgt,
		x:           x,
		start:       config.Start,
		optsettings: config.OptSettings,
		optmethod:   config.OptMethod,
		log:         config.Log,
	}

	if config.StrataVar != "" {
		sv, err := data.Column(config.StrataVar)
		if err != nil {
			return nil, err
		}
		groups := make(map[statfit.Dtype][]int)
		var levels []float64
		for i, v := range sv {
			if _, ok := groups[v]; !ok {
				levels = append(levels, float64(v))
			}
			groups[v] = append(groups[v], i)
		}
		sort.Float64s(levels)
		for _, v := range levels {
			ph.strata = append(ph.strata, groups[statfit.Dtype(v)])
		}
	} else {
		rows := make([]int, len(time))
		for i := range rows {
			rows[i] = i
		}
		ph.strata = [][]int{rows}
	}

	if err := ph.setupTimes(); err != nil {
		return nil, err
	}
	ph.setupCovs()

	if ph.optmethod == nil {
		ph.optmethod = &optimize.BFGS{
			Linesearcher: &optimize.MoreThuente{},
		}
	}

	return ph, nil
}

// NumObs returns the number of observations in the data set.
func (ph *PHReg) NumObs() int {
	return len(ph.time)
}

// NumParams returns the number of model parameters (regression
// coefficients).
func (ph *PHReg) NumParams() int {
	return len(ph.x)
}

// NumStrata returns the number of strata.
func (ph *PHReg) NumStrata() int {
	return len(ph.strata)
}

// setupTimes builds the risk set bookkeeping: the sorted distinct
// event times per stratum, and the rows that enter the risk set, have
// an event, or leave the risk set at each of those times.
func (ph *PHReg) setupTimes() error {

	ph.skip = make([]bool, len(ph.time))

	for _, rows := range ph.strata {

		var et []float64
		for _, i := range rows {
			if ph.time[i] < 0 {
				return fmt.Errorf("duration: times cannot be negative")
			}
			switch ph.status[i] {
			case 1:
				et = append(et, float64(ph.time[i]))
			case 0:
			default:
				return fmt.Errorf("duration: status values must be 0 or 1")
			}
		}

		if len(et) > 0 {
			sort.Float64s(et)
			j := 0
			for i := 1; i < len(et); i++ {
				if et[i] != et[j] {
					j++
					et[j] = et[i]
				}
			}
			et = et[0 : j+1]
		}
		ph.etimes = append(ph.etimes, et)

		enter := make([][]int, len(et))
		exit := make([][]int, len(et))
		event := make([][]int, len(et))
		ph.enter = append(ph.enter, enter)
		ph.exit = append(ph.exit, exit)
		ph.event = append(ph.event, event)

		if len(et) == 0 {
			continue
		}

		// Risk set exit times.
		for _, i := range rows {
			ii := sort.SearchFloat64s(et, float64(ph.time[i]))
			switch {
			case ii == len(et):
				// Censored after the last event, never exits.
			case et[ii] == float64(ph.time[i]):
				// Event, or censored at an event time.
				exit[ii] = append(exit[ii], i)
			case ii == 0:
				// Censored before the first event, never enters.
				ph.skip[i] = true
				ph.nskip++
			default:
				// Censored between event times.
				exit[ii-1] = append(exit[ii-1], i)
			}
		}

		// Event times.
		for _, i := range rows {
			if ph.status[i] == 0 || ph.skip[i] {
				continue
			}
			ii := sort.SearchFloat64s(et, float64(ph.time[i]))
			event[ii] = append(event[ii], i)
		}

		// Risk set entry times.
		for _, i := range rows {
			if ph.skip[i] {
				continue
			}
			var t float64
			if ph.entry != nil {
				t = float64(ph.entry[i])
				if t > float64(ph.time[i]) {
					return fmt.Errorf("duration: entry times may not occur after event or censoring times")
				}
				if t < 0 {
					return fmt.Errorf("duration: entry times may not be negative")
				}
			}
			ii := sort.SearchFloat64s(et, t)
			if ii < len(et) {
				enter[ii] = append(enter[ii], i)
			}
		}
	}

	return nil
}

// setupCovs accumulates, per stratum, the weighted sum of covariates
// over the rows with events.
func (ph *PHReg) setupCovs() {

	for _, rows := range ph.strata {
		sumx := make([]float64, len(ph.x))
		for _, i := range rows {
			if ph.skip[i] || ph.status[i] != 1 {
				continue
			}
			w := 1.0
			if ph.wgt != nil {
				w = float64(ph.wgt[i])
			}
			for j := range ph.x {
				sumx[j] += w * float64(ph.x[j][i])
			}
		}
		ph.sumx = append(ph.sumx, sumx)
	}
}

func (ph *PHReg) linpred(coeff, lp []float64) {
	for i := range lp {
		lp[i] = 0
	}
	for j := range ph.x {
		xda := ph.x[j]
		for i := range xda {
			lp[i] += coeff[j] * float64(xda[i])
		}
	}
}

// LogLike returns the log partial likelihood at the given
// coefficients, using the Breslow method to resolve ties.
func (ph *PHReg) LogLike(coeff []float64) float64 {

	n := ph.NumObs()
	lp := make([]float64, n)
	elp := make([]float64, n)
	ph.linpred(coeff, lp)

	var ql float64
	for s, rows := range ph.strata {

		// Shifting the linear predictors does not change the
		// partial likelihood, and avoids overflow.
		mx := math.Inf(-1)
		for _, i := range rows {
			if lp[i] > mx {
				mx = lp[i]
			}
		}
		for _, i := range rows {
			lp[i] -= mx
			elp[i] = math.Exp(lp[i])
			if ph.wgt != nil {
				lp[i] *= float64(ph.wgt[i])
				elp[i] *= float64(ph.wgt[i])
			}
		}

		var rlp float64
		for k := range ph.etimes[s] {

			for _, i := range ph.enter[s][k] {
				rlp += elp[i]
			}

			var d float64
			for _, i := range ph.event[s][k] {
				ql += lp[i]
				if ph.wgt != nil {
					d += float64(ph.wgt[i])
				} else {
					d++
				}
			}
			ql -= d * math.Log(rlp)

			for _, i := range ph.exit[s][k] {
				rlp -= elp[i]
			}
		}
	}

	return ql
}

// Score stores the score vector of the log partial likelihood at the
// given coefficients.
func (ph *PHReg) Score(coeff, score []float64) {

	n := ph.NumObs()
	lp := make([]float64, n)
	ph.linpred(coeff, lp)

	for j := range score {
		score[j] = 0
	}

	for s, rows := range ph.strata {

		for j := range ph.x {
			score[j] += ph.sumx[s][j]
		}

		mx := math.Inf(-1)
		for _, i := range rows {
			if lp[i] > mx {
				mx = lp[i]
			}
		}
		for _, i := range rows {
			lp[i] = math.Exp(lp[i] - mx)
			if ph.wgt != nil {
				lp[i] *= float64(ph.wgt[i])
			}
		}

		var rlp float64
		rlpv := make([]float64, len(ph.x))
		for k := range ph.etimes[s] {

			for _, i := range ph.enter[s][k] {
				rlp += lp[i]
				for j := range ph.x {
					rlpv[j] += lp[i] * float64(ph.x[j][i])
				}
			}

			var d float64
			for _, i := range ph.event[s][k] {
				if ph.wgt != nil {
					d += float64(ph.wgt[i])
				} else {
					d++
				}
			}
			floats.AddScaledTo(score, score, -d/rlp, rlpv)

			for _, i := range ph.exit[s][k] {
				rlp -= lp[i]
				for j := range ph.x {
					rlpv[j] -= lp[i] * float64(ph.x[j][i])
				}
			}
		}
	}
}

// Hessian stores the Hessian of the log partial likelihood at the
// given coefficients, vectorized by row.
func (ph *PHReg) Hessian(coeff, hess []float64) {

	n := ph.NumObs()
	p := ph.NumParams()
	lp := make([]float64, n)
	ph.linpred(coeff, lp)

	for k := range hess {
		hess[k] = 0
	}

	d1s := make([]float64, p)
	d2s := make([]float64, p*p)

	for s, rows := range ph.strata {

		mx := math.Inf(-1)
		for _, i := range rows {
			if lp[i] > mx {
				mx = lp[i]
			}
		}
		for _, i := range rows {
			lp[i] = math.Exp(lp[i] - mx)
			if ph.wgt != nil {
				lp[i] *= float64(ph.wgt[i])
			}
		}

		var rlp float64
		for j := range d1s {
			d1s[j] = 0
		}
		for j := range d2s {
			d2s[j] = 0
		}

		for k := range ph.etimes[s] {

			for _, i := range ph.enter[s][k] {
				rlp += lp[i]
				for j1 := range ph.x {
					d1s[j1] += lp[i] * float64(ph.x[j1][i])
					for j2 := 0; j2 <= j1; j2++ {
						u := lp[i] * float64(ph.x[j1][i]) * float64(ph.x[j2][i])
						d2s[j1*p+j2] += u
						if j2 != j1 {
							d2s[j2*p+j1] += u
						}
					}
				}
			}

			var d float64
			for _, i := range ph.event[s][k] {
				if ph.wgt != nil {
					d += float64(ph.wgt[i])
				} else {
					d++
				}
			}

			for j1 := 0; j1 < p; j1++ {
				for j2 := 0; j2 < p; j2++ {
					hess[j1*p+j2] -= d * d2s[j1*p+j2] / rlp
					hess[j1*p+j2] += d * d1s[j1] * d1s[j2] / (rlp * rlp)
				}
			}

			for _, i := range ph.exit[s][k] {
				rlp -= lp[i]
				for j1 := range ph.x {
					d1s[j1] -= lp[i] * float64(ph.x[j1][i])
					for j2 := 0; j2 <= j1; j2++ {
						u := lp[i] * float64(ph.x[j1][i]) * float64(ph.x[j2][i])
						d2s[j1*p+j2] -= u
						if j2 != j1 {
							d2s[j2*p+j1] -= u
						}
					}
				}
			}
		}
	}
}

// Results describes the results of a fitted proportional hazards
// model.
type Results struct {
	*statfit.Results

	model *PHReg
}

func negative(x []float64) {
	for i := range x {
		x[i] *= -1
	}
}

// Fit fits the model to the data.  Optimizer non-convergence is
// returned as an error.
func (ph *PHReg) Fit() (*Results, error) {

	nvar := ph.NumParams()

	start := ph.start
	if start == nil {
		start = make([]float64, nvar)
	}

	p := optimize.Problem{
		Func: func(x []float64) float64 {
			return -ph.LogLike(x)
		},
		Grad: func(grad, x []float64) {
			ph.Score(x, grad)
			negative(grad)
		},
	}

	settings := ph.optsettings
	if settings == nil {
		settings = &optimize.Settings{
			GradientThreshold: 1e-5,
		}
	}

	optrslt, err := optimize.Minimize(p, start, settings, ph.optmethod)
	if err != nil {
		return nil, err
	}
	if err := optrslt.Status.Err(); err != nil {
		return nil, err
	}

	coeff := make([]float64, len(optrslt.X))
	copy(coeff, optrslt.X)

	if ph.log != nil {
		ph.log.Printf("duration: optimizer status %v, loglike %f", optrslt.Status, -optrslt.F)
	}

	vcov, err := statfit.VCov(ph, coeff)
	if err != nil {
		return nil, err
	}

	return &Results{
		Results: statfit.NewResults(ph.xnames, -optrslt.F, coeff, vcov),
		model:   ph,
	}, nil
}

// Summary returns a string summarizing the fitted model, including
// hazard ratios with their confidence limits.
func (rslt *Results) Summary() string {

	ph := rslt.model

	var nevent float64
	for i := range ph.status {
		nevent += float64(ph.status[i])
	}

	params := rslt.Params()
	std := rslt.StdErr()
	lcb, ucb := rslt.ConfInt(0.95)

	hr := make([]float64, len(params))
	hrl := make([]float64, len(params))
	hru := make([]float64, len(params))
	for j := range params {
		hr[j] = math.Exp(params[j])
		hrl[j] = math.Exp(lcb[j])
		hru[j] = math.Exp(ucb[j])
	}

	sum := &statfit.SummaryTable{
		Title: "Proportional hazards regression analysis",
		Top: []string{
			fmt.Sprintf("Sample size: %d", ph.NumObs()),
			fmt.Sprintf("Events:      %.0f", nevent),
			fmt.Sprintf("Strata:      %d", ph.NumStrata()),
			"Ties:        Breslow",
		},
		ColNames: []string{"Variable", "Coefficient", "SE", "HR", "HR LCB", "HR UCB", "P-value"},
		ColFmt: []statfit.Fmter{statfit.FmtString, statfit.FmtNumber, statfit.FmtNumber,
			statfit.FmtNumber, statfit.FmtNumber, statfit.FmtNumber, statfit.FmtNumber},
		Cols: []interface{}{
			rslt.Names(),
			params,
			std,
			hr,
			hrl,
			hru,
			rslt.PValues(),
		},
	}

	if ph.nskip > 0 {
		sum.Msg = append(sum.Msg,
			fmt.Sprintf("%d observations dropped for being censored before the first event", ph.nskip))
	}

	return sum.String()
}

var _ statfit.RegFitter = (*PHReg)(nil)
