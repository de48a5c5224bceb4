package duration

import (
	"fmt"
	"math"
	"sort"

	"github.com/entjos/statfit/statfit"
)

// SurvfuncRight uses the method of Kaplan and Meier to estimate the
// survival distribution based on (possibly) right censored data.
// Standard errors are computed with the Greenwood formula.
type SurvfuncRight struct {

	// Times at which events occur, sorted.
	times []float64

	// Weighted number of events at each time in times.
	nEvents []float64

	// Weighted number of people at risk just before each time in
	// times.
	nRisk []float64

	// The estimated survival function evaluated at each time in
	// times.
	survProb []float64

	// The standard errors of the estimates in survProb.
	survProbSE []float64
}

// SurvfuncConfig defines configuration parameters for a survival
// function estimate.
type SurvfuncConfig struct {

	// WeightVar is the name of a case weight variable; if empty,
	// all weights are 1.
	WeightVar string
}

// NewSurvfuncRight estimates the survival function for the given
// time and status variables.
func NewSurvfuncRight(data statfit.Dataset, timeVar, statusVar string, config *SurvfuncConfig) (*SurvfuncRight, error) {

	if config == nil {
		config = &SurvfuncConfig{}
	}

	time, err := data.Column(timeVar)
	if err != nil {
		return nil, err
	}

	status, err := data.Column(statusVar)
	if err != nil {
		return nil, err
	}

	var wgt []statfit.Dtype
	if config.WeightVar != "" {
		if wgt, err = data.Column(config.WeightVar); err != nil {
			return nil, err
		}
	}

	events := make(map[float64]float64)
	total := make(map[float64]float64)
	for i := range time {
		if time[i] < 0 {
			return nil, fmt.Errorf("duration: times cannot be negative")
		}
		w := 1.0
		if wgt != nil {
			w = float64(wgt[i])
		}
		t := float64(time[i])
		total[t] += w
		if status[i] == 1 {
			events[t] += w
		}
	}

	// All distinct exit times, sorted.
	var alltimes []float64
	for t := range total {
		alltimes = append(alltimes, t)
	}
	sort.Float64s(alltimes)

	sf := &SurvfuncRight{}

	// Number at risk just before each time, accumulating from the
	// right.
	var atrisk float64
	riskAt := make(map[float64]float64)
	for k := len(alltimes) - 1; k >= 0; k-- {
		atrisk += total[alltimes[k]]
		riskAt[alltimes[k]] = atrisk
	}

	// With unit weights the Greenwood formula applies; with case
	// weights the risk set sizes are not counts, so a plug-in
	// variance on the weighted scale is used instead.
	surv := 1.0
	var gw float64
	for _, t := range alltimes {
		d := events[t]
		if d == 0 {
			continue
		}
		r := riskAt[t]
		surv *= 1 - d/r

		sf.times = append(sf.times, t)
		sf.nEvents = append(sf.nEvents, d)
		sf.nRisk = append(sf.nRisk, r)
		sf.survProb = append(sf.survProb, surv)

		if wgt == nil {
			if r > d {
				gw += d / (r * (r - d))
			}
			sf.survProbSE = append(sf.survProbSE, surv*math.Sqrt(gw))
		} else {
			gw += d / (r * r)
			sf.survProbSE = append(sf.survProbSE, math.Sqrt(gw))
		}
	}

	return sf, nil
}

// Times returns the event times, sorted.
func (sf *SurvfuncRight) Times() []float64 {
	return sf.times
}

// NumEvents returns the weighted number of events at each event time.
func (sf *SurvfuncRight) NumEvents() []float64 {
	return sf.nEvents
}

// NumRisk returns the weighted size of the risk set just before each
// event time.
func (sf *SurvfuncRight) NumRisk() []float64 {
	return sf.nRisk
}

// SurvProb returns the estimated survival probabilities at the event
// times.
func (sf *SurvfuncRight) SurvProb() []float64 {
	return sf.survProb
}

// SurvProbSE returns the Greenwood standard errors of the survival
// probabilities.
func (sf *SurvfuncRight) SurvProbSE() []float64 {
	return sf.survProbSE
}
