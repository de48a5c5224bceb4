package glm

import (
	"fmt"
	"math"

	"github.com/entjos/statfit/statfit"
)

// FamilyType is the type of GLM family used in a model.
type FamilyType uint8

// BinomialFamily, ... are the supported GLM families.
const (
	BinomialFamily FamilyType = iota
	PoissonFamily
	GaussianFamily
)

// LogLikeFunc evaluates and returns the exact log-likelihood for a
// GLM, including all constant terms.  The arguments are the data, the
// mean values, the case weights, and the scale parameter.  The
// weights may be nil, in which case all weights are taken to be 1.
type LogLikeFunc func([]statfit.Dtype, []float64, []statfit.Dtype, float64) float64

// DevianceFunc evaluates and returns the deviance for a GLM.  The
// arguments are the data, the mean values, and the case weights.
type DevianceFunc func([]statfit.Dtype, []float64, []statfit.Dtype) float64

// Family represents a generalized linear model family.
type Family struct {

	// The name of the family.
	Name string

	// The numeric code for the family.
	TypeCode FamilyType

	// The log-likelihood function for the family.
	LogLike LogLikeFunc

	// The deviance function for the family.
	Deviance DevianceFunc

	// Whether the scale parameter is fixed at 1 or estimated.
	fixedScale bool

	// The valid links for this family.  The first listed link is
	// the canonical link.
	validLinks []LinkType
}

// NewFamily returns the family object corresponding to the given
// family type.
func NewFamily(fam FamilyType) *Family {
	switch fam {
	case BinomialFamily:
		return &binomial
	case PoissonFamily:
		return &poisson
	case GaussianFamily:
		return &gaussian
	default:
		panic(fmt.Sprintf("glm: unknown family: %v\n", fam))
	}
}

// IsValidLink reports whether the given link can be used with the family.
func (fam *Family) IsValidLink(link *Link) bool {
	for _, t := range fam.validLinks {
		if link.TypeCode == t {
			return true
		}
	}
	return false
}

var binomial = Family{
	Name:       "Binomial",
	TypeCode:   BinomialFamily,
	LogLike:    binomialLogLike,
	Deviance:   binomialDeviance,
	fixedScale: true,
	validLinks: []LinkType{LogitLink, LogLink, CloglogLink, IdentityLink},
}

var poisson = Family{
	Name:       "Poisson",
	TypeCode:   PoissonFamily,
	LogLike:    poissonLogLike,
	Deviance:   poissonDeviance,
	fixedScale: true,
	validLinks: []LinkType{LogLink, IdentityLink},
}

var gaussian = Family{
	Name:       "Gaussian",
	TypeCode:   GaussianFamily,
	LogLike:    gaussianLogLike,
	Deviance:   gaussianDeviance,
	fixedScale: false,
	validLinks: []LinkType{IdentityLink, LogLink},
}

func binomialLogLike(y []statfit.Dtype, mn []float64, wgt []statfit.Dtype, scale float64) float64 {
	var ll float64
	for i := range y {
		w := 1.0
		if wgt != nil {
			w = float64(wgt[i])
		}
		ll += w * (float64(y[i])*math.Log(mn[i]) + (1-float64(y[i]))*math.Log(1-mn[i]))
	}
	return ll
}

func binomialDeviance(y []statfit.Dtype, mn []float64, wgt []statfit.Dtype) float64 {
	var dev float64
	for i := range y {
		w := 1.0
		if wgt != nil {
			w = float64(wgt[i])
		}
		if y[i] == 1 {
			dev -= 2 * w * math.Log(mn[i])
		} else {
			dev -= 2 * w * math.Log(1-mn[i])
		}
	}
	return dev
}

func poissonLogLike(y []statfit.Dtype, mn []float64, wgt []statfit.Dtype, scale float64) float64 {
	var ll float64
	for i := range y {
		w := 1.0
		if wgt != nil {
			w = float64(wgt[i])
		}
		lg, _ := math.Lgamma(float64(y[i]) + 1)
		ll += w * (float64(y[i])*math.Log(mn[i]) - mn[i] - lg)
	}
	return ll
}

func poissonDeviance(y []statfit.Dtype, mn []float64, wgt []statfit.Dtype) float64 {
	var dev float64
	for i := range y {
		w := 1.0
		if wgt != nil {
			w = float64(wgt[i])
		}
		if y[i] > 0 {
			dev += 2 * w * (float64(y[i])*math.Log(float64(y[i])/mn[i]) - (float64(y[i]) - mn[i]))
		} else {
			dev += 2 * w * mn[i]
		}
	}
	return dev
}

func gaussianLogLike(y []statfit.Dtype, mn []float64, wgt []statfit.Dtype, scale float64) float64 {
	var ll float64
	for i := range y {
		w := 1.0
		if wgt != nil {
			w = float64(wgt[i])
		}
		r := float64(y[i]) - mn[i]
		ll -= 0.5 * w * (r*r/scale + math.Log(2*math.Pi*scale))
	}
	return ll
}

func gaussianDeviance(y []statfit.Dtype, mn []float64, wgt []statfit.Dtype) float64 {
	var dev float64
	for i := range y {
		w := 1.0
		if wgt != nil {
			w = float64(wgt[i])
		}
		r := float64(y[i]) - mn[i]
		dev += w * r * r
	}
	return dev
}
