package glm

import "fmt"

// VarType is used to specify a GLM variance function.
type VarType uint8

// BinomialVar, ... indicate the different variance functions.
const (
	BinomialVar VarType = iota
	IdentityVar
	ConstantVar
)

// Variance specifies a GLM variance function, giving the variance of
// an observation as a function of its mean.
type Variance struct {
	Name string

	TypeCode VarType

	// Var calculates the variance for each mean value.
	Var VecFunc
}

// NewVariance returns the variance function object corresponding to
// the given variance type.
func NewVariance(vt VarType) *Variance {
	switch vt {
	case BinomialVar:
		return &binomVariance
	case IdentityVar:
		return &identVariance
	case ConstantVar:
		return &constVariance
	default:
		panic(fmt.Sprintf("glm: unknown variance function: %v\n", vt))
	}
}

var binomVariance = Variance{
	Name:     "Binomial",
	TypeCode: BinomialVar,
	Var: func(mn, va []float64) {
		for i := range mn {
			va[i] = mn[i] * (1 - mn[i])
		}
	},
}

var identVariance = Variance{
	Name:     "Identity",
	TypeCode: IdentityVar,
	Var: func(mn, va []float64) {
		copy(va, mn)
	},
}

var constVariance = Variance{
	Name:     "Constant",
	TypeCode: ConstantVar,
	Var: func(mn, va []float64) {
		for i := range va {
			va[i] = 1
		}
	},
}

func defaultVariance(fam *Family) *Variance {
	switch fam.TypeCode {
	case BinomialFamily:
		return NewVariance(BinomialVar)
	case PoissonFamily:
		return NewVariance(IdentityVar)
	case GaussianFamily:
		return NewVariance(ConstantVar)
	default:
		panic(fmt.Sprintf("glm: unknown family: %s\n", fam.Name))
	}
}
