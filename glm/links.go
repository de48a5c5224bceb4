package glm

import (
	"fmt"
	"math"
)

// VecFunc is a function with two float64 array arguments, writing its
// output into the second.
type VecFunc func([]float64, []float64)

// LinkType is used to specify a GLM link function.
type LinkType uint8

// LogitLink, etc. indicate the different link functions.
const (
	LogitLink LinkType = iota
	LogLink
	IdentityLink
	CloglogLink
)

// Link specifies a GLM link function.
type Link struct {
	Name string

	TypeCode LinkType

	// Link maps the mean value to the linear predictor.
	Link VecFunc

	// InvLink maps the linear predictor to the mean value.
	InvLink VecFunc

	// Deriv calculates the derivative of the link function with
	// respect to the mean.
	Deriv VecFunc
}

// NewLink returns the link function object corresponding to the given
// link type.
func NewLink(link LinkType) *Link {
	switch link {
	case LogitLink:
		return &logitLink
	case LogLink:
		return &logLink
	case IdentityLink:
		return &idLink
	case CloglogLink:
		return &cLogLogLink
	default:
		panic(fmt.Sprintf("glm: unknown link: %v\n", link))
	}
}

var logitLink = Link{
	Name:     "Logit",
	TypeCode: LogitLink,
	Link:     logitFunc,
	InvLink:  expitFunc,
	Deriv:    logitDerivFunc,
}

var logLink = Link{
	Name:     "Log",
	TypeCode: LogLink,
	Link:     logFunc,
	InvLink:  expFunc,
	Deriv:    logDerivFunc,
}

var idLink = Link{
	Name:     "Identity",
	TypeCode: IdentityLink,
	Link:     idFunc,
	InvLink:  idFunc,
	Deriv:    idDerivFunc,
}

var cLogLogLink = Link{
	Name:     "CLogLog",
	TypeCode: CloglogLink,
	Link:     cloglogFunc,
	InvLink:  cloglogInvFunc,
	Deriv:    cloglogDerivFunc,
}

func logitFunc(x, y []float64) {
	for i := range x {
		y[i] = math.Log(x[i] / (1 - x[i]))
	}
}

func expitFunc(x, y []float64) {
	for i := range x {
		y[i] = 1 / (1 + math.Exp(-x[i]))
	}
}

func logitDerivFunc(x, y []float64) {
	for i := range x {
		y[i] = 1 / (x[i] * (1 - x[i]))
	}
}

func logFunc(x, y []float64) {
	for i := range x {
		y[i] = math.Log(x[i])
	}
}

func expFunc(x, y []float64) {
	for i := range x {
		y[i] = math.Exp(x[i])
	}
}

func logDerivFunc(x, y []float64) {
	for i := range x {
		y[i] = 1 / x[i]
	}
}

func idFunc(x, y []float64) {
	copy(y, x)
}

func idDerivFunc(x, y []float64) {
	for i := range y {
		y[i] = 1
	}
}

func cloglogFunc(x, y []float64) {
	for i, v := range x {
		y[i] = math.Log(-math.Log(1 - v))
	}
}

func cloglogInvFunc(x, y []float64) {
	for i, v := range x {
		y[i] = 1 - math.Exp(-math.Exp(v))
	}
}

func cloglogDerivFunc(x, y []float64) {
	for i, v := range x {
		y[i] = 1 / ((v - 1) * math.Log(1-v))
	}
}
