package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entjos/statfit/datasets"
	"github.com/entjos/statfit/likelihood"
	"github.com/entjos/statfit/mestimate"
	"github.com/entjos/statfit/optimizer"
	"github.com/entjos/statfit/statfit"
)

var sandwichCmd = &cobra.Command{
	Use:   "sandwich",
	Short: "M-estimation with sandwich (robust) standard errors",
	Long: `sandwich solves the estimating equations of the logistic and Poisson
models for their roots and reports sandwich variance estimates next to
the model-based ones from the inverted Hessian.`,
	RunE: func(cmd *cobra.Command, args []string) error {

		data, err := datasets.Cohort()
		if err != nil {
			return err
		}

		logit, err := likelihood.NewLogistic(data, "status", []string{"icept", "female", "age"})
		if err != nil {
			return err
		}
		if err := sandwichReport(os.Stdout, logit, logit.ParamNames(), "Logistic"); err != nil {
			return err
		}

		pois, err := likelihood.NewPoisson(data, "visits", []string{"icept", "female", "age"}, "")
		if err != nil {
			return err
		}
		return sandwichReport(os.Stdout, pois, pois.ParamNames(), "Poisson")
	},
}

// modelObjective is satisfied by models that provide both a smooth
// objective and per-observation estimating functions.
type modelObjective interface {
	statfit.Objective
	mestimate.EstimatingFunctions
}

func sandwichReport(w *os.File, model modelObjective, names []string, title string) error {

	mcfg := &mestimate.Config{Log: logger()}
	robust, err := mestimate.Solve(model, names, mcfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, robust.Summary(title+" M-estimation with sandwich variance"))

	cfg := optimizer.DefaultConfig()
	cfg.Log = logger()
	runs := optimizer.Minimize(model, make([]float64, model.NumParams()), cfg)
	hand, err := optimResults(names, runs)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%-10s %14s %14s\n", "Variable", "Model SE", "Robust SE")
	mse := hand.StdErr()
	rse := robust.StdErr()
	for i, name := range names {
		fmt.Fprintf(w, "%-10s %14.6f %14.6f\n", name, mse[i], rse[i])
	}
	fmt.Fprintln(w)

	return nil
}
