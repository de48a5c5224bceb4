package main

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/entjos/statfit/datasets"
	"github.com/entjos/statfit/likelihood"
	"github.com/entjos/statfit/optimizer"
	"github.com/entjos/statfit/statfit"
)

var weibullCmd = &cobra.Command{
	Use:   "weibull",
	Short: "Fit a Weibull proportional hazards survival model",
	RunE: func(cmd *cobra.Command, args []string) error {

		data, err := datasets.Cohort()
		if err != nil {
			return err
		}

		model, err := likelihood.NewWeibull(data, "time", "status", []string{"icept", "female", "age"})
		if err != nil {
			return err
		}

		cfg := optimizer.DefaultConfig()
		cfg.Log = logger()
		runs := optimizer.Minimize(model, make([]float64, model.NumParams()), cfg)
		printRuns(os.Stdout, runs)

		hand, err := optimResults(model.ParamNames(), runs)
		if err != nil {
			return err
		}
		fmt.Println(hand.Summary("Weibull survival model by direct optimization"))

		// Predicted three-year survival for a 60 year old woman, with
		// a Wald interval constructed on the log cumulative hazard
		// scale and transformed back so the limits stay in (0, 1).
		x := []float64{1, 1, 60}
		theta := hand.Params()
		lch, grad := model.LogCumHaz(theta, 3, x)
		se := math.Sqrt(statfit.DeltaMethodGrad(grad, hand.VCov()))
		z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.975)

		surv := model.Survival(theta, 3, x)
		lcb := math.Exp(-math.Exp(lch + z*se))
		ucb := math.Exp(-math.Exp(lch - z*se))
		fmt.Printf("Survival at t=3 for female, age 60: %.4f (95%% CI %.4f, %.4f)\n\n",
			surv, lcb, ucb)

		return nil
	},
}
