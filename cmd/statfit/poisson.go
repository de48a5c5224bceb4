package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entjos/statfit/datasets"
	"github.com/entjos/statfit/glm"
	"github.com/entjos/statfit/likelihood"
	"github.com/entjos/statfit/optimizer"
)

var poissonCmd = &cobra.Command{
	Use:   "poisson",
	Short: "Fit a Poisson regression of clinic visits on sex and age",
	RunE: func(cmd *cobra.Command, args []string) error {

		data, err := datasets.Cohort()
		if err != nil {
			return err
		}

		model, err := likelihood.NewPoisson(data, "visits", []string{"icept", "female", "age"}, "")
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
		fmt.Println(hand.Summary("Poisson regression by direct optimization"))

		gcfg := glm.DefaultConfig()
		gcfg.Log = logger()
		ref, err := glm.NewGLM(data, "visits", []string{"icept", "female", "age"},
			glm.NewFamily(glm.PoissonFamily), gcfg)
		if err != nil {
			return err
		}
		rslt, err := ref.Fit()
		if err != nil {
			return err
		}
		fmt.Println(rslt.Summary())

		printComparison(os.Stdout, hand, rslt.Results)
		return nil
	},
}
