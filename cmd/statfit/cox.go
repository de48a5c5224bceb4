package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entjos/statfit/datasets"
	"github.com/entjos/statfit/duration"
	"github.com/entjos/statfit/likelihood"
	"github.com/entjos/statfit/optimizer"
)

var coxStrata bool

func init() {
	coxCmd.Flags().BoolVar(&coxStrata, "strata", false, "stratify the baseline hazard by sex")
}

var coxCmd = &cobra.Command{
	Use:   "cox",
	Short: "Fit a Cox proportional hazards model with Breslow ties",
	RunE: func(cmd *cobra.Command, args []string) error {

		data, err := datasets.Cohort()
		if err != nil {
			return err
		}

		predictors := []string{"female", "age"}
		strataVar := ""
		if coxStrata {
			predictors = []string{"age"}
			strataVar = "female"
		}

		model, err := likelihood.NewCox(data, "time", "status", predictors, strataVar)
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
		fmt.Println(hand.Summary("Cox partial likelihood by direct optimization"))

		dcfg := duration.DefaultConfig()
		dcfg.StrataVar = strataVar
		dcfg.Log = logger()
		ref, err := duration.NewPHReg(data, "time", "status", predictors, dcfg)
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
