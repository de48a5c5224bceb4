package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entjos/statfit/datasets"
	"github.com/entjos/statfit/duration"
	"github.com/entjos/statfit/likelihood"
	"github.com/entjos/statfit/optimizer"
	"github.com/entjos/statfit/statfit"
)

var survplotOut string

func init() {
	survplotCmd.Flags().StringVar(&survplotOut, "out", "survival.png", "output file for the plot")
}

var survplotCmd = &cobra.Command{
	Use:   "survplot",
	Short: "Plot Kaplan-Meier curves against the fitted Weibull model",
	RunE: func(cmd *cobra.Command, args []string) error {

		data, err := datasets.Cohort()
		if err != nil {
			return err
		}

		model, err := likelihood.NewWeibull(data, "time", "status", []string{"icept", "female", "age"})
		if err != nil {
			return err
		}
		runs := optimizer.Minimize(model, make([]float64, model.NumParams()), optimizer.DefaultConfig())
		best, err := optimizer.Best(runs)
		if err != nil {
			return err
		}

		female, err := data.Column("female")
		if err != nil {
			return err
		}

		var curves []duration.SurvCurve
		for _, sex := range []float64{0, 1} {

			sub, err := subset(data, func(i int) bool { return female[i] == sex })
			if err != nil {
				return err
			}
			km, err := duration.NewSurvfuncRight(sub, "time", "status", nil)
			if err != nil {
				return err
			}

			label := "male"
			if sex == 1 {
				label = "female"
			}
			curves = append(curves, km.Curve("Kaplan-Meier "+label))

			// Weibull prediction for a 60 year old of this sex on
			// the same time grid as the empirical curve.
			times := km.Times()
			probs := make([]float64, len(times))
			x := []float64{1, sex, 60}
			for i, t := range times {
				probs[i] = model.Survival(best.X, t, x)
			}
			curves = append(curves, duration.SurvCurve{
				Name:  "Weibull " + label,
				Times: times,
				Probs: probs,
			})
		}

		if err := duration.PlotSurvival(curves, "Survival by sex", survplotOut); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", survplotOut)
		return nil
	},
}

// subset returns a dataset containing the rows for which keep is true.
func subset(data statfit.Dataset, keep func(i int) bool) (statfit.Dataset, error) {

	names := data.Names()
	cols, err := data.Columns(names)
	if err != nil {
		return statfit.Dataset{}, err
	}

	sub := make([][]statfit.Dtype, len(cols))
	for j, col := range cols {
		for i, v := range col {
			if keep(i) {
				sub[j] = append(sub[j], v)
			}
		}
	}

	return statfit.NewDataset(sub, names)
}
