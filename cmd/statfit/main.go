// Command statfit fits the example models to the bundled teaching
// cohort.  Each subcommand estimates a model twice: once by handing
// the hand-derived negative log-likelihood to a set of generic
// optimizers, and once with the analytic reference fitter, then
// reports both results and the discrepancy between them.
package main

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/entjos/statfit/optimizer"
	"github.com/entjos/statfit/statfit"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "statfit",
	Short: "Hand-rolled maximum likelihood estimation demos",
	Long: `statfit demonstrates maximum likelihood and M-estimation driven by
general-purpose optimizers: each subcommand minimizes a hand-derived
negative log-likelihood, derives Wald inference from the Hessian at
the optimum, and cross-checks the result against an independent
reference fit.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log fitting progress")

	rootCmd.AddCommand(logisticCmd)
	rootCmd.AddCommand(poissonCmd)
	rootCmd.AddCommand(weibullCmd)
	rootCmd.AddCommand(coxCmd)
	rootCmd.AddCommand(sandwichCmd)
	rootCmd.AddCommand(survplotCmd)
}

func logger() *log.Logger {
	if verbose {
		return log.New(os.Stderr, "statfit: ", log.LstdFlags)
	}
	return nil
}

// printRuns writes a per-algorithm convergence table.
func printRuns(w io.Writer, runs []optimizer.Result) {
	fmt.Fprintf(w, "%-12s %14s %12s  %s\n", "Algorithm", "Objective", "Converged", "Status")
	for _, r := range runs {
		fmt.Fprintf(w, "%-12s %14.6f %12v  %v\n", r.Method, r.F, r.Converged, r.Status)
	}
	fmt.Fprintln(w)
}

// optimResults filters to the best converged run and turns it into a
// results value with the covariance from the inverted Hessian.
func optimResults(names []string, runs []optimizer.Result) (*statfit.Results, error) {

	best, err := optimizer.Best(runs)
	if err != nil {
		return nil, err
	}

	vcov, err := statfit.VCovFromNegHess(best.Hessian, len(best.X))
	if err != nil {
		return nil, err
	}

	return statfit.NewResults(names, -best.F, best.X, vcov), nil
}

// maxAbsDiff returns the largest absolute elementwise difference.
func maxAbsDiff(a, b []float64) float64 {
	var m float64
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > m {
			m = d
		}
	}
	return m
}

// printComparison reports how far the optimizer-based estimates are
// from the reference fit.
func printComparison(w io.Writer, hand, ref *statfit.Results) {
	fmt.Fprintf(w, "Max |coefficient difference|: %.2e\n", maxAbsDiff(hand.Params(), ref.Params()))
	fmt.Fprintf(w, "Max |standard error difference|: %.2e\n\n", maxAbsDiff(hand.StdErr(), ref.StdErr()))
}
