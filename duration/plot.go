package duration

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// SurvCurve is a named survival curve for plotting.
type SurvCurve struct {
	Name  string
	Times []float64
	Probs []float64
}

// Curve returns the estimated survival function as a plottable curve.
func (sf *SurvfuncRight) Curve(name string) SurvCurve {
	return SurvCurve{Name: name, Times: sf.times, Probs: sf.survProb}
}

// PlotSurvival writes the given survival curves to an image file; the
// format is inferred from the file extension.
func PlotSurvival(curves []SurvCurve, title, fname string) error {

	plt := plot.New()
	plt.Title.Text = title
	plt.X.Label.Text = "Time"
	plt.Y.Label.Text = "Survival probability"
	plt.Y.Min = 0
	plt.Y.Max = 1

	var args []interface{}
	for _, c := range curves {
		pts := make(plotter.XYs, len(c.Times))
		for i := range c.Times {
			pts[i].X = c.Times[i]
			pts[i].Y = c.Probs[i]
		}
		args = append(args, c.Name, pts)
	}

	if err := plotutil.AddLines(plt, args...); err != nil {
		return err
	}

	return plt.Save(6*vg.Inch, 4*vg.Inch, fname)
}
