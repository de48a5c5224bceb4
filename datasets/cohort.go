// Package datasets bundles the small teaching dataset used by the
// example programs and the cross-checking tests.
package datasets

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/entjos/statfit/statfit"
)

// cohort.csv is a simulated lung-cancer cohort of 228 subjects,
// generated once from a Weibull proportional hazards model with
// shape 1.3 and log-hazard -7 - 0.5*female + 0.08*age, uniform
// administrative censoring on [2, 8] years, and an independent
// Poisson-distributed clinic visit count.  Columns: time (years),
// status (1=event), age, sex (1=male, 2=female), visits.
//
//go:embed cohort.csv
var cohortCSV []byte

// Cohort loads the bundled cohort.  Besides the file columns, the
// returned dataset carries two derived columns: icept (identically 1)
// and female (1 when sex is 2).
func Cohort() (statfit.Dataset, error) {

	rd := csv.NewReader(bytes.NewReader(cohortCSV))

	names, err := rd.Read()
	if err != nil {
		return statfit.Dataset{}, err
	}

	cols := make([][]statfit.Dtype, len(names))
	for {
		rec, err := rd.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return statfit.Dataset{}, err
		}
		for j, f := range rec {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return statfit.Dataset{}, fmt.Errorf("datasets: bad value %q in column %s: %v", f, names[j], err)
			}
			cols[j] = append(cols[j], v)
		}
	}

	n := len(cols[0])

	sexpos := -1
	for j, na := range names {
		if na == "sex" {
			sexpos = j
		}
	}
	if sexpos == -1 {
		return statfit.Dataset{}, fmt.Errorf("datasets: sex column not found")
	}

	icept := make([]statfit.Dtype, n)
	female := make([]statfit.Dtype, n)
	for i := 0; i < n; i++ {
		icept[i] = 1
		if cols[sexpos][i] == 2 {
			female[i] = 1
		}
	}

	cols = append(cols, icept, female)
	names = append(names, "icept", "female")

	return statfit.NewDataset(cols, names)
}
