package statfit

import "fmt"

// Dataset is a named, column-major data table.  The data are treated
// as immutable once the Dataset is constructed.
type Dataset struct {
	names   []string
	columns [][]Dtype
}

// NewDataset constructs a Dataset from columns and their names.  All
// columns must have the same length.
func NewDataset(columns [][]Dtype, names []string) (Dataset, error) {

	if len(columns) != len(names) {
		return Dataset{}, fmt.Errorf("statfit: %d columns but %d names", len(columns), len(names))
	}
	if len(columns) == 0 {
		return Dataset{}, fmt.Errorf("statfit: dataset has no columns")
	}

	n := len(columns[0])
	for j, col := range columns {
		if len(col) != n {
			return Dataset{}, fmt.Errorf("statfit: column %s has length %d, expected %d",
				names[j], len(col), n)
		}
	}

	return Dataset{names: names, columns: columns}, nil
}

// Names returns the column names.
func (ds Dataset) Names() []string {
	return ds.names
}

// NumObs returns the number of rows.
func (ds Dataset) NumObs() int {
	return len(ds.columns[0])
}

// NumVar returns the number of columns.
func (ds Dataset) NumVar() int {
	return len(ds.columns)
}

// Column returns the data for the named column.
func (ds Dataset) Column(name string) ([]Dtype, error) {
	for j, na := range ds.names {
		if na == name {
			return ds.columns[j], nil
		}
	}
	return nil, fmt.Errorf("statfit: variable '%s' not found in dataset", name)
}

// Columns returns the data for the named columns, in order.
func (ds Dataset) Columns(names []string) ([][]Dtype, error) {
	cols := make([][]Dtype, len(names))
	for j, na := range names {
		col, err := ds.Column(na)
		if err != nil {
			return nil, err
		}
		cols[j] = col
	}
	return cols, nil
}
