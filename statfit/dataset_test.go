package statfit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataset(t *testing.T) {

	ds, err := NewDataset([][]Dtype{{1, 2, 3}, {4, 5, 6}}, []string{"a", "b"})
	require.NoError(t, err)

	assert.Equal(t, 3, ds.NumObs())
	assert.Equal(t, 2, ds.NumVar())
	assert.Equal(t, []string{"a", "b"}, ds.Names())

	col, err := ds.Column("b")
	require.NoError(t, err)
	assert.Equal(t, []Dtype{4, 5, 6}, col)

	cols, err := ds.Columns([]string{"b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []Dtype{4, 5, 6}, cols[0])
	assert.Equal(t, []Dtype{1, 2, 3}, cols[1])

	_, err = ds.Column("c")
	assert.Error(t, err)

	_, err = ds.Columns([]string{"a", "c"})
	assert.Error(t, err)
}

func TestDatasetInvalid(t *testing.T) {

	_, err := NewDataset([][]Dtype{{1, 2}}, []string{"a", "b"})
	assert.Error(t, err, "mismatched column and name counts")

	_, err = NewDataset([][]Dtype{{1, 2}, {3}}, []string{"a", "b"})
	assert.Error(t, err, "ragged columns")

	_, err = NewDataset(nil, nil)
	assert.Error(t, err, "empty dataset")
}
