package light

import (
	"github.com/flashlight-go/flashlight/dataset"
)

// byColumns accumulates grouping-key values row by row, preserving the kind
// of each grouping column so that result tables keep numeric keys numeric.
type byColumns struct {
	names  []string
	kinds  []dataset.Kind
	floats [][]float64
	strs   [][]string
}

func newByColumns(d *dataset.Dataset, by []string) (*byColumns, error) {
	b := &byColumns{
		names:  by,
		kinds:  make([]dataset.Kind, len(by)),
		floats: make([][]float64, len(by)),
		strs:   make([][]string, len(by)),
	}
	for i, name := range by {
		col, err := d.Column(name)
		if err != nil {
			return nil, err
		}
		b.kinds[i] = col.Kind()
	}
	return b, nil
}

// add appends one result row's grouping-key values.
func (b *byColumns) add(keys []dataset.Value) {
	for i, v := range keys {
		if b.kinds[i] == dataset.KindFloat {
			b.floats[i] = append(b.floats[i], v.Float())
		} else {
			b.strs[i] = append(b.strs[i], v.Str())
		}
	}
}

// columns materializes the accumulated keys as dataset columns.
func (b *byColumns) columns() []dataset.Column {
	cols := make([]dataset.Column, len(b.names))
	for i, name := range b.names {
		if b.kinds[i] == dataset.KindFloat {
			cols[i] = dataset.Floats(name, b.floats[i])
		} else {
			cols[i] = dataset.Strings(name, b.strs[i])
		}
	}
	return cols
}

// valueColumn materializes grid-point values of a single kind as a column.
func valueColumn(name string, kind dataset.Kind, values []dataset.Value) dataset.Column {
	if kind == dataset.KindFloat {
		fs := make([]float64, len(values))
		for i, v := range values {
			fs[i] = v.Float()
		}
		return dataset.Floats(name, fs)
	}
	ss := make([]string, len(values))
	for i, v := range values {
		ss[i] = v.Str()
	}
	return dataset.Strings(name, ss)
}

// constStrings returns a column repeating s n times.
func constStrings(name, s string, n int) dataset.Column {
	vals := make([]string, n)
	for i := range vals {
		vals[i] = s
	}
	return dataset.Strings(name, vals)
}
