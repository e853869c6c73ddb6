package light

import (
	crand "math/rand/v2"
	"sort"
	"time"

	"github.com/flashlight-go/flashlight/dataset"
	"github.com/flashlight-go/flashlight/pkg/errors"
	"github.com/flashlight-go/flashlight/pkg/log"
)

// ICE computes individual conditional expectation profiles: per sampled
// observation, the model prediction as the variable sweeps across the grid
// with all other columns held fixed. Result columns: by columns, id,
// variable, grid_value, prediction, label. The id column holds the original
// row index of the observation.
//
// WithCenter subtracts, from each observation's trace, its own prediction at
// the first grid point, turning absolute traces into relative-change traces.
func ICE(l Light, variable string, opts ...OpOption) (*dataset.Dataset, error) {
	cfg := newOpConfig(opts)
	start := time.Now()
	out, err := forEach(l, cfg.update, func(f *Flashlight) (*dataset.Dataset, error) {
		return f.ice(variable, cfg)
	})
	if err != nil {
		return nil, err
	}
	log.GetLoggerWithName("light").Debug("ice computed",
		log.OperationKey, log.OperationICE,
		log.VariableKey, variable,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (f *Flashlight) ice(variable string, cfg opConfig) (*dataset.Dataset, error) {
	res, err := f.iceCompute(variable, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.center {
		if len(res.grid) == 0 {
			return nil, errors.NewValidationError("center", "centering requires a non-empty grid", variable)
		}
		for oi := range res.rows {
			ref := res.preds[0][oi]
			for gi := range res.grid {
				res.preds[gi][oi] -= ref
			}
		}
	}

	byc, err := newByColumns(f.data, f.by)
	if err != nil {
		return nil, err
	}
	n := len(res.rows) * len(res.grid)
	ids := make([]float64, 0, n)
	gridVals := make([]dataset.Value, 0, n)
	preds := make([]float64, 0, n)
	for oi, row := range res.rows {
		for gi, g := range res.grid {
			byc.add(res.keys[oi])
			ids = append(ids, float64(row))
			gridVals = append(gridVals, g)
			preds = append(preds, res.preds[gi][oi])
		}
	}

	cols := append(byc.columns(),
		dataset.Floats(IDColumn, ids),
		constStrings(VariableColumn, variable, n),
		valueColumn(GridValueColumn, res.kind, gridVals),
		dataset.Floats(PredictionColumn, preds),
		constStrings(LabelColumn, f.label, n),
	)
	return dataset.New(cols...)
}

// iceResult is the shared intermediate of ICE and partial dependence:
// predictions per grid point per sampled observation.
type iceResult struct {
	grid    []dataset.Value
	kind    dataset.Kind
	rows    []int             // original row indices of the sample
	keys    [][]dataset.Value // grouping-key values per sampled row
	preds   [][]float64       // indexed [grid point][observation]
	weights []float64         // case weights per sampled row, nil if uniform
}

func (f *Flashlight) iceCompute(variable string, cfg opConfig) (*iceResult, error) {
	if f.data == nil {
		return nil, errors.ErrNoData
	}
	col, err := f.data.Column(variable)
	if err != nil {
		return nil, errors.NewUnknownVariableError("ice", variable)
	}
	grid, err := newGrid(f.data, variable, cfg)
	if err != nil {
		return nil, err
	}
	kind := col.Kind()
	if len(grid) > 0 {
		kind = grid[0].Kind()
	}

	rows := sampleRows(f.data.NumRows(), cfg.maxRows, cfg.rng)
	sub := f.data.Take(rows)
	weights, err := f.caseWeights(sub)
	if err != nil {
		return nil, err
	}
	keys, err := groupKeys(sub, f.by)
	if err != nil {
		return nil, err
	}

	preds := make([][]float64, len(grid))
	for gi, g := range grid {
		block, err := sub.WithColumn(constantColumn(variable, g, sub.NumRows()))
		if err != nil {
			return nil, err
		}
		p, err := f.Predictions(block)
		if err != nil {
			return nil, err
		}
		preds[gi] = p
	}
	return &iceResult{
		grid:    grid,
		kind:    kind,
		rows:    rows,
		keys:    keys,
		preds:   preds,
		weights: weights,
	}, nil
}

// sampleRows picks up to maxRows row indices uniformly at random, keeping
// original order. Without a cap every row is used. The source is built
// lazily so an uncapped call draws no randomness.
func sampleRows(n, maxRows int, src func() *crand.Rand) []int {
	if maxRows <= 0 || n <= maxRows {
		rows := make([]int, n)
		for i := range rows {
			rows[i] = i
		}
		return rows
	}
	perm := src().Perm(n)
	rows := append([]int(nil), perm[:maxRows]...)
	sort.Ints(rows)
	return rows
}

// groupKeys extracts the grouping-key values of every row of d.
func groupKeys(d *dataset.Dataset, by []string) ([][]dataset.Value, error) {
	cols := make([]dataset.Column, len(by))
	for i, name := range by {
		c, err := d.Column(name)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	keys := make([][]dataset.Value, d.NumRows())
	for r := range keys {
		row := make([]dataset.Value, len(by))
		for i, c := range cols {
			row[i] = c.Value(r)
		}
		keys[r] = row
	}
	return keys, nil
}

// constantColumn builds a column repeating v n times.
func constantColumn(name string, v dataset.Value, n int) dataset.Column {
	if v.Kind() == dataset.KindFloat {
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = v.Float()
		}
		return dataset.Floats(name, vals)
	}
	vals := make([]string, n)
	for i := range vals {
		vals[i] = v.Str()
	}
	return dataset.Strings(name, vals)
}
