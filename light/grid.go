package light

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/flashlight-go/flashlight/dataset"
	"github.com/flashlight-go/flashlight/pkg/errors"
)

// newGrid resolves the evaluation grid for a variable. Explicit grid points
// win; otherwise a categorical variable yields its sorted distinct values
// (capped at cfg.maxLevels) and a continuous variable yields cfg.nBins
// equal steps between the observed minimum and maximum.
func newGrid(d *dataset.Dataset, variable string, cfg opConfig) ([]dataset.Value, error) {
	col, err := d.Column(variable)
	if err != nil {
		return nil, errors.NewUnknownVariableError("grid", variable)
	}
	if len(cfg.gridPoints) > 0 {
		var numeric []float64
		for _, v := range cfg.gridPoints {
			if v.Kind() == dataset.KindFloat {
				numeric = append(numeric, v.Float())
			}
		}
		if err := errors.CheckFinite("grid", numeric); err != nil {
			return nil, err
		}
		return append([]dataset.Value(nil), cfg.gridPoints...), nil
	}

	if col.Kind() == dataset.KindString {
		seen := make(map[string]struct{})
		var levels []string
		for _, s := range col.Strings() {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			levels = append(levels, s)
		}
		if len(levels) > cfg.maxLevels {
			return nil, errors.NewGridTooLargeError(variable, len(levels), cfg.maxLevels)
		}
		sort.Strings(levels)
		grid := make([]dataset.Value, len(levels))
		for i, s := range levels {
			grid[i] = dataset.StringValue(s)
		}
		return grid, nil
	}

	vals := col.Floats()
	if len(vals) == 0 {
		return nil, errors.ErrEmptyData
	}
	lo, hi := floats.Min(vals), floats.Max(vals)
	if lo == hi {
		return []dataset.Value{dataset.FloatValue(lo)}, nil
	}
	span := floats.Span(make([]float64, cfg.nBins+1), lo, hi)
	grid := make([]dataset.Value, len(span))
	for i, v := range span {
		grid[i] = dataset.FloatValue(v)
	}
	return grid, nil
}

// assignBins maps each row of col to a grid index: the nearest grid point
// for continuous columns, the exact level for categorical ones. Rows with
// no matching level get -1 and are dropped from binned profiles.
func assignBins(col dataset.Column, grid []dataset.Value) []int {
	bins := make([]int, col.Len())
	if col.Kind() == dataset.KindString {
		index := make(map[string]int, len(grid))
		for i, g := range grid {
			index[g.Str()] = i
		}
		for i, s := range col.Strings() {
			if j, ok := index[s]; ok {
				bins[i] = j
			} else {
				bins[i] = -1
			}
		}
		return bins
	}
	for i, v := range col.Floats() {
		best, bestDist := -1, math.Inf(1)
		for j, g := range grid {
			if dist := math.Abs(v - g.Float()); dist < bestDist {
				best, bestDist = j, dist
			}
		}
		bins[i] = best
	}
	return bins
}
