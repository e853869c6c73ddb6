package light

import (
	"strings"
	"time"

	"github.com/flashlight-go/flashlight/dataset"
	"github.com/flashlight-go/flashlight/pkg/errors"
	"github.com/flashlight-go/flashlight/pkg/log"
)

// ProfileType selects what Profile aggregates per grid point.
type ProfileType int

const (
	// PartialDependence averages counterfactual predictions across the
	// (sampled) observations at each grid point.
	PartialDependence ProfileType = iota
	// Predicted averages observed predictions per bin.
	Predicted
	// Response averages the response per bin.
	Response
	// Residual averages response minus prediction per bin.
	Residual
)

func (t ProfileType) String() string {
	switch t {
	case PartialDependence:
		return "partial dependence"
	case Predicted:
		return "predicted"
	case Response:
		return "response"
	case Residual:
		return "residual"
	default:
		return "unknown"
	}
}

// Profile computes an aggregated profile of a variable: the weighted mean of
// a per-row quantity per grid point per group. The quantity is chosen by
// WithProfileType; the default is partial dependence. Result columns: by
// columns, variable, grid_value, type, prediction, counts, label.
func Profile(l Light, variable string, opts ...OpOption) (*dataset.Dataset, error) {
	cfg := newOpConfig(opts)
	start := time.Now()
	out, err := forEach(l, cfg.update, func(f *Flashlight) (*dataset.Dataset, error) {
		return f.profile(variable, cfg)
	})
	if err != nil {
		return nil, err
	}
	log.GetLoggerWithName("light").Debug("profile computed",
		log.OperationKey, log.OperationProfile,
		log.VariableKey, variable,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return out, nil
}

// Effects unions the response, predicted and partial dependence profiles of
// a variable into one table, distinguished by the type column.
func Effects(l Light, variable string, opts ...OpOption) (*dataset.Dataset, error) {
	cfg := newOpConfig(opts)
	start := time.Now()
	out, err := forEach(l, cfg.update, func(f *Flashlight) (*dataset.Dataset, error) {
		var parts *dataset.Dataset
		for _, t := range []ProfileType{Response, Predicted, PartialDependence} {
			c := cfg
			c.profileType = t
			part, err := f.profile(variable, c)
			if err != nil {
				return nil, err
			}
			if parts == nil {
				parts = part
				continue
			}
			combined, err := parts.Append(part)
			if err != nil {
				return nil, err
			}
			parts = combined
		}
		return parts, nil
	})
	if err != nil {
		return nil, err
	}
	log.GetLoggerWithName("light").Debug("effects computed",
		log.OperationKey, log.OperationEffects,
		log.VariableKey, variable,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return out, nil
}

// profileRow is one aggregated cell of a profile result.
type profileRow struct {
	keys       []dataset.Value
	gridValue  dataset.Value
	prediction float64
	count      int
}

func (f *Flashlight) profile(variable string, cfg opConfig) (*dataset.Dataset, error) {
	var (
		rows []profileRow
		kind dataset.Kind
		err  error
	)
	if cfg.profileType == PartialDependence {
		rows, kind, err = f.partialDependence(variable, cfg)
	} else {
		rows, kind, err = f.binnedProfile(variable, cfg)
	}
	if err != nil {
		return nil, err
	}

	byc, err := newByColumns(f.data, f.by)
	if err != nil {
		return nil, err
	}
	n := len(rows)
	gridVals := make([]dataset.Value, 0, n)
	preds := make([]float64, 0, n)
	counts := make([]float64, 0, n)
	for _, r := range rows {
		byc.add(r.keys)
		gridVals = append(gridVals, r.gridValue)
		preds = append(preds, r.prediction)
		counts = append(counts, float64(r.count))
	}

	cols := append(byc.columns(),
		constStrings(VariableColumn, variable, n),
		valueColumn(GridValueColumn, kind, gridVals),
		constStrings(TypeColumn, cfg.profileType.String(), n),
		dataset.Floats(PredictionColumn, preds),
		dataset.Floats(CountsColumn, counts),
		constStrings(LabelColumn, f.label, n),
	)
	return dataset.New(cols...)
}

// partialDependence averages the ICE predictions per grid point per group.
func (f *Flashlight) partialDependence(variable string, cfg opConfig) ([]profileRow, dataset.Kind, error) {
	res, err := f.iceCompute(variable, cfg)
	if err != nil {
		return nil, 0, err
	}
	var rows []profileRow
	for _, g := range groupByKeys(res.keys) {
		for gi, gv := range res.grid {
			p, w := gather(res.preds[gi], res.weights, g.indices)
			rows = append(rows, profileRow{
				keys:       g.keys,
				gridValue:  gv,
				prediction: dataset.WeightedMean(p, w),
				count:      len(g.indices),
			})
		}
	}
	return rows, res.kind, nil
}

// binnedProfile averages an observed per-row quantity per bin per group,
// without grid expansion.
func (f *Flashlight) binnedProfile(variable string, cfg opConfig) ([]profileRow, dataset.Kind, error) {
	if f.data == nil {
		return nil, 0, errors.ErrNoData
	}
	col, err := f.data.Column(variable)
	if err != nil {
		return nil, 0, errors.NewUnknownVariableError("profile", variable)
	}
	grid, err := newGrid(f.data, variable, cfg)
	if err != nil {
		return nil, 0, err
	}
	kind := col.Kind()
	if len(grid) > 0 {
		kind = grid[0].Kind()
	}

	var quantity []float64
	switch cfg.profileType {
	case Predicted:
		quantity, err = f.Predictions(nil)
	case Response:
		if f.response == "" {
			return nil, 0, errors.ErrNoResponse
		}
		quantity, err = f.data.Floats(f.response)
	case Residual:
		quantity, err = f.Residuals(nil)
	default:
		return nil, 0, errors.NewValidationError("profileType", "unsupported profile type", cfg.profileType)
	}
	if err != nil {
		return nil, 0, err
	}

	weights, err := f.caseWeights(f.data)
	if err != nil {
		return nil, 0, err
	}
	bins := assignBins(col, grid)
	groups, err := f.data.GroupBy(f.by...)
	if err != nil {
		return nil, 0, err
	}

	var rows []profileRow
	for _, g := range groups {
		for bi, gv := range grid {
			var idx []int
			for _, i := range g.Indices {
				if bins[i] == bi {
					idx = append(idx, i)
				}
			}
			if len(idx) == 0 {
				continue
			}
			q, w := gather(quantity, weights, idx)
			rows = append(rows, profileRow{
				keys:       g.Keys,
				gridValue:  gv,
				prediction: dataset.WeightedMean(q, w),
				count:      len(idx),
			})
		}
	}
	return rows, kind, nil
}

// keyGroup indexes the observations sharing one grouping-key combination.
type keyGroup struct {
	keys    []dataset.Value
	indices []int
}

// groupByKeys partitions row keys in first-appearance order.
func groupByKeys(keys [][]dataset.Value) []keyGroup {
	var groups []keyGroup
	index := make(map[string]int)
	var sb strings.Builder
	for i, row := range keys {
		sb.Reset()
		for _, v := range row {
			sb.WriteString(v.String())
			sb.WriteByte(0x1f)
		}
		k := sb.String()
		gi, ok := index[k]
		if !ok {
			gi = len(groups)
			index[k] = gi
			groups = append(groups, keyGroup{keys: row})
		}
		groups[gi].indices = append(groups[gi].indices, i)
	}
	return groups
}
