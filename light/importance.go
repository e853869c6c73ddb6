package light

import (
	crand "math/rand/v2"
	"sort"
	"time"

	"github.com/flashlight-go/flashlight/dataset"
	"github.com/flashlight-go/flashlight/metrics"
	"github.com/flashlight-go/flashlight/pkg/errors"
	"github.com/flashlight-go/flashlight/pkg/log"
)

// Importance computes permutation importance: the metric degradation caused
// by shuffling one variable's values within each group, relative to the
// unpermuted baseline. Larger values mean more important regardless of the
// metric's improvement direction. Result columns: by columns, variable,
// metric, value, label.
//
// Candidate variables default to every column except response, weight and
// grouping columns. Every metric needs a known improvement direction;
// metrics carrying DirectionUnknown fail unless WithLowerIsBetter is given.
func Importance(l Light, opts ...OpOption) (*dataset.Dataset, error) {
	cfg := newOpConfig(opts)
	start := time.Now()
	out, err := forEach(l, cfg.update, func(f *Flashlight) (*dataset.Dataset, error) {
		return f.importance(cfg)
	})
	if err != nil {
		return nil, err
	}
	log.GetLoggerWithName("light").Debug("importance computed",
		log.OperationKey, log.OperationImportance,
		log.RepetitionsKey, cfg.repetitions,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (f *Flashlight) importance(cfg opConfig) (*dataset.Dataset, error) {
	if f.data == nil {
		return nil, errors.ErrNoData
	}
	if f.response == "" {
		return nil, errors.ErrNoResponse
	}

	candidates, err := f.candidateVariables(cfg)
	if err != nil {
		return nil, err
	}
	ms := f.Metrics()
	lower := make([]bool, len(ms))
	for i, m := range ms {
		l, err := lowerIsBetter(m, cfg)
		if err != nil {
			return nil, err
		}
		lower[i] = l
	}

	byc, err := newByColumns(f.data, f.by)
	if err != nil {
		return nil, err
	}
	var (
		varNames    []string
		metricNames []string
		values      []float64
	)

	// An empty candidate list is a no-op and keeps the result schema.
	if len(candidates) > 0 {
		rng := cfg.rng()
		rows := sampleRows(f.data.NumRows(), cfg.maxRows, func() *crand.Rand { return rng })
		sub := f.data.Take(rows)

		actual, err := sub.Floats(f.response)
		if err != nil {
			return nil, err
		}
		weights, err := f.caseWeights(sub)
		if err != nil {
			return nil, err
		}
		groups, err := sub.GroupBy(f.by...)
		if err != nil {
			return nil, err
		}

		baseline, err := f.scorePerGroup(sub, groups, actual, weights, ms)
		if err != nil {
			return nil, err
		}

		reps := cfg.repetitions
		if reps < 1 {
			reps = 1
		}
		for _, variable := range candidates {
			sums := make([][]float64, len(groups))
			for gi := range sums {
				sums[gi] = make([]float64, len(ms))
			}
			for r := 0; r < reps; r++ {
				permuted, err := shuffleWithinGroups(sub, variable, groups, rng)
				if err != nil {
					return nil, err
				}
				scores, err := f.scorePerGroup(permuted, groups, actual, weights, ms)
				if err != nil {
					return nil, err
				}
				for gi := range groups {
					for mi := range ms {
						sums[gi][mi] += scores[gi][mi]
					}
				}
			}
			for gi, g := range groups {
				for mi, m := range ms {
					avg := sums[gi][mi] / float64(reps)
					imp := avg - baseline[gi][mi]
					if !lower[mi] {
						imp = -imp
					}
					byc.add(g.Keys)
					varNames = append(varNames, variable)
					metricNames = append(metricNames, m.Name)
					values = append(values, imp)
				}
			}
		}
	}

	cols := append(byc.columns(),
		dataset.Strings(VariableColumn, varNames),
		dataset.Strings(MetricColumn, metricNames),
		dataset.Floats(ValueColumn, values),
		constStrings(LabelColumn, f.label, len(values)),
	)
	return dataset.New(cols...)
}

// candidateVariables resolves the variables to permute: an explicit list is
// validated against the data, otherwise every column except the response,
// weight and grouping columns is used.
func (f *Flashlight) candidateVariables(cfg opConfig) ([]string, error) {
	if cfg.varsSet {
		for _, v := range cfg.variables {
			if !f.data.Has(v) {
				return nil, errors.NewUnknownVariableError("importance", v)
			}
		}
		return cfg.variables, nil
	}
	excluded := map[string]struct{}{
		f.response: {},
	}
	if f.weight != "" {
		excluded[f.weight] = struct{}{}
	}
	for _, b := range f.by {
		excluded[b] = struct{}{}
	}
	var out []string
	for _, name := range f.data.Names() {
		if _, skip := excluded[name]; !skip {
			out = append(out, name)
		}
	}
	return out, nil
}

// lowerIsBetter resolves a metric's improvement direction. A call-level
// override wins; otherwise the metric's own direction is used, and an
// unknown direction is an error rather than a guess.
func lowerIsBetter(m metrics.Metric, cfg opConfig) (bool, error) {
	if cfg.lower != nil {
		return *cfg.lower, nil
	}
	switch m.Direction {
	case metrics.LowerIsBetter:
		return true, nil
	case metrics.HigherIsBetter:
		return false, nil
	default:
		return false, errors.NewMetricDirectionError(m.Name)
	}
}

// scorePerGroup predicts on d and scores every metric per group.
func (f *Flashlight) scorePerGroup(d *dataset.Dataset, groups []dataset.Group, actual, weights []float64, ms []metrics.Metric) ([][]float64, error) {
	preds, err := f.Predictions(d)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(groups))
	for gi, g := range groups {
		ga, gw := gather(actual, weights, g.Indices)
		gp, _ := gather(preds, nil, g.Indices)
		out[gi] = make([]float64, len(ms))
		for mi, m := range ms {
			v, err := m.Score(ga, gp, gw)
			if err != nil {
				return nil, err
			}
			out[gi][mi] = v
		}
	}
	return out, nil
}

// shuffleWithinGroups permutes one column's values within each group,
// holding all other columns fixed.
func shuffleWithinGroups(d *dataset.Dataset, variable string, groups []dataset.Group, rng *crand.Rand) (*dataset.Dataset, error) {
	col, err := d.Column(variable)
	if err != nil {
		return nil, err
	}
	if col.Kind() == dataset.KindFloat {
		vals := append([]float64(nil), col.Floats()...)
		for _, g := range groups {
			idx := g.Indices
			rng.Shuffle(len(idx), func(i, j int) {
				vals[idx[i]], vals[idx[j]] = vals[idx[j]], vals[idx[i]]
			})
		}
		return d.WithColumn(dataset.Floats(variable, vals))
	}
	vals := append([]string(nil), col.Strings()...)
	for _, g := range groups {
		idx := g.Indices
		rng.Shuffle(len(idx), func(i, j int) {
			vals[idx[i]], vals[idx[j]] = vals[idx[j]], vals[idx[i]]
		})
	}
	return d.WithColumn(dataset.Strings(variable, vals))
}

// MostImportant returns, per group of an Importance result, up to m
// variable names ranked by importance of the result's first metric,
// descending. A group is one combination of the result's key columns, that
// is everything except variable, metric and value, so grouping keys and the
// label both stratify the ranking. Ties keep the original variable order.
// The returned table holds the key columns plus variable, with each group's
// rows in rank order.
func MostImportant(result *dataset.Dataset, m int) (*dataset.Dataset, error) {
	vars, err := result.Strings(VariableColumn)
	if err != nil {
		return nil, err
	}
	mets, err := result.Strings(MetricColumn)
	if err != nil {
		return nil, err
	}
	vals, err := result.Floats(ValueColumn)
	if err != nil {
		return nil, err
	}

	var keyCols []string
	for _, name := range result.Names() {
		switch name {
		case VariableColumn, MetricColumn, ValueColumn:
		default:
			keyCols = append(keyCols, name)
		}
	}
	byc, err := newByColumns(result, keyCols)
	if err != nil {
		return nil, err
	}

	var topVars []string
	if len(vars) > 0 {
		first := mets[0]
		groups, err := result.GroupBy(keyCols...)
		if err != nil {
			return nil, err
		}
		for _, g := range groups {
			sums := make(map[string]float64)
			var order []string
			for _, i := range g.Indices {
				if mets[i] != first {
					continue
				}
				if _, seen := sums[vars[i]]; !seen {
					order = append(order, vars[i])
				}
				sums[vars[i]] += vals[i]
			}
			sort.SliceStable(order, func(a, b int) bool {
				return sums[order[a]] > sums[order[b]]
			})
			top := m
			if top > len(order) {
				top = len(order)
			}
			for _, v := range order[:top] {
				byc.add(g.Keys)
				topVars = append(topVars, v)
			}
		}
	}

	cols := append(byc.columns(), dataset.Strings(VariableColumn, topVars))
	return dataset.New(cols...)
}
