package light

import (
	"math"
	"time"

	"github.com/flashlight-go/flashlight/dataset"
	"github.com/flashlight-go/flashlight/pkg/errors"
	"github.com/flashlight-go/flashlight/pkg/log"
)

// Performance scores each member's metrics on its own data, stratified by
// the grouping columns. Result columns: by columns, metric, value, counts,
// label. Degenerate groups yield NaN values, not errors.
func Performance(l Light, opts ...OpOption) (*dataset.Dataset, error) {
	cfg := newOpConfig(opts)
	start := time.Now()
	out, err := forEach(l, cfg.update, func(f *Flashlight) (*dataset.Dataset, error) {
		return f.performance()
	})
	if err != nil {
		return nil, err
	}
	log.GetLoggerWithName("light").Debug("performance computed",
		log.OperationKey, log.OperationPerformance,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (f *Flashlight) performance() (*dataset.Dataset, error) {
	if f.data == nil {
		return nil, errors.ErrNoData
	}
	if f.response == "" {
		return nil, errors.ErrNoResponse
	}
	actual, err := f.data.Floats(f.response)
	if err != nil {
		return nil, err
	}
	preds, err := f.Predictions(nil)
	if err != nil {
		return nil, err
	}
	weights, err := f.caseWeights(f.data)
	if err != nil {
		return nil, err
	}
	groups, err := f.data.GroupBy(f.by...)
	if err != nil {
		return nil, err
	}
	byc, err := newByColumns(f.data, f.by)
	if err != nil {
		return nil, err
	}

	var (
		names  []string
		values []float64
		counts []float64
	)
	for _, g := range groups {
		ga, gw := gather(actual, weights, g.Indices)
		gp, _ := gather(preds, nil, g.Indices)
		for _, m := range f.Metrics() {
			v, err := m.Score(ga, gp, gw)
			if err != nil {
				return nil, err
			}
			if math.IsNaN(v) {
				errors.Warn(errors.NewUndefinedMetricWarning(m.Name, "degenerate group", v))
			}
			byc.add(g.Keys)
			names = append(names, m.Name)
			values = append(values, v)
			counts = append(counts, float64(len(g.Indices)))
		}
	}

	cols := append(byc.columns(),
		dataset.Strings(MetricColumn, names),
		dataset.Floats(ValueColumn, values),
		dataset.Floats(CountsColumn, counts),
		constStrings(LabelColumn, f.label, len(values)),
	)
	return dataset.New(cols...)
}
