package dataset

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/flashlight-go/flashlight/pkg/errors"
)

// 統計名の定数。GroupedMean / GroupedQuartiles の結果テーブルで使う。
const (
	// StatisticColumn は統計名の列名
	StatisticColumn = "statistic"
	// ValueColumn は統計値の列名
	ValueColumn = "value"
	// CountsColumn はグループの（重みなし）行数の列名
	CountsColumn = "counts"
)

// WeightedMean は加重算術平均 Σxw/Σw を計算する。
// wがnilの場合は一様重み1として扱う。重みの合計が0のグループでは
// 例外ではなくNaNを返す（計算不能の表現）。
func WeightedMean(x, w []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	if w == nil {
		return stat.Mean(x, nil)
	}
	var sumW float64
	for _, wi := range w {
		sumW += wi
	}
	if sumW == 0 {
		return math.NaN()
	}
	return stat.Mean(x, w)
}

// WeightedQuantile は確率pにおける加重分位点を計算する。
// 値の昇順に安定ソートし、累積重みの位置を一様重みのときに
// 古典的なtype=7分位点と一致するよう正規化したうえで、
// 隣接する順序統計量の間を線形補間する。
// 空の入力、または重みの合計が0の場合はNaNを返す。
func WeightedQuantile(x, w []float64, p float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}

	// 値で安定ソート（同値は元の相対順序を保持）
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return x[order[a]] < x[order[b]]
	})

	weightAt := func(i int) float64 {
		if w == nil {
			return 1
		}
		return w[i]
	}

	var sumW float64
	for i := 0; i < n; i++ {
		sumW += weightAt(i)
	}
	if sumW == 0 {
		return math.NaN()
	}

	// 各順序統計量の位置 s_i = (先行する累積重み) を
	// s_n = Σw - w_last で正規化する。一様重み1なら
	// s_i/s_n = i/(n-1) となり type=7 と一致する。
	last := order[n-1]
	denom := sumW - weightAt(last)
	if denom == 0 {
		// 実効的に1点のみ
		return x[last]
	}

	target := p * denom
	var cum float64
	for k := 0; k < n; k++ {
		i := order[k]
		next := cum // この点の位置（先行累積重み）
		if next >= target || k == n-1 {
			return x[i]
		}
		// 次の点の位置
		j := order[k+1]
		nextPos := cum + weightAt(i)
		if nextPos >= target {
			// x[i] と x[j] の間を線形補間
			frac := (target - next) / (nextPos - next)
			return x[i] + frac*(x[j]-x[i])
		}
		cum = nextPos
	}
	return x[last]
}

// aggregated は1グループ1統計の結果行を組み立てる中間表現
type aggregated struct {
	keys      []Value
	statistic string
	value     float64
	count     int
}

// buildAggTable はby列＋statistic＋value＋countsの整然テーブルを組み立てる
func buildAggTable(by []string, byKinds []Kind, rows []aggregated) (*Dataset, error) {
	cols := make([]Column, 0, len(by)+3)
	for i, name := range by {
		if byKinds[i] == KindFloat {
			vals := make([]float64, len(rows))
			for r, row := range rows {
				vals[r] = row.keys[i].Float()
			}
			cols = append(cols, Floats(name, vals))
		} else {
			vals := make([]string, len(rows))
			for r, row := range rows {
				vals[r] = row.keys[i].Str()
			}
			cols = append(cols, Strings(name, vals))
		}
	}

	stats := make([]string, len(rows))
	values := make([]float64, len(rows))
	counts := make([]float64, len(rows))
	for r, row := range rows {
		stats[r] = row.statistic
		values[r] = row.value
		counts[r] = float64(row.count)
	}
	cols = append(cols,
		Strings(StatisticColumn, stats),
		Floats(ValueColumn, values),
		Floats(CountsColumn, counts),
	)
	return New(cols...)
}

// byKinds はby列の型を調べる
func (d *Dataset) byKinds(by []string) ([]Kind, error) {
	kinds := make([]Kind, len(by))
	for i, name := range by {
		c, err := d.Column(name)
		if err != nil {
			return nil, errors.NewUnknownColumnError("byKinds", name, "by")
		}
		kinds[i] = c.Kind()
	}
	return kinds, nil
}

// groupedWeights は重み列を解決する。weightColが空ならnil（一様重み）を返す。
func (d *Dataset) groupedWeights(op, weightCol string) ([]float64, error) {
	if weightCol == "" {
		return nil, nil
	}
	w, err := d.Floats(weightCol)
	if err != nil {
		return nil, errors.NewUnknownColumnError(op, weightCol, "weight")
	}
	return w, nil
}

// GroupedMean はvalueColの加重平均をbyの組み合わせごとに計算し、
// by列＋statistic＋value＋countsの整然テーブルを返す。
// 重みの合計が0のグループはNaNになり、UndefinedMetricWarningを発する。
func GroupedMean(d *Dataset, valueCol, weightCol string, by ...string) (*Dataset, error) {
	x, err := d.Floats(valueCol)
	if err != nil {
		return nil, errors.NewUnknownColumnError("GroupedMean", valueCol, "value")
	}
	w, err := d.groupedWeights("GroupedMean", weightCol)
	if err != nil {
		return nil, err
	}
	kinds, err := d.byKinds(by)
	if err != nil {
		return nil, err
	}
	groups, err := d.GroupBy(by...)
	if err != nil {
		return nil, err
	}

	rows := make([]aggregated, 0, len(groups))
	for _, g := range groups {
		gx, gw := gatherFloats(x, w, g.Indices)
		m := WeightedMean(gx, gw)
		if math.IsNaN(m) {
			errors.Warn(errors.NewUndefinedMetricWarning("weighted mean", "all case weights being zero in a group", m))
		}
		rows = append(rows, aggregated{keys: g.Keys, statistic: "mean", value: m, count: len(g.Indices)})
	}
	return buildAggTable(by, kinds, rows)
}

// GroupedQuartiles はvalueColの加重四分位点（q1, median, q3）を
// byの組み合わせごとに計算し、1グループ3行の整然テーブルを返す。
func GroupedQuartiles(d *Dataset, valueCol, weightCol string, by ...string) (*Dataset, error) {
	x, err := d.Floats(valueCol)
	if err != nil {
		return nil, errors.NewUnknownColumnError("GroupedQuartiles", valueCol, "value")
	}
	w, err := d.groupedWeights("GroupedQuartiles", weightCol)
	if err != nil {
		return nil, err
	}
	kinds, err := d.byKinds(by)
	if err != nil {
		return nil, err
	}
	groups, err := d.GroupBy(by...)
	if err != nil {
		return nil, err
	}

	quartiles := []struct {
		name string
		p    float64
	}{
		{"q1", 0.25},
		{"median", 0.5},
		{"q3", 0.75},
	}

	rows := make([]aggregated, 0, len(groups)*len(quartiles))
	for _, g := range groups {
		gx, gw := gatherFloats(x, w, g.Indices)
		for _, q := range quartiles {
			v := WeightedQuantile(gx, gw, q.p)
			if math.IsNaN(v) {
				errors.Warn(errors.NewUndefinedMetricWarning("weighted "+q.name, "all case weights being zero in a group", v))
			}
			rows = append(rows, aggregated{keys: g.Keys, statistic: q.name, value: v, count: len(g.Indices)})
		}
	}
	return buildAggTable(by, kinds, rows)
}

// gatherFloats は行インデックスで値と重みを抜き出す
func gatherFloats(x, w []float64, indices []int) ([]float64, []float64) {
	gx := make([]float64, len(indices))
	for i, idx := range indices {
		gx[i] = x[idx]
	}
	if w == nil {
		return gx, nil
	}
	gw := make([]float64, len(indices))
	for i, idx := range indices {
		gw[i] = w[idx]
	}
	return gx, gw
}
