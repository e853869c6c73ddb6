// Package metrics はモデル性能のスコアリング関数を提供します。
//
// すべての指標は (actual, predicted, weight) の三つ組からスカラーを計算します。
// weightがnilの場合は一様重み1として扱います。各Metricは改善方向
// （小さいほど良い／大きいほど良い）を持ち、置換重要度の符号決定に使われます。
// 呼び出し側が独自のスコア関数を渡す場合は方向を明示する必要があります。
package metrics

import (
	"math"

	"github.com/flashlight-go/flashlight/dataset"
	"github.com/flashlight-go/flashlight/pkg/errors"
)

// ScoreFunc は (actual, predicted, weight) からスカラーを計算するスコア関数。
// weightはnilの場合に一様重み1として扱う。
type ScoreFunc func(actual, predicted, weight []float64) (float64, error)

// Direction は指標の改善方向を表す
type Direction int

const (
	// DirectionUnknown は方向未指定。置換重要度では明示が要求される。
	DirectionUnknown Direction = iota
	// LowerIsBetter は損失系の指標（MSEなど）
	LowerIsBetter
	// HigherIsBetter はスコア系の指標（R²など）
	HigherIsBetter
)

// Metric は名前付きのスコア関数と改善方向の組
type Metric struct {
	Name      string
	Score     ScoreFunc
	Direction Direction
}

// checkLengths は actual / predicted / weight の長さを検証する
func checkLengths(op string, actual, predicted, weight []float64) error {
	if len(predicted) != len(actual) {
		return errors.NewDimensionError(op, len(actual), len(predicted), 0)
	}
	if weight != nil && len(weight) != len(actual) {
		return errors.NewDimensionError(op, len(actual), len(weight), 0)
	}
	return nil
}

// weightedMeanOf は f(a_i, p_i) の加重平均を計算する。
// 空入力や重みの合計0はNaN（計算不能）を返す。
func weightedMeanOf(actual, predicted, weight []float64, f func(a, p float64) float64) float64 {
	n := len(actual)
	if n == 0 {
		return math.NaN()
	}
	var sum, sumW float64
	for i := 0; i < n; i++ {
		w := 1.0
		if weight != nil {
			w = weight[i]
		}
		sum += w * f(actual[i], predicted[i])
		sumW += w
	}
	return errors.SafeDivide(sum, sumW)
}

// MSE は加重平均二乗誤差の指標を返す
func MSE() Metric {
	return Metric{
		Name:      "mse",
		Direction: LowerIsBetter,
		Score: func(actual, predicted, weight []float64) (float64, error) {
			if err := checkLengths("mse", actual, predicted, weight); err != nil {
				return 0, err
			}
			return weightedMeanOf(actual, predicted, weight, func(a, p float64) float64 {
				d := a - p
				return d * d
			}), nil
		},
	}
}

// RMSE は加重平方根平均二乗誤差の指標を返す
func RMSE() Metric {
	mse := MSE()
	return Metric{
		Name:      "rmse",
		Direction: LowerIsBetter,
		Score: func(actual, predicted, weight []float64) (float64, error) {
			v, err := mse.Score(actual, predicted, weight)
			if err != nil {
				return 0, err
			}
			return math.Sqrt(v), nil
		},
	}
}

// MAE は加重平均絶対誤差の指標を返す
func MAE() Metric {
	return Metric{
		Name:      "mae",
		Direction: LowerIsBetter,
		Score: func(actual, predicted, weight []float64) (float64, error) {
			if err := checkLengths("mae", actual, predicted, weight); err != nil {
				return 0, err
			}
			return weightedMeanOf(actual, predicted, weight, func(a, p float64) float64 {
				return math.Abs(a - p)
			}), nil
		},
	}
}

// MedianAbsoluteError は絶対誤差の加重中央値の指標を返す
func MedianAbsoluteError() Metric {
	return Metric{
		Name:      "medae",
		Direction: LowerIsBetter,
		Score: func(actual, predicted, weight []float64) (float64, error) {
			if err := checkLengths("medae", actual, predicted, weight); err != nil {
				return 0, err
			}
			absErr := make([]float64, len(actual))
			for i := range actual {
				absErr[i] = math.Abs(actual[i] - predicted[i])
			}
			return dataset.WeightedQuantile(absErr, weight, 0.5), nil
		},
	}
}

// R2 は加重決定係数（R²）の指標を返す。
// 応答に分散がない場合はNaNになる。
func R2() Metric {
	return Metric{
		Name:      "r2",
		Direction: HigherIsBetter,
		Score: func(actual, predicted, weight []float64) (float64, error) {
			if err := checkLengths("r2", actual, predicted, weight); err != nil {
				return 0, err
			}
			if len(actual) == 0 {
				return math.NaN(), nil
			}
			mean := dataset.WeightedMean(actual, weight)
			var rss, tss, w float64
			for i := range actual {
				w = 1.0
				if weight != nil {
					w = weight[i]
				}
				dr := actual[i] - predicted[i]
				dt := actual[i] - mean
				rss += w * dr * dr
				tss += w * dt * dt
			}
			if tss == 0 {
				return math.NaN(), nil
			}
			return 1 - rss/tss, nil
		},
	}
}

// Custom は呼び出し側提供のスコア関数から指標を作成する。
// 方向は推測せずDirectionUnknownのままにする。置換重要度で使うには
// Metric.Directionを設定するか、呼び出し時に方向を明示すること。
func Custom(name string, score ScoreFunc) Metric {
	return Metric{Name: name, Score: score, Direction: DirectionUnknown}
}

// Default は既定の指標集合（MSEのみ）を返す
func Default() []Metric {
	return []Metric{MSE()}
}
