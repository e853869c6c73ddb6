package light

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashlight-go/flashlight/dataset"
	"github.com/flashlight-go/flashlight/metrics"
)

func TestPerformance(t *testing.T) {
	t.Run("constant predictor MSE", func(t *testing.T) {
		f, err := New("const",
			WithData(testData()),
			WithResponse("y"),
			WithPredictFunc(constPredict(10)),
		)
		require.NoError(t, err)

		res, err := Performance(f)
		require.NoError(t, err)
		require.Equal(t, 1, res.NumRows())

		// mean((10-8)^2, 0, (10-12)^2, (10-14)^2) = (4+0+4+16)/4
		vals, err := res.Floats(ValueColumn)
		require.NoError(t, err)
		assert.InDelta(t, 6.0, vals[0], 1e-12)

		mets, err := res.Strings(MetricColumn)
		require.NoError(t, err)
		assert.Equal(t, "mse", mets[0])

		counts, err := res.Floats(CountsColumn)
		require.NoError(t, err)
		assert.Equal(t, 4.0, counts[0])

		labels, err := res.Strings(LabelColumn)
		require.NoError(t, err)
		assert.Equal(t, "const", labels[0])
	})

	t.Run("grouped with uniform weights equals plain mean", func(t *testing.T) {
		f, err := New("const",
			WithData(testData()),
			WithResponse("y"),
			WithWeight("w"),
			WithBy("g"),
			WithPredictFunc(constPredict(10)),
			WithMetrics(metrics.MSE()),
		)
		require.NoError(t, err)

		res, err := Performance(f)
		require.NoError(t, err)
		require.Equal(t, 2, res.NumRows())

		groups, err := res.Strings("g")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, groups)

		vals, err := res.Floats(ValueColumn)
		require.NoError(t, err)
		// group a: ((10-8)^2 + (10-10)^2) / 2 = 2
		// group b: ((10-12)^2 + (10-14)^2) / 2 = 10
		assert.InDelta(t, 2.0, vals[0], 1e-12)
		assert.InDelta(t, 10.0, vals[1], 1e-12)

		counts, err := res.Floats(CountsColumn)
		require.NoError(t, err)
		assert.Equal(t, []float64{2, 2}, counts)
	})

	t.Run("multiple metrics keep order", func(t *testing.T) {
		f, err := New("const",
			WithData(testData()),
			WithResponse("y"),
			WithPredictFunc(constPredict(10)),
			WithMetrics(metrics.MAE(), metrics.RMSE()),
		)
		require.NoError(t, err)

		res, err := Performance(f)
		require.NoError(t, err)
		mets, err := res.Strings(MetricColumn)
		require.NoError(t, err)
		assert.Equal(t, []string{"mae", "rmse"}, mets)
	})

	t.Run("zero weights yield NaN", func(t *testing.T) {
		d := dataset.MustNew(
			dataset.Floats("y", []float64{1, 2}),
			dataset.Floats("w", []float64{0, 0}),
		)
		f, err := New("lm",
			WithData(d),
			WithResponse("y"),
			WithWeight("w"),
			WithPredictFunc(constPredict(0)),
		)
		require.NoError(t, err)

		res, err := Performance(f)
		require.NoError(t, err)
		vals, err := res.Floats(ValueColumn)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(vals[0]))
	})

	t.Run("fan-out preserves insertion order", func(t *testing.T) {
		a, err := New("a", WithPredictFunc(constPredict(10)))
		require.NoError(t, err)
		b, err := New("b", WithPredictFunc(constPredict(11)))
		require.NoError(t, err)
		m, err := NewMulti([]*Flashlight{a, b}, WithData(testData()), WithResponse("y"))
		require.NoError(t, err)

		res, err := Performance(m)
		require.NoError(t, err)
		require.Equal(t, 2, res.NumRows())

		labels, err := res.Strings(LabelColumn)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, labels)
	})

	t.Run("call-time update overrides the bundle", func(t *testing.T) {
		f, err := New("const",
			WithData(testData()),
			WithResponse("y"),
			WithPredictFunc(constPredict(10)),
		)
		require.NoError(t, err)

		res, err := Performance(f, WithUpdate(WithMetrics(metrics.MAE())))
		require.NoError(t, err)
		mets, err := res.Strings(MetricColumn)
		require.NoError(t, err)
		assert.Equal(t, []string{"mae"}, mets)
	})

	t.Run("missing response fails", func(t *testing.T) {
		f, err := New("const", WithData(testData()), WithPredictFunc(constPredict(10)))
		require.NoError(t, err)
		_, err = Performance(f)
		assert.Error(t, err)
	})
}
