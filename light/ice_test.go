package light

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashlight-go/flashlight/dataset"
	"github.com/flashlight-go/flashlight/pkg/errors"
)

func TestICE(t *testing.T) {
	t.Run("sweeps the grid per observation", func(t *testing.T) {
		f, err := New("lm",
			WithData(testData()),
			WithPredictFunc(colPredict("x")),
		)
		require.NoError(t, err)

		res, err := ICE(f, "x")
		require.NoError(t, err)
		// 4 observations times 20 grid points.
		require.Equal(t, 80, res.NumRows())

		// The model returns x itself, so every prediction equals the grid value.
		gridVals, err := res.Floats(GridValueColumn)
		require.NoError(t, err)
		preds, err := res.Floats(PredictionColumn)
		require.NoError(t, err)
		for i := range preds {
			assert.InDelta(t, gridVals[i], preds[i], 1e-12)
		}

		vars, err := res.Strings(VariableColumn)
		require.NoError(t, err)
		assert.Equal(t, "x", vars[0])
	})

	t.Run("ids are original row indices", func(t *testing.T) {
		f, err := New("lm",
			WithData(testData()),
			WithPredictFunc(constPredict(1)),
		)
		require.NoError(t, err)

		res, err := ICE(f, "x", WithGridPoints(dataset.FloatValue(0)))
		require.NoError(t, err)
		ids, err := res.Floats(IDColumn)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 1, 2, 3}, ids)
	})

	t.Run("centering zeroes the first grid point", func(t *testing.T) {
		f, err := New("lm",
			WithData(testData()),
			WithPredictFunc(scaledPredict("x", 2)),
		)
		require.NoError(t, err)

		res, err := ICE(f, "x", WithCenter(true))
		require.NoError(t, err)
		gridVals, err := res.Floats(GridValueColumn)
		require.NoError(t, err)
		preds, err := res.Floats(PredictionColumn)
		require.NoError(t, err)

		first := gridVals[0]
		for i := range preds {
			if gridVals[i] == first {
				assert.InDelta(t, 0.0, preds[i], 1e-12)
			}
		}
	})

	t.Run("subsampling is reproducible with a seed", func(t *testing.T) {
		f, err := New("lm",
			WithData(testData()),
			WithPredictFunc(colPredict("x")),
		)
		require.NoError(t, err)

		a, err := ICE(f, "x", WithMaxRows(2), WithSeed(7))
		require.NoError(t, err)
		b, err := ICE(f, "x", WithMaxRows(2), WithSeed(7))
		require.NoError(t, err)

		require.Equal(t, 40, a.NumRows(), "2 sampled rows times 20 grid points")
		idsA, err := a.Floats(IDColumn)
		require.NoError(t, err)
		idsB, err := b.Floats(IDColumn)
		require.NoError(t, err)
		assert.Equal(t, idsA, idsB)
	})

	t.Run("grouping columns carry through", func(t *testing.T) {
		f, err := New("lm",
			WithData(testData()),
			WithBy("g"),
			WithPredictFunc(colPredict("x")),
		)
		require.NoError(t, err)

		res, err := ICE(f, "x", WithGridPoints(dataset.FloatValue(1)))
		require.NoError(t, err)
		groups, err := res.Strings("g")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "a", "b", "b"}, groups)
	})

	t.Run("unknown variable", func(t *testing.T) {
		f, err := New("lm", WithData(testData()), WithPredictFunc(constPredict(0)))
		require.NoError(t, err)
		_, err = ICE(f, "nope")
		require.Error(t, err)
		var verr *errors.UnknownVariableError
		assert.True(t, errors.As(err, &verr))
	})

	t.Run("categorical variable sweeps its levels", func(t *testing.T) {
		f, err := New("lm",
			WithData(testData()),
			WithPredictFunc(constPredict(3)),
		)
		require.NoError(t, err)

		res, err := ICE(f, "g")
		require.NoError(t, err)
		// 4 observations times 2 levels.
		require.Equal(t, 8, res.NumRows())
		gridVals, err := res.Strings(GridValueColumn)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, gridVals[:2])
	})
}
