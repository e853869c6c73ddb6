package light

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashlight-go/flashlight/dataset"
	"github.com/flashlight-go/flashlight/pkg/errors"
)

// testData is the canonical 4-row fixture used across the operation tests.
func testData() *dataset.Dataset {
	return dataset.MustNew(
		dataset.Floats("x", []float64{1, 2, 3, 4}),
		dataset.Floats("y", []float64{8, 10, 12, 14}),
		dataset.Strings("g", []string{"a", "a", "b", "b"}),
		dataset.Floats("w", []float64{1, 1, 1, 1}),
	)
}

// constPredict ignores model and data values, returning v per row.
func constPredict(v float64) PredictFunc {
	return func(_ any, d *dataset.Dataset) ([]float64, error) {
		out := make([]float64, d.NumRows())
		for i := range out {
			out[i] = v
		}
		return out, nil
	}
}

// colPredict returns the named column verbatim as the prediction.
func colPredict(name string) PredictFunc {
	return func(_ any, d *dataset.Dataset) ([]float64, error) {
		return d.Floats(name)
	}
}

// scaledPredict returns k times the named column.
func scaledPredict(name string, k float64) PredictFunc {
	return func(_ any, d *dataset.Dataset) ([]float64, error) {
		xs, err := d.Floats(name)
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(xs))
		for i, x := range xs {
			out[i] = k * x
		}
		return out, nil
	}
}

func TestNew(t *testing.T) {
	t.Run("requires label", func(t *testing.T) {
		_, err := New("")
		require.Error(t, err)
		var verr *errors.ValidationError
		assert.True(t, errors.As(err, &verr))
	})

	t.Run("accepts a bare bundle without data", func(t *testing.T) {
		f, err := New("lm", WithResponse("y"))
		require.NoError(t, err)
		assert.Equal(t, "lm", f.Label())
		assert.Equal(t, "y", f.Response())
	})

	t.Run("validates columns against data", func(t *testing.T) {
		d := testData()
		cases := []struct {
			name string
			opt  Option
			role string
		}{
			{"unknown response", WithResponse("nope"), "response"},
			{"unknown weight", WithWeight("nope"), "weight"},
			{"unknown by", WithBy("nope"), "by"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := New("lm", WithData(d), tc.opt)
				require.Error(t, err)
				var cerr *errors.UnknownColumnError
				require.True(t, errors.As(err, &cerr))
				assert.Equal(t, tc.role, cerr.Role)
			})
		}
	})

	t.Run("rejects negative weights", func(t *testing.T) {
		d := dataset.MustNew(
			dataset.Floats("y", []float64{1, 2}),
			dataset.Floats("w", []float64{1, -1}),
		)
		_, err := New("lm", WithData(d), WithWeight("w"))
		assert.Error(t, err)
	})

	t.Run("rejects non-finite weights", func(t *testing.T) {
		d := dataset.MustNew(
			dataset.Floats("y", []float64{1, 2}),
			dataset.Floats("w", []float64{1, math.Inf(1)}),
		)
		_, err := New("lm", WithData(d), WithWeight("w"))
		assert.Error(t, err)
	})

	t.Run("default metrics", func(t *testing.T) {
		f, err := New("lm")
		require.NoError(t, err)
		ms := f.Metrics()
		require.Len(t, ms, 1)
		assert.Equal(t, "mse", ms[0].Name)
	})
}

func TestUpdate(t *testing.T) {
	f, err := New("lm", WithData(testData()), WithResponse("y"))
	require.NoError(t, err)

	g, err := f.Update(WithResponse("x"), WithBy("g"))
	require.NoError(t, err)

	assert.Equal(t, "x", g.Response())
	assert.Equal(t, []string{"g"}, g.By())
	// Receiver stays untouched.
	assert.Equal(t, "y", f.Response())
	assert.Empty(t, f.By())

	_, err = f.Update(WithResponse("nope"))
	assert.Error(t, err, "Update re-validates against the data")
}

func TestNewMulti(t *testing.T) {
	d := testData()
	a, err := New("a", WithPredictFunc(constPredict(1)))
	require.NoError(t, err)
	b, err := New("b", WithPredictFunc(constPredict(2)), WithResponse("x"))
	require.NoError(t, err)

	t.Run("common options fill only missing fields", func(t *testing.T) {
		m, err := NewMulti([]*Flashlight{a, b}, WithData(d), WithResponse("y"))
		require.NoError(t, err)
		require.Equal(t, 2, m.Len())

		ma, ok := m.Get("a")
		require.True(t, ok)
		assert.Equal(t, "y", ma.Response(), "common default fills the gap")
		assert.Same(t, d, ma.Data())

		mb, ok := m.Get("b")
		require.True(t, ok)
		assert.Equal(t, "x", mb.Response(), "member's own value wins")
	})

	t.Run("duplicate labels rejected", func(t *testing.T) {
		dup, err := New("a")
		require.NoError(t, err)
		_, err = NewMulti([]*Flashlight{a, dup})
		assert.Error(t, err)
	})

	t.Run("remove returns a new collection", func(t *testing.T) {
		m, err := NewMulti([]*Flashlight{a, b})
		require.NoError(t, err)
		removed := m.Remove("a")
		assert.Equal(t, []string{"b"}, removed.Labels())
		assert.Equal(t, []string{"a", "b"}, m.Labels(), "original unchanged")
		assert.Equal(t, 2, m.Remove("missing").Len())
	})
}

func TestPredictions(t *testing.T) {
	d := testData()

	t.Run("applies the inverse link", func(t *testing.T) {
		f, err := New("lm",
			WithData(d),
			WithPredictFunc(constPredict(2)),
			WithLinkInv(func(v float64) float64 { return v * 10 }),
		)
		require.NoError(t, err)
		preds, err := f.Predictions(nil)
		require.NoError(t, err)
		assert.Equal(t, []float64{20, 20, 20, 20}, preds)
	})

	t.Run("wrong-length output fails", func(t *testing.T) {
		f, err := New("lm", WithData(d), WithPredictFunc(
			func(_ any, _ *dataset.Dataset) ([]float64, error) {
				return []float64{1}, nil
			},
		))
		require.NoError(t, err)
		_, err = f.Predictions(nil)
		require.Error(t, err)
		var derr *errors.DimensionError
		assert.True(t, errors.As(err, &derr))
	})

	t.Run("panics are recovered into errors", func(t *testing.T) {
		f, err := New("lm", WithData(d), WithPredictFunc(
			func(_ any, _ *dataset.Dataset) ([]float64, error) {
				panic("model exploded")
			},
		))
		require.NoError(t, err)
		_, err = f.Predictions(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model exploded")
	})

	t.Run("missing pieces", func(t *testing.T) {
		f, err := New("lm")
		require.NoError(t, err)
		_, err = f.Predictions(nil)
		assert.True(t, errors.Is(err, errors.ErrNoData))

		f, err = New("lm", WithData(d))
		require.NoError(t, err)
		_, err = f.Predictions(nil)
		assert.True(t, errors.Is(err, errors.ErrNoPredictFunc))
	})
}

func TestResiduals(t *testing.T) {
	f, err := New("lm",
		WithData(testData()),
		WithResponse("y"),
		WithPredictFunc(constPredict(10)),
	)
	require.NoError(t, err)

	res, err := f.Residuals(nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, 0, 2, 4}, res)

	noResp, err := New("lm", WithData(testData()), WithPredictFunc(constPredict(10)))
	require.NoError(t, err)
	_, err = noResp.Residuals(nil)
	assert.True(t, errors.Is(err, errors.ErrNoResponse))
}
