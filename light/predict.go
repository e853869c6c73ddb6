package light

import (
	"github.com/flashlight-go/flashlight/dataset"
	"github.com/flashlight-go/flashlight/pkg/errors"
)

// Predictions runs the bundle's prediction function on d (or on the
// bundle's own data when d is nil), recovers panics from the caller-supplied
// function into errors, checks the output length and applies the
// inverse-link function.
func (f *Flashlight) Predictions(d *dataset.Dataset) ([]float64, error) {
	if d == nil {
		d = f.data
	}
	if d == nil {
		return nil, errors.ErrNoData
	}
	if f.predict == nil {
		return nil, errors.ErrNoPredictFunc
	}
	raw, err := f.safePredict(d)
	if err != nil {
		return nil, err
	}
	if len(raw) != d.NumRows() {
		return nil, errors.NewDimensionError("Predictions", d.NumRows(), len(raw), 0)
	}
	if f.linkinv == nil {
		return raw, nil
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = f.linkinv(v)
	}
	return out, nil
}

func (f *Flashlight) safePredict(d *dataset.Dataset) ([]float64, error) {
	var preds []float64
	err := errors.SafeExecute("Predictions", func() error {
		var err error
		preds, err = f.predict(f.model, d)
		return err
	})
	if err != nil {
		return nil, err
	}
	return preds, nil
}

// Residuals returns response minus prediction per row of d (or of the
// bundle's own data when d is nil).
func (f *Flashlight) Residuals(d *dataset.Dataset) ([]float64, error) {
	if d == nil {
		d = f.data
	}
	if d == nil {
		return nil, errors.ErrNoData
	}
	if f.response == "" {
		return nil, errors.ErrNoResponse
	}
	actual, err := d.Floats(f.response)
	if err != nil {
		return nil, err
	}
	preds, err := f.Predictions(d)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(actual))
	for i := range actual {
		out[i] = actual[i] - preds[i]
	}
	return out, nil
}

// caseWeights returns the weight column of d, or nil for uniform weights.
func (f *Flashlight) caseWeights(d *dataset.Dataset) ([]float64, error) {
	if f.weight == "" {
		return nil, nil
	}
	return d.Floats(f.weight)
}

// gather extracts x at the given row indices; w may be nil.
func gather(x, w []float64, indices []int) ([]float64, []float64) {
	gx := make([]float64, len(indices))
	var gw []float64
	if w != nil {
		gw = make([]float64, len(indices))
	}
	for i, idx := range indices {
		gx[i] = x[idx]
		if w != nil {
			gw[i] = w[idx]
		}
	}
	return gx, gw
}
