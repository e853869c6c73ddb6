package light

import (
	"github.com/flashlight-go/flashlight/dataset"
	"github.com/flashlight-go/flashlight/metrics"
	"github.com/flashlight-go/flashlight/pkg/errors"
)

// PredictFunc maps an opaque model and a dataset to one numeric score per
// row. It must return exactly d.NumRows() values.
type PredictFunc func(model any, d *dataset.Dataset) ([]float64, error)

// Flashlight bundles a fitted model, its prediction function and the
// evaluation context used by every analysis operation. A Flashlight is
// immutable after construction; Update returns a modified copy.
type Flashlight struct {
	label    string
	model    any
	predict  PredictFunc
	data     *dataset.Dataset
	response string
	weight   string
	by       []string
	linkinv  func(float64) float64
	metrics  []metrics.Metric
}

// Option configures a Flashlight during New or Update.
type Option func(*Flashlight)

// WithModel sets the fitted model object. It is passed verbatim to the
// prediction function and never inspected by the framework.
func WithModel(model any) Option {
	return func(f *Flashlight) {
		f.model = model
	}
}

// WithPredictFunc sets the prediction function.
func WithPredictFunc(fn PredictFunc) Option {
	return func(f *Flashlight) {
		f.predict = fn
	}
}

// WithData sets the reference dataset.
func WithData(d *dataset.Dataset) Option {
	return func(f *Flashlight) {
		f.data = d
	}
}

// WithResponse sets the name of the response column.
func WithResponse(name string) Option {
	return func(f *Flashlight) {
		f.response = name
	}
}

// WithWeight sets the name of the case-weight column. The column must be
// numeric and non-negative.
func WithWeight(name string) Option {
	return func(f *Flashlight) {
		f.weight = name
	}
}

// WithBy sets the grouping-key columns used to stratify every computation.
func WithBy(names ...string) Option {
	return func(f *Flashlight) {
		f.by = append([]string(nil), names...)
	}
}

// WithLinkInv sets the inverse-link function applied to raw prediction
// output. The default is the identity.
func WithLinkInv(fn func(float64) float64) Option {
	return func(f *Flashlight) {
		f.linkinv = fn
	}
}

// WithMetrics sets the ordered metric set used by Performance and
// Importance. The default is metrics.Default().
func WithMetrics(ms ...metrics.Metric) Option {
	return func(f *Flashlight) {
		f.metrics = append([]metrics.Metric(nil), ms...)
	}
}

// New builds a Flashlight with the given label. The label is required; it
// identifies the bundle in fan-out results and must be unique within a
// MultiFlashlight.
func New(label string, opts ...Option) (*Flashlight, error) {
	f := &Flashlight{label: label}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Update returns a copy of f with the given options applied and the result
// re-validated. The receiver is never modified.
func (f *Flashlight) Update(opts ...Option) (*Flashlight, error) {
	clone := *f
	clone.by = append([]string(nil), f.by...)
	clone.metrics = append([]metrics.Metric(nil), f.metrics...)
	for _, opt := range opts {
		opt(&clone)
	}
	if err := clone.validate(); err != nil {
		return nil, err
	}
	return &clone, nil
}

func (f *Flashlight) validate() error {
	if f.label == "" {
		return errors.NewValidationError("label", "must not be empty", f.label)
	}
	if f.data == nil {
		// Columns are checked once data is attached.
		return nil
	}
	if f.response != "" && !f.data.Has(f.response) {
		return errors.NewUnknownColumnError("New", f.response, "response")
	}
	if f.weight != "" {
		w, err := f.data.Floats(f.weight)
		if err != nil {
			if !f.data.Has(f.weight) {
				return errors.NewUnknownColumnError("New", f.weight, "weight")
			}
			return err
		}
		if err := errors.CheckFinite("weight", w); err != nil {
			return err
		}
		if err := errors.CheckNonNegative("weight", w); err != nil {
			return err
		}
	}
	for _, b := range f.by {
		if !f.data.Has(b) {
			return errors.NewUnknownColumnError("New", b, "by")
		}
	}
	return nil
}

// Label returns the bundle label.
func (f *Flashlight) Label() string { return f.label }

// Model returns the opaque model object.
func (f *Flashlight) Model() any { return f.model }

// Data returns the reference dataset.
func (f *Flashlight) Data() *dataset.Dataset { return f.data }

// Response returns the response column name, or "" if unset.
func (f *Flashlight) Response() string { return f.response }

// Weight returns the case-weight column name, or "" if unset.
func (f *Flashlight) Weight() string { return f.weight }

// By returns the grouping-key column names.
func (f *Flashlight) By() []string {
	return append([]string(nil), f.by...)
}

// Metrics returns the bundle's metric set; metrics.Default() if unset.
func (f *Flashlight) Metrics() []metrics.Metric {
	if len(f.metrics) == 0 {
		return metrics.Default()
	}
	return append([]metrics.Metric(nil), f.metrics...)
}

// lights lets a single bundle act as a one-member collection.
func (f *Flashlight) lights() []*Flashlight {
	return []*Flashlight{f}
}
