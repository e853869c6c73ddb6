// Package light implements model-agnostic interpretation of fitted models:
// performance summaries, permutation importance, individual conditional
// expectation (ICE) and partial dependence profiles, and combined effects
// tables, all with optional case weights and grouping.
//
// A Flashlight bundles a fitted model, its prediction function and an
// evaluation context (data, response, weights, grouping keys, metrics).
// A MultiFlashlight is an ordered collection of such bundles; every analysis
// operation accepts either and, for a collection, fans out across the members
// and concatenates the results with a label column.
package light

import "github.com/flashlight-go/flashlight/dataset"

// Result table column names shared by all analysis operations.
const (
	// LabelColumn identifies the source bundle in fan-out results.
	LabelColumn = "label"
	// MetricColumn names the scoring metric of a result row.
	MetricColumn = "metric"
	// ValueColumn holds the numeric result of a metric or importance row.
	ValueColumn = "value"
	// CountsColumn holds the unweighted row count behind a result row.
	CountsColumn = "counts"
	// VariableColumn names the profiled or permuted input variable.
	VariableColumn = "variable"
	// GridValueColumn holds the evaluation grid point of a profile row.
	GridValueColumn = "grid_value"
	// IDColumn identifies the source observation of an ICE row.
	IDColumn = "id"
	// PredictionColumn holds the (aggregated) model prediction of a row.
	PredictionColumn = "prediction"
	// TypeColumn distinguishes profile types in Profile and Effects results.
	TypeColumn = "type"
)

// Light is the common abstraction over a single Flashlight and a
// MultiFlashlight. Every analysis operation accepts a Light and applies
// itself to each resolved member in order.
type Light interface {
	// lights returns the member bundles in insertion order.
	lights() []*Flashlight
}

// forEach runs fn over the resolved members, applying per-call bundle
// overrides first, and concatenates the resulting tables in member order.
func forEach(l Light, overrides []Option, fn func(f *Flashlight) (*dataset.Dataset, error)) (*dataset.Dataset, error) {
	var out *dataset.Dataset
	for _, f := range l.lights() {
		member := f
		if len(overrides) > 0 {
			updated, err := f.Update(overrides...)
			if err != nil {
				return nil, err
			}
			member = updated
		}
		part, err := fn(member)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = part
			continue
		}
		combined, err := out.Append(part)
		if err != nil {
			return nil, err
		}
		out = combined
	}
	return out, nil
}
