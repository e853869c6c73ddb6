// Package flashlight provides model-agnostic interpretation of fitted
// statistical and machine-learning models: performance summaries,
// permutation-based variable importance, individual conditional expectation
// (ICE) and partial dependence profiles, and combined effects tables, all
// with optional case weights and grouping.
//
// The framework never fits models itself. It works against any model
// through a caller-supplied prediction function and emits tidy result
// tables that a presentation layer can render.
//
// # Installation
//
//	go get github.com/flashlight-go/flashlight
//
// # Quick Start
//
// Bundle a model with its evaluation context and run an analysis:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/flashlight-go/flashlight/dataset"
//	    "github.com/flashlight-go/flashlight/light"
//	    "github.com/flashlight-go/flashlight/metrics"
//	)
//
//	func main() {
//	    d := dataset.MustNew(
//	        dataset.Floats("x", []float64{1, 2, 3, 4}),
//	        dataset.Floats("y", []float64{8, 10, 12, 14}),
//	    )
//
//	    fl, err := light.New("my model",
//	        light.WithData(d),
//	        light.WithResponse("y"),
//	        light.WithPredictFunc(func(model any, d *dataset.Dataset) ([]float64, error) {
//	            return d.Floats("x")
//	        }),
//	        light.WithMetrics(metrics.MSE(), metrics.R2()),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    perf, err := light.Performance(fl)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(perf.Names())
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - dataset: tabular data model, grouping and weighted aggregation
//   - metrics: scoring functions with improvement directions
//   - light: model bundles and the analysis operations
//   - pkg/errors: structured errors and warnings
//   - pkg/log: structured logging helpers
//
// # Multiple models
//
// A MultiFlashlight fans every operation out across a collection of
// bundles and unions the results with a label column:
//
//	multi, err := light.NewMulti(
//	    []*light.Flashlight{lm, gbm},
//	    light.WithData(d),
//	    light.WithResponse("y"),
//	)
//	imp, err := light.Importance(multi, light.WithRepetitions(10))
//
// # License
//
// flashlight is released under the MIT License.
package flashlight
