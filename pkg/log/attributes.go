// Package log defines standard attribute keys for model interpretation operations.
//
// This file contains predefined attribute keys that provide consistency across
// all logging operations in flashlight. Using these standard keys enables better
// log analysis, monitoring, and debugging of interpretation workflows.
//
// The attributes are organized into categories:
//   - Bundle and Operation Context
//   - Data Shape and Characteristics
//   - Performance Metrics
//   - Error Context
//
// These keys follow a hierarchical naming convention (e.g., "light.label",
// "data.rows") to enable structured log analysis and filtering.

package log

// Bundle and Operation Context
// These attributes identify the model bundle and the analysis operation being performed.
const (
	// LabelKey identifies the model bundle (flashlight) an operation applies to.
	// Examples: "lm", "xgboost", "glm_gamma"
	LabelKey = "light.label"

	// OperationKey specifies the interpretation operation being performed.
	// Standard values: "performance", "importance", "ice", "profile", "effects"
	OperationKey = "light.operation"

	// VariableKey names the input variable being profiled or permuted.
	// Examples: "age", "zip_code", "petal_width"
	VariableKey = "light.variable"

	// MetricKey names the scoring metric in use.
	// Examples: "mse", "rmse", "mae", "r2"
	MetricKey = "light.metric"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "light", "dataset", "metrics"
	ComponentKey = "light.component"
)

// Data Shape and Characteristics
// These attributes describe the structure and properties of data being processed.
const (
	// RowsKey indicates the number of rows in the dataset.
	// This is crucial for understanding the scale of data being processed.
	RowsKey = "data.rows"

	// ColumnsKey indicates the number of columns in the dataset.
	// Important for tracking grid expansion and debugging shape mismatches.
	ColumnsKey = "data.columns"

	// GroupsKey indicates the number of grouping-key combinations in play.
	// Every computation is stratified into this many independent subgroups.
	GroupsKey = "data.groups"

	// GridPointsKey indicates the number of evaluation grid points.
	// Relevant for ICE and profile operations.
	GridPointsKey = "data.grid_points"

	// SampledRowsKey indicates the number of rows after subsampling.
	// Relevant when a row cap is applied before permutation or ICE.
	SampledRowsKey = "data.sampled_rows"
)

// Performance Metrics
// These attributes capture timing information.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	// This is essential for performance monitoring and optimization.
	DurationMsKey = "perf.duration_ms"

	// VariablesKey records the number of candidate variables processed.
	// Relevant for permutation importance runs.
	VariablesKey = "perf.variables"

	// RepetitionsKey records the number of permutation repetitions performed.
	// Higher values reduce Monte Carlo noise at the cost of runtime.
	RepetitionsKey = "perf.repetitions"
)

// Error and Warning Context
// These attributes provide additional context for error and warning messages.
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	// Examples: "UNKNOWN_VARIABLE", "GRID_TOO_LARGE", "DIMENSION_MISMATCH"
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	// Examples: "UnknownVariableError", "GridTooLargeError", "ValidationError"
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	// Automatically populated by the error logging functions.
	StacktraceKey = "error.stacktrace"
)

// Configuration
// These attributes capture run configuration for reproducibility.
const (
	// RandomSeedKey records the random seed for reproducibility.
	// Essential for debugging permutation and subsampling runs.
	RandomSeedKey = "config.random_seed"
)

// Standard attribute value constants for common operations.
// Using these constants ensures consistency across the codebase.
const (
	// Standard interpretation operations
	OperationPerformance = "performance"
	OperationImportance  = "importance"
	OperationICE         = "ice"
	OperationProfile     = "profile"
	OperationEffects     = "effects"
	OperationPredict     = "predict"

	// Standard error codes
	ErrorUnknownVariable   = "UNKNOWN_VARIABLE"
	ErrorUnknownColumn     = "UNKNOWN_COLUMN"
	ErrorGridTooLarge      = "GRID_TOO_LARGE"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorMetricDirection   = "METRIC_DIRECTION"
)
