package errors

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestNewUnknownVariableError(t *testing.T) {
	err := NewUnknownVariableError("Importance", "petal_width")

	// 基本的なエラーメッセージの確認
	want := `flashlight: Importance: unknown variable "petal_width": not present in the reference data`
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// スタックトレースの存在確認
	formatted := fmt.Sprintf("%+v", err)
	if !strings.Contains(formatted, "errors_test.go") {
		t.Error("Expected stack trace to contain test file name")
	}

	// UnknownVariableError型にキャスト可能か確認
	var uvErr *UnknownVariableError
	if !As(err, &uvErr) {
		t.Error("Error should be castable to *UnknownVariableError")
	}
	if uvErr.Variable != "petal_width" {
		t.Errorf("Variable = %v, want petal_width", uvErr.Variable)
	}
}

func TestNewUnknownColumnError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		column  string
		role    string
		wantMsg string
	}{
		{
			name:    "with role",
			op:      "New",
			column:  "weight",
			role:    "weight",
			wantMsg: `flashlight: New: unknown weight column "weight"`,
		},
		{
			name:    "without role",
			op:      "Column",
			column:  "foo",
			role:    "",
			wantMsg: `flashlight: Column: unknown column "foo"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewUnknownColumnError(tt.op, tt.column, tt.role)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// UnknownColumnError型にキャスト可能か確認
			var ucErr *UnknownColumnError
			if !As(err, &ucErr) {
				t.Error("Error should be castable to *UnknownColumnError")
			}
		})
	}
}

func TestNewGridTooLargeError(t *testing.T) {
	err := NewGridTooLargeError("zip_code", 1000, 25)

	want := `flashlight: grid for variable "zip_code" has 1000 levels, exceeding the maximum of 25`
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// GridTooLargeError型にキャスト可能か確認
	var gridErr *GridTooLargeError
	if !As(err, &gridErr) {
		t.Error("Error should be castable to *GridTooLargeError")
	}
	if gridErr.Cardinality != 1000 || gridErr.MaxLevels != 25 {
		t.Errorf("unexpected fields: %+v", gridErr)
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Predictions", 10, 5, 0)

	// 基本的なエラーメッセージの確認
	want := "flashlight: Predictions: dimension mismatch on axis 0 (rows). Expected 10, got 5"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// DimensionError型にキャスト可能か確認
	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
}

func TestNewMetricDirectionError(t *testing.T) {
	err := NewMetricDirectionError("custom_score")

	if !strings.Contains(err.Error(), `"custom_score"`) {
		t.Errorf("Error() = %v, want metric name included", err.Error())
	}

	var dirErr *MetricDirectionError
	if !As(err, &dirErr) {
		t.Error("Error should be castable to *MetricDirectionError")
	}
}

func TestNewUndefinedMetricWarning(t *testing.T) {
	warn := NewUndefinedMetricWarning("weighted mean", "all case weights being zero", math.NaN())

	if !strings.Contains(warn.Error(), "ill-defined") {
		t.Errorf("Error() = %v, want ill-defined message", warn.Error())
	}

	// UndefinedMetricWarning型へのキャストのみ確認
	var umWarn *UndefinedMetricWarning
	if !As(warn, &umWarn) {
		t.Error("Warning should be castable to *UndefinedMetricWarning")
	}
}

func TestWarnHandler(t *testing.T) {
	var captured error
	SetWarningHandler(func(w error) { captured = w })
	defer SetWarningHandler(func(w error) {})

	warn := NewUndefinedMetricWarning("mse", "empty group", math.NaN())
	Warn(warn)

	if captured == nil || !strings.Contains(captured.Error(), "mse") {
		t.Errorf("expected handler to capture warning, got %v", captured)
	}
}

func TestWrapAndIs(t *testing.T) {
	// 元のエラー
	baseErr := ErrNoData

	// ラップ
	wrapped := Wrap(baseErr, "in Performance")

	// Is関数でチェック
	if !Is(wrapped, ErrNoData) {
		t.Error("Expected Is(wrapped, ErrNoData) to be true")
	}

	// エラーメッセージの確認
	if !strings.Contains(wrapped.Error(), "in Performance") {
		t.Error("Expected wrapped error to contain wrapping message")
	}
}

func TestWrapf(t *testing.T) {
	// 元のエラー
	baseErr := ErrEmptyData

	// フォーマット付きラップ
	wrapped := Wrapf(baseErr, "in %s: expected %d, got %d", "Predictions", 10, 5)

	// Is関数でチェック
	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	// エラーメッセージの確認
	expectedMsg := "in Predictions: expected 10, got 5"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestCheckNonNegative(t *testing.T) {
	if err := CheckNonNegative("weights", []float64{0, 1, 2.5}); err != nil {
		t.Errorf("expected nil for non-negative values, got %v", err)
	}
	if err := CheckNonNegative("weights", []float64{1, -0.1}); err == nil {
		t.Error("expected error for negative value")
	}
	if err := CheckNonNegative("weights", []float64{math.NaN()}); err == nil {
		t.Error("expected error for NaN value")
	}
}

func TestCheckFinite(t *testing.T) {
	if err := CheckFinite("grid", []float64{1, 2, 3}); err != nil {
		t.Errorf("expected nil for finite values, got %v", err)
	}
	if err := CheckFinite("grid", []float64{1, math.Inf(1)}); err == nil {
		t.Error("expected error for Inf value")
	}
}

func TestSafeDivide(t *testing.T) {
	if got := SafeDivide(6, 2); got != 3 {
		t.Errorf("SafeDivide(6, 2) = %v, want 3", got)
	}
	if got := SafeDivide(1, 0); !math.IsNaN(got) {
		t.Errorf("SafeDivide(1, 0) = %v, want NaN", got)
	}
}
