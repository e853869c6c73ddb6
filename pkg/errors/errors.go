// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// モデル解釈の計算（性能評価・置換重要度・プロファイル）で発生する
// 構造化されたエラー情報を提供します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("flashlight-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// これにより、UndefinedMetricWarningなどのカスタム警告の処理方法を制御できます。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	// zerologが設定されている場合は優先的に使用
	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	// フォールバック: 従来のハンドラ
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// UndefinedMetricWarning は評価指標が計算できない場合に発生する警告です。
// 例えば、あるグループのケース重みがすべてゼロで加重平均が定義できない場合など。
// 結果はエラーではなくNaNとして結果テーブルに現れます。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // この条件で返される値
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning は新しいUndefinedMetricWarningを作成します。
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// UnknownVariableError は解析対象として指定された変数がデータセットに存在しない場合のエラーです。
type UnknownVariableError struct {
	Op       string
	Variable string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("flashlight: %s: unknown variable %q: not present in the reference data", e.Op, e.Variable)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *UnknownVariableError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("variable", e.Variable).
		Str("type", "UnknownVariableError")
}

// NewUnknownVariableError は新しいUnknownVariableErrorを作成し、スタックトレースを付与します。
func NewUnknownVariableError(op, variable string) error {
	err := &UnknownVariableError{Op: op, Variable: variable}
	return errors.WithStack(err)
}

// UnknownColumnError は応答・重み・グループ化などの役割を持つ列が
// データセットに存在しない場合のエラーです。
type UnknownColumnError struct {
	Op     string
	Column string
	Role   string // "response", "weight", "by", "value"
}

func (e *UnknownColumnError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("flashlight: %s: unknown %s column %q", e.Op, e.Role, e.Column)
	}
	return fmt.Sprintf("flashlight: %s: unknown column %q", e.Op, e.Column)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *UnknownColumnError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("role", e.Role).
		Str("type", "UnknownColumnError")
}

// NewUnknownColumnError は新しいUnknownColumnErrorを作成し、スタックトレースを付与します。
func NewUnknownColumnError(op, column, role string) error {
	err := &UnknownColumnError{Op: op, Column: column, Role: role}
	return errors.WithStack(err)
}

// GridTooLargeError はカテゴリ変数の水準数が設定された上限を超えた場合のエラーです。
// 黙って切り捨てるのではなく、呼び出し側に報告します。
type GridTooLargeError struct {
	Variable    string
	Cardinality int
	MaxLevels   int
}

func (e *GridTooLargeError) Error() string {
	return fmt.Sprintf("flashlight: grid for variable %q has %d levels, exceeding the maximum of %d",
		e.Variable, e.Cardinality, e.MaxLevels)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *GridTooLargeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("variable", e.Variable).
		Int("cardinality", e.Cardinality).
		Int("max_levels", e.MaxLevels).
		Str("type", "GridTooLargeError")
}

// NewGridTooLargeError は新しいGridTooLargeErrorを作成し、スタックトレースを付与します。
func NewGridTooLargeError(variable string, cardinality, maxLevels int) error {
	err := &GridTooLargeError{Variable: variable, Cardinality: cardinality, MaxLevels: maxLevels}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
// 予測関数が行数と異なる長さの出力を返した場合にも使われます。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("flashlight: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// MetricDirectionError は改善方向が不明な指標で置換重要度を要求した場合のエラーです。
// 呼び出し側が提供した指標については方向を推測せず、明示を要求します。
type MetricDirectionError struct {
	Metric string
}

func (e *MetricDirectionError) Error() string {
	return fmt.Sprintf("flashlight: metric %q has no registered direction. Set Metric.Direction or pass WithLowerIsBetter", e.Metric)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *MetricDirectionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("metric", e.Metric).
		Str("type", "MetricDirectionError")
}

// NewMetricDirectionError は新しいMetricDirectionErrorを作成し、スタックトレースを付与します。
func NewMetricDirectionError(metric string) error {
	err := &MetricDirectionError{Metric: metric}
	return errors.WithStack(err)
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("flashlight: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("flashlight: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrNoData はバンドルに参照データが設定されていない場合のエラーです。
	ErrNoData = New("flashlight has no data attached")

	// ErrNoResponse はバンドルに応答列が設定されていない場合のエラーです。
	ErrNoResponse = New("flashlight has no response column")

	// ErrNoPredictFunc はバンドルに予測関数が設定されていない場合のエラーです。
	ErrNoPredictFunc = New("flashlight has no predict function")
)
