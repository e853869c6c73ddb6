// Package dataset はモデル解釈で使う列指向の表データを提供します。
//
// Dataset は名前付き列の順序付きリストで、数値列（[]float64）と
// カテゴリ列（[]string）を混在できます。解析操作の入力と、
// すべての操作が返す整然（tidy）な結果テーブルの両方に使われます。
// 生成後は不変として扱い、変換は常に新しい値を返します。
package dataset

import (
	"strconv"
	"strings"

	"github.com/flashlight-go/flashlight/pkg/errors"
)

// Kind は列およびスカラー値の型を表す
type Kind int

const (
	// KindFloat は数値（float64）の列・値
	KindFloat Kind = iota
	// KindString はカテゴリ（string）の列・値
	KindString
)

// Value は数値またはカテゴリのスカラー値を表すタグ付き共用体です。
// グリッド点やグループキーの表現に使います。
type Value struct {
	kind Kind
	f    float64
	s    string
}

// FloatValue は数値のValueを作成する
func FloatValue(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// StringValue はカテゴリのValueを作成する
func StringValue(s string) Value {
	return Value{kind: KindString, s: s}
}

// Kind は値の型を返す
func (v Value) Kind() Kind { return v.kind }

// Float は数値としての値を返す（カテゴリ値の場合は0）
func (v Value) Float() float64 { return v.f }

// Str はカテゴリとしての値を返す（数値の場合は空文字列）
func (v Value) Str() string { return v.s }

// String は表示用の文字列表現を返す
func (v Value) String() string {
	if v.kind == KindFloat {
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	}
	return v.s
}

// Equal は2つの値が同じ型・同じ内容かどうかを返す
func (v Value) Equal(other Value) bool {
	return v.kind == other.kind && v.f == other.f && v.s == other.s
}

// Column は名前付きの単一列です。数値列かカテゴリ列のいずれかです。
type Column struct {
	name   string
	kind   Kind
	floats []float64
	strs   []string
}

// Floats は数値列を作成する。データはコピーされる。
func Floats(name string, values []float64) Column {
	c := Column{name: name, kind: KindFloat, floats: make([]float64, len(values))}
	copy(c.floats, values)
	return c
}

// Strings はカテゴリ列を作成する。データはコピーされる。
func Strings(name string, values []string) Column {
	c := Column{name: name, kind: KindString, strs: make([]string, len(values))}
	copy(c.strs, values)
	return c
}

// Name は列名を返す
func (c Column) Name() string { return c.name }

// Kind は列の型を返す
func (c Column) Kind() Kind { return c.kind }

// Len は行数を返す
func (c Column) Len() int {
	if c.kind == KindFloat {
		return len(c.floats)
	}
	return len(c.strs)
}

// Value はi行目の値をValueとして返す
func (c Column) Value(i int) Value {
	if c.kind == KindFloat {
		return FloatValue(c.floats[i])
	}
	return StringValue(c.strs[i])
}

// Floats は数値列の生データを返す（呼び出し側は変更してはならない）
func (c Column) Floats() []float64 { return c.floats }

// Strings はカテゴリ列の生データを返す（呼び出し側は変更してはならない）
func (c Column) Strings() []string { return c.strs }

func (c Column) take(indices []int) Column {
	out := Column{name: c.name, kind: c.kind}
	if c.kind == KindFloat {
		out.floats = make([]float64, len(indices))
		for i, idx := range indices {
			out.floats[i] = c.floats[idx]
		}
		return out
	}
	out.strs = make([]string, len(indices))
	for i, idx := range indices {
		out.strs[i] = c.strs[idx]
	}
	return out
}

// Dataset は等しい長さの名前付き列の順序付きリストです。
type Dataset struct {
	cols  []Column
	index map[string]int
}

// New は列からDatasetを作成する。列の長さが揃っていない場合や
// 列名が重複している場合はエラーを返す。
func New(cols ...Column) (*Dataset, error) {
	d := &Dataset{cols: cols, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := d.index[c.name]; dup {
			return nil, errors.NewValidationError("columns", "duplicate column name", c.name)
		}
		d.index[c.name] = i
		if c.Len() != cols[0].Len() {
			return nil, errors.NewDimensionError("dataset.New", cols[0].Len(), c.Len(), 0)
		}
	}
	return d, nil
}

// MustNew はNewと同じだがエラー時にpanicする。テストや定数的データ用。
func MustNew(cols ...Column) *Dataset {
	d, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return d
}

// NumRows は行数を返す
func (d *Dataset) NumRows() int {
	if len(d.cols) == 0 {
		return 0
	}
	return d.cols[0].Len()
}

// NumCols は列数を返す
func (d *Dataset) NumCols() int { return len(d.cols) }

// Names はすべての列名を順序どおりに返す
func (d *Dataset) Names() []string {
	names := make([]string, len(d.cols))
	for i, c := range d.cols {
		names[i] = c.name
	}
	return names
}

// Has は列が存在するかどうかを返す
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column は名前で列を取得する
func (d *Dataset) Column(name string) (Column, error) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, errors.NewUnknownColumnError("Column", name, "")
	}
	return d.cols[i], nil
}

// Floats は数値列の生データを返す。カテゴリ列の場合はValueErrorを返す。
func (d *Dataset) Floats(name string) ([]float64, error) {
	c, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	if c.kind != KindFloat {
		return nil, errors.NewValueError("Floats", "column "+strconv.Quote(name)+" is not numeric")
	}
	return c.floats, nil
}

// Strings はカテゴリ列の生データを返す。数値列の場合はValueErrorを返す。
func (d *Dataset) Strings(name string) ([]string, error) {
	c, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	if c.kind != KindString {
		return nil, errors.NewValueError("Strings", "column "+strconv.Quote(name)+" is not categorical")
	}
	return c.strs, nil
}

// Clone はデータの完全なコピーを返す
func (d *Dataset) Clone() *Dataset {
	cols := make([]Column, len(d.cols))
	for i, c := range d.cols {
		if c.kind == KindFloat {
			cols[i] = Floats(c.name, c.floats)
		} else {
			cols[i] = Strings(c.name, c.strs)
		}
	}
	return MustNew(cols...)
}

// WithColumn は列を置換（同名が存在する場合）または末尾に追加した
// 新しいDatasetを返す。元のDatasetは変更されない。
func (d *Dataset) WithColumn(c Column) (*Dataset, error) {
	if len(d.cols) > 0 && c.Len() != d.NumRows() {
		return nil, errors.NewDimensionError("WithColumn", d.NumRows(), c.Len(), 0)
	}
	cols := make([]Column, len(d.cols))
	copy(cols, d.cols)
	if i, ok := d.index[c.name]; ok {
		cols[i] = c
	} else {
		cols = append(cols, c)
	}
	return New(cols...)
}

// Take は指定した行インデックスを抜き出した新しいDatasetを返す。
// インデックスの繰り返しによる行の複製も可能。
func (d *Dataset) Take(indices []int) *Dataset {
	cols := make([]Column, len(d.cols))
	for i, c := range d.cols {
		cols[i] = c.take(indices)
	}
	return MustNew(cols...)
}

// Drop は指定した列を除いた新しいDatasetを返す。存在しない名前は無視する。
func (d *Dataset) Drop(names ...string) *Dataset {
	dropSet := make(map[string]bool, len(names))
	for _, n := range names {
		dropSet[n] = true
	}
	var cols []Column
	for _, c := range d.cols {
		if !dropSet[c.name] {
			cols = append(cols, c)
		}
	}
	return MustNew(cols...)
}

// Append は同じ列集合を持つ別のDatasetの行を連結した新しいDatasetを返す。
func (d *Dataset) Append(other *Dataset) (*Dataset, error) {
	if d.NumCols() == 0 {
		return other.Clone(), nil
	}
	if other.NumCols() != d.NumCols() {
		return nil, errors.NewDimensionError("Append", d.NumCols(), other.NumCols(), 1)
	}
	cols := make([]Column, len(d.cols))
	for i, c := range d.cols {
		oc, err := other.Column(c.name)
		if err != nil {
			return nil, errors.Wrap(err, "Append")
		}
		if oc.kind != c.kind {
			return nil, errors.NewValueError("Append", "column "+strconv.Quote(c.name)+" has mismatched kinds")
		}
		if c.kind == KindFloat {
			merged := make([]float64, 0, len(c.floats)+len(oc.floats))
			merged = append(merged, c.floats...)
			merged = append(merged, oc.floats...)
			cols[i] = Floats(c.name, merged)
		} else {
			merged := make([]string, 0, len(c.strs)+len(oc.strs))
			merged = append(merged, c.strs...)
			merged = append(merged, oc.strs...)
			cols[i] = Strings(c.name, merged)
		}
	}
	return New(cols...)
}

// Group はグループ化キーの一つの組み合わせと、その組み合わせに属する
// 行インデックスを表す。
type Group struct {
	// Keys はby列ごとのキー値（by列と同順）
	Keys []Value
	// Indices はこのグループに属する行インデックス（元の順序を保持）
	Indices []int
}

// GroupBy はby列の値の組み合わせごとに行をグループ化する。
// グループの順序は初出順。byが空の場合は全行を含む単一グループを返す。
func (d *Dataset) GroupBy(by ...string) ([]Group, error) {
	n := d.NumRows()
	if len(by) == 0 {
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		return []Group{{Indices: indices}}, nil
	}

	byCols := make([]Column, len(by))
	for i, name := range by {
		c, err := d.Column(name)
		if err != nil {
			return nil, errors.NewUnknownColumnError("GroupBy", name, "by")
		}
		byCols[i] = c
	}

	var groups []Group
	seen := make(map[string]int)
	var sb strings.Builder
	for row := 0; row < n; row++ {
		sb.Reset()
		for i, c := range byCols {
			if i > 0 {
				// 複合キーの区切りにUnit Separatorを使う
				sb.WriteByte(0x1f)
			}
			sb.WriteString(c.Value(row).String())
		}
		key := sb.String()
		gi, ok := seen[key]
		if !ok {
			keys := make([]Value, len(byCols))
			for i, c := range byCols {
				keys[i] = c.Value(row)
			}
			gi = len(groups)
			seen[key] = gi
			groups = append(groups, Group{Keys: keys})
		}
		groups[gi].Indices = append(groups[gi].Indices, row)
	}
	return groups, nil
}
