package dataset

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/flashlight-go/flashlight/pkg/errors"
)

// ReadCSV はCSVを読み込んでDatasetを作成する。1行目をヘッダとして扱い、
// すべてのセルがfloat64として解釈できる列は数値列、それ以外はカテゴリ列になる。
// 結果テーブルの保存・復元などの汎用的な表形式シリアライズ用。
func ReadCSV(r io.Reader) (*Dataset, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "ReadCSV")
	}
	if len(records) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}

	header := records[0]
	rows := records[1:]

	cols := make([]Column, len(header))
	for j, name := range header {
		floats := make([]float64, len(rows))
		numeric := true
		for i, rec := range rows {
			v, perr := strconv.ParseFloat(rec[j], 64)
			if perr != nil {
				numeric = false
				break
			}
			floats[i] = v
		}
		if numeric {
			cols[j] = Floats(name, floats)
			continue
		}
		strs := make([]string, len(rows))
		for i, rec := range rows {
			strs[i] = rec[j]
		}
		cols[j] = Strings(name, strs)
	}
	return New(cols...)
}

// WriteCSV はDatasetをヘッダ付きCSVとして書き出す。
// 数値は最短の'g'表記でフォーマットされる。
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Names()); err != nil {
		return errors.Wrap(err, "WriteCSV")
	}

	record := make([]string, d.NumCols())
	for i := 0; i < d.NumRows(); i++ {
		for j, c := range d.cols {
			record[j] = c.Value(i).String()
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "WriteCSV")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "WriteCSV")
}
