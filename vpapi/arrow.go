// Copyright 2025 VP Analysis

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vpapi

import (
	"bytes"
	"io"
	"math"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stockparfait/errors"

	"github.com/vpanalysis/vpdata/dates"
	"github.com/vpanalysis/vpdata/frame"
)

// indexField picks the schema field holding the row index: the field named
// "date" or "index" if present, otherwise the first date-typed field,
// otherwise field 0.
func indexField(schema *arrow.Schema) int {
	for i, f := range schema.Fields() {
		switch strings.ToLower(f.Name) {
		case "date", "index":
			return i
		}
	}
	for i, f := range schema.Fields() {
		switch f.Type.ID() {
		case arrow.DATE32, arrow.DATE64, arrow.TIMESTAMP:
			return i
		}
	}
	return 0
}

// dateValues converts the index column of one record into dates.
func dateValues(col arrow.Array) ([]dates.Date, error) {
	res := make([]dates.Date, 0, col.Len())
	switch a := col.(type) {
	case *array.Date32:
		for i := 0; i < a.Len(); i++ {
			if a.IsNull(i) {
				return nil, errors.Reason("null date in the index column")
			}
			res = append(res, dates.NewDateFromTime(a.Value(i).ToTime()))
		}
	case *array.Date64:
		for i := 0; i < a.Len(); i++ {
			if a.IsNull(i) {
				return nil, errors.Reason("null date in the index column")
			}
			res = append(res, dates.NewDateFromTime(a.Value(i).ToTime()))
		}
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		for i := 0; i < a.Len(); i++ {
			if a.IsNull(i) {
				return nil, errors.Reason("null timestamp in the index column")
			}
			res = append(res, dates.NewDateFromTime(a.Value(i).ToTime(unit)))
		}
	case *array.String:
		for i := 0; i < a.Len(); i++ {
			d, err := dates.NewDateFromString(a.Value(i))
			if err != nil {
				return nil, errors.Annotate(err, "bad date in the index column")
			}
			res = append(res, d)
		}
	default:
		return nil, errors.Reason("unsupported index column type: %s",
			col.DataType())
	}
	return res, nil
}

// floatValues converts a data column of one record to float64, nulls to NaN.
func floatValues(col arrow.Array) ([]float64, error) {
	res := make([]float64, col.Len())
	get := func(i int) float64 { return math.NaN() }
	switch a := col.(type) {
	case *array.Float64:
		get = func(i int) float64 { return a.Value(i) }
	case *array.Float32:
		get = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Int64:
		get = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Int32:
		get = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Int16:
		get = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Int8:
		get = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Uint64:
		get = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Uint32:
		get = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Uint16:
		get = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Uint8:
		get = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Null:
	default:
		return nil, errors.Reason("unsupported column type: %s", col.DataType())
	}
	for i := range res {
		if col.IsNull(i) {
			res[i] = math.NaN()
		} else {
			res[i] = get(i)
		}
	}
	return res, nil
}

// ReadFrame decodes an Arrow IPC stream into a frame. All record batches of
// the stream are appended row-wise; the schema is self-describing, with one
// index column and any number of numeric data columns.
func ReadFrame(r io.Reader) (*frame.Frame, error) {
	rdr, err := ipc.NewReader(r)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open Arrow stream")
	}
	defer rdr.Release()

	schema := rdr.Schema()
	idx := indexField(schema)
	var names []string
	for i, f := range schema.Fields() {
		if i != idx {
			names = append(names, f.Name)
		}
	}

	var index []dates.Date
	cols := make(map[string][]float64, len(names))
	for rdr.Next() {
		rec := rdr.Record()
		ds, err := dateValues(rec.Column(idx))
		if err != nil {
			return nil, errors.Annotate(err, "column %s", schema.Field(idx).Name)
		}
		index = append(index, ds...)
		for i, f := range schema.Fields() {
			if i == idx {
				continue
			}
			vs, err := floatValues(rec.Column(i))
			if err != nil {
				return nil, errors.Annotate(err, "column %s", f.Name)
			}
			cols[f.Name] = append(cols[f.Name], vs...)
		}
	}
	if err := rdr.Err(); err != nil && err != io.EOF {
		return nil, errors.Annotate(err, "failed to read Arrow stream")
	}

	series := make([]frame.Series, len(names))
	for i, name := range names {
		series[i] = frame.Series{Name: name, Values: cols[name]}
	}
	f, err := frame.New(index, series...)
	if err != nil {
		return nil, errors.Annotate(err, "malformed response table")
	}
	return f, nil
}

// TestPayload generates an Arrow IPC stream in the format returned by the
// data API. For use in tests.
func TestPayload(index []dates.Date, series ...frame.Series) ([]byte, error) {
	fields := []arrow.Field{{Name: "date", Type: arrow.FixedWidthTypes.Date32}}
	for _, s := range series {
		fields = append(fields, arrow.Field{
			Name: s.Name, Type: arrow.PrimitiveTypes.Float64, Nullable: true})
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	for _, d := range index {
		b.Field(0).(*array.Date32Builder).Append(arrow.Date32FromTime(d.ToTime()))
	}
	for i, s := range series {
		fb := b.Field(i + 1).(*array.Float64Builder)
		for _, v := range s.Values {
			if math.IsNaN(v) {
				fb.AppendNull()
			} else {
				fb.Append(v)
			}
		}
	}
	rec := b.NewRecord()
	defer rec.Release()

	var buf bytes.Buffer
	w := ipc.NewWriter(&buf, ipc.WithSchema(schema))
	if err := w.Write(rec); err != nil {
		return nil, errors.Annotate(err, "failed to write Arrow record")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Annotate(err, "failed to close Arrow writer")
	}
	return buf.Bytes(), nil
}
