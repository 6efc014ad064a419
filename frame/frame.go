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

// Package frame implements a tabular data frame: named float64 columns over
// a shared, strictly increasing date index. Missing values are NaN.
package frame

import (
	"math"
	"sort"

	"github.com/stockparfait/errors"
	"golang.org/x/exp/slices"

	"github.com/vpanalysis/vpdata/dates"
)

// Series is a single named column used to construct a Frame.
type Series struct {
	Name   string
	Values []float64
}

// Frame holds columns of float64 values aligned on a date index. The index
// is strictly increasing, and every column has exactly one value per index
// entry. A missing observation is NaN.
type Frame struct {
	index []dates.Date
	names []string // column order
	cols  map[string][]float64
}

// Empty creates a frame with no rows and no columns.
func Empty() *Frame {
	return &Frame{cols: make(map[string][]float64)}
}

// New creates a frame from an index and columns. Each column must have
// exactly len(index) values, and column names must be unique. Rows are
// sorted by date; duplicate index entries are an error.
func New(index []dates.Date, series ...Series) (*Frame, error) {
	f := Empty()
	f.index = make([]dates.Date, len(index))
	copy(f.index, index)

	perm := make([]int, len(index))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool {
		return f.index[perm[i]].Before(f.index[perm[j]])
	})
	sorted := make([]dates.Date, len(index))
	for i, p := range perm {
		sorted[i] = f.index[p]
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return nil, errors.Reason("duplicate index date: %s", sorted[i])
		}
	}
	f.index = sorted

	for _, s := range series {
		if len(s.Values) != len(index) {
			return nil, errors.Reason(
				"column %s has %d values for %d index entries",
				s.Name, len(s.Values), len(index))
		}
		if _, ok := f.cols[s.Name]; ok {
			return nil, errors.Reason("duplicate column name: %s", s.Name)
		}
		vs := make([]float64, len(s.Values))
		for i, p := range perm {
			vs[i] = s.Values[p]
		}
		f.names = append(f.names, s.Name)
		f.cols[s.Name] = vs
	}
	return f, nil
}

// NumRows is the length of the index.
func (f *Frame) NumRows() int { return len(f.index) }

// NumColumns is the number of columns.
func (f *Frame) NumColumns() int { return len(f.names) }

// Index returns a copy of the date index.
func (f *Frame) Index() []dates.Date {
	res := make([]dates.Date, len(f.index))
	copy(res, f.index)
	return res
}

// Columns returns a copy of the column names in order.
func (f *Frame) Columns() []string {
	res := make([]string, len(f.names))
	copy(res, f.names)
	return res
}

// Column returns a copy of the named column's values, or nil if there is no
// such column.
func (f *Frame) Column(name string) []float64 {
	vs, ok := f.cols[name]
	if !ok {
		return nil
	}
	res := make([]float64, len(vs))
	copy(res, vs)
	return res
}

// Value returns the value at row i of the named column, or NaN when the
// column does not exist.
func (f *Frame) Value(i int, name string) float64 {
	vs, ok := f.cols[name]
	if !ok {
		return math.NaN()
	}
	return vs[i]
}

// Join creates a new frame with the columns of both frames over the union of
// their indexes (an outer column-wise join). Rows absent from one side
// become NaN in its columns. Column names must not collide.
func (f *Frame) Join(other *Frame) (*Frame, error) {
	for _, name := range other.names {
		if _, ok := f.cols[name]; ok {
			return nil, errors.Reason("column %s is present in both frames", name)
		}
	}
	union := make([]dates.Date, 0, len(f.index)+len(other.index))
	union = append(union, f.index...)
	union = append(union, other.index...)
	slices.SortFunc(union, func(a, b dates.Date) int {
		switch {
		case a.Before(b):
			return -1
		case a.After(b):
			return 1
		}
		return 0
	})
	union = slices.Compact(union)

	pos := make(map[dates.Date]int, len(union))
	for i, d := range union {
		pos[d] = i
	}
	res := Empty()
	res.index = union
	remap := func(src *Frame) {
		for _, name := range src.names {
			vs := nanSlice(len(union))
			for i, d := range src.index {
				vs[pos[d]] = src.cols[name][i]
			}
			res.names = append(res.names, name)
			res.cols[name] = vs
		}
	}
	remap(f)
	remap(other)
	return res, nil
}

// Rename renames every column through fn, preserving the column order. It is
// an error for two renamed columns to collide.
func (f *Frame) Rename(fn func(string) string) error {
	names := make([]string, len(f.names))
	cols := make(map[string][]float64, len(f.names))
	for i, name := range f.names {
		name2 := fn(name)
		if _, ok := cols[name2]; ok {
			return errors.Reason("renaming produces duplicate column: %s", name2)
		}
		names[i] = name2
		cols[name2] = f.cols[name]
	}
	f.names = names
	f.cols = cols
	return nil
}

func nanSlice(n int) []float64 {
	vs := make([]float64, n)
	for i := range vs {
		vs[i] = math.NaN()
	}
	return vs
}

// Clean regularizes the frame for analysis: drop rows before start (zero
// start keeps everything), resample the index to the calendar frequency,
// forward-fill each column's interior gaps without extending past its last
// observation, and trim leading rows where no column has a value yet.
func (f *Frame) Clean(start dates.Date, freq dates.Frequency) *Frame {
	from := 0
	for from < len(f.index) && f.index[from].Before(start) {
		from++
	}
	if from >= len(f.index) {
		return Empty()
	}
	cal := freq.Range(f.index[from], f.index[len(f.index)-1])
	if len(cal) == 0 {
		return Empty()
	}
	pos := make(map[dates.Date]int, len(f.index))
	for i := from; i < len(f.index); i++ {
		pos[f.index[i]] = i
	}

	res := Empty()
	res.index = cal
	for _, name := range f.names {
		src := f.cols[name]
		vs := nanSlice(len(cal))
		for i, d := range cal {
			if j, ok := pos[d]; ok {
				vs[i] = src[j]
			}
		}
		fillForward(vs)
		res.names = append(res.names, name)
		res.cols[name] = vs
	}
	return res.trimLeadingNaNs()
}

// fillForward replaces each NaN between the first and the last observation
// by the preceding value. Leading and trailing NaNs are left as is.
func fillForward(vs []float64) {
	last := -1
	for i := len(vs) - 1; i >= 0; i-- {
		if !math.IsNaN(vs[i]) {
			last = i
			break
		}
	}
	started := false
	for i := 0; i <= last; i++ {
		if !math.IsNaN(vs[i]) {
			started = true
			continue
		}
		if started {
			vs[i] = vs[i-1]
		}
	}
}

// trimLeadingNaNs drops the initial rows in which every column is NaN, so
// the frame starts at its first valid index.
func (f *Frame) trimLeadingNaNs() *Frame {
	first := len(f.index)
	for i := range f.index {
		for _, name := range f.names {
			if !math.IsNaN(f.cols[name][i]) {
				first = i
				break
			}
		}
		if first == i {
			break
		}
	}
	if first == 0 {
		return f
	}
	if first >= len(f.index) {
		res := Empty()
		res.names = append(res.names, f.names...)
		for _, name := range f.names {
			res.cols[name] = nil
		}
		return res
	}
	f.index = f.index[first:]
	for _, name := range f.names {
		f.cols[name] = f.cols[name][first:]
	}
	return f
}
