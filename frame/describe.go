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

package frame

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds per-column summary statistics over the non-NaN values.
type Summary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64 // sample standard deviation
	Min    float64
	Max    float64
}

// Describe computes summary statistics for each column in order. Columns
// with no observations have Count = 0 and NaN statistics.
func (f *Frame) Describe() []Summary {
	res := make([]Summary, 0, len(f.names))
	for _, name := range f.names {
		var xs []float64
		for _, v := range f.cols[name] {
			if !math.IsNaN(v) {
				xs = append(xs, v)
			}
		}
		s := Summary{Column: name, Count: len(xs)}
		if len(xs) == 0 {
			s.Mean = math.NaN()
			s.Std = math.NaN()
			s.Min = math.NaN()
			s.Max = math.NaN()
		} else {
			s.Mean = stat.Mean(xs, nil)
			s.Std = stat.StdDev(xs, nil)
			s.Min = floats.Min(xs)
			s.Max = floats.Max(xs)
		}
		res = append(res, s)
	}
	return res
}
