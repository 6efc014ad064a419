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
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stockparfait/testutil"

	"github.com/vpanalysis/vpdata/dates"

	. "github.com/smartystreets/goconvey/convey"
)

func day(d uint8) dates.Date { return dates.NewDate(2022, 7, d) }

var nan = math.NaN()

// eqNaN compares two slices treating NaNs as equal.
func eqNaN(xs, ys []float64) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if math.IsNaN(xs[i]) != math.IsNaN(ys[i]) {
			return false
		}
		if !math.IsNaN(xs[i]) && xs[i] != ys[i] {
			return false
		}
	}
	return true
}

func TestFrame(t *testing.T) {
	t.Parallel()

	Convey("New", t, func() {
		Convey("sorts rows by date", func() {
			f, err := New([]dates.Date{day(5), day(1), day(4)},
				Series{"x", []float64{5.0, 1.0, 4.0}})
			So(err, ShouldBeNil)
			So(f.Index(), ShouldResemble, []dates.Date{day(1), day(4), day(5)})
			So(f.Column("x"), ShouldResemble, []float64{1.0, 4.0, 5.0})
		})

		Convey("rejects duplicate dates, names and ragged columns", func() {
			_, err := New([]dates.Date{day(1), day(1)}, Series{"x", []float64{1, 2}})
			So(err, ShouldNotBeNil)
			_, err = New([]dates.Date{day(1)},
				Series{"x", []float64{1}}, Series{"x", []float64{2}})
			So(err, ShouldNotBeNil)
			_, err = New([]dates.Date{day(1)}, Series{"x", []float64{1, 2}})
			So(err, ShouldNotBeNil)
		})

		Convey("empty frame", func() {
			f := Empty()
			So(f.NumRows(), ShouldEqual, 0)
			So(f.NumColumns(), ShouldEqual, 0)
			So(f.Column("x"), ShouldBeNil)
			So(math.IsNaN(f.Value(0, "x")), ShouldBeTrue)
		})
	})

	Convey("Join", t, func() {
		f1, err := New([]dates.Date{day(1), day(4)}, Series{"a", []float64{1, 4}})
		So(err, ShouldBeNil)
		f2, err := New([]dates.Date{day(4), day(5)}, Series{"b", []float64{40, 50}})
		So(err, ShouldBeNil)

		Convey("outer-joins on the date union", func() {
			j, err := f1.Join(f2)
			So(err, ShouldBeNil)
			So(j.Index(), ShouldResemble, []dates.Date{day(1), day(4), day(5)})
			So(j.Columns(), ShouldResemble, []string{"a", "b"})
			So(eqNaN(j.Column("a"), []float64{1, 4, nan}), ShouldBeTrue)
			So(eqNaN(j.Column("b"), []float64{nan, 40, 50}), ShouldBeTrue)
		})

		Convey("joining an empty frame keeps the original", func() {
			j, err := f1.Join(Empty())
			So(err, ShouldBeNil)
			So(j.Index(), ShouldResemble, f1.Index())
			So(j.Column("a"), ShouldResemble, f1.Column("a"))
		})

		Convey("rejects colliding columns", func() {
			_, err := f1.Join(f1)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Rename", t, func() {
		f, err := New([]dates.Date{day(1)},
			Series{"vp:gdp", []float64{1}}, Series{"vp:cpi", []float64{2}})
		So(err, ShouldBeNil)

		Convey("strips prefixes preserving order", func() {
			So(f.Rename(func(s string) string {
				return strings.TrimPrefix(s, "vp:")
			}), ShouldBeNil)
			So(f.Columns(), ShouldResemble, []string{"gdp", "cpi"})
			So(f.Column("gdp"), ShouldResemble, []float64{1.0})
		})

		Convey("rejects collisions", func() {
			So(f.Rename(func(string) string { return "same" }), ShouldNotBeNil)
		})
	})

	Convey("Clean", t, func() {
		// 2022-07-01 Fri, 04 Mon, 05 Tue, 06 Wed, 07 Thu, 08 Fri.
		Convey("resamples to business days and forward-fills gaps", func() {
			f, err := New(
				[]dates.Date{day(1), day(2), day(5), day(8)}, // 07-02 is a Saturday
				Series{"x", []float64{1, 2, nan, 8}},
				Series{"y", []float64{nan, nan, 50, nan}})
			So(err, ShouldBeNil)
			c := f.Clean(dates.Date{}, dates.Business)
			So(c.Index(), ShouldResemble,
				[]dates.Date{day(1), day(4), day(5), day(6), day(7), day(8)})
			// Saturday's sample is dropped; the gap before 07-08 is filled.
			So(eqNaN(c.Column("x"), []float64{1, 1, 1, 1, 1, 8}), ShouldBeTrue)
			// y has nothing after 07-05: no fill past the last observation.
			So(eqNaN(c.Column("y"), []float64{nan, nan, 50, nan, nan, nan}), ShouldBeTrue)
		})

		Convey("zero frequency resamples as business days", func() {
			f, err := New([]dates.Date{day(1), day(4)},
				Series{"x", []float64{1, 4}})
			So(err, ShouldBeNil)
			c := f.Clean(dates.Date{}, dates.Frequency(""))
			So(c.Index(), ShouldResemble, []dates.Date{day(1), day(4)})
			So(c.Column("x"), ShouldResemble, []float64{1.0, 4.0})
		})

		Convey("drops rows before start and leading all-NaN rows", func() {
			f, err := New(
				[]dates.Date{day(4), day(5), day(6), day(7)},
				Series{"x", []float64{4, nan, 6, 7}},
				Series{"y", []float64{nan, nan, 60, 70}})
			So(err, ShouldBeNil)
			c := f.Clean(day(5), dates.Business)
			// 07-05 remains all-NaN after the start trim, so it is dropped.
			So(c.Index(), ShouldResemble, []dates.Date{day(6), day(7)})
			So(c.Column("x"), ShouldResemble, []float64{6.0, 7.0})
			So(c.Column("y"), ShouldResemble, []float64{60.0, 70.0})
		})

		Convey("start past the last row yields an empty frame", func() {
			f, err := New([]dates.Date{day(1)}, Series{"x", []float64{1}})
			So(err, ShouldBeNil)
			So(f.Clean(day(15), dates.Business).NumRows(), ShouldEqual, 0)
		})
	})

	Convey("Describe", t, func() {
		f, err := New([]dates.Date{day(1), day(4), day(5)},
			Series{"x", []float64{1, nan, 3}},
			Series{"y", []float64{nan, nan, nan}})
		So(err, ShouldBeNil)
		ss := f.Describe()
		So(len(ss), ShouldEqual, 2)
		So(ss[0].Column, ShouldEqual, "x")
		So(ss[0].Count, ShouldEqual, 2)
		So(testutil.Round(ss[0].Mean, 5), ShouldEqual, 2.0)
		So(ss[0].Min, ShouldEqual, 1.0)
		So(ss[0].Max, ShouldEqual, 3.0)
		So(ss[1].Count, ShouldEqual, 0)
		So(math.IsNaN(ss[1].Mean), ShouldBeTrue)
	})
}

func TestWrite(t *testing.T) {
	t.Parallel()

	Convey("Frame writers", t, func() {
		f, err := New([]dates.Date{day(1), day(4)},
			Series{"gdp", []float64{1.5, nan}},
			Series{"cpi", []float64{100, 101}})
		So(err, ShouldBeNil)

		Convey("WriteCSV writes NaN as empty cells", func() {
			var buf bytes.Buffer
			So(f.WriteCSV(&buf, Params{}), ShouldBeNil)
			So(buf.String(), ShouldEqual,
				"date,gdp,cpi\n2022-07-01,1.5,100\n2022-07-04,,101\n")
		})

		Convey("WriteCSV respects Rows and NoHeader", func() {
			var buf bytes.Buffer
			So(f.WriteCSV(&buf, Params{Rows: 1, NoHeader: true}), ShouldBeNil)
			So(buf.String(), ShouldEqual, "2022-07-01,1.5,100\n")
		})

		Convey("WriteText aligns columns", func() {
			var buf bytes.Buffer
			So(f.WriteText(&buf, Params{}), ShouldBeNil)
			So(buf.String(), ShouldEqual, `      date | gdp | cpi
---------- | --- | ---
2022-07-01 | 1.5 | 100
2022-07-04 | NaN | 101
`)
		})

		Convey("WriteText checks MaxColWidth", func() {
			var buf bytes.Buffer
			So(f.WriteText(&buf, Params{MaxColWidth: 3}), ShouldNotBeNil)
		})
	})
}
