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

package dates

import (
	"time"

	"github.com/stockparfait/errors"
)

// Frequency is a calendar sampling frequency, using the vendor's single
// letter codes. The zero value behaves as Business.
type Frequency string

const (
	Business  = Frequency("B") // Monday through Friday
	Daily     = Frequency("D") // every calendar day
	Weekly    = Frequency("W") // Fridays
	Monthly   = Frequency("M") // last calendar day of the month
	Quarterly = Frequency("Q") // last day of March, June, September, December
	Annual    = Frequency("A") // December 31st
)

// ParseFrequency converts a frequency code string to Frequency. The empty
// string defaults to Business.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case "":
		return Business, nil
	case Business, Daily, Weekly, Monthly, Quarterly, Annual:
		return Frequency(s), nil
	}
	return "", errors.Reason("unknown frequency code: '%s'", s)
}

// String implements fmt.Stringer.
func (f Frequency) String() string { return string(f) }

// contains checks whether the date is a sample point of the frequency.
func (f Frequency) contains(d Date) bool {
	switch f {
	case Daily:
		return true
	case Business, "":
		wd := d.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	case Weekly:
		return d.Weekday() == time.Friday
	case Monthly:
		return d == d.MonthEnd()
	case Quarterly:
		return d == d.MonthEnd() && d.Month()%3 == 0
	case Annual:
		return d.Month() == 12 && d.Day() == 31
	}
	return false
}

// Range generates all sample dates of the frequency within the inclusive
// [start, end] interval, in ascending order. It returns nil when the
// interval is empty or either bound is zero.
func (f Frequency) Range(start, end Date) []Date {
	if start.IsZero() || end.IsZero() || start.After(end) {
		return nil
	}
	var res []Date
	for d := start; !d.After(end); d = d.AddDays(1) {
		if f.contains(d) {
			res = append(res, d)
		}
	}
	return res
}
