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
	"github.com/vpanalysis/vpdata/dates"
)

// SeriesQuery holds the optional parameters of a data request. Builder
// methods create a copy, leaving the original intact; the zero value
// requests the server defaults.
type SeriesQuery struct {
	freq          dates.Frequency
	currency      string
	firstRevision bool
	validateOld   int // 0 = server default
}

// NewSeriesQuery creates an empty query.
func NewSeriesQuery() *SeriesQuery {
	return &SeriesQuery{}
}

// Copy creates a copy of the query. It is primarily used in its builder
// methods.
func (q *SeriesQuery) Copy() *SeriesQuery {
	q2 := *q
	return &q2
}

// Freq requests resampling to the given frequency on the server.
func (q *SeriesQuery) Freq(f dates.Frequency) *SeriesQuery {
	q2 := q.Copy()
	q2.freq = f
	return q2
}

// Currency requests conversion of currency-denominated series.
func (q *SeriesQuery) Currency(c string) *SeriesQuery {
	q2 := q.Copy()
	q2.currency = c
	return q2
}

// FirstRevision requests the first published revision of each data point
// instead of the latest.
func (q *SeriesQuery) FirstRevision(b bool) *SeriesQuery {
	q2 := q.Copy()
	q2.firstRevision = b
	return q2
}

// ValidateOld sets the vendor's stale-data validation window; 0 leaves it to
// the server default.
func (q *SeriesQuery) ValidateOld(n int) *SeriesQuery {
	q2 := q.Copy()
	q2.validateOld = n
	return q2
}

// seriesRequest is the JSON body of a series data request. The
// first_revision flag is always present; the remaining options only when
// set.
type seriesRequest struct {
	Series        []string `json:"series"`
	FirstRevision bool     `json:"first_revision"`
	Freq          string   `json:"freq,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	ValidateOld   int      `json:"validate_old,omitempty"`
}

// assetRequest is the JSON body of an asset-factor data request.
type assetRequest struct {
	Assets        []string `json:"assets"`
	Factors       []string `json:"factors"`
	FirstRevision bool     `json:"first_revision"`
	Freq          string   `json:"freq,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	ValidateOld   int      `json:"validate_old,omitempty"`
}

func (q *SeriesQuery) seriesBody(series []string) seriesRequest {
	return seriesRequest{
		Series:        series,
		FirstRevision: q.firstRevision,
		Freq:          string(q.freq),
		Currency:      q.currency,
		ValidateOld:   q.validateOld,
	}
}

func (q *SeriesQuery) assetBody(assets, factors []string) assetRequest {
	return assetRequest{
		Assets:        assets,
		Factors:       factors,
		FirstRevision: q.firstRevision,
		Freq:          string(q.freq),
		Currency:      q.currency,
		ValidateOld:   q.validateOld,
	}
}
