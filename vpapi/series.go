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
	"context"
	"net/url"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"

	"github.com/vpanalysis/vpdata/dates"
	"github.com/vpanalysis/vpdata/frame"
)

// seriesPrefix marks identifiers from the vendor's own macro catalog.
const seriesPrefix = "vp:"

// defaultValidateOld is the stale-data validation window used by
// GetDataFrame when no query is given.
const defaultValidateOld = 20

// GetSeries fetches macro series from the vendor catalog by their bare
// names: each id is requested as "vp:<id>", and the prefix is stripped from
// the resulting column names.
func GetSeries(ctx context.Context, ids []string) (*frame.Frame, error) {
	prefixed := make([]string, len(ids))
	for i, id := range ids {
		prefixed[i] = seriesPrefix + id
	}
	f, err := GetDataFrame(ctx, prefixed, NewSeriesQuery())
	if err != nil {
		return nil, err
	}
	if err := f.Rename(func(s string) string {
		return strings.TrimPrefix(s, seriesPrefix)
	}); err != nil {
		return nil, errors.Annotate(err, "failed to strip series prefixes")
	}
	return f, nil
}

// GetDataFrame fetches the given series with the query options. A nil query
// requests the default stale-data validation window. Identifiers are
// de-duplicated and fetched in sequential batches; the result is one frame
// with a column per series.
func GetDataFrame(ctx context.Context, ids []string, q *SeriesQuery) (*frame.Frame, error) {
	if q == nil {
		q = NewSeriesQuery().ValidateOld(defaultValidateOld)
	}
	f, err := fetchFrame(ctx, seriesPath, ids, func(batch []string) interface{} {
		return q.seriesBody(batch)
	})
	if err != nil {
		return nil, errors.Annotate(err, "failed to fetch series data")
	}
	return f, nil
}

// GetAssetData fetches asset-factor data: the value of each factor for each
// asset identifier. Assets are batched the same way series are; the factor
// list rides along with every batch.
func GetAssetData(ctx context.Context, assets, factors []string, q *SeriesQuery) (*frame.Frame, error) {
	if q == nil {
		q = NewSeriesQuery()
	}
	if len(factors) == 0 {
		return nil, errors.Reason("no factors requested")
	}
	f, err := fetchFrame(ctx, assetDataPath, assets, func(batch []string) interface{} {
		return q.assetBody(batch, factors)
	})
	if err != nil {
		return nil, errors.Annotate(err, "failed to fetch asset-factor data")
	}
	return f, nil
}

// SeriesMeta is the vendor's metadata record for a single series.
type SeriesMeta struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Frequency   string     `json:"frequency"`
	Unit        string     `json:"unit"`
	Currency    string     `json:"currency"`
	FirstDate   dates.Date `json:"first_date"`
	LastDate    dates.Date `json:"last_date"`
	RefreshedAt dates.Time `json:"refreshed_at"`
}

// seriesInfoResponse is the JSON format of the metadata endpoint.
type seriesInfoResponse struct {
	Series []SeriesMeta `json:"series"`
}

// SeriesInfo fetches the catalog metadata for the given series ids.
func SeriesInfo(ctx context.Context, ids []string) ([]SeriesMeta, error) {
	client := GetClient(ctx)
	if client == nil {
		return nil, errors.Reason("no client in context")
	}
	if client.apiKey == "" {
		return nil, errors.Annotate(ErrUnauthorized, "no API key configured")
	}
	uri := client.baseURL + metadataPath
	query := make(url.Values)
	query.Set("series", strings.Join(uniqueIDs(ids), ","))
	query.Set("api_key", client.apiKey)
	var res seriesInfoResponse
	if err := fetch.FetchJSON(ctx, uri, &res, query, nil); err != nil {
		return nil, errors.Annotate(err, "failed to fetch series metadata")
	}
	return res.Series, nil
}
