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
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"

	"github.com/vpanalysis/vpdata/frame"
)

// uniqueIDs removes duplicate identifiers, keeping the first occurrence
// order so the resulting column order is deterministic.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	res := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}

// batches splits ids into chunks of at most chunkSize.
func batches(ids []string) [][]string {
	var res [][]string
	for len(ids) > chunkSize {
		res = append(res, ids[:chunkSize])
		ids = ids[chunkSize:]
	}
	if len(ids) > 0 {
		res = append(res, ids)
	}
	return res
}

// postFrame sends a single POST request and decodes the Arrow IPC response
// into a frame.
func (c *Client) postFrame(ctx context.Context, path string, body interface{}) (*frame.Frame, error) {
	js, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Annotate(err, "failed to encode request body")
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(js))
	if err != nil {
		return nil, errors.Annotate(err, "failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", arrowMIME)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Annotate(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			msg = []byte("(unreadable response body)")
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(msg)}
	}
	f, err := ReadFrame(resp.Body)
	if err != nil {
		return nil, errors.Annotate(err, "failed to decode response")
	}
	return f, nil
}

// fetchFrame de-duplicates ids, splits them into batches of chunkSize,
// fetches the batches sequentially and joins the per-batch frames
// column-wise. mkBody builds the request body for one batch.
func fetchFrame(ctx context.Context, path string, ids []string,
	mkBody func(batch []string) interface{}) (*frame.Frame, error) {
	client := GetClient(ctx)
	if client == nil {
		return nil, errors.Reason("no client in context")
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return frame.Empty(), nil
	}
	if client.apiKey == "" {
		return nil, errors.Annotate(ErrUnauthorized, "no API key configured")
	}
	res := frame.Empty()
	bs := batches(ids)
	for i, b := range bs {
		f, err := client.postFrame(ctx, path, mkBody(b))
		if err != nil {
			return nil, errors.Annotate(err, "failed to fetch batch %d of %d",
				i+1, len(bs))
		}
		logging.Infof(ctx, "VP data: fetched batch %d of %d: %d rows, %d columns",
			i+1, len(bs), f.NumRows(), f.NumColumns())
		res, err = res.Join(f)
		if err != nil {
			return nil, errors.Annotate(err, "failed to merge batch %d of %d",
				i+1, len(bs))
		}
	}
	return res, nil
}
