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

// Package vpapi implements the client for the VP Analysis data API.
//
// The API serves macro time series and per-asset factor data. Requests are
// authenticated with a bearer API key, and responses arrive as Arrow IPC
// streams which this package decodes into frame.Frame values.
//
// The server caps the number of identifiers per request, so identifier lists
// are de-duplicated and split into fixed-size batches; the batches are
// fetched sequentially and the resulting frames are joined column-wise into
// a single frame.
//
// A Client is injected into a context with UseClient or UseClientFromEnv,
// and all API calls retrieve it from there.
package vpapi
