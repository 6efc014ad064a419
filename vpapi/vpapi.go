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
	"net/http"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/stockparfait/errors"
)

type contextKey int

const (
	clientContextKey contextKey = iota
)

// URL is the default base URL of the server. It may be overwritten before
// creating a new client.
var URL = "https://api.variantperception.com"

const (
	seriesPath    = "/api/v1/series"
	assetDataPath = "/api/v1/asset-data"
	metadataPath  = "/api/v1/series/metadata"

	// arrowMIME is the content type of the binary columnar responses.
	arrowMIME = "application/vnd.apache.arrow.stream"

	// chunkSize is the maximum number of identifiers in a single request;
	// longer lists are split into ceil(N/chunkSize) sequential batches.
	chunkSize = 40
)

// Client for querying VP Analysis series and asset-factor data.
type Client struct {
	baseURL    string // the base URL of the server
	apiKey     string // your very own secret key
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout. The default is 10 minutes, since
// large series requests may take the server a while to assemble.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL overrides the base URL of the server.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// newClient creates a new client.
func newClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetClient extracts the Client from the context, if any.
func GetClient(ctx context.Context) *Client {
	c, ok := ctx.Value(clientContextKey).(*Client)
	if !ok {
		return nil
	}
	return c
}

// UseClient creates a new client based on the API key and injects it into
// the context.
func UseClient(ctx context.Context, apiKey string, opts ...ClientOption) context.Context {
	return context.WithValue(ctx, clientContextKey, newClient(URL, apiKey, opts...))
}

// envConfig is the environment-based client configuration.
type envConfig struct {
	APIKey  string `envconfig:"VP_ANALYSIS_API_KEY"`
	BaseURL string `envconfig:"VP_DATA_API_URL"`
}

// UseClientFromEnv creates a new client configured from the environment
// (VP_ANALYSIS_API_KEY and optionally VP_DATA_API_URL) and injects it into
// the context.
func UseClientFromEnv(ctx context.Context, opts ...ClientOption) (context.Context, error) {
	var cfg envConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Annotate(err, "failed to read client environment")
	}
	base := cfg.BaseURL
	if base == "" {
		base = URL
	}
	client := newClient(base, cfg.APIKey, opts...)
	return context.WithValue(ctx, clientContextKey, client), nil
}
