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
	"fmt"
	"net/http"

	"github.com/stockparfait/errors"
)

// Sentinel errors for the failure classes of the API. Match with errors.Is.
var (
	// ErrUnauthorized indicates a missing or rejected API key.
	ErrUnauthorized = errors.Reason("vpapi: authentication failed")
	// ErrRateLimited indicates that the server throttled the request. The
	// client performs no retries; it is up to the caller to slow down.
	ErrRateLimited = errors.Reason("vpapi: rate limited")
)

// APIError is a non-200 response from the server, with the response body
// preserved for diagnostics.
type APIError struct {
	StatusCode int
	Body       string
}

var _ error = &APIError{}

// Error implements the error interface.
func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("vpapi: server returned %d %s: %s",
		e.StatusCode, http.StatusText(e.StatusCode), body)
}

// Is maps HTTP status codes to the sentinel errors, so that
// errors.Is(err, ErrUnauthorized) and errors.Is(err, ErrRateLimited) work on
// an annotated chain containing an *APIError.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized ||
			e.StatusCode == http.StatusForbidden
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}
