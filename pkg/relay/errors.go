// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package relay

import (
	"fmt"
	"net/http"
)

// ValidationCause identifies why a payload was rejected.
type ValidationCause string

const (
	CauseMissingSessionID           ValidationCause = "MISSING_SESSION_ID"
	CauseMissingTimestamp           ValidationCause = "MISSING_TIMESTAMP"
	CauseMissingTemplate            ValidationCause = "MISSING_TEMPLATE"
	CauseMissingRGBValuesInTemplate ValidationCause = "MISSING_RGB_VALUES_IN_TEMPLATE"
	CauseMissingRGBValues           ValidationCause = "MISSING_RGB_VALUES"
	CauseRGBValueOutOfRange         ValidationCause = "RGB_VALUE_OUT_OF_RANGE"
)

// ValidationError reports the first failed validation rule.
type ValidationError struct {
	Cause ValidationCause
	// Field is the offending key, when a single one is known.
	Field string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid payload: %s (%s)", e.Cause, e.Field)
	}
	return fmt.Sprintf("invalid payload: %s", e.Cause)
}

// DownstreamStatusError is returned when the downstream answers with a
// non-2xx status. The body and content type are relayed to the caller.
type DownstreamStatusError struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

func (e *DownstreamStatusError) Error() string {
	return fmt.Sprintf("downstream returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}
