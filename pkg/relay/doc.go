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

// Package relay implements the RGB relay: it validates a color payload,
// renders the RGB components into a CSS color string, and forwards the
// transformed payload to a downstream service.
//
// # Payload
//
// The inbound body is a JSON object with these required keys:
//
//	{
//	  "sessionId": "abc",
//	  "timestamp": 1700000000,
//	  "cssBackgroundColorTemplate": "rgb({red}, {green}, {blue})",
//	  "red": 10, "green": 20, "blue": 30
//	}
//
// A key counts as present even when its value is null. Any other keys,
// such as cssTextColorTemplate and text, are forwarded untouched.
//
// # Validation
//
// Validate checks the payload in a fixed order and stops at the first
// failure:
//
//  1. sessionId present
//  2. timestamp present
//  3. cssBackgroundColorTemplate present and containing {red}, {green} and {blue}
//  4. red, green and blue present
//  5. red, green and blue integers in [0, 255]
//
// A failure is reported as a *ValidationError carrying a ValidationCause.
//
// # Forwarding
//
// The downstream receives the inbound object minus the template and the
// three components, plus the rendered cssBackgroundColor:
//
//	{"sessionId": "abc", "timestamp": 1700000000, "cssBackgroundColor": "rgb(10, 20, 30)"}
//
// A transport failure is returned as a SERVICE_UNAVAILABLE StructuredError.
// A non-2xx reply is returned as a *DownstreamStatusError holding the
// downstream status, body and content type.
//
// # HTTP mapping
//
// Handler turns the outcome into a plain text response:
//
//	200  success message
//	422  "The Horror! " + validation message
//	503  downstream unavailable message
//	xxx  downstream status and body, verbatim
//
// Non-POST requests get 405, bodies that are not a JSON object get 400 and
// bodies above the configured limit get 413. A Content-Type other than
// application/json or a +json type gets 415; a missing one is accepted.
//
// Each request runs under Config.HandlerTimeout. When it expires during the
// downstream call the caller gets 503, written before the server write
// deadline as long as HandlerTimeout stays below it.
package relay
