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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	outcomeSuccess          = "success"
	outcomeInvalid          = "invalid"
	outcomeDownstreamStatus = "downstream_status"
	outcomeUnavailable      = "downstream_unavailable"
	outcomeMalformed        = "malformed"
	outcomeTooLarge         = "too_large"
	outcomeMethod           = "method_not_allowed"
	outcomeMediaType        = "unsupported_media_type"
	outcomeInternal         = "internal"

	resultUnavailable = "unavailable"
)

var (
	relayOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rgbrelay_relay_requests_total",
			Help: "Total number of relay requests by outcome",
		},
		[]string{"outcome"},
	)

	validationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rgbrelay_validation_failures_total",
			Help: "Total number of rejected payloads by validation cause",
		},
		[]string{"cause"},
	)

	downstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rgbrelay_downstream_request_duration_seconds",
			Help:    "Downstream call latency in seconds by result (2xx, 4xx, 5xx, unavailable)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"},
	)
)
