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

// Package server provides the HTTP server the relay runs in.
//
// It hosts caller supplied handlers behind a fixed middleware chain and
// adds the operational endpoints a Kubernetes or systemd deployment needs.
//
// # Usage
//
//	s := server.New(
//	    server.WithName("rgbrelayd"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/rgb": relayHandler.Handle,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// Run blocks until ctx is canceled or SIGINT/SIGTERM arrives, then drains
// in-flight requests within Config.ShutdownTimeout.
//
// # Middleware
//
// Every handler passed with WithHandler is wrapped, outermost first:
//
//	metrics -> request ID -> panic recovery -> rate limit -> logging
//
// Request IDs are read from X-Request-Id when it holds a valid UUID and
// generated otherwise. The ID is echoed in the response header.
//
// When the token bucket is empty the server answers 429 with Retry-After.
//
// # System Endpoints
//
// These bypass the middleware chain:
//
//	GET /health   liveness, always 200, with phase and uptime
//	GET /ready    readiness, 503 while starting and while draining
//	GET /metrics  Prometheus metrics
//	GET /         service name, version and routes
//
// # Errors
//
// Errors raised by the server itself use a JSON body:
//
//	{
//	  "code": "RATE_LIMIT_EXCEEDED",
//	  "message": "Rate limit exceeded",
//	  "details": {"limit": 100, "burst": 200},
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2026-01-02T12:00:00Z",
//	  "retryable": true
//	}
//
// WriteErrorFromErr maps a pkg/errors StructuredError to the matching
// status code.
//
// # systemd
//
// When NOTIFY_SOCKET is set the server sends READY=1 once the listener is
// bound and STOPPING=1 when shutdown starts, so the unit can use
// Type=notify.
package server
