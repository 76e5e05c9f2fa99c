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

// Package api runs the relay as an HTTP service.
//
// It loads configuration, sets up structured logging, mounts the relay
// handler at /rgb and hands the lifecycle to pkg/server.
//
// Usage:
//
//	cfg, err := config.Load(ctx, "")
//	if err != nil {
//	    return err
//	}
//	if err := api.ServeWithConfig(ctx, cfg); err != nil {
//	    log.Fatalf("server error: %v", err)
//	}
//
// # Endpoints
//
// Application endpoint (rate limited):
//   - POST /rgb - validate a color payload and relay it downstream
//
// System endpoints (no rate limiting):
//   - GET /health  - liveness check
//   - GET /ready   - readiness check
//   - GET /metrics - Prometheus metrics
//   - GET /        - service index
//
// Example:
//
//	curl -X POST http://localhost:5000/rgb \
//	  -H "Content-Type: application/json" \
//	  -d '{"sessionId":"abc","timestamp":1700000000,
//	       "cssBackgroundColorTemplate":"rgb({red}, {green}, {blue})",
//	       "red":10,"green":20,"blue":30}'
//
// Responses are plain text. Validation failures return 422, an unreachable
// downstream returns 503 and a downstream error status is passed through
// with its body.
package api
