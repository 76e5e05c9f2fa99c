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

package server

import (
	"net/http"
	"time"

	"github.com/NVIDIA/rgb-relay/pkg/errors"
	"github.com/NVIDIA/rgb-relay/pkg/serializer"
)

// HealthResponse is the body of /health and /ready.
type HealthResponse struct {
	Status    string    `json:"status" yaml:"status"`
	Name      string    `json:"name" yaml:"name"`
	Version   string    `json:"version" yaml:"version"`
	Phase     string    `json:"phase" yaml:"phase"`
	Uptime    string    `json:"uptime,omitempty" yaml:"uptime,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Reason    string    `json:"reason,omitempty" yaml:"reason,omitempty"`
}

var notReadyReasons = map[phase]string{
	phaseStarting: "listener is not bound yet",
	phaseDraining: "shutting down, new relay requests are not accepted",
}

func (s *Server) healthResponse(status string) HealthResponse {
	p, since := s.currentPhase()
	resp := HealthResponse{
		Status:    status,
		Name:      s.config.Name,
		Version:   s.config.Version,
		Phase:     p.String(),
		Timestamp: time.Now().UTC(),
	}
	if p == phaseServing {
		resp.Uptime = time.Since(since).Round(time.Second).String()
	}
	return resp
}

// handleHealth reports liveness; it answers 200 in every phase.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowHealthMethod(w, r) {
		return
	}
	serializer.RespondJSON(w, http.StatusOK, s.healthResponse("healthy"))
}

// handleReady answers 200 only while the server is serving.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !allowHealthMethod(w, r) {
		return
	}

	if !s.isReady() {
		resp := s.healthResponse("not_ready")
		p, _ := s.currentPhase()
		resp.Reason = notReadyReasons[p]
		serializer.RespondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, s.healthResponse("ready"))
}

// allowHealthMethod accepts GET and HEAD and writes a 405 ErrorResponse otherwise.
func allowHealthMethod(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	WriteError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeMethodNotAllowed,
		"method not allowed", false, nil)
	return false
}
