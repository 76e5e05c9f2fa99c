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

package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/NVIDIA/rgb-relay/pkg/config"
)

const payload = `{"sessionId":"abc","timestamp":1,"cssBackgroundColorTemplate":"rgb({red}, {green}, {blue})","red":1,"green":2,"blue":3}`

func TestConstants(t *testing.T) {
	if name != "rgbrelayd" {
		t.Errorf("name = %q, want %q", name, "rgbrelayd")
	}
	if versionDefault != "dev" {
		t.Errorf("versionDefault = %q, want %q", versionDefault, "dev")
	}
	if version == "" || commit == "" || date == "" {
		t.Error("build variables should not be empty")
	}
}

func TestNewServer_RelaysThroughMiddleware(t *testing.T) {
	var got string
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer downstream.Close()

	cfg := config.Default()
	cfg.Downstream.URL = downstream.URL + "/rgb"

	s, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, RelayPath, strings.NewReader(payload))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %q", w.Code, w.Body.String())
	}
	if w.Body.String() != "Java server is up and happily running!" {
		t.Errorf("body = %q", w.Body.String())
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id from server middleware")
	}
	if !strings.Contains(got, `"cssBackgroundColor":"rgb(1, 2, 3)"`) {
		t.Errorf("downstream payload = %s", got)
	}
}

func TestNewServer_DownstreamDown(t *testing.T) {
	downstream := httptest.NewServer(http.NotFoundHandler())
	url := downstream.URL
	downstream.Close()

	cfg := config.Default()
	cfg.Downstream.URL = url

	s, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, RelayPath, strings.NewReader(payload)))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestNewServer_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Downstream.URL = "not a url"

	if _, err := NewServer(cfg); err == nil {
		t.Error("expected error for invalid downstream URL")
	}
}

func TestServerConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Address = "127.0.0.1"
	cfg.Server.Port = 6000
	cfg.Server.RateLimit = 5
	cfg.Server.RateLimitBurst = 7
	cfg.Server.ShutdownTimeout = 3 * time.Second
	cfg.Server.ReadTimeout = 0

	sc := serverConfig(cfg)

	if sc.Address != "127.0.0.1" || sc.Port != 6000 {
		t.Errorf("listener = %s:%d", sc.Address, sc.Port)
	}
	if float64(sc.RateLimit) != 5 || sc.RateLimitBurst != 7 {
		t.Errorf("rate = %v/%d", sc.RateLimit, sc.RateLimitBurst)
	}
	if sc.ShutdownTimeout != 3*time.Second {
		t.Errorf("ShutdownTimeout = %v", sc.ShutdownTimeout)
	}
	if sc.ReadTimeout <= 0 {
		t.Error("zero ReadTimeout should keep the server default")
	}
}

func TestNewServer_RejectsDownstreamTimeoutBeyondWriteTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.Downstream.Timeout = 5 * time.Second
	cfg.Server.WriteTimeout = 300 * time.Millisecond

	if _, err := NewServer(cfg); err == nil {
		t.Fatal("expected error when downstream timeout outlives the write timeout")
	}
}

func TestNewServer_SlowDownstreamAnsweredWithinWriteTimeout(t *testing.T) {
	release := make(chan struct{})
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer downstream.Close()
	defer close(release)

	cfg := config.Default()
	cfg.Downstream.URL = downstream.URL + "/rgb"
	cfg.Downstream.Timeout = 300 * time.Millisecond
	cfg.Server.WriteTimeout = time.Second

	s, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}

	relay := httptest.NewUnstartedServer(s.Handler())
	relay.Config.WriteTimeout = cfg.Server.WriteTimeout
	relay.Start()
	defer relay.Close()

	resp, err := http.Post(relay.URL+RelayPath, "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("POST failed instead of returning a response: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}
