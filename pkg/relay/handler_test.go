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
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/rgb-relay/pkg/defaults"
	"github.com/NVIDIA/rgb-relay/pkg/server"
)

const validBody = `{
	"sessionId": "abc",
	"timestamp": 1700000000123,
	"cssBackgroundColorTemplate": "rgb({red}, {green}, {blue})",
	"red": 1, "green": 2, "blue": 3,
	"cssTextColorTemplate": "rgb(255, 255, 255)",
	"text": "hi"
}`

// recorder is a downstream stub that records the last request it received.
type recorder struct {
	mu          sync.Mutex
	body        []byte
	contentType string
	method      string
	calls       int

	status    int
	reply     string
	replyType string
}

func (d *recorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	d.mu.Lock()
	d.body = b
	d.contentType = r.Header.Get("Content-Type")
	d.method = r.Method
	d.calls++
	d.mu.Unlock()

	if d.replyType != "" {
		w.Header().Set("Content-Type", d.replyType)
	}
	status := d.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, d.reply)
}

func newTestHandler(t *testing.T, downstreamURL string) *Handler {
	t.Helper()
	h, err := NewHandler(Config{DownstreamURL: downstreamURL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return h
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/rgb", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandler_Success(t *testing.T) {
	down := &recorder{}
	srv := httptest.NewServer(down)
	defer srv.Close()

	h := newTestHandler(t, srv.URL+"/rgb")
	before := testutil.ToFloat64(relayOutcomes.WithLabelValues(outcomeSuccess))

	w := post(h, validBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Java server is up and happily running!", w.Body.String())
	assert.Equal(t, before+1, testutil.ToFloat64(relayOutcomes.WithLabelValues(outcomeSuccess)))

	down.mu.Lock()
	defer down.mu.Unlock()
	assert.Equal(t, 1, down.calls)
	assert.Equal(t, http.MethodPost, down.method)
	assert.Equal(t, "application/json", down.contentType)

	var sent map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(down.body, &sent))
	assert.JSONEq(t, `"rgb(1, 2, 3)"`, string(sent[KeyBackgroundColor]))
	assert.Equal(t, "1700000000123", string(sent[KeyTimestamp]))
	assert.JSONEq(t, `"abc"`, string(sent[KeySessionID]))
	assert.JSONEq(t, `"hi"`, string(sent[KeyText]))
	assert.JSONEq(t, `"rgb(255, 255, 255)"`, string(sent[KeyTextTemplate]))
	for _, k := range []string{KeyBackgroundTemplate, KeyRed, KeyGreen, KeyBlue} {
		_, ok := sent[k]
		assert.False(t, ok, "downstream payload should not contain %q", k)
	}
}

func TestHandler_ValidationErrors(t *testing.T) {
	down := &recorder{}
	srv := httptest.NewServer(down)
	defer srv.Close()

	h := newTestHandler(t, srv.URL)

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing session id",
			body: `{"timestamp":1,"cssBackgroundColorTemplate":"rgb({red},{green},{blue})","red":1,"green":2,"blue":3}`,
			want: "The Horror! Missing session id.",
		},
		{
			name: "missing timestamp",
			body: `{"sessionId":"a","cssBackgroundColorTemplate":"rgb({red},{green},{blue})","red":1,"green":2,"blue":3}`,
			want: "The Horror! Missing timestamp.",
		},
		{
			name: "missing template",
			body: `{"sessionId":"a","timestamp":1,"red":1,"green":2,"blue":3}`,
			want: "The Horror! Missing background color css template.",
		},
		{
			name: "template missing placeholder",
			body: `{"sessionId":"a","timestamp":1,"cssBackgroundColorTemplate":"rgb({red},{green})","red":1,"green":2,"blue":3}`,
			want: "The Horror! Missing one or more RGB values in the template.",
		},
		{
			name: "missing blue",
			body: `{"sessionId":"a","timestamp":1,"cssBackgroundColorTemplate":"rgb({red},{green},{blue})","red":1,"green":2}`,
			want: "The Horror! Missing one or more RGB values.",
		},
		{
			name: "out of range",
			body: `{"sessionId":"a","timestamp":1,"cssBackgroundColorTemplate":"rgb({red},{green},{blue})","red":300,"green":2,"blue":3}`,
			want: "The Horror! The RGB values should be integers between 0 and 255.",
		},
		{
			name: "non-integer",
			body: `{"sessionId":"a","timestamp":1,"cssBackgroundColorTemplate":"rgb({red},{green},{blue})","red":1.5,"green":2,"blue":3}`,
			want: "The Horror! The RGB values should be integers between 0 and 255.",
		},
		{
			name: "boolean",
			body: `{"sessionId":"a","timestamp":1,"cssBackgroundColorTemplate":"rgb({red},{green},{blue})","red":true,"green":2,"blue":3}`,
			want: "The Horror! The RGB values should be integers between 0 and 255.",
		},
		{
			name: "null session id is present",
			body: `{"sessionId":null,"cssBackgroundColorTemplate":"rgb({red},{green},{blue})","red":1,"green":2,"blue":3}`,
			want: "The Horror! Missing timestamp.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(h, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
			assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
		})
	}

	down.mu.Lock()
	defer down.mu.Unlock()
	assert.Zero(t, down.calls, "invalid payloads must not reach the downstream")
}

func TestHandler_DownstreamUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	h := newTestHandler(t, url)
	w := post(h, validBody)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "The java server is sad and not answering any calls :(", w.Body.String())
}

func TestHandler_DownstreamTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	h, err := NewHandler(Config{DownstreamURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	w := post(h, validBody)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandler_HandlerTimeoutBeatsClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()
	defer close(release)

	h, err := NewHandler(Config{
		DownstreamURL:  srv.URL,
		Timeout:        5 * time.Second,
		HandlerTimeout: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	start := time.Now()
	w := post(h, validBody)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "The java server is sad and not answering any calls :(", w.Body.String())
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNewHandler_DefaultHandlerTimeout(t *testing.T) {
	h := newTestHandler(t, "http://127.0.0.1:8080/rgb")
	assert.Equal(t, defaults.RelayHandlerTimeout, h.handlerTimeout)
}

func TestHandler_ContentType(t *testing.T) {
	down := &recorder{}
	srv := httptest.NewServer(down)
	defer srv.Close()

	h := newTestHandler(t, srv.URL)

	tests := []struct {
		contentType string
		want        int
	}{
		{"", http.StatusOK},
		{"application/json", http.StatusOK},
		{"application/json; charset=utf-8", http.StatusOK},
		{"Application/JSON", http.StatusOK},
		{"application/merge-patch+json", http.StatusOK},
		{"text/plain", http.StatusUnsupportedMediaType},
		{"application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"application/xml", http.StatusUnsupportedMediaType},
		{";;", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/rgb", strings.NewReader(validBody))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnsupportedMediaType {
				assert.Equal(t, "The Horror! Content-Type must be application/json.", w.Body.String())
			}
		})
	}
}

func TestHandler_LogsRequestIDFromContext(t *testing.T) {
	down := &recorder{}
	srv := httptest.NewServer(down)
	defer srv.Close()

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := newTestHandler(t, srv.URL)
	s := server.New(server.WithHandler(map[string]http.HandlerFunc{"/rgb": h.Handle}))

	const requestID = "3f1c2a9e-7b4d-4e2a-9c1f-0a1b2c3d4e5f"
	req := httptest.NewRequest(http.MethodPost, "/rgb", strings.NewReader(validBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), `"msg":"payload relayed"`)
	assert.Contains(t, buf.String(), `"requestID":"`+requestID+`"`)
}

func TestHandler_DownstreamStatusPassThrough(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		reply     string
		replyType string
		wantType  string
	}{
		{
			name:     "plain 500",
			status:   http.StatusInternalServerError,
			reply:    "boom",
			wantType: "text/plain; charset=utf-8",
		},
		{
			name:      "json 400",
			status:    http.StatusBadRequest,
			reply:     `{"error":"bad color"}`,
			replyType: "application/json",
			wantType:  "application/json",
		},
		{
			name:     "empty 404",
			status:   http.StatusNotFound,
			reply:    "",
			wantType: "",
		},
		{
			name:     "redirect status",
			status:   http.StatusNotModified,
			reply:    "",
			wantType: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			down := &recorder{status: tt.status, reply: tt.reply, replyType: tt.replyType}
			srv := httptest.NewServer(down)
			defer srv.Close()

			h := newTestHandler(t, srv.URL)
			w := post(h, validBody)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.reply, w.Body.String())
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, w.Header().Get("Content-Type"))
			}
		})
	}
}

func TestHandler_RequestErrors(t *testing.T) {
	down := &recorder{}
	srv := httptest.NewServer(down)
	defer srv.Close()

	h, err := NewHandler(Config{DownstreamURL: srv.URL, MaxBodyBytes: 256})
	require.NoError(t, err)

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/rgb", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))
	})

	malformed := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"not json", "sessionId=abc"},
		{"array", `[1,2,3]`},
		{"null", `null`},
		{"string", `"abc"`},
		{"trailing data", `{"sessionId":"a"} {"x":1}`},
		{"truncated", `{"sessionId":`},
	}
	for _, tt := range malformed {
		t.Run("malformed "+tt.name, func(t *testing.T) {
			w := post(h, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "The Horror! Malformed JSON payload.", w.Body.String())
		})
	}

	t.Run("too large", func(t *testing.T) {
		body := `{"sessionId":"` + strings.Repeat("a", 1024) + `"}`
		w := post(h, body)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	down.mu.Lock()
	defer down.mu.Unlock()
	assert.Zero(t, down.calls)
}

func TestHandler_CustomMessages(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	h, err := NewHandler(Config{
		DownstreamURL: url,
		Messages: Messages{
			Prefix:                "Oops: ",
			MissingSessionID:      "no session",
			DownstreamUnavailable: "down",
		},
	})
	require.NoError(t, err)

	w := post(h, `{}`)
	assert.Equal(t, "Oops: no session", w.Body.String())

	w = post(h, validBody)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "down", w.Body.String())
}

func TestNewHandler_InvalidURL(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"127.0.0.1:8080/rgb",
		"ftp://example.com/rgb",
		"http:///rgb",
		"://bad",
	}
	for _, u := range tests {
		t.Run(u, func(t *testing.T) {
			_, err := NewHandler(Config{DownstreamURL: u})
			assert.Error(t, err)
		})
	}

	h, err := NewHandler(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, DefaultDownstreamURL, h.DownstreamURL())
}
