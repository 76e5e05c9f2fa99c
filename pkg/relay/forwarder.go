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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/NVIDIA/rgb-relay/pkg/defaults"
	"github.com/NVIDIA/rgb-relay/pkg/errors"
)

// maxDownstreamBodyBytes caps how much of a downstream reply is buffered.
const maxDownstreamBodyBytes = 4 << 20

// NewHTTPClient returns a client for downstream calls with connection
// level timeouts from pkg/defaults and an overall timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaults.DownstreamTimeout
	}
	dialer := &net.Dialer{
		Timeout:   defaults.HTTPConnectTimeout,
		KeepAlive: defaults.HTTPKeepAlive,
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
			ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
			IdleConnTimeout:       defaults.HTTPIdleConnTimeout,
			ExpectContinueTimeout: defaults.HTTPExpectContinueTimeout,
			MaxIdleConnsPerHost:   16,
		},
	}
}

// Forwarder POSTs payloads to a single downstream URL.
type Forwarder struct {
	url    string
	client *http.Client
}

// NewForwarder creates a Forwarder. A nil client uses NewHTTPClient with
// defaults.DownstreamTimeout.
func NewForwarder(url string, client *http.Client) *Forwarder {
	if client == nil {
		client = NewHTTPClient(defaults.DownstreamTimeout)
	}
	return &Forwarder{url: url, client: client}
}

// URL returns the downstream URL.
func (f *Forwarder) URL() string {
	return f.url
}

// Relay sends payload as JSON. It returns nil on 2xx, a
// *DownstreamStatusError on any other status, and a SERVICE_UNAVAILABLE
// StructuredError when the downstream cannot be reached.
func (f *Forwarder) Relay(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to encode downstream payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to build downstream request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		downstreamDuration.WithLabelValues(resultUnavailable).Observe(time.Since(start).Seconds())
		return errors.WrapWithContext(errors.ErrCodeUnavailable, "downstream unreachable", err,
			map[string]any{"url": f.url})
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxDownstreamBodyBytes))
	if err != nil {
		downstreamDuration.WithLabelValues(resultUnavailable).Observe(time.Since(start).Seconds())
		return errors.WrapWithContext(errors.ErrCodeUnavailable, "failed to read downstream response", err,
			map[string]any{"url": f.url, "status": resp.StatusCode})
	}

	downstreamDuration.WithLabelValues(statusClass(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Debug("downstream rejected payload",
			"url", f.url,
			"status", resp.StatusCode,
			"bytes", len(respBody),
		)
		return &DownstreamStatusError{
			StatusCode:  resp.StatusCode,
			Body:        respBody,
			ContentType: resp.Header.Get("Content-Type"),
		}
	}

	return nil
}

func statusClass(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}
