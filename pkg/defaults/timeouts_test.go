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

package defaults

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		// Handler timeouts
		{"RelayHandlerTimeout", RelayHandlerTimeout, 10 * time.Second, 120 * time.Second},

		// Server timeouts
		{"ServerReadTimeout", ServerReadTimeout, 5 * time.Second, 30 * time.Second},
		{"ServerWriteTimeout", ServerWriteTimeout, 15 * time.Second, 120 * time.Second},
		{"ServerIdleTimeout", ServerIdleTimeout, 30 * time.Second, 300 * time.Second},
		{"ServerShutdownTimeout", ServerShutdownTimeout, 10 * time.Second, 60 * time.Second},

		// HTTP client timeouts
		{"DownstreamTimeout", DownstreamTimeout, 10 * time.Second, 60 * time.Second},
		{"HTTPConnectTimeout", HTTPConnectTimeout, 1 * time.Second, 15 * time.Second},

		// K8s timeouts
		{"ConfigMapReadTimeout", ConfigMapReadTimeout, 5 * time.Second, 60 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) is above maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestServerTimeoutRelationships(t *testing.T) {
	if ServerReadTimeout > ServerWriteTimeout {
		t.Errorf("ServerReadTimeout (%v) should not exceed ServerWriteTimeout (%v)",
			ServerReadTimeout, ServerWriteTimeout)
	}

	if ServerIdleTimeout < ServerWriteTimeout {
		t.Errorf("ServerIdleTimeout (%v) should be at least ServerWriteTimeout (%v)",
			ServerIdleTimeout, ServerWriteTimeout)
	}
}

func TestRelayTimeoutRelationships(t *testing.T) {
	// The handler must be able to write a 503 after the downstream gives up.
	if DownstreamTimeout >= RelayHandlerTimeout {
		t.Errorf("DownstreamTimeout (%v) should be less than RelayHandlerTimeout (%v)",
			DownstreamTimeout, RelayHandlerTimeout)
	}
	if RelayHandlerTimeout >= ServerWriteTimeout {
		t.Errorf("RelayHandlerTimeout (%v) should be less than ServerWriteTimeout (%v)",
			RelayHandlerTimeout, ServerWriteTimeout)
	}
}

func TestHTTPClientTimeoutRelationships(t *testing.T) {
	if HTTPConnectTimeout >= DownstreamTimeout {
		t.Errorf("HTTPConnectTimeout (%v) should be less than DownstreamTimeout (%v)",
			HTTPConnectTimeout, DownstreamTimeout)
	}

	if HTTPTLSHandshakeTimeout >= DownstreamTimeout {
		t.Errorf("HTTPTLSHandshakeTimeout (%v) should be less than DownstreamTimeout (%v)",
			HTTPTLSHandshakeTimeout, DownstreamTimeout)
	}

	if HTTPResponseHeaderTimeout >= DownstreamTimeout {
		t.Errorf("HTTPResponseHeaderTimeout (%v) should be less than DownstreamTimeout (%v)",
			HTTPResponseHeaderTimeout, DownstreamTimeout)
	}
}

func TestMaxRequestBodyBytes(t *testing.T) {
	if MaxRequestBodyBytes <= 0 {
		t.Fatalf("MaxRequestBodyBytes must be positive, got %d", MaxRequestBodyBytes)
	}
}
