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

// Package config loads the relay process configuration.
//
// Sources are layered, later ones winning:
//
//  1. built-in defaults (Default)
//  2. a YAML or JSON file, or a Kubernetes ConfigMap addressed as
//     cm://namespace/name (key config.yaml)
//  3. environment variables
//  4. command line flags, applied by the caller
//
// Example file:
//
//	server:
//	  port: 5000
//	  shutdownTimeout: 30s
//	downstream:
//	  url: http://127.0.0.1:8080/rgb
//	  timeout: 30s
//	messages:
//	  success: Java server is up and happily running!
//	log:
//	  level: info
//
// Environment overrides:
//
//	PORT                           server port
//	RGB_RELAY_DOWNSTREAM_URL       downstream URL
//	RGB_RELAY_DOWNSTREAM_TIMEOUT   downstream timeout (Go duration)
//	LOG_LEVEL                      debug, info, warn or error
//	SHUTDOWN_TIMEOUT_SECONDS       graceful shutdown bound in seconds
//
// Validate must pass before the configuration is used.
package config
