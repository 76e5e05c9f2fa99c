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
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/NVIDIA/rgb-relay/pkg/config"
	"github.com/NVIDIA/rgb-relay/pkg/logging"
	"github.com/NVIDIA/rgb-relay/pkg/relay"
	"github.com/NVIDIA/rgb-relay/pkg/server"

	"golang.org/x/time/rate"
)

const (
	name           = "rgbrelayd"
	versionDefault = "dev"

	// RelayPath is the route of the relay endpoint.
	RelayPath = "/rgb"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/rgb-relay/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve loads configuration from the environment and runs the relay until
// ctx is canceled or the process is signaled. RGB_RELAY_CONFIG optionally
// names a config file or ConfigMap URI.
func Serve(ctx context.Context) error {
	cfg, err := config.Load(ctx, os.Getenv(config.EnvConfigSource))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return ServeWithConfig(ctx, cfg)
}

// ServeWithConfig validates cfg and runs the relay with it.
func ServeWithConfig(ctx context.Context, cfg *config.Config) error {
	logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.Log.Level)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	s, err := NewServer(cfg)
	if err != nil {
		return err
	}

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

// NewServer builds the relay server from cfg without starting it.
func NewServer(cfg *config.Config) (*server.Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	h, err := relay.NewHandler(cfg.RelayConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create relay handler: %w", err)
	}
	slog.Info("relay configured",
		"downstream", h.DownstreamURL(),
		"timeout", cfg.Downstream.Timeout.String(),
		"maxBodyBytes", cfg.Server.MaxBodyBytes,
	)

	return server.New(
		server.WithConfig(serverConfig(cfg)),
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(map[string]http.HandlerFunc{
			RelayPath: h.Handle,
		}),
	), nil
}

// serverConfig maps the process configuration onto pkg/server.
func serverConfig(cfg *config.Config) *server.Config {
	sc := server.NewConfig()
	sc.Address = cfg.Server.Address
	sc.Port = cfg.Server.Port
	sc.RateLimit = rate.Limit(cfg.Server.RateLimit)
	sc.RateLimitBurst = cfg.Server.RateLimitBurst
	if cfg.Server.ReadTimeout > 0 {
		sc.ReadTimeout = cfg.Server.ReadTimeout
	}
	if cfg.Server.WriteTimeout > 0 {
		sc.WriteTimeout = cfg.Server.WriteTimeout
	}
	if cfg.Server.IdleTimeout > 0 {
		sc.IdleTimeout = cfg.Server.IdleTimeout
	}
	if cfg.Server.ShutdownTimeout > 0 {
		sc.ShutdownTimeout = cfg.Server.ShutdownTimeout
	}
	return sc
}
