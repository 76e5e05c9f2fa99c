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

package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/rgb-relay/pkg/api"
	"github.com/NVIDIA/rgb-relay/pkg/config"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the relay HTTP service",
		Description: `Starts the relay on POST /rgb together with /health, /ready and /metrics.

Configuration precedence, lowest first:
  1. built-in defaults
  2. --config file (.yaml, .yml, .json) or ConfigMap (cm://namespace/name)
  3. environment (PORT, RGB_RELAY_DOWNSTREAM_URL, RGB_RELAY_DOWNSTREAM_TIMEOUT,
     LOG_LEVEL, SHUTDOWN_TIMEOUT_SECONDS)
  4. flags on this command`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path or ConfigMap URI (cm://namespace/name)",
				Sources: cli.EnvVars(config.EnvConfigSource),
			},
			&cli.StringFlag{
				Name:  "address",
				Usage: "Listen address (default: all interfaces)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Listen port (default: %d)", config.DefaultPort),
			},
			&cli.StringFlag{
				Name:  "downstream-url",
				Usage: "Downstream URL payloads are relayed to",
			},
			&cli.DurationFlag{
				Name:  "downstream-timeout",
				Usage: "Timeout for a single downstream call",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(ctx, cmd.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			applyServeFlags(cmd, cfg)
			if cmd.Root().IsSet(flagLogLevel) {
				cfg.Log.Level = cmd.Root().String(flagLogLevel)
			}

			return api.ServeWithConfig(ctx, cfg)
		},
	}
}

// applyServeFlags copies explicitly set flags over cfg.
func applyServeFlags(cmd *cli.Command, cfg *config.Config) {
	if cmd.IsSet("address") {
		cfg.Server.Address = cmd.String("address")
	}
	if cmd.IsSet("port") {
		cfg.Server.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("downstream-url") {
		cfg.Downstream.URL = cmd.String("downstream-url")
	}
	if cmd.IsSet("downstream-timeout") {
		cfg.Downstream.Timeout = cmd.Duration("downstream-timeout")
	}
}
