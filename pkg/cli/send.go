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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/rgb-relay/pkg/defaults"
	"github.com/NVIDIA/rgb-relay/pkg/relay"
	"github.com/NVIDIA/rgb-relay/pkg/serializer"
)

const defaultRelayURL = "http://127.0.0.1:5000/rgb"

func sendCmd() *cli.Command {
	return &cli.Command{
		Name:  "send",
		Usage: "Send a payload file to a running relay",
		Description: `Reads a JSON or YAML payload and POSTs it as JSON to the relay.

Example payload.yaml:

  sessionId: demo
  timestamp: 1700000000
  cssBackgroundColorTemplate: "rgb({red}, {green}, {blue})"
  red: 10
  green: 20
  blue: 30

The response status and body are printed. Non-2xx responses fail the command.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Usage:   "Relay endpoint",
				Sources: cli.EnvVars("RGB_RELAY_URL"),
				Value:   defaultRelayURL,
			},
			&cli.StringFlag{
				Name:     "payload",
				Aliases:  []string{"f"},
				Usage:    "Payload file (.json, .yaml, .yml)",
				Required: true,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Request timeout",
				Value: defaults.DownstreamTimeout,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			payload, err := serializer.FromFile[map[string]any](cmd.String("payload"))
			if err != nil {
				return err
			}

			status, body, err := send(ctx, relay.NewHTTPClient(cmd.Duration("timeout")),
				cmd.String("url"), *payload)
			if err != nil {
				return err
			}

			if _, err := fmt.Fprintf(cmd.Root().Writer, "%d %s\n%s\n",
				status, http.StatusText(status), body); err != nil {
				return err
			}

			if status < 200 || status > 299 {
				return fmt.Errorf("relay returned %d", status)
			}
			return nil
		},
	}
}

// send posts payload to url and returns the response status and body.
func send(ctx context.Context, client *http.Client, url string, payload map[string]any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", serializer.ContentTypeJSON)

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to reach relay at %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	slog.Debug("relay responded",
		"url", url,
		"status", resp.StatusCode,
		"duration", time.Since(start))
	return resp.StatusCode, body, nil
}
