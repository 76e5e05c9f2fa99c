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

	"github.com/NVIDIA/rgb-relay/pkg/relay"
	"github.com/NVIDIA/rgb-relay/pkg/serializer"
)

// renderResult is the structured output of render.
type renderResult struct {
	relay.Color `json:",inline" yaml:",inline"`
	CSS         string `json:"css" yaml:"css"`
}

func renderCmd() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Render a CSS color template with RGB values",
		Description: `Substitutes {red}, {green} and {blue} in the template with the given values.

Each value must be an integer between 0 and 255 and the template must
contain all three placeholders.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "template",
				Usage: "CSS color template",
				Value: "rgb({red}, {green}, {blue})",
			},
			&cli.IntFlag{Name: "red", Usage: "Red component (0-255)", Required: true},
			&cli.IntFlag{Name: "green", Usage: "Green component (0-255)", Required: true},
			&cli.IntFlag{Name: "blue", Usage: "Blue component (0-255)", Required: true},
			newFormatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			color, err := colorFromCmd(cmd)
			if err != nil {
				return err
			}

			format := cmd.String(flagFormat)
			if format == "" {
				_, err := fmt.Fprintln(cmd.Root().Writer, color.CSS())
				return err
			}

			outFormat := serializer.Format(format)
			if outFormat.IsUnknown() {
				return fmt.Errorf("unknown output format: %q", outFormat)
			}

			w := serializer.NewWriter(outFormat, cmd.Root().Writer)
			defer w.Close()
			return w.Serialize(ctx, renderResult{Color: color, CSS: color.CSS()})
		},
	}
}

// colorFromCmd validates the render flags the same way the relay validates
// a payload.
func colorFromCmd(cmd *cli.Command) (relay.Color, error) {
	template := cmd.String("template")
	if !relay.HasPlaceholders(template) {
		return relay.Color{}, fmt.Errorf("template %q must contain %s, %s and %s",
			template, relay.PlaceholderRed, relay.PlaceholderGreen, relay.PlaceholderBlue)
	}

	c := relay.Color{Template: template}
	for _, comp := range []struct {
		name string
		dst  *int
	}{
		{"red", &c.Red},
		{"green", &c.Green},
		{"blue", &c.Blue},
	} {
		v := int64(cmd.Int(comp.name))
		if !relay.ValidComponent(v) {
			return relay.Color{}, fmt.Errorf("%s must be between %d and %d, got %d",
				comp.name, relay.MinComponent, relay.MaxComponent, v)
		}
		*comp.dst = int(v)
	}
	return c, nil
}
